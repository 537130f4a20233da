package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"docqa-orchestrator/internal/usecase/retrieval"

	"github.com/spf13/cobra"
)

var retrieveAsJSON bool

var retrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Run the retrieval pipeline and show the ranked passages",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		var bundle retrieval.ContextBundle
		payload := map[string]any{"query": query, "use_expansion": expand}
		if err := postJSON(ctx, serverURL, "/v1/query/retrieve", payload, &bundle); err != nil {
			return err
		}

		if retrieveAsJSON {
			return printJSON(cmd.OutOrStdout(), bundle)
		}
		printBundle(cmd.OutOrStdout(), &bundle)
		return nil
	},
}

func init() {
	retrieveCmd.Flags().BoolVar(&retrieveAsJSON, "json", false, "print the raw context bundle as JSON")
	rootCmd.AddCommand(retrieveCmd)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printBundle(w io.Writer, bundle *retrieval.ContextBundle) {
	if len(bundle.Entries) == 0 {
		fmt.Fprintln(w, "No passages found.")
		return
	}
	for i, entry := range bundle.Entries {
		fmt.Fprintf(w, "%d. [%.4f] %s\n", i+1, entry.RelevanceScore, entry.SourceDocument)
		fmt.Fprintf(w, "   %s\n", entry.TextPreview)
	}
}
