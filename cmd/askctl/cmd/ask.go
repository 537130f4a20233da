package cmd

import (
	"context"
	"fmt"
	"strings"

	"docqa-orchestrator/internal/usecase"

	"github.com/spf13/cobra"
)

var (
	askMaxTokens int
	askShowCtx   bool
)

var askCmd = &cobra.Command{
	Use:   "ask [query]",
	Short: "Retrieve supporting passages and generate a grounded answer",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		var output usecase.AnswerOutput
		payload := map[string]any{
			"query":         query,
			"use_expansion": expand,
			"max_tokens":    askMaxTokens,
		}
		if err := postJSON(ctx, serverURL, "/v1/query/answer", payload, &output); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, output.ActualOutput)
		if askShowCtx && len(output.RetrievalContextUsed) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Sources:")
			for _, entry := range output.RetrievalContextUsed {
				fmt.Fprintf(out, "  - %s\n", entry.SourceDocument)
			}
		}
		return nil
	},
}

func init() {
	askCmd.Flags().IntVar(&askMaxTokens, "max-tokens", 0, "generation token budget (0 uses the server default)")
	askCmd.Flags().BoolVar(&askShowCtx, "sources", false, "list the source documents after the answer")
	rootCmd.AddCommand(askCmd)
}
