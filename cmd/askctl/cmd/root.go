// Package cmd contains the askctl CLI commands.
package cmd

import (
	"time"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	expand    bool
	timeout   time.Duration
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "askctl",
	Short: "Query the document QA service from the command line",
	Long: `askctl talks to a running docqa-orchestrator instance.

Example usage:
  askctl retrieve "how does leader election work?"
  askctl ask --expand "what is a write-ahead log?"`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:9020", "orchestrator base URL")
	rootCmd.PersistentFlags().BoolVar(&expand, "expand", true, "rewrite the query into multiple variants before searching")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "request timeout")
}
