// Package main is the entry point for the askctl CLI.
package main

import (
	"os"

	"docqa-orchestrator/cmd/askctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
