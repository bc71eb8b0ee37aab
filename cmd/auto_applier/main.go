// Package main provides the entry point for the auto-applier CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "auto_applier",
	Short: "Job Auto-Applier",
	Long:  "Job Auto-Applier searches job boards, signs in with persisted browser sessions, and submits easy-apply applications under a per-run quota, via CLI or REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
