package main

import (
	"fmt"
	"os"

	"github.com/jonathan/auto-applier/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort       int
	serveSessionDir string
	serveHeadless   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for profiles, job search, and apply runs.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveSessionDir, "session-dir", defaultSessionDir(), "Directory for persisted login sessions")
	serveCmd.Flags().BoolVar(&serveHeadless, "headless", true, "Run browsers headless")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	// Get database URL from environment
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	// Cover letter polish is optional for the server
	apiKey := os.Getenv("GEMINI_API_KEY")

	cfg := server.Config{
		Port:        servePort,
		DatabaseURL: databaseURL,
		APIKey:      apiKey,
		SessionDir:  serveSessionDir,
		Headless:    serveHeadless,
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
