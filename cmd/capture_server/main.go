// Package main provides the entry point for the job capture HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "capture_server",
	Short: "Job Capture HTTP API Server",
	Long:  "Job Capture turns raw job posting text into structured, deduplicated job documents with per-field confidence, served over a streaming REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
