// Package main provides the entry point for the TAVAAZO content engine CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "content_engine",
	Short: "TAVAAZO marketing content engine",
	Long:  "Content engine generates short-form video marketing content for the TAVAAZO brand and gates every project behind a deterministic QA compliance pass before approval and export.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
