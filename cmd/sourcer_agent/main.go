// Package main provides the entry point for the talent sourcer CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sourcer_agent",
	Short: "Candidate sourcing engine",
	Long:  "Talent Sourcer turns a structured recruitment requirement set into a ranked candidate list by planning, exploring, and exploiting searches against a people-search service under strict rate and credit budgets.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
