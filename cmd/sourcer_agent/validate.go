package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/talent-sourcer/internal/schemas"
	"github.com/jonathan/talent-sourcer/internal/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a requirement set file",
	Long:  "Validates a requirement set JSON file against the schema and structural rules without issuing any search calls.",
	RunE:  runValidate,
}

var validateInput string

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "in", "i", "", "Path to requirement set JSON file (required)")

	if err := validateCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, _ []string) error {
	if _, err := os.Stat(validateInput); os.IsNotExist(err) {
		return fmt.Errorf("requirements file not found: %s", validateInput)
	}

	if err := schemas.ValidateRequirementsFile(validateInput); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	content, err := os.ReadFile(validateInput)
	if err != nil {
		return fmt.Errorf("failed to read requirements file: %w", err)
	}

	var reqs types.Requirements
	if err := json.Unmarshal(content, &reqs); err != nil {
		return fmt.Errorf("failed to unmarshal requirements JSON: %w", err)
	}

	reqs.ApplyDefaults()
	if err := reqs.Validate(); err != nil {
		return fmt.Errorf("requirements validation failed: %w", err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Validation passed: %s\n", validateInput)
	return nil
}
