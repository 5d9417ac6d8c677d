package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/talent-sourcer/internal/config"
	"github.com/jonathan/talent-sourcer/internal/observability"
	"github.com/jonathan/talent-sourcer/internal/planner"
	"github.com/jonathan/talent-sourcer/internal/schemas"
	"github.com/jonathan/talent-sourcer/internal/search"
	"github.com/jonathan/talent-sourcer/internal/types"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full sourcing engine end-to-end",
	Long: `Executes the entire sourcing run: intake -> planning -> exploration -> selection -> exploitation -> analysis -> summary.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runSourcerCmd,
}

var (
	runConfigPath   string
	runRequirements string
	runOutput       string
	runAPIBaseURL   string
	runAPIKey       string
	runTargetCount  int
	runCreditsCap   int
	runPageLimit    int
	runPhaseTimeout int
	runVerbose      bool
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVarP(&runRequirements, "requirements", "r", "", "Path to requirement set JSON file")
	runCommand.Flags().StringVarP(&runOutput, "out", "o", "", "Path to write the run report JSON (defaults to stdout)")
	runCommand.Flags().StringVar(&runAPIBaseURL, "api-base-url", "", "People-search service base URL")
	runCommand.Flags().IntVar(&runTargetCount, "target", 0, "Candidates to gather before stopping early")
	runCommand.Flags().IntVar(&runCreditsCap, "credits-cap", 0, "Hard credit ceiling for the run")
	runCommand.Flags().IntVar(&runPageLimit, "page-limit", 0, "Records per page (max 200)")
	runCommand.Flags().IntVar(&runPhaseTimeout, "phase-timeout", 0, "Per-phase deadline in seconds")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from env var PEOPLEDB_API_KEY
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "People-search API key (optional, defaults to PEOPLEDB_API_KEY env var)")

	rootCmd.AddCommand(runCommand)
}

func runSourcerCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if runConfigPath != "" {
		loadedCfg, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := loadedCfg.Validate(); err != nil {
			return err
		}

		cfg = *loadedCfg
		if runVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", runConfigPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("requirements") {
		cfg.Requirements = runRequirements
	}
	if cmd.Flags().Changed("out") {
		cfg.Output = runOutput
	}
	if cmd.Flags().Changed("api-base-url") {
		cfg.APIBaseURL = runAPIBaseURL
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = runAPIKey
	}
	if cmd.Flags().Changed("target") {
		cfg.TargetCount = runTargetCount
	}
	if cmd.Flags().Changed("credits-cap") {
		cfg.CreditsCap = runCreditsCap
	}
	if cmd.Flags().Changed("page-limit") {
		cfg.PageLimit = runPageLimit
	}
	if cmd.Flags().Changed("phase-timeout") {
		cfg.PhaseTimeoutSeconds = runPhaseTimeout
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}

	// Step 3: Apply defaults for unset values
	defaults := config.Config{
		PhaseTimeoutSeconds: 120,
	}
	cfg = cfg.MergeWithDefaults(defaults)

	// Step 4: Validate required fields
	if cfg.Requirements == "" {
		return fmt.Errorf("--requirements must be provided (via flag or config)")
	}
	if cfg.APIBaseURL == "" {
		return fmt.Errorf("--api-base-url must be provided (via flag or config)")
	}

	// Step 5: API key handling
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("PEOPLEDB_API_KEY")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("PEOPLEDB_API_KEY environment variable or --api-key flag is required")
	}

	// Step 6: Load and validate the requirement set
	reqs, err := loadRequirements(cfg.Requirements)
	if err != nil {
		return err
	}
	if cfg.TargetCount > 0 {
		reqs.TargetCount = cfg.TargetCount
	}
	if cfg.CreditsCap > 0 {
		reqs.CreditsCap = cfg.CreditsCap
	}
	if cfg.PageLimit > 0 {
		reqs.PageLimit = cfg.PageLimit
	}

	printer := observability.NewPrinter(os.Stdout)
	if cfg.Verbose {
		printer.PrintRequirements(reqs)
	}

	// Step 7: Run the engine
	client := search.NewHTTPClient(search.DefaultOptions(cfg.APIBaseURL, cfg.APIKey))
	p := planner.New(client, planner.Options{
		PhaseTimeout: time.Duration(cfg.PhaseTimeoutSeconds) * time.Second,
		Verbose:      cfg.Verbose,
	})

	report, err := p.Run(ctx, reqs)
	if err != nil {
		return fmt.Errorf("sourcing run failed: %w", err)
	}

	if cfg.Verbose {
		printer.PrintVariants(report.Variants)
		printer.PrintRankedCandidates(report.Ranked)
		printer.PrintRunReport(report)
	}

	return writeReport(report, cfg.Output)
}

// loadRequirements reads a requirement set file, validating it against the
// JSON schema before unmarshalling. Schema load problems downgrade to a
// warning; actual document violations are fatal.
func loadRequirements(path string) (*types.Requirements, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("requirements file not found: %s", path)
	}

	if err := schemas.ValidateRequirementsFile(path); err != nil {
		var schemaLoadErr *schemas.SchemaLoadError
		if errors.As(err, &schemaLoadErr) {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: Could not validate requirements against schema: %v\n", err)
		} else {
			return nil, fmt.Errorf("invalid requirements file: %w", err)
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read requirements file: %w", err)
	}

	var reqs types.Requirements
	if err := json.Unmarshal(content, &reqs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal requirements JSON: %w", err)
	}

	return &reqs, nil
}

func writeReport(report *types.RunReport, outputPath string) error {
	jsonBytes, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run report to JSON: %w", err)
	}

	if outputPath == "" {
		_, _ = fmt.Fprintln(os.Stdout, string(jsonBytes))
		return nil
	}

	outputDir := filepath.Dir(outputPath)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write run report: %w", err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Run report written: %s\n", outputPath)
	return nil
}
