package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/auto-applier/internal/config"
	"github.com/jonathan/auto-applier/internal/observability"
	"github.com/jonathan/auto-applier/internal/pipeline"
	"github.com/jonathan/auto-applier/internal/schemas"
	"github.com/jonathan/auto-applier/internal/stats"
	"github.com/jonathan/auto-applier/internal/types"
	"github.com/spf13/cobra"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run one full application round end-to-end",
	Long: `Orchestrates one application round: browser session -> platform login -> job search -> apply loop -> history persistence.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runApplyCmd,
}

var (
	runConfigPath      string
	runKeywords        string
	runLocation        string
	runDateRange       string
	runExperienceLevel string
	runJobType         string
	runPlatform        string
	runProfilePath     string
	runUserID          string
	runName            string
	runEmail           string
	runPhone           string
	runPassword        string
	runMaxApplications int
	runOnlyEasyApply   bool
	runSkipApplied     bool
	runDelaySeconds    int
	runAPIKey          string
	runSessionDir      string
	runHeadless        bool
	runVerbose         bool
	runDatabaseURL     string
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVarP(&runKeywords, "keywords", "k", "", "Job search keywords")
	runCommand.Flags().StringVarP(&runLocation, "location", "l", "", "Job search location")
	runCommand.Flags().StringVar(&runDateRange, "date-range", "", "Posting age filter: day, week, or month")
	runCommand.Flags().StringVar(&runExperienceLevel, "experience-level", "", "Experience filter: entry, mid, or senior")
	runCommand.Flags().StringVar(&runJobType, "job-type", "", "Job type filter: fulltime, parttime, or contract")
	runCommand.Flags().StringVarP(&runPlatform, "platform", "p", "", "Job board to run against (default linkedin)")

	runCommand.Flags().StringVar(&runProfilePath, "profile", "", "Path to candidate profile JSON (validated against the profile schema)")
	runCommand.Flags().StringVar(&runUserID, "user-id", "", "User ID that scopes history and stats rows")
	runCommand.Flags().StringVarP(&runName, "name", "n", "", "Candidate name (used when --profile is not given)")
	runCommand.Flags().StringVar(&runEmail, "email", "", "Candidate email, also the platform login identity")
	runCommand.Flags().StringVar(&runPhone, "phone", "", "Candidate phone")
	runCommand.Flags().StringVar(&runPassword, "password", "", "Platform password (omit to log in manually in the opened browser)")

	runCommand.Flags().IntVar(&runMaxApplications, "max-applications", 0, "Quota of application attempts per run")
	runCommand.Flags().BoolVar(&runOnlyEasyApply, "only-easy-apply", true, "Skip listings without an in-page apply flow")
	runCommand.Flags().BoolVar(&runSkipApplied, "skip-applied", true, "Skip jobs already applied to in earlier runs")
	runCommand.Flags().IntVar(&runDelaySeconds, "delay", 0, "Base delay between applications in seconds")

	runCommand.Flags().StringVar(&runSessionDir, "session-dir", "", "Directory for persisted login sessions")
	runCommand.Flags().BoolVar(&runHeadless, "headless", false, "Run the browser headless (manual login needs a visible window)")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "Gemini API Key for cover letter polish (optional, defaults to GEMINI_API_KEY env var)")

	// Database URL for application history persistence
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(runCommand)
}

func runApplyCmd(cmd *cobra.Command, _ []string) error {
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
	if cmd.Flags().Changed("keywords") {
		cfg.Keywords = runKeywords
	}
	if cmd.Flags().Changed("location") {
		cfg.Location = runLocation
	}
	if cmd.Flags().Changed("date-range") {
		cfg.DateRange = runDateRange
	}
	if cmd.Flags().Changed("experience-level") {
		cfg.ExperienceLevel = runExperienceLevel
	}
	if cmd.Flags().Changed("job-type") {
		cfg.JobType = runJobType
	}
	if cmd.Flags().Changed("platform") {
		cfg.Platform = runPlatform
	}
	if cmd.Flags().Changed("user-id") {
		cfg.UserID = runUserID
	}
	if cmd.Flags().Changed("name") {
		cfg.Name = runName
	}
	if cmd.Flags().Changed("email") {
		cfg.Email = runEmail
	}
	if cmd.Flags().Changed("phone") {
		cfg.Phone = runPhone
	}
	if cmd.Flags().Changed("max-applications") {
		cfg.MaxApplications = runMaxApplications
	}
	if cmd.Flags().Changed("only-easy-apply") {
		cfg.OnlyEasyApply = runOnlyEasyApply
	}
	if cmd.Flags().Changed("skip-applied") {
		cfg.SkipApplied = runSkipApplied
	}
	if cmd.Flags().Changed("delay") {
		cfg.DelaySeconds = runDelaySeconds
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = runAPIKey
	}
	if cmd.Flags().Changed("session-dir") {
		cfg.SessionDir = runSessionDir
	}
	if cmd.Flags().Changed("headless") {
		cfg.Headless = runHeadless
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = runDatabaseURL
	}

	// Step 3: Apply defaults for unset values
	defaults := config.Config{
		Location:   "Remote",
		Platform:   "linkedin",
		SessionDir: defaultSessionDir(),
	}
	cfg = cfg.MergeWithDefaults(defaults)
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Step 4: Validate required fields
	if cfg.Keywords == "" {
		return fmt.Errorf("--keywords must be provided (via flag or config)")
	}

	// Step 5: Resolve the candidate profile
	prof, err := resolveProfile(runProfilePath, &cfg)
	if err != nil {
		return err
	}

	// Step 6: API key and database URL fall back to the environment
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	platform, _ := types.ParsePlatform(cfg.Platform)

	opts := pipeline.RunOptions{
		Profile: prof,
		Criteria: types.SearchCriteria{
			Keywords:        cfg.Keywords,
			Location:        cfg.Location,
			DateRange:       cfg.DateRange,
			ExperienceLevel: cfg.ExperienceLevel,
			JobType:         cfg.JobType,
		},
		Platform: platform,
		Settings: types.ApplySettings{
			MaxApplicationsPerRun: cfg.MaxApplications,
			OnlyEasyApply:         cfg.OnlyEasyApply,
			SkipAppliedJobs:       cfg.SkipApplied,
			DelaySeconds:          cfg.DelaySeconds,
		},
		Identity:    prof.Email,
		Password:    runPassword,
		UserID:      cfg.UserID,
		DatabaseURL: cfg.DatabaseURL,
		Stats:       stats.NewRegistry(),
		SessionDir:  cfg.SessionDir,
		APIKey:      cfg.APIKey,
		Headless:    cfg.Headless,
		Verbose:     cfg.Verbose,
	}

	report, err := pipeline.Run(ctx, opts)
	if report != nil {
		printReport(os.Stdout, report)
		if cfg.Verbose {
			printer := observability.NewPrinter(os.Stdout)
			printer.PrintApplicationResults(report.Results)
			if cfg.UserID != "" {
				printer.PrintUserStats(opts.Stats.Get(cfg.UserID))
			}
		}
	}
	return err
}

// resolveProfile loads the candidate profile from a JSON file when given,
// or builds a minimal profile from the config's candidate fields.
func resolveProfile(path string, cfg *config.Config) (*types.UserProfile, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read profile file %s: %w", path, err)
		}
		if err := schemas.ValidateProfileJSON(string(data)); err != nil {
			return nil, fmt.Errorf("profile file %s is invalid: %w", path, err)
		}
		var prof types.UserProfile
		if err := json.Unmarshal(data, &prof); err != nil {
			return nil, fmt.Errorf("failed to parse profile JSON: %w", err)
		}
		return &prof, nil
	}

	if cfg.Email == "" {
		return nil, fmt.Errorf("--email must be provided when --profile is not given")
	}

	first, last := splitName(cfg.Name)
	return &types.UserProfile{
		Email:     cfg.Email,
		FirstName: first,
		LastName:  last,
		Phone:     cfg.Phone,
	}, nil
}

// splitName splits a full name into first and last parts. Everything after
// the first word is the last name.
func splitName(name string) (string, string) {
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}

// defaultSessionDir places persisted sessions under the user's home
// directory, falling back to the working directory.
func defaultSessionDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".auto-applier/sessions"
	}
	return home + "/.auto-applier/sessions"
}

// printReport writes a human-readable run summary.
func printReport(w *os.File, report *pipeline.RunReport) {
	_, _ = fmt.Fprintf(w, "\nRun summary for %s:\n", report.Platform)
	_, _ = fmt.Fprintf(w, "  Jobs found:  %d\n", report.JobsFound)
	_, _ = fmt.Fprintf(w, "  Attempted:   %d\n", report.Attempted)
	_, _ = fmt.Fprintf(w, "  Succeeded:   %d\n", report.Succeeded)
	_, _ = fmt.Fprintf(w, "  Failed:      %d\n", report.Failed)
	_, _ = fmt.Fprintf(w, "  Skipped:     %d\n", report.Skipped)
	for _, res := range report.Results {
		marker := "-"
		switch res.Status {
		case types.StatusSuccess:
			marker = "+"
		case types.StatusFailed:
			marker = "x"
		}
		line := fmt.Sprintf("  %s %s at %s [%s]", marker, res.JobTitle, res.Company, res.Status)
		if res.Reason != "" {
			line += ": " + res.Reason
		}
		_, _ = fmt.Fprintln(w, line)
	}
}
