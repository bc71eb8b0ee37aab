package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/auto-applier/internal/observability"
	"github.com/jonathan/auto-applier/internal/pipeline"
	"github.com/jonathan/auto-applier/internal/types"
	"github.com/spf13/cobra"
)

var searchCommand = &cobra.Command{
	Use:   "search",
	Short: "Search a job board without applying",
	Long:  `Runs the scrape pass only: no login, no applications. Prints matching listings.`,
	RunE:  runSearchCmd,
}

var (
	searchKeywords        string
	searchLocation        string
	searchDateRange       string
	searchExperienceLevel string
	searchJobType         string
	searchPlatform        string
	searchJSON            bool
	searchHeadless        bool
	searchVerbose         bool
)

func init() {
	searchCommand.Flags().StringVarP(&searchKeywords, "keywords", "k", "", "Job search keywords (required)")
	searchCommand.Flags().StringVarP(&searchLocation, "location", "l", "Remote", "Job search location")
	searchCommand.Flags().StringVar(&searchDateRange, "date-range", "", "Posting age filter: day, week, or month")
	searchCommand.Flags().StringVar(&searchExperienceLevel, "experience-level", "", "Experience filter: entry, mid, or senior")
	searchCommand.Flags().StringVar(&searchJobType, "job-type", "", "Job type filter: fulltime, parttime, or contract")
	searchCommand.Flags().StringVarP(&searchPlatform, "platform", "p", "linkedin", "Job board to search")
	searchCommand.Flags().BoolVar(&searchJSON, "json", false, "Print raw JSON instead of a table")
	searchCommand.Flags().BoolVar(&searchHeadless, "headless", true, "Run the browser headless")
	searchCommand.Flags().BoolVarP(&searchVerbose, "verbose", "v", false, "Print detailed debug information")

	_ = searchCommand.MarkFlagRequired("keywords")
	rootCmd.AddCommand(searchCommand)
}

func runSearchCmd(_ *cobra.Command, _ []string) error {
	platform, ok := types.ParsePlatform(searchPlatform)
	if !ok {
		return fmt.Errorf("unknown platform %q (known: %v)", searchPlatform, types.KnownPlatforms())
	}

	criteria := types.SearchCriteria{
		Keywords:        searchKeywords,
		Location:        searchLocation,
		DateRange:       searchDateRange,
		ExperienceLevel: searchExperienceLevel,
		JobType:         searchJobType,
	}

	jobs, err := pipeline.SearchJobs(context.Background(), platform, criteria, searchHeadless, searchVerbose)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(jobs)
	}

	if searchVerbose {
		observability.NewPrinter(os.Stdout).PrintSearchResults(jobs)
	}

	fmt.Printf("Found %d listings on %s:\n", len(jobs), platform)
	for _, job := range jobs {
		line := fmt.Sprintf("  %s at %s (%s)", job.Title, job.Company, job.Location)
		if job.EasyApply {
			line += " [easy apply]"
		}
		fmt.Println(line)
		fmt.Printf("    %s\n", job.URL)
	}
	return nil
}
