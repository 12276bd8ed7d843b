package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clipforge/clipforge/internal/pipeline"
)

var crawlCmd = &cobra.Command{
	Use:   "crawl [plans.yaml]",
	Short: "Discover licensed source videos",
	Long: `Crawl runs discovery queries and tracks each previously unseen, openly
licensed candidate as a pending job. Re-running the same queries is
idempotent.

Queries come from a YAML plan file, or from --query for a one-off search.

Example plan file:

  - query: "golang concurrency tutorial"
    language: en
    max_results: 25
  - query: "rust ownership explained"
    language: en

Examples:
  pipeline crawl plans.yaml
  pipeline crawl --query "golang concurrency tutorial" --language en
  pipeline crawl plans.yaml --fetch`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCrawl,
}

var (
	crawlQuery      string
	crawlLanguage   string
	crawlMaxResults int64
	crawlFetch      bool
)

func init() {
	crawlCmd.Flags().StringVarP(&crawlQuery, "query", "q", "", "single discovery query instead of a plan file")
	crawlCmd.Flags().StringVarP(&crawlLanguage, "language", "l", "en", "language for --query")
	crawlCmd.Flags().Int64Var(&crawlMaxResults, "max-results", defaultPlanMaxResults, "max candidates for --query")
	crawlCmd.Flags().BoolVar(&crawlFetch, "fetch", false,
		"also download the raw assets for pending jobs after discovery")
}

func crawlPlans(args []string) ([]pipeline.CrawlPlan, error) {
	switch {
	case crawlQuery != "" && len(args) > 0:
		return nil, fmt.Errorf("pass either a plan file or --query, not both")
	case crawlQuery != "":
		return []pipeline.CrawlPlan{{
			Query:      crawlQuery,
			Language:   crawlLanguage,
			MaxResults: crawlMaxResults,
		}}, nil
	case len(args) > 0:
		return LoadCrawlPlans(args[0])
	default:
		return nil, fmt.Errorf("a plan file or --query is required")
	}
}

func runCrawl(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	plans, err := crawlPlans(args)
	if err != nil {
		return err
	}

	stages, err := buildStages(ctx)
	if err != nil {
		return err
	}

	summary, err := stages.crawl.Discover(ctx, plans)
	if err != nil {
		return fmt.Errorf("discover: %w", err)
	}
	printSummary("discover", summary)

	if !crawlFetch {
		return nil
	}

	fetchSummary, err := newRunner().RunStage(ctx, stages.crawl)
	if err != nil {
		return fmt.Errorf("fetch raw assets: %w", err)
	}
	printSummary("crawl", fetchSummary)
	return nil
}
