package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/clipforge/clipforge/internal/pipeline"
)

const defaultPlanMaxResults = 10

// LoadCrawlPlans reads a YAML crawl plan file. Each entry needs a query;
// max_results defaults to 10.
func LoadCrawlPlans(path string) ([]pipeline.CrawlPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var plans []pipeline.CrawlPlan
	if err := yaml.Unmarshal(data, &plans); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if len(plans) == 0 {
		return nil, fmt.Errorf("%s contains no plans", path)
	}
	for i := range plans {
		if plans[i].Query == "" {
			return nil, fmt.Errorf("plan %d has no query", i+1)
		}
		if plans[i].MaxResults <= 0 {
			plans[i].MaxResults = defaultPlanMaxResults
		}
	}
	return plans, nil
}
