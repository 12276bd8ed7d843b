package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clipforge/clipforge/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run [stage]",
	Short: "Sweep pipeline stages over their pending jobs",
	Long: `Run sweeps each stage over the jobs waiting in its source status, in
pipeline order: crawl, transcribe, analyze, edit, review.

With a stage name, only that stage is swept.

Examples:
  pipeline run
  pipeline run transcribe`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	stages, err := buildStages(ctx)
	if err != nil {
		return err
	}
	runner := newRunner()

	if len(args) == 0 {
		runner.Run(ctx, stages.all)
		return nil
	}

	var stage pipeline.Stage
	for _, s := range stages.all {
		if s.Name() == args[0] {
			stage = s
			break
		}
	}
	if stage == nil {
		return fmt.Errorf("unknown stage %q", args[0])
	}

	summary, err := runner.RunStage(ctx, stage)
	if errors.Is(err, pipeline.ErrRunLocked) {
		fmt.Printf("Stage %s is already being swept by another runner.\n", stage.Name())
		return nil
	}
	if err != nil {
		return fmt.Errorf("run %s: %w", stage.Name(), err)
	}

	printSummary(stage.Name(), summary)
	return nil
}

func printSummary(name string, s *pipeline.RunSummary) {
	fmt.Printf("%s: processed=%d advanced=%d skipped=%d rejected=%d failed=%d\n",
		name, s.Processed, s.Advanced, s.Skipped, s.Rejected, s.Failed)
}
