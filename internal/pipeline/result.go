package pipeline

import "sync"

// Outcome is what a stage did with one job.
type Outcome string

const (
	// OutcomeAdvanced means the job moved to the stage's target status.
	OutcomeAdvanced Outcome = "advanced"
	// OutcomeSkipped means the job was left untouched for a later run.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeRejected means the quality gate sent the job to rejected.
	OutcomeRejected Outcome = "rejected"
	// OutcomeFailed means the job was moved to failed.
	OutcomeFailed Outcome = "failed"
)

// Result is the per-job outcome of one stage pass.
type Result struct {
	Outcome Outcome
	Reason  string
}

// RunSummary accumulates per-stage counters across a sweep. Safe for
// concurrent use by the worker pool.
type RunSummary struct {
	mu        sync.Mutex
	Processed int
	Advanced  int
	Skipped   int
	Rejected  int
	Failed    int
}

func (s *RunSummary) record(r Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Processed++
	switch r.Outcome {
	case OutcomeAdvanced:
		s.Advanced++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeRejected:
		s.Rejected++
	case OutcomeFailed:
		s.Failed++
	}
}
