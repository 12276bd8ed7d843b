package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/clipforge/clipforge/internal/cache"
	"github.com/clipforge/clipforge/internal/store"
	"github.com/clipforge/clipforge/pkg/models"
)

// ErrRunLocked is returned when another runner already holds a stage's run
// lock. Not an error condition for schedulers; skip and try next tick.
var ErrRunLocked = errors.New("stage run lock held by another runner")

const jobStatusTTL = 30 * time.Minute

// Runner coordinates stage sweeps: one run lock per stage, a bounded worker
// pool, and per-job isolation.
type Runner struct {
	store     store.Store
	cache     cache.Cache
	log       *slog.Logger
	batchSize int
	workers   int
	lockTTL   time.Duration
}

func NewRunner(st store.Store, ca cache.Cache, log *slog.Logger, batchSize, workers int, lockTTL time.Duration) *Runner {
	if batchSize <= 0 {
		batchSize = 10
	}
	if workers <= 0 {
		workers = 1
	}
	return &Runner{
		store:     st,
		cache:     ca,
		log:       log,
		batchSize: batchSize,
		workers:   workers,
		lockTTL:   lockTTL,
	}
}

// Run sweeps each stage once, in order. A held lock or an empty batch moves
// on to the next stage; sweep errors are logged and do not stop the run.
func (r *Runner) Run(ctx context.Context, stages []Stage) {
	for _, st := range stages {
		summary, err := r.RunStage(ctx, st)
		switch {
		case errors.Is(err, ErrRunLocked):
			r.log.Info("stage already running elsewhere", "stage", st.Name())
		case err != nil:
			r.log.Error("stage sweep failed", "stage", st.Name(), "error", err)
		default:
			r.log.Info("stage sweep complete",
				"stage", st.Name(),
				"processed", summary.Processed,
				"advanced", summary.Advanced,
				"skipped", summary.Skipped,
				"rejected", summary.Rejected,
				"failed", summary.Failed,
			)
		}
	}
}

// RunStage drains one batch of the stage's source status under the stage run
// lock.
func (r *Runner) RunStage(ctx context.Context, st Stage) (*RunSummary, error) {
	token, ok, err := r.cache.AcquireRunLock(ctx, st.Name(), r.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquiring run lock: %w", err)
	}
	if !ok {
		return nil, ErrRunLocked
	}
	defer func() {
		if err := r.cache.ReleaseRunLock(context.WithoutCancel(ctx), st.Name(), token); err != nil {
			r.log.Warn("releasing run lock", "stage", st.Name(), "error", err)
		}
	}()

	jobs, err := r.store.ListJobsByStatus(ctx, st.Source(), r.batchSize)
	if err != nil {
		return nil, fmt.Errorf("listing %s jobs: %w", st.Source(), err)
	}

	summary := &RunSummary{}
	jobCh := make(chan *models.ContentJob)

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				summary.record(r.processJob(ctx, st, job))
			}
		}()
	}

	for _, job := range jobs {
		jobCh <- job
	}
	close(jobCh)
	wg.Wait()

	return summary, nil
}

// processJob runs one job through the stage, recovering panics and turning
// classified errors into the right writer action.
func (r *Runner) processJob(ctx context.Context, st Stage, job *models.ContentJob) (res Result) {
	from := job.Status
	log := r.log.With("stage", st.Name(), "job_id", job.ID, "source_video_id", job.SourceVideoID)

	defer func() {
		if p := recover(); p != nil {
			log.Error("panic processing job", "panic", p)
			res = r.failJob(ctx, log, job, from, fmt.Sprintf("panic: %v", p))
		}
	}()

	result, err := st.Process(ctx, job)
	if err != nil {
		if IsTransient(err) {
			log.Warn("transient stage error, job retained", "error", err)
			return Result{Outcome: OutcomeSkipped, Reason: err.Error()}
		}
		if errors.Is(err, store.ErrConflict) {
			log.Info("lost write race, job left to winner")
			return Result{Outcome: OutcomeSkipped, Reason: "write conflict"}
		}
		log.Error("stage failed job", "error", err)
		return r.failJob(ctx, log, job, from, err.Error())
	}

	if result.Outcome == OutcomeAdvanced || result.Outcome == OutcomeRejected {
		_ = r.cache.SetJobStatus(ctx, job.ID, string(job.Status), jobStatusTTL)
		log.Info("job processed", "outcome", result.Outcome, "status", job.Status)
	}
	return result
}

func (r *Runner) failJob(ctx context.Context, log *slog.Logger, job *models.ContentJob, from models.JobStatus, reason string) Result {
	if err := r.store.MarkJobFailed(ctx, job.ID, from, reason); err != nil {
		log.Error("marking job failed", "error", err)
		return Result{Outcome: OutcomeSkipped, Reason: reason}
	}
	_ = r.cache.SetJobStatus(ctx, job.ID, string(models.StatusFailed), jobStatusTTL)
	return Result{Outcome: OutcomeFailed, Reason: reason}
}
