// Package pipeline contains the content pipeline stages and their run
// coordinator. Each stage drains jobs from one lifecycle status and either
// advances, skips, rejects, or fails them. Stages are isolated per job: one
// bad job never aborts a sweep.
package pipeline

import (
	"context"

	"github.com/clipforge/clipforge/pkg/models"
)

// Stage processes jobs sitting in one lifecycle status.
type Stage interface {
	Name() string
	// Source is the job status this stage drains.
	Source() models.JobStatus
	// Process handles one job. A returned error is classified by the
	// coordinator: transient errors leave the job in place, the rest move
	// it to failed.
	Process(ctx context.Context, job *models.ContentJob) (Result, error)
}
