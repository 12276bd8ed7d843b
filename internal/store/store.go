package store

import (
	"context"
	"errors"
	"time"

	"github.com/clipforge/clipforge/pkg/models"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// ErrConflict is returned when a guarded state change loses to a concurrent
// writer or targets a row that already left the expected state.
var ErrConflict = errors.New("state conflict")

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error

	// Jobs. CreateJob returns ErrDuplicateKey when a live job already exists
	// for the same source video, which is how re-crawls stay idempotent.
	CreateJob(ctx context.Context, job *models.ContentJob) error
	GetJob(ctx context.Context, id uuid.UUID) (*models.ContentJob, error)
	GetJobBySourceVideoID(ctx context.Context, sourceVideoID string) (*models.ContentJob, error)
	ListJobsByStatus(ctx context.Context, status models.JobStatus, limit int) ([]*models.ContentJob, error)
	// AdvanceJob persists the job's stage output together with its status
	// transition. The write is guarded on the expected previous status so a
	// lost race surfaces as ErrConflict instead of a silent overwrite.
	AdvanceJob(ctx context.Context, job *models.ContentJob, from models.JobStatus) error
	MarkJobFailed(ctx context.Context, id uuid.UUID, from models.JobStatus, reason string) error
	SoftDeleteJob(ctx context.Context, id uuid.UUID, actor string) error

	// Pending review queue.
	CreatePendingReviewItem(ctx context.Context, item *models.PendingReviewItem) error
	GetPendingReviewItem(ctx context.Context, id uuid.UUID) (*models.PendingReviewItem, error)
	ListPendingReviewItems(ctx context.Context, filter ReviewFilter) ([]*models.PendingReviewItem, int, error)
	UpdatePendingMetadata(ctx context.Context, id uuid.UUID, patch MetadataPatch, editor string) (*models.PendingReviewItem, error)
	// ClaimReviewDecision is the one-way approve/reject gate: a conditional
	// update that only succeeds while the item is still pending review.
	// The loser of a race gets ErrConflict and nothing is mutated.
	ClaimReviewDecision(ctx context.Context, id uuid.UUID, decision models.ReviewStatus, reviewer, reason string) error
	// RevertReviewDecision compensates a claimed approval whose publish
	// failed, returning the item to the queue.
	RevertReviewDecision(ctx context.Context, id uuid.UUID) error
	SetPublished(ctx context.Context, itemID, jobID, contentID uuid.UUID) error
	SoftDeletePendingReviewItem(ctx context.Context, id uuid.UUID, actor string) error

	ReviewDashboard(ctx context.Context, since time.Time) (*Dashboard, error)

	PublishTarget
}

// PublishTarget is the three-table write contract the publish coordinator
// depends on. The production records are owned by the social backend; this
// is the only write path into them from the pipeline side.
type PublishTarget interface {
	// CreateContentRecords inserts the content, metadata, and interaction
	// rows in a single transaction. All-or-nothing.
	CreateContentRecords(ctx context.Context, content *models.PublishedContent, meta *models.ContentMetadata, inter *models.ContentInteraction) error
	GetPublishedContent(ctx context.Context, id uuid.UUID) (*models.PublishedContent, error)
}

// ReviewFilter selects and pages pending review items.
type ReviewFilter struct {
	Status models.ReviewStatus
	Page   int
	Limit  int
}

// MetadataPatch is a partial update of the editable metadata copy. Nil
// fields are left unchanged.
type MetadataPatch struct {
	Title       *string
	Description *string
	Tags        *[]string
	Category    *string
	Difficulty  *string
}

// Empty reports whether the patch changes nothing.
func (p MetadataPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Tags == nil &&
		p.Category == nil && p.Difficulty == nil
}

// Dashboard is the read-only review aggregation: counts by status inside the
// window, average quality score, and current backlog size.
type Dashboard struct {
	Since          time.Time                   `json:"since"`
	CountsByStatus map[models.ReviewStatus]int `json:"counts_by_status"`
	AverageScore   float64                     `json:"average_score"`
	Backlog        int                         `json:"backlog"`
}
