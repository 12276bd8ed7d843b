// Package publish creates the production content records for approved
// clips. It is the only writer into the content, metadata, and interaction
// tables on this side of the system.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/clipforge/clipforge/internal/blob"
	"github.com/clipforge/clipforge/internal/store"
	"github.com/clipforge/clipforge/pkg/models"
)

// contentNamespace seeds the deterministic content id derivation. Never
// change it; re-deriving a different id for the same job would break publish
// idempotency.
var contentNamespace = uuid.MustParse("f1a3a60e-9c6c-4e6b-9e6f-0d6a5c4b3a21")

// ContentIDForJob derives the published content id from the job id. The
// same job always publishes under the same content id, which is what makes
// a retried publish a no-op instead of a duplicate.
func ContentIDForJob(jobID uuid.UUID) uuid.UUID {
	return uuid.NewSHA1(contentNamespace, jobID[:])
}

// Coordinator performs the atomic publish fan-out.
type Coordinator struct {
	target store.PublishTarget
	blobs  blob.Store
	log    *slog.Logger
}

func NewCoordinator(target store.PublishTarget, blobs blob.Store, log *slog.Logger) *Coordinator {
	return &Coordinator{target: target, blobs: blobs, log: log}
}

// Publish creates the three production records for an approved review item
// in one transaction and returns the content id. Idempotent: if the records
// already exist for this job the existing content id is returned and nothing
// is written.
func (c *Coordinator) Publish(ctx context.Context, job *models.ContentJob, item *models.PendingReviewItem) (uuid.UUID, error) {
	if job.PublishedContentID != nil {
		return *job.PublishedContentID, nil
	}
	if job.EditedAssetRef == nil || *job.EditedAssetRef == "" {
		return uuid.Nil, fmt.Errorf("job %s has no edited asset", job.ID)
	}
	if job.ThumbnailRef == nil || *job.ThumbnailRef == "" {
		return uuid.Nil, fmt.Errorf("job %s has no thumbnail", job.ID)
	}
	if item.Title == "" {
		return uuid.Nil, fmt.Errorf("item %s has no title", item.ID)
	}

	contentID := ContentIDForJob(job.ID)
	now := time.Now().UTC()

	var durationMs int64
	if job.SelectedSegment != nil {
		durationMs = job.SelectedSegment.DurationMs()
	}

	content := &models.PublishedContent{
		ID:            contentID,
		JobID:         job.ID,
		SourceVideoID: job.SourceVideoID,
		VideoURL:      c.blobs.PublicURL(*job.EditedAssetRef),
		ThumbnailURL:  c.blobs.PublicURL(*job.ThumbnailRef),
		DurationMs:    durationMs,
		Language:      job.Language,
		CreatedAt:     now,
	}
	// The reviewer-edited copy on the item wins over the job's generated
	// metadata.
	meta := &models.ContentMetadata{
		ContentID:   contentID,
		Title:       item.Title,
		Description: item.Description,
		Tags:        item.Tags,
		Category:    item.Category,
		Difficulty:  item.Difficulty,
		CreatedAt:   now,
	}
	inter := &models.ContentInteraction{ContentID: contentID, CreatedAt: now}

	err := c.target.CreateContentRecords(ctx, content, meta, inter)
	if errors.Is(err, store.ErrDuplicateKey) {
		// A previous attempt got the records in before failing later.
		c.log.Info("content records already exist", "job_id", job.ID, "content_id", contentID)
		return contentID, nil
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("creating content records: %w", err)
	}

	c.log.Info("published content created",
		"job_id", job.ID, "content_id", contentID, "video_url", content.VideoURL)
	return contentID, nil
}
