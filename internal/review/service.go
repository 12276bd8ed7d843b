// Package review is the human review surface over the pending review queue:
// listing, metadata edits, the approve/reject decision, and the dashboard
// aggregation.
package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/clipforge/clipforge/internal/publish"
	"github.com/clipforge/clipforge/internal/store"
	"github.com/clipforge/clipforge/pkg/models"
)

var (
	ErrReasonRequired = errors.New("rejection reason is required")
	ErrEmptyPatch     = errors.New("metadata patch changes nothing")
	ErrTitleTooLong   = errors.New("title exceeds 200 characters")
)

const maxTitleLen = 200

// Service orchestrates review decisions. Approve is the critical path: the
// claim makes the decision one-way, the publish fan-out is idempotent, and a
// failed publish compensates by returning the item to the queue.
type Service struct {
	store     store.Store
	publisher *publish.Coordinator
	log       *slog.Logger
}

func NewService(st store.Store, publisher *publish.Coordinator, log *slog.Logger) *Service {
	return &Service{store: st, publisher: publisher, log: log}
}

func (s *Service) List(ctx context.Context, filter store.ReviewFilter) ([]*models.PendingReviewItem, int, error) {
	return s.store.ListPendingReviewItems(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.PendingReviewItem, error) {
	return s.store.GetPendingReviewItem(ctx, id)
}

// UpdateMetadata applies a reviewer's partial edit to the item's metadata
// copy. Only items still pending review are editable.
func (s *Service) UpdateMetadata(ctx context.Context, id uuid.UUID, patch store.MetadataPatch, editor string) (*models.PendingReviewItem, error) {
	if patch.Empty() {
		return nil, ErrEmptyPatch
	}
	if patch.Title != nil && len(*patch.Title) > maxTitleLen {
		return nil, ErrTitleTooLong
	}
	item, err := s.store.UpdatePendingMetadata(ctx, id, patch, editor)
	if err != nil {
		return nil, err
	}
	s.log.Info("review metadata updated", "item_id", id, "editor", editor)
	return item, nil
}

// Approve claims the decision and publishes the clip. Exactly one of two
// concurrent approvals wins; the loser gets store.ErrConflict and nothing is
// mutated on its behalf. If publishing fails after the claim, the claim is
// reverted so the item returns to the queue.
func (s *Service) Approve(ctx context.Context, id uuid.UUID, reviewer string) (*models.PendingReviewItem, error) {
	item, err := s.store.GetPendingReviewItem(ctx, id)
	if err != nil {
		return nil, err
	}
	job, err := s.store.GetJob(ctx, item.JobID)
	if err != nil {
		return nil, fmt.Errorf("loading job %s: %w", item.JobID, err)
	}

	if err := s.store.ClaimReviewDecision(ctx, id, models.ReviewStatusApproved, reviewer, ""); err != nil {
		return nil, err
	}

	contentID, err := s.finishApproval(ctx, job, item, reviewer)
	if err != nil {
		s.log.Error("publish failed, reverting approval", "item_id", id, "job_id", job.ID, "error", err)
		if revErr := s.store.RevertReviewDecision(context.WithoutCancel(ctx), id); revErr != nil {
			s.log.Error("reverting review decision", "item_id", id, "error", revErr)
		}
		return nil, err
	}

	s.log.Info("clip approved and published",
		"item_id", id, "job_id", job.ID, "content_id", contentID, "reviewer", reviewer)
	return s.store.GetPendingReviewItem(ctx, id)
}

func (s *Service) finishApproval(ctx context.Context, job *models.ContentJob, item *models.PendingReviewItem, reviewer string) (uuid.UUID, error) {
	now := time.Now().UTC()
	job.Status = models.StatusApproved
	job.ReviewedBy = &reviewer
	job.ReviewedAt = &now
	job.Touch(reviewer)
	if err := s.store.AdvanceJob(ctx, job, models.StatusPendingApproval); err != nil {
		if !errors.Is(err, store.ErrConflict) {
			return uuid.Nil, fmt.Errorf("approving job: %w", err)
		}
		// A previous approval attempt already moved the job; resume from
		// its current state instead of failing the retry.
		cur, gerr := s.store.GetJob(ctx, job.ID)
		if gerr != nil || cur.Status != models.StatusApproved {
			return uuid.Nil, fmt.Errorf("approving job: %w", err)
		}
		job = cur
	}

	contentID, err := s.publisher.Publish(ctx, job, item)
	if err != nil {
		return uuid.Nil, err
	}

	if err := s.store.SetPublished(ctx, item.ID, job.ID, contentID); err != nil {
		return uuid.Nil, fmt.Errorf("recording publish result: %w", err)
	}
	return contentID, nil
}

// Reject claims the decision with a mandatory reason and moves the job to
// its terminal rejected status.
func (s *Service) Reject(ctx context.Context, id uuid.UUID, reviewer, reason string) (*models.PendingReviewItem, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}
	item, err := s.store.GetPendingReviewItem(ctx, id)
	if err != nil {
		return nil, err
	}
	job, err := s.store.GetJob(ctx, item.JobID)
	if err != nil {
		return nil, fmt.Errorf("loading job %s: %w", item.JobID, err)
	}

	if err := s.store.ClaimReviewDecision(ctx, id, models.ReviewStatusRejected, reviewer, reason); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	job.Status = models.StatusRejected
	job.RejectionReason = &reason
	job.ReviewedBy = &reviewer
	job.ReviewedAt = &now
	job.Touch(reviewer)
	if err := s.store.AdvanceJob(ctx, job, models.StatusPendingApproval); err != nil && !errors.Is(err, store.ErrConflict) {
		// The decision stands either way; the job write is retried by hand
		// if it ever comes to that.
		s.log.Error("marking job rejected", "job_id", job.ID, "error", err)
	}

	s.log.Info("clip rejected", "item_id", id, "job_id", job.ID, "reviewer", reviewer)
	return s.store.GetPendingReviewItem(ctx, id)
}

// Delete soft-deletes a queue item. The underlying job is untouched.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, actor string) error {
	return s.store.SoftDeletePendingReviewItem(ctx, id, actor)
}

// Dashboard returns queue health for the given window.
func (s *Service) Dashboard(ctx context.Context, since time.Time) (*store.Dashboard, error) {
	return s.store.ReviewDashboard(ctx, since)
}
