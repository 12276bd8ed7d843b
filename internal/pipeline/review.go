package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/clipforge/clipforge/internal/store"
	"github.com/clipforge/clipforge/pkg/models"
)

const reviewActor = "pipeline:review"

// ReviewStage is the automated quality gate. Jobs at or above the approval
// threshold are queued for human review; the rest are rejected with the
// score recorded.
type ReviewStage struct {
	store     store.Store
	log       *slog.Logger
	threshold int
	minClip   int64
	maxClip   int64
}

func NewReviewStage(st store.Store, log *slog.Logger, threshold int, minClipMs, maxClipMs int64) *ReviewStage {
	return &ReviewStage{
		store:     st,
		log:       log,
		threshold: threshold,
		minClip:   minClipMs,
		maxClip:   maxClipMs,
	}
}

func (s *ReviewStage) Name() string             { return "review" }
func (s *ReviewStage) Source() models.JobStatus { return models.StatusEdited }

func (s *ReviewStage) Process(ctx context.Context, job *models.ContentJob) (Result, error) {
	score := QualityScore(job, s.minClip, s.maxClip)
	job.QualityScore = &score

	if score < s.threshold {
		reason := fmt.Sprintf("quality score %d below approval threshold %d", score, s.threshold)
		now := time.Now().UTC()
		actor := reviewActor
		job.Status = models.StatusRejected
		job.RejectionReason = &reason
		job.ReviewedBy = &actor
		job.ReviewedAt = &now
		job.Touch(reviewActor)
		if err := s.store.AdvanceJob(ctx, job, models.StatusEdited); err != nil {
			return Result{}, err
		}
		return Result{Outcome: OutcomeRejected, Reason: reason}, nil
	}

	// The review item is written before the job leaves the edited sweep so
	// a partial failure is retried instead of stranding an approval-less
	// job. A duplicate on retry is fine; the item already exists.
	item := reviewItemForJob(job, score)
	if err := s.store.CreatePendingReviewItem(ctx, item); err != nil && !errors.Is(err, store.ErrDuplicateKey) {
		return Result{}, Transient("creating review item: %v", err)
	}

	job.Status = models.StatusPendingApproval
	job.Touch(reviewActor)
	if err := s.store.AdvanceJob(ctx, job, models.StatusEdited); err != nil {
		return Result{}, err
	}
	return Result{Outcome: OutcomeAdvanced}, nil
}

func reviewItemForJob(job *models.ContentJob, score int) *models.PendingReviewItem {
	item := &models.PendingReviewItem{
		ID:           uuid.New(),
		JobID:        job.ID,
		Status:       models.ReviewStatusPending,
		Priority:     models.PriorityForScore(score),
		QualityScore: score,
		Tags:         job.Tags,
		Audit:        models.NewAudit(reviewActor),
	}
	if job.GenTitle != nil {
		item.Title = *job.GenTitle
	}
	if job.GenDescription != nil {
		item.Description = *job.GenDescription
	}
	if job.Category != nil {
		item.Category = *job.Category
	}
	if job.Difficulty != nil {
		item.Difficulty = *job.Difficulty
	}
	return item
}

// QualityScore combines the signals captured along the pipeline into a
// 0..100 score:
//
//	0.20 popularity + 0.25 educational + 0.20 relevance +
//	0.15 suitability + 0.10 transcript confidence + 0.10 technical
//
// Each signal is normalized to 0..100 first. All inputs live on the job, so
// the score is recomputable offline.
func QualityScore(job *models.ContentJob, minClipMs, maxClipMs int64) int {
	raw := 0.20*popularitySignal(job.ViewCount, job.LikeCount) +
		0.25*modelSignal(job.EducationalValue) +
		0.20*modelSignal(job.Relevance) +
		0.15*modelSignal(job.Suitability) +
		0.10*modelSignal(job.TranscriptConfidence) +
		0.10*technicalSignal(job, minClipMs, maxClipMs)

	score := int(math.Round(raw))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// popularitySignal log-scales view count (100M views saturates it) and adds
// up to 10 points for a strong like ratio (4% of views or better).
func popularitySignal(views, likes int64) float64 {
	if views <= 0 {
		return 0
	}
	v := 12.5 * math.Log10(float64(views)+1)
	bonus := 250 * float64(likes) / float64(views)
	if bonus > 10 {
		bonus = 10
	}
	s := v + bonus
	if s > 100 {
		s = 100
	}
	return s
}

func modelSignal(v *float64) float64 {
	if v == nil {
		return 0
	}
	s := *v * 100
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// technicalSignal checks that the rendered assets exist and the selected
// window sits inside the configured clip bounds.
func technicalSignal(job *models.ContentJob, minClipMs, maxClipMs int64) float64 {
	if job.EditedAssetRef == nil || job.ThumbnailRef == nil || job.SelectedSegment == nil {
		return 0
	}
	d := job.SelectedSegment.DurationMs()
	if d < minClipMs || d > maxClipMs {
		return 0
	}
	return 100
}
