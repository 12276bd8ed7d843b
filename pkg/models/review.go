package models

import (
	"time"

	"github.com/google/uuid"
)

// ReviewStatus is the lifecycle state of a PendingReviewItem. The decision
// is one-way: once approved or rejected an item never changes again.
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending_review"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

// ReviewPriority is the coarse backlog-ordering tier derived from the
// quality score.
type ReviewPriority string

const (
	PriorityHigh   ReviewPriority = "high"
	PriorityNormal ReviewPriority = "normal"
)

// PriorityForScore maps a quality score to its review priority band.
// Scores below the approval threshold never reach the queue.
func PriorityForScore(score int) ReviewPriority {
	if score >= 90 {
		return PriorityHigh
	}
	return PriorityNormal
}

// PendingReviewItem is the human-reviewable projection of a ContentJob that
// cleared automated gating. The metadata fields are an editable copy; the
// job's generated metadata stays untouched.
type PendingReviewItem struct {
	ID           uuid.UUID      `db:"id"            json:"id"`
	JobID        uuid.UUID      `db:"job_id"        json:"job_id"`
	Status       ReviewStatus   `db:"status"        json:"status"`
	Priority     ReviewPriority `db:"priority"      json:"priority"`
	QualityScore int            `db:"quality_score" json:"quality_score"`

	Title       string   `db:"title"       json:"title"`
	Description string   `db:"description" json:"description"`
	Tags        []string `db:"tags"        json:"tags"`
	Category    string   `db:"category"    json:"category"`
	Difficulty  string   `db:"difficulty"  json:"difficulty"`

	ReviewedBy         *string    `db:"reviewed_by"          json:"reviewed_by,omitempty"`
	ReviewedAt         *time.Time `db:"reviewed_at"          json:"reviewed_at,omitempty"`
	RejectionReason    *string    `db:"rejection_reason"     json:"rejection_reason,omitempty"`
	PublishedContentID *uuid.UUID `db:"published_content_id" json:"published_content_id,omitempty"`

	Audit
}
