// Package models contains shared data models used across the clipforge codebase.
package models

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of a ContentJob.
type JobStatus string

const (
	StatusPending         JobStatus = "pending"
	StatusCrawled         JobStatus = "crawled"
	StatusTranscribed     JobStatus = "transcribed"
	StatusAnalyzed        JobStatus = "analyzed"
	StatusEdited          JobStatus = "edited"
	StatusPendingApproval JobStatus = "pending_approval"
	StatusApproved        JobStatus = "approved"
	StatusPublished       JobStatus = "published"
	StatusRejected        JobStatus = "rejected"
	StatusFailed          JobStatus = "failed"
)

// validTransitions is the job state machine. Any non-terminal status may
// additionally short-circuit to failed.
var validTransitions = map[JobStatus][]JobStatus{
	StatusPending:         {StatusCrawled},
	StatusCrawled:         {StatusTranscribed},
	StatusTranscribed:     {StatusAnalyzed},
	StatusAnalyzed:        {StatusEdited},
	StatusEdited:          {StatusPendingApproval, StatusRejected},
	StatusPendingApproval: {StatusApproved, StatusRejected},
	StatusApproved:        {StatusPublished},
}

// CanTransition reports whether moving from one status to another follows
// the state machine.
func CanTransition(from, to JobStatus) bool {
	if to == StatusFailed {
		return !IsTerminal(from)
	}
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status admits no further transitions.
func IsTerminal(s JobStatus) bool {
	switch s {
	case StatusPublished, StatusRejected, StatusFailed:
		return true
	}
	return false
}

// ContentJob is the unit-of-work record tracking one source video through
// the pipeline. Created by the crawl stage, mutated once per stage, and
// finished in a terminal status.
type ContentJob struct {
	ID            uuid.UUID `db:"id"              json:"id"`
	SourceVideoID string    `db:"source_video_id" json:"source_video_id"`
	ChannelID     string    `db:"channel_id"      json:"channel_id"`
	ChannelTitle  string    `db:"channel_title"   json:"channel_title"`
	SourceTitle   string    `db:"source_title"    json:"source_title"`
	Status        JobStatus `db:"status"          json:"status"`
	Language      string    `db:"language"        json:"language"`

	// Source signals captured at crawl time so downstream scoring is
	// deterministic and recomputable offline.
	SourceDurationMs int64 `db:"source_duration_ms" json:"source_duration_ms"`
	ViewCount        int64 `db:"view_count"         json:"view_count"`
	LikeCount        int64 `db:"like_count"         json:"like_count"`

	RawAssetRef    *string `db:"raw_asset_ref"    json:"raw_asset_ref,omitempty"`
	EditedAssetRef *string `db:"edited_asset_ref" json:"edited_asset_ref,omitempty"`
	ThumbnailRef   *string `db:"thumbnail_ref"    json:"thumbnail_ref,omitempty"`

	Transcript           *string             `db:"transcript"            json:"transcript,omitempty"`
	TranscriptSegments   []TranscriptSegment `db:"transcript_segments"   json:"transcript_segments,omitempty"`
	TranscriptConfidence *float64            `db:"transcript_confidence" json:"transcript_confidence,omitempty"`
	TranscriberID        *string             `db:"transcriber_id"        json:"transcriber_id,omitempty"`
	ModelID              *string             `db:"model_id"              json:"model_id,omitempty"`

	SelectedSegment *Segment `db:"selected_segment" json:"selected_segment,omitempty"`

	GenTitle       *string  `db:"gen_title"       json:"gen_title,omitempty"`
	GenDescription *string  `db:"gen_description" json:"gen_description,omitempty"`
	Tags           []string `db:"tags"            json:"tags,omitempty"`
	Category       *string  `db:"category"        json:"category,omitempty"`
	Difficulty     *string  `db:"difficulty"      json:"difficulty,omitempty"`

	// Model-estimated signals in [0,1], persisted by the analyze stage and
	// consumed by the quality gate.
	EducationalValue *float64 `db:"educational_value" json:"educational_value,omitempty"`
	Relevance        *float64 `db:"relevance"         json:"relevance,omitempty"`
	Suitability      *float64 `db:"suitability"       json:"suitability,omitempty"`

	QualityScore *int    `db:"quality_score" json:"quality_score,omitempty"`
	ErrorMessage *string `db:"error_message" json:"error_message,omitempty"`

	ReviewedBy         *string    `db:"reviewed_by"          json:"reviewed_by,omitempty"`
	ReviewedAt         *time.Time `db:"reviewed_at"          json:"reviewed_at,omitempty"`
	RejectionReason    *string    `db:"rejection_reason"     json:"rejection_reason,omitempty"`
	PublishedContentID *uuid.UUID `db:"published_content_id" json:"published_content_id,omitempty"`

	Audit
}
