package models

import (
	"time"

	"github.com/google/uuid"
)

// PublishedContent is the production content record created by the publish
// coordinator. The three production records (content, metadata, interaction)
// are owned by the social backend; the coordinator is their only writer on
// this side.
type PublishedContent struct {
	ID            uuid.UUID `db:"id"              json:"id"`
	JobID         uuid.UUID `db:"job_id"          json:"job_id"`
	SourceVideoID string    `db:"source_video_id" json:"source_video_id"`
	VideoURL      string    `db:"video_url"       json:"video_url"`
	ThumbnailURL  string    `db:"thumbnail_url"   json:"thumbnail_url"`
	DurationMs    int64     `db:"duration_ms"     json:"duration_ms"`
	Language      string    `db:"language"        json:"language"`
	CreatedAt     time.Time `db:"created_at"      json:"created_at"`
}

// ContentMetadata holds the reviewer-approved descriptive metadata.
type ContentMetadata struct {
	ContentID   uuid.UUID `db:"content_id"  json:"content_id"`
	Title       string    `db:"title"       json:"title"`
	Description string    `db:"description" json:"description"`
	Tags        []string  `db:"tags"        json:"tags"`
	Category    string    `db:"category"    json:"category"`
	Difficulty  string    `db:"difficulty"  json:"difficulty"`
	CreatedAt   time.Time `db:"created_at"  json:"created_at"`
}

// ContentInteraction holds the interaction counters, zero-valued at publish.
type ContentInteraction struct {
	ContentID    uuid.UUID `db:"content_id"    json:"content_id"`
	ViewCount    int64     `db:"view_count"    json:"view_count"`
	LikeCount    int64     `db:"like_count"    json:"like_count"`
	CommentCount int64     `db:"comment_count" json:"comment_count"`
	ShareCount   int64     `db:"share_count"   json:"share_count"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
}
