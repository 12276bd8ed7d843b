package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clipforge/clipforge/pkg/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Content jobs ---

const jobColumns = `id, source_video_id, channel_id, channel_title, source_title, status, language,
	source_duration_ms, view_count, like_count,
	raw_asset_ref, edited_asset_ref, thumbnail_ref,
	transcript, transcript_segments, transcript_confidence, transcriber_id, model_id,
	selected_segment, gen_title, gen_description, tags, category, difficulty,
	educational_value, relevance, suitability, quality_score, error_message,
	reviewed_by, reviewed_at, rejection_reason, published_content_id,
	created_at, created_by, updated_at, updated_by, deleted_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*models.ContentJob, error) {
	var j models.ContentJob
	err := row.Scan(
		&j.ID, &j.SourceVideoID, &j.ChannelID, &j.ChannelTitle, &j.SourceTitle, &j.Status, &j.Language,
		&j.SourceDurationMs, &j.ViewCount, &j.LikeCount,
		&j.RawAssetRef, &j.EditedAssetRef, &j.ThumbnailRef,
		&j.Transcript, &j.TranscriptSegments, &j.TranscriptConfidence, &j.TranscriberID, &j.ModelID,
		&j.SelectedSegment, &j.GenTitle, &j.GenDescription, &j.Tags, &j.Category, &j.Difficulty,
		&j.EducationalValue, &j.Relevance, &j.Suitability, &j.QualityScore, &j.ErrorMessage,
		&j.ReviewedBy, &j.ReviewedAt, &j.RejectionReason, &j.PublishedContentID,
		&j.CreatedAt, &j.CreatedBy, &j.UpdatedAt, &j.UpdatedBy, &j.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (s *PostgresStore) CreateJob(ctx context.Context, job *models.ContentJob) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO content_jobs (id, source_video_id, channel_id, channel_title, source_title, status, language,
		   source_duration_ms, view_count, like_count, raw_asset_ref,
		   created_at, created_by, updated_at, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		job.ID, job.SourceVideoID, job.ChannelID, job.ChannelTitle, job.SourceTitle, job.Status, job.Language,
		job.SourceDurationMs, job.ViewCount, job.LikeCount, job.RawAssetRef,
		job.CreatedAt, job.CreatedBy, job.UpdatedAt, job.UpdatedBy)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetJob(ctx context.Context, id uuid.UUID) (*models.ContentJob, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM content_jobs WHERE id = $1 AND deleted_at IS NULL`, id)
	j, err := scanJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return j, nil
}

func (s *PostgresStore) GetJobBySourceVideoID(ctx context.Context, sourceVideoID string) (*models.ContentJob, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM content_jobs WHERE source_video_id = $1 AND deleted_at IS NULL`, sourceVideoID)
	j, err := scanJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job by source video: %w", err)
	}
	return j, nil
}

func (s *PostgresStore) ListJobsByStatus(ctx context.Context, status models.JobStatus, limit int) ([]*models.ContentJob, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM content_jobs
		 WHERE status = $1 AND deleted_at IS NULL
		 ORDER BY created_at ASC LIMIT $2`, status, limit)
	if err != nil {
		return nil, fmt.Errorf("list jobs by status: %w", err)
	}
	defer rows.Close()

	var jobs []*models.ContentJob
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (s *PostgresStore) AdvanceJob(ctx context.Context, job *models.ContentJob, from models.JobStatus) error {
	if !models.CanTransition(from, job.Status) {
		return fmt.Errorf("invalid job status transition: %s -> %s", from, job.Status)
	}

	job.UpdatedAt = time.Now().UTC()
	tag, err := s.pool.Exec(ctx,
		`UPDATE content_jobs SET
		   status = $3, language = $4,
		   raw_asset_ref = $5, edited_asset_ref = $6, thumbnail_ref = $7,
		   transcript = $8, transcript_segments = $9, transcript_confidence = $10,
		   transcriber_id = $11, model_id = $12, selected_segment = $13,
		   gen_title = $14, gen_description = $15, tags = $16, category = $17, difficulty = $18,
		   educational_value = $19, relevance = $20, suitability = $21,
		   quality_score = $22, error_message = $23,
		   reviewed_by = $24, reviewed_at = $25, rejection_reason = $26, published_content_id = $27,
		   updated_at = $28, updated_by = $29
		 WHERE id = $1 AND status = $2 AND deleted_at IS NULL`,
		job.ID, from,
		job.Status, job.Language,
		job.RawAssetRef, job.EditedAssetRef, job.ThumbnailRef,
		job.Transcript, job.TranscriptSegments, job.TranscriptConfidence,
		job.TranscriberID, job.ModelID, job.SelectedSegment,
		job.GenTitle, job.GenDescription, job.Tags, job.Category, job.Difficulty,
		job.EducationalValue, job.Relevance, job.Suitability,
		job.QualityScore, job.ErrorMessage,
		job.ReviewedBy, job.ReviewedAt, job.RejectionReason, job.PublishedContentID,
		job.UpdatedAt, job.UpdatedBy)
	if err != nil {
		return fmt.Errorf("advance job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

func (s *PostgresStore) MarkJobFailed(ctx context.Context, id uuid.UUID, from models.JobStatus, reason string) error {
	if !models.CanTransition(from, models.StatusFailed) {
		return fmt.Errorf("invalid job status transition: %s -> %s", from, models.StatusFailed)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE content_jobs SET status = $3, error_message = $4, updated_at = NOW(), updated_by = 'pipeline'
		 WHERE id = $1 AND status = $2 AND deleted_at IS NULL`,
		id, from, models.StatusFailed, reason)
	if err != nil {
		return fmt.Errorf("mark job failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

func (s *PostgresStore) SoftDeleteJob(ctx context.Context, id uuid.UUID, actor string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE content_jobs SET deleted_at = NOW(), updated_at = NOW(), updated_by = $2
		 WHERE id = $1 AND deleted_at IS NULL`, id, actor)
	if err != nil {
		return fmt.Errorf("soft delete job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Published content (publish target contract) ---

func (s *PostgresStore) CreateContentRecords(ctx context.Context, content *models.PublishedContent, meta *models.ContentMetadata, inter *models.ContentInteraction) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin publish tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO published_content (id, job_id, source_video_id, video_url, thumbnail_url, duration_ms, language, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		content.ID, content.JobID, content.SourceVideoID, content.VideoURL, content.ThumbnailURL,
		content.DurationMs, content.Language, content.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("insert published content: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO content_metadata (content_id, title, description, tags, category, difficulty, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		meta.ContentID, meta.Title, meta.Description, meta.Tags, meta.Category, meta.Difficulty, meta.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert content metadata: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO content_interactions (content_id, view_count, like_count, comment_count, share_count, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		inter.ContentID, inter.ViewCount, inter.LikeCount, inter.CommentCount, inter.ShareCount, inter.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert content interactions: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit publish tx: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetPublishedContent(ctx context.Context, id uuid.UUID) (*models.PublishedContent, error) {
	var c models.PublishedContent
	err := s.pool.QueryRow(ctx,
		`SELECT id, job_id, source_video_id, video_url, thumbnail_url, duration_ms, language, created_at
		 FROM published_content WHERE id = $1`, id,
	).Scan(&c.ID, &c.JobID, &c.SourceVideoID, &c.VideoURL, &c.ThumbnailURL, &c.DurationMs, &c.Language, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get published content: %w", err)
	}
	return &c, nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
