package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/clipforge/clipforge/pkg/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const reviewColumns = `id, job_id, status, priority, quality_score,
	title, description, tags, category, difficulty,
	reviewed_by, reviewed_at, rejection_reason, published_content_id,
	created_at, created_by, updated_at, updated_by, deleted_at`

func scanReviewItem(row rowScanner) (*models.PendingReviewItem, error) {
	var it models.PendingReviewItem
	err := row.Scan(
		&it.ID, &it.JobID, &it.Status, &it.Priority, &it.QualityScore,
		&it.Title, &it.Description, &it.Tags, &it.Category, &it.Difficulty,
		&it.ReviewedBy, &it.ReviewedAt, &it.RejectionReason, &it.PublishedContentID,
		&it.CreatedAt, &it.CreatedBy, &it.UpdatedAt, &it.UpdatedBy, &it.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *PostgresStore) CreatePendingReviewItem(ctx context.Context, item *models.PendingReviewItem) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO pending_review_items (id, job_id, status, priority, quality_score,
		   title, description, tags, category, difficulty,
		   created_at, created_by, updated_at, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		item.ID, item.JobID, item.Status, item.Priority, item.QualityScore,
		item.Title, item.Description, item.Tags, item.Category, item.Difficulty,
		item.CreatedAt, item.CreatedBy, item.UpdatedAt, item.UpdatedBy)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create pending review item: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetPendingReviewItem(ctx context.Context, id uuid.UUID) (*models.PendingReviewItem, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+reviewColumns+` FROM pending_review_items WHERE id = $1 AND deleted_at IS NULL`, id)
	it, err := scanReviewItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get pending review item: %w", err)
	}
	return it, nil
}

// ListPendingReviewItems pages items ordered by priority band first, then
// most recent.
func (s *PostgresStore) ListPendingReviewItems(ctx context.Context, filter ReviewFilter) ([]*models.PendingReviewItem, int, error) {
	conditions := []string{"deleted_at IS NULL"}
	args := []any{}
	argIdx := 1

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, filter.Status)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM pending_review_items WHERE " + where
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count pending review items: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	dataQuery := fmt.Sprintf(
		`SELECT `+reviewColumns+` FROM pending_review_items WHERE %s
		 ORDER BY CASE priority WHEN 'high' THEN 0 ELSE 1 END, created_at DESC
		 LIMIT $%d OFFSET $%d`,
		where, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := s.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list pending review items: %w", err)
	}
	defer rows.Close()

	var items []*models.PendingReviewItem
	for rows.Next() {
		it, err := scanReviewItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan pending review item: %w", err)
		}
		items = append(items, it)
	}
	return items, total, rows.Err()
}

// UpdatePendingMetadata mutates the editable metadata copy. Only items still
// pending review can be edited; anything else is ErrConflict.
func (s *PostgresStore) UpdatePendingMetadata(ctx context.Context, id uuid.UUID, patch MetadataPatch, editor string) (*models.PendingReviewItem, error) {
	sets := []string{"updated_at = NOW()", "updated_by = $2"}
	args := []any{id, editor}
	argIdx := 3

	if patch.Title != nil {
		sets = append(sets, fmt.Sprintf("title = $%d", argIdx))
		args = append(args, *patch.Title)
		argIdx++
	}
	if patch.Description != nil {
		sets = append(sets, fmt.Sprintf("description = $%d", argIdx))
		args = append(args, *patch.Description)
		argIdx++
	}
	if patch.Tags != nil {
		sets = append(sets, fmt.Sprintf("tags = $%d", argIdx))
		args = append(args, *patch.Tags)
		argIdx++
	}
	if patch.Category != nil {
		sets = append(sets, fmt.Sprintf("category = $%d", argIdx))
		args = append(args, *patch.Category)
		argIdx++
	}
	if patch.Difficulty != nil {
		sets = append(sets, fmt.Sprintf("difficulty = $%d", argIdx))
		args = append(args, *patch.Difficulty)
		argIdx++
	}

	query := fmt.Sprintf(
		`UPDATE pending_review_items SET %s
		 WHERE id = $1 AND status = 'pending_review' AND deleted_at IS NULL
		 RETURNING `+reviewColumns,
		strings.Join(sets, ", "))

	row := s.pool.QueryRow(ctx, query, args...)
	it, err := scanReviewItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		// Either unknown or already decided; disambiguate for the caller.
		if _, getErr := s.GetPendingReviewItem(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("update pending metadata: %w", err)
	}
	return it, nil
}

func (s *PostgresStore) ClaimReviewDecision(ctx context.Context, id uuid.UUID, decision models.ReviewStatus, reviewer, reason string) error {
	if decision != models.ReviewStatusApproved && decision != models.ReviewStatusRejected {
		return fmt.Errorf("invalid review decision: %s", decision)
	}

	var reasonArg *string
	if reason != "" {
		reasonArg = &reason
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE pending_review_items
		 SET status = $2, reviewed_by = $3, reviewed_at = NOW(), rejection_reason = $4,
		     updated_at = NOW(), updated_by = $3
		 WHERE id = $1 AND status = 'pending_review' AND deleted_at IS NULL`,
		id, decision, reviewer, reasonArg)
	if err != nil {
		return fmt.Errorf("claim review decision: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, getErr := s.GetPendingReviewItem(ctx, id); getErr != nil {
			return getErr
		}
		return ErrConflict
	}
	return nil
}

func (s *PostgresStore) RevertReviewDecision(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE pending_review_items
		 SET status = 'pending_review', reviewed_by = NULL, reviewed_at = NULL,
		     updated_at = NOW(), updated_by = 'system'
		 WHERE id = $1 AND status = 'approved' AND published_content_id IS NULL AND deleted_at IS NULL`,
		id)
	if err != nil {
		return fmt.Errorf("revert review decision: %w", err)
	}
	return nil
}

// SetPublished records the publish result on both the review item and its
// job, and moves the job to its terminal published status.
func (s *PostgresStore) SetPublished(ctx context.Context, itemID, jobID, contentID uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin set published: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE pending_review_items SET published_content_id = $2, updated_at = NOW()
		 WHERE id = $1 AND status = 'approved' AND deleted_at IS NULL`, itemID, contentID)
	if err != nil {
		return fmt.Errorf("record published content id: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}

	_, err = tx.Exec(ctx,
		`UPDATE content_jobs
		 SET status = $2, published_content_id = $3, reviewed_at = NOW(), updated_at = NOW(), updated_by = 'review'
		 WHERE id = $1 AND deleted_at IS NULL`,
		jobID, models.StatusPublished, contentID)
	if err != nil {
		return fmt.Errorf("mark job published: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit set published: %w", err)
	}
	return nil
}

func (s *PostgresStore) SoftDeletePendingReviewItem(ctx context.Context, id uuid.UUID, actor string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE pending_review_items SET deleted_at = NOW(), updated_at = NOW(), updated_by = $2
		 WHERE id = $1 AND deleted_at IS NULL`, id, actor)
	if err != nil {
		return fmt.Errorf("soft delete pending review item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ReviewDashboard aggregates queue health for the backoffice. Read-only.
func (s *PostgresStore) ReviewDashboard(ctx context.Context, since time.Time) (*Dashboard, error) {
	d := &Dashboard{
		Since:          since,
		CountsByStatus: make(map[models.ReviewStatus]int),
	}

	rows, err := s.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM pending_review_items
		 WHERE created_at >= $1 AND deleted_at IS NULL GROUP BY status`, since)
	if err != nil {
		return nil, fmt.Errorf("dashboard counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status models.ReviewStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan dashboard count: %w", err)
		}
		d.CountsByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = s.pool.QueryRow(ctx,
		`SELECT COALESCE(AVG(quality_score), 0) FROM pending_review_items
		 WHERE created_at >= $1 AND deleted_at IS NULL`, since,
	).Scan(&d.AverageScore)
	if err != nil {
		return nil, fmt.Errorf("dashboard average score: %w", err)
	}

	err = s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM pending_review_items
		 WHERE status = 'pending_review' AND deleted_at IS NULL`,
	).Scan(&d.Backlog)
	if err != nil {
		return nil, fmt.Errorf("dashboard backlog: %w", err)
	}

	return d, nil
}
