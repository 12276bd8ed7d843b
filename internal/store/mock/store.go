// Package mock provides an in-memory store.Store for tests. It mirrors the
// Postgres implementation's guarded-update semantics: duplicate keys,
// conditional status transitions, and one-way review decisions behave the
// same way, so concurrency-sensitive logic can be exercised without a
// database.
package mock

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clipforge/clipforge/internal/store"
	"github.com/clipforge/clipforge/pkg/models"
)

type Store struct {
	mu      sync.Mutex
	jobs    map[uuid.UUID]*models.ContentJob
	items   map[uuid.UUID]*models.PendingReviewItem
	content map[uuid.UUID]*models.PublishedContent
	meta    map[uuid.UUID]*models.ContentMetadata
	inter   map[uuid.UUID]*models.ContentInteraction

	// Error injection. When set, the corresponding method fails.
	CreateJobErr            error
	AdvanceJobErr           error
	CreateReviewItemErr     error
	CreateContentRecordsErr error
	SetPublishedErr         error
}

func NewStore() *Store {
	return &Store{
		jobs:    make(map[uuid.UUID]*models.ContentJob),
		items:   make(map[uuid.UUID]*models.PendingReviewItem),
		content: make(map[uuid.UUID]*models.PublishedContent),
		meta:    make(map[uuid.UUID]*models.ContentMetadata),
		inter:   make(map[uuid.UUID]*models.ContentInteraction),
	}
}

func (s *Store) Ping(context.Context) error { return nil }

// --- jobs ---

func (s *Store) CreateJob(_ context.Context, job *models.ContentJob) error {
	if s.CreateJobErr != nil {
		return s.CreateJobErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.jobs {
		if j.SourceVideoID == job.SourceVideoID && j.DeletedAt == nil {
			return store.ErrDuplicateKey
		}
	}
	cp := *job
	s.jobs[job.ID] = &cp
	return nil
}

func (s *Store) GetJob(_ context.Context, id uuid.UUID) (*models.ContentJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok || j.DeletedAt != nil {
		return nil, store.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (s *Store) GetJobBySourceVideoID(_ context.Context, sourceVideoID string) (*models.ContentJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.jobs {
		if j.SourceVideoID == sourceVideoID && j.DeletedAt == nil {
			cp := *j
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListJobsByStatus(_ context.Context, status models.JobStatus, limit int) ([]*models.ContentJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.ContentJob
	for _, j := range s.jobs {
		if j.Status == status && j.DeletedAt == nil {
			cp := *j
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.Before(out[k].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) AdvanceJob(_ context.Context, job *models.ContentJob, from models.JobStatus) error {
	if s.AdvanceJobErr != nil {
		return s.AdvanceJobErr
	}
	if !models.CanTransition(from, job.Status) {
		return fmt.Errorf("invalid job status transition: %s -> %s", from, job.Status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.jobs[job.ID]
	if !ok || cur.DeletedAt != nil || cur.Status != from {
		return store.ErrConflict
	}
	cp := *job
	cp.UpdatedAt = time.Now().UTC()
	s.jobs[job.ID] = &cp
	return nil
}

func (s *Store) MarkJobFailed(_ context.Context, id uuid.UUID, from models.JobStatus, reason string) error {
	if !models.CanTransition(from, models.StatusFailed) {
		return fmt.Errorf("invalid job status transition: %s -> %s", from, models.StatusFailed)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.jobs[id]
	if !ok || cur.DeletedAt != nil || cur.Status != from {
		return store.ErrConflict
	}
	cur.Status = models.StatusFailed
	cur.ErrorMessage = &reason
	cur.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Store) SoftDeleteJob(_ context.Context, id uuid.UUID, actor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.jobs[id]
	if !ok || cur.DeletedAt != nil {
		return store.ErrNotFound
	}
	now := time.Now().UTC()
	cur.DeletedAt = &now
	cur.Touch(actor)
	return nil
}

// --- pending review items ---

func (s *Store) CreatePendingReviewItem(_ context.Context, item *models.PendingReviewItem) error {
	if s.CreateReviewItemErr != nil {
		return s.CreateReviewItemErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.JobID == item.JobID && it.DeletedAt == nil {
			return store.ErrDuplicateKey
		}
	}
	cp := *item
	s.items[item.ID] = &cp
	return nil
}

func (s *Store) GetPendingReviewItem(_ context.Context, id uuid.UUID) (*models.PendingReviewItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok || it.DeletedAt != nil {
		return nil, store.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (s *Store) ListPendingReviewItems(_ context.Context, filter store.ReviewFilter) ([]*models.PendingReviewItem, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []*models.PendingReviewItem
	for _, it := range s.items {
		if it.DeletedAt != nil {
			continue
		}
		if filter.Status != "" && it.Status != filter.Status {
			continue
		}
		cp := *it
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, k int) bool {
		pi, pk := priorityRank(all[i].Priority), priorityRank(all[k].Priority)
		if pi != pk {
			return pi < pk
		}
		return all[i].CreatedAt.After(all[k].CreatedAt)
	})

	total := len(all)
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func priorityRank(p models.ReviewPriority) int {
	if p == models.PriorityHigh {
		return 0
	}
	return 1
}

func (s *Store) UpdatePendingMetadata(_ context.Context, id uuid.UUID, patch store.MetadataPatch, editor string) (*models.PendingReviewItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok || it.DeletedAt != nil {
		return nil, store.ErrNotFound
	}
	if it.Status != models.ReviewStatusPending {
		return nil, store.ErrConflict
	}
	if patch.Title != nil {
		it.Title = *patch.Title
	}
	if patch.Description != nil {
		it.Description = *patch.Description
	}
	if patch.Tags != nil {
		it.Tags = *patch.Tags
	}
	if patch.Category != nil {
		it.Category = *patch.Category
	}
	if patch.Difficulty != nil {
		it.Difficulty = *patch.Difficulty
	}
	it.Touch(editor)
	cp := *it
	return &cp, nil
}

func (s *Store) ClaimReviewDecision(_ context.Context, id uuid.UUID, decision models.ReviewStatus, reviewer, reason string) error {
	if decision != models.ReviewStatusApproved && decision != models.ReviewStatusRejected {
		return fmt.Errorf("invalid review decision: %s", decision)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok || it.DeletedAt != nil {
		return store.ErrNotFound
	}
	if it.Status != models.ReviewStatusPending {
		return store.ErrConflict
	}
	now := time.Now().UTC()
	it.Status = decision
	it.ReviewedBy = &reviewer
	it.ReviewedAt = &now
	if reason != "" {
		it.RejectionReason = &reason
	}
	it.Touch(reviewer)
	return nil
}

func (s *Store) RevertReviewDecision(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok || it.DeletedAt != nil {
		return nil
	}
	if it.Status != models.ReviewStatusApproved || it.PublishedContentID != nil {
		return nil
	}
	it.Status = models.ReviewStatusPending
	it.ReviewedBy = nil
	it.ReviewedAt = nil
	it.Touch("system")
	return nil
}

func (s *Store) SetPublished(_ context.Context, itemID, jobID, contentID uuid.UUID) error {
	if s.SetPublishedErr != nil {
		return s.SetPublishedErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[itemID]
	if !ok || it.DeletedAt != nil || it.Status != models.ReviewStatusApproved {
		return store.ErrConflict
	}
	it.PublishedContentID = &contentID
	it.UpdatedAt = time.Now().UTC()
	if job, ok := s.jobs[jobID]; ok && job.DeletedAt == nil {
		now := time.Now().UTC()
		job.Status = models.StatusPublished
		job.PublishedContentID = &contentID
		job.ReviewedAt = &now
		job.Touch("review")
	}
	return nil
}

func (s *Store) SoftDeletePendingReviewItem(_ context.Context, id uuid.UUID, actor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok || it.DeletedAt != nil {
		return store.ErrNotFound
	}
	now := time.Now().UTC()
	it.DeletedAt = &now
	it.Touch(actor)
	return nil
}

func (s *Store) ReviewDashboard(_ context.Context, since time.Time) (*store.Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := &store.Dashboard{
		Since:          since,
		CountsByStatus: make(map[models.ReviewStatus]int),
	}
	var scoreSum, scoreCount int
	for _, it := range s.items {
		if it.DeletedAt != nil {
			continue
		}
		if it.Status == models.ReviewStatusPending {
			d.Backlog++
		}
		if it.CreatedAt.Before(since) {
			continue
		}
		d.CountsByStatus[it.Status]++
		scoreSum += it.QualityScore
		scoreCount++
	}
	if scoreCount > 0 {
		d.AverageScore = float64(scoreSum) / float64(scoreCount)
	}
	return d, nil
}

// --- publish target ---

func (s *Store) CreateContentRecords(_ context.Context, content *models.PublishedContent, meta *models.ContentMetadata, inter *models.ContentInteraction) error {
	if s.CreateContentRecordsErr != nil {
		return s.CreateContentRecordsErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.content[content.ID]; exists {
		return store.ErrDuplicateKey
	}
	cc, cm, ci := *content, *meta, *inter
	s.content[content.ID] = &cc
	s.meta[content.ID] = &cm
	s.inter[content.ID] = &ci
	return nil
}

func (s *Store) GetPublishedContent(_ context.Context, id uuid.UUID) (*models.PublishedContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.content[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

// ContentMetadataFor returns the stored metadata row, for assertions.
func (s *Store) ContentMetadataFor(id uuid.UUID) *models.ContentMetadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meta[id]
}

// InteractionFor returns the stored interaction row, for assertions.
func (s *Store) InteractionFor(id uuid.UUID) *models.ContentInteraction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inter[id]
}

// ContentCount returns the number of published content rows.
func (s *Store) ContentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.content)
}
