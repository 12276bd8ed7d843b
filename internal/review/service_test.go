package review

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	blobmock "github.com/clipforge/clipforge/internal/blob/mock"
	"github.com/clipforge/clipforge/internal/publish"
	"github.com/clipforge/clipforge/internal/store"
	storemock "github.com/clipforge/clipforge/internal/store/mock"
	"github.com/clipforge/clipforge/pkg/models"
)

func ptr[T any](v T) *T { return &v }

func newService(st *storemock.Store) *Service {
	log := slog.New(slog.DiscardHandler)
	return NewService(st, publish.NewCoordinator(st, blobmock.NewStore(), log), log)
}

// seedQueue creates a pending_approval job with its queue item.
func seedQueue(t *testing.T, st *storemock.Store) (*models.ContentJob, *models.PendingReviewItem) {
	t.Helper()
	ctx := context.Background()
	job := &models.ContentJob{
		ID:             uuid.New(),
		SourceVideoID:  "vid-" + uuid.NewString()[:8],
		Status:         models.StatusPendingApproval,
		Language:       "en",
		EditedAssetRef: ptr("edited/x/clip.mp4"),
		ThumbnailRef:   ptr("edited/x/thumb.jpg"),
		SelectedSegment: &models.Segment{
			StartMs: 0, EndMs: 60000,
		},
		QualityScore: ptr(82),
		Audit:        models.NewAudit("pipeline:review"),
	}
	require.NoError(t, st.CreateJob(ctx, job))

	item := &models.PendingReviewItem{
		ID:           uuid.New(),
		JobID:        job.ID,
		Status:       models.ReviewStatusPending,
		Priority:     models.PriorityNormal,
		QualityScore: 82,
		Title:        "Generated title",
		Description:  "Generated description",
		Tags:         []string{"go"},
		Category:     "programming",
		Difficulty:   "beginner",
		Audit:        models.NewAudit("pipeline:review"),
	}
	require.NoError(t, st.CreatePendingReviewItem(ctx, item))
	return job, item
}

func TestApproveHappyPath(t *testing.T) {
	ctx := context.Background()
	st := storemock.NewStore()
	svc := newService(st)
	job, item := seedQueue(t, st)

	approved, err := svc.Approve(ctx, item.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusApproved, approved.Status)
	require.NotNil(t, approved.PublishedContentID)

	storedJob, err := st.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, storedJob.Status)
	assert.Equal(t, approved.PublishedContentID, storedJob.PublishedContentID)

	content, err := st.GetPublishedContent(ctx, *approved.PublishedContentID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, content.JobID)

	meta := st.ContentMetadataFor(content.ID)
	require.NotNil(t, meta)
	assert.Equal(t, "Generated title", meta.Title)
}

// Two concurrent approvals of the same item: exactly one wins, the loser
// gets a conflict, and exactly one set of content records exists.
func TestApproveConcurrentSingleWinner(t *testing.T) {
	ctx := context.Background()
	st := storemock.NewStore()
	svc := newService(st)
	_, item := seedQueue(t, st)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Approve(ctx, item.ID, "reviewer-"+uuid.NewString()[:4])
		}(i)
	}
	wg.Wait()

	var won, conflicted int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case assert.ErrorIs(t, err, store.ErrConflict):
			conflicted++
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, conflicted)
	assert.Equal(t, 1, st.ContentCount())
}

func TestApprovePublishFailureCompensates(t *testing.T) {
	ctx := context.Background()
	st := storemock.NewStore()
	svc := newService(st)
	_, item := seedQueue(t, st)

	st.CreateContentRecordsErr = assert.AnError
	_, err := svc.Approve(ctx, item.ID, "alice")
	require.Error(t, err)

	// The item is back in the queue, so a later approval can succeed.
	got, err := st.GetPendingReviewItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusPending, got.Status)
	assert.Nil(t, got.PublishedContentID)

	st.CreateContentRecordsErr = nil
	approved, err := svc.Approve(ctx, item.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusApproved, approved.Status)
	assert.Equal(t, 1, st.ContentCount())
}

func TestRejectRequiresReason(t *testing.T) {
	ctx := context.Background()
	st := storemock.NewStore()
	svc := newService(st)
	_, item := seedQueue(t, st)

	_, err := svc.Reject(ctx, item.ID, "alice", "")
	assert.ErrorIs(t, err, ErrReasonRequired)

	rejected, err := svc.Reject(ctx, item.ID, "alice", "duplicate content")
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "duplicate content", *rejected.RejectionReason)

	storedJob, err := st.GetJob(ctx, item.JobID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, storedJob.Status)
	assert.Zero(t, st.ContentCount(), "rejection publishes nothing")
}

// Once decided, an item never changes again: the decision is one-way in
// both directions.
func TestDecisionsAreOneWay(t *testing.T) {
	ctx := context.Background()
	st := storemock.NewStore()
	svc := newService(st)
	_, item := seedQueue(t, st)

	_, err := svc.Approve(ctx, item.ID, "alice")
	require.NoError(t, err)

	_, err = svc.Reject(ctx, item.ID, "bob", "changed my mind")
	assert.ErrorIs(t, err, store.ErrConflict)
	_, err = svc.Approve(ctx, item.ID, "bob")
	assert.ErrorIs(t, err, store.ErrConflict)
}

func TestUpdateMetadata(t *testing.T) {
	ctx := context.Background()
	st := storemock.NewStore()
	svc := newService(st)
	_, item := seedQueue(t, st)

	_, err := svc.UpdateMetadata(ctx, item.ID, store.MetadataPatch{}, "alice")
	assert.ErrorIs(t, err, ErrEmptyPatch)

	long := make([]byte, maxTitleLen+1)
	for i := range long {
		long[i] = 'x'
	}
	_, err = svc.UpdateMetadata(ctx, item.ID, store.MetadataPatch{Title: ptr(string(long))}, "alice")
	assert.ErrorIs(t, err, ErrTitleTooLong)

	updated, err := svc.UpdateMetadata(ctx, item.ID, store.MetadataPatch{
		Title: ptr("Better title"),
		Tags:  ptr([]string{"go", "concurrency"}),
	}, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Better title", updated.Title)
	assert.Equal(t, []string{"go", "concurrency"}, updated.Tags)
	assert.Equal(t, "Generated description", updated.Description, "unpatched fields unchanged")

	// Edits after the decision are refused.
	_, err = svc.Approve(ctx, item.ID, "alice")
	require.NoError(t, err)
	_, err = svc.UpdateMetadata(ctx, item.ID, store.MetadataPatch{Title: ptr("Too late")}, "alice")
	assert.ErrorIs(t, err, store.ErrConflict)
}

// The reviewer's edited metadata, not the generated copy, is what gets
// published.
func TestApprovePublishesEditedMetadata(t *testing.T) {
	ctx := context.Background()
	st := storemock.NewStore()
	svc := newService(st)
	_, item := seedQueue(t, st)

	_, err := svc.UpdateMetadata(ctx, item.ID, store.MetadataPatch{Title: ptr("Edited title")}, "alice")
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, item.ID, "alice")
	require.NoError(t, err)

	meta := st.ContentMetadataFor(*approved.PublishedContentID)
	require.NotNil(t, meta)
	assert.Equal(t, "Edited title", meta.Title)
}

func TestDeleteSoftDeletes(t *testing.T) {
	ctx := context.Background()
	st := storemock.NewStore()
	svc := newService(st)
	_, item := seedQueue(t, st)

	require.NoError(t, svc.Delete(ctx, item.ID, "alice"))
	_, err := svc.Get(ctx, item.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, item.ID, "alice"), store.ErrNotFound)
}
