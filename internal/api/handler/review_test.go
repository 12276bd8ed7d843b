package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipforge/clipforge/internal/api/handler"
	mw "github.com/clipforge/clipforge/internal/api/middleware"
	"github.com/clipforge/clipforge/internal/review"
	"github.com/clipforge/clipforge/internal/store"
	"github.com/clipforge/clipforge/pkg/models"
)

// --- mock service ---

type mockService struct {
	ListFunc           func(ctx context.Context, filter store.ReviewFilter) ([]*models.PendingReviewItem, int, error)
	GetFunc            func(ctx context.Context, id uuid.UUID) (*models.PendingReviewItem, error)
	UpdateMetadataFunc func(ctx context.Context, id uuid.UUID, patch store.MetadataPatch, editor string) (*models.PendingReviewItem, error)
	ApproveFunc        func(ctx context.Context, id uuid.UUID, reviewer string) (*models.PendingReviewItem, error)
	RejectFunc         func(ctx context.Context, id uuid.UUID, reviewer, reason string) (*models.PendingReviewItem, error)
	DeleteFunc         func(ctx context.Context, id uuid.UUID, actor string) error
	DashboardFunc      func(ctx context.Context, since time.Time) (*store.Dashboard, error)
}

func (m *mockService) List(ctx context.Context, f store.ReviewFilter) ([]*models.PendingReviewItem, int, error) {
	return m.ListFunc(ctx, f)
}
func (m *mockService) Get(ctx context.Context, id uuid.UUID) (*models.PendingReviewItem, error) {
	return m.GetFunc(ctx, id)
}
func (m *mockService) UpdateMetadata(ctx context.Context, id uuid.UUID, p store.MetadataPatch, e string) (*models.PendingReviewItem, error) {
	return m.UpdateMetadataFunc(ctx, id, p, e)
}
func (m *mockService) Approve(ctx context.Context, id uuid.UUID, r string) (*models.PendingReviewItem, error) {
	return m.ApproveFunc(ctx, id, r)
}
func (m *mockService) Reject(ctx context.Context, id uuid.UUID, rv, rs string) (*models.PendingReviewItem, error) {
	return m.RejectFunc(ctx, id, rv, rs)
}
func (m *mockService) Delete(ctx context.Context, id uuid.UUID, a string) error {
	return m.DeleteFunc(ctx, id, a)
}
func (m *mockService) Dashboard(ctx context.Context, s time.Time) (*store.Dashboard, error) {
	return m.DashboardFunc(ctx, s)
}

// --- helpers ---

var testItemID = uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")

func pendingItem() *models.PendingReviewItem {
	return &models.PendingReviewItem{
		ID:           testItemID,
		JobID:        uuid.New(),
		Status:       models.ReviewStatusPending,
		Priority:     models.PriorityNormal,
		QualityScore: 82,
		Title:        "Understanding Goroutines",
		Tags:         []string{"go", "concurrency"},
		Category:     "programming",
		Difficulty:   "intermediate",
	}
}

// itemRoutes mounts a handler under the review item routes so chi URL
// parameters resolve.
func itemRoutes(method, pattern string, h http.HandlerFunc) http.Handler {
	r := chi.NewRouter()
	r.Method(method, pattern, h)
	return r
}

func doRequest(t *testing.T, router http.Handler, method, target, reviewer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if reviewer != "" {
		req = req.WithContext(mw.SetReviewer(req.Context(), reviewer))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"].(map[string]any)["code"].(string)
}

// --- list ---

func TestListReviewItems_Defaults(t *testing.T) {
	var got store.ReviewFilter
	svc := &mockService{
		ListFunc: func(_ context.Context, f store.ReviewFilter) ([]*models.PendingReviewItem, int, error) {
			got = f
			return []*models.PendingReviewItem{pendingItem()}, 1, nil
		},
	}
	h := handler.NewListReviewItems(svc)

	w := doRequest(t, h, "GET", "/api/v1/review/items", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ReviewStatusPending, got.Status)
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, 20, got.Limit)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	meta := body["meta"].(map[string]any)
	assert.Equal(t, float64(1), meta["total"])
	assert.Equal(t, false, meta["has_next"])
}

func TestListReviewItems_Pagination(t *testing.T) {
	svc := &mockService{
		ListFunc: func(_ context.Context, f store.ReviewFilter) ([]*models.PendingReviewItem, int, error) {
			assert.Equal(t, 2, f.Page)
			assert.Equal(t, 20, f.Limit)
			return nil, 45, nil
		},
	}
	h := handler.NewListReviewItems(svc)

	w := doRequest(t, h, "GET", "/api/v1/review/items?page=2&limit=20", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	meta := body["meta"].(map[string]any)
	assert.Equal(t, true, meta["has_next"])
}

func TestListReviewItems_InvalidStatus(t *testing.T) {
	h := handler.NewListReviewItems(&mockService{})

	w := doRequest(t, h, "GET", "/api/v1/review/items?status=published", "", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", errCode(t, w))
}

func TestListReviewItems_LimitClamped(t *testing.T) {
	svc := &mockService{
		ListFunc: func(_ context.Context, f store.ReviewFilter) ([]*models.PendingReviewItem, int, error) {
			assert.Equal(t, 100, f.Limit)
			return nil, 0, nil
		},
	}
	h := handler.NewListReviewItems(svc)

	w := doRequest(t, h, "GET", "/api/v1/review/items?limit=500", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

// --- get ---

func TestGetReviewItem(t *testing.T) {
	svc := &mockService{
		GetFunc: func(_ context.Context, id uuid.UUID) (*models.PendingReviewItem, error) {
			assert.Equal(t, testItemID, id)
			return pendingItem(), nil
		},
	}
	router := itemRoutes("GET", "/api/v1/review/items/{itemID}", handler.NewGetReviewItem(svc))

	w := doRequest(t, router, "GET", "/api/v1/review/items/"+testItemID.String(), "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	data := body["data"].(map[string]any)
	assert.Equal(t, "Understanding Goroutines", data["title"])
}

func TestGetReviewItem_NotFound(t *testing.T) {
	svc := &mockService{
		GetFunc: func(_ context.Context, _ uuid.UUID) (*models.PendingReviewItem, error) {
			return nil, store.ErrNotFound
		},
	}
	router := itemRoutes("GET", "/api/v1/review/items/{itemID}", handler.NewGetReviewItem(svc))

	w := doRequest(t, router, "GET", "/api/v1/review/items/"+uuid.NewString(), "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errCode(t, w))
}

func TestGetReviewItem_BadID(t *testing.T) {
	router := itemRoutes("GET", "/api/v1/review/items/{itemID}", handler.NewGetReviewItem(&mockService{}))

	w := doRequest(t, router, "GET", "/api/v1/review/items/not-a-uuid", "", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", errCode(t, w))
}

// --- update metadata ---

func TestUpdateReviewItem(t *testing.T) {
	var gotPatch store.MetadataPatch
	var gotEditor string
	svc := &mockService{
		UpdateMetadataFunc: func(_ context.Context, _ uuid.UUID, p store.MetadataPatch, e string) (*models.PendingReviewItem, error) {
			gotPatch, gotEditor = p, e
			item := pendingItem()
			item.Title = *p.Title
			return item, nil
		},
	}
	router := itemRoutes("PATCH", "/api/v1/review/items/{itemID}", handler.NewUpdateReviewItem(svc))

	w := doRequest(t, router, "PATCH", "/api/v1/review/items/"+testItemID.String(), "ana",
		map[string]any{"title": "Goroutines Explained", "tags": []string{"go"}})

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, gotPatch.Title)
	assert.Equal(t, "Goroutines Explained", *gotPatch.Title)
	require.NotNil(t, gotPatch.Tags)
	assert.Equal(t, []string{"go"}, *gotPatch.Tags)
	assert.Nil(t, gotPatch.Description)
	assert.Equal(t, "ana", gotEditor)
}

func TestUpdateReviewItem_EmptyPatch(t *testing.T) {
	svc := &mockService{
		UpdateMetadataFunc: func(_ context.Context, _ uuid.UUID, _ store.MetadataPatch, _ string) (*models.PendingReviewItem, error) {
			return nil, review.ErrEmptyPatch
		},
	}
	router := itemRoutes("PATCH", "/api/v1/review/items/{itemID}", handler.NewUpdateReviewItem(svc))

	w := doRequest(t, router, "PATCH", "/api/v1/review/items/"+testItemID.String(), "ana", map[string]any{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errCode(t, w))
}

func TestUpdateReviewItem_AlreadyDecided(t *testing.T) {
	svc := &mockService{
		UpdateMetadataFunc: func(_ context.Context, _ uuid.UUID, _ store.MetadataPatch, _ string) (*models.PendingReviewItem, error) {
			return nil, store.ErrConflict
		},
	}
	router := itemRoutes("PATCH", "/api/v1/review/items/{itemID}", handler.NewUpdateReviewItem(svc))

	w := doRequest(t, router, "PATCH", "/api/v1/review/items/"+testItemID.String(), "ana",
		map[string]any{"title": "too late"})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", errCode(t, w))
}

// --- approve / reject ---

func TestApproveReviewItem(t *testing.T) {
	svc := &mockService{
		ApproveFunc: func(_ context.Context, id uuid.UUID, reviewer string) (*models.PendingReviewItem, error) {
			assert.Equal(t, testItemID, id)
			assert.Equal(t, "ana", reviewer)
			item := pendingItem()
			item.Status = models.ReviewStatusApproved
			contentID := uuid.New()
			item.PublishedContentID = &contentID
			return item, nil
		},
	}
	router := itemRoutes("POST", "/api/v1/review/items/{itemID}/approve", handler.NewApproveReviewItem(svc))

	w := doRequest(t, router, "POST", "/api/v1/review/items/"+testItemID.String()+"/approve", "ana", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	data := body["data"].(map[string]any)
	assert.Equal(t, "approved", data["status"])
	assert.NotEmpty(t, data["published_content_id"])
}

func TestApproveReviewItem_LostRace(t *testing.T) {
	svc := &mockService{
		ApproveFunc: func(_ context.Context, _ uuid.UUID, _ string) (*models.PendingReviewItem, error) {
			return nil, store.ErrConflict
		},
	}
	router := itemRoutes("POST", "/api/v1/review/items/{itemID}/approve", handler.NewApproveReviewItem(svc))

	w := doRequest(t, router, "POST", "/api/v1/review/items/"+testItemID.String()+"/approve", "ana", nil)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRejectReviewItem(t *testing.T) {
	svc := &mockService{
		RejectFunc: func(_ context.Context, _ uuid.UUID, reviewer, reason string) (*models.PendingReviewItem, error) {
			assert.Equal(t, "ana", reviewer)
			assert.Equal(t, "audio out of sync", reason)
			item := pendingItem()
			item.Status = models.ReviewStatusRejected
			item.RejectionReason = &reason
			return item, nil
		},
	}
	router := itemRoutes("POST", "/api/v1/review/items/{itemID}/reject", handler.NewRejectReviewItem(svc))

	w := doRequest(t, router, "POST", "/api/v1/review/items/"+testItemID.String()+"/reject", "ana",
		map[string]string{"reason": "audio out of sync"})

	require.Equal(t, http.StatusOK, w.Code)
}

func TestRejectReviewItem_MissingReason(t *testing.T) {
	svc := &mockService{
		RejectFunc: func(_ context.Context, _ uuid.UUID, _, _ string) (*models.PendingReviewItem, error) {
			return nil, review.ErrReasonRequired
		},
	}
	router := itemRoutes("POST", "/api/v1/review/items/{itemID}/reject", handler.NewRejectReviewItem(svc))

	w := doRequest(t, router, "POST", "/api/v1/review/items/"+testItemID.String()+"/reject", "ana",
		map[string]string{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errCode(t, w))
}

// --- delete ---

func TestDeleteReviewItem(t *testing.T) {
	var gotActor string
	svc := &mockService{
		DeleteFunc: func(_ context.Context, id uuid.UUID, actor string) error {
			assert.Equal(t, testItemID, id)
			gotActor = actor
			return nil
		},
	}
	router := itemRoutes("DELETE", "/api/v1/review/items/{itemID}", handler.NewDeleteReviewItem(svc))

	w := doRequest(t, router, "DELETE", "/api/v1/review/items/"+testItemID.String(), "ana", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "ana", gotActor)
}

// --- dashboard ---

func TestDashboard_DefaultWindow(t *testing.T) {
	svc := &mockService{
		DashboardFunc: func(_ context.Context, since time.Time) (*store.Dashboard, error) {
			assert.WithinDuration(t, time.Now().Add(-24*time.Hour), since, time.Minute)
			return &store.Dashboard{
				Since:          since,
				CountsByStatus: map[models.ReviewStatus]int{models.ReviewStatusPending: 3},
				AverageScore:   81.5,
				Backlog:        3,
			}, nil
		},
	}
	h := handler.NewDashboard(svc)

	w := doRequest(t, h, "GET", "/api/v1/review/dashboard", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(3), data["backlog"])
}

func TestDashboard_InvalidSince(t *testing.T) {
	h := handler.NewDashboard(&mockService{})

	w := doRequest(t, h, "GET", "/api/v1/review/dashboard?since=yesterday", "", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", errCode(t, w))
}

// --- health ---

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func TestHealth_OK(t *testing.T) {
	h := handler.NewHealth(pinger{}, pinger{})

	w := doRequest(t, h, "GET", "/api/v1/health", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	data := body["data"].(map[string]any)
	assert.Equal(t, "ok", data["status"])
}

func TestHealth_DatabaseDown(t *testing.T) {
	h := handler.NewHealth(pinger{err: errors.New("connection refused")}, pinger{})

	w := doRequest(t, h, "GET", "/api/v1/health", "", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "UNHEALTHY", errCode(t, w))
}
