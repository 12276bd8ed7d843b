package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	mw "github.com/clipforge/clipforge/internal/api/middleware"
	"github.com/clipforge/clipforge/internal/api/response"
	"github.com/clipforge/clipforge/internal/review"
	"github.com/clipforge/clipforge/internal/store"
	"github.com/clipforge/clipforge/pkg/models"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
	dashboardWindow  = 24 * time.Hour
)

// ReviewService defines the interface the handlers depend on.
type ReviewService interface {
	List(ctx context.Context, filter store.ReviewFilter) ([]*models.PendingReviewItem, int, error)
	Get(ctx context.Context, id uuid.UUID) (*models.PendingReviewItem, error)
	UpdateMetadata(ctx context.Context, id uuid.UUID, patch store.MetadataPatch, editor string) (*models.PendingReviewItem, error)
	Approve(ctx context.Context, id uuid.UUID, reviewer string) (*models.PendingReviewItem, error)
	Reject(ctx context.Context, id uuid.UUID, reviewer, reason string) (*models.PendingReviewItem, error)
	Delete(ctx context.Context, id uuid.UUID, actor string) error
	Dashboard(ctx context.Context, since time.Time) (*store.Dashboard, error)
}

// NewListReviewItems returns an http.HandlerFunc for GET /api/v1/review/items.
func NewListReviewItems(svc ReviewService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := store.ReviewFilter{
			Status: models.ReviewStatusPending,
			Page:   1,
			Limit:  defaultPageLimit,
		}

		if s := r.URL.Query().Get("status"); s != "" {
			status := models.ReviewStatus(s)
			switch status {
			case models.ReviewStatusPending, models.ReviewStatusApproved, models.ReviewStatusRejected:
				filter.Status = status
			default:
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"status must be one of pending_review, approved, rejected", nil)
				return
			}
		}

		if p := r.URL.Query().Get("page"); p != "" {
			page, err := strconv.Atoi(p)
			if err != nil || page < 1 {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"page must be a positive integer", nil)
				return
			}
			filter.Page = page
		}

		if l := r.URL.Query().Get("limit"); l != "" {
			limit, err := strconv.Atoi(l)
			if err != nil || limit < 1 {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"limit must be a positive integer", nil)
				return
			}
			if limit > maxPageLimit {
				limit = maxPageLimit
			}
			filter.Limit = limit
		}

		items, total, err := svc.List(r.Context(), filter)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		response.Collection(w, items, response.PaginationMeta{
			Page:    filter.Page,
			Limit:   filter.Limit,
			Total:   total,
			HasNext: filter.Page*filter.Limit < total,
		})
	}
}

// NewGetReviewItem returns an http.HandlerFunc for GET /api/v1/review/items/{itemID}.
func NewGetReviewItem(svc ReviewService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := itemID(w, r)
		if !ok {
			return
		}

		item, err := svc.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		response.JSON(w, item)
	}
}

// NewUpdateReviewItem returns an http.HandlerFunc for PATCH /api/v1/review/items/{itemID}.
func NewUpdateReviewItem(svc ReviewService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := itemID(w, r)
		if !ok {
			return
		}

		var req struct {
			Title       *string   `json:"title"`
			Description *string   `json:"description"`
			Tags        *[]string `json:"tags"`
			Category    *string   `json:"category"`
			Difficulty  *string   `json:"difficulty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		item, err := svc.UpdateMetadata(r.Context(), id, store.MetadataPatch{
			Title:       req.Title,
			Description: req.Description,
			Tags:        req.Tags,
			Category:    req.Category,
			Difficulty:  req.Difficulty,
		}, reviewer(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		response.JSON(w, item)
	}
}

// NewApproveReviewItem returns an http.HandlerFunc for POST /api/v1/review/items/{itemID}/approve.
func NewApproveReviewItem(svc ReviewService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := itemID(w, r)
		if !ok {
			return
		}

		item, err := svc.Approve(r.Context(), id, reviewer(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		response.JSON(w, item)
	}
}

// NewRejectReviewItem returns an http.HandlerFunc for POST /api/v1/review/items/{itemID}/reject.
func NewRejectReviewItem(svc ReviewService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := itemID(w, r)
		if !ok {
			return
		}

		var req struct {
			Reason string `json:"reason"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		item, err := svc.Reject(r.Context(), id, reviewer(r), req.Reason)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		response.JSON(w, item)
	}
}

// NewDeleteReviewItem returns an http.HandlerFunc for DELETE /api/v1/review/items/{itemID}.
func NewDeleteReviewItem(svc ReviewService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := itemID(w, r)
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), id, reviewer(r)); err != nil {
			writeServiceError(w, err)
			return
		}
		response.NoContent(w)
	}
}

// NewDashboard returns an http.HandlerFunc for GET /api/v1/review/dashboard.
func NewDashboard(svc ReviewService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		since := time.Now().Add(-dashboardWindow)
		if s := r.URL.Query().Get("since"); s != "" {
			parsed, err := time.Parse(time.RFC3339, s)
			if err != nil {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"since must be a valid RFC3339 timestamp", nil)
				return
			}
			since = parsed
		}

		stats, err := svc.Dashboard(r.Context(), since)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		response.JSON(w, stats)
	}
}

func itemID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
			"itemID must be a valid UUID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func reviewer(r *http.Request) string {
	name, ok := mw.GetReviewer(r)
	if !ok {
		return "anonymous"
	}
	return name
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		response.Error(w, http.StatusNotFound, "NOT_FOUND",
			"Review item not found", nil)
	case errors.Is(err, store.ErrConflict):
		response.Error(w, http.StatusConflict, "CONFLICT",
			"Review item was already decided", nil)
	case errors.Is(err, review.ErrReasonRequired),
		errors.Is(err, review.ErrEmptyPatch),
		errors.Is(err, review.ErrTitleTooLong):
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR",
			err.Error(), nil)
	default:
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"An unexpected error occurred", nil)
	}
}
