package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/clipforge/clipforge/internal/api/middleware"
	"github.com/clipforge/clipforge/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	Auth      *mw.Auth
	RateLimit *mw.RateLimit

	HealthHandler http.HandlerFunc

	ListReviewItems   http.HandlerFunc
	GetReviewItem     http.HandlerFunc
	UpdateReviewItem  http.HandlerFunc
	DeleteReviewItem  http.HandlerFunc
	ApproveReviewItem http.HandlerFunc
	RejectReviewItem  http.HandlerFunc
	Dashboard         http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	// Public health check
	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))

	// Protected review routes
	r.Group(func(r chi.Router) {
		r.Use(deps.Auth.Authenticate)
		r.Use(deps.RateLimit.Limit)

		r.Get("/api/v1/review/items", orNotImplemented(deps.ListReviewItems))
		r.Get("/api/v1/review/items/{itemID}", orNotImplemented(deps.GetReviewItem))
		r.Patch("/api/v1/review/items/{itemID}", orNotImplemented(deps.UpdateReviewItem))
		r.Delete("/api/v1/review/items/{itemID}", orNotImplemented(deps.DeleteReviewItem))

		r.Post("/api/v1/review/items/{itemID}/approve", orNotImplemented(deps.ApproveReviewItem))
		r.Post("/api/v1/review/items/{itemID}/reject", orNotImplemented(deps.RejectReviewItem))

		r.Get("/api/v1/review/dashboard", orNotImplemented(deps.Dashboard))
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
