package middleware

import (
	"context"
	"net/http"
)

type contextKey string

const reviewerKey contextKey = "reviewer"

func SetReviewer(ctx context.Context, reviewer string) context.Context {
	return context.WithValue(ctx, reviewerKey, reviewer)
}

func GetReviewer(r *http.Request) (string, bool) {
	reviewer, ok := r.Context().Value(reviewerKey).(string)
	return reviewer, ok
}
