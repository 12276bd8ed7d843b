package middleware

import (
	"net/http"
	"strings"

	"github.com/clipforge/clipforge/internal/api/response"
	"golang.org/x/crypto/bcrypt"
)

const reviewerHeader = "X-Reviewer"

// Auth validates the reviewer API key against a bcrypt hash from
// configuration. An empty hash disables authentication (local development).
type Auth struct {
	keyHash string
}

// NewAuth creates a new Auth middleware.
func NewAuth(keyHash string) *Auth {
	return &Auth{keyHash: keyHash}
}

// Authenticate validates the Bearer token and sets the reviewer identity
// from the X-Reviewer header in the request context.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.keyHash != "" {
			rawKey := extractBearerToken(r)
			if rawKey == "" {
				response.Error(w, http.StatusUnauthorized,
					"INVALID_TOKEN", "Missing or invalid Authorization header", nil)
				return
			}

			if bcrypt.CompareHashAndPassword([]byte(a.keyHash), []byte(rawKey)) != nil {
				response.Error(w, http.StatusUnauthorized,
					"INVALID_TOKEN", "Invalid API key", nil)
				return
			}
		}

		reviewer := strings.TrimSpace(r.Header.Get(reviewerHeader))
		if reviewer == "" {
			reviewer = "anonymous"
		}
		r = r.WithContext(SetReviewer(r.Context(), reviewer))

		next.ServeHTTP(w, r)
	})
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
