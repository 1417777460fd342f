package router

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/dailydish/recipe-feed/internal/domain"
)

// NewAuthMiddleware returns a middleware requiring the configured bearer
// token on every request. This is a single-user service; one static
// token is the whole auth model. Comparison is constant-time over
// digests so token length is not observable either.
func NewAuthMiddleware(apiToken string) func(http.Handler) http.Handler {
	expected := sha256.Sum256([]byte(apiToken))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r)
			if token == "" {
				token = r.URL.Query().Get("token")
			}

			presented := sha256.Sum256([]byte(token))
			if subtle.ConstantTimeCompare(expected[:], presented[:]) != 1 {
				ctx := r.Context()
				logger := domain.LoggerFromContext(ctx)
				logger.WarnContext(ctx, "rejected request with missing or invalid token",
					"path", r.URL.Path)

				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return authHeader[len("Bearer "):]
}
