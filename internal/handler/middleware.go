package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"pdf-diff/internal/domain"
)

// APITokenMiddleware guards the API with a static bearer token. An empty
// token disables the check.
type APITokenMiddleware struct {
	token  string
	logger domain.Logger
}

// NewAPITokenMiddleware creates a new token middleware
func NewAPITokenMiddleware(token string, logger domain.Logger) *APITokenMiddleware {
	return &APITokenMiddleware{token: token, logger: logger}
}

// Middleware returns the http middleware function
func (m *APITokenMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.token == "" {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		// Extract token from "Bearer <token>" format
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(m.token)) != 1 {
			m.logger.Warn("Rejected API token", "path", r.URL.Path, "remote", r.RemoteAddr)
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		next.ServeHTTP(w, r)
	})
}
