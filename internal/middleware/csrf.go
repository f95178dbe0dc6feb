package middleware

import (
	"log/slog"
	"net/http"

	"github.com/calloway-dev/formflow/internal/csrf"
	"github.com/calloway-dev/formflow/internal/domain"
	"github.com/calloway-dev/formflow/internal/handler"
)

// CSRFMiddleware enforces the double-submit cookie check on mutating
// requests. Safe methods pass through and get a token cookie issued when
// they don't have one yet.
type CSRFMiddleware struct {
	logger   *slog.Logger
	isSecure bool
}

// NewCSRFMiddleware creates a new CSRFMiddleware instance.
func NewCSRFMiddleware(logger *slog.Logger, isSecure bool) *CSRFMiddleware {
	return &CSRFMiddleware{
		logger:   logger,
		isSecure: isSecure,
	}
}

// Protect returns middleware that validates the CSRF token on POST, PUT,
// PATCH, and DELETE requests.
func (m *CSRFMiddleware) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			if _, err := csrf.EnsureToken(w, r, m.isSecure); err != nil {
				m.logger.Error("failed to issue csrf token", "error", err)
			}
			next.ServeHTTP(w, r)
			return
		}

		if !csrf.ValidateRequest(r) {
			m.logger.Warn("csrf validation failed",
				"path", r.URL.Path,
				"method", r.Method,
			)
			err := domain.Forbidden("", "Missing or invalid CSRF token")
			handler.ErrorResponse(w, r, m.logger, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}
