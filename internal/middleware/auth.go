// Package middleware contains HTTP middleware for the Formflow service.
//
// Middleware functions follow the standard Go pattern of wrapping http.Handler.
// They are designed to be composed using a middleware stack approach.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/calloway-dev/formflow/internal/auth"
	"github.com/calloway-dev/formflow/internal/domain"
	"github.com/calloway-dev/formflow/internal/handler"
	"github.com/calloway-dev/formflow/internal/session"
)

// SessionResolver turns a raw platform session token into a user. The
// platform API client implements this; tests substitute their own.
type SessionResolver interface {
	Me(ctx context.Context, token string) (*domain.User, error)
}

// =============================================================================
// Auth Middleware
// =============================================================================

// AuthMiddleware loads the signed-in user from the platform session cookie.
//
// Formflow does not own accounts or sessions; the cookie is issued by the
// platform and validated against its current-user endpoint on each request.
type AuthMiddleware struct {
	resolver SessionResolver
	logger   *slog.Logger
	isSecure bool // Whether to set Secure flag when clearing cookies
}

// NewAuthMiddleware creates a new AuthMiddleware instance.
//
// Parameters:
// - resolver: Platform client used to validate session tokens
// - logger: Structured logger for auth events
// - isSecure: Set to true in production to enable the Secure cookie flag
func NewAuthMiddleware(resolver SessionResolver, logger *slog.Logger, isSecure bool) *AuthMiddleware {
	return &AuthMiddleware{
		resolver: resolver,
		logger:   logger,
		isSecure: isSecure,
	}
}

// WithUser is middleware that attempts to load the user from the session cookie.
//
// This middleware:
// 1. Checks for the platform session cookie
// 2. If found, resolves the session against the platform API
// 3. Stores the user and the raw token in the request context
// 4. Continues to the next handler regardless of authentication status
//
// The user can be retrieved in handlers using:
//
//	user := auth.GetUserFromRequest(r)
func (m *AuthMiddleware) WithUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(session.CookieName)
		if err != nil {
			// No cookie - continue without user
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.resolver.Me(r.Context(), cookie.Value)
		if err != nil {
			// Invalid or expired session - clear the cookie and continue
			m.logger.Debug("session resolution failed", "error", err)
			ClearSessionCookie(w, m.isSecure)
			next.ServeHTTP(w, r)
			return
		}

		ctx := auth.SetUser(r.Context(), user)
		ctx = auth.SetSessionToken(ctx, cookie.Value)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser is middleware that requires an authenticated user.
//
// Every Formflow surface is a JSON API, so an unauthenticated request gets
// a 401 JSON body rather than a login redirect.
//
// IMPORTANT: This middleware must be used AFTER WithUser in the chain.
func (m *AuthMiddleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.GetUser(r.Context()) == nil {
			handler.UnauthorizedResponse(w, r, m.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClearSessionCookie removes the platform session cookie from the client by
// setting MaxAge to -1.
func ClearSessionCookie(w http.ResponseWriter, isSecure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     session.CookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// =============================================================================
// Middleware Stack Helpers
// =============================================================================

// Stack composes multiple middleware functions into a single middleware.
//
// Middleware is applied in the order provided, meaning the first middleware
// in the slice is the outermost (runs first on request, last on response).
//
// Example:
//
//	stack := Stack(loggingMw, authMw.WithUser, authMw.RequireUser)
//	mux.Handle("POST /api/forms", stack(openHandler))
func Stack(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// =============================================================================
// Compile-time checks
// =============================================================================

var (
	_ func(http.Handler) http.Handler = (&AuthMiddleware{}).WithUser
	_ func(http.Handler) http.Handler = (&AuthMiddleware{}).RequireUser
)
