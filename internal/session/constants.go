// Package session provides shared session constants used by the
// middleware, handler, and platform packages.
package session

const (
	// CookieName is the platform session cookie. Formflow forwards it to
	// the CRUD API unchanged so entity writes run as the signed-in user.
	CookieName = "platform_session"

	// CookiePath ensures the cookie is sent with all requests.
	CookiePath = "/"
)
