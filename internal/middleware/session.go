package middleware

// session.go wires signed-in sessions into the request context.  The
// browser presents the opaque session id issued at sign-in via the
// X-Session-Token header; handlers downstream read the session with
// SessionFrom.  Credential refresh is not handled here: an expired token
// simply ends the session and the user signs in again.

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-web/internal/auth"
)

// SessionHeader carries the opaque session id issued at sign-in.
const SessionHeader = "X-Session-Token"

const sessionKey = "auth_session"

// RequireSession rejects requests without a live signed-in session and
// stores the session in the Echo context for handlers.
func RequireSession(m *auth.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(SessionHeader)
			if id == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "sign in required"})
			}
			s, ok := m.Get(id)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired"})
			}
			c.Set(sessionKey, s)
			return next(c)
		}
	}
}

// RequireAdmin rejects sessions whose user is not an administrator.  Must
// run after RequireSession.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, ok := SessionFrom(c)
			if !ok || !s.User.IsAdmin {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "admin access required"})
			}
			return next(c)
		}
	}
}

// SessionFrom returns the signed-in session stored by RequireSession.
func SessionFrom(c echo.Context) (*auth.Session, bool) {
	s, ok := c.Get(sessionKey).(*auth.Session)
	return s, ok
}
