// Package middleware provides HTTP middleware for the presentation layer.
package middleware

import (
	"net/http"

	"github.com/AtRiskMedia/praxis/internal/infrastructure/security"
	"github.com/gin-gonic/gin"
)

// SessionCookieName holds the anonymous visitor session id.
const SessionCookieName = "praxis_session"

const sessionKey = "praxis.session"

// SessionMiddleware ensures every request carries a visitor session id,
// issuing a new ULID cookie when the request has none or a malformed one.
func SessionMiddleware(secure bool, maxAge int) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookieName)
		if err != nil || !security.IsULID(id) {
			id = security.GenerateULID()
		}
		// refreshed on every request so the cookie expires with the idle session
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     SessionCookieName,
			Value:    id,
			Path:     "/",
			MaxAge:   maxAge,
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
		})
		c.Set(sessionKey, id)
		c.Next()
	}
}

// SessionID returns the visitor session id set by SessionMiddleware.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}
