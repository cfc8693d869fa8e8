package middleware

import (
	"net/http"
	"net/url"

	"github.com/AtRiskMedia/praxis/internal/application/services"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/security"
	"github.com/gin-gonic/gin"
)

const identityKey = "praxis.identity"

// AuthMiddleware resolves the auth cookie into an identity. It never rejects;
// the Require* gates decide.
func AuthMiddleware(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(security.AuthCookieName); err == nil {
			if id := auth.CurrentUser(token); id != nil {
				c.Set(identityKey, id)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the signed-in identity or nil.
func CurrentUser(c *gin.Context) *services.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*services.Identity)
	return id
}

// RequireUserPage redirects anonymous visitors to the login page, keeping the
// requested path in ?next=.
func RequireUserPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusSeeOther, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdminPage sends anonymous visitors to login and signed-in non-admins
// back to the demo hub.
func RequireAdminPage(logger *logging.ChanneledLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := CurrentUser(c)
		if id == nil {
			c.Redirect(http.StatusSeeOther, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		if !id.IsAdmin {
			logger.Auth().Info("Non-admin redirected from admin page", "email", logging.MaskEmail(id.Email))
			c.Redirect(http.StatusSeeOther, "/demo")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdminAPI answers 401 without a session and 403 for non-admins.
func RequireAdminAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := CurrentUser(c)
		if id == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if !id.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}
