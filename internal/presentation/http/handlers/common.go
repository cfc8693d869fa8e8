// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/AtRiskMedia/praxis/internal/infrastructure/security"
	"github.com/AtRiskMedia/praxis/internal/presentation/http/middleware"
	"github.com/AtRiskMedia/praxis/internal/presentation/templates"
	"github.com/gin-gonic/gin"
)

const maxEventBody = 64 << 10

func setAuthCookie(c *gin.Context, token string, ttl time.Duration, secure bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     security.AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearAuthCookie(c *gin.Context, secure bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     security.AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// safeNext keeps post-login redirects on this site.
func safeNext(next, fallback string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}

func page(c *gin.Context, title string, data any) templates.Page {
	return templates.Page{
		Locale: middleware.Locale(c),
		Title:  title,
		Path:   c.Request.URL.Path,
		User:   middleware.CurrentUser(c),
		Data:   data,
	}
}
