package middleware

import (
	"net/http"

	"github.com/AtRiskMedia/praxis/internal/infrastructure/i18n"
	"github.com/gin-gonic/gin"
)

// LocaleCookieName remembers an explicit language choice.
const LocaleCookieName = "lang"

const localeKey = "praxis.locale"

// LocaleMiddleware resolves the request locale from ?lang=, the lang cookie,
// Accept-Language and finally defaultLocale. An explicit ?lang= is remembered.
func LocaleMiddleware(defaultLocale string, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		explicit := c.Query("lang")
		stored, _ := c.Cookie(LocaleCookieName)
		locale := i18n.Negotiate(explicit, stored, c.GetHeader("Accept-Language"), defaultLocale)
		if chosen, ok := i18n.Supports(explicit); ok && chosen == locale {
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     LocaleCookieName,
				Value:    locale,
				Path:     "/",
				MaxAge:   365 * 24 * 3600,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		c.Set(localeKey, locale)
		c.Next()
	}
}

// Locale returns the negotiated locale, or i18n.Fallback outside the middleware.
func Locale(c *gin.Context) string {
	if l := c.GetString(localeKey); l != "" {
		return l
	}
	return i18n.Fallback
}
