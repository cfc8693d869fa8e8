// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"fmt"

	"github.com/AtRiskMedia/praxis/internal/application/container"
	"github.com/AtRiskMedia/praxis/internal/presentation/http/handlers"
	"github.com/AtRiskMedia/praxis/internal/presentation/http/middleware"
	"github.com/AtRiskMedia/praxis/internal/presentation/templates"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(app *container.Container) (*gin.Engine, error) {
	renderer, err := templates.NewRenderer(app.Strings)
	if err != nil {
		return nil, fmt.Errorf("failed to load page templates: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.CORSMiddleware(app.Settings.CORSOrigins))

	// Operational endpoints carry no session or locale
	healthHandlers := handlers.NewHealthHandlers(app)
	r.GET("/healthz", healthHandlers.GetHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	site := r.Group("/")
	site.Use(gin.Logger())
	site.Use(middleware.SessionMiddleware(app.Settings.CookieSecure, int(app.Sessions.TTL().Seconds())))
	site.Use(middleware.LocaleMiddleware(app.Settings.DefaultLocale, app.Settings.CookieSecure))
	site.Use(middleware.AuthMiddleware(app.AuthService))

	// Initialize handlers
	pageHandlers := handlers.NewPageHandlers(app, renderer)
	roiHandlers := handlers.NewROIHandlers(app.ROIService, app.ProfilingService, app.Logger)
	profileHandlers := handlers.NewProfileHandlers(app.ProfilingService, app.Logger)
	contactHandlers := handlers.NewContactHandlers(app.LeadService, app.Logger)
	authHandlers := handlers.NewAuthHandlers(app.AuthService, app.Logger, app.Settings.CookieSecure)
	adminHandlers := handlers.NewAdminHandlers(app.AdminService, app.Broadcaster, app.Logger)

	// Public pages
	site.GET("/", pageHandlers.Home)
	site.GET("/professioni/:slug", pageHandlers.Profession)
	site.GET("/calcolatore", pageHandlers.Calculator)
	site.GET("/contatti", pageHandlers.Contact)
	site.POST("/contatti", pageHandlers.ContactSubmit)
	site.GET("/login", pageHandlers.Login)
	site.POST("/login", pageHandlers.LoginSubmit)
	site.POST("/logout", pageHandlers.Logout)

	// Signed-in pages
	demoPages := site.Group("/demo")
	demoPages.Use(middleware.RequireUserPage())
	{
		demoPages.GET("", pageHandlers.DemoHub)
		demoPages.GET("/:slug", pageHandlers.DemoViewer)
	}
	site.GET("/admin", middleware.RequireAdminPage(app.Logger), pageHandlers.Admin)

	api := site.Group("/api/v1")
	{
		api.GET("/professions", roiHandlers.GetProfessions)
		api.POST("/roi", roiHandlers.PostROI)
		api.GET("/profile", profileHandlers.GetProfile)
		api.POST("/profile/events", profileHandlers.PostEvents)
		api.POST("/contact", contactHandlers.PostContact)

		authAPI := api.Group("/auth")
		{
			authAPI.POST("/login", authHandlers.PostLogin)
			authAPI.POST("/logout", authHandlers.PostLogout)
			authAPI.GET("/status", authHandlers.GetStatus)
		}

		adminAPI := api.Group("/admin")
		adminAPI.Use(middleware.RequireAdminAPI())
		{
			adminAPI.GET("/submissions", adminHandlers.GetSubmissions)
			adminAPI.GET("/stats", adminHandlers.GetStats)
			adminAPI.PUT("/submissions/:id/status", adminHandlers.PutStatus)
			adminAPI.GET("/feed", adminHandlers.GetFeed)
		}
	}

	r.NoRoute(middleware.LocaleMiddleware(app.Settings.DefaultLocale, app.Settings.CookieSecure),
		middleware.AuthMiddleware(app.AuthService), pageHandlers.NotFound)

	return r, nil
}
