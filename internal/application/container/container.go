// Package container provides dependency injection for all singleton services
package container

import (
	"fmt"
	"time"

	"github.com/AtRiskMedia/praxis/internal/application/services"
	"github.com/AtRiskMedia/praxis/internal/domain/demo"
	"github.com/AtRiskMedia/praxis/internal/domain/lead"
	"github.com/AtRiskMedia/praxis/internal/domain/profession"
	"github.com/AtRiskMedia/praxis/internal/domain/user"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/caching/manager"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/email"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/i18n"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/metrics"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/persistence/database"
)

// Settings carries the configuration values the services need.
type Settings struct {
	JWTSecret     string
	AuthTokenTTL  time.Duration
	CookieSecure  bool
	AdminEmails   []string
	DefaultLocale string
	CORSOrigins   []string
}

// Dependencies are the infrastructure pieces built by startup (or tests).
type Dependencies struct {
	Logger      *logging.ChanneledLogger
	PerfTracker *performance.Tracker
	DB          *database.DB
	Leads       lead.Repository
	Users       user.Repository
	Sessions    *manager.SessionManager
	Notifier    email.Notifier
	Broadcaster messaging.Broadcaster
	Professions *profession.Registry
	Demos       *demo.Catalog
	Strings     *i18n.Catalog
}

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application services
	AuthService      *services.AuthService
	ROIService       *services.ROIService
	ProfilingService *services.ProfilingService
	LeadService      *services.LeadService
	AdminService     *services.AdminService

	// Content
	Professions *profession.Registry
	Demos       *demo.Catalog
	Strings     *i18n.Catalog

	// Infrastructure
	Logger      *logging.ChanneledLogger
	PerfTracker *performance.Tracker
	DB          *database.DB
	Sessions    *manager.SessionManager
	Broadcaster messaging.Broadcaster
	Settings    Settings
}

// NewContainer creates and wires all singleton services
func NewContainer(deps Dependencies, settings Settings) (*Container, error) {
	if deps.Logger == nil {
		deps.Logger = logging.NewDiscardLogger()
	}
	if deps.PerfTracker == nil {
		deps.PerfTracker = performance.NewTracker(nil)
	}
	if deps.Professions == nil {
		deps.Professions = profession.Default()
	}
	if deps.Broadcaster == nil {
		deps.Broadcaster = messaging.NewLeadBroadcaster(deps.Logger, 16)
	}
	if deps.Strings == nil {
		strs, err := i18n.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load string tables: %w", err)
		}
		deps.Strings = strs
	}
	if settings.DefaultLocale == "" {
		settings.DefaultLocale = i18n.Fallback
	}

	deps.Sessions.OnPersistError(func(string, error) {
		metrics.SessionStoreFailures.Inc()
	})

	roiService := services.NewROIService(deps.Logger, deps.PerfTracker, deps.Professions)
	profilingService, err := services.NewProfilingService(deps.Logger, deps.PerfTracker, deps.Sessions,
		roiService.Calculator(), deps.Demos)
	if err != nil {
		return nil, err
	}

	return &Container{
		AuthService: services.NewAuthService(deps.Logger, deps.PerfTracker, deps.Users,
			user.NewAllowList(settings.AdminEmails), settings.JWTSecret, settings.AuthTokenTTL),
		ROIService:       roiService,
		ProfilingService: profilingService,
		LeadService: services.NewLeadService(deps.Logger, deps.PerfTracker, deps.Leads, deps.Sessions,
			deps.Notifier, deps.Broadcaster),
		AdminService: services.NewAdminService(deps.Logger, deps.PerfTracker, deps.Leads, deps.Broadcaster),

		Professions: deps.Professions,
		Demos:       deps.Demos,
		Strings:     deps.Strings,

		Logger:      deps.Logger,
		PerfTracker: deps.PerfTracker,
		DB:          deps.DB,
		Sessions:    deps.Sessions,
		Broadcaster: deps.Broadcaster,
		Settings:    settings,
	}, nil
}
