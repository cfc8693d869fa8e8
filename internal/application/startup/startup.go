// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AtRiskMedia/praxis/internal/application/container"
	"github.com/AtRiskMedia/praxis/internal/domain/demo"
	"github.com/AtRiskMedia/praxis/internal/domain/profiling"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/caching/manager"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/database"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/email"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/metrics"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/observability/performance"
	sqldb "github.com/AtRiskMedia/praxis/internal/infrastructure/persistence/database"
	leadrepo "github.com/AtRiskMedia/praxis/internal/infrastructure/persistence/lead"
	userrepo "github.com/AtRiskMedia/praxis/internal/infrastructure/persistence/user"
	"github.com/AtRiskMedia/praxis/internal/presentation/http/server"
	"github.com/AtRiskMedia/praxis/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Initialize performs the complete startup sequence and blocks until a
// shutdown signal arrives.
func Initialize() error {
	setupLogging()
	start := time.Now().UTC()

	log.Println("praxis: starting")

	logger, err := NewLogger()
	if err != nil {
		return err
	}
	defer logger.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Step 1: Database and schema
	phase := time.Now()
	db, err := OpenDatabase(ctx, logger)
	if err != nil {
		logger.LogStartupPhase("database", time.Since(phase), false)
		return err
	}
	defer db.Close()
	if err := database.NewTableCreator().CreateSchema(ctx, db); err != nil {
		logger.LogStartupPhase("schema", time.Since(phase), false)
		return err
	}
	logger.LogStartupPhase("database", time.Since(phase), true)

	// Step 2: Visitor session store
	phase = time.Now()
	store, closeStore, err := newSessionStore(ctx, logger)
	if err != nil {
		logger.LogStartupPhase("session_store", time.Since(phase), false)
		return err
	}
	defer closeStore()
	logger.LogStartupPhase("session_store", time.Since(phase), true)

	// Step 3: Container
	phase = time.Now()
	appContainer, err := BuildContainer(logger, db, store)
	if err != nil {
		logger.LogStartupPhase("container", time.Since(phase), false)
		return err
	}
	logger.LogStartupPhase("container", time.Since(phase), true)

	// Step 4: HTTP server
	httpServer, err := server.New(config.Port, appContainer)
	if err != nil {
		return err
	}

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+config.Port)
		serverErr <- httpServer.Start()
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"driver", db.Driver(),
		"sessionStore", config.SessionStore,
		"admins", len(config.AdminEmails),
		"port", config.Port)

	select {
	case <-gracefulShutdown:
		logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")
	case err := <-serverErr:
		if err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
			return err
		}
	}

	shutdownStart := time.Now()
	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	// pending lead notifications
	appContainer.LeadService.Wait()

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))
	return nil
}

// NewLogger builds the channeled logger from the environment.
func NewLogger() (*logging.ChanneledLogger, error) {
	logger, err := logging.NewChanneledLogger(logging.ConfigFromEnv(config.LogDir, config.LogFormat, config.LogLevel, config.LogToFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	return logger, nil
}

// OpenDatabase connects to the configured database.
func OpenDatabase(ctx context.Context, logger *logging.ChanneledLogger) (*sqldb.DB, error) {
	return sqldb.Open(ctx, sqldb.Config{
		Driver:             config.DBDriver,
		DSN:                config.DBDSN,
		SQLitePath:         config.SQLitePath,
		TursoDatabaseURL:   config.TursoDatabaseURL,
		TursoAuthToken:     config.TursoAuthToken,
		MaxOpenConns:       config.DBMaxOpenConns,
		MaxIdleConns:       config.DBMaxIdleConns,
		ConnMaxLifetime:    time.Duration(config.DBConnMaxLifetimeMinutes) * time.Minute,
		SlowQueryThreshold: config.SlowQueryThreshold,
	}, logger)
}

// BuildContainer wires repositories, notifier and services over db and store.
func BuildContainer(logger *logging.ChanneledLogger, db *sqldb.DB, store profiling.Store) (*container.Container, error) {
	if config.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	tracker := performance.NewTracker(nil)
	tracker.OnComplete(func(m *performance.Marker) {
		metrics.ObserveOperation(m.Operation, m.Success, m.Duration)
		logger.LogOperation(m.Operation, m.Scope, m.Duration, m.Error, tracker.IsSlow(m))
	})

	deps := container.Dependencies{
		Logger:      logger,
		PerfTracker: tracker,
		DB:          db,
		Leads:       leadrepo.NewSQLSubmissionRepository(db, logger),
		Users:       userrepo.NewSQLUserRepository(db, logger),
		Sessions:    manager.NewSessionManager(store, config.SessionTTL, config.SessionCacheMax, logger),
		Notifier:    newNotifier(logger),
		Broadcaster: messaging.NewLeadBroadcaster(logger, 32),
		Demos:       demo.NewCatalog(os.DirFS(config.DemoDir), demo.Builtin...),
	}
	return container.NewContainer(deps, container.Settings{
		JWTSecret:     config.JWTSecret,
		AuthTokenTTL:  config.AuthTokenTTL,
		CookieSecure:  config.CookieSecure,
		AdminEmails:   config.AdminEmails,
		DefaultLocale: config.DefaultLocale,
		CORSOrigins:   config.CORSOrigins,
	})
}

func newSessionStore(ctx context.Context, logger *logging.ChanneledLogger) (profiling.Store, func(), error) {
	switch config.SessionStore {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     config.RedisAddr,
			Password: config.RedisPassword,
			DB:       config.RedisDB,
		})
		store := stores.NewRedisProfilingStore(client, config.SessionTTL)
		if err := store.Ping(ctx); err != nil {
			// profiling is best-effort; the server still starts
			logger.Startup().Warn("Redis session store unreachable", "addr", config.RedisAddr, "error", err.Error())
		}
		return store, func() { _ = client.Close() }, nil
	case "memory", "":
		return stores.NewMemoryProfilingStore(config.SessionTTL, logger), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown SESSION_STORE %q", config.SessionStore)
	}
}

func newNotifier(logger *logging.ChanneledLogger) email.Notifier {
	if config.ResendAPIKey == "" {
		logger.Startup().Info("Lead notifications disabled, RESEND_API_KEY not set")
		return email.NoopNotifier{}
	}
	n, err := email.NewResendNotifier(config.ResendAPIKey, config.LeadNotifyFrom,
		config.ParseEmailList(config.LeadNotifyTo), config.SiteURL+"/admin")
	if err != nil {
		logger.Startup().Warn("Lead notifications disabled", "error", err.Error())
		return email.NoopNotifier{}
	}
	return n
}

// setupLogging configures the standard logger and gin mode
func setupLogging() {
	if config.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
