// Package database opens the SQL connection backing lead and user storage.
// SQLite is the default; Turso (libsql) and Postgres (pgx) are selected by driver name.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/AtRiskMedia/praxis/internal/infrastructure/observability/logging"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

const (
	DriverSQLite   = "sqlite3"
	DriverLibSQL   = "libsql"
	DriverPostgres = "pgx"
)

// Config selects and tunes the connection.
type Config struct {
	Driver             string
	DSN                string
	SQLitePath         string
	TursoDatabaseURL   string
	TursoAuthToken     string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetime    time.Duration
	SlowQueryThreshold time.Duration
}

// DB represents a wrapper around the standard SQL database connection.
type DB struct {
	*sql.DB
	driver        string
	logger        *logging.ChanneledLogger
	slowThreshold time.Duration
}

// Open establishes the connection described by cfg and pings it.
func Open(ctx context.Context, cfg Config, logger *logging.ChanneledLogger) (*DB, error) {
	start := time.Now()
	driver, dsn, err := dataSource(cfg)
	if err != nil {
		return nil, err
	}
	logger.Database().Debug("Creating new database connection", "driverName", driver)

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		logger.Database().Error("Failed to open database connection", "error", err.Error(), "driverName", driver)
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		logger.Database().Error("Database ping failed", "error", err.Error(), "driverName", driver)
		return nil, fmt.Errorf("%s database ping failed: %w", driver, err)
	}

	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	db := Wrap(conn, driver, logger, cfg.SlowQueryThreshold)
	logger.Database().Info("Database connection established", "driverName", driver, "duration", time.Since(start))
	db.ObserveQuery("DATABASE_CONNECTION", start)
	return db, nil
}

// Wrap adopts an existing *sql.DB, e.g. one created by sqlmock.
func Wrap(conn *sql.DB, driver string, logger *logging.ChanneledLogger, slowThreshold time.Duration) *DB {
	return &DB{DB: conn, driver: driver, logger: logger, slowThreshold: slowThreshold}
}

func dataSource(cfg Config) (driver, dsn string, err error) {
	switch cfg.Driver {
	case "", DriverSQLite, "sqlite":
		if cfg.DSN != "" {
			return DriverSQLite, cfg.DSN, nil
		}
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0755); err != nil {
			return "", "", fmt.Errorf("failed to create database directory: %w", err)
		}
		return DriverSQLite, cfg.SQLitePath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", nil
	case DriverLibSQL, "turso":
		if cfg.TursoDatabaseURL == "" {
			return "", "", fmt.Errorf("driver %s requires TURSO_DATABASE_URL", DriverLibSQL)
		}
		return DriverLibSQL, cfg.TursoDatabaseURL + "?authToken=" + cfg.TursoAuthToken, nil
	case DriverPostgres, "postgres":
		if cfg.DSN == "" {
			return "", "", fmt.Errorf("driver %s requires DB_DSN", DriverPostgres)
		}
		return DriverPostgres, cfg.DSN, nil
	default:
		return "", "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Driver returns the database/sql driver name in use.
func (db *DB) Driver() string { return db.driver }

// Rebind rewrites '?' placeholders to '$n' for Postgres and returns other queries unchanged.
func (db *DB) Rebind(query string) string {
	if db.driver != DriverPostgres {
		return query
	}
	return Rebind(query)
}

// Rebind rewrites '?' placeholders to '$1', '$2', ... ignoring quoted literals.
func Rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// ObserveQuery logs query on the slow-query channel when it ran past the threshold.
func (db *DB) ObserveQuery(query string, start time.Time) {
	duration := time.Since(start)
	if db.slowThreshold > 0 && duration > db.slowThreshold && db.logger != nil {
		db.logger.LogSlowQuery(query, duration)
	}
}
