package database

import (
	"context"
	"database/sql"
	"time"
)

// ExecContext rebinds and runs query, reporting slow executions.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	defer db.ObserveQuery(query, start)
	return db.DB.ExecContext(ctx, db.Rebind(query), args...)
}

// QueryContext rebinds and runs query, reporting slow executions.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	defer db.ObserveQuery(query, start)
	return db.DB.QueryContext(ctx, db.Rebind(query), args...)
}

// QueryRowContext rebinds and runs query, reporting slow executions.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	defer db.ObserveQuery(query, start)
	return db.DB.QueryRowContext(ctx, db.Rebind(query), args...)
}

// Health pings the database and reports the pool state.
func (db *DB) Health(ctx context.Context) map[string]any {
	stats := db.Stats()
	healthy := db.PingContext(ctx) == nil
	return map[string]any{
		"driver":  db.driver,
		"healthy": healthy,
		"maxOpen": stats.MaxOpenConnections,
		"open":    stats.OpenConnections,
		"inUse":   stats.InUse,
		"idle":    stats.Idle,
	}
}
