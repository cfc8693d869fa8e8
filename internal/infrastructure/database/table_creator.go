// Package database builds the Praxis schema and seeds sign-in users.
package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Execer is satisfied by *sql.DB and the persistence wrapper.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// TableCreator handles the creation of the database schema.
type TableCreator struct{}

// NewTableCreator creates a new TableCreator.
func NewTableCreator() *TableCreator {
	return &TableCreator{}
}

// CreateSchema executes all necessary queries to build the tables and indexes. It is idempotent.
func (tc *TableCreator) CreateSchema(ctx context.Context, db Execer) error {
	for _, tableSQL := range tables {
		if _, err := db.ExecContext(ctx, tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}

	for _, indexSQL := range indexes {
		if _, err := db.ExecContext(ctx, indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}

// Portable across sqlite3, libsql and Postgres; timestamps are RFC 3339 text.
var tables = []string{
	`CREATE TABLE IF NOT EXISTS contact_submissions (id TEXT PRIMARY KEY, name TEXT NOT NULL, email TEXT NOT NULL, company TEXT, message TEXT NOT NULL, status TEXT NOT NULL DEFAULT 'new', created_at TEXT NOT NULL, context TEXT)`,
	`CREATE TABLE IF NOT EXISTS users (id TEXT PRIMARY KEY, email TEXT NOT NULL UNIQUE, password_hash TEXT NOT NULL, created_at TEXT NOT NULL)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_contact_submissions_created_at ON contact_submissions(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_contact_submissions_status ON contact_submissions(status)`,
	`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
}
