package database

import (
	"testing"

	"github.com/AtRiskMedia/praxis/internal/infrastructure/observability/logging"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebind(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"SELECT 1", "SELECT 1"},
		{"UPDATE t SET a = ? WHERE id = ?", "UPDATE t SET a = $1 WHERE id = $2"},
		{"SELECT '?' FROM t WHERE x = ?", "SELECT '?' FROM t WHERE x = $1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Rebind(tt.in))
	}
}

func TestDBRebindOnlyForPostgres(t *testing.T) {
	conn, _, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	lite := Wrap(conn, DriverSQLite, logging.NewDiscardLogger(), 0)
	pg := Wrap(conn, DriverPostgres, logging.NewDiscardLogger(), 0)

	assert.Equal(t, "x = ?", lite.Rebind("x = ?"))
	assert.Equal(t, "x = $1", pg.Rebind("x = ?"))
}

func TestDataSource(t *testing.T) {
	driver, dsn, err := dataSource(Config{Driver: "turso", TursoDatabaseURL: "libsql://praxis.turso.io", TursoAuthToken: "tok"})
	require.NoError(t, err)
	assert.Equal(t, DriverLibSQL, driver)
	assert.Equal(t, "libsql://praxis.turso.io?authToken=tok", dsn)

	_, _, err = dataSource(Config{Driver: DriverPostgres})
	assert.Error(t, err)

	_, _, err = dataSource(Config{Driver: "oracle"})
	assert.Error(t, err)

	driver, dsn, err = dataSource(Config{Driver: "sqlite", DSN: "file::memory:"})
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, driver)
	assert.Equal(t, "file::memory:", dsn)
}
