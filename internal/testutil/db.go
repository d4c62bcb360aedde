// Package testutil provides throwaway databases for tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/Priyansh-03/Vyapar-Sahayak/pkg/config"
	"github.com/Priyansh-03/Vyapar-Sahayak/pkg/database"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated SQLite database in a temp dir with the same pool
// settings the service uses
func NewDB(t testing.TB, models ...interface{}) *gorm.DB {
	t.Helper()

	conn, err := database.Connect(&config.DBConfig{
		Driver:       "sqlite",
		SQLitePath:   filepath.Join(t.TempDir(), "test.db"),
		MaxIdleConns: 10,
		MaxOpenConns: 100,
		LogLevel:     logger.Silent,
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.MigrateModels(conn, models...))
	return conn
}
