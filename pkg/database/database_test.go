package database

import (
	"path/filepath"
	"testing"

	"github.com/Priyansh-03/Vyapar-Sahayak/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

type widget struct {
	ID   uint
	Name string
}

func TestInitDBWithSQLite(t *testing.T) {
	conn, err := InitDB(&config.DBConfig{
		Driver:       "sqlite",
		SQLitePath:   filepath.Join(t.TempDir(), "shop.db"),
		MaxIdleConns: 1,
		MaxOpenConns: 1,
		LogLevel:     logger.Silent,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := conn.DB()
		sqlDB.Close()
	})

	assert.Same(t, conn, GetDB())
	require.NoError(t, MigrateModels(conn, &widget{}))
	assert.True(t, conn.Migrator().HasTable(&widget{}))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(&config.DBConfig{Driver: "mongo"})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestMigrateModelsWithoutConnection(t *testing.T) {
	assert.Error(t, MigrateModels(nil, &widget{}))
}

func TestInitDBCapsSQLitePool(t *testing.T) {
	conn, err := InitDB(&config.DBConfig{
		Driver:       "sqlite",
		SQLitePath:   filepath.Join(t.TempDir(), "shop.db"),
		MaxIdleConns: 10,
		MaxOpenConns: 100,
		LogLevel:     logger.Silent,
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "shop.db?_busy_timeout=5000&_txlock=immediate", sqliteDSN("shop.db"))
	assert.Equal(t, "file:shop.db?cache=shared&_busy_timeout=5000&_txlock=immediate", sqliteDSN("file:shop.db?cache=shared"))
}
