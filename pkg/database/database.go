package database

import (
	"fmt"
	"strings"

	"github.com/Priyansh-03/Vyapar-Sahayak/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

// sqliteParams makes writers take the lock when a transaction begins and wait
// for a busy database instead of failing at once
const sqliteParams = "_busy_timeout=5000&_txlock=immediate"

// InitDB opens the configured database, applies pool settings and keeps the
// handle for GetDB
func InitDB(dbConfig *config.DBConfig) (*gorm.DB, error) {
	conn, err := Connect(dbConfig)
	if err != nil {
		return nil, err
	}

	db = conn
	return db, nil
}

// Connect opens the configured database and applies pool settings. SQLite
// allows a single writer, so its pool is capped at one open connection.
func Connect(dbConfig *config.DBConfig) (*gorm.DB, error) {
	conn, err := Open(dbConfig)
	if err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	maxOpen := dbConfig.MaxOpenConns
	if dbConfig.Driver == "sqlite" {
		maxOpen = 1
	}
	sqlDB.SetMaxIdleConns(dbConfig.MaxIdleConns)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(dbConfig.ConnMaxLifetime)

	return conn, nil
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&" + sqliteParams
	}
	return path + "?" + sqliteParams
}

// Open connects with the dialector matching dbConfig.Driver
func Open(dbConfig *config.DBConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch dbConfig.Driver {
	case "sqlite":
		dialector = sqlite.Open(sqliteDSN(dbConfig.GetDSN()))
	case "postgres", "":
		dialector = postgres.New(postgres.Config{
			DSN:                  dbConfig.GetDSN(),
			PreferSimpleProtocol: true, // Disables implicit prepared statement usage
		})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", dbConfig.Driver)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(dbConfig.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return conn, nil
}

// MigrateModels runs migrations for the provided models
func MigrateModels(conn *gorm.DB, models ...interface{}) error {
	if conn == nil {
		return fmt.Errorf("database is not initialized")
	}
	if err := conn.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return db
}
