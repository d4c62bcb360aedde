package repository

import (
	"errors"
	"fmt"

	"github.com/Priyansh-03/Vyapar-Sahayak/internal/model"
	"github.com/Priyansh-03/Vyapar-Sahayak/pkg/database"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a record does not exist
	ErrNotFound = errors.New("record not found")
	// ErrCounterNotFound is returned by CounterRepository.Read before the first allocation
	ErrCounterNotFound = errors.New("bill counter not found")
)

// Models lists every persisted model in migration order
func Models() []interface{} {
	return []interface{}{
		&model.Product{},
		&model.Bill{},
		&model.BillItem{},
		&model.BillCounter{},
		&model.UdhaarEntry{},
		&model.Settings{},
	}
}

// Migrate creates or updates the schema for all models
func Migrate(db *gorm.DB) error {
	if err := database.MigrateModels(db, Models()...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
