package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Priyansh-03/Vyapar-Sahayak/internal/model"
	"github.com/Priyansh-03/Vyapar-Sahayak/prometheus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CounterRepository owns the singleton BillCounter row
type CounterRepository struct {
	db *gorm.DB
}

// NewCounterRepository creates a counter repository
func NewCounterRepository(db *gorm.DB) *CounterRepository {
	return &CounterRepository{db: db}
}

// Read returns the counter, or ErrCounterNotFound if no number was ever allocated
func (r *CounterRepository) Read(ctx context.Context) (*model.BillCounter, error) {
	defer prometheus.TrackDBOperation("counter_read")(time.Now())

	var counter model.BillCounter
	err := r.db.WithContext(ctx).Where("id = ?", model.BillCounterID).Take(&counter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCounterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read bill counter: %w", err)
	}
	return &counter, nil
}

// Increment advances the counter by one inside a single transaction and returns
// the new value. The row is locked for the read-modify-write; a missing row is
// created with value 1 in the same transaction.
func (r *CounterRepository) Increment(ctx context.Context) (int64, error) {
	defer prometheus.TrackDBOperation("counter_increment")(time.Now())

	var next int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var counter model.BillCounter
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", model.BillCounterID).
			Take(&counter).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			counter = model.BillCounter{ID: model.BillCounterID, LastNumber: 1}
			if err := tx.Create(&counter).Error; err != nil {
				return fmt.Errorf("failed to create bill counter: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to lock bill counter: %w", err)
		default:
			counter.LastNumber++
			if err := tx.Model(&model.BillCounter{}).
				Where("id = ?", model.BillCounterID).
				Update("last_number", counter.LastNumber).Error; err != nil {
				return fmt.Errorf("failed to advance bill counter: %w", err)
			}
		}

		next = counter.LastNumber
		return nil
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}
