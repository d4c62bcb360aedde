package repository

import (
	"context"
	"fmt"

	"github.com/Priyansh-03/Vyapar-Sahayak/internal/model"
	"gorm.io/gorm"
)

// SettingsRepository stores the singleton shop settings row
type SettingsRepository struct {
	db               *gorm.DB
	defaultThreshold int
}

// NewSettingsRepository creates a settings repository. defaultThreshold seeds
// the global low-stock threshold the first time settings are read.
func NewSettingsRepository(db *gorm.DB, defaultThreshold int) *SettingsRepository {
	return &SettingsRepository{db: db, defaultThreshold: defaultThreshold}
}

// Get returns the settings, creating them with defaults if absent
func (r *SettingsRepository) Get(ctx context.Context) (*model.Settings, error) {
	var settings model.Settings
	err := r.db.WithContext(ctx).
		Where(model.Settings{ID: model.SettingsID}).
		Attrs(model.Settings{GlobalLowStockThreshold: r.defaultThreshold}).
		FirstOrCreate(&settings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return &settings, nil
}

// GlobalLowStockThreshold returns the configured global threshold
func (r *SettingsRepository) GlobalLowStockThreshold(ctx context.Context) (int, error) {
	settings, err := r.Get(ctx)
	if err != nil {
		return 0, err
	}
	return settings.GlobalLowStockThreshold, nil
}

// Save overwrites the settings row
func (r *SettingsRepository) Save(ctx context.Context, settings *model.Settings) error {
	settings.ID = model.SettingsID
	if err := r.db.WithContext(ctx).Save(settings).Error; err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
