package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Priyansh-03/Vyapar-Sahayak/internal/model"
	"github.com/Priyansh-03/Vyapar-Sahayak/prometheus"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerSummary aggregates the udhaar ledger
type LedgerSummary struct {
	TotalReceivable decimal.Decimal     `json:"total_receivable"`
	TotalPayable    decimal.Decimal     `json:"total_payable"`
	Receivable      []model.UdhaarEntry `json:"receivable"`
	Payable         []model.UdhaarEntry `json:"payable"`
}

// UdhaarRepository provides access to the credit ledger
type UdhaarRepository struct {
	db *gorm.DB
}

// NewUdhaarRepository creates an udhaar repository
func NewUdhaarRepository(db *gorm.DB) *UdhaarRepository {
	return &UdhaarRepository{db: db}
}

// List returns entries newest first, optionally restricted to one type
func (r *UdhaarRepository) List(ctx context.Context, entryType model.EntryType) ([]model.UdhaarEntry, error) {
	defer prometheus.TrackDBOperation("udhaar_list")(time.Now())

	query := r.db.WithContext(ctx)
	if entryType != "" {
		query = query.Where("type = ?", entryType)
	}

	var entries []model.UdhaarEntry
	if err := query.Order("date DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list udhaar entries: %w", err)
	}
	return entries, nil
}

// FindByID retrieves one entry
func (r *UdhaarRepository) FindByID(ctx context.Context, id string) (*model.UdhaarEntry, error) {
	var entry model.UdhaarEntry
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to find udhaar entry %s: %w", id, notFound(err))
	}
	return &entry, nil
}

// Create saves a new entry
func (r *UdhaarRepository) Create(ctx context.Context, entry *model.UdhaarEntry) error {
	defer prometheus.TrackDBOperation("udhaar_insert")(time.Now())

	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create udhaar entry: %w", err)
	}
	return nil
}

// Update overwrites an existing entry
func (r *UdhaarRepository) Update(ctx context.Context, entry *model.UdhaarEntry) error {
	defer prometheus.TrackDBOperation("udhaar_update")(time.Now())

	result := r.db.WithContext(ctx).Model(&model.UdhaarEntry{}).
		Where("id = ?", entry.ID).
		Select("name", "amount", "phone_number", "description", "date", "type", "updated_at").
		Updates(entry)
	if result.Error != nil {
		return fmt.Errorf("failed to update udhaar entry %s: %w", entry.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update udhaar entry %s: %w", entry.ID, ErrNotFound)
	}
	return nil
}

// Delete removes an entry
func (r *UdhaarRepository) Delete(ctx context.Context, id string) error {
	defer prometheus.TrackDBOperation("udhaar_delete")(time.Now())

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.UdhaarEntry{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete udhaar entry %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to delete udhaar entry %s: %w", id, ErrNotFound)
	}
	return nil
}

// Summary splits the ledger by type and totals each side
func (r *UdhaarRepository) Summary(ctx context.Context) (*LedgerSummary, error) {
	entries, err := r.List(ctx, "")
	if err != nil {
		return nil, err
	}

	summary := &LedgerSummary{
		TotalReceivable: decimal.Zero,
		TotalPayable:    decimal.Zero,
		Receivable:      []model.UdhaarEntry{},
		Payable:         []model.UdhaarEntry{},
	}
	for _, e := range entries {
		switch e.Type {
		case model.EntryReceivable:
			summary.TotalReceivable = summary.TotalReceivable.Add(e.Amount)
			summary.Receivable = append(summary.Receivable, e)
		case model.EntryPayable:
			summary.TotalPayable = summary.TotalPayable.Add(e.Amount)
			summary.Payable = append(summary.Payable, e)
		}
	}
	return summary, nil
}

// SeedIfEmpty inserts entries in one batch when the ledger is empty
func (r *UdhaarRepository) SeedIfEmpty(ctx context.Context, entries []model.UdhaarEntry) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.UdhaarEntry{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count udhaar entries: %w", err)
	}
	if count > 0 || len(entries) == 0 {
		return false, nil
	}
	if err := r.db.WithContext(ctx).Create(&entries).Error; err != nil {
		return false, fmt.Errorf("failed to seed udhaar entries: %w", err)
	}
	return true, nil
}
