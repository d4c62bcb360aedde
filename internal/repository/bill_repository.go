package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Priyansh-03/Vyapar-Sahayak/internal/model"
	"github.com/Priyansh-03/Vyapar-Sahayak/prometheus"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BillSort selects the ordering of the bill history
type BillSort string

const (
	SortDateDesc   BillSort = "dateDesc"
	SortDateAsc    BillSort = "dateAsc"
	SortAmountDesc BillSort = "amountDesc"
	SortAmountAsc  BillSort = "amountAsc"
)

// ParseBillSort maps a query value to a BillSort, defaulting to newest first
func ParseBillSort(s string) BillSort {
	switch BillSort(s) {
	case SortDateAsc, SortAmountDesc, SortAmountAsc:
		return BillSort(s)
	default:
		return SortDateDesc
	}
}

func (s BillSort) orderClause() string {
	switch s {
	case SortDateAsc:
		return "timestamp ASC"
	case SortAmountDesc:
		return "total_amount DESC, timestamp DESC"
	case SortAmountAsc:
		return "total_amount ASC, timestamp DESC"
	default:
		return "timestamp DESC"
	}
}

// BillQuery filters and orders the bill history
type BillQuery struct {
	// Search matches bill number, customer name, phone number or item name
	Search string
	Sort   BillSort
}

// BillRepository provides access to bill storage
type BillRepository struct {
	db *gorm.DB
}

// NewBillRepository creates a bill repository
func NewBillRepository(db *gorm.DB) *BillRepository {
	return &BillRepository{db: db}
}

// Create writes the bill and its items as one record
func (r *BillRepository) Create(ctx context.Context, bill *model.Bill) error {
	defer prometheus.TrackDBOperation("bill_insert")(time.Now())

	if err := r.db.WithContext(ctx).Create(bill).Error; err != nil {
		return fmt.Errorf("failed to write bill %s: %w", bill.BillNumber, err)
	}
	return nil
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// FindByID retrieves one bill with its items
func (r *BillRepository) FindByID(ctx context.Context, id string) (*model.Bill, error) {
	defer prometheus.TrackDBOperation("bill_get")(time.Now())

	var bill model.Bill
	err := r.db.WithContext(ctx).
		Preload("Items", preloadItems).
		Where("id = ?", id).
		Take(&bill).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find bill %s: %w", id, notFound(err))
	}
	return &bill, nil
}

// List returns the bill history
func (r *BillRepository) List(ctx context.Context, q BillQuery) ([]model.Bill, error) {
	defer prometheus.TrackDBOperation("bill_list")(time.Now())

	query := r.db.WithContext(ctx).Preload("Items", preloadItems)
	if search := strings.ToLower(strings.TrimSpace(q.Search)); search != "" {
		like := "%" + search + "%"
		itemMatch := r.db.Model(&model.BillItem{}).Select("bill_id").Where("LOWER(name) LIKE ?", like)
		query = query.Where(
			"LOWER(bill_number) LIKE ? OR LOWER(customer_name) LIKE ? OR customer_phone_number LIKE ? OR id IN (?)",
			like, like, like, itemMatch,
		)
	}

	var bills []model.Bill
	if err := query.Order(q.Sort.orderClause()).Find(&bills).Error; err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	return bills, nil
}

// SalesTotals aggregates the bills of a time range
type SalesTotals struct {
	BillCount int64           `json:"bill_count"`
	Amount    decimal.Decimal `json:"amount"`
}

// SalesBetween totals the bills stamped in [from, to)
func (r *BillRepository) SalesBetween(ctx context.Context, from, to time.Time) (*SalesTotals, error) {
	defer prometheus.TrackDBOperation("bill_sales_total")(time.Now())

	var amounts []decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Bill{}).
		Where("timestamp >= ? AND timestamp < ?", from.UTC(), to.UTC()).
		Pluck("total_amount", &amounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to total sales: %w", err)
	}

	totals := &SalesTotals{BillCount: int64(len(amounts)), Amount: decimal.Zero}
	for _, a := range amounts {
		totals.Amount = totals.Amount.Add(a)
	}
	return totals, nil
}
