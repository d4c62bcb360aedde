package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Priyansh-03/Vyapar-Sahayak/internal/model"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DefaultProducts is the starter catalog of a new shop
func DefaultProducts() []model.Product {
	return []model.Product{
		{Name: "Parle-G Biscuit", Category: "Biscuits", Price: decimal.NewFromInt(10), Quantity: 150, MinStockThreshold: intPtr(20)},
		{Name: "Lays Classic Chips", Category: "Snacks", Price: decimal.NewFromInt(20), Quantity: 8},
		{Name: "Coca-Cola 500ml", Category: "Beverages", Price: decimal.NewFromInt(40), Quantity: 75},
		{Name: "Amul Milk 1L", Category: "Dairy", Price: decimal.NewFromInt(55), Quantity: 30, MinStockThreshold: intPtr(5)},
		{Name: "Surf Excel 1kg", Category: "Detergent", Price: decimal.NewFromInt(120), Quantity: 5},
		{Name: "Colgate MaxFresh", Category: "Oral Care", Price: decimal.NewFromInt(50), Quantity: 60},
		{Name: "Maggi Noodles", Category: "Instant Food", Price: decimal.NewFromInt(12), Quantity: 100},
		{Name: "Dairy Milk Silk", Category: "Chocolates", Price: decimal.NewFromInt(70), Quantity: 3, MinStockThreshold: intPtr(0)},
		{Name: "Aashirvaad Atta 5kg", Category: "Staples", Price: decimal.NewFromInt(250), Quantity: 50, MinStockThreshold: intPtr(10)},
		{Name: "Tata Salt 1kg", Category: "Staples", Price: decimal.NewFromInt(25), Quantity: 80, MinStockThreshold: intPtr(15)},
		{Name: "Red Label Tea 250g", Category: "Beverages", Price: decimal.NewFromInt(130), Quantity: 40},
		{Name: "Good Day Cookies", Category: "Biscuits", Price: decimal.NewFromInt(30), Quantity: 0, MinStockThreshold: intPtr(5)},
		{Name: "Sunfeast Dark Fantasy", Category: "Chocolates", Price: decimal.NewFromInt(35), Quantity: 2, MinStockThreshold: intPtr(5)},
	}
}

// DefaultUdhaarEntries is the starter credit ledger of a new shop
func DefaultUdhaarEntries() []model.UdhaarEntry {
	return []model.UdhaarEntry{
		{Name: "Amit Sharma", Amount: decimal.NewFromInt(500), PhoneNumber: strPtr("9876543210"), Description: strPtr("Groceries"), Date: day(2024, time.July, 15), Type: model.EntryReceivable},
		{Name: "Sunita Devi", Amount: decimal.NewFromInt(250), Description: strPtr("Milk supply"), Date: day(2024, time.July, 20), Type: model.EntryPayable},
		{Name: "Rajesh Electrician", Amount: decimal.NewFromInt(1200), PhoneNumber: strPtr("9988776655"), Date: day(2024, time.June, 10), Type: model.EntryPayable},
		{Name: "Vikas Kirana Store", Amount: decimal.NewFromInt(350), Description: strPtr("Pending payment"), Date: day(2024, time.July, 22), Type: model.EntryReceivable},
	}
}

// Seed loads the starter catalog and ledger into empty tables
func Seed(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	seeded, err := NewProductRepository(db).SeedIfEmpty(ctx, DefaultProducts())
	if err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	if seeded {
		log.Info("Seeded default products")
	}

	seeded, err = NewUdhaarRepository(db).SeedIfEmpty(ctx, DefaultUdhaarEntries())
	if err != nil {
		return fmt.Errorf("seed udhaar ledger: %w", err)
	}
	if seeded {
		log.Info("Seeded default udhaar entries")
	}
	return nil
}
