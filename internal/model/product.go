package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a catalog item and its on-hand stock
type Product struct {
	ID       string          `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name     string          `json:"name" gorm:"type:varchar(255);not null;index"`
	Category string          `json:"category" gorm:"type:varchar(100);not null;index"`
	Price    decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Quantity int             `json:"quantity" gorm:"not null;default:0"`
	// MinStockThreshold overrides the global low-stock threshold when set
	MinStockThreshold *int      `json:"min_stock_threshold,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// BeforeCreate assigns an opaque id to new products
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ClampQuantity returns q, or 0 when q is negative. Stock is never persisted negative.
func ClampQuantity(q int) int {
	if q < 0 {
		return 0
	}
	return q
}
