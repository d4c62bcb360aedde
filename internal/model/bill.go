package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill is an immutable sales receipt
type Bill struct {
	ID string `json:"id" gorm:"type:varchar(36);primaryKey"`
	// BillNumber is the allocated sequence number, or an ERR- fallback token
	// when allocation was degraded. It is not unique across fallback tokens.
	BillNumber          string          `json:"bill_number" gorm:"type:varchar(32);not null;index"`
	CustomerName        *string         `json:"customer_name,omitempty" gorm:"type:varchar(255)"`
	CustomerPhoneNumber *string         `json:"customer_phone_number,omitempty" gorm:"type:varchar(10)"`
	Items               []BillItem      `json:"items" gorm:"foreignKey:BillID;constraint:OnDelete:CASCADE"`
	TotalAmount         decimal.Decimal `json:"total_amount" gorm:"type:decimal(14,2);not null"`
	Timestamp           time.Time       `json:"timestamp" gorm:"not null;index"`
}

// BillItem is a snapshot of one sold cart line
type BillItem struct {
	ID        uint            `json:"-" gorm:"primaryKey"`
	BillID    string          `json:"-" gorm:"type:varchar(36);index;not null"`
	Position  int             `json:"-" gorm:"not null"`
	ProductID string          `json:"product_id" gorm:"type:varchar(36);not null"`
	Name      string          `json:"name" gorm:"type:varchar(255);not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	Subtotal  decimal.Decimal `json:"subtotal" gorm:"type:decimal(14,2);not null"`
}
