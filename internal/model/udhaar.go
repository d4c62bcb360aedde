package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EntryType tells which way an udhaar amount flows
type EntryType string

const (
	EntryPayable    EntryType = "payable"
	EntryReceivable EntryType = "receivable"
)

// Valid reports whether t is a known entry type
func (t EntryType) Valid() bool {
	return t == EntryPayable || t == EntryReceivable
}

// UdhaarEntry is one line of the credit ledger
type UdhaarEntry struct {
	ID          string          `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name        string          `json:"name" gorm:"type:varchar(255);not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	PhoneNumber *string         `json:"phone_number,omitempty" gorm:"type:varchar(20)"`
	Description *string         `json:"description,omitempty" gorm:"type:text"`
	Date        time.Time       `json:"date" gorm:"not null;index"`
	Type        EntryType       `json:"type" gorm:"type:varchar(16);not null;index"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// BeforeCreate assigns an opaque id to new entries
func (e *UdhaarEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
