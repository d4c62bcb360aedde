package model

import "time"

// BillCounterID is the primary key of the singleton counter row
const BillCounterID = "bills"

// BillCounter tracks the last issued sequential bill number
type BillCounter struct {
	ID         string    `json:"-" gorm:"type:varchar(32);primaryKey"`
	LastNumber int64     `json:"last_number" gorm:"not null;default:0"`
	UpdatedAt  time.Time `json:"updated_at"`
}
