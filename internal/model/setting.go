package model

import "time"

// SettingsID is the primary key of the singleton settings row
const SettingsID uint = 1

// Settings holds shop-wide preferences
type Settings struct {
	ID                      uint      `json:"-" gorm:"primaryKey"`
	GlobalLowStockThreshold int       `json:"global_low_stock_threshold" gorm:"not null"`
	NotificationsEnabled    bool      `json:"notifications_enabled" gorm:"not null;default:false"`
	UpdatedAt               time.Time `json:"updated_at"`
}
