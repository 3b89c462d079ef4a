package models

import "time"

const (
	TableStatusFree     = "free"
	TableStatusOccupied = "occupied"
)

// Table -> meja fisik milik satu restaurant. Code adalah kode manual
// yang bisa diketik customer sebagai pengganti scan QR.
type Table struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	RestaurantID string    `gorm:"type:varchar(64);not null;index:idx_rest_table,unique" json:"restaurant_id"`
	TableID      string    `gorm:"type:varchar(64);not null;index:idx_rest_table,unique" json:"table_id"`
	Code         string    `gorm:"type:varchar(64);not null" json:"code"`
	Status       string    `gorm:"type:varchar(20);not null;default:'free'" json:"status"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}
