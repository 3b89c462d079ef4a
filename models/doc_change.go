package models

import "time"

// DocChange -> feed perubahan dokumen yang dipakai store.ChangeMonitor
// untuk membangunkan subscription dan broadcast websocket.
type DocChange struct {
	ID           uint      `gorm:"primaryKey"`
	Collection   string    `gorm:"type:varchar(50);not null;index:idx_coll_processed"`
	RestaurantID string    `gorm:"type:varchar(64);not null"`
	TableID      string    `gorm:"type:varchar(64);not null"`
	ChangedAt    time.Time `gorm:"not null"`
	Processed    bool      `gorm:"default:false;index:idx_coll_processed"`
}
