package models

import "time"

// AnonymousSentinel dipakai untuk userId/userName saat rating anonim.
const AnonymousSentinel = "Anonymous"

// Rating -> feedback sekali per siklus settlement, append-only.
type Rating struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID string    `gorm:"type:varchar(64);not null;index" json:"restaurant_id"`
	TableID      string    `gorm:"type:varchar(64);not null" json:"table_id"`
	Rating       int       `gorm:"not null" json:"rating"`
	Comments     string    `gorm:"type:text" json:"comments"`
	IsAnonymous  bool      `gorm:"not null;default:false" json:"is_anonymous"`
	UserID       string    `gorm:"type:varchar(64);not null" json:"user_id"`
	UserName     string    `gorm:"type:varchar(255);not null" json:"user_name"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
}
