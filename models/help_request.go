package models

import "time"

const (
	RequestStatusPending  = "pending"
	RequestStatusAttended = "attended"
)

// HelpRequest -> permintaan bantuan staff dari satu meja. Maksimal satu
// request pending per meja secara konvensi (query), bukan constraint.
type HelpRequest struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID string    `gorm:"type:varchar(64);not null;index:idx_req_table" json:"restaurant_id"`
	TableID      string    `gorm:"type:varchar(64);not null;index:idx_req_table" json:"table_id"`
	UserName     string    `gorm:"type:varchar(255);not null" json:"user_name"`
	Reason       string    `gorm:"type:text" json:"reason,omitempty"`
	Status       string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null" json:"-"`
}
