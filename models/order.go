package models

import "time"

const (
	OrderStatusPending   = "Pending"
	OrderStatusDelivered = "Delivered"
	OrderStatusPaid      = "Paid"
)

// Order -> snapshot immutable dari cart saat checkout. Status hanya
// dimajukan oleh sisi staff (Pending -> Delivered -> Paid), engine client
// tidak pernah mengubahnya setelah dibuat.
type Order struct {
	ID           string      `gorm:"type:varchar(64);primaryKey" json:"id"`
	RestaurantID string      `gorm:"type:varchar(64);not null;index:idx_order_table" json:"restaurant_id"`
	TableID      string      `gorm:"type:varchar(64);not null;index:idx_order_table" json:"table_id"`
	UserID       string      `gorm:"type:varchar(64);not null" json:"user_id"`
	Items        []OrderItem `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"items"`
	Total        float64     `gorm:"type:decimal(10,2);not null" json:"total"`
	Observations string      `gorm:"type:text" json:"observations,omitempty"`
	Status       string      `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	CreatedAt    time.Time   `gorm:"not null;index" json:"createdAt"`
}

type OrderItem struct {
	ID          uint   `gorm:"primaryKey" json:"-"`
	OrderID     string `gorm:"type:varchar(64);not null;index" json:"-"`
	ItemID      string `gorm:"type:varchar(64);not null" json:"id"`
	Item        string `gorm:"type:varchar(255);not null" json:"item"`
	Description string `gorm:"type:text" json:"description"`
	Quantity    int    `gorm:"not null" json:"quantity"`
	// Price adalah harga line (unit * quantity), bukan harga unit.
	// Harga unit dipulihkan di layer display dengan price/quantity.
	Price     float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageName string  `gorm:"type:varchar(255)" json:"imageName"`
}
