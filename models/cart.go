package models

import (
	"fmt"
	"time"
)

// Cart -> keranjang bersama per meja, satu dokumen per
// (restaurant_id, table_id). ID deterministik supaya semua device di satu
// meja menunjuk dokumen yang sama tanpa discovery.
type Cart struct {
	ID           string     `gorm:"type:varchar(160);primaryKey" json:"id"`
	RestaurantID string     `gorm:"type:varchar(64);not null;index" json:"restaurant_id"`
	TableID      string     `gorm:"type:varchar(64);not null;index" json:"table_id"`
	Items        []CartItem `gorm:"foreignKey:CartID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"items"`
	Total        float64    `gorm:"type:decimal(10,2);not null;default:0.00" json:"total"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`
}

type CartItem struct {
	ID             uint    `gorm:"primaryKey" json:"-"`
	CartID         string  `gorm:"type:varchar(160);not null;index" json:"-"`
	ItemID         string  `gorm:"type:varchar(64);not null" json:"id"`
	Name           string  `gorm:"type:varchar(255);not null" json:"name"`
	Description    string  `gorm:"type:text" json:"description"`
	Price          float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	PriceFormatted string  `gorm:"type:varchar(32)" json:"price_formatted"`
	Quantity       int     `gorm:"not null" json:"quantity"`
	ImageName      string  `gorm:"type:varchar(255)" json:"imageName"`
}

// CartDocID -> key dokumen cart, konvensi yang sama dipakai semua client.
func CartDocID(restaurantID, tableID string) string {
	return fmt.Sprintf("cart_%s_%s", restaurantID, tableID)
}

// RecomputeTotal menghitung ulang invariant total == Σ price*quantity.
func (c *Cart) RecomputeTotal() {
	var total float64
	for _, it := range c.Items {
		total += it.Price * float64(it.Quantity)
	}
	c.Total = total
}
