package models

import "time"

type MenuItem struct {
	ID             string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	Description    string    `gorm:"type:text" json:"description"`
	Price          float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	PriceFormatted string    `gorm:"type:varchar(32)" json:"price_formatted"`
	ImageName      string    `gorm:"type:varchar(255)" json:"imageName"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}
