package models

import "time"

const (
	RoleAdmin       = "admin"
	RoleEmployee    = "employee"
	RoleClient      = "client"
	RoleNewEmployee = "newemployee"
)

// User -> principal dari identity provider. Client anonim dibuat saat
// binding meja; staff (admin/employee) login dengan email+password.
type User struct {
	UID       string  `gorm:"type:varchar(64);primaryKey" json:"uid"`
	Username  string  `gorm:"type:varchar(255);not null" json:"username"`
	Email     *string `gorm:"type:varchar(255);uniqueIndex" json:"email,omitempty"`
	Password  string  `gorm:"type:varchar(255)" json:"-"`
	Role      string  `gorm:"type:varchar(20);not null" json:"role"`
	PhotoURL  *string `gorm:"type:varchar(255)" json:"photo_url,omitempty"`
	// Sesi aktif (kosong jika tidak ada). Satu sesi per principal.
	SessionRestaurantID string    `gorm:"type:varchar(64)" json:"session_restaurant_id"`
	SessionTableID      string    `gorm:"type:varchar(64)" json:"session_table_id"`
	CreatedAt           time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time `gorm:"not null" json:"updated_at"`
}

// TableSession -> binding satu client instance ke restaurant+meja+user
// selama satu kunjungan. Semua operasi engine menerima nilai ini secara
// eksplisit, tidak membaca state global.
type TableSession struct {
	RestaurantID   string  `json:"restaurant_id"`
	RestaurantName string  `json:"restaurant_name"`
	TableID        string  `json:"table_id"`
	UserID         string  `json:"user_id"`
	UserName       string  `json:"user_name"`
	UserPhoto      *string `json:"user_photo,omitempty"`
}
