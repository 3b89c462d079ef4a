package services

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/smartorder/backend/models"
	"github.com/smartorder/backend/store"
	"github.com/smartorder/backend/utils"
)

// ScanPayload -> identitas restaurant+meja hasil resolve scan atau kode.
type ScanPayload struct {
	RestaurantID   string `json:"restaurantId"`
	RestaurantName string `json:"restaurantName"`
	TableID        string `json:"tableId"`
}

// SessionResolver menukar payload QR atau kode manual menjadi TableSession
// dan melakukan provisioning meja+user pertama kali.
type SessionResolver struct {
	DB    *gorm.DB
	Store *store.Store
}

func NewSessionResolver(db *gorm.DB, st *store.Store) *SessionResolver {
	return &SessionResolver{DB: db, Store: st}
}

// ResolveFromScan mem-parse payload QR terstruktur. Payload harus membawa
// restaurantId, tableId dan restaurantName sekaligus.
func (sr *SessionResolver) ResolveFromScan(raw []byte) (ScanPayload, error) {
	var payload ScanPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ScanPayload{}, ErrMalformedPayload
	}
	if payload.RestaurantID == "" || payload.TableID == "" || payload.RestaurantName == "" {
		return ScanPayload{}, ErrMalformedPayload
	}
	return payload, nil
}

// ResolveFromCode mencari meja dari kode manual "RESTAURANTID_SUFFIX".
// Split hanya dipakai untuk menemukan restaurant; pencocokan meja memakai
// kode lengkap persis seperti yang diketik.
func (sr *SessionResolver) ResolveFromCode(code string) (ScanPayload, error) {
	code = strings.TrimSpace(code)
	parts := strings.Split(code, "_")
	if len(parts) < 2 {
		return ScanPayload{}, ErrInvalidCodeFormat
	}

	restaurantID := parts[0]

	var restaurant models.Restaurant
	if err := sr.DB.Preload("Tables").First(&restaurant, "id = ?", restaurantID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ScanPayload{}, ErrRestaurantNotFound
		}
		return ScanPayload{}, fmt.Errorf("%w: %v", ErrTransientWrite, err)
	}

	for _, table := range restaurant.Tables {
		if table.Code == code {
			return ScanPayload{
				RestaurantID:   restaurantID,
				RestaurantName: restaurant.Name,
				TableID:        table.TableID,
			}, nil
		}
	}

	return ScanPayload{}, ErrTableCodeNotFound
}

// Bind menerbitkan principal anonim, menandai meja occupied tanpa cek
// status sebelumnya, lalu menulis user record dengan sesi baru. Dua write
// ini tidak transaksional: gagal setelah write pertama meninggalkan meja
// occupied tanpa user terikat dan harus di-retry utuh oleh caller.
func (sr *SessionResolver) Bind(p ScanPayload) (models.TableSession, error) {
	uid := uuid.NewString()
	username := generateUsername(p.TableID)

	if err := sr.DB.Model(&models.Table{}).
		Where("restaurant_id = ? AND table_id = ?", p.RestaurantID, p.TableID).
		Update("status", models.TableStatusOccupied).Error; err != nil {
		return models.TableSession{}, fmt.Errorf("%w: %v", ErrTransientWrite, err)
	}

	user := models.User{
		UID:                 uid,
		Username:            username,
		Role:                models.RoleClient,
		SessionRestaurantID: p.RestaurantID,
		SessionTableID:      p.TableID,
	}
	if err := sr.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(&user).Error; err != nil {
		return models.TableSession{}, fmt.Errorf("%w: %v", ErrTransientWrite, err)
	}

	if err := sr.Store.RecordChange(store.CollectionTables, p.RestaurantID, p.TableID); err != nil {
		utils.ErrorLogger.Printf("Error recording table change: %v", err)
	}

	utils.InfoLogger.Printf("Session bound: %s at %s/%s as %s",
		uid, p.RestaurantID, p.TableID, username)

	return models.TableSession{
		RestaurantID:   p.RestaurantID,
		RestaurantName: p.RestaurantName,
		TableID:        p.TableID,
		UserID:         uid,
		UserName:       username,
	}, nil
}

// Reset melepaskan sesi milik satu principal saat identity provider
// melaporkan principal hilang (sign-out).
func (sr *SessionResolver) Reset(uid string) error {
	return sr.DB.Model(&models.User{}).
		Where("uid = ?", uid).
		Updates(map[string]interface{}{
			"session_restaurant_id": "",
			"session_table_id":      "",
		}).Error
}

// generateUsername -> "User_<digit meja>_<3 digit acak 001..999>".
func generateUsername(tableID string) string {
	var digits strings.Builder
	for _, r := range tableID {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	tableNumber := digits.String()
	if tableNumber == "" {
		tableNumber = "0"
	}
	seq := rand.New(rand.NewSource(time.Now().UnixNano())).Intn(999) + 1
	return fmt.Sprintf("User_%s_%03d", tableNumber, seq)
}
