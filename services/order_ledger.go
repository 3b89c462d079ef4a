package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/smartorder/backend/models"
	"github.com/smartorder/backend/store"
	"github.com/smartorder/backend/utils"
)

// StatusAll meloloskan semua row saat filtering.
const StatusAll = "All"

// OrderLedger membaca riwayat order satu meja dan menurunkan proyeksi per
// item untuk display. Ledger adalah pengamat pasif: status order hanya
// dimajukan lewat AdvanceStatus oleh sisi staff.
type OrderLedger struct {
	DB    *gorm.DB
	Store *store.Store
}

func NewOrderLedger(db *gorm.DB, st *store.Store) *OrderLedger {
	return &OrderLedger{DB: db, Store: st}
}

// OrderRow -> satu item dari satu order, dicap dengan status dan waktu
// order induknya. RowID komposit menjamin keunikan lintas order.
type OrderRow struct {
	RowID       string    `json:"id"`
	OrderID     string    `json:"order_id"`
	ItemID      string    `json:"item_id"`
	Item        string    `json:"item"`
	Description string    `json:"description"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"`
	ImageName   string    `json:"imageName"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UnitPrice memulihkan harga unit dari denormalisasi checkout
// (price = unit * quantity).
func (r OrderRow) UnitPrice() float64 {
	if r.Quantity == 0 {
		return 0
	}
	return r.Price / float64(r.Quantity)
}

// List -> semua order satu meja, terbaru dulu.
func (ol *OrderLedger) List(restaurantID, tableID string) ([]models.Order, error) {
	var orders []models.Order
	err := ol.DB.Preload("Items").
		Where("restaurant_id = ? AND table_id = ?", restaurantID, tableID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransientWrite, err)
	}
	return orders, nil
}

// Watch -> stream snapshot live untuk layar orders.
func (ol *OrderLedger) Watch(restaurantID, tableID string) *store.Subscription {
	return ol.Store.Subscribe(store.Query{
		Collection:   store.CollectionOrders,
		RestaurantID: restaurantID,
		TableID:      tableID,
	})
}

// Flatten membentangkan daftar order menjadi satu row per item.
func Flatten(orders []models.Order) []OrderRow {
	var rows []OrderRow
	for _, order := range orders {
		for _, item := range order.Items {
			rows = append(rows, OrderRow{
				RowID:       fmt.Sprintf("%s-%s", order.ID, item.ItemID),
				OrderID:     order.ID,
				ItemID:      item.ItemID,
				Item:        item.Item,
				Description: item.Description,
				Quantity:    item.Quantity,
				Price:       item.Price,
				ImageName:   item.ImageName,
				Status:      order.Status,
				CreatedAt:   order.CreatedAt,
			})
		}
	}
	return rows
}

// FilterRows menyaring row berdasarkan status warisan order induk.
// "All" meloloskan semuanya tanpa mengubah urutan.
func FilterRows(rows []OrderRow, status string) []OrderRow {
	if status == StatusAll {
		return rows
	}
	var filtered []OrderRow
	for _, row := range rows {
		if row.Status == status {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// AdvanceStatus memajukan status order di jalur staff. Mesin statusnya
// linier Pending -> Delivered -> Paid tanpa transisi mundur.
func (ol *OrderLedger) AdvanceStatus(orderID, status string) (models.Order, error) {
	var order models.Order
	if err := ol.DB.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
		return models.Order{}, err
	}

	if !validTransition(order.Status, status) {
		return models.Order{}, fmt.Errorf("invalid status transition %s -> %s", order.Status, status)
	}

	if err := ol.DB.Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("status", status).Error; err != nil {
		return models.Order{}, fmt.Errorf("%w: %v", ErrTransientWrite, err)
	}
	order.Status = status

	if err := ol.Store.RecordChange(store.CollectionOrders, order.RestaurantID, order.TableID); err != nil {
		utils.ErrorLogger.Printf("Error recording order change: %v", err)
	}

	return order, nil
}

func validTransition(from, to string) bool {
	switch from {
	case models.OrderStatusPending:
		return to == models.OrderStatusDelivered
	case models.OrderStatusDelivered:
		return to == models.OrderStatusPaid
	}
	return false
}
