package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/smartorder/backend/models"
	"github.com/smartorder/backend/store"
	"github.com/smartorder/backend/utils"
)

// CartAggregator memiliki semantik merge, mutasi dan persistensi cart
// bersama satu meja. Setiap mutasi adalah read-modify-write dokumen cart
// utuh, bukan increment per field: dua device di meja yang sama bisa saling
// menimpa (lost update). Risiko ini diterima untuk satu meja kecil dan
// didokumentasikan di test, bukan disembunyikan.
type CartAggregator struct {
	DB    *gorm.DB
	Store *store.Store
}

func NewCartAggregator(db *gorm.DB, st *store.Store) *CartAggregator {
	return &CartAggregator{DB: db, Store: st}
}

// Selection -> pilihan menu dari layar menu, itemID ke quantity (>0).
// Quantity nol/negatif ditolak di caller sebelum sampai ke sini.
type Selection map[string]int

// Load membaca cart meja; dokumen yang belum ada dianggap cart kosong.
func (ca *CartAggregator) Load(restaurantID, tableID string) (models.Cart, error) {
	var cart models.Cart
	err := ca.DB.Preload("Items").
		First(&cart, "id = ?", models.CartDocID(restaurantID, tableID)).Error
	if err == gorm.ErrRecordNotFound {
		return models.Cart{
			ID:           models.CartDocID(restaurantID, tableID),
			RestaurantID: restaurantID,
			TableID:      tableID,
			Items:        []models.CartItem{},
		}, nil
	}
	if err != nil {
		return models.Cart{}, fmt.Errorf("%w: %v", ErrTransientWrite, err)
	}
	return cart, nil
}

// AddItems menggabungkan pilihan menu ke cart: line yang sudah ada
// quantity-nya dinaikkan, sisanya jadi line baru. Urutan stabil per itemID
// supaya merge dari dua device menghasilkan daftar yang sama.
func (ca *CartAggregator) AddItems(sess models.TableSession, selection Selection) (models.Cart, error) {
	cart, err := ca.Load(sess.RestaurantID, sess.TableID)
	if err != nil {
		return models.Cart{}, err
	}

	ids := make([]string, 0, len(selection))
	for id := range selection {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		qty := selection[id]
		if qty <= 0 {
			continue
		}

		merged := false
		for i := range cart.Items {
			if cart.Items[i].ItemID == id {
				cart.Items[i].Quantity += qty
				merged = true
				break
			}
		}
		if merged {
			continue
		}

		var menu models.MenuItem
		if err := ca.DB.First(&menu, "id = ?", id).Error; err != nil {
			// Item tak dikenal dilewati, sama seperti checkout menu lama
			continue
		}
		cart.Items = append(cart.Items, models.CartItem{
			CartID:         cart.ID,
			ItemID:         menu.ID,
			Name:           menu.Name,
			Description:    menu.Description,
			Price:          menu.Price,
			PriceFormatted: menu.PriceFormatted,
			Quantity:       qty,
			ImageName:      menu.ImageName,
		})
	}

	return ca.write(cart)
}

// UpdateQuantity menerapkan delta ke satu line. Quantity <= 0 menghapus
// line seluruhnya; line quantity nol tidak pernah disimpan. Dipersist per
// delta, tidak di-batch.
func (ca *CartAggregator) UpdateQuantity(sess models.TableSession, itemID string, delta int) (models.Cart, error) {
	cart, err := ca.Load(sess.RestaurantID, sess.TableID)
	if err != nil {
		return models.Cart{}, err
	}

	kept := cart.Items[:0]
	for _, it := range cart.Items {
		if it.ItemID == itemID {
			it.Quantity += delta
		}
		if it.Quantity > 0 {
			kept = append(kept, it)
		}
	}
	cart.Items = kept

	return ca.write(cart)
}

// RemoveItem menghapus line tanpa syarat.
func (ca *CartAggregator) RemoveItem(sess models.TableSession, itemID string) (models.Cart, error) {
	cart, err := ca.Load(sess.RestaurantID, sess.TableID)
	if err != nil {
		return models.Cart{}, err
	}

	kept := cart.Items[:0]
	for _, it := range cart.Items {
		if it.ItemID != itemID {
			kept = append(kept, it)
		}
	}
	cart.Items = kept

	return ca.write(cart)
}

// Checkout membekukan cart menjadi Order status Pending lalu mengosongkan
// cart ke {items:[], total:0}. OrderItem.Price adalah harga line
// (unit * quantity); harga unit dipulihkan di display dengan pembagian.
// Create order dan clear cart adalah dua write yang tidak atomik: gagal di
// antaranya meninggalkan order tercipta dengan cart belum kosong, dan
// diselesaikan dengan retry dari caller.
func (ca *CartAggregator) Checkout(sess models.TableSession, observations string) (models.Order, error) {
	cart, err := ca.Load(sess.RestaurantID, sess.TableID)
	if err != nil {
		return models.Order{}, err
	}
	if len(cart.Items) == 0 {
		return models.Order{}, ErrEmptyCart
	}

	order := models.Order{
		ID:           uuid.NewString(),
		RestaurantID: sess.RestaurantID,
		TableID:      sess.TableID,
		UserID:       sess.UserID,
		Total:        0,
		Observations: observations,
		Status:       models.OrderStatusPending,
		CreatedAt:    time.Now().UTC(),
	}
	for _, it := range cart.Items {
		order.Items = append(order.Items, models.OrderItem{
			OrderID:     order.ID,
			ItemID:      it.ItemID,
			Item:        it.Name,
			Description: it.Description,
			Quantity:    it.Quantity,
			Price:       it.Price * float64(it.Quantity),
			ImageName:   it.ImageName,
		})
		order.Total += it.Price * float64(it.Quantity)
	}

	if err := ca.DB.Create(&order).Error; err != nil {
		return models.Order{}, fmt.Errorf("%w: %v", ErrTransientWrite, err)
	}
	if err := ca.Store.RecordChange(store.CollectionOrders, sess.RestaurantID, sess.TableID); err != nil {
		utils.ErrorLogger.Printf("Error recording order change: %v", err)
	}

	cart.Items = []models.CartItem{}
	if _, err := ca.write(cart); err != nil {
		// Order sudah tercipta; kegagalan clear dilaporkan apa adanya.
		return order, err
	}

	utils.InfoLogger.Printf("Order %s created for %s/%s (total %.2f)",
		order.ID, sess.RestaurantID, sess.TableID, order.Total)

	return order, nil
}

// write menimpa dokumen cart utuh (items + total) dengan state yang dibaca
// caller, lalu mencatat perubahan.
func (ca *CartAggregator) write(cart models.Cart) (models.Cart, error) {
	cart.RecomputeTotal()
	cart.UpdatedAt = time.Now()

	err := ca.DB.Transaction(func(tx *gorm.DB) error {
		base := models.Cart{
			ID:           cart.ID,
			RestaurantID: cart.RestaurantID,
			TableID:      cart.TableID,
			Total:        cart.Total,
			UpdatedAt:    cart.UpdatedAt,
		}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&base).Error; err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		for i := range cart.Items {
			cart.Items[i].ID = 0
			cart.Items[i].CartID = cart.ID
		}
		if len(cart.Items) > 0 {
			if err := tx.Create(&cart.Items).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Cart{}, fmt.Errorf("%w: %v", ErrTransientWrite, err)
	}

	if err := ca.Store.RecordChange(store.CollectionCarts, cart.RestaurantID, cart.TableID); err != nil {
		utils.ErrorLogger.Printf("Error recording cart change: %v", err)
	}

	return cart, nil
}

// Watch -> stream snapshot cart meja untuk layar cart.
func (ca *CartAggregator) Watch(restaurantID, tableID string) *store.Subscription {
	return ca.Store.Subscribe(store.Query{
		Collection:   store.CollectionCarts,
		RestaurantID: restaurantID,
		TableID:      tableID,
	})
}
