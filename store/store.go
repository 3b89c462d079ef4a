package store

import (
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/smartorder/backend/models"
)

// Nama collection yang bisa di-subscribe.
const (
	CollectionCarts    = "carts"
	CollectionOrders   = "orders"
	CollectionRequests = "requests"
	CollectionTables   = "tables"
)

// Query mengidentifikasi satu pandangan dokumen per meja. Semua data yang
// bisa diamati di-scope ke (restaurant_id, table_id) milik sesi aktif.
type Query struct {
	Collection   string
	RestaurantID string
	TableID      string
	// PendingOnly membatasi collection requests ke status pending.
	PendingOnly bool
}

// Snapshot adalah full state hasil evaluasi query, bukan diff.
type Snapshot struct {
	Query Query
	Data  interface{}
	At    time.Time
}

// Store membungkus koneksi database sebagai document-store collaborator:
// write + pencatatan perubahan + subscribe(query) -> stream snapshot.
type Store struct {
	DB *gorm.DB

	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

func New(db *gorm.DB) *Store {
	return &Store{
		DB:   db,
		subs: make(map[*Subscription]struct{}),
	}
}

// RecordChange mencatat satu perubahan dokumen supaya monitor bisa
// membangunkan subscription yang cocok. Error dicatat saja; kegagalan
// notifikasi tidak boleh menggagalkan write utamanya.
func (s *Store) RecordChange(collection, restaurantID, tableID string) error {
	change := models.DocChange{
		Collection:   collection,
		RestaurantID: restaurantID,
		TableID:      tableID,
		ChangedAt:    time.Now(),
	}
	return s.DB.Create(&change).Error
}

// Subscribe mendaftarkan query dan langsung mengirim snapshot awal,
// lalu snapshot penuh setiap kali ada perubahan yang cocok. Subscriber
// wajib memanggil Close saat tidak lagi menampilkan datanya.
func (s *Store) Subscribe(q Query) *Subscription {
	sub := &Subscription{
		Query: q,
		store: s,
		ch:    make(chan Snapshot, 16),
	}

	s.mu.Lock()
	s.subs[sub] = struct{}{}
	if data, err := s.Evaluate(q); err == nil {
		sub.push(Snapshot{Query: q, Data: data, At: time.Now()})
	}
	s.mu.Unlock()

	return sub
}

// Evaluate menjalankan query dan mengembalikan full state terkini.
// Dokumen cart yang belum ada diperlakukan sebagai cart kosong.
func (s *Store) Evaluate(q Query) (interface{}, error) {
	switch q.Collection {
	case CollectionCarts:
		var cart models.Cart
		err := s.DB.Preload("Items").
			First(&cart, "id = ?", models.CartDocID(q.RestaurantID, q.TableID)).Error
		if err == gorm.ErrRecordNotFound {
			return models.Cart{
				ID:           models.CartDocID(q.RestaurantID, q.TableID),
				RestaurantID: q.RestaurantID,
				TableID:      q.TableID,
				Items:        []models.CartItem{},
			}, nil
		}
		if err != nil {
			return nil, err
		}
		return cart, nil

	case CollectionOrders:
		var orders []models.Order
		err := s.DB.Preload("Items").
			Where("restaurant_id = ? AND table_id = ?", q.RestaurantID, q.TableID).
			Order("created_at DESC").
			Find(&orders).Error
		if err != nil {
			return nil, err
		}
		return orders, nil

	case CollectionRequests:
		var requests []models.HelpRequest
		tx := s.DB.Where("restaurant_id = ? AND table_id = ?", q.RestaurantID, q.TableID)
		if q.PendingOnly {
			tx = tx.Where("status = ?", models.RequestStatusPending)
		}
		if err := tx.Order("created_at ASC").Find(&requests).Error; err != nil {
			return nil, err
		}
		return requests, nil

	case CollectionTables:
		var table models.Table
		err := s.DB.
			First(&table, "restaurant_id = ? AND table_id = ?", q.RestaurantID, q.TableID).Error
		if err != nil {
			return nil, err
		}
		return table, nil
	}

	return nil, gorm.ErrRecordNotFound
}

// notify mengevaluasi ulang dan mendorong snapshot ke semua subscription
// yang cocok dengan perubahan. Dipanggil oleh ChangeMonitor.
func (s *Store) notify(collection, restaurantID, tableID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for sub := range s.subs {
		q := sub.Query
		if q.Collection != collection || q.RestaurantID != restaurantID || q.TableID != tableID {
			continue
		}
		data, err := s.Evaluate(q)
		if err != nil {
			continue
		}
		sub.push(Snapshot{Query: q, Data: data, At: time.Now()})
	}
}

func (s *Store) unsubscribe(sub *Subscription) {
	s.mu.Lock()
	delete(s.subs, sub)
	s.mu.Unlock()
}
