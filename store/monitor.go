package store

import (
	"time"

	"github.com/smartorder/backend/models"
	"github.com/smartorder/backend/utils"
)

// BroadcastFunc dipanggil untuk setiap perubahan yang selesai dievaluasi,
// dipakai router untuk mendorong snapshot ke websocket hub.
type BroadcastFunc func(collection, restaurantID, tableID string, data interface{})

// ChangeMonitor membaca feed doc_changes secara periodik dan membangunkan
// subscription yang cocok. Polling, bukan push dari database, supaya
// berjalan sama di MySQL maupun SQLite.
type ChangeMonitor struct {
	Store     *Store
	Interval  time.Duration
	Broadcast BroadcastFunc
	StopChan  chan struct{}
}

func NewChangeMonitor(s *Store) *ChangeMonitor {
	return &ChangeMonitor{
		Store:    s,
		Interval: 500 * time.Millisecond,
		StopChan: make(chan struct{}),
	}
}

func (cm *ChangeMonitor) Start() {
	go func() {
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cm.checkChanges()
			case <-cm.StopChan:
				return
			}
		}
	}()
}

func (cm *ChangeMonitor) Stop() {
	close(cm.StopChan)
}

func (cm *ChangeMonitor) checkChanges() {
	var changes []models.DocChange

	tx := cm.Store.DB.Begin()

	if err := tx.Where("processed = ?", false).
		Order("changed_at ASC").
		Limit(100).
		Find(&changes).Error; err != nil {
		tx.Rollback()
		utils.ErrorLogger.Printf("Error fetching doc changes: %v", err)
		return
	}

	// Gabungkan perubahan ke pasangan (collection, meja) unik supaya satu
	// batch mutasi hanya menghasilkan satu snapshot per query.
	type changeKey struct {
		collection   string
		restaurantID string
		tableID      string
	}
	seen := make(map[changeKey]struct{})

	for _, change := range changes {
		key := changeKey{change.Collection, change.RestaurantID, change.TableID}
		seen[key] = struct{}{}

		if err := tx.Model(&models.DocChange{}).
			Where("id = ?", change.ID).
			Update("processed", true).Error; err != nil {
			tx.Rollback()
			utils.ErrorLogger.Printf("Error marking change as processed: %v", err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.ErrorLogger.Printf("Error committing change batch: %v", err)
		tx.Rollback()
		return
	}

	for key := range seen {
		cm.Store.notify(key.collection, key.restaurantID, key.tableID)

		if cm.Broadcast != nil {
			if data, err := cm.Store.Evaluate(Query{
				Collection:   key.collection,
				RestaurantID: key.restaurantID,
				TableID:      key.tableID,
				PendingOnly:  key.collection == CollectionRequests,
			}); err == nil {
				cm.Broadcast(key.collection, key.restaurantID, key.tableID, data)
			}
		}
	}
}
