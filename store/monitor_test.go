package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/smartorder/backend/models"
	"github.com/smartorder/backend/store"
	"github.com/smartorder/backend/utils"
)

func setupStoreDB(t *testing.T) *store.Store {
	utils.InitLogger()
	db, err := gorm.Open(sqlite.Open("file:store_test?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{},
		&models.HelpRequest{}, &models.Table{}, &models.DocChange{},
	)
	assert.NoError(t, err)

	db.Exec("DELETE FROM carts")
	db.Exec("DELETE FROM cart_items")
	db.Exec("DELETE FROM orders")
	db.Exec("DELETE FROM order_items")
	db.Exec("DELETE FROM help_requests")
	db.Exec("DELETE FROM tables")
	db.Exec("DELETE FROM doc_changes")

	return store.New(db)
}

func waitSnapshot(t *testing.T, sub *store.Subscription) store.Snapshot {
	t.Helper()
	select {
	case snap, ok := <-sub.Snapshots():
		if !ok {
			t.Fatal("subscription channel closed unexpectedly")
		}
		return snap
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return store.Snapshot{}
}

func TestSubscribeDeliversInitialSnapshot(t *testing.T) {
	st := setupStoreDB(t)

	// Cart yang belum ada tetap menghasilkan snapshot kosong
	sub := st.Subscribe(store.Query{
		Collection:   store.CollectionCarts,
		RestaurantID: "R1",
		TableID:      "T1",
	})
	defer sub.Close()

	snap := waitSnapshot(t, sub)
	cart, ok := snap.Data.(models.Cart)
	assert.True(t, ok)
	assert.Empty(t, cart.Items)
	assert.Equal(t, models.CartDocID("R1", "T1"), cart.ID)
}

func TestMonitorPushesSnapshotPerChange(t *testing.T) {
	st := setupStoreDB(t)

	monitor := store.NewChangeMonitor(st)
	monitor.Interval = 50 * time.Millisecond
	monitor.Start()
	defer monitor.Stop()

	sub := st.Subscribe(store.Query{
		Collection:   store.CollectionOrders,
		RestaurantID: "R1",
		TableID:      "T1",
	})
	defer sub.Close()

	// Snapshot awal: belum ada order
	snap := waitSnapshot(t, sub)
	orders, ok := snap.Data.([]models.Order)
	assert.True(t, ok)
	assert.Empty(t, orders)

	// Tulis order lalu catat perubahan seperti yang dilakukan engine
	order := models.Order{
		ID: "ord-1", RestaurantID: "R1", TableID: "T1", UserID: "uid-1",
		Total: 2.50, Status: models.OrderStatusPending, CreatedAt: time.Now(),
	}
	assert.NoError(t, st.DB.Create(&order).Error)
	assert.NoError(t, st.RecordChange(store.CollectionOrders, "R1", "T1"))

	snap = waitSnapshot(t, sub)
	orders, ok = snap.Data.([]models.Order)
	assert.True(t, ok)
	assert.Len(t, orders, 1)
	assert.Equal(t, "ord-1", orders[0].ID)
}

func TestMonitorIgnoresOtherTables(t *testing.T) {
	st := setupStoreDB(t)

	monitor := store.NewChangeMonitor(st)
	monitor.Interval = 50 * time.Millisecond
	monitor.Start()
	defer monitor.Stop()

	sub := st.Subscribe(store.Query{
		Collection:   store.CollectionRequests,
		RestaurantID: "R1",
		TableID:      "T1",
		PendingOnly:  true,
	})
	defer sub.Close()

	// Buang snapshot awal
	waitSnapshot(t, sub)

	// Perubahan di meja lain tidak boleh membangunkan subscription ini
	assert.NoError(t, st.RecordChange(store.CollectionRequests, "R1", "T2"))

	select {
	case snap := <-sub.Snapshots():
		t.Fatalf("unexpected snapshot for other table: %+v", snap)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestSubscriptionClose(t *testing.T) {
	st := setupStoreDB(t)

	sub := st.Subscribe(store.Query{
		Collection:   store.CollectionCarts,
		RestaurantID: "R1",
		TableID:      "T1",
	})

	waitSnapshot(t, sub)
	sub.Close()
	// Close kedua harus aman
	sub.Close()

	// Channel tertutup setelah Close
	for range sub.Snapshots() {
	}
}

func TestMonitorBroadcastHook(t *testing.T) {
	st := setupStoreDB(t)

	got := make(chan string, 4)
	monitor := store.NewChangeMonitor(st)
	monitor.Interval = 50 * time.Millisecond
	monitor.Broadcast = func(collection, restaurantID, tableID string, data interface{}) {
		got <- collection + "/" + restaurantID + "/" + tableID
	}
	monitor.Start()
	defer monitor.Stop()

	assert.NoError(t, st.RecordChange(store.CollectionCarts, "R1", "T1"))

	select {
	case key := <-got:
		assert.Equal(t, "carts/R1/T1", key)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for broadcast")
	}
}
