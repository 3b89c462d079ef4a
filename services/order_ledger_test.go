package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/smartorder/backend/models"
	"github.com/smartorder/backend/services"
	"github.com/smartorder/backend/store"
	"github.com/smartorder/backend/utils"
)

func setupLedgerDB(t *testing.T) (*gorm.DB, *store.Store) {
	utils.InitLogger()
	db, err := gorm.Open(sqlite.Open("file:ledger_test?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(&models.Order{}, &models.OrderItem{}, &models.DocChange{})
	assert.NoError(t, err)

	db.Exec("DELETE FROM orders")
	db.Exec("DELETE FROM order_items")
	db.Exec("DELETE FROM doc_changes")

	return db, store.New(db)
}

func seedLedgerOrders(t *testing.T, db *gorm.DB) {
	older := models.Order{
		ID: "ord-1", RestaurantID: "R1", TableID: "T1", UserID: "uid-1",
		Total: 5.00, Status: models.OrderStatusPaid,
		CreatedAt: time.Now().Add(-10 * time.Minute),
		Items: []models.OrderItem{
			{ItemID: "espresso", Item: "Espresso", Quantity: 2, Price: 5.00},
		},
	}
	newer := models.Order{
		ID: "ord-2", RestaurantID: "R1", TableID: "T1", UserID: "uid-1",
		Total: 3.20, Status: models.OrderStatusPending,
		CreatedAt: time.Now(),
		Items: []models.OrderItem{
			{ItemID: "cappuccino", Item: "Cappuccino", Quantity: 1, Price: 3.20},
		},
	}
	assert.NoError(t, db.Create(&older).Error)
	assert.NoError(t, db.Create(&newer).Error)
}

func TestListNewestFirst(t *testing.T) {
	db, st := setupLedgerDB(t)
	seedLedgerOrders(t, db)
	ledger := services.NewOrderLedger(db, st)

	orders, err := ledger.List("R1", "T1")
	assert.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, "ord-2", orders[0].ID)
	assert.Equal(t, "ord-1", orders[1].ID)
	assert.Len(t, orders[0].Items, 1)
}

func TestFlattenAndFilter(t *testing.T) {
	db, st := setupLedgerDB(t)
	seedLedgerOrders(t, db)
	ledger := services.NewOrderLedger(db, st)

	orders, err := ledger.List("R1", "T1")
	assert.NoError(t, err)

	rows := services.Flatten(orders)
	assert.Len(t, rows, 2)
	// Row mewarisi status order induknya dan RowID unik lintas order
	assert.Equal(t, "ord-2-cappuccino", rows[0].RowID)
	assert.Equal(t, models.OrderStatusPending, rows[0].Status)
	assert.Equal(t, "ord-1-espresso", rows[1].RowID)
	assert.Equal(t, models.OrderStatusPaid, rows[1].Status)

	// "All" meloloskan semuanya tanpa mengubah urutan
	assert.Len(t, services.FilterRows(rows, services.StatusAll), 2)

	pending := services.FilterRows(rows, models.OrderStatusPending)
	assert.Len(t, pending, 1)
	assert.Equal(t, "ord-2", pending[0].OrderID)

	assert.Empty(t, services.FilterRows(rows, models.OrderStatusDelivered))
}

func TestUnitPriceRecovery(t *testing.T) {
	row := services.OrderRow{Quantity: 2, Price: 5.00}
	assert.InDelta(t, 2.50, row.UnitPrice(), 0.001)

	// Quantity nol tidak membagi nol
	zero := services.OrderRow{Quantity: 0, Price: 5.00}
	assert.Equal(t, 0.0, zero.UnitPrice())
}

func TestAdvanceStatusTransitions(t *testing.T) {
	db, st := setupLedgerDB(t)
	seedLedgerOrders(t, db)
	ledger := services.NewOrderLedger(db, st)

	// Pending -> Delivered -> Paid
	order, err := ledger.AdvanceStatus("ord-2", models.OrderStatusDelivered)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, order.Status)

	order, err = ledger.AdvanceStatus("ord-2", models.OrderStatusPaid)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, order.Status)

	// Tidak ada transisi mundur atau lompat
	_, err = ledger.AdvanceStatus("ord-2", models.OrderStatusPending)
	assert.Error(t, err)

	seedSkip := models.Order{
		ID: "ord-3", RestaurantID: "R1", TableID: "T1", UserID: "uid-1",
		Total: 1, Status: models.OrderStatusPending, CreatedAt: time.Now(),
	}
	assert.NoError(t, db.Create(&seedSkip).Error)
	_, err = ledger.AdvanceStatus("ord-3", models.OrderStatusPaid)
	assert.Error(t, err)
}
