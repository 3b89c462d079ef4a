package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/smartorder/backend/models"
	"github.com/smartorder/backend/router"
	"github.com/smartorder/backend/store"
	"github.com/smartorder/backend/utils"
)

func setupIntegrationRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:integration_test?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	autoMigrate(db)

	for _, table := range []string{
		"restaurants", "tables", "users", "menu_items",
		"carts", "cart_items", "orders", "order_items",
		"help_requests", "ratings", "doc_changes",
	} {
		db.Exec("DELETE FROM " + table)
	}

	db.Create(&models.Restaurant{ID: "R1", Name: "Smart Order Bistro"})
	db.Create(&models.Table{RestaurantID: "R1", TableID: "T1", Code: "R1_A1", Status: models.TableStatusFree})
	db.Create(&models.MenuItem{ID: "espresso", Name: "Espresso", Price: 2.50, PriceFormatted: "€ 2,50"})
	db.Create(&models.MenuItem{ID: "mixed-pie", Name: "Mixed Pie", Price: 7.80, PriceFormatted: "€ 7,80"})

	st := store.New(db)
	return router.SetupRouter(db, st, nil), db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		assert.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp map[string]interface{}
	if w.Body.Len() > 0 {
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestFullTableVisitFlow(t *testing.T) {
	r, db := setupIntegrationRouter(t)

	// 1. Scan QR -> sesi + token client
	w, resp := doJSON(t, r, "POST", "/session/scan", "", map[string]string{
		"restaurantId":   "R1",
		"tableId":        "T1",
		"restaurantName": "Smart Order Bistro",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	data := resp["data"].(map[string]interface{})
	token := data["token"].(string)
	assert.NotEmpty(t, token)

	session := data["session"].(map[string]interface{})
	assert.Equal(t, "R1", session["restaurant_id"])
	assert.Equal(t, "T1", session["table_id"])

	// Meja jadi occupied setelah binding
	var table models.Table
	assert.NoError(t, db.First(&table, "restaurant_id = ? AND table_id = ?", "R1", "T1").Error)
	assert.Equal(t, models.TableStatusOccupied, table.Status)

	// Tab navigasi untuk role client
	tabs := data["tabs"].([]interface{})
	assert.NotEmpty(t, tabs)

	// 2. Tambah item ke cart bersama
	w, resp = doJSON(t, r, "POST", "/carts/R1/T1/items", token, map[string]interface{}{
		"items": map[string]int{"espresso": 2, "mixed-pie": 1},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	cart := resp["data"].(map[string]interface{})
	assert.InDelta(t, 2*2.50+7.80, cart["total"].(float64), 0.001)

	// 3. Checkout -> order Pending, cart kosong
	w, resp = doJSON(t, r, "POST", "/carts/R1/T1/checkout", token, map[string]string{
		"observations": "no sugar",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	order := resp["data"].(map[string]interface{})
	orderID := order["id"].(string)
	assert.Equal(t, models.OrderStatusPending, order["status"])

	w, resp = doJSON(t, r, "GET", "/carts/R1/T1", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	cart = resp["data"].(map[string]interface{})
	assert.InDelta(t, 0, cart["total"].(float64), 0.001)

	// 4. Tagihan belum lunas -> settled false
	w, resp = doJSON(t, r, "GET", "/billing/R1/T1/summary", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	summary := resp["data"].(map[string]interface{})
	assert.False(t, summary["settled"].(bool))
	assert.InDelta(t, 12.80, summary["total"].(float64), 0.001)

	// 5. Staff memajukan status Pending -> Delivered -> Paid
	staffToken, err := utils.GenerateToken("staff-1", models.RoleEmployee)
	assert.NoError(t, err)

	w, _ = doJSON(t, r, "PATCH", "/staff/orders/"+orderID+"/status", staffToken, map[string]string{
		"status": models.OrderStatusDelivered,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// Client tidak boleh bisa memajukan status
	w, _ = doJSON(t, r, "PATCH", "/staff/orders/"+orderID+"/status", token, map[string]string{
		"status": models.OrderStatusPaid,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, r, "PATCH", "/staff/orders/"+orderID+"/status", staffToken, map[string]string{
		"status": models.OrderStatusPaid,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// 6. Lunas -> rating terbuka
	w, resp = doJSON(t, r, "GET", "/billing/R1/T1/summary", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	summary = resp["data"].(map[string]interface{})
	assert.True(t, summary["settled"].(bool))

	w, resp = doJSON(t, r, "POST", "/billing/R1/T1/rating", token, map[string]interface{}{
		"rating":    5,
		"comments":  "great",
		"anonymous": true,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	rating := resp["data"].(map[string]interface{})
	assert.Equal(t, models.AnonymousSentinel, rating["user_name"])

	// 7. Sign-out melepaskan sesi
	w, _ = doJSON(t, r, "POST", "/session/signout", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHelpRequestFlow(t *testing.T) {
	r, _ := setupIntegrationRouter(t)

	w, resp := doJSON(t, r, "POST", "/session/code", "", map[string]string{
		"code": "R1_A1",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	token := resp["data"].(map[string]interface{})["token"].(string)

	// Belum ada request pending
	w, resp = doJSON(t, r, "GET", "/requests/R1/T1/pending", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]interface{})
	assert.Nil(t, data["request"])
	assert.Equal(t, "00:00", data["elapsed"])

	// Kirim request bantuan
	w, resp = doJSON(t, r, "POST", "/requests/R1/T1", token, map[string]string{
		"reason": "need cutlery",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	request := resp["data"].(map[string]interface{})
	requestID := request["id"].(float64)

	w, resp = doJSON(t, r, "GET", "/requests/R1/T1/pending", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data = resp["data"].(map[string]interface{})
	assert.NotNil(t, data["request"])

	// Staff menandai attended
	staffToken, err := utils.GenerateToken("staff-1", models.RoleAdmin)
	assert.NoError(t, err)
	w, _ = doJSON(t, r, "PATCH",
		fmt.Sprintf("/staff/requests/%d/attend", int(requestID)), staffToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp = doJSON(t, r, "GET", "/requests/R1/T1/pending", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data = resp["data"].(map[string]interface{})
	assert.Nil(t, data["request"])
}

func TestTableScopeEnforced(t *testing.T) {
	r, db := setupIntegrationRouter(t)

	// Sesi terikat ke R1/T1
	w, resp := doJSON(t, r, "POST", "/session/scan", "", map[string]string{
		"restaurantId":   "R1",
		"tableId":        "T1",
		"restaurantName": "Smart Order Bistro",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	token := resp["data"].(map[string]interface{})["token"].(string)

	// Meja lain tidak bisa dialamatkan dengan token sesi T1
	w, _ = doJSON(t, r, "POST", "/carts/R1/T2/items", token, map[string]interface{}{
		"items": map[string]int{"espresso": 1},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, r, "GET", "/orders/R1/T2", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, r, "POST", "/requests/R1/T2", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, r, "GET", "/billing/R1/T2/summary", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Penolakan tanpa efek samping: dokumen cart meja lain tidak tercipta
	var count int64
	db.Model(&models.Cart{}).Where("id = ?", models.CartDocID("R1", "T2")).Count(&count)
	assert.Equal(t, int64(0), count)

	// Meja milik sesi sendiri tetap bisa diakses
	w, _ = doJSON(t, r, "GET", "/carts/R1/T1", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Staff bekerja lintas meja dan tidak terkena scope check
	staffToken, err := utils.GenerateToken("staff-1", models.RoleEmployee)
	assert.NoError(t, err)
	w, _ = doJSON(t, r, "GET", "/orders/R1/T2", staffToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSessionBindingNotStrictlyLimited(t *testing.T) {
	r, _ := setupIntegrationRouter(t)

	// Binding sesi adalah jalur masuk setiap customer; lebih dari lima
	// binding beruntun tetap harus diterima
	for i := 0; i < 8; i++ {
		w, _ := doJSON(t, r, "POST", "/session/code", "", map[string]string{
			"code": "R1_A1",
		})
		assert.Equal(t, http.StatusCreated, w.Code)
	}
}

func TestGlobalRateLimiterApplies(t *testing.T) {
	r, _ := setupIntegrationRouter(t)

	// Limiter per-IP (50/detik) terpasang sebelum registrasi route,
	// jadi burst di atas batas harus kena 429
	limited := false
	for i := 0; i < 60; i++ {
		w, _ := doJSON(t, r, "GET", "/ping", "", nil)
		if w.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
		assert.Equal(t, http.StatusOK, w.Code)
	}
	assert.True(t, limited)
}

func TestAuthRequired(t *testing.T) {
	r, _ := setupIntegrationRouter(t)

	w, _ := doJSON(t, r, "GET", "/carts/R1/T1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(t, r, "GET", "/orders/R1/T1", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMenuIsPublic(t *testing.T) {
	r, _ := setupIntegrationRouter(t)

	w, resp := doJSON(t, r, "GET", "/menu", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	items := resp["data"].([]interface{})
	assert.Len(t, items, 2)
	// Terurut per nama
	first := items[0].(map[string]interface{})
	assert.Equal(t, "Espresso", first["name"])
}
