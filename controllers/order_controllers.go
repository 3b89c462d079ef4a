package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/smartorder/backend/services"
	"github.com/smartorder/backend/store"
	"github.com/smartorder/backend/utils"
)

type OrderController struct {
	DB     *gorm.DB
	Ledger *services.OrderLedger
}

func NewOrderController(db *gorm.DB, st *store.Store) *OrderController {
	return &OrderController{
		DB:     db,
		Ledger: services.NewOrderLedger(db, st),
	}
}

// GetOrders -> semua order meja ini, terbaru dulu.
func (oc *OrderController) GetOrders(c *gin.Context) {
	orders, err := oc.Ledger.List(c.Param("restaurant_id"), c.Param("table_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetOrderRows -> proyeksi satu row per item untuk display, opsional
// difilter status lewat query (?status=Delivered, default All).
func (oc *OrderController) GetOrderRows(c *gin.Context) {
	orders, err := oc.Ledger.List(c.Param("restaurant_id"), c.Param("table_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	status := c.DefaultQuery("status", services.StatusAll)
	rows := services.FilterRows(services.Flatten(orders), status)

	utils.RespondJSON(c, http.StatusOK, "Order rows", rows)
}

// AdvanceStatus -> jalur staff memajukan status order
// (Pending -> Delivered -> Paid).
func (oc *OrderController) AdvanceStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Ledger.AdvanceStatus(c.Param("order_id"), body.Status)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}
