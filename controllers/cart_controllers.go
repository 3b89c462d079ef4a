package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/smartorder/backend/services"
	"github.com/smartorder/backend/store"
	"github.com/smartorder/backend/utils"
)

type CartController struct {
	DB         *gorm.DB
	Aggregator *services.CartAggregator
}

func NewCartController(db *gorm.DB, st *store.Store) *CartController {
	return &CartController{
		DB:         db,
		Aggregator: services.NewCartAggregator(db, st),
	}
}

// GetCart -> state cart meja saat ini (dokumen hilang = cart kosong).
func (cc *CartController) GetCart(c *gin.Context) {
	sess := sessionFromContext(c, cc.DB)

	cart, err := cc.Aggregator.Load(sess.RestaurantID, sess.TableID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Cart", cart)
}

// AddItems -> merge pilihan menu ke cart bersama.
func (cc *CartController) AddItems(c *gin.Context) {
	sess := sessionFromContext(c, cc.DB)

	var body struct {
		Items map[string]int `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	for id, qty := range body.Items {
		if qty <= 0 {
			utils.RespondError(c, http.StatusBadRequest,
				&invalidQuantityError{itemID: id})
			return
		}
	}

	cart, err := cc.Aggregator.AddItems(sess, services.Selection(body.Items))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Items added to cart", cart)
}

// UpdateQuantity -> delta satu line; line yang jatuh ke nol dihapus.
func (cc *CartController) UpdateQuantity(c *gin.Context) {
	sess := sessionFromContext(c, cc.DB)
	itemID := c.Param("item_id")

	var body struct {
		Delta int `json:"delta" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	cart, err := cc.Aggregator.UpdateQuantity(sess, itemID, body.Delta)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Cart updated", cart)
}

// RemoveItem -> hapus line tanpa syarat.
func (cc *CartController) RemoveItem(c *gin.Context) {
	sess := sessionFromContext(c, cc.DB)

	cart, err := cc.Aggregator.RemoveItem(sess, c.Param("item_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Item removed", cart)
}

// Checkout -> bekukan cart jadi order Pending dan kosongkan cart.
func (cc *CartController) Checkout(c *gin.Context) {
	sess := sessionFromContext(c, cc.DB)

	var body struct {
		Observations string `json:"observations"`
	}
	if err := c.ShouldBindJSON(&body); err != nil && err.Error() != "EOF" {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := cc.Aggregator.Checkout(sess, body.Observations)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// Event untuk tooling staff, best-effort
	go func() {
		_ = services.PublishOrderCreated(context.Background(), order)
	}()

	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

type invalidQuantityError struct {
	itemID string
}

func (e *invalidQuantityError) Error() string {
	return "quantity must be positive for item " + e.itemID
}
