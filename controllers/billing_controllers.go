package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/smartorder/backend/services"
	"github.com/smartorder/backend/store"
	"github.com/smartorder/backend/utils"
)

type BillingController struct {
	DB         *gorm.DB
	Ledger     *services.OrderLedger
	Aggregator *services.BillingAggregator
}

func NewBillingController(db *gorm.DB, st *store.Store) *BillingController {
	return &BillingController{
		DB:         db,
		Ledger:     services.NewOrderLedger(db, st),
		Aggregator: services.NewBillingAggregator(db),
	}
}

// GetSummary -> tagihan berjalan meja ini. Settled membuka flow rating.
func (bc *BillingController) GetSummary(c *gin.Context) {
	orders, err := bc.Ledger.List(c.Param("restaurant_id"), c.Param("table_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Bill summary", services.Summarize(orders))
}

// SubmitRating -> feedback setelah lunas. Rating wajib memilih bintang;
// flag anonim mengganti identitas dengan sentinel.
func (bc *BillingController) SubmitRating(c *gin.Context) {
	sess := sessionFromContext(c, bc.DB)

	var body struct {
		Rating    int    `json:"rating"`
		Comments  string `json:"comments"`
		Anonymous bool   `json:"anonymous"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	rating, err := bc.Aggregator.SubmitRating(sess, body.Rating, body.Comments, body.Anonymous)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Rating submitted", rating)
}
