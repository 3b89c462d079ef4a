package services

import (
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/smartorder/backend/models"
	"github.com/smartorder/backend/utils"
)

// settlementEpsilon menoleransi drift penjumlahan floating point saat
// membandingkan total dengan paid.
const settlementEpsilon = 0.01

// BillingAggregator menjumlahkan order satu meja menjadi tagihan berjalan
// dan membuka flow rating hanya setelah lunas.
type BillingAggregator struct {
	DB *gorm.DB
}

func NewBillingAggregator(db *gorm.DB) *BillingAggregator {
	return &BillingAggregator{DB: db}
}

type BillSummary struct {
	Total     float64 `json:"total"`
	Paid      float64 `json:"paid"`
	AmountDue float64 `json:"amount_due"`
	ItemCount int     `json:"item_count"`
	Settled   bool    `json:"settled"`
}

// Summarize menjumlahkan semua order: total penuh, porsi yang sudah Paid,
// dan jumlah item lintas order.
func Summarize(orders []models.Order) BillSummary {
	var summary BillSummary
	for _, order := range orders {
		summary.Total += order.Total
		if order.Status == models.OrderStatusPaid {
			summary.Paid += order.Total
		}
		for _, item := range order.Items {
			summary.ItemCount += item.Quantity
		}
	}
	summary.AmountDue = math.Max(0, summary.Total-summary.Paid)
	summary.Settled = IsSettled(summary.Total, summary.Paid)
	return summary
}

// IsSettled -> true hanya jika ada tagihan dan selisihnya di bawah toleransi.
func IsSettled(total, paid float64) bool {
	return total > 0 && math.Abs(total-paid) < settlementEpsilon
}

// SubmitRating menyimpan feedback sekali per siklus settlement. Bintang
// wajib dipilih (1..5); rating anonim menyimpan sentinel untuk identitas.
func (ba *BillingAggregator) SubmitRating(sess models.TableSession, stars int, comments string, anonymous bool) (models.Rating, error) {
	if stars < 1 || stars > 5 {
		return models.Rating{}, ErrRatingRequired
	}

	userID := sess.UserID
	userName := sess.UserName
	if anonymous {
		userID = models.AnonymousSentinel
		userName = models.AnonymousSentinel
	}

	rating := models.Rating{
		RestaurantID: sess.RestaurantID,
		TableID:      sess.TableID,
		Rating:       stars,
		Comments:     comments,
		IsAnonymous:  anonymous,
		UserID:       userID,
		UserName:     userName,
		CreatedAt:    time.Now().UTC(),
	}

	if err := ba.DB.Create(&rating).Error; err != nil {
		return models.Rating{}, fmt.Errorf("%w: %v", ErrTransientWrite, err)
	}

	utils.InfoLogger.Printf("Rating %d submitted for %s/%s (anonymous=%t)",
		stars, sess.RestaurantID, sess.TableID, anonymous)

	return rating, nil
}
