package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/smartorder/backend/services"
	"github.com/smartorder/backend/store"
	"github.com/smartorder/backend/utils"
)

type RequestController struct {
	DB      *gorm.DB
	Tracker *services.PresenceRequestTracker
}

func NewRequestController(db *gorm.DB, st *store.Store) *RequestController {
	return &RequestController{
		DB:      db,
		Tracker: services.NewPresenceRequestTracker(db, st),
	}
}

// SendRequest -> buat panggilan staff baru. Tidak ada cek eksklusivitas
// server-side; caller menyembunyikan tombol saat sudah ada yang pending.
func (rc *RequestController) SendRequest(c *gin.Context) {
	sess := sessionFromContext(c, rc.DB)

	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&body); err != nil && err.Error() != "EOF" {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	request, err := rc.Tracker.Send(sess, body.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	go func() {
		_ = services.PublishHelpRequested(context.Background(), request)
	}()

	utils.RespondJSON(c, http.StatusCreated, "Help request sent", request)
}

// GetPending -> request pending meja ini beserta tampilan elapsed-nya.
func (rc *RequestController) GetPending(c *gin.Context) {
	request, err := rc.Tracker.Pending(c.Param("restaurant_id"), c.Param("table_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if request == nil {
		utils.RespondJSON(c, http.StatusOK, "No pending request", gin.H{
			"request": nil,
			"elapsed": "00:00",
		})
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Pending request", gin.H{
		"request": request,
		"elapsed": services.FormatElapsed(request.CreatedAt, time.Now()),
	})
}

// AttendRequest -> jalur staff menandai request selesai dilayani.
func (rc *RequestController) AttendRequest(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("request_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	request, err := rc.Tracker.Attend(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Request attended", request)
}
