package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"github.com/smartorder/backend/live"
	"github.com/smartorder/backend/models"
	"github.com/smartorder/backend/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type LiveController struct {
	DB *gorm.DB
}

func NewLiveController(db *gorm.DB) *LiveController {
	return &LiveController{DB: db}
}

// Handler -> endpoint websocket; koneksi di-scope ke satu meja dan
// menerima snapshot cart/order/request meja itu saja. Client hanya boleh
// subscribe ke meja yang terikat ke sesinya sendiri.
func (lc *LiveController) Handler(c *gin.Context) {
	restaurantID := c.Query("restaurant_id")
	tableID := c.Query("table_id")
	if restaurantID == "" || tableID == "" {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	role := c.GetString("role")
	if role != models.RoleAdmin && role != models.RoleEmployee {
		var user models.User
		if err := lc.DB.First(&user, "uid = ?", c.GetString("uid")).Error; err != nil {
			utils.RespondError(c, http.StatusForbidden, errors.New("no active table session"))
			c.Abort()
			return
		}
		if user.SessionRestaurantID != restaurantID || user.SessionTableID != tableID {
			utils.RespondError(c, http.StatusForbidden, errors.New("table is not bound to your session"))
			c.Abort()
			return
		}
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	live.RegisterClient(ws, restaurantID, tableID)

	// Baca sampai koneksi ditutup client supaya unregister jalan
	go func() {
		defer live.UnregisterClient(ws)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
