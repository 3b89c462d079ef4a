package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/smartorder/backend/models"
	"github.com/smartorder/backend/utils"
)

// TableScope menolak request yang route params-nya tidak cocok dengan sesi
// meja yang terikat ke principal. Semua data per meja hanya boleh dialamatkan
// lewat sesi miliknya sendiri; role staff lewat karena bekerja lintas meja.
func TableScope(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == models.RoleAdmin || role == models.RoleEmployee {
			c.Next()
			return
		}

		var user models.User
		if err := db.First(&user, "uid = ?", c.GetString("uid")).Error; err != nil {
			utils.RespondError(c, http.StatusForbidden, errors.New("no active table session"))
			c.Abort()
			return
		}

		if user.SessionRestaurantID == "" ||
			user.SessionRestaurantID != c.Param("restaurant_id") ||
			user.SessionTableID != c.Param("table_id") {
			utils.RespondError(c, http.StatusForbidden, errors.New("table is not bound to your session"))
			c.Abort()
			return
		}

		c.Next()
	}
}
