package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/smartorder/backend/models"
	"github.com/smartorder/backend/services"
	"github.com/smartorder/backend/store"
	"github.com/smartorder/backend/utils"
)

type SessionController struct {
	DB       *gorm.DB
	Resolver *services.SessionResolver
}

func NewSessionController(db *gorm.DB, st *store.Store) *SessionController {
	return &SessionController{
		DB:       db,
		Resolver: services.NewSessionResolver(db, st),
	}
}

type sessionResponse struct {
	Session models.TableSession       `json:"session"`
	Token   string                    `json:"token"`
	Tabs    []models.ScreenDescriptor `json:"tabs"`
}

// ScanTable -> binding via payload QR. Body adalah payload hasil scan
// apa adanya.
func (sc *SessionController) ScanTable(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	payload, err := sc.Resolver.ResolveFromScan(raw)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	sc.bindAndRespond(c, payload)
}

// EnterCode -> binding via kode meja yang diketik manual.
func (sc *SessionController) EnterCode(c *gin.Context) {
	var body struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	payload, err := sc.Resolver.ResolveFromCode(body.Code)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	sc.bindAndRespond(c, payload)
}

func (sc *SessionController) bindAndRespond(c *gin.Context, payload services.ScanPayload) {
	session, err := sc.Resolver.Bind(payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	token, err := utils.GenerateToken(session.UserID, models.RoleClient)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Session created", sessionResponse{
		Session: session,
		Token:   token,
		Tabs:    models.RoleTabs(models.RoleClient),
	})
}

// SignOut melepaskan sesi principal saat ini; downstream state kembali
// ke none, sama seperti principal hilang di identity provider.
func (sc *SessionController) SignOut(c *gin.Context) {
	uid := c.GetString("uid")
	if err := sc.Resolver.Reset(uid); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Session released", nil)
}

// sessionFromContext merakit TableSession eksplisit dari route params dan
// principal di token. Semua operasi engine menerima ini, tidak ada state
// sesi global di server.
func sessionFromContext(c *gin.Context, db *gorm.DB) models.TableSession {
	sess := models.TableSession{
		RestaurantID: c.Param("restaurant_id"),
		TableID:      c.Param("table_id"),
		UserID:       c.GetString("uid"),
	}

	var user models.User
	if err := db.First(&user, "uid = ?", sess.UserID).Error; err == nil {
		sess.UserName = user.Username
		sess.UserPhoto = user.PhotoURL
	}

	return sess
}
