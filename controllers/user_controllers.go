package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/smartorder/backend/models"
	"github.com/smartorder/backend/utils"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// Login -> sign-in staff dengan email+password. Tab set di-resolve sekali
// di sini berdasarkan role.
func (uc *UserController) Login(c *gin.Context) {
	var body struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.First(&user, "email = ?", body.Email).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid email or password"))
		return
	}

	if !utils.CheckPassword(user.Password, body.Password) {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid email or password"))
		return
	}

	token, err := utils.GenerateToken(user.UID, user.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Staff login: %s (%s)", body.Email, user.Role)

	utils.RespondJSON(c, http.StatusOK, "Login success", gin.H{
		"token": token,
		"user":  user,
		"tabs":  models.RoleTabs(user.Role),
	})
}

// CreatePassword -> role newemployee wajib set password sebelum masuk;
// sesudahnya role naik jadi employee.
func (uc *UserController) CreatePassword(c *gin.Context) {
	uid := c.GetString("uid")

	var body struct {
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.First(&user, "uid = ?", uid).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if user.Role != models.RoleNewEmployee {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	hash, err := utils.HashPassword(body.Password)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	user.Password = hash
	user.Role = models.RoleEmployee
	if err := uc.DB.Save(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Password created", gin.H{
		"tabs": models.RoleTabs(user.Role),
	})
}

// UpdateProfile -> client mengganti nama tampilan (dan foto) sesinya.
func (uc *UserController) UpdateProfile(c *gin.Context) {
	uid := c.GetString("uid")

	var body struct {
		Username string  `json:"username" binding:"required"`
		PhotoURL *string `json:"photo_url"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.First(&user, "uid = ?", uid).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	user.Username = body.Username
	if body.PhotoURL != nil {
		user.PhotoURL = body.PhotoURL
	}
	if err := uc.DB.Save(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile updated", user)
}

// GetProfile -> profil principal saat ini.
func (uc *UserController) GetProfile(c *gin.Context) {
	uid := c.GetString("uid")

	var user models.User
	if err := uc.DB.First(&user, "uid = ?", uid).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile", user)
}
