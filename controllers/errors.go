package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartorder/backend/services"
	"github.com/smartorder/backend/utils"
)

var ErrNoPermission = errors.New("you do not have permission to perform this action")

// respondServiceError memetakan error engine ke status HTTP. Error
// validasi jadi 4xx tanpa efek parsial; kegagalan write transient jadi
// 502 supaya caller tahu harus retry utuh.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMalformedPayload),
		errors.Is(err, services.ErrInvalidCodeFormat),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrRatingRequired):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrRestaurantNotFound),
		errors.Is(err, services.ErrTableCodeNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrTransientWrite):
		utils.RespondError(c, http.StatusBadGateway, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}
