// Package handlers binds the HTTP surface to the services. Handlers
// only parse input and translate errors; all business rules live in
// the services.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lakbaycavite/server/internal/models"
)

// respondError maps the service error taxonomy to HTTP statuses.
// Unknown errors become a generic 500 so internals never leak; the
// detail is attached to the context for the error-logging middleware.
func respondError(c *gin.Context, err error) {
	switch {
	case models.IsValidation(err), models.IsConflict(err):
		c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse("record not found"))
	case errors.Is(err, models.ErrForbidden):
		c.JSON(http.StatusForbidden, models.ErrorResponse("you are not allowed to perform this action"))
	case errors.Is(err, models.ErrAccountDisabled):
		c.JSON(http.StatusForbidden, models.ErrorResponse("account has been deactivated"))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse("something went wrong"))
	}
}

// pagination reads page/limit query params with the admin defaults.
func pagination(c *gin.Context) (page, limit int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	return page, limit
}

// currentUserID returns the authenticated user's id hex set by the
// auth middleware.
func currentUserID(c *gin.Context) (string, bool) {
	id := c.GetString("userID")
	return id, id != ""
}
