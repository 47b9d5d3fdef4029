package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lakbaycavite/server/internal/models"
	"github.com/lakbaycavite/server/internal/services"
)

func CreateHotline(svc *services.HotlineService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var hotline models.Hotline
		if err := c.ShouldBindJSON(&hotline); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		created, err := svc.CreateHotline(c.Request.Context(), &hotline)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(created, "Hotline created successfully"))
	}
}

func GetHotline(svc *services.HotlineService) gin.HandlerFunc {
	return func(c *gin.Context) {
		hotline, err := svc.GetHotline(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(hotline, ""))
	}
}

func ListHotlines(svc *services.HotlineService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := pagination(c)
		list, err := svc.ListHotlines(c.Request.Context(), c.Query("search"), page, limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.PaginatedResponse(list, list.Page, limit, int(list.Total)))
	}
}

func UpdateHotline(svc *services.HotlineService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.Hotline
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		hotline, err := svc.UpdateHotline(c.Request.Context(), c.Param("id"), input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(hotline, "Hotline updated successfully"))
	}
}

func DeleteHotline(svc *services.HotlineService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteHotline(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Hotline deleted successfully"))
	}
}
