package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lakbaycavite/server/internal/models"
	"github.com/lakbaycavite/server/internal/services"
)

// GetDashboard returns the aggregated statistics, optionally scoped by
// startDate/endDate (YYYY-MM-DD).
func GetDashboard(svc *services.DashboardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.GetDashboard(
			c.Request.Context(),
			c.Query("startDate"),
			c.Query("endDate"),
		)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(stats, ""))
	}
}
