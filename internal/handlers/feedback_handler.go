package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lakbaycavite/server/internal/models"
	"github.com/lakbaycavite/server/internal/services"
)

func CreateFeedback(svc *services.FeedbackService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
			return
		}

		var body struct {
			Rating   int    `json:"rating"`
			Comment  string `json:"comment"`
			Category string `json:"category"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		feedback, err := svc.CreateFeedback(c.Request.Context(), userID, body.Rating, body.Comment, body.Category)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(feedback, "Feedback submitted"))
	}
}

func GetFeedback(svc *services.FeedbackService) gin.HandlerFunc {
	return func(c *gin.Context) {
		feedback, err := svc.GetFeedback(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(feedback, ""))
	}
}

// ListFeedbacks filters by optional rating and category query params
// and returns the histograms of the filtered set alongside the page.
func ListFeedbacks(svc *services.FeedbackService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := pagination(c)

		rating := 0
		if raw := c.Query("rating"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, models.ErrorResponse("rating must be a number"))
				return
			}
			rating = parsed
		}

		list, err := svc.ListFeedbacks(c.Request.Context(), rating, c.Query("category"), page, limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.PaginatedResponse(list, list.Page, limit, int(list.Total)))
	}
}

// UpdateFeedback stores the admin's response on the feedback entry.
func UpdateFeedback(svc *services.FeedbackService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			AdminResponse string `json:"adminResponse"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		feedback, err := svc.RespondToFeedback(c.Request.Context(), c.Param("id"), body.AdminResponse)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(feedback, "Response saved"))
	}
}

// ToggleFeedbackStatus flips the entry between public and hidden.
func ToggleFeedbackStatus(svc *services.FeedbackService) gin.HandlerFunc {
	return func(c *gin.Context) {
		feedback, err := svc.ToggleFeedbackVisibility(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(feedback, "Feedback visibility toggled"))
	}
}
