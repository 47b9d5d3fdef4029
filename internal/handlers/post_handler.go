package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lakbaycavite/server/internal/helpers"
	"github.com/lakbaycavite/server/internal/models"
	"github.com/lakbaycavite/server/internal/services"
)

func ListPosts(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := pagination(c)
		list, err := svc.ListPosts(c.Request.Context(), c.Query("search"), page, limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.PaginatedResponse(list, list.Page, limit, int(list.Total)))
	}
}

func GetPost(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		post, err := svc.GetPost(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(post, ""))
	}
}

func DeletePost(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeletePost(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Post deleted successfully"))
	}
}

// TogglePostVisibility hides or unhides a post. Hidden posts stay in
// the admin listing but are excluded from the public client.
func TogglePostVisibility(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		post, err := svc.TogglePostVisibility(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(post, "Post visibility toggled"))
	}
}

func AddComment(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
			return
		}

		var body struct {
			Text string `json:"text"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		post, err := svc.AddComment(c.Request.Context(), c.Param("id"), userID, body.Text)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(post, "Comment added"))
	}
}

func GetComments(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		comments, err := svc.GetComments(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(comments, ""))
	}
}

func DeleteComment(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
			return
		}

		isAdmin := false
		if raw, exists := c.Get("claims"); exists {
			if claims, ok := raw.(*helpers.AuthClaims); ok {
				isAdmin = claims.IsAdmin()
			}
		}

		post, err := svc.DeleteComment(c.Request.Context(), c.Param("id"), c.Param("commentId"), userID, isAdmin)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(post, "Comment deleted"))
	}
}
