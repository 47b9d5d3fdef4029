package handlers

import (
	"net/http"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/gin-gonic/gin"
	"github.com/lakbaycavite/server/internal/helpers"
	"github.com/lakbaycavite/server/internal/models"
	"github.com/lakbaycavite/server/internal/services"
)

// CreateEvent accepts a multipart form so the admin client can attach
// the banner image in the same request. The image is optional.
func CreateEvent(svc *services.EventService, cld *cloudinary.Cloudinary) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.EventInput
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		var image *string
		if file, _, err := c.Request.FormFile("image"); err == nil {
			defer file.Close()
			url, err := helpers.UploadImage(c.Request.Context(), cld, file, helpers.EventsFolder)
			if err != nil {
				// A storage outage must not lose the event; create it
				// without the image and let the admin re-upload later.
				_ = c.Error(models.NewDependencyError("image storage", err))
			} else {
				image = &url
			}
		}

		event, err := svc.CreateEvent(c.Request.Context(), input, image)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(event, "Event created successfully"))
	}
}

func GetEvent(svc *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		event, err := svc.GetEvent(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(event, ""))
	}
}

// ListEvents filters by the optional startDate/endDate (YYYY-MM-DD)
// and status query params.
func ListEvents(svc *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.ListEvents(
			c.Request.Context(),
			c.Query("startDate"),
			c.Query("endDate"),
			c.Query("status"),
		)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(list, ""))
	}
}

func UpdateEvent(svc *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.EventInput
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		event, err := svc.UpdateEvent(c.Request.Context(), c.Param("id"), input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(event, "Event updated successfully"))
	}
}

func DeleteEvent(svc *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteEvent(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Event deleted successfully"))
	}
}

func ToggleEventStatus(svc *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		event, err := svc.ToggleEventStatus(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(event, "Event status toggled"))
	}
}

// UploadEventImage replaces the banner image of an existing event.
func UploadEventImage(svc *services.EventService, cld *cloudinary.Cloudinary) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, _, err := c.Request.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("image file is required"))
			return
		}
		defer file.Close()

		url, err := helpers.UploadImage(c.Request.Context(), cld, file, helpers.EventsFolder)
		if err != nil {
			respondError(c, models.NewDependencyError("image storage", err))
			return
		}

		event, err := svc.SetEventImage(c.Request.Context(), c.Param("id"), url)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(event, "Event image uploaded"))
	}
}

func DeleteEventImage(svc *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		event, err := svc.ClearEventImage(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(event, "Event image removed"))
	}
}
