package handlers

import (
	"net/http"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/gin-gonic/gin"
	"github.com/lakbaycavite/server/internal/helpers"
	"github.com/lakbaycavite/server/internal/models"
	"github.com/lakbaycavite/server/internal/services"
)

func Login(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Identifier string `json:"identifier"`
			Password   string `json:"password"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		result, err := svc.Login(c.Request.Context(), body.Identifier, body.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(result, "Login successful"))
	}
}

// Register parks the registration and emails the verification code. No
// account exists until VerifyEmail confirms it.
func Register(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		if err := svc.InitiateRegistration(c.Request.Context(), input); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Verification code sent to your email"))
	}
}

func VerifyEmail(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Email string `json:"email"`
			Code  string `json:"code"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		user, err := svc.VerifyAndCreate(c.Request.Context(), body.Email, body.Code)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(user, "Account created successfully"))
	}
}

func RequestPasswordReset(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Email string `json:"email"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		if err := svc.RequestPasswordReset(c.Request.Context(), body.Email); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "If the email exists, a reset code has been sent"))
	}
}

func ResetPassword(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Email    string `json:"email"`
			Code     string `json:"code"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		if err := svc.ResetPassword(c.Request.Context(), body.Email, body.Code, body.Password); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Password reset successfully"))
	}
}

func ListUsers(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := pagination(c)
		list, err := svc.ListUsers(c.Request.Context(), c.Query("search"), page, limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.PaginatedResponse(list, list.Page, limit, int(list.Total)))
	}
}

func GetUser(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		detail, err := svc.GetUser(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(detail, ""))
	}
}

func UpdateUser(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var update models.UserUpdate
		if err := c.ShouldBindJSON(&update); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		user, err := svc.UpdateUser(c.Request.Context(), c.Param("id"), update)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(user, "User updated successfully"))
	}
}

// ToggleUserStatus flips the account between active and deactivated.
// Deactivation keeps the record and its content; it only blocks login.
func ToggleUserStatus(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := svc.ToggleUserStatus(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(user, "User status toggled"))
	}
}

// UploadUserAvatar replaces the avatar of the user named by the userId
// form field.
func UploadUserAvatar(svc *services.UserService, cld *cloudinary.Cloudinary) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.PostForm("userId")
		if userID == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("userId is required"))
			return
		}

		file, _, err := c.Request.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("image file is required"))
			return
		}
		defer file.Close()

		url, err := helpers.UploadImage(c.Request.Context(), cld, file, helpers.AvatarFolder)
		if err != nil {
			respondError(c, models.NewDependencyError("image storage", err))
			return
		}

		user, err := svc.SetUserImage(c.Request.Context(), userID, url)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(user, "Avatar updated"))
	}
}
