package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lakbaycavite/server/internal/helpers"
	"github.com/lakbaycavite/server/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger provides structured logging middleware
func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		if raw != "" {
			path = path + "?" + raw
		}
		requestID, _ := c.Get("request_id")

		logger.Info("HTTP Request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", latency,
			"client_ip", c.ClientIP(),
		)
	}
}

// ErrorHandler logs any errors attached to the context during request
// processing.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			requestID, _ := c.Get("request_id")

			logger.Error("Request error",
				"request_id", requestID,
				"error", err.Error(),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			)
		}
	}
}

// AuthMiddleware validates the bearer token, loads the account and
// stores the claims plus user in context. Deactivated accounts are
// rejected even when their token is still valid.
func AuthMiddleware(jwtSecret string, userRepo models.UserRepo, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse("missing bearer token"))
			return
		}

		claims, err := helpers.ValidateToken(jwtSecret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse("invalid or expired token"))
			return
		}

		userID, err := primitiveIDFromClaims(claims)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse("invalid user ID in token"))
			return
		}

		user, err := userRepo.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			logger.Warn("token for unknown user", "user_id", claims.UserID, "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
			return
		}
		if !user.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse("account has been deactivated"))
			return
		}

		c.Set("claims", claims)
		c.Set("userID", claims.UserID)
		c.Set("user", user)
		c.Next()
	}
}

func primitiveIDFromClaims(claims *helpers.AuthClaims) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(claims.UserID)
}
