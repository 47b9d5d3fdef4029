package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lakbaycavite/server/internal/container"
	"github.com/lakbaycavite/server/internal/handlers"
	"github.com/lakbaycavite/server/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(c *container.Container) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(c.Logger))
	r.Use(middleware.ErrorHandler(c.Logger))
	r.Use(gin.Recovery())

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{
			"status":  "OK",
			"service": "lakbay-cavite-api",
		})
	})

	userRoutes := r.Group("/user")
	{
		userRoutes.POST("/login", handlers.Login(c.UserService))
		userRoutes.POST("/register", handlers.Register(c.UserService))
		userRoutes.POST("/verify", handlers.VerifyEmail(c.UserService))
		userRoutes.POST("/request-reset", handlers.RequestPasswordReset(c.UserService))
		userRoutes.POST("/reset", handlers.ResetPassword(c.UserService))

		userRoutes.GET("", handlers.ListUsers(c.UserService))
		userRoutes.GET("/:id", handlers.GetUser(c.UserService))
		userRoutes.PUT("/update/:id", handlers.UpdateUser(c.UserService))
		userRoutes.PUT("/toggle-status/:id", handlers.ToggleUserStatus(c.UserService))
		userRoutes.POST("/upload-image", handlers.UploadUserAvatar(c.UserService, c.Cloudinary))
	}

	eventRoutes := r.Group("/event")
	{
		eventRoutes.POST("", handlers.CreateEvent(c.EventService, c.Cloudinary))
		eventRoutes.GET("", handlers.ListEvents(c.EventService))
		eventRoutes.GET("/:id", handlers.GetEvent(c.EventService))
		eventRoutes.PUT("/update/:id", handlers.UpdateEvent(c.EventService))
		eventRoutes.DELETE("/delete/:id", handlers.DeleteEvent(c.EventService))
		eventRoutes.POST("/toggle-status/:id", handlers.ToggleEventStatus(c.EventService))
		eventRoutes.POST("/upload/:id", handlers.UploadEventImage(c.EventService, c.Cloudinary))
		eventRoutes.DELETE("/delete-image/:id", handlers.DeleteEventImage(c.EventService))
	}

	hotlineRoutes := r.Group("/hotline")
	{
		hotlineRoutes.POST("", handlers.CreateHotline(c.HotlineService))
		hotlineRoutes.GET("", handlers.ListHotlines(c.HotlineService))
		hotlineRoutes.GET("/:id", handlers.GetHotline(c.HotlineService))
		hotlineRoutes.PUT("/update/:id", handlers.UpdateHotline(c.HotlineService))
		hotlineRoutes.DELETE("/delete/:id", handlers.DeleteHotline(c.HotlineService))
	}

	dashboardRoutes := r.Group("/dashboard")
	{
		dashboardRoutes.GET("", handlers.GetDashboard(c.DashboardService))
	}

	// Posts and feedback carry the authenticated user's identity, so
	// these groups require a bearer token.
	auth := middleware.AuthMiddleware(c.JWTSecret, c.Repo, c.Logger)

	postRoutes := r.Group("/post")
	postRoutes.Use(auth)
	{
		postRoutes.GET("", handlers.ListPosts(c.PostService))
		postRoutes.GET("/:id", handlers.GetPost(c.PostService))
		postRoutes.DELETE("/:id", handlers.DeletePost(c.PostService))
		postRoutes.PUT("/toggle-visibility/:id", handlers.TogglePostVisibility(c.PostService))
		postRoutes.GET("/:id/comments", handlers.GetComments(c.PostService))
		postRoutes.POST("/:id/comments", handlers.AddComment(c.PostService))
		postRoutes.DELETE("/:id/comments/:commentId", handlers.DeleteComment(c.PostService))
	}

	feedbackRoutes := r.Group("/feedback")
	feedbackRoutes.Use(auth)
	{
		feedbackRoutes.POST("", handlers.CreateFeedback(c.FeedbackService))
		feedbackRoutes.GET("", handlers.ListFeedbacks(c.FeedbackService))
		feedbackRoutes.GET("/:id", handlers.GetFeedback(c.FeedbackService))
		feedbackRoutes.PUT("/update/:id", handlers.UpdateFeedback(c.FeedbackService))
		feedbackRoutes.PUT("/toggle-status/:id", handlers.ToggleFeedbackStatus(c.FeedbackService))
	}

	return r
}
