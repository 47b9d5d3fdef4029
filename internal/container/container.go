package container

import (
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/lakbaycavite/server/internal/config"
	"github.com/lakbaycavite/server/internal/mailer"
	"github.com/lakbaycavite/server/internal/models"
	"github.com/lakbaycavite/server/internal/notify"
	"github.com/lakbaycavite/server/internal/services"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container holds all application dependencies
type Container struct {
	Logger        *slog.Logger
	Cloudinary    *cloudinary.Cloudinary
	MongoDBClient *mongo.Client
	Repo          *models.MongodbRepo

	EventService     *services.EventService
	DashboardService *services.DashboardService
	UserService      *services.UserService
	PostService      *services.PostService
	HotlineService   *services.HotlineService
	FeedbackService  *services.FeedbackService

	JWTSecret string
}

// NewContainer creates a new dependency injection container. Without a
// Resend key the mailer and notifier log instead of delivering, which
// keeps local development free of external credentials.
func NewContainer(
	cfg *config.Config,
	logger *slog.Logger,
	cld *cloudinary.Cloudinary,
	mongoDBClient *mongo.Client,
) *Container {
	repo := models.MongodbNewRepo(mongoDBClient)

	var m mailer.Mailer
	if cfg.ResendAPIKey != "" {
		m = mailer.NewResendMailer(cfg.ResendAPIKey, cfg.EmailFrom)
	} else {
		m = mailer.NewLogMailer(logger)
	}
	notifier := notify.NewLogNotifier(logger)

	return &Container{
		Logger:        logger,
		Cloudinary:    cld,
		MongoDBClient: mongoDBClient,
		Repo:          repo,

		EventService:     services.NewEventService(repo, notifier, logger),
		DashboardService: services.NewDashboardService(repo),
		UserService:      services.NewUserService(repo, repo, m, logger, cfg.JWTSecret),
		PostService:      services.NewPostService(repo),
		HotlineService:   services.NewHotlineService(repo),
		FeedbackService:  services.NewFeedbackService(repo),

		JWTSecret: cfg.JWTSecret,
	}
}
