package services

import (
	"context"
	"strings"

	"github.com/lakbaycavite/server/internal/models"
)

type FeedbackService struct {
	feedbackRepo models.FeedbackRepo
}

func NewFeedbackService(feedbackRepo models.FeedbackRepo) *FeedbackService {
	return &FeedbackService{feedbackRepo: feedbackRepo}
}

// CreateFeedback records a rating from the authenticated user. New
// feedback is public right away; admins can hide it with the status
// toggle.
func (fs *FeedbackService) CreateFeedback(ctx context.Context, userIDHex string, rating int, comment, category string) (*models.Feedback, error) {
	userID, err := parseObjectID(userIDHex)
	if err != nil {
		return nil, err
	}

	feedback := &models.Feedback{
		UserID:   userID,
		Rating:   rating,
		Comment:  strings.TrimSpace(comment),
		Category: strings.TrimSpace(category),
		IsPublic: true,
	}
	if err := models.ValidateNewFeedback(feedback); err != nil {
		return nil, err
	}
	return fs.feedbackRepo.CreateFeedback(ctx, feedback)
}

func (fs *FeedbackService) GetFeedback(ctx context.Context, idHex string) (*models.Feedback, error) {
	id, err := parseObjectID(idHex)
	if err != nil {
		return nil, err
	}
	return fs.feedbackRepo.GetFeedbackByID(ctx, id)
}

func (fs *FeedbackService) ListFeedbacks(ctx context.Context, rating int, category string, page, limit int) (*models.FeedbackList, error) {
	if rating < 0 || rating > 5 {
		return nil, models.NewValidationError("rating filter must be between 1 and 5")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	filter := models.FeedbackFilter{Rating: rating, Category: strings.TrimSpace(category)}
	return fs.feedbackRepo.ListFeedbacks(ctx, filter, page, limit)
}

func (fs *FeedbackService) RespondToFeedback(ctx context.Context, idHex, response string) (*models.Feedback, error) {
	if strings.TrimSpace(response) == "" {
		return nil, models.NewValidationError("response text is required")
	}
	id, err := parseObjectID(idHex)
	if err != nil {
		return nil, err
	}
	return fs.feedbackRepo.SetAdminResponse(ctx, id, strings.TrimSpace(response))
}

func (fs *FeedbackService) ToggleFeedbackVisibility(ctx context.Context, idHex string) (*models.Feedback, error) {
	id, err := parseObjectID(idHex)
	if err != nil {
		return nil, err
	}
	return fs.feedbackRepo.ToggleFeedbackVisibility(ctx, id)
}
