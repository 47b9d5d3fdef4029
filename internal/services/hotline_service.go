package services

import (
	"context"
	"strings"

	"github.com/lakbaycavite/server/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

type HotlineService struct {
	hotlineRepo models.HotlineRepo
}

func NewHotlineService(hotlineRepo models.HotlineRepo) *HotlineService {
	return &HotlineService{hotlineRepo: hotlineRepo}
}

func (hs *HotlineService) CreateHotline(ctx context.Context, hotline *models.Hotline) (*models.Hotline, error) {
	if err := models.ValidateNewHotline(hotline); err != nil {
		return nil, err
	}
	return hs.hotlineRepo.CreateHotline(ctx, hotline)
}

func (hs *HotlineService) GetHotline(ctx context.Context, idHex string) (*models.Hotline, error) {
	id, err := parseObjectID(idHex)
	if err != nil {
		return nil, err
	}
	return hs.hotlineRepo.GetHotlineByID(ctx, id)
}

func (hs *HotlineService) ListHotlines(ctx context.Context, search string, page, limit int) (*models.HotlineList, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return hs.hotlineRepo.ListHotlines(ctx, search, page, limit)
}

func (hs *HotlineService) UpdateHotline(ctx context.Context, idHex string, input models.Hotline) (*models.Hotline, error) {
	id, err := parseObjectID(idHex)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if strings.TrimSpace(input.Name) != "" {
		set["name"] = input.Name
	}
	if strings.TrimSpace(input.Number) != "" {
		set["number"] = input.Number
	}
	if strings.TrimSpace(input.Location) != "" {
		set["location"] = input.Location
	}
	if strings.TrimSpace(input.Category) != "" {
		set["category"] = input.Category
	}
	if len(set) == 0 {
		return nil, models.NewValidationError("no fields to update")
	}
	return hs.hotlineRepo.UpdateHotline(ctx, id, set)
}

func (hs *HotlineService) DeleteHotline(ctx context.Context, idHex string) error {
	id, err := parseObjectID(idHex)
	if err != nil {
		return err
	}
	return hs.hotlineRepo.DeleteHotline(ctx, id)
}
