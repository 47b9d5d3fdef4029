package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const HotlineColName = "hotlines"

type Hotline struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Number    string             `bson:"number" json:"number"`
	Location  string             `bson:"location,omitempty" json:"location,omitempty"`
	Category  string             `bson:"category,omitempty" json:"category,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (h *Hotline) BeforeCreate() error {
	if h.ID.IsZero() {
		h.ID = primitive.NewObjectID()
	}
	return nil
}

// ValidateNewHotline enforces the required fields of the create form.
func ValidateNewHotline(h *Hotline) error {
	if strings.TrimSpace(h.Name) == "" || strings.TrimSpace(h.Number) == "" || strings.TrimSpace(h.Category) == "" {
		return NewValidationError("all fields (name, number, category) are required")
	}
	return nil
}

// HotlineList is the paginated payload of the hotline listing.
type HotlineList struct {
	Hotlines []*Hotline `json:"hotlines"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	Pages    int        `json:"pages"`
}
