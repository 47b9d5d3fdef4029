package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	FeedbackColName = "feedbacks"

	CategoryUIUX        = "UI/UX"
	CategoryPerformance = "Performance"
	CategoryFeatures    = "Features"
	CategoryBug         = "Bug"
	CategoryContent     = "Content"
	CategoryOther       = "Other/All"
)

var FeedbackCategories = []string{
	CategoryUIUX,
	CategoryPerformance,
	CategoryFeatures,
	CategoryBug,
	CategoryContent,
	CategoryOther,
}

type Feedback struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"user" json:"user"`
	Author        *UserRef           `bson:"-" json:"author,omitempty"`
	Rating        int                `bson:"rating" json:"rating"`
	Comment       string             `bson:"comment" json:"comment"`
	Category      string             `bson:"category" json:"category"`
	AdminResponse *string            `bson:"adminResponse" json:"adminResponse"`
	IsPublic      bool               `bson:"isPublic" json:"isPublic"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (f *Feedback) BeforeCreate() error {
	if f.ID.IsZero() {
		f.ID = primitive.NewObjectID()
	}
	return nil
}

// ValidateNewFeedback enforces the data-model constraints: rating 1-5,
// comment between 10 and 1000 characters, category from the enum.
func ValidateNewFeedback(f *Feedback) error {
	if f.Rating == 0 || strings.TrimSpace(f.Comment) == "" || strings.TrimSpace(f.Category) == "" {
		return NewValidationError("all fields (rating, comment, category) are required")
	}
	if f.Rating < 1 || f.Rating > 5 {
		return NewValidationError("rating must be between 1 and 5")
	}
	if n := utf8.RuneCountInString(f.Comment); n < 10 || n > 1000 {
		return NewValidationError("comment must be between 10 and 1000 characters")
	}
	for _, c := range FeedbackCategories {
		if f.Category == c {
			return nil
		}
	}
	return NewValidationError("unknown category: %s", f.Category)
}

// FeedbackFilter narrows the feedback listing by rating and category.
// A zero rating or empty/"Other/All" category means no restriction.
type FeedbackFilter struct {
	Rating   int
	Category string
}

// FeedbackList is the paginated payload of the feedback listing with
// the rating and category histograms of the filtered set.
type FeedbackList struct {
	Feedbacks  []*Feedback      `json:"data"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Pages      int              `json:"pages"`
	Ratings    map[int]int64    `json:"ratings"`
	Categories map[string]int64 `json:"categories"`
}
