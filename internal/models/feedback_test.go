package models

import (
	"strings"
	"testing"
)

func validFeedback() *Feedback {
	return &Feedback{
		Rating:   4,
		Comment:  "The hotline directory saved us during the typhoon.",
		Category: CategoryContent,
	}
}

func TestValidateNewFeedback(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Feedback)
		wantErr bool
	}{
		{"valid", func(f *Feedback) {}, false},
		{"zero rating", func(f *Feedback) { f.Rating = 0 }, true},
		{"rating too high", func(f *Feedback) { f.Rating = 6 }, true},
		{"negative rating", func(f *Feedback) { f.Rating = -1 }, true},
		{"missing comment", func(f *Feedback) { f.Comment = "" }, true},
		{"comment too short", func(f *Feedback) { f.Comment = "too short" }, true},
		{"comment at minimum", func(f *Feedback) { f.Comment = strings.Repeat("a", 10) }, false},
		{"comment at minimum in non-ascii", func(f *Feedback) { f.Comment = strings.Repeat("ñ", 10) }, false},
		{"comment at maximum", func(f *Feedback) { f.Comment = strings.Repeat("a", 1000) }, false},
		{"comment at maximum in non-ascii", func(f *Feedback) { f.Comment = strings.Repeat("ñ", 1000) }, false},
		{"comment too long", func(f *Feedback) { f.Comment = strings.Repeat("a", 1001) }, true},
		{"missing category", func(f *Feedback) { f.Category = "" }, true},
		{"unknown category", func(f *Feedback) { f.Category = "Complaints" }, true},
		{"other category", func(f *Feedback) { f.Category = CategoryOther }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFeedback()
			tt.mutate(f)
			err := ValidateNewFeedback(f)
			if tt.wantErr && !IsValidation(err) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestFeedbackFilterQuery(t *testing.T) {
	if q := feedbackFilterQuery(FeedbackFilter{}); len(q) != 0 {
		t.Errorf("empty filter should render an empty query, got %v", q)
	}

	q := feedbackFilterQuery(FeedbackFilter{Rating: 3, Category: CategoryBug})
	if q["rating"] != 3 || q["category"] != CategoryBug {
		t.Errorf("unexpected query: %v", q)
	}

	// "Other/All" is the catch-all in the admin filter dropdown, not a
	// real category restriction.
	q = feedbackFilterQuery(FeedbackFilter{Category: CategoryOther})
	if _, present := q["category"]; present {
		t.Errorf("%q should not restrict the category", CategoryOther)
	}
}
