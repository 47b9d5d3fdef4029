package models

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func validEventInput(now time.Time) EventInput {
	return EventInput{
		Start:       now.Add(24 * time.Hour),
		End:         now.Add(26 * time.Hour),
		Title:       "Kawit Heritage Walk",
		Description: "Guided walk through the historic district",
	}
}

func TestValidateNewEvent(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mutate  func(*EventInput)
		wantErr bool
	}{
		{"valid", func(in *EventInput) {}, false},
		{"missing title", func(in *EventInput) { in.Title = "  " }, true},
		{"missing description", func(in *EventInput) { in.Description = "" }, true},
		{"missing start", func(in *EventInput) { in.Start = time.Time{} }, true},
		{"missing end", func(in *EventInput) { in.End = time.Time{} }, true},
		{"start in the past", func(in *EventInput) { in.Start = now.Add(-time.Hour) }, true},
		{"end before start", func(in *EventInput) { in.End = in.Start.Add(-time.Minute) }, true},
		{"end equals start", func(in *EventInput) { in.End = in.Start }, true},
		{"start exactly now", func(in *EventInput) { in.Start = now; in.End = now.Add(time.Hour) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validEventInput(now)
			tt.mutate(&in)
			err := ValidateNewEvent(in, now)
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr && !IsValidation(err) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
		})
	}
}

func TestNewEventFilterStatus(t *testing.T) {
	for _, status := range []string{"", EventStatusActive, EventStatusInactive} {
		if _, err := NewEventFilter(DateWindow{}, status); err != nil {
			t.Fatalf("status %q: unexpected error: %v", status, err)
		}
	}
	if _, err := NewEventFilter(DateWindow{}, "archived"); !IsValidation(err) {
		t.Fatalf("expected ValidationError for unknown status, got %v", err)
	}
}

func TestEventFilterQuery(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	window := DateWindow{From: &from, To: &to}

	filter, err := NewEventFilter(window, EventStatusActive)
	if err != nil {
		t.Fatal(err)
	}

	q := filter.Query()
	if q["isActive"] != true {
		t.Errorf("expected isActive=true, got %v", q["isActive"])
	}
	bounds, ok := q["start"].(bson.M)
	if !ok {
		t.Fatalf("expected start bounds, got %T", q["start"])
	}
	if bounds["$gte"] != from || bounds["$lt"] != to {
		t.Errorf("unexpected bounds: %v", bounds)
	}

	// An unfiltered status must not constrain isActive at all.
	open := filter.WithStatus("")
	if _, present := open.Query()["isActive"]; present {
		t.Error("empty status should not filter isActive")
	}

	inactive := filter.WithStatus(EventStatusInactive)
	if inactive.Query()["isActive"] != false {
		t.Error("WithStatus(inactive) should filter isActive=false")
	}
	// The original filter is a value; derivations must not touch it.
	if filter.Status != EventStatusActive {
		t.Error("WithStatus mutated the original filter")
	}
}
