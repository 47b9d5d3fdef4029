package models

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func TestResolveDateWindow(t *testing.T) {
	t.Run("empty bounds leave the window open", func(t *testing.T) {
		w, err := ResolveDateWindow("", "")
		if err != nil {
			t.Fatal(err)
		}
		if w.From != nil || w.To != nil {
			t.Errorf("expected open window, got %+v", w)
		}
	})

	t.Run("date-only end covers the whole day", func(t *testing.T) {
		w, err := ResolveDateWindow("2024-01-01", "2024-01-31")
		if err != nil {
			t.Fatal(err)
		}
		endOfMonth := time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC)
		if !w.Contains(endOfMonth) {
			t.Error("record created late on endDate should fall inside the window")
		}
		nextDay := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
		if w.Contains(nextDay) {
			t.Error("record on the day after endDate should fall outside the window")
		}
	})

	t.Run("lower bound is inclusive", func(t *testing.T) {
		w, err := ResolveDateWindow("2024-01-01", "")
		if err != nil {
			t.Fatal(err)
		}
		if !w.Contains(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
			t.Error("startDate midnight should be inside the window")
		}
		if w.Contains(time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC)) {
			t.Error("moment before startDate should be outside the window")
		}
	})

	t.Run("malformed bound is a validation error", func(t *testing.T) {
		if _, err := ResolveDateWindow("31-01-2024", ""); !IsValidation(err) {
			t.Errorf("expected ValidationError, got %v", err)
		}
		if _, err := ResolveDateWindow("", "soon"); !IsValidation(err) {
			t.Errorf("expected ValidationError, got %v", err)
		}
	})
}

func TestDateWindowFieldQuery(t *testing.T) {
	if q := (DateWindow{}).FieldQuery("createdAt"); len(q) != 0 {
		t.Errorf("open window should render an empty query, got %v", q)
	}

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	q := (DateWindow{From: &from}).FieldQuery("start")
	bounds := q["start"].(bson.M)
	if bounds["$gte"] != from {
		t.Errorf("expected $gte bound, got %v", bounds)
	}
	if _, present := bounds["$lt"]; present {
		t.Error("unbounded end should not render $lt")
	}
}

func TestNormalizeGender(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"male", "Male"},
		{"MALE", "Male"},
		{"Female", "Female"},
		{"fEMALE", "Female"},
		{"émile", "Émile"},
		{"ÉMILE", "Émile"},
		{"", GenderUnanswered},
		{"   ", GenderUnanswered},
	}
	for _, tt := range tests {
		if got := NormalizeGender(tt.in); got != tt.want {
			t.Errorf("NormalizeGender(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAgeBracket(t *testing.T) {
	tests := []struct {
		age     int
		want    string
		counted bool
	}{
		{0, "", false},
		{-3, "", false},
		{18, "18-25", true},
		{25, "18-25", true},
		{26, "26-35", true},
		{35, "26-35", true},
		{36, "36-45", true},
		{45, "36-45", true},
		{46, "46+", true},
		{80, "46+", true},
	}
	for _, tt := range tests {
		got, counted := AgeBracket(tt.age)
		if got != tt.want || counted != tt.counted {
			t.Errorf("AgeBracket(%d) = (%q, %v), want (%q, %v)", tt.age, got, counted, tt.want, tt.counted)
		}
	}
}

func TestBuildDemographics(t *testing.T) {
	users := []*User{
		{Gender: "male", Age: 22},
		{Gender: "MALE", Age: 30},
		{Gender: "female", Age: 47},
		{Gender: "", Age: 0},
	}

	d := BuildDemographics(users)

	if d.Gender["Male"] != 2 {
		t.Errorf("Male = %d, want 2", d.Gender["Male"])
	}
	if d.Gender["Female"] != 1 {
		t.Errorf("Female = %d, want 1", d.Gender["Female"])
	}
	if d.Gender[GenderUnanswered] != 1 {
		t.Errorf("%s = %d, want 1", GenderUnanswered, d.Gender[GenderUnanswered])
	}

	// Every age bucket is present even when empty.
	for _, label := range AgeGroupLabels {
		if _, ok := d.AgeGroups[label]; !ok {
			t.Errorf("missing age bucket %q", label)
		}
	}
	if d.AgeGroups["18-25"] != 1 || d.AgeGroups["26-35"] != 1 || d.AgeGroups["46+"] != 1 {
		t.Errorf("unexpected age buckets: %v", d.AgeGroups)
	}
	if d.AgeGroups["36-45"] != 0 {
		t.Errorf("36-45 = %d, want 0", d.AgeGroups["36-45"])
	}

	total := 0
	for _, n := range d.AgeGroups {
		total += n
	}
	if total != 3 {
		t.Errorf("users without an age must be excluded from age buckets, total = %d", total)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{3.756, 3.76},
		{3.754, 3.75},
		{19.0 / 5.0, 3.8},
		{0, 0},
		{5, 5},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMonthLabel(t *testing.T) {
	if got := MonthLabel(2024, 1); got != "January 2024" {
		t.Errorf("MonthLabel = %q", got)
	}
	if got := MonthLabel(2025, 12); got != "December 2025" {
		t.Errorf("MonthLabel = %q", got)
	}
}

func TestZeroRatingDistribution(t *testing.T) {
	dist := ZeroRatingDistribution()
	for rating := 1; rating <= 5; rating++ {
		if v, ok := dist[rating]; !ok || v != 0 {
			t.Errorf("rating %d: got (%d, %v), want (0, true)", rating, v, ok)
		}
	}
	if len(dist) != 5 {
		t.Errorf("expected exactly 5 keys, got %d", len(dist))
	}
}
