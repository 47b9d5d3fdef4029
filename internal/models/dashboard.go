package models

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	GenderUnanswered    = "Other / Unanswered"
	CategoryUncategized = "Uncategorized"
)

var AgeGroupLabels = []string{"18-25", "26-35", "36-45", "46+"}

// DateWindow is the resolved [startDate, endDate] filter for the
// dashboard and event listing. Either bound may be nil, meaning
// unbounded on that side. It is built once per request and never
// mutated, so every aggregate in a response sees the same window.
type DateWindow struct {
	From *time.Time
	To   *time.Time
}

// ResolveDateWindow parses the optional query-string bounds. Date-only
// values ("2006-01-02") are accepted alongside RFC 3339; a date-only
// end bound covers the whole day.
func ResolveDateWindow(startDate, endDate string) (DateWindow, error) {
	var w DateWindow
	if startDate != "" {
		from, _, err := parseDateBound(startDate)
		if err != nil {
			return DateWindow{}, NewValidationError("invalid startDate: %s", startDate)
		}
		w.From = &from
	}
	if endDate != "" {
		to, dateOnly, err := parseDateBound(endDate)
		if err != nil {
			return DateWindow{}, NewValidationError("invalid endDate: %s", endDate)
		}
		if dateOnly {
			to = to.AddDate(0, 0, 1)
		}
		w.To = &to
	}
	return w, nil
}

func parseDateBound(s string) (t time.Time, dateOnly bool, err error) {
	if t, err = time.Parse("2006-01-02", s); err == nil {
		return t, true, nil
	}
	t, err = time.Parse(time.RFC3339, s)
	return t, false, err
}

// FieldQuery renders the window as a bson range on the given field.
// The lower bound is inclusive, the upper bound exclusive.
func (w DateWindow) FieldQuery(field string) bson.M {
	bounds := bson.M{}
	if w.From != nil {
		bounds["$gte"] = *w.From
	}
	if w.To != nil {
		bounds["$lt"] = *w.To
	}
	if len(bounds) == 0 {
		return bson.M{}
	}
	return bson.M{field: bounds}
}

// CreatedAtQuery is the common case of filtering by creation time.
func (w DateWindow) CreatedAtQuery() bson.M {
	return w.FieldQuery("createdAt")
}

// Contains reports whether t falls inside the window.
func (w DateWindow) Contains(t time.Time) bool {
	if w.From != nil && t.Before(*w.From) {
		return false
	}
	if w.To != nil && !t.Before(*w.To) {
		return false
	}
	return true
}

// NormalizeGender capitalizes the first letter and lowercases the rest
// so "MALE" and "male" land in the same bucket. Blank values bucket to
// "Other / Unanswered".
func NormalizeGender(gender string) string {
	gender = strings.TrimSpace(gender)
	if gender == "" {
		return GenderUnanswered
	}
	first, size := utf8.DecodeRuneInString(gender)
	return string(unicode.ToUpper(first)) + strings.ToLower(gender[size:])
}

// AgeBracket maps an age to its dashboard bucket. Ages of zero or
// below are treated as unanswered and excluded from the age buckets.
func AgeBracket(age int) (string, bool) {
	if age <= 0 {
		return "", false
	}
	switch {
	case age <= 25:
		return "18-25", true
	case age <= 35:
		return "26-35", true
	case age <= 45:
		return "36-45", true
	default:
		return "46+", true
	}
}

type Demographics struct {
	Gender    map[string]int `json:"gender"`
	AgeGroups map[string]int `json:"ageGroups"`
}

// BuildDemographics buckets users by normalized gender and by age
// bracket. Users without an age still count in their gender bucket.
func BuildDemographics(users []*User) Demographics {
	d := Demographics{
		Gender:    map[string]int{},
		AgeGroups: map[string]int{},
	}
	for _, label := range AgeGroupLabels {
		d.AgeGroups[label] = 0
	}
	for _, u := range users {
		d.Gender[NormalizeGender(u.Gender)]++
		if bracket, ok := AgeBracket(u.Age); ok {
			d.AgeGroups[bracket]++
		}
	}
	return d
}

// Round2 rounds to two decimal places, the precision all dashboard
// averages are reported at.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// MonthLabel renders a year+month group as "January 2024".
func MonthLabel(year, month int) string {
	return fmt.Sprintf("%s %d", time.Month(month).String(), year)
}

type MonthlyRating struct {
	Label   string  `json:"label"`
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Average float64 `json:"average"`
}

// FeedbackAnalytics is the feedback slice of the dashboard payload.
type FeedbackAnalytics struct {
	TotalFeedbacks     int64              `json:"totalFeedbacks"`
	AverageRating      float64            `json:"averageRating"`
	RatingDistribution map[int]int64      `json:"ratingDistribution"`
	CategoryCounts     map[string]int64   `json:"categoryDistribution"`
	CategoryAverages   map[string]float64 `json:"categoryAverages"`
	MonthlyAverages    []MonthlyRating    `json:"monthlyAverageRating"`
	RecentFeedbacks    []*Feedback        `json:"recentFeedbacks"`
}

// ZeroRatingDistribution returns the histogram with every rating key
// present so missing ratings report as zero.
func ZeroRatingDistribution() map[int]int64 {
	return map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
}

// DashboardStats is the aggregate payload for GET /dashboard. Every
// count is scoped to the same resolved DateWindow.
type DashboardStats struct {
	TotalUsers         int64 `json:"totalUsers"`
	TotalActiveUsers   int64 `json:"totalActiveUsers"`
	TotalInactiveUsers int64 `json:"totalInactiveUsers"`

	TotalPosts         int64 `json:"totalPosts"`
	TotalActivePosts   int64 `json:"totalActivePosts"`
	TotalInactivePosts int64 `json:"totalInactivePosts"`

	TotalEvents    int64 `json:"totalEvents"`
	DoneEvents     int64 `json:"doneEvents"`
	UpcomingEvents int64 `json:"upcomingEvents"`
	OngoingEvents  int64 `json:"ongoingEvents"`

	TotalHotlines int64 `json:"totalHotlines"`

	RecentUsers        []*User    `json:"recentUsers"`
	RecentPosts        []*Post    `json:"recentPosts"`
	RecentEvents       []*Event   `json:"recentEvents"`
	RecentHotlines     []*Hotline `json:"recentHotlines"`
	UpcomingFiveEvents []*Event   `json:"upcomingFiveEvents"`

	Demographics Demographics      `json:"demographics"`
	Feedback     FeedbackAnalytics `json:"feedback"`
}
