package services

import (
	"context"
	"time"

	"github.com/lakbaycavite/server/internal/models"
	"golang.org/x/sync/errgroup"
)

const (
	recentLimit         = 5
	recentFeedbackLimit = 10
	trailingMonths      = 6
)

type DashboardService struct {
	repo models.DashboardRepo
	now  func() time.Time
}

func NewDashboardService(repo models.DashboardRepo) *DashboardService {
	return &DashboardService{
		repo: repo,
		now:  time.Now,
	}
}

// GetDashboard computes the cross-entity statistics for the optional
// date range. The window is resolved exactly once and threaded into
// every query, and the queries are fanned out concurrently since they
// are independent reads.
func (ds *DashboardService) GetDashboard(ctx context.Context, startDate, endDate string) (*models.DashboardStats, error) {
	window, err := models.ResolveDateWindow(startDate, endDate)
	if err != nil {
		return nil, err
	}
	now := ds.now()

	stats := &models.DashboardStats{}
	var demographicUsers []*models.User
	var categoryAverages map[string]float64
	var monthly []models.MonthlyRating

	active := true
	inactive := false
	hidden := true
	visible := false

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.TotalUsers, err = ds.repo.CountUsers(gctx, window, nil)
		return
	})
	g.Go(func() (err error) {
		stats.TotalActiveUsers, err = ds.repo.CountUsers(gctx, window, &active)
		return
	})
	g.Go(func() (err error) {
		stats.TotalInactiveUsers, err = ds.repo.CountUsers(gctx, window, &inactive)
		return
	})
	g.Go(func() (err error) {
		demographicUsers, err = ds.repo.UserDemographics(gctx, window)
		return
	})
	g.Go(func() (err error) {
		stats.RecentUsers, err = ds.repo.RecentUsers(gctx, window, recentLimit)
		return
	})

	g.Go(func() (err error) {
		stats.TotalPosts, err = ds.repo.CountPosts(gctx, window, nil)
		return
	})
	g.Go(func() (err error) {
		stats.TotalActivePosts, err = ds.repo.CountPosts(gctx, window, &visible)
		return
	})
	g.Go(func() (err error) {
		stats.TotalInactivePosts, err = ds.repo.CountPosts(gctx, window, &hidden)
		return
	})
	g.Go(func() (err error) {
		stats.RecentPosts, err = ds.repo.RecentPosts(gctx, window, recentLimit)
		return
	})

	g.Go(func() (err error) {
		stats.TotalEvents, err = ds.repo.CountEventsInWindow(gctx, window)
		return
	})
	g.Go(func() (err error) {
		stats.DoneEvents, err = ds.repo.CountDoneEvents(gctx, window)
		return
	})
	g.Go(func() (err error) {
		stats.UpcomingEvents, err = ds.repo.CountUpcomingEvents(gctx, window, now)
		return
	})
	g.Go(func() (err error) {
		stats.OngoingEvents, err = ds.repo.CountOngoingEvents(gctx, window, now)
		return
	})
	g.Go(func() (err error) {
		stats.RecentEvents, err = ds.repo.RecentEvents(gctx, window, recentLimit)
		return
	})
	g.Go(func() (err error) {
		stats.UpcomingFiveEvents, err = ds.repo.SoonestUpcomingEvents(gctx, window, now, recentLimit)
		return
	})

	g.Go(func() (err error) {
		stats.TotalHotlines, err = ds.repo.CountHotlines(gctx, window)
		return
	})
	g.Go(func() (err error) {
		stats.RecentHotlines, err = ds.repo.RecentHotlines(gctx, window, recentLimit)
		return
	})

	g.Go(func() (err error) {
		stats.Feedback.TotalFeedbacks, err = ds.repo.CountFeedbacks(gctx, window)
		return
	})
	g.Go(func() (err error) {
		stats.Feedback.RatingDistribution, stats.Feedback.AverageRating, err = ds.repo.FeedbackRatingStats(gctx, window)
		return
	})
	g.Go(func() (err error) {
		stats.Feedback.CategoryCounts, categoryAverages, err = ds.repo.FeedbackCategoryStats(gctx, window)
		return
	})
	g.Go(func() (err error) {
		monthly, err = ds.repo.FeedbackMonthlyAverages(gctx, trailingMonthsStart(now))
		return
	})
	g.Go(func() (err error) {
		stats.Feedback.RecentFeedbacks, err = ds.repo.RecentFeedbacks(gctx, window, recentFeedbackLimit)
		return
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.Demographics = models.BuildDemographics(demographicUsers)

	stats.Feedback.AverageRating = models.Round2(stats.Feedback.AverageRating)
	stats.Feedback.CategoryAverages = map[string]float64{}
	for category, avg := range categoryAverages {
		stats.Feedback.CategoryAverages[category] = models.Round2(avg)
	}
	stats.Feedback.MonthlyAverages = labelMonthlyRatings(monthly)

	return stats, nil
}

// trailingMonthsStart is the first day of the month five months before
// now, so the grouping spans six calendar months including the current
// one.
func trailingMonthsStart(now time.Time) time.Time {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return monthStart.AddDate(0, -(trailingMonths - 1), 0)
}

func labelMonthlyRatings(months []models.MonthlyRating) []models.MonthlyRating {
	labeled := make([]models.MonthlyRating, len(months))
	for i, m := range months {
		m.Average = models.Round2(m.Average)
		m.Label = models.MonthLabel(m.Year, m.Month)
		labeled[i] = m
	}
	return labeled
}
