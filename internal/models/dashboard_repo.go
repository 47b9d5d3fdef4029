package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DashboardRepo is the read-only query surface of the aggregator. All
// methods take the resolved DateWindow so every figure in one response
// is scoped to the same range. The reads are independent point-in-time
// queries; under concurrent writes they may reflect slightly different
// instants, which is acceptable for a dashboard.
type DashboardRepo interface {
	CountUsers(ctx context.Context, w DateWindow, active *bool) (int64, error)
	UserDemographics(ctx context.Context, w DateWindow) ([]*User, error)
	RecentUsers(ctx context.Context, w DateWindow, limit int64) ([]*User, error)

	CountPosts(ctx context.Context, w DateWindow, hidden *bool) (int64, error)
	RecentPosts(ctx context.Context, w DateWindow, limit int64) ([]*Post, error)

	CountEventsInWindow(ctx context.Context, w DateWindow) (int64, error)
	CountDoneEvents(ctx context.Context, w DateWindow) (int64, error)
	CountUpcomingEvents(ctx context.Context, w DateWindow, now time.Time) (int64, error)
	CountOngoingEvents(ctx context.Context, w DateWindow, now time.Time) (int64, error)
	RecentEvents(ctx context.Context, w DateWindow, limit int64) ([]*Event, error)
	SoonestUpcomingEvents(ctx context.Context, w DateWindow, now time.Time, limit int64) ([]*Event, error)

	CountHotlines(ctx context.Context, w DateWindow) (int64, error)
	RecentHotlines(ctx context.Context, w DateWindow, limit int64) ([]*Hotline, error)

	CountFeedbacks(ctx context.Context, w DateWindow) (int64, error)
	FeedbackRatingStats(ctx context.Context, w DateWindow) (map[int]int64, float64, error)
	FeedbackCategoryStats(ctx context.Context, w DateWindow) (map[string]int64, map[string]float64, error)
	FeedbackMonthlyAverages(ctx context.Context, since time.Time) ([]MonthlyRating, error)
	RecentFeedbacks(ctx context.Context, w DateWindow, limit int64) ([]*Feedback, error)
}

func mergeQuery(base bson.M, extra bson.M) bson.M {
	merged := bson.M{}
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

func (mdb *MongodbRepo) countInWindow(ctx context.Context, colName string, w DateWindow, extra bson.M) (int64, error) {
	col, err := mdb.GetCollection(ctx, DbName, colName)
	if err != nil {
		return 0, fmt.Errorf("error getting collection: %v", err)
	}
	n, err := col.CountDocuments(ctx, mergeQuery(w.CreatedAtQuery(), extra))
	if err != nil {
		return 0, fmt.Errorf("error counting %s: %v", colName, err)
	}
	return n, nil
}

func (mdb *MongodbRepo) CountUsers(ctx context.Context, w DateWindow, active *bool) (int64, error) {
	extra := bson.M{}
	if active != nil {
		extra["isActive"] = *active
	}
	return mdb.countInWindow(ctx, UserColName, w, extra)
}

func (mdb *MongodbRepo) UserDemographics(ctx context.Context, w DateWindow) ([]*User, error) {
	col, err := mdb.GetCollection(ctx, DbName, UserColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.Find().SetProjection(bson.M{"age": 1, "gender": 1})
	cursor, err := col.Find(ctx, w.CreatedAtQuery(), opts)
	if err != nil {
		return nil, fmt.Errorf("error finding users: %v", err)
	}
	defer cursor.Close(ctx)

	users := []*User{}
	for cursor.Next(ctx) {
		var user User
		if err := cursor.Decode(&user); err != nil {
			return nil, fmt.Errorf("error decoding user: %v", err)
		}
		users = append(users, &user)
	}
	return users, cursor.Err()
}

func (mdb *MongodbRepo) RecentUsers(ctx context.Context, w DateWindow, limit int64) ([]*User, error) {
	col, err := mdb.GetCollection(ctx, DbName, UserColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := col.Find(ctx, w.CreatedAtQuery(), opts)
	if err != nil {
		return nil, fmt.Errorf("error finding recent users: %v", err)
	}
	defer cursor.Close(ctx)

	users := []*User{}
	for cursor.Next(ctx) {
		var user User
		if err := cursor.Decode(&user); err != nil {
			return nil, fmt.Errorf("error decoding user: %v", err)
		}
		users = append(users, &user)
	}
	return users, cursor.Err()
}

func (mdb *MongodbRepo) CountPosts(ctx context.Context, w DateWindow, hidden *bool) (int64, error) {
	extra := bson.M{}
	if hidden != nil {
		extra["is_hidden"] = *hidden
	}
	return mdb.countInWindow(ctx, PostColName, w, extra)
}

func (mdb *MongodbRepo) RecentPosts(ctx context.Context, w DateWindow, limit int64) ([]*Post, error) {
	col, err := mdb.GetCollection(ctx, DbName, PostColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := col.Find(ctx, w.CreatedAtQuery(), opts)
	if err != nil {
		return nil, fmt.Errorf("error finding recent posts: %v", err)
	}
	defer cursor.Close(ctx)

	posts := []*Post{}
	for cursor.Next(ctx) {
		var post Post
		if err := cursor.Decode(&post); err != nil {
			return nil, fmt.Errorf("error decoding post: %v", err)
		}
		posts = append(posts, &post)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	if err := mdb.populatePosts(ctx, posts); err != nil {
		return nil, fmt.Errorf("error populating posts: %v", err)
	}
	return posts, nil
}

func (mdb *MongodbRepo) CountEventsInWindow(ctx context.Context, w DateWindow) (int64, error) {
	return mdb.countInWindow(ctx, EventColName, w, bson.M{})
}

// Done events are those the sweeper (or an admin) has deactivated.
func (mdb *MongodbRepo) CountDoneEvents(ctx context.Context, w DateWindow) (int64, error) {
	return mdb.countInWindow(ctx, EventColName, w, bson.M{"isActive": false})
}

// Upcoming/ongoing classification windows on the start field rather
// than createdAt.
func (mdb *MongodbRepo) CountUpcomingEvents(ctx context.Context, w DateWindow, now time.Time) (int64, error) {
	col, err := mdb.GetCollection(ctx, DbName, EventColName)
	if err != nil {
		return 0, fmt.Errorf("error getting collection: %v", err)
	}
	query := bson.M{
		"start":    mergeQuery(startBounds(w), bson.M{"$gt": now}),
		"isActive": bson.M{"$ne": false},
	}
	n, err := col.CountDocuments(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("error counting upcoming events: %v", err)
	}
	return n, nil
}

func (mdb *MongodbRepo) CountOngoingEvents(ctx context.Context, w DateWindow, now time.Time) (int64, error) {
	col, err := mdb.GetCollection(ctx, DbName, EventColName)
	if err != nil {
		return 0, fmt.Errorf("error getting collection: %v", err)
	}
	// The window's upper bound and "started by now" are both $lt on
	// start; keep whichever is tighter.
	bounds := startBounds(w)
	if w.To == nil || now.Before(*w.To) {
		bounds["$lt"] = now
	}
	query := bson.M{
		"start": bounds,
		"end":   bson.M{"$gt": now},
	}
	n, err := col.CountDocuments(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("error counting ongoing events: %v", err)
	}
	return n, nil
}

func startBounds(w DateWindow) bson.M {
	bounds := bson.M{}
	if w.From != nil {
		bounds["$gte"] = *w.From
	}
	if w.To != nil {
		bounds["$lt"] = *w.To
	}
	return bounds
}

func (mdb *MongodbRepo) RecentEvents(ctx context.Context, w DateWindow, limit int64) ([]*Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	return mdb.findEvents(ctx, w.CreatedAtQuery(), opts)
}

func (mdb *MongodbRepo) SoonestUpcomingEvents(ctx context.Context, w DateWindow, now time.Time, limit int64) ([]*Event, error) {
	query := bson.M{
		"start":    mergeQuery(startBounds(w), bson.M{"$gt": now}),
		"isActive": bson.M{"$ne": false},
	}
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}}).SetLimit(limit)
	return mdb.findEvents(ctx, query, opts)
}

func (mdb *MongodbRepo) findEvents(ctx context.Context, query bson.M, opts *options.FindOptions) ([]*Event, error) {
	col, err := mdb.GetCollection(ctx, DbName, EventColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	cursor, err := col.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding events: %v", err)
	}
	defer cursor.Close(ctx)

	events := []*Event{}
	for cursor.Next(ctx) {
		var event Event
		if err := cursor.Decode(&event); err != nil {
			return nil, fmt.Errorf("error decoding event: %v", err)
		}
		events = append(events, &event)
	}
	return events, cursor.Err()
}

func (mdb *MongodbRepo) CountHotlines(ctx context.Context, w DateWindow) (int64, error) {
	return mdb.countInWindow(ctx, HotlineColName, w, bson.M{})
}

func (mdb *MongodbRepo) RecentHotlines(ctx context.Context, w DateWindow, limit int64) ([]*Hotline, error) {
	col, err := mdb.GetCollection(ctx, DbName, HotlineColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := col.Find(ctx, w.CreatedAtQuery(), opts)
	if err != nil {
		return nil, fmt.Errorf("error finding recent hotlines: %v", err)
	}
	defer cursor.Close(ctx)

	hotlines := []*Hotline{}
	for cursor.Next(ctx) {
		var hotline Hotline
		if err := cursor.Decode(&hotline); err != nil {
			return nil, fmt.Errorf("error decoding hotline: %v", err)
		}
		hotlines = append(hotlines, &hotline)
	}
	return hotlines, cursor.Err()
}

func (mdb *MongodbRepo) CountFeedbacks(ctx context.Context, w DateWindow) (int64, error) {
	return mdb.countInWindow(ctx, FeedbackColName, w, bson.M{})
}

// FeedbackRatingStats returns the zero-filled rating histogram and the
// overall average for the window. The average is unrounded here; the
// service rounds for presentation.
func (mdb *MongodbRepo) FeedbackRatingStats(ctx context.Context, w DateWindow) (map[int]int64, float64, error) {
	col, err := mdb.GetCollection(ctx, DbName, FeedbackColName)
	if err != nil {
		return nil, 0, fmt.Errorf("error getting collection: %v", err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: w.CreatedAtQuery()}},
		{{Key: "$group", Value: bson.M{"_id": "$rating", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("error aggregating ratings: %v", err)
	}
	defer cursor.Close(ctx)

	counts := ZeroRatingDistribution()
	var sum, total int64
	for cursor.Next(ctx) {
		var row struct {
			Rating int   `bson:"_id"`
			Count  int64 `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, 0, fmt.Errorf("error decoding rating count: %v", err)
		}
		if row.Rating >= 1 && row.Rating <= 5 {
			counts[row.Rating] = row.Count
			sum += int64(row.Rating) * row.Count
			total += row.Count
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, err
	}

	var avg float64
	if total > 0 {
		avg = float64(sum) / float64(total)
	}
	return counts, avg, nil
}

// FeedbackCategoryStats returns per-category counts and unrounded
// average ratings for the window. Unknown categories bucket to
// "Uncategorized".
func (mdb *MongodbRepo) FeedbackCategoryStats(ctx context.Context, w DateWindow) (map[string]int64, map[string]float64, error) {
	col, err := mdb.GetCollection(ctx, DbName, FeedbackColName)
	if err != nil {
		return nil, nil, fmt.Errorf("error getting collection: %v", err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: w.CreatedAtQuery()}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$category",
			"count": bson.M{"$sum": 1},
			"avg":   bson.M{"$avg": "$rating"},
		}}},
	}
	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, nil, fmt.Errorf("error aggregating categories: %v", err)
	}
	defer cursor.Close(ctx)

	counts := map[string]int64{}
	averages := map[string]float64{}
	known := map[string]bool{}
	for _, c := range FeedbackCategories {
		known[c] = true
	}
	for cursor.Next(ctx) {
		var row struct {
			Category string  `bson:"_id"`
			Count    int64   `bson:"count"`
			Avg      float64 `bson:"avg"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, nil, fmt.Errorf("error decoding category stats: %v", err)
		}
		name := row.Category
		if !known[name] {
			name = CategoryUncategized
		}
		counts[name] += row.Count
		averages[name] = row.Avg
	}
	return counts, averages, cursor.Err()
}

// FeedbackMonthlyAverages groups ratings by year+month from the given
// start, oldest first. Labels and rounding are applied by the caller.
func (mdb *MongodbRepo) FeedbackMonthlyAverages(ctx context.Context, since time.Time) ([]MonthlyRating, error) {
	col, err := mdb.GetCollection(ctx, DbName, FeedbackColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"year":  bson.M{"$year": "$createdAt"},
				"month": bson.M{"$month": "$createdAt"},
			},
			"avg": bson.M{"$avg": "$rating"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id.year", Value: 1}, {Key: "_id.month", Value: 1}}}},
	}
	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error aggregating monthly averages: %v", err)
	}
	defer cursor.Close(ctx)

	months := []MonthlyRating{}
	for cursor.Next(ctx) {
		var row struct {
			ID struct {
				Year  int `bson:"year"`
				Month int `bson:"month"`
			} `bson:"_id"`
			Avg float64 `bson:"avg"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("error decoding monthly average: %v", err)
		}
		months = append(months, MonthlyRating{
			Year:    row.ID.Year,
			Month:   row.ID.Month,
			Average: row.Avg,
		})
	}
	return months, cursor.Err()
}

func (mdb *MongodbRepo) RecentFeedbacks(ctx context.Context, w DateWindow, limit int64) ([]*Feedback, error) {
	col, err := mdb.GetCollection(ctx, DbName, FeedbackColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := col.Find(ctx, w.CreatedAtQuery(), opts)
	if err != nil {
		return nil, fmt.Errorf("error finding recent feedbacks: %v", err)
	}
	defer cursor.Close(ctx)

	feedbacks := []*Feedback{}
	for cursor.Next(ctx) {
		var feedback Feedback
		if err := cursor.Decode(&feedback); err != nil {
			return nil, fmt.Errorf("error decoding feedback: %v", err)
		}
		feedbacks = append(feedbacks, &feedback)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	if err := mdb.populateFeedbacks(ctx, feedbacks); err != nil {
		return nil, fmt.Errorf("error populating feedbacks: %v", err)
	}
	return feedbacks, nil
}
