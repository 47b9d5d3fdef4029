package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type FeedbackRepo interface {
	CreateFeedback(ctx context.Context, feedback *Feedback) (*Feedback, error)
	GetFeedbackByID(ctx context.Context, id primitive.ObjectID) (*Feedback, error)
	ListFeedbacks(ctx context.Context, filter FeedbackFilter, page, limit int) (*FeedbackList, error)
	SetAdminResponse(ctx context.Context, id primitive.ObjectID, response string) (*Feedback, error)
	ToggleFeedbackVisibility(ctx context.Context, id primitive.ObjectID) (*Feedback, error)
}

func feedbackFilterQuery(filter FeedbackFilter) bson.M {
	q := bson.M{}
	if filter.Rating != 0 {
		q["rating"] = filter.Rating
	}
	if filter.Category != "" && filter.Category != CategoryOther {
		q["category"] = filter.Category
	}
	return q
}

func (mdb *MongodbRepo) populateFeedbacks(ctx context.Context, feedbacks []*Feedback) error {
	idSet := map[primitive.ObjectID]struct{}{}
	for _, f := range feedbacks {
		idSet[f.UserID] = struct{}{}
	}
	ids := make([]primitive.ObjectID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	refs, err := mdb.UsersByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, f := range feedbacks {
		f.Author = refs[f.UserID]
	}
	return nil
}

func (mdb *MongodbRepo) CreateFeedback(ctx context.Context, feedback *Feedback) (*Feedback, error) {
	col, err := mdb.GetCollection(ctx, DbName, FeedbackColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	if err := feedback.BeforeCreate(); err != nil {
		return nil, err
	}
	now := time.Now()
	feedback.CreatedAt = now
	feedback.UpdatedAt = now

	if _, err := col.InsertOne(ctx, feedback); err != nil {
		return nil, fmt.Errorf("error inserting feedback: %v", err)
	}
	return feedback, nil
}

func (mdb *MongodbRepo) GetFeedbackByID(ctx context.Context, id primitive.ObjectID) (*Feedback, error) {
	col, err := mdb.GetCollection(ctx, DbName, FeedbackColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var feedback Feedback
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&feedback); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding feedback: %v", err)
	}

	if err := mdb.populateFeedbacks(ctx, []*Feedback{&feedback}); err != nil {
		return nil, fmt.Errorf("error populating feedback: %v", err)
	}
	return &feedback, nil
}

func (mdb *MongodbRepo) ListFeedbacks(ctx context.Context, filter FeedbackFilter, page, limit int) (*FeedbackList, error) {
	col, err := mdb.GetCollection(ctx, DbName, FeedbackColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	query := feedbackFilterQuery(filter)
	total, err := col.CountDocuments(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error counting feedbacks: %v", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := col.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding feedbacks: %v", err)
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
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	if err := mdb.populateFeedbacks(ctx, feedbacks); err != nil {
		return nil, fmt.Errorf("error populating feedbacks: %v", err)
	}

	ratings, err := mdb.feedbackRatingCounts(ctx, query)
	if err != nil {
		return nil, err
	}
	categories, err := mdb.feedbackCategoryCounts(ctx, query)
	if err != nil {
		return nil, err
	}

	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return &FeedbackList{
		Feedbacks:  feedbacks,
		Total:      total,
		Page:       page,
		Pages:      pages,
		Ratings:    ratings,
		Categories: categories,
	}, nil
}

func (mdb *MongodbRepo) feedbackRatingCounts(ctx context.Context, match bson.M) (map[int]int64, error) {
	col, err := mdb.GetCollection(ctx, DbName, FeedbackColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": "$rating", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error aggregating ratings: %v", err)
	}
	defer cursor.Close(ctx)

	counts := ZeroRatingDistribution()
	for cursor.Next(ctx) {
		var row struct {
			Rating int   `bson:"_id"`
			Count  int64 `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("error decoding rating count: %v", err)
		}
		if row.Rating >= 1 && row.Rating <= 5 {
			counts[row.Rating] = row.Count
		}
	}
	return counts, cursor.Err()
}

func (mdb *MongodbRepo) feedbackCategoryCounts(ctx context.Context, match bson.M) (map[string]int64, error) {
	col, err := mdb.GetCollection(ctx, DbName, FeedbackColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": "$category", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error aggregating categories: %v", err)
	}
	defer cursor.Close(ctx)

	counts := map[string]int64{}
	for _, c := range FeedbackCategories {
		counts[c] = 0
	}
	for cursor.Next(ctx) {
		var row struct {
			Category string `bson:"_id"`
			Count    int64  `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("error decoding category count: %v", err)
		}
		if _, known := counts[row.Category]; known {
			counts[row.Category] = row.Count
		} else {
			counts[CategoryOther] += row.Count
		}
	}
	return counts, cursor.Err()
}

func (mdb *MongodbRepo) SetAdminResponse(ctx context.Context, id primitive.ObjectID, response string) (*Feedback, error) {
	col, err := mdb.GetCollection(ctx, DbName, FeedbackColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"adminResponse": response, "updatedAt": time.Now()}}

	var updated Feedback
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error updating feedback: %v", err)
	}
	return &updated, nil
}

func (mdb *MongodbRepo) ToggleFeedbackVisibility(ctx context.Context, id primitive.ObjectID) (*Feedback, error) {
	col, err := mdb.GetCollection(ctx, DbName, FeedbackColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var feedback Feedback
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&feedback); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding feedback: %v", err)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"isPublic": !feedback.IsPublic, "updatedAt": time.Now()}}

	var updated Feedback
	if err := col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		return nil, fmt.Errorf("error toggling feedback visibility: %v", err)
	}
	return &updated, nil
}
