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

type EventRepo interface {
	CreateEvent(ctx context.Context, event *Event) (*Event, error)
	GetEventByID(ctx context.Context, id primitive.ObjectID) (*Event, error)
	FindEventByTitle(ctx context.Context, title string) (*Event, error)
	UpdateEvent(ctx context.Context, id primitive.ObjectID, set bson.M) (*Event, error)
	DeleteEvent(ctx context.Context, id primitive.ObjectID) error
	ToggleEventStatus(ctx context.Context, id primitive.ObjectID) (*Event, error)
	SetEventImage(ctx context.Context, id primitive.ObjectID, image *string) (*Event, error)
	ListEvents(ctx context.Context, filter EventFilter) (*EventList, error)
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

func (mdb *MongodbRepo) CreateEvent(ctx context.Context, event *Event) (*Event, error) {
	col, err := mdb.GetCollection(ctx, DbName, EventColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	if err := event.BeforeCreate(); err != nil {
		return nil, err
	}
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now

	if _, err := col.InsertOne(ctx, event); err != nil {
		return nil, fmt.Errorf("error inserting event: %v", err)
	}
	return event, nil
}

func (mdb *MongodbRepo) GetEventByID(ctx context.Context, id primitive.ObjectID) (*Event, error) {
	col, err := mdb.GetCollection(ctx, DbName, EventColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var event Event
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&event); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding event: %v", err)
	}
	return &event, nil
}

func (mdb *MongodbRepo) FindEventByTitle(ctx context.Context, title string) (*Event, error) {
	col, err := mdb.GetCollection(ctx, DbName, EventColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var event Event
	if err := col.FindOne(ctx, bson.M{"title": title}).Decode(&event); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding event by title: %v", err)
	}
	return &event, nil
}

func (mdb *MongodbRepo) UpdateEvent(ctx context.Context, id primitive.ObjectID, set bson.M) (*Event, error) {
	col, err := mdb.GetCollection(ctx, DbName, EventColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	set["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Event
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error updating event: %v", err)
	}
	return &updated, nil
}

func (mdb *MongodbRepo) DeleteEvent(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, DbName, EventColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting event: %v", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (mdb *MongodbRepo) ToggleEventStatus(ctx context.Context, id primitive.ObjectID) (*Event, error) {
	event, err := mdb.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return mdb.UpdateEvent(ctx, id, bson.M{"isActive": !event.IsActive})
}

func (mdb *MongodbRepo) SetEventImage(ctx context.Context, id primitive.ObjectID, image *string) (*Event, error) {
	return mdb.UpdateEvent(ctx, id, bson.M{"image": image})
}

func (mdb *MongodbRepo) ListEvents(ctx context.Context, filter EventFilter) (*EventList, error) {
	col, err := mdb.GetCollection(ctx, DbName, EventColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "start", Value: -1}})
	cursor, err := col.Find(ctx, filter.Query(), opts)
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
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	// Counts are taken against the same window so the split always
	// adds up within the filtered set.
	active, err := col.CountDocuments(ctx, filter.WithStatus(EventStatusActive).Query())
	if err != nil {
		return nil, fmt.Errorf("error counting active events: %v", err)
	}
	inactive, err := col.CountDocuments(ctx, filter.WithStatus(EventStatusInactive).Query())
	if err != nil {
		return nil, fmt.Errorf("error counting inactive events: %v", err)
	}

	return &EventList{Events: events, TotalActive: active, TotalInactive: inactive}, nil
}

// DeactivateExpired flips isActive off for every event whose end has
// passed, in one bulk update. Safe to run repeatedly.
func (mdb *MongodbRepo) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	col, err := mdb.GetCollection(ctx, DbName, EventColName)
	if err != nil {
		return 0, fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.UpdateMany(ctx,
		bson.M{"end": bson.M{"$lt": now}, "isActive": true},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": now}},
	)
	if err != nil {
		return 0, fmt.Errorf("error deactivating expired events: %v", err)
	}
	return res.ModifiedCount, nil
}
