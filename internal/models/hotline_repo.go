package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type HotlineRepo interface {
	CreateHotline(ctx context.Context, hotline *Hotline) (*Hotline, error)
	GetHotlineByID(ctx context.Context, id primitive.ObjectID) (*Hotline, error)
	ListHotlines(ctx context.Context, search string, page, limit int) (*HotlineList, error)
	UpdateHotline(ctx context.Context, id primitive.ObjectID, set bson.M) (*Hotline, error)
	DeleteHotline(ctx context.Context, id primitive.ObjectID) error
}

func hotlineSearchQuery(search string) bson.M {
	if strings.TrimSpace(search) == "" {
		return bson.M{}
	}
	regex := bson.M{"$regex": search, "$options": "i"}
	return bson.M{"$or": bson.A{
		bson.M{"name": regex},
		bson.M{"number": regex},
		bson.M{"location": regex},
		bson.M{"category": regex},
	}}
}

func (mdb *MongodbRepo) CreateHotline(ctx context.Context, hotline *Hotline) (*Hotline, error) {
	col, err := mdb.GetCollection(ctx, DbName, HotlineColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	if err := hotline.BeforeCreate(); err != nil {
		return nil, err
	}
	now := time.Now()
	hotline.CreatedAt = now
	hotline.UpdatedAt = now

	if _, err := col.InsertOne(ctx, hotline); err != nil {
		return nil, fmt.Errorf("error inserting hotline: %v", err)
	}
	return hotline, nil
}

func (mdb *MongodbRepo) GetHotlineByID(ctx context.Context, id primitive.ObjectID) (*Hotline, error) {
	col, err := mdb.GetCollection(ctx, DbName, HotlineColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var hotline Hotline
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&hotline); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding hotline: %v", err)
	}
	return &hotline, nil
}

func (mdb *MongodbRepo) ListHotlines(ctx context.Context, search string, page, limit int) (*HotlineList, error) {
	col, err := mdb.GetCollection(ctx, DbName, HotlineColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	query := hotlineSearchQuery(search)
	total, err := col.CountDocuments(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error counting hotlines: %v", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := col.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding hotlines: %v", err)
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
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return &HotlineList{Hotlines: hotlines, Total: total, Page: page, Pages: pages}, nil
}

func (mdb *MongodbRepo) UpdateHotline(ctx context.Context, id primitive.ObjectID, set bson.M) (*Hotline, error) {
	col, err := mdb.GetCollection(ctx, DbName, HotlineColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	set["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Hotline
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error updating hotline: %v", err)
	}
	return &updated, nil
}

func (mdb *MongodbRepo) DeleteHotline(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, DbName, HotlineColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting hotline: %v", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
