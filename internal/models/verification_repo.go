package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type VerificationRepo interface {
	UpsertVerification(ctx context.Context, email, code string, data PendingUser) error
	FindVerification(ctx context.Context, email, code string) (*Verification, error)
	DeleteVerification(ctx context.Context, email string) error
	UpsertPasswordReset(ctx context.Context, email, code string) error
	FindPasswordReset(ctx context.Context, email, code string) (*PasswordReset, error)
	DeletePasswordReset(ctx context.Context, email string) error
}

// UpsertVerification parks (or refreshes) a pending registration. A
// repeat request for the same email replaces the previous code.
func (mdb *MongodbRepo) UpsertVerification(ctx context.Context, email, code string, data PendingUser) error {
	col, err := mdb.GetCollection(ctx, DbName, VerificationColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	update := bson.M{
		"$set": bson.M{
			"code":      code,
			"userData":  data,
			"createdAt": time.Now(),
		},
		"$setOnInsert": bson.M{"email": email},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := col.UpdateOne(ctx, bson.M{"email": email}, update, opts); err != nil {
		return fmt.Errorf("error upserting verification: %v", err)
	}
	return nil
}

func (mdb *MongodbRepo) FindVerification(ctx context.Context, email, code string) (*Verification, error) {
	col, err := mdb.GetCollection(ctx, DbName, VerificationColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var v Verification
	if err := col.FindOne(ctx, bson.M{"email": email, "code": code}).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding verification: %v", err)
	}
	return &v, nil
}

func (mdb *MongodbRepo) DeleteVerification(ctx context.Context, email string) error {
	col, err := mdb.GetCollection(ctx, DbName, VerificationColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}
	_, err = col.DeleteMany(ctx, bson.M{"email": email})
	return err
}

func (mdb *MongodbRepo) UpsertPasswordReset(ctx context.Context, email, code string) error {
	col, err := mdb.GetCollection(ctx, DbName, PasswordResetColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	update := bson.M{
		"$set":         bson.M{"code": code, "createdAt": time.Now()},
		"$setOnInsert": bson.M{"email": email},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := col.UpdateOne(ctx, bson.M{"email": email}, update, opts); err != nil {
		return fmt.Errorf("error upserting password reset: %v", err)
	}
	return nil
}

func (mdb *MongodbRepo) FindPasswordReset(ctx context.Context, email, code string) (*PasswordReset, error) {
	col, err := mdb.GetCollection(ctx, DbName, PasswordResetColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var pr PasswordReset
	if err := col.FindOne(ctx, bson.M{"email": email, "code": code}).Decode(&pr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding password reset: %v", err)
	}
	return &pr, nil
}

func (mdb *MongodbRepo) DeletePasswordReset(ctx context.Context, email string) error {
	col, err := mdb.GetCollection(ctx, DbName, PasswordResetColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}
	_, err = col.DeleteMany(ctx, bson.M{"email": email})
	return err
}
