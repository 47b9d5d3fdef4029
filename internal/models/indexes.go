package models

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the repos rely on: unique email
// and username on users, TTL expiry on pending verification and
// password-reset codes, and the event title lookup.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	users, err := mdb.GetCollection(ctx, DbName, UserColName)
	if err != nil {
		return err
	}
	_, err = users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return err
	}

	events, err := mdb.GetCollection(ctx, DbName, EventColName)
	if err != nil {
		return err
	}
	_, err = events.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "title", Value: 1}}},
		{Keys: bson.D{{Key: "end", Value: 1}, {Key: "isActive", Value: 1}}},
	})
	if err != nil {
		return err
	}

	ttl := int32(PendingCodeTTL.Seconds())
	for _, name := range []string{VerificationColName, PasswordResetColName} {
		col, err := mdb.GetCollection(ctx, DbName, name)
		if err != nil {
			return err
		}
		_, err = col.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "createdAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(ttl),
		})
		if err != nil {
			return err
		}
	}

	feedbacks, err := mdb.GetCollection(ctx, DbName, FeedbackColName)
	if err != nil {
		return err
	}
	_, err = feedbacks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}},
	})
	return err
}
