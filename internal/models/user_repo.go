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

type UserRepo interface {
	CreateUser(ctx context.Context, user *User) (*User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	FindUserByUsername(ctx context.Context, username string) (*User, error)
	ListUsers(ctx context.Context, search string, page, limit int) (*UserList, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, set bson.M) (*User, error)
	ToggleUserStatus(ctx context.Context, id primitive.ObjectID) (*User, error)
	SetLastLogin(ctx context.Context, id primitive.ObjectID, t time.Time) error
	SetUserPassword(ctx context.Context, email, passwordHash string) error
	UserEngagement(ctx context.Context, id primitive.ObjectID) (posts int64, comments int64, err error)
}

func (mdb *MongodbRepo) CreateUser(ctx context.Context, user *User) (*User, error) {
	col, err := mdb.GetCollection(ctx, DbName, UserColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	if err := user.BeforeCreate(); err != nil {
		return nil, err
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := col.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, NewConflictError("email or username is already taken")
		}
		return nil, fmt.Errorf("error inserting user: %v", err)
	}
	return user, nil
}

func (mdb *MongodbRepo) GetUserByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	col, err := mdb.GetCollection(ctx, DbName, UserColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var user User
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding user: %v", err)
	}
	return &user, nil
}

func (mdb *MongodbRepo) findUser(ctx context.Context, query bson.M) (*User, error) {
	col, err := mdb.GetCollection(ctx, DbName, UserColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var user User
	if err := col.FindOne(ctx, query).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding user: %v", err)
	}
	return &user, nil
}

func (mdb *MongodbRepo) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	return mdb.findUser(ctx, bson.M{"email": email})
}

func (mdb *MongodbRepo) FindUserByUsername(ctx context.Context, username string) (*User, error) {
	return mdb.findUser(ctx, bson.M{"username": username})
}

// userSearchQuery matches the admin table search box: case-insensitive
// substring over username, email and names.
func userSearchQuery(search string) bson.M {
	if strings.TrimSpace(search) == "" {
		return bson.M{}
	}
	regex := bson.M{"$regex": search, "$options": "i"}
	return bson.M{"$or": bson.A{
		bson.M{"username": regex},
		bson.M{"email": regex},
		bson.M{"firstName": regex},
		bson.M{"lastName": regex},
	}}
}

func (mdb *MongodbRepo) ListUsers(ctx context.Context, search string, page, limit int) (*UserList, error) {
	col, err := mdb.GetCollection(ctx, DbName, UserColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	total, err := col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error counting users: %v", err)
	}
	active, err := col.CountDocuments(ctx, bson.M{"isActive": true})
	if err != nil {
		return nil, fmt.Errorf("error counting active users: %v", err)
	}
	inactive, err := col.CountDocuments(ctx, bson.M{"isActive": false})
	if err != nil {
		return nil, fmt.Errorf("error counting inactive users: %v", err)
	}

	skip := int64((page - 1) * limit)
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(limit))

	cursor, err := col.Find(ctx, userSearchQuery(search), opts)
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
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return &UserList{
		Users:              users,
		Total:              total,
		TotalActiveUsers:   active,
		TotalInactiveUsers: inactive,
		Page:               page,
		Pages:              pages,
	}, nil
}

func (mdb *MongodbRepo) UpdateUser(ctx context.Context, id primitive.ObjectID, set bson.M) (*User, error) {
	col, err := mdb.GetCollection(ctx, DbName, UserColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	set["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated User
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, NewConflictError("email or username is already taken")
		}
		return nil, fmt.Errorf("error updating user: %v", err)
	}
	return &updated, nil
}

func (mdb *MongodbRepo) ToggleUserStatus(ctx context.Context, id primitive.ObjectID) (*User, error) {
	user, err := mdb.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return mdb.UpdateUser(ctx, id, bson.M{"isActive": !user.IsActive})
}

func (mdb *MongodbRepo) SetLastLogin(ctx context.Context, id primitive.ObjectID, t time.Time) error {
	col, err := mdb.GetCollection(ctx, DbName, UserColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}
	_, err = col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"lastLogin": t}})
	return err
}

func (mdb *MongodbRepo) SetUserPassword(ctx context.Context, email, passwordHash string) error {
	col, err := mdb.GetCollection(ctx, DbName, UserColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}
	res, err := col.UpdateOne(ctx, bson.M{"email": email},
		bson.M{"$set": bson.M{"password": passwordHash, "updatedAt": time.Now()}})
	if err != nil {
		return fmt.Errorf("error updating password: %v", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UserEngagement counts the user's posts and their comments across all
// posts' embedded comment arrays.
func (mdb *MongodbRepo) UserEngagement(ctx context.Context, id primitive.ObjectID) (int64, int64, error) {
	col, err := mdb.GetCollection(ctx, DbName, PostColName)
	if err != nil {
		return 0, 0, fmt.Errorf("error getting collection: %v", err)
	}

	posts, err := col.CountDocuments(ctx, bson.M{"user": id})
	if err != nil {
		return 0, 0, fmt.Errorf("error counting posts: %v", err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$comments"}},
		{{Key: "$match", Value: bson.M{"comments.user": id}}},
		{{Key: "$count", Value: "totalComments"}},
	}
	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("error counting comments: %v", err)
	}
	defer cursor.Close(ctx)

	var comments int64
	if cursor.Next(ctx) {
		var row struct {
			TotalComments int64 `bson:"totalComments"`
		}
		if err := cursor.Decode(&row); err != nil {
			return 0, 0, fmt.Errorf("error decoding comment count: %v", err)
		}
		comments = row.TotalComments
	}
	return posts, comments, nil
}

// UsersByIDs resolves author references for populated responses.
func (mdb *MongodbRepo) UsersByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*UserRef, error) {
	refs := map[primitive.ObjectID]*UserRef{}
	if len(ids) == 0 {
		return refs, nil
	}

	col, err := mdb.GetCollection(ctx, DbName, UserColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	cursor, err := col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("error finding users: %v", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var user User
		if err := cursor.Decode(&user); err != nil {
			return nil, fmt.Errorf("error decoding user: %v", err)
		}
		refs[user.ID] = user.Ref()
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return refs, nil
}
