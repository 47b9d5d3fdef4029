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

type PostRepo interface {
	ListPosts(ctx context.Context, search string, page, limit int) (*PostList, error)
	GetPostByID(ctx context.Context, id primitive.ObjectID) (*Post, error)
	DeletePost(ctx context.Context, id primitive.ObjectID) error
	TogglePostVisibility(ctx context.Context, id primitive.ObjectID) (*Post, error)
	AddComment(ctx context.Context, postID, userID primitive.ObjectID, text string) (*Post, error)
	GetComments(ctx context.Context, postID primitive.ObjectID) ([]Comment, error)
	RemoveComment(ctx context.Context, postID, commentID primitive.ObjectID) (*Post, error)
}

// postSearchQuery matches content directly and authors by the user ids
// resolved from a username search, mirroring the admin search box.
func postSearchQuery(search string, userIDs []primitive.ObjectID) bson.M {
	if strings.TrimSpace(search) == "" {
		return bson.M{}
	}
	regex := bson.M{"$regex": search, "$options": "i"}
	or := bson.A{bson.M{"content": regex}}
	if len(userIDs) > 0 {
		or = append(or, bson.M{"user": bson.M{"$in": userIDs}})
	}
	return bson.M{"$or": or}
}

func (mdb *MongodbRepo) searchUserIDs(ctx context.Context, search string) ([]primitive.ObjectID, error) {
	col, err := mdb.GetCollection(ctx, DbName, UserColName)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := col.Find(ctx, bson.M{"username": bson.M{"$regex": search, "$options": "i"}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ids []primitive.ObjectID
	for cursor.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.ID)
	}
	return ids, cursor.Err()
}

// populatePosts attaches author and likedBy projections, replacing the
// mongoose populate calls of the admin client's old backend.
func (mdb *MongodbRepo) populatePosts(ctx context.Context, posts []*Post) error {
	idSet := map[primitive.ObjectID]struct{}{}
	for _, p := range posts {
		if !p.UserID.IsZero() {
			idSet[p.UserID] = struct{}{}
		}
		for _, id := range p.LikedByIDs {
			idSet[id] = struct{}{}
		}
	}
	ids := make([]primitive.ObjectID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	refs, err := mdb.UsersByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, p := range posts {
		p.Author = refs[p.UserID]
		p.LikedBy = nil
		for _, id := range p.LikedByIDs {
			if ref, ok := refs[id]; ok {
				p.LikedBy = append(p.LikedBy, ref)
			}
		}
	}
	return nil
}

func (mdb *MongodbRepo) ListPosts(ctx context.Context, search string, page, limit int) (*PostList, error) {
	col, err := mdb.GetCollection(ctx, DbName, PostColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var userIDs []primitive.ObjectID
	if strings.TrimSpace(search) != "" {
		if userIDs, err = mdb.searchUserIDs(ctx, search); err != nil {
			return nil, fmt.Errorf("error searching authors: %v", err)
		}
	}
	query := postSearchQuery(search, userIDs)

	total, err := col.CountDocuments(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error counting posts: %v", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := col.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding posts: %v", err)
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
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	if err := mdb.populatePosts(ctx, posts); err != nil {
		return nil, fmt.Errorf("error populating posts: %v", err)
	}

	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return &PostList{Posts: posts, Total: total, Page: page, Pages: pages}, nil
}

func (mdb *MongodbRepo) GetPostByID(ctx context.Context, id primitive.ObjectID) (*Post, error) {
	col, err := mdb.GetCollection(ctx, DbName, PostColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var post Post
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding post: %v", err)
	}

	if err := mdb.populatePosts(ctx, []*Post{&post}); err != nil {
		return nil, fmt.Errorf("error populating post: %v", err)
	}
	return &post, nil
}

func (mdb *MongodbRepo) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, DbName, PostColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting post: %v", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (mdb *MongodbRepo) TogglePostVisibility(ctx context.Context, id primitive.ObjectID) (*Post, error) {
	col, err := mdb.GetCollection(ctx, DbName, PostColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var post Post
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding post: %v", err)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"is_hidden": !post.IsHidden, "updatedAt": time.Now()}}

	var updated Post
	if err := col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		return nil, fmt.Errorf("error toggling post visibility: %v", err)
	}
	return &updated, nil
}

func (mdb *MongodbRepo) AddComment(ctx context.Context, postID, userID primitive.ObjectID, text string) (*Post, error) {
	col, err := mdb.GetCollection(ctx, DbName, PostColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	comment := Comment{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now(),
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{
		"$push": bson.M{"comments": comment},
		"$set":  bson.M{"updatedAt": time.Now()},
	}

	var updated Post
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": postID}, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error adding comment: %v", err)
	}
	return &updated, nil
}

func (mdb *MongodbRepo) GetComments(ctx context.Context, postID primitive.ObjectID) ([]Comment, error) {
	post, err := mdb.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	idSet := map[primitive.ObjectID]struct{}{}
	for _, c := range post.Comments {
		idSet[c.UserID] = struct{}{}
	}
	ids := make([]primitive.ObjectID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	refs, err := mdb.UsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("error populating comments: %v", err)
	}

	comments := make([]Comment, len(post.Comments))
	for i, c := range post.Comments {
		c.Author = refs[c.UserID]
		comments[i] = c
	}
	return comments, nil
}

func (mdb *MongodbRepo) RemoveComment(ctx context.Context, postID, commentID primitive.ObjectID) (*Post, error) {
	col, err := mdb.GetCollection(ctx, DbName, PostColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{
		"$pull": bson.M{"comments": bson.M{"_id": commentID}},
		"$set":  bson.M{"updatedAt": time.Now()},
	}

	var updated Post
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": postID}, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error removing comment: %v", err)
	}
	return &updated, nil
}
