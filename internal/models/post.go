package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const PostColName = "posts"

type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user" json:"user"`
	Author    *UserRef           `bson:"-" json:"author,omitempty"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type Post struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Content     string               `bson:"content,omitempty" json:"content,omitempty"`
	UserID      primitive.ObjectID   `bson:"user,omitempty" json:"user,omitempty"`
	Author      *UserRef             `bson:"-" json:"author,omitempty"`
	LikedByIDs  []primitive.ObjectID `bson:"likedBy,omitempty" json:"likedBy,omitempty"`
	LikedBy     []*UserRef           `bson:"-" json:"likedByUsers,omitempty"`
	Attachments []string             `bson:"attachments,omitempty" json:"attachments,omitempty"`
	Comments    []Comment            `bson:"comments" json:"comments"`
	IsHidden    bool                 `bson:"is_hidden" json:"is_hidden"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// PostList is the paginated payload of the post listing.
type PostList struct {
	Posts []*Post `json:"posts"`
	Total int64   `json:"total"`
	Page  int     `json:"page"`
	Pages int     `json:"pages"`
}
