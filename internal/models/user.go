package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	UserColName = "users"

	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email      string             `bson:"email" json:"email" validate:"required,email"`
	Username   string             `bson:"username" json:"username" validate:"required"`
	Password   string             `bson:"password" json:"-"`
	FirstName  string             `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName   string             `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Age        int                `bson:"age,omitempty" json:"age,omitempty"`
	Gender     string             `bson:"gender,omitempty" json:"gender,omitempty"`
	Image      string             `bson:"image,omitempty" json:"image,omitempty"`
	Role       string             `bson:"role" json:"role"`
	IsActive   bool               `bson:"isActive" json:"isActive"`
	LastLogin  time.Time          `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	IsVerified bool               `bson:"isVerified" json:"isVerified"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) BeforeCreate() error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// UserRef is the populated author projection embedded in posts,
// comments and feedback responses.
type UserRef struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Username  string             `bson:"username" json:"username"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	FirstName string             `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName  string             `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Age       int                `bson:"age,omitempty" json:"age,omitempty"`
	Gender    string             `bson:"gender,omitempty" json:"gender,omitempty"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	Role      string             `bson:"role,omitempty" json:"role,omitempty"`
}

func (u *User) Ref() *UserRef {
	if u == nil {
		return nil
	}
	return &UserRef{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Age:       u.Age,
		Gender:    u.Gender,
		Image:     u.Image,
		Role:      u.Role,
	}
}

// UserUpdate carries the editable profile fields. Nil means "leave
// unchanged".
type UserUpdate struct {
	Email     *string `json:"email"`
	Username  *string `json:"username"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Age       *int    `json:"age"`
	Gender    *string `json:"gender"`
	Image     *string `json:"image"`
}

// UserDetail is the single-user payload with the engagement figures
// the admin profile view shows.
type UserDetail struct {
	User         *User `json:"user"`
	PostsCount   int64 `json:"postsCount"`
	CommentCount int64 `json:"commentCount"`
}

// UserList is the paginated payload of the user listing with the
// active/inactive totals the admin table shows.
type UserList struct {
	Users              []*User `json:"users"`
	Total              int64   `json:"total"`
	TotalActiveUsers   int64   `json:"totalActiveUsers"`
	TotalInactiveUsers int64   `json:"totalInactiveUsers"`
	Page               int     `json:"page"`
	Pages              int     `json:"pages"`
}
