package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	VerificationColName  = "verifications"
	PasswordResetColName = "password_resets"

	// Pending codes expire after ten minutes via a TTL index.
	PendingCodeTTL = 10 * time.Minute
)

// PendingUser is the registration payload parked until the emailed
// code is confirmed.
type PendingUser struct {
	Username  string `bson:"username" json:"username"`
	Password  string `bson:"password" json:"password"`
	FirstName string `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName  string `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Age       int    `bson:"age,omitempty" json:"age,omitempty"`
	Gender    string `bson:"gender,omitempty" json:"gender,omitempty"`
	Image     string `bson:"image,omitempty" json:"image,omitempty"`
	Role      string `bson:"role,omitempty" json:"role,omitempty"`
}

type Verification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Code      string             `bson:"code" json:"-"`
	UserData  PendingUser        `bson:"userData" json:"-"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type PasswordReset struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Code      string             `bson:"code" json:"-"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
