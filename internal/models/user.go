package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a streamer account created through Twitch OAuth
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UID      string             `bson:"uid" json:"uid"`
	Provider string             `bson:"provider" json:"provider"`
	Email    string             `bson:"email" json:"email"`
	Username string             `bson:"username" json:"username"`
	Image    string             `bson:"image" json:"image"`
	// Token is the Twitch helix bearer token; it is passed through
	// verbatim on proxy requests and never returned to other users.
	Token     string    `bson:"token" json:"-"`
	Theme     string    `bson:"theme" json:"theme"`
	Language  string    `bson:"language" json:"language"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// PublicHost is the host projection exposed on the public results endpoint.
type PublicHost struct {
	Username string `json:"username"`
	Image    string `json:"image"`
}
