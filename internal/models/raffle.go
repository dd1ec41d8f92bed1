package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RaffleStatus represents the status of a raffle
type RaffleStatus string

const (
	RaffleStatusCreated   RaffleStatus = "created"
	RaffleStatusActive    RaffleStatus = "active"
	RaffleStatusSpinning  RaffleStatus = "spinning"
	RaffleStatusCompleted RaffleStatus = "completed"
	RaffleStatusCancelled RaffleStatus = "cancelled"
)

// Raffle represents a chat raffle owned by a streamer
type Raffle struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id"`
	Title        string             `bson:"title" json:"title"`
	Participants []string           `bson:"participants" json:"participants"`
	Status       RaffleStatus       `bson:"status" json:"status"`
	// PublicID is assigned once at creation and never changes. It is the
	// only identifier exposed on the unauthenticated results endpoint.
	PublicID  string    `bson:"public_id" json:"public_id"`
	// Winners is the append-only event log for the raffle; the latest
	// entry is its current outcome.
	Winners   []*Winner `bson:"-" json:"winners,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
