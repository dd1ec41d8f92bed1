package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WinnerStatus represents the status of a winner record
type WinnerStatus string

const (
	WinnerStatusWon           WinnerStatus = "won"
	WinnerStatusLost          WinnerStatus = "lost"
	WinnerStatusAlAgua        WinnerStatus = "al_agua"
	WinnerStatusPendingReveal WinnerStatus = "pending_reveal"
	WinnerStatusWaitingClaim  WinnerStatus = "waiting_claim"
)

// Winner represents one result event for a raffle. Records are never
// updated in place: every host action (spin, confirm, forfeit, timeout)
// appends a new record, and the latest one is the raffle's outcome.
type Winner struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RaffleID primitive.ObjectID `bson:"raffle_id" json:"raffle_id"`
	Username string             `bson:"username" json:"username"`
	Status   WinnerStatus       `bson:"status" json:"status"`
	// ClaimedAt doubles as the claim deadline while Status is
	// waiting_claim; pollers derive the countdown from it.
	ClaimedAt *time.Time `bson:"claimed_at,omitempty" json:"claimed_at"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}

// PublicWinner is the projection of a winner record exposed on the
// unauthenticated results endpoint.
type PublicWinner struct {
	Username  string       `json:"username"`
	Status    WinnerStatus `json:"status"`
	ClaimedAt *time.Time   `json:"claimed_at"`
}

// Public returns the filtered projection of the record.
func (w *Winner) Public() PublicWinner {
	return PublicWinner{
		Username:  w.Username,
		Status:    w.Status,
		ClaimedAt: w.ClaimedAt,
	}
}
