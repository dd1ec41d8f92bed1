package models

import "time"

// PublicRaffle is the unauthenticated projection of a raffle served at
// /api/public/raffles/:public_id. It is everything a live view or results
// page needs: the participant list, the projected winner log and the
// latest outcome.
type PublicRaffle struct {
	Title        string         `json:"title"`
	Status       RaffleStatus   `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	Participants []string       `json:"participants"`
	Winners      []PublicWinner `json:"winners"`
	LatestWinner *PublicWinner  `json:"latest_winner"`
	Host         PublicHost     `json:"host"`
}
