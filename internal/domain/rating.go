package domain

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Rating is the requester's post-resolution score for a ticket.
type Rating struct {
	ID        string
	TicketID  string
	Rating    int
	Comment   *string
	CreatedAt time.Time
}

// RatingStats summarizes submitted ratings.
type RatingStats struct {
	Total   int
	Average float64
	Recent  []Rating
}
