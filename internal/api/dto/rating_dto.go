package dto

import (
	"time"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/domain"
)

// CreateRatingRequest payload.
type CreateRatingRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// RatingResponse view.
type RatingResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// RatingStatsResponse view.
type RatingStatsResponse struct {
	Total   int              `json:"total"`
	Average float64          `json:"average"`
	Recent  []RatingResponse `json:"recent"`
}

// NewRatingResponse maps a rating.
func NewRatingResponse(r *domain.Rating) RatingResponse {
	return RatingResponse{
		ID:        r.ID,
		TicketID:  r.TicketID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

// NewRatingResponses maps a list.
func NewRatingResponses(ratings []domain.Rating) []RatingResponse {
	items := make([]RatingResponse, 0, len(ratings))
	for i := range ratings {
		items = append(items, NewRatingResponse(&ratings[i]))
	}
	return items
}

// NewRatingStatsResponse maps stats.
func NewRatingStatsResponse(s domain.RatingStats) RatingStatsResponse {
	return RatingStatsResponse{Total: s.Total, Average: s.Average, Recent: NewRatingResponses(s.Recent)}
}
