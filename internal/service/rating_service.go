package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/domain"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/events"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/repository"
	apperrors "github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/pkg/util/errorutil"
)

const (
	alreadyRatedMessage = "Este chamado já foi avaliado"
	recentRatingsLimit  = 5
)

// RatingService records requester satisfaction scores.
type RatingService struct {
	ratings    repository.RatingRepository
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// RatingInput is a rating submission.
type RatingInput struct {
	Rating  int    `json:"rating" validate:"gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// NewRatingService builds the service.
func NewRatingService(ratings repository.RatingRepository, tickets repository.TicketRepository, dispatcher events.Dispatcher, logger *zap.Logger) *RatingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RatingService{ratings: ratings, tickets: tickets, dispatcher: dispatcher, logger: logger}
}

// Create stores the single rating a finalized ticket may receive.
func (s *RatingService) Create(ctx context.Context, ticketID string, input RatingInput) (*domain.Rating, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundOr(err, "ticket", ticketID)
	}
	if ticket.Status != domain.TicketStatusFinalized {
		return nil, apperrors.NewConflict("only finalized tickets can be rated", map[string]any{
			"ticket_id": ticketID,
			"status":    string(ticket.Status),
		})
	}
	existing, err := s.ratings.GetByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewConflict(alreadyRatedMessage, map[string]any{"ticket_id": ticketID})
	}

	rating := &domain.Rating{TicketID: ticketID, Rating: input.Rating}
	if comment := strings.TrimSpace(input.Comment); comment != "" {
		rating.Comment = &comment
	}
	if err := s.ratings.Create(ctx, rating); err != nil {
		if errors.Is(err, repository.ErrDuplicateRating) {
			return nil, apperrors.NewConflict(alreadyRatedMessage, map[string]any{"ticket_id": ticketID})
		}
		return nil, err
	}

	if s.dispatcher != nil {
		event := events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTicketRated,
			TicketID:  ticketID,
			Actor:     ticket.RequesterName,
			Timestamp: rating.CreatedAt,
			Payload:   events.TicketRatedPayload{Rating: *rating},
		}
		if err := s.dispatcher.Publish(ctx, event); err != nil {
			s.logger.Warn("event handlers failed", zap.String("event_type", string(event.Type)), zap.Error(err))
		}
	}
	return rating, nil
}

// GetByTicket returns the ticket's rating, or nil when it has none.
func (s *RatingService) GetByTicket(ctx context.Context, ticketID string) (*domain.Rating, error) {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, notFoundOr(err, "ticket", ticketID)
	}
	return s.ratings.GetByTicket(ctx, ticketID)
}

// List returns every rating, newest first.
func (s *RatingService) List(ctx context.Context) ([]domain.Rating, error) {
	return s.ratings.List(ctx)
}

// Stats aggregates ratings: count, average to one decimal and the latest few.
func (s *RatingService) Stats(ctx context.Context) (domain.RatingStats, error) {
	ratings, err := s.ratings.List(ctx)
	if err != nil {
		return domain.RatingStats{}, err
	}
	stats := domain.RatingStats{Total: len(ratings), Recent: []domain.Rating{}}
	if len(ratings) == 0 {
		return stats, nil
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Rating
	}
	stats.Average = math.Round(float64(sum)/float64(len(ratings))*10) / 10
	limit := recentRatingsLimit
	if len(ratings) < limit {
		limit = len(ratings)
	}
	stats.Recent = append(stats.Recent, ratings[:limit]...)
	return stats, nil
}
