package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/domain"
)

// RatingRepository stores post-resolution ratings.
type RatingRepository interface {
	Create(ctx context.Context, rating *domain.Rating) error
	GetByTicket(ctx context.Context, ticketID string) (*domain.Rating, error)
	List(ctx context.Context) ([]domain.Rating, error)
}

type ratingRepository struct {
	pool *pgxpool.Pool
}

// NewRatingRepository builds repository.
func NewRatingRepository(pool *pgxpool.Pool) RatingRepository {
	return &ratingRepository{pool: pool}
}

func (r *ratingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	const query = `
        INSERT INTO ratings (ticket_id, rating, comment)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query, rating.TicketID, rating.Rating, rating.Comment).
		Scan(&rating.ID, &rating.CreatedAt)
	if isUniqueViolation(err, "ratings_ticket_id_key") {
		return ErrDuplicateRating
	}
	return err
}

// GetByTicket returns the ticket's rating or nil when none exists.
func (r *ratingRepository) GetByTicket(ctx context.Context, ticketID string) (*domain.Rating, error) {
	if !isRowID(ticketID) {
		return nil, nil
	}
	const query = `SELECT id, ticket_id, rating, comment, created_at FROM ratings WHERE ticket_id=$1`
	var rating domain.Rating
	err := r.pool.QueryRow(ctx, query, ticketID).Scan(
		&rating.ID,
		&rating.TicketID,
		&rating.Rating,
		&rating.Comment,
		&rating.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// List returns ratings newest first.
func (r *ratingRepository) List(ctx context.Context) ([]domain.Rating, error) {
	const query = `SELECT id, ticket_id, rating, comment, created_at FROM ratings ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Rating{}
	for rows.Next() {
		var rating domain.Rating
		if err := rows.Scan(&rating.ID, &rating.TicketID, &rating.Rating, &rating.Comment, &rating.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, rating)
	}
	return result, rows.Err()
}
