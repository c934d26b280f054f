package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/domain"
)

// TicketHistoryRepository stores audit entries.
type TicketHistoryRepository interface {
	Create(ctx context.Context, history *domain.TicketHistory) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketHistory, error)
}

type ticketHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewTicketHistoryRepository builds repository.
func NewTicketHistoryRepository(pool *pgxpool.Pool) TicketHistoryRepository {
	return &ticketHistoryRepository{pool: pool}
}

func (r *ticketHistoryRepository) Create(ctx context.Context, history *domain.TicketHistory) error {
	const query = `
        INSERT INTO ticket_history (ticket_id, action, description, performed_by)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		history.TicketID,
		history.Action,
		history.Description,
		history.PerformedBy,
	).Scan(&history.ID, &history.CreatedAt)
}

// ListByTicket returns entries newest first.
func (r *ticketHistoryRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketHistory, error) {
	if !isRowID(ticketID) {
		return []domain.TicketHistory{}, nil
	}
	const query = `
        SELECT id, ticket_id, action, description, COALESCE(performed_by, ''), created_at
        FROM ticket_history WHERE ticket_id=$1 ORDER BY created_at DESC, id DESC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.TicketHistory{}
	for rows.Next() {
		var history domain.TicketHistory
		if err := rows.Scan(
			&history.ID,
			&history.TicketID,
			&history.Action,
			&history.Description,
			&history.PerformedBy,
			&history.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, history)
	}
	return result, rows.Err()
}
