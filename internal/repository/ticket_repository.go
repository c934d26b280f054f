package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/domain"
)

// TicketFilter captures search parameters. Zero values mean "no filter".
type TicketFilter struct {
	Status      domain.TicketStatus
	ProblemType domain.ProblemType
	Urgency     domain.Urgency
	Location    string
	SearchTerm  string
	Limit       int
	Offset      int
}

// IsEmpty reports whether no filter field is set.
func (f TicketFilter) IsEmpty() bool {
	return f.Status == "" && f.ProblemType == "" && f.Urgency == "" &&
		strings.TrimSpace(f.Location) == "" && strings.TrimSpace(f.SearchTerm) == ""
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	AppendNotes(ctx context.Context, id, block string) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByNumber(ctx context.Context, number string) (*domain.Ticket, error)
	LastNumberWithPrefix(ctx context.Context, prefix string) (string, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	CountByStatus(ctx context.Context) (map[domain.TicketStatus]int, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, ticket_number, requester_name, requester_email, location, problem_type,
               description, urgency, status, image_url, image_key, technician_id, notes,
               estimated_completion, completed_at, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (ticket_number, requester_name, requester_email, location, problem_type,
            description, urgency, status, image_url, image_key, technician_id, notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		ticket.TicketNumber,
		ticket.RequesterName,
		ticket.RequesterEmail,
		ticket.Location,
		ticket.ProblemType,
		ticket.Description,
		ticket.Urgency,
		ticket.Status,
		ticket.ImageURL,
		ticket.ImageKey,
		ticket.TechnicianID,
		ticket.Notes,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
	if isUniqueViolation(err, "tickets_ticket_number_key") {
		return ErrDuplicateTicketNumber
	}
	return err
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET status=$1, technician_id=$2, estimated_completion=$3, completed_at=$4,
            image_url=$5, image_key=$6, updated_at=NOW()
        WHERE id=$7
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		ticket.Status,
		ticket.TechnicianID,
		ticket.EstimatedCompletion,
		ticket.CompletedAt,
		ticket.ImageURL,
		ticket.ImageKey,
		ticket.ID,
	).Scan(&ticket.UpdatedAt)
	return err
}

// AppendNotes concatenates block onto the notes column in a single statement
// so concurrent notes are never lost.
func (r *ticketRepository) AppendNotes(ctx context.Context, id, block string) error {
	if !isRowID(id) {
		return pgx.ErrNoRows
	}
	const query = `
        UPDATE tickets
        SET notes = CASE WHEN notes = '' THEN $1 ELSE notes || E'\n\n' || $1 END, updated_at=NOW()
        WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, block, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	if !isRowID(id) {
		return pgx.ErrNoRows
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	if !isRowID(id) {
		return nil, pgx.ErrNoRows
	}
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) GetByNumber(ctx context.Context, number string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE ticket_number=$1`
	return r.fetchSingle(ctx, query, number)
}

func (r *ticketRepository) LastNumberWithPrefix(ctx context.Context, prefix string) (string, error) {
	const query = `
        SELECT ticket_number FROM tickets
        WHERE ticket_number LIKE $1
        ORDER BY length(ticket_number) DESC, ticket_number DESC
        LIMIT 1`
	var number string
	err := r.pool.QueryRow(ctx, query, prefix+"%").Scan(&number)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return number, err
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT ` + ticketColumns + ` FROM tickets`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.ProblemType != "" {
		args = append(args, filter.ProblemType)
		clauses = append(clauses, fmt.Sprintf("problem_type=$%d", len(args)))
	}
	if filter.Urgency != "" {
		args = append(args, filter.Urgency)
		clauses = append(clauses, fmt.Sprintf("urgency=$%d", len(args)))
	}
	if location := strings.TrimSpace(filter.Location); location != "" {
		args = append(args, "%"+location+"%")
		clauses = append(clauses, fmt.Sprintf("location ILIKE $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.SearchTerm); search != "" {
		args = append(args, "%"+search+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(ticket_number ILIKE %s OR requester_name ILIKE %s OR description ILIKE %s)",
			placeholder, placeholder, placeholder))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC, ticket_number DESC`, base, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		offset := filter.Offset
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) CountByStatus(ctx context.Context) (map[domain.TicketStatus]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM tickets GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.TicketStatus]int, len(domain.TicketStatuses))
	for rows.Next() {
		var (
			status domain.TicketStatus
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		ticket    domain.Ticket
		estimated *time.Time
		completed *time.Time
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.TicketNumber,
		&ticket.RequesterName,
		&ticket.RequesterEmail,
		&ticket.Location,
		&ticket.ProblemType,
		&ticket.Description,
		&ticket.Urgency,
		&ticket.Status,
		&ticket.ImageURL,
		&ticket.ImageKey,
		&ticket.TechnicianID,
		&ticket.Notes,
		&estimated,
		&completed,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	ticket.EstimatedCompletion = estimated
	ticket.CompletedAt = completed
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	result := []domain.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}
