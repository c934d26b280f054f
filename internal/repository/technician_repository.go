package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/domain"
)

// TechnicianRepository handles persistence for technicians.
type TechnicianRepository interface {
	Create(ctx context.Context, technician *domain.Technician) error
	Update(ctx context.Context, technician *domain.Technician) error
	GetByID(ctx context.Context, id string) (*domain.Technician, error)
	ListActive(ctx context.Context) ([]domain.Technician, error)
	Deactivate(ctx context.Context, id string) error
}

type technicianRepository struct {
	pool *pgxpool.Pool
}

// NewTechnicianRepository instantiates the repository.
func NewTechnicianRepository(pool *pgxpool.Pool) TechnicianRepository {
	return &technicianRepository{pool: pool}
}

func (r *technicianRepository) Create(ctx context.Context, technician *domain.Technician) error {
	const query = `
        INSERT INTO technicians (name, email, phone, specialty, active)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		technician.Name,
		technician.Email,
		technician.Phone,
		technician.Specialty,
		technician.Active,
	).Scan(&technician.ID, &technician.CreatedAt, &technician.UpdatedAt)
}

func (r *technicianRepository) Update(ctx context.Context, technician *domain.Technician) error {
	const query = `
        UPDATE technicians
        SET name=$1, email=$2, phone=$3, specialty=$4, active=$5, updated_at=NOW()
        WHERE id=$6
        RETURNING updated_at`

	return r.pool.QueryRow(ctx, query,
		technician.Name,
		technician.Email,
		technician.Phone,
		technician.Specialty,
		technician.Active,
		technician.ID,
	).Scan(&technician.UpdatedAt)
}

func (r *technicianRepository) GetByID(ctx context.Context, id string) (*domain.Technician, error) {
	if !isRowID(id) {
		return nil, pgx.ErrNoRows
	}
	const query = `
        SELECT id, name, email, phone, specialty, active, created_at, updated_at
        FROM technicians WHERE id=$1`

	var technician domain.Technician
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&technician.ID,
		&technician.Name,
		&technician.Email,
		&technician.Phone,
		&technician.Specialty,
		&technician.Active,
		&technician.CreatedAt,
		&technician.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &technician, nil
}

func (r *technicianRepository) ListActive(ctx context.Context) ([]domain.Technician, error) {
	const query = `
        SELECT id, name, email, phone, specialty, active, created_at, updated_at
        FROM technicians WHERE active ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Technician{}
	for rows.Next() {
		var technician domain.Technician
		if err := rows.Scan(
			&technician.ID,
			&technician.Name,
			&technician.Email,
			&technician.Phone,
			&technician.Specialty,
			&technician.Active,
			&technician.CreatedAt,
			&technician.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, technician)
	}
	return result, rows.Err()
}

func (r *technicianRepository) Deactivate(ctx context.Context, id string) error {
	if !isRowID(id) {
		return pgx.ErrNoRows
	}
	cmd, err := r.pool.Exec(ctx, `UPDATE technicians SET active=FALSE, updated_at=NOW() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
