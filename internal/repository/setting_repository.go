package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/domain"
)

// SettingRepository persists key/value configuration overrides.
type SettingRepository interface {
	Get(ctx context.Context, key string) (*domain.Setting, error)
	Upsert(ctx context.Context, setting *domain.Setting) error
	List(ctx context.Context) ([]domain.Setting, error)
}

type settingRepository struct {
	pool *pgxpool.Pool
}

// NewSettingRepository builds repository.
func NewSettingRepository(pool *pgxpool.Pool) SettingRepository {
	return &settingRepository{pool: pool}
}

func (r *settingRepository) Get(ctx context.Context, key string) (*domain.Setting, error) {
	const query = `SELECT id, key, value, description, updated_at FROM settings WHERE key=$1`
	var setting domain.Setting
	if err := r.pool.QueryRow(ctx, query, key).Scan(
		&setting.ID,
		&setting.Key,
		&setting.Value,
		&setting.Description,
		&setting.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &setting, nil
}

// Upsert inserts the key or updates its value in one statement.
func (r *settingRepository) Upsert(ctx context.Context, setting *domain.Setting) error {
	const query = `
        INSERT INTO settings (key, value, description)
        VALUES ($1,$2,$3)
        ON CONFLICT (key) DO UPDATE
            SET value=EXCLUDED.value, description=EXCLUDED.description, updated_at=NOW()
        RETURNING id, updated_at`
	return r.pool.QueryRow(ctx, query, setting.Key, setting.Value, setting.Description).
		Scan(&setting.ID, &setting.UpdatedAt)
}

func (r *settingRepository) List(ctx context.Context) ([]domain.Setting, error) {
	const query = `SELECT id, key, value, description, updated_at FROM settings ORDER BY key`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Setting{}
	for rows.Next() {
		var setting domain.Setting
		if err := rows.Scan(&setting.ID, &setting.Key, &setting.Value, &setting.Description, &setting.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, setting)
	}
	return result, rows.Err()
}
