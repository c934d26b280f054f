package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

var (
	// ErrDuplicateTicketNumber is returned when a concurrent submission already took the number.
	ErrDuplicateTicketNumber = errors.New("ticket number already exists")
	// ErrDuplicateRating is returned when the ticket already has a rating.
	ErrDuplicateRating = errors.New("ticket already rated")
	// ErrDuplicateEmail is returned when a staff email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
)

// isRowID reports whether id can match a uuid primary key. Postgres rejects
// malformed uuids with 22P02 instead of returning no rows.
func isRowID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == uniqueViolation && pgErr.ConstraintName == constraint
}
