package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A nil pool panics if a lookup ever reaches the database.
func TestMalformedIDsNeverReachPostgres(t *testing.T) {
	ctx := context.Background()
	const bad = "abc"

	tickets := NewTicketRepository(nil)
	_, err := tickets.GetByID(ctx, bad)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	assert.ErrorIs(t, tickets.AppendNotes(ctx, bad, "nota"), pgx.ErrNoRows)
	assert.ErrorIs(t, tickets.Delete(ctx, bad), pgx.ErrNoRows)

	technicians := NewTechnicianRepository(nil)
	_, err = technicians.GetByID(ctx, bad)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	assert.ErrorIs(t, technicians.Deactivate(ctx, bad), pgx.ErrNoRows)

	staff := NewStaffRepository(nil)
	_, err = staff.GetByID(ctx, bad)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	assert.ErrorIs(t, staff.TouchLastSignedIn(ctx, bad), pgx.ErrNoRows)

	rating, err := NewRatingRepository(nil).GetByTicket(ctx, bad)
	require.NoError(t, err)
	assert.Nil(t, rating)

	history, err := NewTicketHistoryRepository(nil).ListByTicket(ctx, bad)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestIsRowID(t *testing.T) {
	assert.True(t, isRowID("0b5c6f3e-8d1a-4c6e-9f7b-2a4d5e6f7a8b"))
	assert.False(t, isRowID(""))
	assert.False(t, isRowID("20240315-0001"))
}
