package memory

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/domain"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/repository"
)

func newTicket(number string) *domain.Ticket {
	return &domain.Ticket{
		TicketNumber:   number,
		RequesterName:  "Maria",
		RequesterEmail: "maria@example.com",
		Location:       "Bloco A",
		ProblemType:    domain.ProblemTypeElectrical,
		Description:    "Tomada queimada",
		Urgency:        domain.UrgencyHigh,
		Status:         domain.TicketStatusOpen,
	}
}

func TestTicketNumberUnique(t *testing.T) {
	ctx := context.Background()
	tickets := NewStore().Tickets()

	require.NoError(t, tickets.Create(ctx, newTicket("20250101-0001")))
	err := tickets.Create(ctx, newTicket("20250101-0001"))
	assert.ErrorIs(t, err, repository.ErrDuplicateTicketNumber)
}

func TestDeleteCascades(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	ticket := newTicket("20250101-0001")
	require.NoError(t, store.Tickets().Create(ctx, ticket))
	require.NoError(t, store.History().Create(ctx, &domain.TicketHistory{TicketID: ticket.ID, Action: domain.HistoryActionCreated}))
	require.NoError(t, store.Ratings().Create(ctx, &domain.Rating{TicketID: ticket.ID, Rating: 4}))

	require.NoError(t, store.Tickets().Delete(ctx, ticket.ID))

	history, err := store.History().ListByTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	rating, err := store.Ratings().GetByTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Nil(t, rating)

	assert.ErrorIs(t, store.Tickets().Delete(ctx, ticket.ID), pgx.ErrNoRows)
}

func TestRatingUniquePerTicket(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	ticket := newTicket("20250101-0001")
	require.NoError(t, store.Tickets().Create(ctx, ticket))

	require.NoError(t, store.Ratings().Create(ctx, &domain.Rating{TicketID: ticket.ID, Rating: 5}))
	err := store.Ratings().Create(ctx, &domain.Rating{TicketID: ticket.ID, Rating: 1})
	assert.ErrorIs(t, err, repository.ErrDuplicateRating)
}

func TestListOrderingAndFilters(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	current := base
	store := NewStore().WithClock(func() time.Time { return current })
	tickets := store.Tickets()

	first := newTicket("20250310-0001")
	require.NoError(t, tickets.Create(ctx, first))

	current = base.Add(time.Minute)
	second := newTicket("20250310-0002")
	second.Location = "Piscina"
	second.ProblemType = domain.ProblemTypePlumbing
	second.Description = "Vazamento no vestiário"
	require.NoError(t, tickets.Create(ctx, second))

	all, err := tickets.List(ctx, repository.TicketFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "20250310-0002", all[0].TicketNumber)

	byLocation, err := tickets.List(ctx, repository.TicketFilter{Location: "pisc"})
	require.NoError(t, err)
	require.Len(t, byLocation, 1)
	assert.Equal(t, second.ID, byLocation[0].ID)

	bySearch, err := tickets.List(ctx, repository.TicketFilter{SearchTerm: "VAZAMENTO"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)

	byType, err := tickets.List(ctx, repository.TicketFilter{ProblemType: domain.ProblemTypeElectrical})
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, first.ID, byType[0].ID)

	last, err := tickets.LastNumberWithPrefix(ctx, "20250310-")
	require.NoError(t, err)
	assert.Equal(t, "20250310-0002", last)
}

func TestAppendNotes(t *testing.T) {
	ctx := context.Background()
	tickets := NewStore().Tickets()
	ticket := newTicket("20250101-0001")
	require.NoError(t, tickets.Create(ctx, ticket))

	require.NoError(t, tickets.AppendNotes(ctx, ticket.ID, "primeira"))
	require.NoError(t, tickets.AppendNotes(ctx, ticket.ID, "segunda"))

	stored, err := tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "primeira\n\nsegunda", stored.Notes)
}

func TestReturnedTicketsAreCopies(t *testing.T) {
	ctx := context.Background()
	tickets := NewStore().Tickets()
	ticket := newTicket("20250101-0001")
	require.NoError(t, tickets.Create(ctx, ticket))

	loaded, err := tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	loaded.Status = domain.TicketStatusFinalized

	again, err := tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, again.Status)
}

func TestStaffEmailUniqueCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	staff := NewStore().Staff()
	require.NoError(t, staff.Create(ctx, &domain.StaffMember{Email: "Admin@Sesc.org", Role: domain.StaffRoleAdmin, Active: true}))

	err := staff.Create(ctx, &domain.StaffMember{Email: "admin@sesc.org"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	found, err := staff.GetByEmail(ctx, "ADMIN@sesc.org")
	require.NoError(t, err)
	assert.Equal(t, domain.StaffRoleAdmin, found.Role)
}
