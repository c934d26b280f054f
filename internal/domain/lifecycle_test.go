package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to TicketStatus
		want     bool
	}{
		{TicketStatusOpen, TicketStatusInProgress, true},
		{TicketStatusOpen, TicketStatusFinalized, true},
		{TicketStatusInProgress, TicketStatusFinalized, true},
		{TicketStatusFinalized, TicketStatusOpen, true},
		{TicketStatusInProgress, TicketStatusOpen, false},
		{TicketStatusFinalized, TicketStatusInProgress, false},
		{TicketStatusOpen, TicketStatusOpen, false},
		{TicketStatus("cancelado"), TicketStatusOpen, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestAllowedTransitionsReturnsCopy(t *testing.T) {
	got := AllowedTransitions(TicketStatusOpen)
	got[0] = TicketStatusFinalized
	assert.True(t, CanTransition(TicketStatusOpen, TicketStatusInProgress))
}

func TestEnumLabels(t *testing.T) {
	assert.Equal(t, "Em Execução", TicketStatusInProgress.Label())
	assert.Equal(t, "Hidráulica", ProblemTypePlumbing.Label())
	assert.Equal(t, "desconhecido", ProblemType("desconhecido").Label())
	assert.True(t, UrgencyHigh.Valid())
	assert.False(t, Urgency("urgente").Valid())
	assert.False(t, TicketStatus("").Valid())
}

func TestStaffDisplayName(t *testing.T) {
	var nilStaff *StaffMember
	assert.Equal(t, "Administrador", nilStaff.DisplayName())
	assert.Equal(t, "ana@sesc.org", (&StaffMember{Email: "ana@sesc.org"}).DisplayName())
	assert.Equal(t, "Ana", (&StaffMember{Name: "Ana", Email: "ana@sesc.org"}).DisplayName())
}
