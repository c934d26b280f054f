package domain

// allowedTransitions is the guarded status machine. Tickets move forward,
// may be finalized straight from aberto, and a finalized ticket may be
// reopened when the repair did not hold.
var allowedTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusOpen:       {TicketStatusInProgress, TicketStatusFinalized},
	TicketStatusInProgress: {TicketStatusFinalized},
	TicketStatusFinalized:  {TicketStatusOpen},
}

// CanTransition reports whether a ticket may move from current to next.
func CanTransition(current, next TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the statuses reachable from current.
func AllowedTransitions(current TicketStatus) []TicketStatus {
	out := make([]TicketStatus, len(allowedTransitions[current]))
	copy(out, allowedTransitions[current])
	return out
}
