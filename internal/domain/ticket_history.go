package domain

import "time"

// HistoryAction tags what happened in a history entry.
type HistoryAction string

const (
	HistoryActionCreated                HistoryAction = "created"
	HistoryActionStatusChanged          HistoryAction = "status_changed"
	HistoryActionTechnicianAssigned     HistoryAction = "technician_assigned"
	HistoryActionNoteAdded              HistoryAction = "note_added"
	HistoryActionEstimatedCompletionSet HistoryAction = "estimated_completion_set"
)

// TicketHistory is an immutable audit trail entry.
type TicketHistory struct {
	ID          string
	TicketID    string
	Action      HistoryAction
	Description string
	PerformedBy string
	CreatedAt   time.Time
}
