package events

import (
	"time"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated            EventType = "ticket_created"
	EventTicketStatusChanged      EventType = "ticket_status_changed"
	EventTicketTechnicianAssigned EventType = "ticket_technician_assigned"
	EventTicketNoteAdded          EventType = "ticket_note_added"
	EventTicketDeleted            EventType = "ticket_deleted"
	EventTicketRated              EventType = "ticket_rated"
)

// Event represents a domain event emitted by services after commit.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     string      `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Ticket domain.Ticket `json:"ticket"`
}

// TicketStatusChangedPayload payload. Technician is nil when unassigned.
type TicketStatusChangedPayload struct {
	Ticket     domain.Ticket       `json:"ticket"`
	OldStatus  domain.TicketStatus `json:"old_status"`
	NewStatus  domain.TicketStatus `json:"new_status"`
	Technician *domain.Technician  `json:"technician,omitempty"`
}

// TicketTechnicianAssignedPayload payload.
type TicketTechnicianAssignedPayload struct {
	Ticket     domain.Ticket     `json:"ticket"`
	Technician domain.Technician `json:"technician"`
}

// TicketNoteAddedPayload payload.
type TicketNoteAddedPayload struct {
	Preview string `json:"preview"`
}

// TicketDeletedPayload payload.
type TicketDeletedPayload struct {
	TicketNumber string  `json:"ticket_number"`
	ImageKey     *string `json:"image_key,omitempty"`
}

// TicketRatedPayload payload.
type TicketRatedPayload struct {
	Rating domain.Rating `json:"rating"`
}
