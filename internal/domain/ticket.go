package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "aberto"
	TicketStatusInProgress TicketStatus = "em_execucao"
	TicketStatusFinalized  TicketStatus = "finalizado"
)

// ProblemType classifies the maintenance area of a ticket.
type ProblemType string

const (
	ProblemTypeElectrical ProblemType = "eletrica"
	ProblemTypePlumbing   ProblemType = "hidraulica"
	ProblemTypeIT         ProblemType = "informatica"
	ProblemTypeCleaning   ProblemType = "limpeza"
	ProblemTypeStructural ProblemType = "estrutural"
	ProblemTypeOther      ProblemType = "outros"
)

// Urgency enumerates how quickly a ticket needs attention.
type Urgency string

const (
	UrgencyLow    Urgency = "baixa"
	UrgencyMedium Urgency = "media"
	UrgencyHigh   Urgency = "alta"
)

// TicketStatuses lists statuses in lifecycle order.
var TicketStatuses = []TicketStatus{TicketStatusOpen, TicketStatusInProgress, TicketStatusFinalized}

// ProblemTypes lists every accepted problem type.
var ProblemTypes = []ProblemType{
	ProblemTypeElectrical,
	ProblemTypePlumbing,
	ProblemTypeIT,
	ProblemTypeCleaning,
	ProblemTypeStructural,
	ProblemTypeOther,
}

// Urgencies lists every accepted urgency.
var Urgencies = []Urgency{UrgencyLow, UrgencyMedium, UrgencyHigh}

var statusLabels = map[TicketStatus]string{
	TicketStatusOpen:       "Aberto",
	TicketStatusInProgress: "Em Execução",
	TicketStatusFinalized:  "Finalizado",
}

var problemTypeLabels = map[ProblemType]string{
	ProblemTypeElectrical: "Elétrica",
	ProblemTypePlumbing:   "Hidráulica",
	ProblemTypeIT:         "Informática",
	ProblemTypeCleaning:   "Limpeza",
	ProblemTypeStructural: "Estrutural",
	ProblemTypeOther:      "Outros",
}

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the human readable status name.
func (s TicketStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Valid reports whether p is a known problem type.
func (p ProblemType) Valid() bool {
	_, ok := problemTypeLabels[p]
	return ok
}

// Label returns the human readable problem type.
func (p ProblemType) Label() string {
	if label, ok := problemTypeLabels[p]; ok {
		return label
	}
	return string(p)
}

// Valid reports whether u is a known urgency.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	}
	return false
}

// Ticket is a filed maintenance request.
type Ticket struct {
	ID                  string
	TicketNumber        string
	RequesterName       string
	RequesterEmail      string
	Location            string
	ProblemType         ProblemType
	Description         string
	Urgency             Urgency
	Status              TicketStatus
	ImageURL            *string
	ImageKey            *string
	TechnicianID        *string
	Notes               string
	EstimatedCompletion *time.Time
	CompletedAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TicketStats summarizes ticket counts per status.
type TicketStats struct {
	Total          int
	Open           int
	InProgress     int
	Completed      int
	CompletionRate int
}
