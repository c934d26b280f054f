package dto

import (
	"time"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	RequesterName  string `json:"requester_name"`
	RequesterEmail string `json:"requester_email"`
	Location       string `json:"location"`
	ProblemType    string `json:"problem_type"`
	Description    string `json:"description"`
	Urgency        string `json:"urgency"`
	ImageData      string `json:"image_data"`
	ImageMimeType  string `json:"image_mime_type"`
}

// CreateTicketResponse is returned to the requester after submission.
type CreateTicketResponse struct {
	ID           string `json:"id"`
	TicketNumber string `json:"ticket_number"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// AssignTechnicianRequest payload.
type AssignTechnicianRequest struct {
	TechnicianID string `json:"technician_id"`
}

// AppendNoteRequest payload.
type AppendNoteRequest struct {
	Notes string `json:"notes"`
}

// EstimatedCompletionRequest payload. Accepts RFC 3339 or YYYY-MM-DD.
type EstimatedCompletionRequest struct {
	EstimatedCompletion string `json:"estimated_completion"`
}

// TicketResponse is the full ticket view.
type TicketResponse struct {
	ID                  string              `json:"id"`
	TicketNumber        string              `json:"ticket_number"`
	RequesterName       string              `json:"requester_name"`
	RequesterEmail      string              `json:"requester_email"`
	Location            string              `json:"location"`
	ProblemType         domain.ProblemType  `json:"problem_type"`
	Description         string              `json:"description"`
	Urgency             domain.Urgency      `json:"urgency"`
	Status              domain.TicketStatus `json:"status"`
	ImageURL            *string             `json:"image_url"`
	TechnicianID        *string             `json:"technician_id"`
	Notes               string              `json:"notes"`
	EstimatedCompletion *time.Time          `json:"estimated_completion"`
	CompletedAt         *time.Time          `json:"completed_at"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// TicketHistoryResponse is one audit entry.
type TicketHistoryResponse struct {
	ID          string               `json:"id"`
	TicketID    string               `json:"ticket_id"`
	Action      domain.HistoryAction `json:"action"`
	Description string               `json:"description"`
	PerformedBy string               `json:"performed_by"`
	CreatedAt   time.Time            `json:"created_at"`
}

// TicketStatsResponse counts tickets per status.
type TicketStatsResponse struct {
	Total          int `json:"total"`
	Open           int `json:"open"`
	InProgress     int `json:"in_progress"`
	Completed      int `json:"completed"`
	CompletionRate int `json:"completion_rate"`
}

// NewTicketResponse maps the domain ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:                  t.ID,
		TicketNumber:        t.TicketNumber,
		RequesterName:       t.RequesterName,
		RequesterEmail:      t.RequesterEmail,
		Location:            t.Location,
		ProblemType:         t.ProblemType,
		Description:         t.Description,
		Urgency:             t.Urgency,
		Status:              t.Status,
		ImageURL:            t.ImageURL,
		TechnicianID:        t.TechnicianID,
		Notes:               t.Notes,
		EstimatedCompletion: t.EstimatedCompletion,
		CompletedAt:         t.CompletedAt,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
}

// NewTicketResponses maps a list.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	items := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, NewTicketResponse(&tickets[i]))
	}
	return items
}

// NewTicketHistoryResponses maps the audit trail.
func NewTicketHistoryResponses(entries []domain.TicketHistory) []TicketHistoryResponse {
	items := make([]TicketHistoryResponse, 0, len(entries))
	for _, h := range entries {
		items = append(items, TicketHistoryResponse{
			ID:          h.ID,
			TicketID:    h.TicketID,
			Action:      h.Action,
			Description: h.Description,
			PerformedBy: h.PerformedBy,
			CreatedAt:   h.CreatedAt,
		})
	}
	return items
}

// NewTicketStatsResponse maps stats.
func NewTicketStatsResponse(s domain.TicketStats) TicketStatsResponse {
	return TicketStatsResponse(s)
}
