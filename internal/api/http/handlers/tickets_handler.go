package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/api/dto"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/domain"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/service"
	apperrors "github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/pkg/util/errorutil"
)

// TicketsHandler serves the public submission form and the staff board.
type TicketsHandler struct {
	service  *service.TicketService
	location *time.Location
}

// NewTicketsHandler constructs handler. Date-only inputs are read in loc.
func NewTicketsHandler(ticketService *service.TicketService, loc *time.Location) *TicketsHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &TicketsHandler{service: ticketService, location: loc}
}

// CreateTicket POST /api/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.Create(c.UserContext(), service.TicketCreateInput{
		RequesterName:  req.RequesterName,
		RequesterEmail: req.RequesterEmail,
		Location:       req.Location,
		ProblemType:    req.ProblemType,
		Description:    req.Description,
		Urgency:        req.Urgency,
		ImageData:      req.ImageData,
		ImageMimeType:  req.ImageMimeType,
	})
	if err != nil {
		return err
	}
	return created(c, dto.CreateTicketResponse{ID: ticket.ID, TicketNumber: ticket.TicketNumber})
}

// ListTickets GET /api/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	tickets, err := h.service.Search(c.UserContext(), service.TicketSearchInput{
		Status:      strings.TrimSpace(c.Query("status")),
		ProblemType: strings.TrimSpace(c.Query("problem_type")),
		Urgency:     strings.TrimSpace(c.Query("urgency")),
		Location:    c.Query("location"),
		Search:      c.Query("search"),
	})
	if err != nil {
		return err
	}
	return data(c, dto.NewTicketResponses(tickets))
}

// Stats GET /api/tickets/stats.
func (h *TicketsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return data(c, dto.NewTicketStatsResponse(stats))
}

// GetTicket GET /api/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, dto.NewTicketResponse(ticket))
}

// GetTicketByNumber GET /api/tickets/number/:number.
func (h *TicketsHandler) GetTicketByNumber(c *fiber.Ctx) error {
	ticket, err := h.service.GetByNumber(c.UserContext(), c.Params("number"))
	if err != nil {
		return err
	}
	return data(c, dto.NewTicketResponse(ticket))
}

// History GET /api/tickets/:id/history.
func (h *TicketsHandler) History(c *fiber.Ctx) error {
	history, err := h.service.History(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, dto.NewTicketHistoryResponses(history))
}

// UpdateStatus PATCH /api/tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.SetStatus(c.UserContext(), c.Params("id"), domain.TicketStatus(strings.TrimSpace(req.Status)), actorName(c))
	if err != nil {
		return err
	}
	return data(c, dto.NewTicketResponse(ticket))
}

// AssignTechnician PATCH /api/tickets/:id/technician.
func (h *TicketsHandler) AssignTechnician(c *fiber.Ctx) error {
	var req dto.AssignTechnicianRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.AssignTechnician(c.UserContext(), c.Params("id"), req.TechnicianID, actorName(c))
	if err != nil {
		return err
	}
	return data(c, dto.NewTicketResponse(ticket))
}

// AppendNote POST /api/tickets/:id/notes.
func (h *TicketsHandler) AppendNote(c *fiber.Ctx) error {
	var req dto.AppendNoteRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.AppendNote(c.UserContext(), c.Params("id"), req.Notes, actorName(c))
	if err != nil {
		return err
	}
	return data(c, dto.NewTicketResponse(ticket))
}

// SetEstimatedCompletion PATCH /api/tickets/:id/estimated-completion.
func (h *TicketsHandler) SetEstimatedCompletion(c *fiber.Ctx) error {
	var req dto.EstimatedCompletionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	at, err := h.parseDate(req.EstimatedCompletion)
	if err != nil {
		return err
	}
	ticket, err := h.service.SetEstimatedCompletion(c.UserContext(), c.Params("id"), at, actorName(c))
	if err != nil {
		return err
	}
	return data(c, dto.NewTicketResponse(ticket))
}

// DeleteTicket DELETE /api/tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id"), actorName(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *TicketsHandler) parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, apperrors.NewValidationError("validation failed", map[string]any{"estimated_completion": "is required"})
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, h.location); err == nil {
		return t, nil
	}
	return time.Time{}, apperrors.NewValidationError("validation failed", map[string]any{
		"estimated_completion": "must be RFC 3339 or YYYY-MM-DD",
	})
}
