package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/config"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/domain"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/events"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/mail"
	apperrors "github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/pkg/util/errorutil"
)

// NotificationService turns ticket events into emails. Delivery failures
// are logged and never propagate to the operation that raised the event.
type NotificationService struct {
	dispatcher events.Dispatcher
	composer   *mail.Composer
	sender     mail.Sender
	settings   *SettingsService
	logger     *zap.Logger
	cfg        config.NotificationConfig
	location   *time.Location
	now        func() time.Time
}

// NotificationDependencies bundles collaborators for the notification service.
type NotificationDependencies struct {
	Dispatcher events.Dispatcher
	Composer   *mail.Composer
	Sender     mail.Sender
	Settings   *SettingsService
	Logger     *zap.Logger
	Clock      func() time.Time
}

// TestEmailInput addresses the SMTP check message.
type TestEmailInput struct {
	To string `json:"to" validate:"omitempty,email"`
}

// NewNotificationService creates the service.
func NewNotificationService(cfg config.Config, deps NotificationDependencies) *NotificationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &NotificationService{
		dispatcher: deps.Dispatcher,
		composer:   deps.Composer,
		sender:     deps.Sender,
		settings:   deps.Settings,
		logger:     logger,
		cfg:        cfg.Notification,
		location:   cfg.App.Location(),
		now:        now,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
	n.dispatcher.Subscribe(events.EventTicketTechnicianAssigned, n.handleTechnicianAssigned)
	n.dispatcher.Subscribe(events.EventTicketNoteAdded, n.logEvent)
	n.dispatcher.Subscribe(events.EventTicketDeleted, n.logEvent)
	n.dispatcher.Subscribe(events.EventTicketRated, n.logEvent)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return nil
	}
	ticket := payload.Ticket

	if to := n.settings.NotificationEmail(ctx); to != "" {
		msg, err := n.composer.NewTicket(to, ticket)
		n.deliver(ctx, "new_ticket", ticket.TicketNumber, msg, err)
	} else {
		n.logger.Info("no notification address configured; staff alert skipped",
			zap.String("ticket_number", ticket.TicketNumber))
	}

	msg, err := n.composer.Confirmation(ticket)
	n.deliver(ctx, "confirmation", ticket.TicketNumber, msg, err)
	return nil
}

func (n *NotificationService) handleTicketStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return nil
	}
	ticket := payload.Ticket

	msg, err := n.composer.StatusChange(ticket, payload.Technician)
	n.deliver(ctx, "status_change", ticket.TicketNumber, msg, err)

	if payload.NewStatus == domain.TicketStatusFinalized && n.cfg.RatingRequestOnFinalize {
		msg, err := n.composer.RatingRequest(ticket)
		n.deliver(ctx, "rating_request", ticket.TicketNumber, msg, err)
	}
	return nil
}

func (n *NotificationService) handleTechnicianAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketTechnicianAssignedPayload)
	if !ok {
		return nil
	}
	if payload.Technician.Email == nil || strings.TrimSpace(*payload.Technician.Email) == "" {
		n.logger.Debug("technician has no email; assignment notice skipped",
			zap.String("technician_id", payload.Technician.ID))
		return nil
	}
	msg, err := n.composer.TechnicianAssigned(payload.Ticket, payload.Technician)
	n.deliver(ctx, "technician_assigned", payload.Ticket.TicketNumber, msg, err)
	return nil
}

func (n *NotificationService) logEvent(_ context.Context, event events.Event) error {
	n.logger.Debug("ticket event",
		zap.String("event_type", string(event.Type)),
		zap.String("ticket_id", event.TicketID),
		zap.String("actor", event.Actor))
	return nil
}

// SendTestEmail delivers the SMTP check message. An empty recipient falls
// back to the notification address.
func (n *NotificationService) SendTestEmail(ctx context.Context, input TestEmailInput) (string, error) {
	input.To = strings.TrimSpace(input.To)
	if err := validateStruct(input); err != nil {
		return "", err
	}
	to := input.To
	if to == "" {
		to = n.settings.NotificationEmail(ctx)
	}
	if to == "" {
		return "", fieldError("to", "is required when no notification email is configured")
	}
	msg, err := n.composer.Test(to, n.now().In(n.location))
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		if errors.Is(err, mail.ErrNotConfigured) {
			return "", apperrors.NewValidationError("smtp is not configured", map[string]any{"smtp": err.Error()})
		}
		return "", apperrors.NewInfrastructureError("smtp", err)
	}
	return to, nil
}

// deliver sends msg, logging the outcome.
func (n *NotificationService) deliver(ctx context.Context, kind, ticketNumber string, msg mail.Message, buildErr error) {
	fields := []zap.Field{zap.String("kind", kind), zap.String("ticket_number", ticketNumber)}
	if buildErr != nil {
		n.logger.Error("failed to compose email", append(fields, zap.Error(buildErr))...)
		return
	}
	if n.sender == nil {
		return
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		if errors.Is(err, mail.ErrNotConfigured) {
			n.logger.Info("smtp not configured; email skipped", fields...)
			return
		}
		n.logger.Error("failed to send email", append(fields, zap.String("to", msg.To), zap.Error(err))...)
		return
	}
	n.logger.Info("email sent", append(fields, zap.String("to", msg.To))...)
}
