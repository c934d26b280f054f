package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/config"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/domain"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/events"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/repository"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/storage"
	apperrors "github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/pkg/util/errorutil"
)

const (
	noteTimestampLayout = "02/01/2006 15:04:05"
	displayDateLayout   = "02/01/2006"
	notePreviewLength   = 100
	numberRetryDelay    = 10 * time.Millisecond
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets        repository.TicketRepository
	history        repository.TicketHistoryRepository
	technicians    repository.TechnicianRepository
	objects        storage.ObjectStore
	numbers        *TicketNumberGenerator
	dispatcher     events.Dispatcher
	logger         *zap.Logger
	now            func() time.Time
	location       *time.Location
	maxAttempts    int
	maxImageBytes  int
	storageTimeout time.Duration
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	HistoryRepo    repository.TicketHistoryRepository
	TechnicianRepo repository.TechnicianRepository
	ObjectStore    storage.ObjectStore
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
	Clock          func() time.Time
}

// TicketCreateInput describes a ticket submission.
type TicketCreateInput struct {
	RequesterName  string `json:"requester_name" validate:"required,max=255"`
	RequesterEmail string `json:"requester_email" validate:"required,email,max=320"`
	Location       string `json:"location" validate:"required,max=255"`
	ProblemType    string `json:"problem_type" validate:"required,problem_type"`
	Description    string `json:"description" validate:"required,min=10"`
	Urgency        string `json:"urgency" validate:"required,urgency"`
	ImageData      string `json:"image_data"`
	ImageMimeType  string `json:"image_mime_type"`
}

// TicketSearchInput carries optional search filters.
type TicketSearchInput struct {
	Status      string `json:"status" validate:"omitempty,ticket_status"`
	ProblemType string `json:"problem_type" validate:"omitempty,problem_type"`
	Urgency     string `json:"urgency" validate:"omitempty,urgency"`
	Location    string `json:"location" validate:"max=255"`
	Search      string `json:"search" validate:"max=255"`
}

// NewTicketService constructs the service.
func NewTicketService(cfg config.Config, deps TicketDependencies) *TicketService {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxAttempts := cfg.Tickets.NumberMaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &TicketService{
		tickets:        deps.TicketRepo,
		history:        deps.HistoryRepo,
		technicians:    deps.TechnicianRepo,
		objects:        deps.ObjectStore,
		numbers:        NewTicketNumberGenerator(deps.TicketRepo, now),
		dispatcher:     deps.Dispatcher,
		logger:         logger,
		now:            now,
		location:       cfg.App.Location(),
		maxAttempts:    maxAttempts,
		maxImageBytes:  cfg.Tickets.MaxImageBytes,
		storageTimeout: cfg.Storage.Timeout(),
	}
}

// Create validates and persists a new ticket, storing its photo first.
func (s *TicketService) Create(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	input.RequesterName = strings.TrimSpace(input.RequesterName)
	input.RequesterEmail = strings.TrimSpace(input.RequesterEmail)
	input.Location = strings.TrimSpace(input.Location)
	input.Description = strings.TrimSpace(input.Description)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	var photo *decodedImage
	if strings.TrimSpace(input.ImageData) != "" {
		img, err := decodeImage(input.ImageData, input.ImageMimeType, s.maxImageBytes)
		if err != nil {
			return nil, err
		}
		photo = img
	}

	ticket := &domain.Ticket{
		RequesterName:  input.RequesterName,
		RequesterEmail: input.RequesterEmail,
		Location:       input.Location,
		ProblemType:    domain.ProblemType(input.ProblemType),
		Description:    input.Description,
		Urgency:        domain.Urgency(input.Urgency),
		Status:         domain.TicketStatusOpen,
	}

	var uploaded *storage.Object
	backoff := retry.WithMaxRetries(uint64(s.maxAttempts-1), retry.NewConstant(numberRetryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		number, err := s.numbers.Next(ctx)
		if err != nil {
			return err
		}
		ticket.TicketNumber = number

		if photo != nil {
			obj, err := s.storePhoto(ctx, number, photo)
			if err != nil {
				return err
			}
			if uploaded != nil {
				s.removePhoto(ctx, uploaded.Key)
			}
			uploaded = &obj
			ticket.ImageURL = &obj.URL
			ticket.ImageKey = &obj.Key
		}

		if err := s.tickets.Create(ctx, ticket); err != nil {
			if errors.Is(err, repository.ErrDuplicateTicketNumber) {
				s.logger.Warn("ticket number taken, retrying", zap.String("ticket_number", number))
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		if uploaded != nil {
			s.removePhoto(ctx, uploaded.Key)
		}
		if errors.Is(err, repository.ErrDuplicateTicketNumber) {
			return nil, apperrors.NewConflict("could not allocate a ticket number", map[string]any{"attempts": s.maxAttempts})
		}
		return nil, err
	}

	if err := s.recordHistory(ctx, ticket.ID, domain.HistoryActionCreated, "Chamado criado", ticket.RequesterName); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    ticket.RequesterName,
		Payload:  events.TicketCreatedPayload{Ticket: *ticket},
	})
	return ticket, nil
}

// List returns every ticket, newest first.
func (s *TicketService) List(ctx context.Context) ([]domain.Ticket, error) {
	return s.tickets.List(ctx, repository.TicketFilter{})
}

// Search applies the optional filters; no filters behaves like List.
func (s *TicketService) Search(ctx context.Context, input TicketSearchInput) ([]domain.Ticket, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	filter := repository.TicketFilter{
		Status:      domain.TicketStatus(input.Status),
		ProblemType: domain.ProblemType(input.ProblemType),
		Urgency:     domain.Urgency(input.Urgency),
		Location:    input.Location,
		SearchTerm:  input.Search,
	}
	if filter.IsEmpty() {
		return s.List(ctx)
	}
	return s.tickets.List(ctx, filter)
}

// GetByID loads a ticket.
func (s *TicketService) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "ticket", id)
	}
	return ticket, nil
}

// GetByNumber loads a ticket by its public number.
func (s *TicketService) GetByNumber(ctx context.Context, number string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByNumber(ctx, strings.TrimSpace(number))
	if err != nil {
		return nil, notFoundOr(err, "ticket", number)
	}
	return ticket, nil
}

// SetStatus moves the ticket through the lifecycle.
func (s *TicketService) SetStatus(ctx context.Context, id string, newStatus domain.TicketStatus, actor string) (*domain.Ticket, error) {
	if !newStatus.Valid() {
		return nil, fieldError("status", fmt.Sprintf("must be one of %v", domain.TicketStatuses))
	}
	ticket, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldStatus := ticket.Status
	if oldStatus == newStatus {
		return nil, apperrors.NewValidationError("ticket already has this status", map[string]any{"status": string(newStatus)})
	}
	if !domain.CanTransition(oldStatus, newStatus) {
		return nil, apperrors.NewValidationError("status transition not allowed", map[string]any{
			"from":    string(oldStatus),
			"to":      string(newStatus),
			"allowed": domain.AllowedTransitions(oldStatus),
		})
	}

	ticket.Status = newStatus
	if newStatus == domain.TicketStatusFinalized {
		now := s.now()
		ticket.CompletedAt = &now
	} else {
		ticket.CompletedAt = nil
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, notFoundOr(err, "ticket", id)
	}
	if err := s.recordHistory(ctx, ticket.ID, domain.HistoryActionStatusChanged,
		fmt.Sprintf("Status alterado para: %s", newStatus), actor); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload: events.TicketStatusChangedPayload{
			Ticket:     *ticket,
			OldStatus:  oldStatus,
			NewStatus:  newStatus,
			Technician: s.lookupTechnician(ctx, ticket.TechnicianID),
		},
	})
	return ticket, nil
}

// AssignTechnician makes an active technician responsible for the ticket.
func (s *TicketService) AssignTechnician(ctx context.Context, id, technicianID, actor string) (*domain.Ticket, error) {
	technicianID = strings.TrimSpace(technicianID)
	if technicianID == "" {
		return nil, fieldError("technician_id", "is required")
	}
	technician, err := s.technicians.GetByID(ctx, technicianID)
	if err != nil {
		return nil, notFoundOr(err, "technician", technicianID)
	}
	ticket, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !technician.Active {
		return nil, apperrors.NewConflict("technician is inactive", map[string]any{"technician_id": technicianID})
	}

	ticket.TechnicianID = &technician.ID
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, notFoundOr(err, "ticket", id)
	}
	if err := s.recordHistory(ctx, ticket.ID, domain.HistoryActionTechnicianAssigned,
		fmt.Sprintf("Responsável designado: %s", technician.Name), actor); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketTechnicianAssigned,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload: events.TicketTechnicianAssignedPayload{
			Ticket:     *ticket,
			Technician: *technician,
		},
	})
	return ticket, nil
}

// AppendNote adds a timestamped, attributed block to the ticket notes.
func (s *TicketService) AppendNote(ctx context.Context, id, text, actor string) (*domain.Ticket, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fieldError("notes", "is required")
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	block := fmt.Sprintf("[%s] %s:\n%s", s.now().In(s.location).Format(noteTimestampLayout), actor, text)
	if err := s.tickets.AppendNotes(ctx, id, block); err != nil {
		return nil, notFoundOr(err, "ticket", id)
	}
	preview := stringPreview(text, notePreviewLength)
	if err := s.recordHistory(ctx, id, domain.HistoryActionNoteAdded,
		fmt.Sprintf("Observação adicionada: %s", preview), actor); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketNoteAdded,
		TicketID: id,
		Actor:    actor,
		Payload:  events.TicketNoteAddedPayload{Preview: preview},
	})
	return s.GetByID(ctx, id)
}

// SetEstimatedCompletion records the expected completion date.
func (s *TicketService) SetEstimatedCompletion(ctx context.Context, id string, at time.Time, actor string) (*domain.Ticket, error) {
	if at.IsZero() {
		return nil, fieldError("estimated_completion", "is required")
	}
	ticket, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ticket.EstimatedCompletion = &at
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, notFoundOr(err, "ticket", id)
	}
	if err := s.recordHistory(ctx, ticket.ID, domain.HistoryActionEstimatedCompletionSet,
		fmt.Sprintf("Previsão de conclusão definida para: %s", at.In(s.location).Format(displayDateLayout)), actor); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Delete removes the ticket with its history and rating, then its photo.
func (s *TicketService) Delete(ctx context.Context, id, actor string) error {
	ticket, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.tickets.Delete(ctx, id); err != nil {
		return notFoundOr(err, "ticket", id)
	}
	if ticket.ImageKey != nil {
		s.removePhoto(ctx, *ticket.ImageKey)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: id,
		Actor:    actor,
		Payload:  events.TicketDeletedPayload{TicketNumber: ticket.TicketNumber, ImageKey: ticket.ImageKey},
	})
	return nil
}

// History returns the ticket's audit trail, newest first.
func (s *TicketService) History(ctx context.Context, id string) ([]domain.TicketHistory, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.history.ListByTicket(ctx, id)
}

// Stats counts tickets per status.
func (s *TicketService) Stats(ctx context.Context) (domain.TicketStats, error) {
	counts, err := s.tickets.CountByStatus(ctx)
	if err != nil {
		return domain.TicketStats{}, err
	}
	stats := domain.TicketStats{
		Open:       counts[domain.TicketStatusOpen],
		InProgress: counts[domain.TicketStatusInProgress],
		Completed:  counts[domain.TicketStatusFinalized],
	}
	for _, n := range counts {
		stats.Total += n
	}
	if stats.Total > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.Completed) * 100 / float64(stats.Total)))
	}
	return stats, nil
}

func (s *TicketService) storePhoto(ctx context.Context, number string, img *decodedImage) (storage.Object, error) {
	if s.objects == nil {
		return storage.Object{}, apperrors.NewInfrastructureError("object storage", errors.New("not configured"))
	}
	if s.storageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.storageTimeout)
		defer cancel()
	}
	key := fmt.Sprintf("tickets/%s-%d%s", number, s.now().UnixMilli(), img.ext)
	obj, err := s.objects.Put(ctx, key, img.data, img.mediaType)
	if err != nil {
		return storage.Object{}, apperrors.NewInfrastructureError("object storage", err)
	}
	return obj, nil
}

func (s *TicketService) removePhoto(ctx context.Context, key string) {
	if s.objects == nil {
		return
	}
	if err := s.objects.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to remove ticket photo", zap.String("key", key), zap.Error(err))
	}
}

func (s *TicketService) lookupTechnician(ctx context.Context, id *string) *domain.Technician {
	if id == nil || s.technicians == nil {
		return nil
	}
	technician, err := s.technicians.GetByID(ctx, *id)
	if err != nil {
		s.logger.Warn("failed to resolve technician", zap.String("technician_id", *id), zap.Error(err))
		return nil
	}
	return technician
}

func (s *TicketService) recordHistory(ctx context.Context, ticketID string, action domain.HistoryAction, description, actor string) error {
	if s.history == nil {
		return nil
	}
	entry := &domain.TicketHistory{
		TicketID:    ticketID,
		Action:      action,
		Description: description,
		PerformedBy: actor,
	}
	if err := s.history.Create(ctx, entry); err != nil {
		return fmt.Errorf("record %s history: %w", action, err)
	}
	return nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed",
			zap.String("event_type", string(event.Type)),
			zap.String("ticket_id", event.TicketID),
			zap.Error(err))
	}
}

func notFoundOr(err error, resource, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	}
	return err
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	return string(runes[:max]) + "..."
}
