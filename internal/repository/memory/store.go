// Package memory holds process-local implementations of the repository
// interfaces. It backs the service when no database is configured and
// doubles as the fake in service tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/domain"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/repository"
)

// Store keeps every table in maps guarded by a single lock, which gives
// the same uniqueness and cascade guarantees the SQL schema enforces.
type Store struct {
	mu          sync.RWMutex
	now         func() time.Time
	tickets     map[string]domain.Ticket
	history     map[string][]domain.TicketHistory
	technicians map[string]domain.Technician
	ratings     map[string]domain.Rating
	settings    map[string]domain.Setting
	staff       map[string]domain.StaffMember
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		now:         time.Now,
		tickets:     make(map[string]domain.Ticket),
		history:     make(map[string][]domain.TicketHistory),
		technicians: make(map[string]domain.Technician),
		ratings:     make(map[string]domain.Rating),
		settings:    make(map[string]domain.Setting),
		staff:       make(map[string]domain.StaffMember),
	}
}

// WithClock overrides the timestamp source.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Tickets() repository.TicketRepository { return ticketRepo{s} }
func (s *Store) History() repository.TicketHistoryRepository { return historyRepo{s} }
func (s *Store) Technicians() repository.TechnicianRepository { return technicianRepo{s} }
func (s *Store) Ratings() repository.RatingRepository { return ratingRepo{s} }
func (s *Store) Settings() repository.SettingRepository { return settingRepo{s} }
func (s *Store) Staff() repository.StaffRepository { return staffRepo{s} }

func newID() string {
	return uuid.NewString()
}

type ticketRepo struct{ s *Store }

func (r ticketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.tickets {
		if existing.TicketNumber == ticket.TicketNumber {
			return repository.ErrDuplicateTicketNumber
		}
	}
	now := r.s.now()
	ticket.ID = newID()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	r.s.tickets[ticket.ID] = cloneTicket(*ticket)
	return nil
}

func (r ticketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.tickets[ticket.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Status = ticket.Status
	stored.TechnicianID = cloneString(ticket.TechnicianID)
	stored.EstimatedCompletion = cloneTime(ticket.EstimatedCompletion)
	stored.CompletedAt = cloneTime(ticket.CompletedAt)
	stored.ImageURL = cloneString(ticket.ImageURL)
	stored.ImageKey = cloneString(ticket.ImageKey)
	stored.UpdatedAt = r.s.now()
	ticket.UpdatedAt = stored.UpdatedAt
	r.s.tickets[ticket.ID] = stored
	return nil
}

func (r ticketRepo) AppendNotes(_ context.Context, id, block string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if stored.Notes == "" {
		stored.Notes = block
	} else {
		stored.Notes += "\n\n" + block
	}
	stored.UpdatedAt = r.s.now()
	r.s.tickets[id] = stored
	return nil
}

func (r ticketRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.tickets, id)
	delete(r.s.history, id)
	for ratingID, rating := range r.s.ratings {
		if rating.TicketID == id {
			delete(r.s.ratings, ratingID)
		}
	}
	return nil
}

func (r ticketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stored, ok := r.s.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	ticket := cloneTicket(stored)
	return &ticket, nil
}

func (r ticketRepo) GetByNumber(_ context.Context, number string) (*domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, stored := range r.s.tickets {
		if stored.TicketNumber == number {
			ticket := cloneTicket(stored)
			return &ticket, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r ticketRepo) LastNumberWithPrefix(_ context.Context, prefix string) (string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	last := ""
	for _, stored := range r.s.tickets {
		if !strings.HasPrefix(stored.TicketNumber, prefix) {
			continue
		}
		if len(stored.TicketNumber) > len(last) ||
			(len(stored.TicketNumber) == len(last) && stored.TicketNumber > last) {
			last = stored.TicketNumber
		}
	}
	return last, nil
}

func (r ticketRepo) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	location := strings.ToLower(strings.TrimSpace(filter.Location))
	search := strings.ToLower(strings.TrimSpace(filter.SearchTerm))

	result := []domain.Ticket{}
	for _, stored := range r.s.tickets {
		if filter.Status != "" && stored.Status != filter.Status {
			continue
		}
		if filter.ProblemType != "" && stored.ProblemType != filter.ProblemType {
			continue
		}
		if filter.Urgency != "" && stored.Urgency != filter.Urgency {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(stored.Location), location) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(stored.TicketNumber), search) &&
			!strings.Contains(strings.ToLower(stored.RequesterName), search) &&
			!strings.Contains(strings.ToLower(stored.Description), search) {
			continue
		}
		result = append(result, cloneTicket(stored))
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].TicketNumber > result[j].TicketNumber
	})

	if filter.Limit > 0 {
		offset := filter.Offset
		if offset < 0 {
			offset = 0
		}
		if offset >= len(result) {
			return []domain.Ticket{}, nil
		}
		end := offset + filter.Limit
		if end > len(result) {
			end = len(result)
		}
		result = result[offset:end]
	}
	return result, nil
}

func (r ticketRepo) CountByStatus(_ context.Context) (map[domain.TicketStatus]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := make(map[domain.TicketStatus]int, len(domain.TicketStatuses))
	for _, stored := range r.s.tickets {
		counts[stored.Status]++
	}
	return counts, nil
}

type historyRepo struct{ s *Store }

func (r historyRepo) Create(_ context.Context, entry *domain.TicketHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tickets[entry.TicketID]; !ok {
		return pgx.ErrNoRows
	}
	entry.ID = newID()
	entry.CreatedAt = r.s.now()
	r.s.history[entry.TicketID] = append(r.s.history[entry.TicketID], *entry)
	return nil
}

// ListByTicket returns entries newest first; entries sharing a timestamp
// keep reverse insertion order.
func (r historyRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketHistory, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	entries := r.s.history[ticketID]
	result := make([]domain.TicketHistory, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		result = append(result, entries[i])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

type technicianRepo struct{ s *Store }

func (r technicianRepo) Create(_ context.Context, technician *domain.Technician) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	technician.ID = newID()
	technician.CreatedAt = now
	technician.UpdatedAt = now
	r.s.technicians[technician.ID] = *technician
	return nil
}

func (r technicianRepo) Update(_ context.Context, technician *domain.Technician) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.technicians[technician.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	technician.CreatedAt = stored.CreatedAt
	technician.UpdatedAt = r.s.now()
	r.s.technicians[technician.ID] = *technician
	return nil
}

func (r technicianRepo) GetByID(_ context.Context, id string) (*domain.Technician, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stored, ok := r.s.technicians[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &stored, nil
}

func (r technicianRepo) ListActive(_ context.Context) ([]domain.Technician, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := []domain.Technician{}
	for _, stored := range r.s.technicians {
		if stored.Active {
			result = append(result, stored)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r technicianRepo) Deactivate(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.technicians[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Active = false
	stored.UpdatedAt = r.s.now()
	r.s.technicians[id] = stored
	return nil
}

type ratingRepo struct{ s *Store }

func (r ratingRepo) Create(_ context.Context, rating *domain.Rating) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tickets[rating.TicketID]; !ok {
		return pgx.ErrNoRows
	}
	for _, existing := range r.s.ratings {
		if existing.TicketID == rating.TicketID {
			return repository.ErrDuplicateRating
		}
	}
	rating.ID = newID()
	rating.CreatedAt = r.s.now()
	r.s.ratings[rating.ID] = *rating
	return nil
}

func (r ratingRepo) GetByTicket(_ context.Context, ticketID string) (*domain.Rating, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, stored := range r.s.ratings {
		if stored.TicketID == ticketID {
			rating := stored
			return &rating, nil
		}
	}
	return nil, nil
}

func (r ratingRepo) List(_ context.Context) ([]domain.Rating, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]domain.Rating, 0, len(r.s.ratings))
	for _, stored := range r.s.ratings {
		result = append(result, stored)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

type settingRepo struct{ s *Store }

func (r settingRepo) Get(_ context.Context, key string) (*domain.Setting, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stored, ok := r.s.settings[key]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &stored, nil
}

func (r settingRepo) Upsert(_ context.Context, setting *domain.Setting) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if stored, ok := r.s.settings[setting.Key]; ok {
		setting.ID = stored.ID
	} else {
		setting.ID = newID()
	}
	setting.UpdatedAt = r.s.now()
	r.s.settings[setting.Key] = *setting
	return nil
}

func (r settingRepo) List(_ context.Context) ([]domain.Setting, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]domain.Setting, 0, len(r.s.settings))
	for _, stored := range r.s.settings {
		result = append(result, stored)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result, nil
}

type staffRepo struct{ s *Store }

func (r staffRepo) Create(_ context.Context, staff *domain.StaffMember) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	staff.Email = strings.ToLower(staff.Email)
	for _, existing := range r.s.staff {
		if existing.Email == staff.Email {
			return repository.ErrDuplicateEmail
		}
	}
	now := r.s.now()
	staff.ID = newID()
	staff.CreatedAt = now
	staff.UpdatedAt = now
	r.s.staff[staff.ID] = *staff
	return nil
}

func (r staffRepo) GetByID(_ context.Context, id string) (*domain.StaffMember, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stored, ok := r.s.staff[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &stored, nil
}

func (r staffRepo) GetByEmail(_ context.Context, email string) (*domain.StaffMember, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	email = strings.ToLower(email)
	for _, stored := range r.s.staff {
		if stored.Email == email {
			member := stored
			return &member, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r staffRepo) TouchLastSignedIn(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.staff[id]
	if !ok {
		return pgx.ErrNoRows
	}
	now := r.s.now()
	stored.LastSignedIn = &now
	r.s.staff[id] = stored
	return nil
}

func cloneTicket(t domain.Ticket) domain.Ticket {
	t.ImageURL = cloneString(t.ImageURL)
	t.ImageKey = cloneString(t.ImageKey)
	t.TechnicianID = cloneString(t.TechnicianID)
	t.EstimatedCompletion = cloneTime(t.EstimatedCompletion)
	t.CompletedAt = cloneTime(t.CompletedAt)
	return t
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
