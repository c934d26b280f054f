package service

import (
	"context"
	"strings"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/domain"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/repository"
)

// TechnicianService manages the people tickets can be assigned to.
type TechnicianService struct {
	technicians repository.TechnicianRepository
}

// TechnicianInput creates a technician.
type TechnicianInput struct {
	Name      string `json:"name" validate:"required,max=255"`
	Email     string `json:"email" validate:"omitempty,email,max=320"`
	Phone     string `json:"phone" validate:"max=50"`
	Specialty string `json:"specialty" validate:"max=100"`
}

// TechnicianUpdateInput changes only the fields that are set.
type TechnicianUpdateInput struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email     *string `json:"email" validate:"omitempty,email,max=320"`
	Phone     *string `json:"phone" validate:"omitempty,max=50"`
	Specialty *string `json:"specialty" validate:"omitempty,max=100"`
	Active    *bool   `json:"active"`
}

// NewTechnicianService builds the service.
func NewTechnicianService(technicians repository.TechnicianRepository) *TechnicianService {
	return &TechnicianService{technicians: technicians}
}

// List returns active technicians ordered by name.
func (s *TechnicianService) List(ctx context.Context) ([]domain.Technician, error) {
	return s.technicians.ListActive(ctx)
}

// Get resolves a technician, including deactivated ones.
func (s *TechnicianService) Get(ctx context.Context, id string) (*domain.Technician, error) {
	technician, err := s.technicians.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "technician", id)
	}
	return technician, nil
}

// Create registers an active technician.
func (s *TechnicianService) Create(ctx context.Context, input TechnicianInput) (*domain.Technician, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	technician := &domain.Technician{
		Name:      input.Name,
		Email:     optionalString(input.Email),
		Phone:     optionalString(input.Phone),
		Specialty: optionalString(input.Specialty),
		Active:    true,
	}
	if err := s.technicians.Create(ctx, technician); err != nil {
		return nil, err
	}
	return technician, nil
}

// Update applies a partial change.
func (s *TechnicianService) Update(ctx context.Context, id string, input TechnicianUpdateInput) (*domain.Technician, error) {
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		input.Name = &trimmed
	}
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	technician, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		technician.Name = *input.Name
	}
	if input.Email != nil {
		technician.Email = optionalString(*input.Email)
	}
	if input.Phone != nil {
		technician.Phone = optionalString(*input.Phone)
	}
	if input.Specialty != nil {
		technician.Specialty = optionalString(*input.Specialty)
	}
	if input.Active != nil {
		technician.Active = *input.Active
	}
	if err := s.technicians.Update(ctx, technician); err != nil {
		return nil, notFoundOr(err, "technician", id)
	}
	return technician, nil
}

// Deactivate soft-deletes a technician.
func (s *TechnicianService) Deactivate(ctx context.Context, id string) error {
	if err := s.technicians.Deactivate(ctx, id); err != nil {
		return notFoundOr(err, "technician", id)
	}
	return nil
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
