package dto

import (
	"time"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/domain"
)

// CreateTechnicianRequest payload.
type CreateTechnicianRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Specialty string `json:"specialty"`
}

// UpdateTechnicianRequest payload; omitted fields stay unchanged.
type UpdateTechnicianRequest struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Specialty *string `json:"specialty"`
	Active    *bool   `json:"active"`
}

// TechnicianResponse view.
type TechnicianResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	Specialty *string   `json:"specialty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTechnicianResponse maps a technician.
func NewTechnicianResponse(t *domain.Technician) TechnicianResponse {
	return TechnicianResponse{
		ID:        t.ID,
		Name:      t.Name,
		Email:     t.Email,
		Phone:     t.Phone,
		Specialty: t.Specialty,
		Active:    t.Active,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// NewTechnicianResponses maps a list.
func NewTechnicianResponses(technicians []domain.Technician) []TechnicianResponse {
	items := make([]TechnicianResponse, 0, len(technicians))
	for i := range technicians {
		items = append(items, NewTechnicianResponse(&technicians[i]))
	}
	return items
}
