package dto

import (
	"time"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// StaffResponse is the signed-in operator.
type StaffResponse struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Email        string           `json:"email"`
	Role         domain.StaffRole `json:"role"`
	LastSignedIn *time.Time       `json:"last_signed_in"`
}

// LoginResponse carries the access token.
type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresAt   time.Time     `json:"expires_at"`
	Staff       StaffResponse `json:"staff"`
}

// NewStaffResponse maps a staff member.
func NewStaffResponse(s *domain.StaffMember) StaffResponse {
	return StaffResponse{
		ID:           s.ID,
		Name:         s.Name,
		Email:        s.Email,
		Role:         s.Role,
		LastSignedIn: s.LastSignedIn,
	}
}
