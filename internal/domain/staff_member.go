package domain

import "time"

// StaffRole enumerates internal operator roles.
type StaffRole string

const (
	StaffRoleStaff StaffRole = "staff"
	StaffRoleAdmin StaffRole = "admin"
)

// StaffMember is an authenticated operator of the admin board.
type StaffMember struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         StaffRole
	Active       bool
	LastSignedIn *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName is the name recorded as performer in ticket history.
func (s *StaffMember) DisplayName() string {
	if s == nil {
		return "Administrador"
	}
	if s.Name != "" {
		return s.Name
	}
	if s.Email != "" {
		return s.Email
	}
	return "Administrador"
}
