package domain

import "time"

// Technician is a staff member who can be made responsible for tickets.
// Deactivation is a soft delete; tickets keep resolving the reference.
type Technician struct {
	ID        string
	Name      string
	Email     *string
	Phone     *string
	Specialty *string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
