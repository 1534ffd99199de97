package personnel

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Roles a staff member can hold. These mirror the roles the auth layer
// grants, so a staff record can be linked to a login account.
const (
	RoleDentist      = "dentist"
	RoleAssistant    = "assistant"
	RoleReceptionist = "receptionist"
	RoleAdmin        = "admin"
)

// StaffMember is an employee of the clinic.
type StaffMember struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	FirstName string           `json:"first_name" db:"first_name"`
	LastName  string           `json:"last_name" db:"last_name"`
	Role      string           `json:"role" db:"role"`
	Specialty *string          `json:"specialty,omitempty" db:"specialty"`
	Phone     *string          `json:"phone,omitempty" db:"phone"`
	Email     *string          `json:"email,omitempty" db:"email"`
	HiredAt   *time.Time       `json:"hired_at,omitempty" db:"hired_at"`
	Salary    *decimal.Decimal `json:"salary,omitempty" db:"salary"`
	Active    bool             `json:"active" db:"active"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" db:"updated_at"`
}

// Absence is a planned leave period for a staff member.
type Absence struct {
	ID        uuid.UUID `json:"id" db:"id"`
	StaffID   uuid.UUID `json:"staff_id" db:"staff_id"`
	StartsOn  time.Time `json:"starts_on" db:"starts_on"`
	EndsOn    time.Time `json:"ends_on" db:"ends_on"`
	Reason    *string   `json:"reason,omitempty" db:"reason"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
