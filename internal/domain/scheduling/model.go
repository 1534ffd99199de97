package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

// Appointment maps to the appointment table.
type Appointment struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	PatientID      uuid.UUID  `db:"patient_id" json:"patient_id"`
	PractitionerID uuid.UUID  `db:"practitioner_id" json:"practitioner_id"`
	Status         string     `db:"status" json:"status"`
	StartsAt       time.Time  `db:"starts_at" json:"starts_at"`
	EndsAt         time.Time  `db:"ends_at" json:"ends_at"`
	Reason         *string    `db:"reason" json:"reason,omitempty"`
	Note           *string    `db:"note" json:"note,omitempty"`
	// RemindedAt is set once a reminder notification has been created for
	// this appointment, so a restart never sends the same reminder twice.
	RemindedAt *time.Time `db:"reminded_at" json:"reminded_at,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}
