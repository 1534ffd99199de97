package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository persists appointments.
type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Appointment, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ListByPractitioner(ctx context.Context, practitionerID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ListByRange(ctx context.Context, from, to time.Time, limit, offset int) ([]*Appointment, int, error)

	// CountOverlapping counts active appointments for the practitioner that
	// overlap [startsAt, endsAt), excluding the given appointment id.
	CountOverlapping(ctx context.Context, practitionerID uuid.UUID, startsAt, endsAt time.Time, exclude uuid.UUID) (int, error)

	// ListDueForReminder returns active appointments starting within
	// (now, until] that have not been reminded yet.
	ListDueForReminder(ctx context.Context, now, until time.Time) ([]*Appointment, error)
	MarkReminded(ctx context.Context, id uuid.UUID, at time.Time) error
	// ClearReminded resets the marker so a rescheduled appointment is
	// reminded again for its new slot.
	ClearReminded(ctx context.Context, id uuid.UUID) error
}
