package personnel

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists staff members and their absences.
type Repository interface {
	Create(ctx context.Context, m *StaffMember) error
	GetByID(ctx context.Context, id uuid.UUID) (*StaffMember, error)
	Update(ctx context.Context, m *StaffMember) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, includeInactive bool, limit, offset int) ([]*StaffMember, int, error)
	ListByRole(ctx context.Context, role string, limit, offset int) ([]*StaffMember, int, error)

	AddAbsence(ctx context.Context, a *Absence) error
	DeleteAbsence(ctx context.Context, id uuid.UUID) error
	ListAbsences(ctx context.Context, staffID uuid.UUID) ([]*Absence, error)
}
