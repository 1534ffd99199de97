package prescription

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists prescriptions and their items.
type Repository interface {
	Create(ctx context.Context, p *Prescription) error
	GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error)
	GetByNumber(ctx context.Context, number string) (*Prescription, error)
	Update(ctx context.Context, p *Prescription) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Prescription, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Prescription, int, error)

	AddItem(ctx context.Context, item *Item) error
	GetItems(ctx context.Context, prescriptionID uuid.UUID) ([]*Item, error)
	DeleteItems(ctx context.Context, prescriptionID uuid.UUID) error
}
