package caresheet

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists care sheets and their acts.
type Repository interface {
	Create(ctx context.Context, cs *CareSheet) error
	GetByID(ctx context.Context, id uuid.UUID) (*CareSheet, error)
	GetByNumber(ctx context.Context, number string) (*CareSheet, error)
	Update(ctx context.Context, cs *CareSheet) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*CareSheet, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*CareSheet, int, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*CareSheet, int, error)

	AddAct(ctx context.Context, act *Act) error
	GetActs(ctx context.Context, careSheetID uuid.UUID) ([]*Act, error)
	DeleteActs(ctx context.Context, careSheetID uuid.UUID) error
}
