package patient

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists patients and their document metadata.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, includeArchived bool, limit, offset int) ([]*Patient, int, error)
	// Search matches the query against first name, last name, phone and
	// email, case-insensitively.
	Search(ctx context.Context, query string, limit, offset int) ([]*Patient, int, error)

	AddDocument(ctx context.Context, d *Document) error
	GetDocument(ctx context.Context, id uuid.UUID) (*Document, error)
	ListDocuments(ctx context.Context, patientID uuid.UUID) ([]*Document, error)
	DeleteDocument(ctx context.Context, id uuid.UUID) error
}
