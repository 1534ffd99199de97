package inventory

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository persists products and their stock movements.
type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Product, int, error)
	ListLowStock(ctx context.Context, limit, offset int) ([]*Product, int, error)

	// AdjustStock atomically applies delta to quantity_in_stock and fails
	// if the result would be negative.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*Product, error)
	AddMovement(ctx context.Context, m *StockMovement) error
	GetMovements(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*StockMovement, int, error)
}

// SupplierRepository persists suppliers.
type SupplierRepository interface {
	Create(ctx context.Context, s *Supplier) error
	GetByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	Update(ctx context.Context, s *Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Supplier, int, error)
}
