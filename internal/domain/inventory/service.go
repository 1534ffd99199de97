package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dentio/clinic/internal/platform/db"
)

type Service struct {
	products  ProductRepository
	suppliers SupplierRepository
	runTx     db.TxRunner
}

func NewService(products ProductRepository, suppliers SupplierRepository, runTx db.TxRunner) *Service {
	return &Service{products: products, suppliers: suppliers, runTx: runTx}
}

// -- Products --

func validateProduct(p *Product) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.QuantityInStock < 0 {
		return fmt.Errorf("quantity_in_stock must not be negative")
	}
	if p.ReorderThreshold < 0 {
		return fmt.Errorf("reorder_threshold must not be negative")
	}
	if p.UnitCost != nil && p.UnitCost.IsNegative() {
		return fmt.Errorf("unit_cost must not be negative")
	}
	return nil
}

func (s *Service) CreateProduct(ctx context.Context, p *Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	if p.SupplierID != nil {
		if _, err := s.suppliers.GetByID(ctx, *p.SupplierID); err != nil {
			return fmt.Errorf("supplier not found")
		}
	}
	return s.products.Create(ctx, p)
}

func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *Service) UpdateProduct(ctx context.Context, p *Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	if p.SupplierID != nil {
		if _, err := s.suppliers.GetByID(ctx, *p.SupplierID); err != nil {
			return fmt.Errorf("supplier not found")
		}
	}
	return s.products.Update(ctx, p)
}

func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.products.Delete(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, limit, offset int) ([]*Product, int, error) {
	return s.products.List(ctx, limit, offset)
}

func (s *Service) ListLowStock(ctx context.Context, limit, offset int) ([]*Product, int, error) {
	return s.products.ListLowStock(ctx, limit, offset)
}

// AdjustStock applies a delta to a product's stock and records the
// movement in the same transaction. Stock never goes below zero.
func (s *Service) AdjustStock(ctx context.Context, m *StockMovement) (*Product, error) {
	if m.ProductID == uuid.Nil {
		return nil, fmt.Errorf("product_id is required")
	}
	if m.Delta == 0 {
		return nil, fmt.Errorf("delta must not be zero")
	}

	var p *Product
	err := s.runTx(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.products.AdjustStock(ctx, m.ProductID, m.Delta)
		if err != nil {
			return err
		}
		return s.products.AddMovement(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) ListMovements(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*StockMovement, int, error) {
	return s.products.GetMovements(ctx, productID, limit, offset)
}

// -- Suppliers --

func (s *Service) CreateSupplier(ctx context.Context, sup *Supplier) error {
	sup.Name = strings.TrimSpace(sup.Name)
	if sup.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.suppliers.Create(ctx, sup)
}

func (s *Service) GetSupplier(ctx context.Context, id uuid.UUID) (*Supplier, error) {
	return s.suppliers.GetByID(ctx, id)
}

func (s *Service) UpdateSupplier(ctx context.Context, sup *Supplier) error {
	sup.Name = strings.TrimSpace(sup.Name)
	if sup.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.suppliers.Update(ctx, sup)
}

func (s *Service) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	return s.suppliers.Delete(ctx, id)
}

func (s *Service) ListSuppliers(ctx context.Context, limit, offset int) ([]*Supplier, int, error) {
	return s.suppliers.List(ctx, limit, offset)
}
