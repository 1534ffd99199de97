package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product maps to the product table.
type Product struct {
	ID               uuid.UUID        `db:"id" json:"id"`
	Name             string           `db:"name" json:"name"`
	Reference        *string          `db:"reference" json:"reference,omitempty"`
	SupplierID       *uuid.UUID       `db:"supplier_id" json:"supplier_id,omitempty"`
	Unit             *string          `db:"unit" json:"unit,omitempty"`
	UnitCost         *decimal.Decimal `db:"unit_cost" json:"unit_cost,omitempty"`
	QuantityInStock  int              `db:"quantity_in_stock" json:"quantity_in_stock"`
	ReorderThreshold int              `db:"reorder_threshold" json:"reorder_threshold"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
}

// LowStock reports whether the product is at or below its reorder threshold.
func (p *Product) LowStock() bool {
	return p.QuantityInStock <= p.ReorderThreshold
}

// Supplier maps to the supplier table.
type Supplier struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	ContactName *string   `db:"contact_name" json:"contact_name,omitempty"`
	Phone       *string   `db:"phone" json:"phone,omitempty"`
	Email       *string   `db:"email" json:"email,omitempty"`
	Address     *string   `db:"address" json:"address,omitempty"`
	Note        *string   `db:"note" json:"note,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// StockMovement maps to the stock_movement table. Delta is positive for
// receipts and negative for usage.
type StockMovement struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ProductID uuid.UUID `db:"product_id" json:"product_id"`
	Delta     int       `db:"delta" json:"delta"`
	Reason    *string   `db:"reason" json:"reason,omitempty"`
	CreatedBy *string   `db:"created_by" json:"created_by,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
