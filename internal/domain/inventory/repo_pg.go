package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dentio/clinic/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// =========== Product Repository ===========

type productRepoPG struct{ pool *pgxpool.Pool }

func NewProductRepoPG(pool *pgxpool.Pool) ProductRepository { return &productRepoPG{pool: pool} }

func (r *productRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const productCols = `id, name, reference, supplier_id, unit, unit_cost,
	quantity_in_stock, reorder_threshold, created_at, updated_at`

func (r *productRepoPG) scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Reference, &p.SupplierID, &p.Unit, &p.UnitCost,
		&p.QuantityInStock, &p.ReorderThreshold, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *productRepoPG) Create(ctx context.Context, p *Product) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO product (id, name, reference, supplier_id, unit, unit_cost, quantity_in_stock, reorder_threshold)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		p.ID, p.Name, p.Reference, p.SupplierID, p.Unit, p.UnitCost, p.QuantityInStock, p.ReorderThreshold)
	return err
}

func (r *productRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	return r.scanProduct(r.conn(ctx).QueryRow(ctx, `SELECT `+productCols+` FROM product WHERE id = $1`, id))
}

func (r *productRepoPG) Update(ctx context.Context, p *Product) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE product SET name=$2, reference=$3, supplier_id=$4, unit=$5, unit_cost=$6,
			reorder_threshold=$7, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.Reference, p.SupplierID, p.Unit, p.UnitCost, p.ReorderThreshold)
	return err
}

func (r *productRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM product WHERE id = $1`, id)
	return err
}

func (r *productRepoPG) collect(rows pgx.Rows) ([]*Product, error) {
	defer rows.Close()
	var items []*Product
	for rows.Next() {
		p, err := r.scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, nil
}

func (r *productRepoPG) List(ctx context.Context, limit, offset int) ([]*Product, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM product`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+productCols+` FROM product ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := r.collect(rows)
	return items, total, err
}

func (r *productRepoPG) ListLowStock(ctx context.Context, limit, offset int) ([]*Product, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM product WHERE quantity_in_stock <= reorder_threshold`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+productCols+` FROM product
		WHERE quantity_in_stock <= reorder_threshold
		ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := r.collect(rows)
	return items, total, err
}

// AdjustStock applies delta in a single UPDATE guarded against going
// negative, so two concurrent consumers cannot drive stock below zero.
func (r *productRepoPG) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*Product, error) {
	row := r.conn(ctx).QueryRow(ctx, `
		UPDATE product SET quantity_in_stock = quantity_in_stock + $2, updated_at = NOW()
		WHERE id = $1 AND quantity_in_stock + $2 >= 0
		RETURNING `+productCols, id, delta)
	p, err := r.scanProduct(row)
	if err == pgx.ErrNoRows {
		// Either the product does not exist or the adjustment would go
		// below zero; look it up to say which.
		if _, gerr := r.GetByID(ctx, id); gerr != nil {
			return nil, gerr
		}
		return nil, fmt.Errorf("insufficient stock")
	}
	return p, err
}

func (r *productRepoPG) AddMovement(ctx context.Context, m *StockMovement) error {
	m.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO stock_movement (id, product_id, delta, reason, created_by)
		VALUES ($1,$2,$3,$4,$5)`,
		m.ID, m.ProductID, m.Delta, m.Reason, m.CreatedBy)
	return err
}

func (r *productRepoPG) GetMovements(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*StockMovement, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM stock_movement WHERE product_id = $1`, productID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, product_id, delta, reason, created_by, created_at
		FROM stock_movement WHERE product_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, productID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*StockMovement
	for rows.Next() {
		var m StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Delta, &m.Reason, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &m)
	}
	return items, total, nil
}

// =========== Supplier Repository ===========

type supplierRepoPG struct{ pool *pgxpool.Pool }

func NewSupplierRepoPG(pool *pgxpool.Pool) SupplierRepository { return &supplierRepoPG{pool: pool} }

func (r *supplierRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const supplierCols = `id, name, contact_name, phone, email, address, note, created_at, updated_at`

func (r *supplierRepoPG) scanSupplier(row pgx.Row) (*Supplier, error) {
	var s Supplier
	err := row.Scan(&s.ID, &s.Name, &s.ContactName, &s.Phone, &s.Email, &s.Address, &s.Note,
		&s.CreatedAt, &s.UpdatedAt)
	return &s, err
}

func (r *supplierRepoPG) Create(ctx context.Context, s *Supplier) error {
	s.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO supplier (id, name, contact_name, phone, email, address, note)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		s.ID, s.Name, s.ContactName, s.Phone, s.Email, s.Address, s.Note)
	return err
}

func (r *supplierRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Supplier, error) {
	return r.scanSupplier(r.conn(ctx).QueryRow(ctx, `SELECT `+supplierCols+` FROM supplier WHERE id = $1`, id))
}

func (r *supplierRepoPG) Update(ctx context.Context, s *Supplier) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE supplier SET name=$2, contact_name=$3, phone=$4, email=$5, address=$6, note=$7, updated_at=NOW()
		WHERE id = $1`,
		s.ID, s.Name, s.ContactName, s.Phone, s.Email, s.Address, s.Note)
	return err
}

func (r *supplierRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM supplier WHERE id = $1`, id)
	return err
}

func (r *supplierRepoPG) List(ctx context.Context, limit, offset int) ([]*Supplier, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM supplier`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+supplierCols+` FROM supplier ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Supplier
	for rows.Next() {
		s, err := r.scanSupplier(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, nil
}
