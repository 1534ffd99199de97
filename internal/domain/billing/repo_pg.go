package billing

import (
	"context"

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

type invoiceRepoPG struct{ pool *pgxpool.Pool }

func NewInvoiceRepoPG(pool *pgxpool.Pool) InvoiceRepository { return &invoiceRepoPG{pool: pool} }

func (r *invoiceRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const invoiceCols = `id, number, patient_id, status, issued_date,
	subtotal, tax_amount, total_due, amount_paid, note, created_at, updated_at`

func (r *invoiceRepoPG) scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(&inv.ID, &inv.Number, &inv.PatientID, &inv.Status, &inv.IssuedDate,
		&inv.Subtotal, &inv.TaxAmount, &inv.TotalDue, &inv.AmountPaid, &inv.Note,
		&inv.CreatedAt, &inv.UpdatedAt)
	return &inv, err
}

func (r *invoiceRepoPG) Create(ctx context.Context, inv *Invoice) error {
	inv.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO invoice (id, number, patient_id, status, issued_date,
			subtotal, tax_amount, total_due, amount_paid, note)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		inv.ID, inv.Number, inv.PatientID, inv.Status, inv.IssuedDate,
		inv.Subtotal, inv.TaxAmount, inv.TotalDue, inv.AmountPaid, inv.Note)
	return err
}

func (r *invoiceRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return r.scanInvoice(r.conn(ctx).QueryRow(ctx, `SELECT `+invoiceCols+` FROM invoice WHERE id = $1`, id))
}

func (r *invoiceRepoPG) GetByNumber(ctx context.Context, number string) (*Invoice, error) {
	return r.scanInvoice(r.conn(ctx).QueryRow(ctx, `SELECT `+invoiceCols+` FROM invoice WHERE number = $1`, number))
}

func (r *invoiceRepoPG) Update(ctx context.Context, inv *Invoice) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE invoice SET status=$2, subtotal=$3, tax_amount=$4, total_due=$5,
			amount_paid=$6, note=$7, updated_at=NOW()
		WHERE id = $1`,
		inv.ID, inv.Status, inv.Subtotal, inv.TaxAmount, inv.TotalDue,
		inv.AmountPaid, inv.Note)
	return err
}

func (r *invoiceRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM invoice WHERE id = $1`, id)
	return err
}

func (r *invoiceRepoPG) collect(rows pgx.Rows) ([]*Invoice, error) {
	defer rows.Close()
	var items []*Invoice
	for rows.Next() {
		inv, err := r.scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, inv)
	}
	return items, nil
}

func (r *invoiceRepoPG) List(ctx context.Context, limit, offset int) ([]*Invoice, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM invoice`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+invoiceCols+` FROM invoice ORDER BY issued_date DESC, number DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := r.collect(rows)
	return items, total, err
}

func (r *invoiceRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Invoice, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM invoice WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+invoiceCols+` FROM invoice WHERE patient_id = $1 ORDER BY issued_date DESC, number DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := r.collect(rows)
	return items, total, err
}

func (r *invoiceRepoPG) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*Invoice, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM invoice WHERE status = $1`, status).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+invoiceCols+` FROM invoice WHERE status = $1 ORDER BY issued_date DESC, number DESC LIMIT $2 OFFSET $3`, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := r.collect(rows)
	return items, total, err
}

func (r *invoiceRepoPG) AddLine(ctx context.Context, line *InvoiceLine) error {
	line.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO invoice_line (id, invoice_id, sequence, description, unit_price, quantity, line_total)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		line.ID, line.InvoiceID, line.Sequence, line.Description, line.UnitPrice, line.Quantity, line.LineTotal)
	return err
}

func (r *invoiceRepoPG) GetLines(ctx context.Context, invoiceID uuid.UUID) ([]*InvoiceLine, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, invoice_id, sequence, description, unit_price, quantity, line_total
		FROM invoice_line WHERE invoice_id = $1 ORDER BY sequence`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*InvoiceLine
	for rows.Next() {
		var l InvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.Sequence, &l.Description,
			&l.UnitPrice, &l.Quantity, &l.LineTotal); err != nil {
			return nil, err
		}
		items = append(items, &l)
	}
	return items, nil
}

func (r *invoiceRepoPG) DeleteLines(ctx context.Context, invoiceID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM invoice_line WHERE invoice_id = $1`, invoiceID)
	return err
}

func (r *invoiceRepoPG) AddPayment(ctx context.Context, p *Payment) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO payment (id, invoice_id, amount, method, paid_at, note)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		p.ID, p.InvoiceID, p.Amount, p.Method, p.PaidAt, p.Note)
	return err
}

func (r *invoiceRepoPG) GetPayments(ctx context.Context, invoiceID uuid.UUID) ([]*Payment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, invoice_id, amount, method, paid_at, note, created_at
		FROM payment WHERE invoice_id = $1 ORDER BY paid_at`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.InvoiceID, &p.Amount, &p.Method, &p.PaidAt, &p.Note, &p.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &p)
	}
	return items, nil
}
