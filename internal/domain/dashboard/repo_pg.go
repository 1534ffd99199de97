package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG returns a read-only repository over the shared pool. Dashboard
// queries never run inside a transaction so there is no conn() indirection.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) PatientCount(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patient WHERE archived = false`).Scan(&n)
	return n, err
}

func (r *repoPG) AppointmentCountBetween(ctx context.Context, from, to time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM appointment
		WHERE starts_at >= $1 AND starts_at < $2 AND status NOT IN ('cancelled', 'no_show')`,
		from, to).Scan(&n)
	return n, err
}

func (r *repoPG) AppointmentPendingCount(ctx context.Context, after time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM appointment
		WHERE starts_at > $1 AND status IN ('pending', 'confirmed')`, after).Scan(&n)
	return n, err
}

func (r *repoPG) RevenueIssuedBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_due), 0) FROM invoice
		WHERE status IN ('issued', 'paid') AND issued_date >= $1 AND issued_date < $2`,
		from, to).Scan(&total)
	return total, err
}

func (r *repoPG) RevenueCollectedBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(p.amount), 0) FROM payment p
		WHERE p.paid_at >= $1 AND p.paid_at < $2`, from, to).Scan(&total)
	return total, err
}

func (r *repoPG) UnpaidInvoiceCount(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM invoice
		WHERE status = 'issued' AND amount_paid < total_due`).Scan(&n)
	return n, err
}

func (r *repoPG) LowStockCount(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM product WHERE quantity_in_stock <= reorder_threshold`).Scan(&n)
	return n, err
}

func (r *repoPG) UnreadNotificationCount(ctx context.Context, recipientID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notification WHERE recipient_id = $1 AND read_at IS NULL`,
		recipientID).Scan(&n)
	return n, err
}
