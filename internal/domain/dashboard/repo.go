package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository exposes the aggregate queries the dashboard is built from.
// Each method maps to one query; the service assembles them into a Summary.
type Repository interface {
	PatientCount(ctx context.Context) (int, error)
	AppointmentCountBetween(ctx context.Context, from, to time.Time) (int, error)
	AppointmentPendingCount(ctx context.Context, after time.Time) (int, error)
	RevenueIssuedBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	RevenueCollectedBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	UnpaidInvoiceCount(ctx context.Context) (int, error)
	LowStockCount(ctx context.Context) (int, error)
	UnreadNotificationCount(ctx context.Context, recipientID uuid.UUID) (int, error)
}
