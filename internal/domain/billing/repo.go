package billing

import (
	"context"

	"github.com/google/uuid"
)

// InvoiceRepository persists invoices, their lines and payments.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	GetByNumber(ctx context.Context, number string) (*Invoice, error)
	Update(ctx context.Context, inv *Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Invoice, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Invoice, int, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*Invoice, int, error)

	AddLine(ctx context.Context, line *InvoiceLine) error
	GetLines(ctx context.Context, invoiceID uuid.UUID) ([]*InvoiceLine, error)
	DeleteLines(ctx context.Context, invoiceID uuid.UUID) error

	AddPayment(ctx context.Context, p *Payment) error
	GetPayments(ctx context.Context, invoiceID uuid.UUID) ([]*Payment, error)
}
