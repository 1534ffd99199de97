package billing

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice statuses.
const (
	StatusDraft     = "draft"
	StatusIssued    = "issued"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

// NumberPrefix is the document number prefix for invoices ("FAC-2025-0001").
const NumberPrefix = "FAC"

// Invoice maps to the invoice table.
type Invoice struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	Number     string          `db:"number" json:"number"`
	PatientID  uuid.UUID       `db:"patient_id" json:"patient_id"`
	Status     string          `db:"status" json:"status"`
	IssuedDate time.Time       `db:"issued_date" json:"issued_date"`
	Subtotal   decimal.Decimal `db:"subtotal" json:"subtotal"`
	TaxAmount  decimal.Decimal `db:"tax_amount" json:"tax_amount"`
	TotalDue   decimal.Decimal `db:"total_due" json:"total_due"`
	AmountPaid decimal.Decimal `db:"amount_paid" json:"amount_paid"`
	Note       *string         `db:"note" json:"note,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`

	// Lines is populated by reads that load the full invoice.
	Lines []*InvoiceLine `db:"-" json:"lines,omitempty"`
}

// Balance is total_due minus amount_paid. A negative balance means the
// patient overpaid and is owed the difference.
func (i *Invoice) Balance() decimal.Decimal {
	return i.TotalDue.Sub(i.AmountPaid)
}

// MarshalJSON includes the derived balance so clients never compute it
// themselves.
func (i Invoice) MarshalJSON() ([]byte, error) {
	type alias Invoice
	return json.Marshal(struct {
		alias
		Balance decimal.Decimal `json:"balance"`
	}{alias(i), i.Balance()})
}

// InvoiceLine maps to the invoice_line table.
type InvoiceLine struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	InvoiceID   uuid.UUID       `db:"invoice_id" json:"invoice_id"`
	Sequence    int             `db:"sequence" json:"sequence"`
	Description string          `db:"description" json:"description"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unit_price"`
	Quantity    int             `db:"quantity" json:"quantity"`
	LineTotal   decimal.Decimal `db:"line_total" json:"line_total"`
}

// Payment maps to the payment table. Payments only ever add to an
// invoice's amount_paid; corrections are recorded as new invoices.
type Payment struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	InvoiceID uuid.UUID       `db:"invoice_id" json:"invoice_id"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	Method    string          `db:"method" json:"method"`
	PaidAt    time.Time       `db:"paid_at" json:"paid_at"`
	Note      *string         `db:"note" json:"note,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// Payment methods.
const (
	MethodCash     = "cash"
	MethodCard     = "card"
	MethodCheque   = "cheque"
	MethodTransfer = "transfer"
)
