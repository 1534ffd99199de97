package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dentio/clinic/internal/platform/db"
	"github.com/dentio/clinic/internal/platform/sequence"
)

type Service struct {
	invoices InvoiceRepository
	seq      sequence.Generator
	runTx    db.TxRunner
	now      func() time.Time
}

func NewService(invoices InvoiceRepository, seq sequence.Generator, runTx db.TxRunner) *Service {
	return &Service{invoices: invoices, seq: seq, runTx: runTx, now: time.Now}
}

var validStatuses = map[string]bool{
	StatusDraft: true, StatusIssued: true, StatusPaid: true, StatusCancelled: true,
}

var validMethods = map[string]bool{
	MethodCash: true, MethodCard: true, MethodCheque: true, MethodTransfer: true,
}

func validateLines(lines []*InvoiceLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("at least one line is required")
	}
	for i, l := range lines {
		if l.Description == "" {
			return fmt.Errorf("line %d: description is required", i+1)
		}
		if l.Quantity <= 0 {
			return fmt.Errorf("line %d: quantity must be positive", i+1)
		}
		if l.UnitPrice.IsNegative() {
			return fmt.Errorf("line %d: unit_price must not be negative", i+1)
		}
	}
	return nil
}

// CreateInvoice validates the lines, recomputes all amounts, assigns the
// next FAC number for the issue year, and writes the invoice and its lines
// in one transaction. The number is only consumed if the transaction
// commits.
func (s *Service) CreateInvoice(ctx context.Context, inv *Invoice) error {
	if inv.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if err := validateLines(inv.Lines); err != nil {
		return err
	}
	if inv.TaxAmount.IsNegative() {
		return fmt.Errorf("tax_amount must not be negative")
	}
	if inv.Status == "" {
		inv.Status = StatusIssued
	}
	if inv.Status != StatusDraft && inv.Status != StatusIssued {
		return fmt.Errorf("new invoice status must be draft or issued")
	}
	if inv.IssuedDate.IsZero() {
		inv.IssuedDate = s.now()
	}

	inv.Subtotal, inv.TotalDue = ComputeTotals(inv.Lines, inv.TaxAmount)
	inv.AmountPaid = decimal.Zero

	return s.runTx(ctx, func(ctx context.Context) error {
		n, err := s.seq.Next(ctx, NumberPrefix, inv.IssuedDate.Year())
		if err != nil {
			return fmt.Errorf("allocate invoice number: %w", err)
		}
		inv.Number = sequence.Format(NumberPrefix, inv.IssuedDate.Year(), n)

		if err := s.invoices.Create(ctx, inv); err != nil {
			return err
		}
		for _, l := range inv.Lines {
			l.InvoiceID = inv.ID
			if err := s.invoices.AddLine(ctx, l); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetInvoice loads an invoice with its lines.
func (s *Service) GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.Lines, err = s.invoices.GetLines(ctx, id)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Service) GetInvoiceByNumber(ctx context.Context, number string) (*Invoice, error) {
	inv, err := s.invoices.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	inv.Lines, err = s.invoices.GetLines(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Service) ListInvoices(ctx context.Context, limit, offset int) ([]*Invoice, int, error) {
	return s.invoices.List(ctx, limit, offset)
}

func (s *Service) ListInvoicesByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Invoice, int, error) {
	return s.invoices.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListInvoicesByStatus(ctx context.Context, status string, limit, offset int) ([]*Invoice, int, error) {
	if !validStatuses[status] {
		return nil, 0, fmt.Errorf("invalid invoice status: %s", status)
	}
	return s.invoices.ListByStatus(ctx, status, limit, offset)
}

// IssueInvoice moves a draft invoice to issued.
func (s *Service) IssueInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != StatusDraft {
		return nil, fmt.Errorf("only draft invoices can be issued (status %s)", inv.Status)
	}
	inv.Status = StatusIssued
	if err := s.invoices.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// UpdateInvoice replaces a draft invoice's lines and recomputes its
// amounts. The number, patient and payment state are kept from the stored
// invoice; issued invoices are immutable apart from payments and status.
func (s *Service) UpdateInvoice(ctx context.Context, inv *Invoice) (*Invoice, error) {
	if err := validateLines(inv.Lines); err != nil {
		return nil, err
	}
	if inv.TaxAmount.IsNegative() {
		return nil, fmt.Errorf("tax_amount must not be negative")
	}

	var current *Invoice
	err := s.runTx(ctx, func(ctx context.Context) error {
		var err error
		current, err = s.invoices.GetByID(ctx, inv.ID)
		if err != nil {
			return err
		}
		if current.Status != StatusDraft {
			return fmt.Errorf("only draft invoices can be edited (status %s)", current.Status)
		}

		current.TaxAmount = inv.TaxAmount
		if inv.Note != nil {
			current.Note = inv.Note
		}
		current.Subtotal, current.TotalDue = ComputeTotals(inv.Lines, inv.TaxAmount)

		if err := s.invoices.DeleteLines(ctx, current.ID); err != nil {
			return err
		}
		for _, l := range inv.Lines {
			l.InvoiceID = current.ID
			if err := s.invoices.AddLine(ctx, l); err != nil {
				return err
			}
		}
		current.Lines = inv.Lines
		return s.invoices.Update(ctx, current)
	})
	if err != nil {
		return nil, err
	}
	return current, nil
}

// RecordPayment appends a payment and updates the invoice's amount_paid in
// one transaction. An invoice becomes paid once amount_paid covers
// total_due; paying more than the balance is allowed and leaves the
// balance negative.
func (s *Service) RecordPayment(ctx context.Context, p *Payment) (*Invoice, error) {
	if p.InvoiceID == uuid.Nil {
		return nil, fmt.Errorf("invoice_id is required")
	}
	if !p.Amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive")
	}
	if p.Method == "" {
		p.Method = MethodCash
	}
	if !validMethods[p.Method] {
		return nil, fmt.Errorf("invalid payment method: %s", p.Method)
	}
	if p.PaidAt.IsZero() {
		p.PaidAt = s.now()
	}

	var inv *Invoice
	err := s.runTx(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.invoices.GetByID(ctx, p.InvoiceID)
		if err != nil {
			return err
		}
		if inv.Status == StatusCancelled {
			return fmt.Errorf("cannot record a payment on a cancelled invoice")
		}
		if err := s.invoices.AddPayment(ctx, p); err != nil {
			return err
		}
		inv.AmountPaid = inv.AmountPaid.Add(p.Amount)
		if inv.AmountPaid.GreaterThanOrEqual(inv.TotalDue) {
			inv.Status = StatusPaid
		}
		return s.invoices.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Service) ListPayments(ctx context.Context, invoiceID uuid.UUID) ([]*Payment, error) {
	return s.invoices.GetPayments(ctx, invoiceID)
}

// CancelInvoice cancels an invoice that has no recorded payments.
func (s *Service) CancelInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !inv.AmountPaid.IsZero() {
		return nil, fmt.Errorf("cannot cancel an invoice with recorded payments")
	}
	if inv.Status == StatusCancelled {
		return inv, nil
	}
	inv.Status = StatusCancelled
	if err := s.invoices.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// DeleteInvoice removes a draft invoice. Issued numbers are never reused,
// so deleting leaves a gap in the sequence.
func (s *Service) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if inv.Status != StatusDraft {
		return fmt.Errorf("only draft invoices can be deleted")
	}
	return s.invoices.Delete(ctx, id)
}
