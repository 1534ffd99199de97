package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// -- Mocks --

type mockInvoiceRepo struct {
	items    map[uuid.UUID]*Invoice
	lines    map[uuid.UUID][]*InvoiceLine
	payments map[uuid.UUID][]*Payment
}

func newMockInvoiceRepo() *mockInvoiceRepo {
	return &mockInvoiceRepo{
		items:    make(map[uuid.UUID]*Invoice),
		lines:    make(map[uuid.UUID][]*InvoiceLine),
		payments: make(map[uuid.UUID][]*Payment),
	}
}

func (m *mockInvoiceRepo) Create(_ context.Context, inv *Invoice) error {
	inv.ID = uuid.New()
	inv.CreatedAt = time.Now()
	inv.UpdatedAt = time.Now()
	m.items[inv.ID] = inv
	return nil
}

func (m *mockInvoiceRepo) GetByID(_ context.Context, id uuid.UUID) (*Invoice, error) {
	inv, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	cp := *inv
	return &cp, nil
}

func (m *mockInvoiceRepo) GetByNumber(_ context.Context, number string) (*Invoice, error) {
	for _, inv := range m.items {
		if inv.Number == number {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (m *mockInvoiceRepo) Update(_ context.Context, inv *Invoice) error {
	m.items[inv.ID] = inv
	return nil
}

func (m *mockInvoiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockInvoiceRepo) List(_ context.Context, limit, offset int) ([]*Invoice, int, error) {
	var result []*Invoice
	for _, inv := range m.items {
		result = append(result, inv)
	}
	return result, len(result), nil
}

func (m *mockInvoiceRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Invoice, int, error) {
	var result []*Invoice
	for _, inv := range m.items {
		if inv.PatientID == patientID {
			result = append(result, inv)
		}
	}
	return result, len(result), nil
}

func (m *mockInvoiceRepo) ListByStatus(_ context.Context, status string, limit, offset int) ([]*Invoice, int, error) {
	var result []*Invoice
	for _, inv := range m.items {
		if inv.Status == status {
			result = append(result, inv)
		}
	}
	return result, len(result), nil
}

func (m *mockInvoiceRepo) AddLine(_ context.Context, line *InvoiceLine) error {
	line.ID = uuid.New()
	m.lines[line.InvoiceID] = append(m.lines[line.InvoiceID], line)
	return nil
}

func (m *mockInvoiceRepo) GetLines(_ context.Context, invoiceID uuid.UUID) ([]*InvoiceLine, error) {
	return m.lines[invoiceID], nil
}

func (m *mockInvoiceRepo) DeleteLines(_ context.Context, invoiceID uuid.UUID) error {
	delete(m.lines, invoiceID)
	return nil
}

func (m *mockInvoiceRepo) AddPayment(_ context.Context, p *Payment) error {
	p.ID = uuid.New()
	m.payments[p.InvoiceID] = append(m.payments[p.InvoiceID], p)
	return nil
}

func (m *mockInvoiceRepo) GetPayments(_ context.Context, invoiceID uuid.UUID) ([]*Payment, error) {
	return m.payments[invoiceID], nil
}

type mockSequence struct {
	counters map[string]int
}

func newMockSequence() *mockSequence {
	return &mockSequence{counters: make(map[string]int)}
}

func (m *mockSequence) Next(_ context.Context, prefix string, year int) (int, error) {
	key := fmt.Sprintf("%s-%d", prefix, year)
	m.counters[key]++
	return m.counters[key], nil
}

func passthroughTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService() (*Service, *mockInvoiceRepo) {
	repo := newMockInvoiceRepo()
	svc := NewService(repo, newMockSequence(), passthroughTx)
	return svc, repo
}

// -- Tests --

func TestCreateInvoice_ComputesTotalsAndNumber(t *testing.T) {
	svc, _ := newTestService()
	svc.now = func() time.Time { return time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC) }

	inv := &Invoice{
		PatientID: uuid.New(),
		TaxAmount: d("12.5"),
		Lines: []*InvoiceLine{
			{Description: "Scaling", UnitPrice: d("100"), Quantity: 2},
			{Description: "Consultation", UnitPrice: d("50"), Quantity: 1},
			{Description: "Free follow-up", UnitPrice: d("0"), Quantity: 5},
		},
	}
	if err := svc.CreateInvoice(context.Background(), inv); err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}

	if inv.Number != "FAC-2025-0001" {
		t.Errorf("number = %q, want FAC-2025-0001", inv.Number)
	}
	if !inv.Subtotal.Equal(d("250")) {
		t.Errorf("subtotal = %s, want 250", inv.Subtotal)
	}
	if !inv.TotalDue.Equal(d("262.5")) {
		t.Errorf("total_due = %s, want 262.5", inv.TotalDue)
	}
	if !inv.AmountPaid.IsZero() {
		t.Errorf("amount_paid = %s, want 0", inv.AmountPaid)
	}
	if inv.Status != StatusIssued {
		t.Errorf("status = %q, want issued", inv.Status)
	}
}

func TestCreateInvoice_SequentialNumbers(t *testing.T) {
	svc, _ := newTestService()
	svc.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }

	for i, want := range []string{"FAC-2025-0001", "FAC-2025-0002", "FAC-2025-0003"} {
		inv := &Invoice{
			PatientID: uuid.New(),
			Lines:     []*InvoiceLine{{Description: "Consultation", UnitPrice: d("23"), Quantity: 1}},
		}
		if err := svc.CreateInvoice(context.Background(), inv); err != nil {
			t.Fatalf("invoice %d: %v", i, err)
		}
		if inv.Number != want {
			t.Errorf("invoice %d: number = %q, want %q", i, inv.Number, want)
		}
	}
}

func TestCreateInvoice_NumberResetsPerYear(t *testing.T) {
	svc, _ := newTestService()

	inv := &Invoice{
		PatientID:  uuid.New(),
		IssuedDate: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		Lines:      []*InvoiceLine{{Description: "Consultation", UnitPrice: d("23"), Quantity: 1}},
	}
	if err := svc.CreateInvoice(context.Background(), inv); err != nil {
		t.Fatal(err)
	}
	if inv.Number != "FAC-2024-0001" {
		t.Errorf("number = %q, want FAC-2024-0001", inv.Number)
	}

	inv2 := &Invoice{
		PatientID:  uuid.New(),
		IssuedDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Lines:      []*InvoiceLine{{Description: "Consultation", UnitPrice: d("23"), Quantity: 1}},
	}
	if err := svc.CreateInvoice(context.Background(), inv2); err != nil {
		t.Fatal(err)
	}
	if inv2.Number != "FAC-2025-0001" {
		t.Errorf("number = %q, want FAC-2025-0001", inv2.Number)
	}
}

func TestCreateInvoice_Validation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	tests := []struct {
		name string
		inv  *Invoice
	}{
		{"missing patient", &Invoice{
			Lines: []*InvoiceLine{{Description: "x", UnitPrice: d("1"), Quantity: 1}},
		}},
		{"no lines", &Invoice{PatientID: uuid.New()}},
		{"zero quantity", &Invoice{PatientID: uuid.New(),
			Lines: []*InvoiceLine{{Description: "x", UnitPrice: d("1"), Quantity: 0}},
		}},
		{"negative unit price", &Invoice{PatientID: uuid.New(),
			Lines: []*InvoiceLine{{Description: "x", UnitPrice: d("-1"), Quantity: 1}},
		}},
		{"empty description", &Invoice{PatientID: uuid.New(),
			Lines: []*InvoiceLine{{UnitPrice: d("1"), Quantity: 1}},
		}},
		{"negative tax", &Invoice{PatientID: uuid.New(), TaxAmount: d("-5"),
			Lines: []*InvoiceLine{{Description: "x", UnitPrice: d("1"), Quantity: 1}},
		}},
	}
	for _, tt := range tests {
		if err := svc.CreateInvoice(ctx, tt.inv); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestRecordPayment_PartialThenPaid(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	inv := &Invoice{
		PatientID: uuid.New(),
		TaxAmount: d("12.5"),
		Lines: []*InvoiceLine{
			{Description: "Scaling", UnitPrice: d("100"), Quantity: 2},
			{Description: "Consultation", UnitPrice: d("50"), Quantity: 1},
		},
	}
	if err := svc.CreateInvoice(ctx, inv); err != nil {
		t.Fatal(err)
	}

	got, err := svc.RecordPayment(ctx, &Payment{InvoiceID: inv.ID, Amount: d("100"), Method: MethodCard})
	if err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	if !got.Balance().Equal(d("162.5")) {
		t.Errorf("balance = %s, want 162.5", got.Balance())
	}
	if got.Status != StatusIssued {
		t.Errorf("status = %q, want issued after partial payment", got.Status)
	}

	got, err = svc.RecordPayment(ctx, &Payment{InvoiceID: inv.ID, Amount: d("162.5")})
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusPaid {
		t.Errorf("status = %q, want paid", got.Status)
	}
	if !got.Balance().IsZero() {
		t.Errorf("balance = %s, want 0", got.Balance())
	}
}

func TestRecordPayment_OverpaymentAllowed(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	inv := &Invoice{
		PatientID: uuid.New(),
		Lines:     []*InvoiceLine{{Description: "Consultation", UnitPrice: d("50"), Quantity: 1}},
	}
	if err := svc.CreateInvoice(ctx, inv); err != nil {
		t.Fatal(err)
	}

	got, err := svc.RecordPayment(ctx, &Payment{InvoiceID: inv.ID, Amount: d("80")})
	if err != nil {
		t.Fatalf("overpayment should be accepted: %v", err)
	}
	if got.Status != StatusPaid {
		t.Errorf("status = %q, want paid", got.Status)
	}
	if !got.Balance().Equal(d("-30")) {
		t.Errorf("balance = %s, want -30", got.Balance())
	}
}

func TestRecordPayment_Rejections(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	inv := &Invoice{
		PatientID: uuid.New(),
		Lines:     []*InvoiceLine{{Description: "Consultation", UnitPrice: d("50"), Quantity: 1}},
	}
	if err := svc.CreateInvoice(ctx, inv); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.RecordPayment(ctx, &Payment{InvoiceID: inv.ID, Amount: d("0")}); err == nil {
		t.Error("expected error for zero amount")
	}
	if _, err := svc.RecordPayment(ctx, &Payment{InvoiceID: inv.ID, Amount: d("-10")}); err == nil {
		t.Error("expected error for negative amount")
	}
	if _, err := svc.RecordPayment(ctx, &Payment{InvoiceID: inv.ID, Amount: d("10"), Method: "bitcoin"}); err == nil {
		t.Error("expected error for unknown method")
	}

	if _, err := svc.CancelInvoice(ctx, inv.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.RecordPayment(ctx, &Payment{InvoiceID: inv.ID, Amount: d("10")}); err == nil {
		t.Error("expected error paying a cancelled invoice")
	}
}

func TestCancelInvoice_RejectedAfterPayment(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	inv := &Invoice{
		PatientID: uuid.New(),
		Lines:     []*InvoiceLine{{Description: "Consultation", UnitPrice: d("50"), Quantity: 1}},
	}
	if err := svc.CreateInvoice(ctx, inv); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.RecordPayment(ctx, &Payment{InvoiceID: inv.ID, Amount: d("10")}); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.CancelInvoice(ctx, inv.ID); err == nil {
		t.Error("expected error cancelling an invoice with payments")
	}
}

func TestIssueInvoice_OnlyFromDraft(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	inv := &Invoice{
		PatientID: uuid.New(),
		Status:    StatusDraft,
		Lines:     []*InvoiceLine{{Description: "Consultation", UnitPrice: d("50"), Quantity: 1}},
	}
	if err := svc.CreateInvoice(ctx, inv); err != nil {
		t.Fatal(err)
	}

	got, err := svc.IssueInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusIssued {
		t.Errorf("status = %q, want issued", got.Status)
	}

	if _, err := svc.IssueInvoice(ctx, inv.ID); err == nil {
		t.Error("expected error issuing an already-issued invoice")
	}
}

func TestDeleteInvoice_OnlyDraft(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	inv := &Invoice{
		PatientID: uuid.New(),
		Lines:     []*InvoiceLine{{Description: "Consultation", UnitPrice: d("50"), Quantity: 1}},
	}
	if err := svc.CreateInvoice(ctx, inv); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteInvoice(ctx, inv.ID); err == nil {
		t.Error("expected error deleting an issued invoice")
	}

	draft := &Invoice{
		PatientID: uuid.New(),
		Status:    StatusDraft,
		Lines:     []*InvoiceLine{{Description: "Consultation", UnitPrice: d("50"), Quantity: 1}},
	}
	if err := svc.CreateInvoice(ctx, draft); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteInvoice(ctx, draft.ID); err != nil {
		t.Errorf("deleting a draft should succeed: %v", err)
	}
}

func TestGetInvoice_LoadsLines(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	inv := &Invoice{
		PatientID: uuid.New(),
		Lines: []*InvoiceLine{
			{Description: "Scaling", UnitPrice: d("100"), Quantity: 2},
			{Description: "Consultation", UnitPrice: d("50"), Quantity: 1},
		},
	}
	if err := svc.CreateInvoice(ctx, inv); err != nil {
		t.Fatal(err)
	}

	got, err := svc.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(got.Lines))
	}
	sum := decimal.Zero
	for _, l := range got.Lines {
		sum = sum.Add(l.LineTotal)
	}
	if !sum.Equal(got.Subtotal) {
		t.Errorf("line totals sum to %s, subtotal is %s", sum, got.Subtotal)
	}
}

func TestUpdateInvoice_RecomputesTotals(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	inv := &Invoice{
		PatientID: uuid.New(),
		Status:    StatusDraft,
		Lines: []*InvoiceLine{
			{Description: "Scaling", UnitPrice: d("100"), Quantity: 2},
		},
	}
	if err := svc.CreateInvoice(ctx, inv); err != nil {
		t.Fatal(err)
	}
	number := inv.Number

	updated, err := svc.UpdateInvoice(ctx, &Invoice{
		ID:        inv.ID,
		TaxAmount: d("10"),
		Lines: []*InvoiceLine{
			{Description: "Crown", UnitPrice: d("400"), Quantity: 1},
			{Description: "Consultation", UnitPrice: d("50"), Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("UpdateInvoice: %v", err)
	}
	if !updated.Subtotal.Equal(d("500")) || !updated.TotalDue.Equal(d("510")) {
		t.Errorf("subtotal = %s, total_due = %s", updated.Subtotal, updated.TotalDue)
	}
	if updated.Number != number {
		t.Errorf("number changed from %s to %s", number, updated.Number)
	}

	got, err := svc.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Lines) != 2 {
		t.Fatalf("expected 2 lines after update, got %d", len(got.Lines))
	}
}

func TestUpdateInvoice_RejectsNonDraft(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	inv := &Invoice{
		PatientID: uuid.New(),
		Status:    StatusIssued,
		Lines:     []*InvoiceLine{{Description: "Scaling", UnitPrice: d("100"), Quantity: 1}},
	}
	if err := svc.CreateInvoice(ctx, inv); err != nil {
		t.Fatal(err)
	}

	_, err := svc.UpdateInvoice(ctx, &Invoice{
		ID:    inv.ID,
		Lines: []*InvoiceLine{{Description: "Crown", UnitPrice: d("400"), Quantity: 1}},
	})
	if err == nil {
		t.Error("expected error editing an issued invoice")
	}
}

func TestInvoiceJSON_IncludesBalance(t *testing.T) {
	inv := Invoice{
		ID:         uuid.New(),
		Number:     "FAC-2025-0042",
		PatientID:  uuid.New(),
		Status:     StatusIssued,
		TotalDue:   d("262.5"),
		AmountPaid: d("100"),
	}
	raw, err := json.Marshal(inv)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got struct {
		Number  string          `json:"number"`
		Balance decimal.Decimal `json:"balance"`
	}
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Number != "FAC-2025-0042" {
		t.Errorf("number = %q", got.Number)
	}
	if !got.Balance.Equal(d("162.5")) {
		t.Errorf("balance = %s, want 162.5", got.Balance)
	}

	// Overpayment serializes as a negative balance, not a clamped zero.
	inv.AmountPaid = d("300")
	raw, err = json.Marshal(&inv)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !got.Balance.Equal(d("-37.5")) {
		t.Errorf("balance = %s, want -37.5", got.Balance)
	}
}
