package prescription

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	items map[uuid.UUID]*Prescription
	lines map[uuid.UUID][]*Item
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		items: make(map[uuid.UUID]*Prescription),
		lines: make(map[uuid.UUID][]*Item),
	}
}

func (m *mockRepo) Create(_ context.Context, p *Prescription) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	m.items[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Prescription, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) GetByNumber(_ context.Context, number string) (*Prescription, error) {
	for _, p := range m.items {
		if p.Number == number {
			cp := *p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (m *mockRepo) Update(_ context.Context, p *Prescription) error {
	m.items[p.ID] = p
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Prescription, int, error) {
	var result []*Prescription
	for _, p := range m.items {
		result = append(result, p)
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Prescription, int, error) {
	var result []*Prescription
	for _, p := range m.items {
		if p.PatientID == patientID {
			result = append(result, p)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) AddItem(_ context.Context, item *Item) error {
	item.ID = uuid.New()
	m.lines[item.PrescriptionID] = append(m.lines[item.PrescriptionID], item)
	return nil
}

func (m *mockRepo) GetItems(_ context.Context, prescriptionID uuid.UUID) ([]*Item, error) {
	return m.lines[prescriptionID], nil
}

func (m *mockRepo) DeleteItems(_ context.Context, prescriptionID uuid.UUID) error {
	delete(m.lines, prescriptionID)
	return nil
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

func newTestService() *Service {
	return NewService(newMockRepo(), newMockSequence(), passthroughTx)
}

func TestCreate_AssignsNumber(t *testing.T) {
	svc := newTestService()
	svc.now = func() time.Time { return time.Date(2025, 4, 10, 11, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	amox := "500mg"
	p := &Prescription{
		PatientID: uuid.New(),
		Items: []*Item{
			{Medication: "Amoxicillin", Dosage: &amox},
			{Medication: "Ibuprofen"},
		},
	}
	if err := svc.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Number != "ORD-2025-0001" {
		t.Errorf("number = %q, want ORD-2025-0001", p.Number)
	}

	p2 := &Prescription{
		PatientID: uuid.New(),
		Items:     []*Item{{Medication: "Paracetamol"}},
	}
	if err := svc.Create(ctx, p2); err != nil {
		t.Fatal(err)
	}
	if p2.Number != "ORD-2025-0002" {
		t.Errorf("number = %q, want ORD-2025-0002", p2.Number)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if err := svc.Create(ctx, &Prescription{Items: []*Item{{Medication: "x"}}}); err == nil {
		t.Error("expected error for missing patient")
	}
	if err := svc.Create(ctx, &Prescription{PatientID: uuid.New()}); err == nil {
		t.Error("expected error for no items")
	}
	if err := svc.Create(ctx, &Prescription{PatientID: uuid.New(), Items: []*Item{{}}}); err == nil {
		t.Error("expected error for missing medication")
	}
}

func TestUpdate_KeepsNumberAndPatient(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	p := &Prescription{
		PatientID: uuid.New(),
		Items:     []*Item{{Medication: "Amoxicillin"}},
	}
	if err := svc.Create(ctx, p); err != nil {
		t.Fatal(err)
	}
	origNumber := p.Number
	origPatient := p.PatientID

	edit := &Prescription{
		ID:        p.ID,
		PatientID: uuid.New(), // must be ignored
		Items: []*Item{
			{Medication: "Amoxicillin"},
			{Medication: "Chlorhexidine rinse"},
		},
	}
	if err := svc.Update(ctx, edit); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if edit.Number != origNumber {
		t.Errorf("number changed to %q", edit.Number)
	}
	if edit.PatientID != origPatient {
		t.Error("patient must not change on update")
	}

	got, err := svc.Get(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Items) != 2 {
		t.Errorf("expected 2 items after update, got %d", len(got.Items))
	}
}
