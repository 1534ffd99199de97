package scheduling

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	items map[uuid.UUID]*Appointment
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Appointment)}
}

func (m *mockRepo) Create(_ context.Context, a *Appointment) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	m.items[a.ID] = a
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	cp := *a
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, a *Appointment) error {
	cur, ok := m.items[a.ID]
	if !ok {
		return fmt.Errorf("not found")
	}
	a.RemindedAt = cur.RemindedAt
	m.items[a.ID] = a
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Appointment, int, error) {
	var result []*Appointment
	for _, a := range m.items {
		result = append(result, a)
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var result []*Appointment
	for _, a := range m.items {
		if a.PatientID == patientID {
			result = append(result, a)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByPractitioner(_ context.Context, practitionerID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var result []*Appointment
	for _, a := range m.items {
		if a.PractitionerID == practitionerID {
			result = append(result, a)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByRange(_ context.Context, from, to time.Time, limit, offset int) ([]*Appointment, int, error) {
	var result []*Appointment
	for _, a := range m.items {
		if !a.StartsAt.Before(from) && a.StartsAt.Before(to) {
			result = append(result, a)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) CountOverlapping(_ context.Context, practitionerID uuid.UUID, startsAt, endsAt time.Time, exclude uuid.UUID) (int, error) {
	count := 0
	for _, a := range m.items {
		if a.PractitionerID != practitionerID || a.ID == exclude {
			continue
		}
		if a.Status != StatusPending && a.Status != StatusConfirmed {
			continue
		}
		if a.StartsAt.Before(endsAt) && a.EndsAt.After(startsAt) {
			count++
		}
	}
	return count, nil
}

func (m *mockRepo) ListDueForReminder(_ context.Context, now, until time.Time) ([]*Appointment, error) {
	var result []*Appointment
	for _, a := range m.items {
		if a.Status != StatusPending && a.Status != StatusConfirmed {
			continue
		}
		if a.RemindedAt != nil {
			continue
		}
		if a.StartsAt.After(now) && !a.StartsAt.After(until) {
			cp := *a
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (m *mockRepo) MarkReminded(_ context.Context, id uuid.UUID, at time.Time) error {
	a, ok := m.items[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	a.RemindedAt = &at
	return nil
}

func (m *mockRepo) ClearReminded(_ context.Context, id uuid.UUID) error {
	a, ok := m.items[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	a.RemindedAt = nil
	return nil
}

func at(hour int) time.Time {
	return time.Date(2025, 9, 1, hour, 0, 0, 0, time.UTC)
}

func TestCreate_RejectsOverlap(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()
	dentist := uuid.New()

	first := &Appointment{
		PatientID:      uuid.New(),
		PractitionerID: dentist,
		StartsAt:       at(9),
		EndsAt:         at(10),
	}
	if err := svc.Create(ctx, first); err != nil {
		t.Fatalf("Create: %v", err)
	}

	overlapping := &Appointment{
		PatientID:      uuid.New(),
		PractitionerID: dentist,
		StartsAt:       at(9).Add(30 * time.Minute),
		EndsAt:         at(10).Add(30 * time.Minute),
	}
	if err := svc.Create(ctx, overlapping); err == nil {
		t.Error("expected error for overlapping slot")
	}

	// Back-to-back slots do not overlap.
	adjacent := &Appointment{
		PatientID:      uuid.New(),
		PractitionerID: dentist,
		StartsAt:       at(10),
		EndsAt:         at(11),
	}
	if err := svc.Create(ctx, adjacent); err != nil {
		t.Errorf("adjacent slot should be accepted: %v", err)
	}

	// A different practitioner can take the same slot.
	other := &Appointment{
		PatientID:      uuid.New(),
		PractitionerID: uuid.New(),
		StartsAt:       at(9),
		EndsAt:         at(10),
	}
	if err := svc.Create(ctx, other); err != nil {
		t.Errorf("other practitioner should be accepted: %v", err)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	tests := []struct {
		name string
		a    *Appointment
	}{
		{"missing patient", &Appointment{PractitionerID: uuid.New(), StartsAt: at(9), EndsAt: at(10)}},
		{"missing practitioner", &Appointment{PatientID: uuid.New(), StartsAt: at(9), EndsAt: at(10)}},
		{"missing times", &Appointment{PatientID: uuid.New(), PractitionerID: uuid.New()}},
		{"ends before starts", &Appointment{PatientID: uuid.New(), PractitionerID: uuid.New(), StartsAt: at(10), EndsAt: at(9)}},
		{"zero length", &Appointment{PatientID: uuid.New(), PractitionerID: uuid.New(), StartsAt: at(9), EndsAt: at(9)}},
	}
	for _, tt := range tests {
		if err := svc.Create(ctx, tt.a); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestUpdate_RescheduleClearsReminder(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	a := &Appointment{
		PatientID:      uuid.New(),
		PractitionerID: uuid.New(),
		StartsAt:       at(9),
		EndsAt:         at(10),
	}
	if err := svc.Create(ctx, a); err != nil {
		t.Fatal(err)
	}
	if err := repo.MarkReminded(ctx, a.ID, time.Now()); err != nil {
		t.Fatal(err)
	}

	moved := *a
	moved.StartsAt = at(14)
	moved.EndsAt = at(15)
	if err := svc.Update(ctx, &moved); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.RemindedAt != nil {
		t.Error("expected reminded_at cleared after reschedule")
	}
}

func TestUpdate_SameSlotKeepsReminder(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	a := &Appointment{
		PatientID:      uuid.New(),
		PractitionerID: uuid.New(),
		StartsAt:       at(9),
		EndsAt:         at(10),
	}
	if err := svc.Create(ctx, a); err != nil {
		t.Fatal(err)
	}
	if err := repo.MarkReminded(ctx, a.ID, time.Now()); err != nil {
		t.Fatal(err)
	}

	note := "bring x-rays"
	edited := *a
	edited.Note = &note
	if err := svc.Update(ctx, &edited); err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.RemindedAt == nil {
		t.Error("expected reminded_at preserved when slot unchanged")
	}
}

func TestUpdateStatus(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	a := &Appointment{
		PatientID:      uuid.New(),
		PractitionerID: uuid.New(),
		StartsAt:       at(9),
		EndsAt:         at(10),
	}
	if err := svc.Create(ctx, a); err != nil {
		t.Fatal(err)
	}

	got, err := svc.UpdateStatus(ctx, a.ID, StatusCompleted)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusCompleted {
		t.Errorf("status = %q, want completed", got.Status)
	}

	if _, err := svc.UpdateStatus(ctx, a.ID, "postponed"); err == nil {
		t.Error("expected error for unknown status")
	}
}
