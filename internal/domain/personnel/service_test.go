package personnel

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func dp(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

type mockRepo struct {
	staff    map[uuid.UUID]*StaffMember
	absences map[uuid.UUID]*Absence
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		staff:    make(map[uuid.UUID]*StaffMember),
		absences: make(map[uuid.UUID]*Absence),
	}
}

func (m *mockRepo) Create(_ context.Context, s *StaffMember) error {
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	m.staff[s.ID] = s
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*StaffMember, error) {
	s, ok := m.staff[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	cp := *s
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, s *StaffMember) error {
	m.staff[s.ID] = s
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.staff, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, includeInactive bool, limit, offset int) ([]*StaffMember, int, error) {
	var result []*StaffMember
	for _, s := range m.staff {
		if s.Active || includeInactive {
			result = append(result, s)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByRole(_ context.Context, role string, limit, offset int) ([]*StaffMember, int, error) {
	var result []*StaffMember
	for _, s := range m.staff {
		if s.Role == role && s.Active {
			result = append(result, s)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) AddAbsence(_ context.Context, a *Absence) error {
	a.ID = uuid.New()
	m.absences[a.ID] = a
	return nil
}

func (m *mockRepo) DeleteAbsence(_ context.Context, id uuid.UUID) error {
	delete(m.absences, id)
	return nil
}

func (m *mockRepo) ListAbsences(_ context.Context, staffID uuid.UUID) ([]*Absence, error) {
	var result []*Absence
	for _, a := range m.absences {
		if a.StaffID == staffID {
			result = append(result, a)
		}
	}
	return result, nil
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	cases := []struct {
		name  string
		staff StaffMember
	}{
		{"missing first name", StaffMember{LastName: "Durand", Role: RoleDentist}},
		{"missing last name", StaffMember{FirstName: "Claire", Role: RoleDentist}},
		{"blank names", StaffMember{FirstName: "  ", LastName: "  ", Role: RoleDentist}},
		{"unknown role", StaffMember{FirstName: "Claire", LastName: "Durand", Role: "janitor"}},
		{"negative salary", StaffMember{FirstName: "Claire", LastName: "Durand", Role: RoleDentist, Salary: dp("-100")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := svc.Create(ctx, &tc.staff); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	ok := &StaffMember{FirstName: "Claire", LastName: "Durand", Role: RoleDentist}
	if err := svc.Create(ctx, ok); err != nil {
		t.Fatalf("valid staff rejected: %v", err)
	}
	if !ok.Active {
		t.Error("new staff member should be active")
	}
}

func TestDeactivate_HidesFromDefaultListing(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	s := &StaffMember{FirstName: "Marc", LastName: "Petit", Role: RoleAssistant}
	if err := svc.Create(ctx, s); err != nil {
		t.Fatal(err)
	}
	if err := svc.Deactivate(ctx, s.ID); err != nil {
		t.Fatal(err)
	}

	active, _, err := svc.List(ctx, false, 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 0 {
		t.Errorf("expected no active staff, got %d", len(active))
	}

	all, _, err := svc.List(ctx, true, 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("expected 1 staff member including inactive, got %d", len(all))
	}
}

func TestListByRole(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	for _, s := range []*StaffMember{
		{FirstName: "Claire", LastName: "Durand", Role: RoleDentist},
		{FirstName: "Marc", LastName: "Petit", Role: RoleAssistant},
		{FirstName: "Julie", LastName: "Morel", Role: RoleDentist},
	} {
		if err := svc.Create(ctx, s); err != nil {
			t.Fatal(err)
		}
	}

	dentists, total, err := svc.ListByRole(ctx, RoleDentist, 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(dentists) != 2 {
		t.Errorf("expected 2 dentists, got %d", len(dentists))
	}

	if _, _, err := svc.ListByRole(ctx, "plumber", 20, 0); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestAbsences(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	s := &StaffMember{FirstName: "Claire", LastName: "Durand", Role: RoleDentist}
	if err := svc.Create(ctx, s); err != nil {
		t.Fatal(err)
	}

	start := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	if err := svc.AddAbsence(ctx, &Absence{StaffID: s.ID, StartsOn: start, EndsOn: start.AddDate(0, 0, 5)}); err != nil {
		t.Fatalf("AddAbsence: %v", err)
	}

	// ends_on before starts_on
	if err := svc.AddAbsence(ctx, &Absence{StaffID: s.ID, StartsOn: start, EndsOn: start.AddDate(0, 0, -1)}); err == nil {
		t.Error("expected error for inverted range")
	}
	// unknown staff member
	if err := svc.AddAbsence(ctx, &Absence{StaffID: uuid.New(), StartsOn: start, EndsOn: start.AddDate(0, 0, 1)}); err == nil {
		t.Error("expected error for unknown staff member")
	}

	items, err := svc.ListAbsences(ctx, s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Errorf("expected 1 absence, got %d", len(items))
	}
}
