package personnel

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var validRoles = map[string]bool{
	RoleDentist:      true,
	RoleAssistant:    true,
	RoleReceptionist: true,
	RoleAdmin:        true,
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func validateStaff(m *StaffMember) error {
	m.FirstName = strings.TrimSpace(m.FirstName)
	m.LastName = strings.TrimSpace(m.LastName)
	if m.FirstName == "" || m.LastName == "" {
		return fmt.Errorf("first_name and last_name are required")
	}
	if !validRoles[m.Role] {
		return fmt.Errorf("invalid role: %s", m.Role)
	}
	if m.Salary != nil && m.Salary.IsNegative() {
		return fmt.Errorf("salary must not be negative")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, m *StaffMember) error {
	if err := validateStaff(m); err != nil {
		return err
	}
	m.Active = true
	return s.repo.Create(ctx, m)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*StaffMember, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, m *StaffMember) error {
	if err := validateStaff(m); err != nil {
		return err
	}
	if _, err := s.repo.GetByID(ctx, m.ID); err != nil {
		return fmt.Errorf("staff member not found")
	}
	return s.repo.Update(ctx, m)
}

// Deactivate marks a staff member inactive instead of deleting the
// record, so past appointments and documents keep their author.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("staff member not found")
	}
	m.Active = false
	return s.repo.Update(ctx, m)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, includeInactive bool, limit, offset int) ([]*StaffMember, int, error) {
	return s.repo.List(ctx, includeInactive, limit, offset)
}

func (s *Service) ListByRole(ctx context.Context, role string, limit, offset int) ([]*StaffMember, int, error) {
	if !validRoles[role] {
		return nil, 0, fmt.Errorf("invalid role: %s", role)
	}
	return s.repo.ListByRole(ctx, role, limit, offset)
}

func (s *Service) AddAbsence(ctx context.Context, a *Absence) error {
	if a.StaffID == uuid.Nil {
		return fmt.Errorf("staff_id is required")
	}
	if !a.EndsOn.After(a.StartsOn) {
		return fmt.Errorf("ends_on must be after starts_on")
	}
	if _, err := s.repo.GetByID(ctx, a.StaffID); err != nil {
		return fmt.Errorf("staff member not found")
	}
	return s.repo.AddAbsence(ctx, a)
}

func (s *Service) DeleteAbsence(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteAbsence(ctx, id)
}

func (s *Service) ListAbsences(ctx context.Context, staffID uuid.UUID) ([]*Absence, error) {
	return s.repo.ListAbsences(ctx, staffID)
}
