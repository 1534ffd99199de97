package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	appts Repository
}

func NewService(appts Repository) *Service {
	return &Service{appts: appts}
}

var validStatuses = map[string]bool{
	StatusPending: true, StatusConfirmed: true, StatusCompleted: true,
	StatusCancelled: true, StatusNoShow: true,
}

func (s *Service) validateTimes(a *Appointment) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if a.PractitionerID == uuid.Nil {
		return fmt.Errorf("practitioner_id is required")
	}
	if a.StartsAt.IsZero() || a.EndsAt.IsZero() {
		return fmt.Errorf("starts_at and ends_at are required")
	}
	if !a.EndsAt.After(a.StartsAt) {
		return fmt.Errorf("ends_at must be after starts_at")
	}
	return nil
}

// Create books an appointment. The slot must be free for the practitioner.
func (s *Service) Create(ctx context.Context, a *Appointment) error {
	if err := s.validateTimes(a); err != nil {
		return err
	}
	if a.Status == "" {
		a.Status = StatusPending
	}
	if a.Status != StatusPending && a.Status != StatusConfirmed {
		return fmt.Errorf("new appointment status must be pending or confirmed")
	}

	overlapping, err := s.appts.CountOverlapping(ctx, a.PractitionerID, a.StartsAt, a.EndsAt, uuid.Nil)
	if err != nil {
		return err
	}
	if overlapping > 0 {
		return fmt.Errorf("practitioner already has an appointment in this slot")
	}
	return s.appts.Create(ctx, a)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appts.GetByID(ctx, id)
}

// Update reschedules or edits an appointment. Moving the slot re-checks
// practitioner availability and clears the reminder marker so the new
// time gets its own reminder.
func (s *Service) Update(ctx context.Context, a *Appointment) error {
	if err := s.validateTimes(a); err != nil {
		return err
	}
	if !validStatuses[a.Status] {
		return fmt.Errorf("invalid appointment status: %s", a.Status)
	}

	current, err := s.appts.GetByID(ctx, a.ID)
	if err != nil {
		return err
	}
	moved := !current.StartsAt.Equal(a.StartsAt) || !current.EndsAt.Equal(a.EndsAt)
	if moved {
		overlapping, err := s.appts.CountOverlapping(ctx, a.PractitionerID, a.StartsAt, a.EndsAt, a.ID)
		if err != nil {
			return err
		}
		if overlapping > 0 {
			return fmt.Errorf("practitioner already has an appointment in this slot")
		}
	}
	if err := s.appts.Update(ctx, a); err != nil {
		return err
	}
	if moved && current.RemindedAt != nil {
		return s.appts.ClearReminded(ctx, a.ID)
	}
	return nil
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Appointment, error) {
	if !validStatuses[status] {
		return nil, fmt.Errorf("invalid appointment status: %s", status)
	}
	a, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Status = status
	if err := s.appts.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.appts.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	return s.appts.List(ctx, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.appts.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListByPractitioner(ctx context.Context, practitionerID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.appts.ListByPractitioner(ctx, practitionerID, limit, offset)
}

func (s *Service) ListByRange(ctx context.Context, from, to time.Time, limit, offset int) ([]*Appointment, int, error) {
	if !to.After(from) {
		return nil, 0, fmt.Errorf("to must be after from")
	}
	return s.appts.ListByRange(ctx, from, to, limit, offset)
}
