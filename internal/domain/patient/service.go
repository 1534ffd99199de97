package patient

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service struct {
	patients Repository
}

func NewService(patients Repository) *Service {
	return &Service{patients: patients}
}

var hundred = decimal.NewFromInt(100)

func validate(p *Patient) error {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	if p.FirstName == "" || p.LastName == "" {
		return fmt.Errorf("first_name and last_name are required")
	}
	if p.CoverageRate != nil {
		if p.CoverageRate.IsNegative() || p.CoverageRate.GreaterThan(hundred) {
			return fmt.Errorf("coverage_rate must be between 0 and 100")
		}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, p *Patient) error {
	if err := validate(p); err != nil {
		return err
	}
	return s.patients.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, p *Patient) error {
	if err := validate(p); err != nil {
		return err
	}
	return s.patients.Update(ctx, p)
}

// Archive hides the patient from default listings without losing the
// record or the documents behind it.
func (s *Service) Archive(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Archived = true
	if err := s.patients.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.patients.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, includeArchived bool, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, includeArchived, limit, offset)
}

func (s *Service) Search(ctx context.Context, query string, limit, offset int) ([]*Patient, int, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.patients.List(ctx, false, limit, offset)
	}
	return s.patients.Search(ctx, query, limit, offset)
}

// -- Documents --

func (s *Service) AddDocument(ctx context.Context, d *Document) error {
	if d.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if d.Filename == "" {
		return fmt.Errorf("filename is required")
	}
	if d.SizeBytes < 0 {
		return fmt.Errorf("size_bytes must not be negative")
	}
	if _, err := s.patients.GetByID(ctx, d.PatientID); err != nil {
		return fmt.Errorf("patient not found")
	}
	return s.patients.AddDocument(ctx, d)
}

func (s *Service) GetDocument(ctx context.Context, id uuid.UUID) (*Document, error) {
	return s.patients.GetDocument(ctx, id)
}

func (s *Service) ListDocuments(ctx context.Context, patientID uuid.UUID) ([]*Document, error) {
	return s.patients.ListDocuments(ctx, patientID)
}

func (s *Service) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	return s.patients.DeleteDocument(ctx, id)
}
