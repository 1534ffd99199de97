package prescription

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dentio/clinic/internal/platform/db"
	"github.com/dentio/clinic/internal/platform/sequence"
)

type Service struct {
	prescriptions Repository
	seq           sequence.Generator
	runTx         db.TxRunner
	now           func() time.Time
}

func NewService(prescriptions Repository, seq sequence.Generator, runTx db.TxRunner) *Service {
	return &Service{prescriptions: prescriptions, seq: seq, runTx: runTx, now: time.Now}
}

func validateItems(items []*Item) error {
	if len(items) == 0 {
		return fmt.Errorf("at least one item is required")
	}
	for i, it := range items {
		if it.Medication == "" {
			return fmt.Errorf("item %d: medication is required", i+1)
		}
	}
	return nil
}

// Create assigns the next ORD number and writes the prescription and its
// items in one transaction.
func (s *Service) Create(ctx context.Context, p *Prescription) error {
	if p.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if err := validateItems(p.Items); err != nil {
		return err
	}
	if p.PrescribedDate.IsZero() {
		p.PrescribedDate = s.now()
	}
	for i, it := range p.Items {
		it.Sequence = i + 1
	}

	return s.runTx(ctx, func(ctx context.Context) error {
		n, err := s.seq.Next(ctx, NumberPrefix, p.PrescribedDate.Year())
		if err != nil {
			return fmt.Errorf("allocate prescription number: %w", err)
		}
		p.Number = sequence.Format(NumberPrefix, p.PrescribedDate.Year(), n)

		if err := s.prescriptions.Create(ctx, p); err != nil {
			return err
		}
		for _, it := range p.Items {
			it.PrescriptionID = p.ID
			if err := s.prescriptions.AddItem(ctx, it); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	p, err := s.prescriptions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Items, err = s.prescriptions.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetByNumber(ctx context.Context, number string) (*Prescription, error) {
	p, err := s.prescriptions.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	p.Items, err = s.prescriptions.GetItems(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Prescription, int, error) {
	return s.prescriptions.List(ctx, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Prescription, int, error) {
	return s.prescriptions.ListByPatient(ctx, patientID, limit, offset)
}

// Update rewrites a prescription's header and items. The document number
// never changes.
func (s *Service) Update(ctx context.Context, p *Prescription) error {
	if err := validateItems(p.Items); err != nil {
		return err
	}
	current, err := s.prescriptions.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	p.Number = current.Number
	p.PatientID = current.PatientID
	if p.PrescribedDate.IsZero() {
		p.PrescribedDate = current.PrescribedDate
	}
	for i, it := range p.Items {
		it.Sequence = i + 1
		it.PrescriptionID = p.ID
	}

	return s.runTx(ctx, func(ctx context.Context) error {
		if err := s.prescriptions.Update(ctx, p); err != nil {
			return err
		}
		if err := s.prescriptions.DeleteItems(ctx, p.ID); err != nil {
			return err
		}
		for _, it := range p.Items {
			if err := s.prescriptions.AddItem(ctx, it); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.prescriptions.Delete(ctx, id)
}
