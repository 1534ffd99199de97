package caresheet

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
	sheets Repository
	seq    sequence.Generator
	runTx  db.TxRunner
	now    func() time.Time
}

func NewService(sheets Repository, seq sequence.Generator, runTx db.TxRunner) *Service {
	return &Service{sheets: sheets, seq: seq, runTx: runTx, now: time.Now}
}

var validStatuses = map[string]bool{
	StatusDraft: true, StatusSubmitted: true, StatusReimbursed: true, StatusRejected: true,
}

var hundred = decimal.NewFromInt(100)

func validateActs(acts []*Act, coverageRate decimal.Decimal) error {
	if len(acts) == 0 {
		return fmt.Errorf("at least one act is required")
	}
	for i, a := range acts {
		if a.Code == "" {
			return fmt.Errorf("act %d: code is required", i+1)
		}
		if a.Fee.IsNegative() {
			return fmt.Errorf("act %d: fee must not be negative", i+1)
		}
	}
	if coverageRate.IsNegative() || coverageRate.GreaterThan(hundred) {
		return fmt.Errorf("coverage_rate must be between 0 and 100")
	}
	return nil
}

// Create validates the acts, sums their fees, computes the insurer and
// patient shares, assigns the next FDS number and persists everything in
// one transaction.
func (s *Service) Create(ctx context.Context, cs *CareSheet) error {
	if cs.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if err := validateActs(cs.Acts, cs.CoverageRate); err != nil {
		return err
	}
	if cs.Status == "" {
		cs.Status = StatusDraft
	}
	if cs.Status != StatusDraft && cs.Status != StatusSubmitted {
		return fmt.Errorf("new care sheet status must be draft or submitted")
	}
	if cs.CareDate.IsZero() {
		cs.CareDate = s.now()
	}

	cs.TotalAmount = decimal.Zero
	for i, a := range cs.Acts {
		a.Sequence = i + 1
		cs.TotalAmount = cs.TotalAmount.Add(a.Fee)
	}
	cs.InsurerShare, cs.PatientShare = Split(cs.TotalAmount, cs.CoverageRate)

	return s.runTx(ctx, func(ctx context.Context) error {
		n, err := s.seq.Next(ctx, NumberPrefix, cs.CareDate.Year())
		if err != nil {
			return fmt.Errorf("allocate care sheet number: %w", err)
		}
		cs.Number = sequence.Format(NumberPrefix, cs.CareDate.Year(), n)

		if err := s.sheets.Create(ctx, cs); err != nil {
			return err
		}
		for _, a := range cs.Acts {
			a.CareSheetID = cs.ID
			if err := s.sheets.AddAct(ctx, a); err != nil {
				return err
			}
		}
		return nil
	})
}

// Get loads a care sheet with its acts.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*CareSheet, error) {
	cs, err := s.sheets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cs.Acts, err = s.sheets.GetActs(ctx, id)
	if err != nil {
		return nil, err
	}
	return cs, nil
}

func (s *Service) GetByNumber(ctx context.Context, number string) (*CareSheet, error) {
	cs, err := s.sheets.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	cs.Acts, err = s.sheets.GetActs(ctx, cs.ID)
	if err != nil {
		return nil, err
	}
	return cs, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*CareSheet, int, error) {
	return s.sheets.List(ctx, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*CareSheet, int, error) {
	return s.sheets.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*CareSheet, int, error) {
	if !validStatuses[status] {
		return nil, 0, fmt.Errorf("invalid care sheet status: %s", status)
	}
	return s.sheets.ListByStatus(ctx, status, limit, offset)
}

// Update replaces a draft care sheet's acts and coverage rate and
// recomputes the total and the share split. The number and patient are
// kept from the stored sheet; once submitted a sheet can only change
// status.
func (s *Service) Update(ctx context.Context, cs *CareSheet) (*CareSheet, error) {
	if err := validateActs(cs.Acts, cs.CoverageRate); err != nil {
		return nil, err
	}

	var current *CareSheet
	err := s.runTx(ctx, func(ctx context.Context) error {
		var err error
		current, err = s.sheets.GetByID(ctx, cs.ID)
		if err != nil {
			return err
		}
		if current.Status != StatusDraft {
			return fmt.Errorf("only draft care sheets can be edited (status %s)", current.Status)
		}

		current.CoverageRate = cs.CoverageRate
		if cs.InsurerName != nil {
			current.InsurerName = cs.InsurerName
		}
		if cs.Note != nil {
			current.Note = cs.Note
		}
		if !cs.CareDate.IsZero() {
			current.CareDate = cs.CareDate
		}

		current.TotalAmount = decimal.Zero
		for i, a := range cs.Acts {
			a.Sequence = i + 1
			current.TotalAmount = current.TotalAmount.Add(a.Fee)
		}
		current.InsurerShare, current.PatientShare = Split(current.TotalAmount, current.CoverageRate)

		if err := s.sheets.DeleteActs(ctx, current.ID); err != nil {
			return err
		}
		for _, a := range cs.Acts {
			a.CareSheetID = current.ID
			if err := s.sheets.AddAct(ctx, a); err != nil {
				return err
			}
		}
		current.Acts = cs.Acts
		return s.sheets.Update(ctx, current)
	})
	if err != nil {
		return nil, err
	}
	return current, nil
}

// statusTransitions lists the allowed next statuses per current status.
var statusTransitions = map[string][]string{
	StatusDraft:     {StatusSubmitted},
	StatusSubmitted: {StatusReimbursed, StatusRejected},
}

// UpdateStatus moves a care sheet along draft -> submitted -> reimbursed
// or rejected.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*CareSheet, error) {
	if !validStatuses[status] {
		return nil, fmt.Errorf("invalid care sheet status: %s", status)
	}
	cs, err := s.sheets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	allowed := false
	for _, next := range statusTransitions[cs.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("cannot move care sheet from %s to %s", cs.Status, status)
	}
	cs.Status = status
	if err := s.sheets.Update(ctx, cs); err != nil {
		return nil, err
	}
	return cs, nil
}

// Delete removes a draft care sheet.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	cs, err := s.sheets.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if cs.Status != StatusDraft {
		return fmt.Errorf("only draft care sheets can be deleted")
	}
	return s.sheets.Delete(ctx, id)
}
