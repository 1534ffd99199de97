package caresheet

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Care sheet statuses.
const (
	StatusDraft      = "draft"
	StatusSubmitted  = "submitted"
	StatusReimbursed = "reimbursed"
	StatusRejected   = "rejected"
)

// NumberPrefix is the document number prefix for care sheets.
const NumberPrefix = "FDS"

// CareSheet maps to the care_sheet table. It records the acts performed
// and how the total splits between the insurer and the patient.
type CareSheet struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	Number        string          `db:"number" json:"number"`
	PatientID     uuid.UUID       `db:"patient_id" json:"patient_id"`
	PractitionerID *uuid.UUID     `db:"practitioner_id" json:"practitioner_id,omitempty"`
	Status        string          `db:"status" json:"status"`
	CareDate      time.Time       `db:"care_date" json:"care_date"`
	InsurerName   *string         `db:"insurer_name" json:"insurer_name,omitempty"`
	CoverageRate  decimal.Decimal `db:"coverage_rate" json:"coverage_rate"`
	TotalAmount   decimal.Decimal `db:"total_amount" json:"total_amount"`
	InsurerShare  decimal.Decimal `db:"insurer_share" json:"insurer_share"`
	PatientShare  decimal.Decimal `db:"patient_share" json:"patient_share"`
	Note          *string         `db:"note" json:"note,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`

	Acts []*Act `db:"-" json:"acts,omitempty"`
}

// Act maps to the care_sheet_act table. Each act carries its own fee;
// the sheet total is the sum of act fees.
type Act struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	CareSheetID uuid.UUID       `db:"care_sheet_id" json:"care_sheet_id"`
	Sequence    int             `db:"sequence" json:"sequence"`
	Code        string          `db:"code" json:"code"`
	Description string          `db:"description" json:"description"`
	Tooth       *string         `db:"tooth" json:"tooth,omitempty"`
	Fee         decimal.Decimal `db:"fee" json:"fee"`
}
