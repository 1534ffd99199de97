package prescription

import (
	"time"

	"github.com/google/uuid"
)

// NumberPrefix is the document number prefix for prescriptions.
const NumberPrefix = "ORD"

// Prescription maps to the prescription table.
type Prescription struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	Number         string     `db:"number" json:"number"`
	PatientID      uuid.UUID  `db:"patient_id" json:"patient_id"`
	PractitionerID *uuid.UUID `db:"practitioner_id" json:"practitioner_id,omitempty"`
	PrescribedDate time.Time  `db:"prescribed_date" json:"prescribed_date"`
	Note           *string    `db:"note" json:"note,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`

	Items []*Item `db:"-" json:"items,omitempty"`
}

// Item maps to the prescription_item table.
type Item struct {
	ID             uuid.UUID `db:"id" json:"id"`
	PrescriptionID uuid.UUID `db:"prescription_id" json:"prescription_id"`
	Sequence       int       `db:"sequence" json:"sequence"`
	Medication     string    `db:"medication" json:"medication"`
	Dosage         *string   `db:"dosage" json:"dosage,omitempty"`
	Duration       *string   `db:"duration" json:"duration,omitempty"`
	Instructions   *string   `db:"instructions" json:"instructions,omitempty"`
}
