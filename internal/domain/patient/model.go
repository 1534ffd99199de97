package patient

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Patient maps to the patient table.
type Patient struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	FirstName string     `db:"first_name" json:"first_name"`
	LastName  string     `db:"last_name" json:"last_name"`
	BirthDate *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Gender    *string    `db:"gender" json:"gender,omitempty"`
	Phone     *string    `db:"phone" json:"phone,omitempty"`
	Email     *string    `db:"email" json:"email,omitempty"`
	Address   *string    `db:"address" json:"address,omitempty"`

	// Medical background, free text.
	Allergies      *string `db:"allergies" json:"allergies,omitempty"`
	MedicalHistory *string `db:"medical_history" json:"medical_history,omitempty"`

	// Insurance defaults used to prefill care sheets.
	InsurerName   *string          `db:"insurer_name" json:"insurer_name,omitempty"`
	InsuredNumber *string          `db:"insured_number" json:"insured_number,omitempty"`
	CoverageRate  *decimal.Decimal `db:"coverage_rate" json:"coverage_rate,omitempty"`

	Archived  bool      `db:"archived" json:"archived"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Document maps to the patient_document table. Only metadata lives here;
// the file itself sits on disk under the configured document root.
type Document struct {
	ID          uuid.UUID `db:"id" json:"id"`
	PatientID   uuid.UUID `db:"patient_id" json:"patient_id"`
	Filename    string    `db:"filename" json:"filename"`
	ContentType string    `db:"content_type" json:"content_type"`
	SizeBytes   int64     `db:"size_bytes" json:"size_bytes"`
	StoragePath string    `db:"storage_path" json:"storage_path"`
	Label       *string   `db:"label" json:"label,omitempty"`
	UploadedBy  *string   `db:"uploaded_by" json:"uploaded_by,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
