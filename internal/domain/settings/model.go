package settings

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings is the clinic-wide configuration. Exactly one row exists.
type Settings struct {
	ClinicName          string          `json:"clinic_name" db:"clinic_name"`
	Address             *string         `json:"address,omitempty" db:"address"`
	Phone               *string         `json:"phone,omitempty" db:"phone"`
	Email               *string         `json:"email,omitempty" db:"email"`
	SIRET               *string         `json:"siret,omitempty" db:"siret"`
	Currency            string          `json:"currency" db:"currency"`
	DefaultTaxRate      decimal.Decimal `json:"default_tax_rate" db:"default_tax_rate"`
	DefaultCoverageRate decimal.Decimal `json:"default_coverage_rate" db:"default_coverage_rate"`
	OpeningHours        *string         `json:"opening_hours,omitempty" db:"opening_hours"`
	UpdatedAt           time.Time       `json:"updated_at" db:"updated_at"`
}
