package caresheet

import "github.com/shopspring/decimal"

// Split divides a total between the insurer and the patient given a
// coverage rate in percent. The insurer share is total * rate / 100
// rounded to the cent and the patient share is the remainder, so the two
// sum to the total exactly and survive storage in two-decimal columns
// unchanged.
func Split(total, rate decimal.Decimal) (insurer, patient decimal.Decimal) {
	insurer = total.Mul(rate).Shift(-2).Round(2)
	patient = total.Sub(insurer)
	return insurer, patient
}
