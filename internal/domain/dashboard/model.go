package dashboard

import "github.com/shopspring/decimal"

// Summary is the set of clinic-wide aggregates shown on the home screen.
type Summary struct {
	PatientCount          int             `json:"patient_count"`
	AppointmentsToday     int             `json:"appointments_today"`
	AppointmentsPending   int             `json:"appointments_pending"`
	RevenueIssuedMonth    decimal.Decimal `json:"revenue_issued_month"`
	RevenueCollectedMonth decimal.Decimal `json:"revenue_collected_month"`
	UnpaidInvoiceCount    int             `json:"unpaid_invoice_count"`
	LowStockCount         int             `json:"low_stock_count"`
	UnreadNotifications   int             `json:"unread_notifications"`
}
