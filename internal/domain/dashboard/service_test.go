package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type stubRepo struct {
	patients  int
	today     int
	pending   int
	issued    decimal.Decimal
	collected decimal.Decimal
	unpaid    int
	lowStock  int
	unread    int

	dayFrom, dayTo     time.Time
	monthFrom, monthTo time.Time
	unreadAskedFor     *uuid.UUID
}

func (s *stubRepo) PatientCount(_ context.Context) (int, error) { return s.patients, nil }

func (s *stubRepo) AppointmentCountBetween(_ context.Context, from, to time.Time) (int, error) {
	s.dayFrom, s.dayTo = from, to
	return s.today, nil
}

func (s *stubRepo) AppointmentPendingCount(_ context.Context, _ time.Time) (int, error) {
	return s.pending, nil
}

func (s *stubRepo) RevenueIssuedBetween(_ context.Context, from, to time.Time) (decimal.Decimal, error) {
	s.monthFrom, s.monthTo = from, to
	return s.issued, nil
}

func (s *stubRepo) RevenueCollectedBetween(_ context.Context, _, _ time.Time) (decimal.Decimal, error) {
	return s.collected, nil
}

func (s *stubRepo) UnpaidInvoiceCount(_ context.Context) (int, error) { return s.unpaid, nil }
func (s *stubRepo) LowStockCount(_ context.Context) (int, error)      { return s.lowStock, nil }

func (s *stubRepo) UnreadNotificationCount(_ context.Context, recipientID uuid.UUID) (int, error) {
	s.unreadAskedFor = &recipientID
	return s.unread, nil
}

func TestSummary(t *testing.T) {
	repo := &stubRepo{
		patients:  120,
		today:     8,
		pending:   15,
		issued:    decimal.RequireFromString("4250.00"),
		collected: decimal.RequireFromString("3100.50"),
		unpaid:    4,
		lowStock:  2,
		unread:    3,
	}
	svc := NewService(repo)
	svc.now = func() time.Time {
		return time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC)
	}

	recipient := uuid.New()
	out, err := svc.Summary(context.Background(), recipient)
	if err != nil {
		t.Fatal(err)
	}

	if out.PatientCount != 120 || out.AppointmentsToday != 8 || out.UnpaidInvoiceCount != 4 {
		t.Errorf("unexpected summary: %+v", out)
	}
	if !out.RevenueCollectedMonth.Equal(decimal.RequireFromString("3100.50")) {
		t.Errorf("collected = %s", out.RevenueCollectedMonth)
	}
	if out.UnreadNotifications != 3 {
		t.Errorf("unread = %d", out.UnreadNotifications)
	}

	wantDayFrom := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	if !repo.dayFrom.Equal(wantDayFrom) || !repo.dayTo.Equal(wantDayFrom.AddDate(0, 0, 1)) {
		t.Errorf("day window = [%v, %v)", repo.dayFrom, repo.dayTo)
	}
	wantMonthFrom := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	if !repo.monthFrom.Equal(wantMonthFrom) || !repo.monthTo.Equal(wantMonthFrom.AddDate(0, 1, 0)) {
		t.Errorf("month window = [%v, %v)", repo.monthFrom, repo.monthTo)
	}
	if repo.unreadAskedFor == nil || *repo.unreadAskedFor != recipient {
		t.Error("unread count not queried for the recipient")
	}
}

func TestSummary_NoRecipient(t *testing.T) {
	repo := &stubRepo{unread: 99}
	svc := NewService(repo)

	out, err := svc.Summary(context.Background(), uuid.Nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.UnreadNotifications != 0 {
		t.Errorf("unread = %d, want 0 when no recipient", out.UnreadNotifications)
	}
	if repo.unreadAskedFor != nil {
		t.Error("unread count should not be queried without a recipient")
	}
}
