package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Summary assembles the dashboard aggregates. recipientID may be uuid.Nil,
// in which case the unread-notifications figure is left at zero.
func (s *Service) Summary(ctx context.Context, recipientID uuid.UUID) (*Summary, error) {
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	var (
		out Summary
		err error
	)
	if out.PatientCount, err = s.repo.PatientCount(ctx); err != nil {
		return nil, err
	}
	if out.AppointmentsToday, err = s.repo.AppointmentCountBetween(ctx, dayStart, dayEnd); err != nil {
		return nil, err
	}
	if out.AppointmentsPending, err = s.repo.AppointmentPendingCount(ctx, now); err != nil {
		return nil, err
	}
	if out.RevenueIssuedMonth, err = s.repo.RevenueIssuedBetween(ctx, monthStart, monthEnd); err != nil {
		return nil, err
	}
	if out.RevenueCollectedMonth, err = s.repo.RevenueCollectedBetween(ctx, monthStart, monthEnd); err != nil {
		return nil, err
	}
	if out.UnpaidInvoiceCount, err = s.repo.UnpaidInvoiceCount(ctx); err != nil {
		return nil, err
	}
	if out.LowStockCount, err = s.repo.LowStockCount(ctx); err != nil {
		return nil, err
	}
	if recipientID != uuid.Nil {
		if out.UnreadNotifications, err = s.repo.UnreadNotificationCount(ctx, recipientID); err != nil {
			return nil, err
		}
	}
	return &out, nil
}
