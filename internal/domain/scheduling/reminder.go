package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dentio/clinic/internal/platform/db"
	"github.com/dentio/clinic/internal/platform/metrics"
)

// Notifier creates a notification for a recipient. Implemented by the
// notification service; declared here so this package does not depend
// on it.
type Notifier interface {
	Notify(ctx context.Context, recipientID uuid.UUID, kind, message string, refID uuid.UUID) error
}

// ReminderConfig controls the reminder scanner.
type ReminderConfig struct {
	// Interval between scans.
	Interval time.Duration
	// Lead is how far ahead of the appointment the reminder fires.
	Lead time.Duration
	// RecipientID receives the reminder notifications (typically the
	// front-desk account).
	RecipientID uuid.UUID
}

// ReminderScanner periodically finds appointments starting within the
// configured lead window and creates one notification per appointment.
// The reminded_at marker is written in the same transaction as the
// notification, so each appointment is reminded at most once even
// across restarts.
type ReminderScanner struct {
	appts    Repository
	notifier Notifier
	runTx    db.TxRunner
	cfg      ReminderConfig
	log      zerolog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewReminderScanner(appts Repository, notifier Notifier, runTx db.TxRunner, cfg ReminderConfig, log zerolog.Logger, m *metrics.Metrics) *ReminderScanner {
	return &ReminderScanner{
		appts:    appts,
		notifier: notifier,
		runTx:    runTx,
		cfg:      cfg,
		log:      log,
		metrics:  m,
		now:      time.Now,
	}
}

// Run scans on a ticker until ctx is cancelled. Scans execute on this
// single goroutine, so a slow scan delays the next tick instead of
// overlapping with it.
func (s *ReminderScanner) Run(ctx context.Context) {
	s.log.Info().
		Dur("interval", s.cfg.Interval).
		Dur("lead", s.cfg.Lead).
		Msg("reminder scanner started")

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("reminder scanner stopped")
			return
		case <-ticker.C:
			sent, failed := s.Scan(ctx)
			if s.metrics != nil {
				s.metrics.ObserveScan(sent, failed)
			}
		}
	}
}

// Scan processes one batch and returns how many reminders were sent and
// how many appointments failed. A failure on one appointment never
// blocks the others; failed ones stay unmarked and are retried on the
// next tick.
func (s *ReminderScanner) Scan(ctx context.Context) (sent, failed int) {
	now := s.now()
	due, err := s.appts.ListDueForReminder(ctx, now, now.Add(s.cfg.Lead))
	if err != nil {
		s.log.Error().Err(err).Msg("reminder scan query failed")
		return 0, 0
	}

	for _, a := range due {
		if err := s.remind(ctx, a, now); err != nil {
			failed++
			s.log.Error().Err(err).
				Str("appointment_id", a.ID.String()).
				Msg("reminder failed")
			continue
		}
		sent++
	}
	if sent > 0 || failed > 0 {
		s.log.Info().Int("sent", sent).Int("failed", failed).Msg("reminder scan complete")
	}
	return sent, failed
}

func (s *ReminderScanner) remind(ctx context.Context, a *Appointment, now time.Time) error {
	msg := fmt.Sprintf("Appointment at %s (patient %s)",
		a.StartsAt.Format("2006-01-02 15:04"), a.PatientID)
	return s.runTx(ctx, func(ctx context.Context) error {
		if err := s.notifier.Notify(ctx, s.cfg.RecipientID, "appointment_reminder", msg, a.ID); err != nil {
			return err
		}
		return s.appts.MarkReminded(ctx, a.ID, now)
	})
}
