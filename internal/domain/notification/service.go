package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, n *Notification) error {
	if n.RecipientID == uuid.Nil {
		return fmt.Errorf("recipient_id is required")
	}
	n.Message = strings.TrimSpace(n.Message)
	if n.Message == "" {
		return fmt.Errorf("message is required")
	}
	if n.Kind == "" {
		n.Kind = KindSystem
	}
	return s.repo.Create(ctx, n)
}

// Notify creates a notification for recipientID. It satisfies the
// notifier interface the appointment reminder scanner depends on.
func (s *Service) Notify(ctx context.Context, recipientID uuid.UUID, kind, message string, refID uuid.UUID) error {
	n := &Notification{
		RecipientID: recipientID,
		Kind:        kind,
		Message:     message,
	}
	if refID != uuid.Nil {
		n.RefID = &refID
	}
	return s.Create(ctx, n)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Notification, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, limit, offset int) ([]*Notification, int, error) {
	return s.repo.ListByRecipient(ctx, recipientID, unreadOnly, limit, offset)
}

func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("notification not found")
	}
	return s.repo.MarkRead(ctx, id)
}

func (s *Service) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, recipientID)
}

func (s *Service) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int, error) {
	return s.repo.UnreadCount(ctx, recipientID)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
