package notification

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists notifications.
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, limit, offset int) ([]*Notification, int, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) error
	UnreadCount(ctx context.Context, recipientID uuid.UUID) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
