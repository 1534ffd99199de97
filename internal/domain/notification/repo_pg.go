package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dentio/clinic/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const notificationCols = `id, recipient_id, kind, message, ref_id, read_at, created_at`

func (r *repoPG) scanNotification(row pgx.Row) (*Notification, error) {
	var n Notification
	err := row.Scan(&n.ID, &n.RecipientID, &n.Kind, &n.Message, &n.RefID, &n.ReadAt, &n.CreatedAt)
	return &n, err
}

func (r *repoPG) Create(ctx context.Context, n *Notification) error {
	n.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO notification (id, recipient_id, kind, message, ref_id)
		VALUES ($1,$2,$3,$4,$5)`,
		n.ID, n.RecipientID, n.Kind, n.Message, n.RefID)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Notification, error) {
	return r.scanNotification(r.conn(ctx).QueryRow(ctx,
		`SELECT `+notificationCols+` FROM notification WHERE id = $1`, id))
}

func (r *repoPG) ListByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, limit, offset int) ([]*Notification, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM notification
		WHERE recipient_id = $1 AND (read_at IS NULL OR NOT $2)`, recipientID, unreadOnly).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+notificationCols+` FROM notification
		WHERE recipient_id = $1 AND (read_at IS NULL OR NOT $2)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`, recipientID, unreadOnly, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Notification
	for rows.Next() {
		n, err := r.scanNotification(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, n)
	}
	return items, total, nil
}

func (r *repoPG) MarkRead(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE notification SET read_at = NOW() WHERE id = $1 AND read_at IS NULL`, id)
	return err
}

func (r *repoPG) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE notification SET read_at = NOW() WHERE recipient_id = $1 AND read_at IS NULL`, recipientID)
	return err
}

func (r *repoPG) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int, error) {
	var count int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM notification WHERE recipient_id = $1 AND read_at IS NULL`, recipientID).Scan(&count)
	return count, err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM notification WHERE id = $1`, id)
	return err
}
