package repo

import (
	"context"
	"time"

	"github.com/IDLKZ/jankuier-back-sub002/internal/usecase"
	"github.com/google/uuid"
)

// OutboxRecord is one pending event row, as read back by the publisher.
type OutboxRecord struct {
	ID        string
	Channel   string
	Payload   []byte
	CreatedAt time.Time
}

type MySQLOutboxRepo struct{ q DBTX }

func NewMySQLOutboxRepo(q DBTX) *MySQLOutboxRepo { return &MySQLOutboxRepo{q: q} }

// InsertEvent records an event in the same transaction as the state change
// that produced it.
func (r *MySQLOutboxRepo) InsertEvent(ctx context.Context, channel string, payload []byte) error {
	_, err := r.q.ExecContext(ctx, `
INSERT INTO outbox (id, channel, payload, status, created_at)
VALUES (?, ?, ?, 'PENDING', NOW())`, uuid.NewString(), channel, payload)
	return err
}

// FetchPending returns the oldest unpublished events for the drain loop.
func (r *MySQLOutboxRepo) FetchPending(ctx context.Context, limit int) ([]OutboxRecord, error) {
	rows, err := r.q.QueryContext(ctx, `
SELECT id, channel, payload, created_at
FROM outbox
WHERE status='PENDING'
ORDER BY created_at, id
LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OutboxRecord
	for rows.Next() {
		var rec OutboxRecord
		if err := rows.Scan(&rec.ID, &rec.Channel, &rec.Payload, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *MySQLOutboxRepo) MarkSent(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx, `
UPDATE outbox SET status='SENT', sent_at=NOW() WHERE id=?`, id)
	return err
}

var _ usecase.OutboxRepo = (*MySQLOutboxRepo)(nil)
