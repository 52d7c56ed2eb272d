package repo

import (
	"context"
	"database/sql"
	"encoding/json"

	domain "github.com/IDLKZ/jankuier-back-sub002/internal/entity"
)

// MySQLStatusRepo reads the seeded status catalog tables. Transition
// validation itself runs against the in-process catalog in the entity
// package; these queries back the read-only catalog endpoints.
type MySQLStatusRepo struct{ q DBTX }

func NewMySQLStatusRepo(q DBTX) *MySQLStatusRepo { return &MySQLStatusRepo{q: q} }

func (r *MySQLStatusRepo) ListOrderStatuses(ctx context.Context) ([]domain.StatusEntry, error) {
	return r.list(ctx, "order_statuses")
}

func (r *MySQLStatusRepo) ListOrderItemStatuses(ctx context.Context) ([]domain.StatusEntry, error) {
	return r.list(ctx, "order_item_statuses")
}

func (r *MySQLStatusRepo) list(ctx context.Context, table string) ([]domain.StatusEntry, error) {
	rows, err := r.q.QueryContext(ctx, `
SELECT id, previous_ids, next_ids, is_first, is_last, is_active
FROM `+table+` ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.StatusEntry
	for rows.Next() {
		var (
			e                domain.StatusEntry
			prevRaw, nextRaw sql.NullString
		)
		if err := rows.Scan(&e.ID, &prevRaw, &nextRaw, &e.IsFirst, &e.IsLast, &e.IsActive); err != nil {
			return nil, err
		}
		if prevRaw.Valid {
			_ = json.Unmarshal([]byte(prevRaw.String), &e.Previous)
		}
		if nextRaw.Valid {
			_ = json.Unmarshal([]byte(nextRaw.String), &e.Next)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
