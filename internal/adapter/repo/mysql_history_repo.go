package repo

import (
	"context"
	"database/sql"

	domain "github.com/IDLKZ/jankuier-back-sub002/internal/entity"
	"github.com/IDLKZ/jankuier-back-sub002/internal/usecase"
)

// MySQLHistoryRepo writes and reads the append-only order_item_history table.
// There is deliberately no UPDATE or DELETE here.
type MySQLHistoryRepo struct{ q DBTX }

func NewMySQLHistoryRepo(q DBTX) *MySQLHistoryRepo { return &MySQLHistoryRepo{q: q} }

func (r *MySQLHistoryRepo) Insert(ctx context.Context, e *domain.OrderItemHistoryEntry) error {
	_, err := r.q.ExecContext(ctx, `
INSERT INTO order_item_history
  (id, order_item_id, status_id, responsible_user,
   message_kk, message_ru, message_en,
   is_passed, cancel_reason, taken_at, passed_at, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		e.ID, e.OrderItemID, string(e.StatusID), e.ResponsibleUser,
		e.MessageKK, e.MessageRU, e.MessageEN,
		e.IsPassed, e.CancelReason, e.TakenAt, e.PassedAt, e.CreatedAt)
	return err
}

func (r *MySQLHistoryRepo) ListByItem(ctx context.Context, orderItemID string) ([]domain.OrderItemHistoryEntry, error) {
	rows, err := r.q.QueryContext(ctx, `
SELECT id, order_item_id, status_id, responsible_user,
       message_kk, message_ru, message_en,
       is_passed, cancel_reason, taken_at, passed_at, created_at
FROM order_item_history
WHERE order_item_id=?
ORDER BY created_at, id`, orderItemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.OrderItemHistoryEntry
	for rows.Next() {
		var (
			e      domain.OrderItemHistoryEntry
			status string
		)
		err := rows.Scan(&e.ID, &e.OrderItemID, &status, &e.ResponsibleUser,
			&e.MessageKK, &e.MessageRU, &e.MessageEN,
			&e.IsPassed, &e.CancelReason, &e.TakenAt, &e.PassedAt, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		e.StatusID = domain.OrderItemStatus(status)
		out = append(out, e)
	}
	return out, rows.Err()
}

var _ usecase.HistoryRepo = (*MySQLHistoryRepo)(nil)

type MySQLVerificationCodeRepo struct{ q DBTX }

func NewMySQLVerificationCodeRepo(q DBTX) *MySQLVerificationCodeRepo {
	return &MySQLVerificationCodeRepo{q: q}
}

func (r *MySQLVerificationCodeRepo) Insert(ctx context.Context, vc *domain.VerificationCode) error {
	_, err := r.q.ExecContext(ctx, `
INSERT INTO order_item_verification_codes (id, order_item_id, code, is_active, created_at)
VALUES (?,?,?,?,?)`,
		vc.ID, vc.OrderItemID, vc.Code, vc.IsActive, vc.CreatedAt)
	return err
}

func (r *MySQLVerificationCodeRepo) GetActiveByItem(ctx context.Context, orderItemID string) (*domain.VerificationCode, error) {
	row := r.q.QueryRowContext(ctx, `
SELECT id, order_item_id, code, is_active, created_at
FROM order_item_verification_codes
WHERE order_item_id=? AND is_active=TRUE`, orderItemID)

	var vc domain.VerificationCode
	err := row.Scan(&vc.ID, &vc.OrderItemID, &vc.Code, &vc.IsActive, &vc.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &vc, nil
}

func (r *MySQLVerificationCodeRepo) Deactivate(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `
UPDATE order_item_verification_codes SET is_active=FALSE WHERE id=? AND is_active=TRUE`, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

var _ usecase.VerificationCodeRepo = (*MySQLVerificationCodeRepo)(nil)
