package repo

import (
	"context"
	"database/sql"

	domain "github.com/IDLKZ/jankuier-back-sub002/internal/entity"
	"github.com/IDLKZ/jankuier-back-sub002/internal/usecase"
	"github.com/shopspring/decimal"
)

type MySQLOrderRepo struct{ q DBTX }

func NewMySQLOrderRepo(q DBTX) *MySQLOrderRepo { return &MySQLOrderRepo{q: q} }

const orderColumns = `id, user_id, status_id, total_price, is_canceled, is_active, created_at, updated_at`

func (r *MySQLOrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.q.QueryRowContext(ctx, `
SELECT `+orderColumns+` FROM orders WHERE id=?`, id)
	return scanOrder(row)
}

// LockForUpdate pins the order row before the reconciler recomputes against
// its children, closing the read-modify-write window under concurrency.
func (r *MySQLOrderRepo) LockForUpdate(ctx context.Context, id string) (*domain.Order, error) {
	row := r.q.QueryRowContext(ctx, `
SELECT `+orderColumns+` FROM orders WHERE id=? FOR UPDATE`, id)
	return scanOrder(row)
}

func (r *MySQLOrderRepo) Create(ctx context.Context, o *domain.Order) error {
	_, err := r.q.ExecContext(ctx, `
INSERT INTO orders (id, user_id, status_id, total_price, is_canceled, is_active, created_at, updated_at)
VALUES (?,?,?,?,?,?,?,?)`,
		o.ID, o.UserID, string(o.StatusID), o.TotalPrice.String(),
		o.IsCanceled, o.IsActive, o.CreatedAt, o.UpdatedAt)
	return err
}

func (r *MySQLOrderRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	res, err := r.q.ExecContext(ctx, `
UPDATE orders SET status_id=?, updated_at=NOW() WHERE id=?`, string(status), id)
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

func (r *MySQLOrderRepo) UpdateTotal(ctx context.Context, id string, total decimal.Decimal) error {
	res, err := r.q.ExecContext(ctx, `
UPDATE orders SET total_price=?, updated_at=NOW() WHERE id=?`, total.String(), id)
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

func (r *MySQLOrderRepo) MarkCancelled(ctx context.Context, id string, status domain.OrderStatus, total decimal.Decimal) error {
	res, err := r.q.ExecContext(ctx, `
UPDATE orders
SET status_id=?, total_price=?, is_canceled=TRUE, is_active=FALSE, updated_at=NOW()
WHERE id=?`, string(status), total.String(), id)
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

func scanOrder(row *sql.Row) (*domain.Order, error) {
	var (
		o      domain.Order
		status string
		total  string
	)
	err := row.Scan(&o.ID, &o.UserID, &status, &total, &o.IsCanceled, &o.IsActive, &o.CreatedAt, &o.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	o.StatusID = domain.OrderStatus(status)
	o.TotalPrice, err = decimal.NewFromString(total)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

var _ usecase.OrderRepo = (*MySQLOrderRepo)(nil)
