package repo

import (
	"context"
	"database/sql"

	domain "github.com/IDLKZ/jankuier-back-sub002/internal/entity"
	"github.com/IDLKZ/jankuier-back-sub002/internal/usecase"
	"github.com/shopspring/decimal"
)

type MySQLOrderItemRepo struct{ q DBTX }

func NewMySQLOrderItemRepo(q DBTX) *MySQLOrderItemRepo { return &MySQLOrderItemRepo{q: q} }

const orderItemColumns = `id, order_id, product_id, status_id, total_price, cancel_reason, created_at, updated_at, deleted_at`

func (r *MySQLOrderItemRepo) GetByID(ctx context.Context, id string) (*domain.OrderLineItem, error) {
	row := r.q.QueryRowContext(ctx, `
SELECT `+orderItemColumns+` FROM order_line_items WHERE id=? AND deleted_at IS NULL`, id)

	var (
		li     domain.OrderLineItem
		status string
		total  string
	)
	err := row.Scan(&li.ID, &li.OrderID, &li.ProductID, &status, &total,
		&li.CancelReason, &li.CreatedAt, &li.UpdatedAt, &li.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	li.StatusID = domain.OrderItemStatus(status)
	li.TotalPrice, err = decimal.NewFromString(total)
	if err != nil {
		return nil, err
	}
	return &li, nil
}

func (r *MySQLOrderItemRepo) Insert(ctx context.Context, li *domain.OrderLineItem) error {
	_, err := r.q.ExecContext(ctx, `
INSERT INTO order_line_items
  (id, order_id, product_id, status_id, total_price, cancel_reason, created_at, updated_at)
VALUES (?,?,?,?,?,?,?,?)`,
		li.ID, li.OrderID, li.ProductID, string(li.StatusID),
		li.TotalPrice.String(), li.CancelReason, li.CreatedAt, li.UpdatedAt)
	return err
}

func (r *MySQLOrderItemRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderItemStatus, cancelReason *string) error {
	res, err := r.q.ExecContext(ctx, `
UPDATE order_line_items
SET status_id=?, cancel_reason=?, updated_at=NOW()
WHERE id=? AND deleted_at IS NULL`, string(status), cancelReason, id)
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

func (r *MySQLOrderItemRepo) SoftDelete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `
UPDATE order_line_items SET deleted_at=NOW() WHERE id=? AND deleted_at IS NULL`, id)
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

func (r *MySQLOrderItemRepo) ListActive(ctx context.Context, orderID string) ([]domain.OrderLineItem, error) {
	rows, err := r.q.QueryContext(ctx, `
SELECT `+orderItemColumns+`
FROM order_line_items
WHERE order_id=? AND deleted_at IS NULL
ORDER BY created_at, id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.OrderLineItem
	for rows.Next() {
		var (
			li     domain.OrderLineItem
			status string
			total  string
		)
		err := rows.Scan(&li.ID, &li.OrderID, &li.ProductID, &status, &total,
			&li.CancelReason, &li.CreatedAt, &li.UpdatedAt, &li.DeletedAt)
		if err != nil {
			return nil, err
		}
		li.StatusID = domain.OrderItemStatus(status)
		li.TotalPrice, err = decimal.NewFromString(total)
		if err != nil {
			return nil, err
		}
		out = append(out, li)
	}
	return out, rows.Err()
}

// BulkUpdateStatus is the cascade write: one statement over all active items
// of the order. It bypasses history on purpose; top-down pushes are not
// audited per item.
func (r *MySQLOrderItemRepo) BulkUpdateStatus(ctx context.Context, orderID string, status domain.OrderItemStatus) error {
	_, err := r.q.ExecContext(ctx, `
UPDATE order_line_items
SET status_id=?, updated_at=NOW()
WHERE order_id=? AND deleted_at IS NULL`, string(status), orderID)
	return err
}

var _ usecase.OrderItemRepo = (*MySQLOrderItemRepo)(nil)
