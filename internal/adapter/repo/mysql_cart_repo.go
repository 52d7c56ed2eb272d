package repo

import (
	"context"
	"database/sql"

	domain "github.com/IDLKZ/jankuier-back-sub002/internal/entity"
	"github.com/IDLKZ/jankuier-back-sub002/internal/usecase"
	"github.com/shopspring/decimal"
)

// ErrNotFound aliases the usecase sentinel so errors.Is works across layers.
var ErrNotFound = usecase.ErrNotFound

type MySQLCartRepo struct{ q DBTX }

func NewMySQLCartRepo(q DBTX) *MySQLCartRepo { return &MySQLCartRepo{q: q} }

const cartColumns = `id, user_id, total_price, cart_items, created_at, updated_at`

func (r *MySQLCartRepo) GetByID(ctx context.Context, id string) (*domain.Cart, error) {
	row := r.q.QueryRowContext(ctx, `
SELECT `+cartColumns+` FROM carts WHERE id=?`, id)
	return scanCart(row)
}

func (r *MySQLCartRepo) GetByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	row := r.q.QueryRowContext(ctx, `
SELECT `+cartColumns+` FROM carts WHERE user_id=?`, userID)
	return scanCart(row)
}

// LockForUpdate pins the cart row for the rest of the transaction so
// concurrent recomputes serialize instead of racing read-modify-write.
func (r *MySQLCartRepo) LockForUpdate(ctx context.Context, id string) (*domain.Cart, error) {
	row := r.q.QueryRowContext(ctx, `
SELECT `+cartColumns+` FROM carts WHERE id=? FOR UPDATE`, id)
	return scanCart(row)
}

func (r *MySQLCartRepo) Create(ctx context.Context, c *domain.Cart) error {
	_, err := r.q.ExecContext(ctx, `
INSERT INTO carts (id, user_id, total_price, cart_items, created_at, updated_at)
VALUES (?,?,?,?,?,?)`,
		c.ID, c.UserID, c.TotalPrice.String(), c.CartItems, c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *MySQLCartRepo) UpdateAggregate(ctx context.Context, id string, total decimal.Decimal, snapshot []byte) error {
	res, err := r.q.ExecContext(ctx, `
UPDATE carts SET total_price=?, cart_items=?, updated_at=NOW() WHERE id=?`,
		total.String(), snapshot, id)
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

func scanCart(row *sql.Row) (*domain.Cart, error) {
	var (
		c     domain.Cart
		total string
	)
	err := row.Scan(&c.ID, &c.UserID, &total, &c.CartItems, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.TotalPrice, err = decimal.NewFromString(total)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

var _ usecase.CartRepo = (*MySQLCartRepo)(nil)
