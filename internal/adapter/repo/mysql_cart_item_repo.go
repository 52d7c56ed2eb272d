package repo

import (
	"context"
	"database/sql"

	domain "github.com/IDLKZ/jankuier-back-sub002/internal/entity"
	"github.com/IDLKZ/jankuier-back-sub002/internal/usecase"
	"github.com/shopspring/decimal"
)

type MySQLCartItemRepo struct{ q DBTX }

func NewMySQLCartItemRepo(q DBTX) *MySQLCartItemRepo { return &MySQLCartItemRepo{q: q} }

func (r *MySQLCartItemRepo) GetByID(ctx context.Context, id string) (*domain.CartLineItem, error) {
	row := r.q.QueryRowContext(ctx, `
SELECT id, cart_id, product_id, variant_id, qty, product_price, delta_price,
       unit_price, total_price, created_at, updated_at, deleted_at
FROM cart_line_items WHERE id=? AND deleted_at IS NULL`, id)

	var (
		li                          domain.CartLineItem
		product, delta, unit, total string
	)
	err := row.Scan(&li.ID, &li.CartID, &li.ProductID, &li.VariantID, &li.Qty,
		&product, &delta, &unit, &total, &li.CreatedAt, &li.UpdatedAt, &li.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := scanMoney(map[*decimal.Decimal]string{
		&li.ProductPrice: product, &li.DeltaPrice: delta,
		&li.UnitPrice: unit, &li.TotalPrice: total,
	}); err != nil {
		return nil, err
	}
	return &li, nil
}

func (r *MySQLCartItemRepo) Insert(ctx context.Context, li *domain.CartLineItem) error {
	_, err := r.q.ExecContext(ctx, `
INSERT INTO cart_line_items
  (id, cart_id, product_id, variant_id, qty, product_price, delta_price,
   unit_price, total_price, created_at, updated_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		li.ID, li.CartID, li.ProductID, li.VariantID, li.Qty,
		li.ProductPrice.String(), li.DeltaPrice.String(),
		li.UnitPrice.String(), li.TotalPrice.String(),
		li.CreatedAt, li.UpdatedAt)
	return err
}

func (r *MySQLCartItemRepo) Update(ctx context.Context, li *domain.CartLineItem) error {
	res, err := r.q.ExecContext(ctx, `
UPDATE cart_line_items
SET qty=?, product_price=?, delta_price=?, unit_price=?, total_price=?, updated_at=NOW()
WHERE id=? AND deleted_at IS NULL`,
		li.Qty, li.ProductPrice.String(), li.DeltaPrice.String(),
		li.UnitPrice.String(), li.TotalPrice.String(), li.ID)
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

func (r *MySQLCartItemRepo) SoftDelete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `
UPDATE cart_line_items SET deleted_at=NOW() WHERE id=? AND deleted_at IS NULL`, id)
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

func (r *MySQLCartItemRepo) ListActiveDetails(ctx context.Context, cartID string) ([]domain.CartLineItemDetail, error) {
	rows, err := r.q.QueryContext(ctx, `
SELECT li.id, li.cart_id, li.product_id, li.variant_id, li.qty,
       li.product_price, li.delta_price, li.unit_price, li.total_price,
       li.created_at, li.updated_at,
       p.id, p.sku, p.title, p.price, p.image_url, p.created_at, p.updated_at,
       v.id, v.product_id, v.title, v.delta_price
FROM cart_line_items li
JOIN products p ON p.id = li.product_id
LEFT JOIN product_variants v ON v.id = li.variant_id
WHERE li.cart_id=? AND li.deleted_at IS NULL
ORDER BY li.created_at, li.id`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CartLineItemDetail
	for rows.Next() {
		var (
			d                       domain.CartLineItemDetail
			liProduct, liDelta      string
			liUnit, liTotal         string
			productPrice            string
			vID, vProductID, vTitle sql.NullString
			vDelta                  sql.NullString
		)
		err := rows.Scan(
			&d.Item.ID, &d.Item.CartID, &d.Item.ProductID, &d.Item.VariantID, &d.Item.Qty,
			&liProduct, &liDelta, &liUnit, &liTotal,
			&d.Item.CreatedAt, &d.Item.UpdatedAt,
			&d.Product.ID, &d.Product.SKU, &d.Product.Title, &productPrice,
			&d.Product.ImageURL, &d.Product.CreatedAt, &d.Product.UpdatedAt,
			&vID, &vProductID, &vTitle, &vDelta,
		)
		if err != nil {
			return nil, err
		}
		if err := scanMoney(map[*decimal.Decimal]string{
			&d.Item.ProductPrice: liProduct, &d.Item.DeltaPrice: liDelta,
			&d.Item.UnitPrice: liUnit, &d.Item.TotalPrice: liTotal,
			&d.Product.Price: productPrice,
		}); err != nil {
			return nil, err
		}
		if vID.Valid {
			variant := domain.ProductVariant{
				ID:        vID.String,
				ProductID: vProductID.String,
				Title:     vTitle.String,
			}
			if vDelta.Valid {
				variant.DeltaPrice, err = decimal.NewFromString(vDelta.String)
				if err != nil {
					return nil, err
				}
			}
			d.Variant = &variant
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// scanMoney parses decimal columns read back as strings.
func scanMoney(cols map[*decimal.Decimal]string) error {
	for dst, raw := range cols {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return err
		}
		*dst = d
	}
	return nil
}

var _ usecase.CartItemRepo = (*MySQLCartItemRepo)(nil)
