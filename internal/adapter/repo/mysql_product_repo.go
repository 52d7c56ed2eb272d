package repo

import (
	"context"
	"database/sql"

	domain "github.com/IDLKZ/jankuier-back-sub002/internal/entity"
	"github.com/IDLKZ/jankuier-back-sub002/internal/usecase"
	"github.com/shopspring/decimal"
)

type MySQLProductRepo struct{ q DBTX }

func NewMySQLProductRepo(q DBTX) *MySQLProductRepo { return &MySQLProductRepo{q: q} }

func (r *MySQLProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	row := r.q.QueryRowContext(ctx, `
SELECT id, sku, title, price, image_url, created_at, updated_at
FROM products WHERE id=?`, id)

	var (
		p     domain.Product
		price string
	)
	err := row.Scan(&p.ID, &p.SKU, &p.Title, &price, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *MySQLProductRepo) GetVariant(ctx context.Context, id string) (*domain.ProductVariant, error) {
	row := r.q.QueryRowContext(ctx, `
SELECT id, product_id, title, delta_price
FROM product_variants WHERE id=?`, id)

	var (
		v     domain.ProductVariant
		delta string
	)
	err := row.Scan(&v.ID, &v.ProductID, &v.Title, &delta)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	v.DeltaPrice, err = decimal.NewFromString(delta)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

var _ usecase.ProductRepo = (*MySQLProductRepo)(nil)
