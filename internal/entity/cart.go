package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	ID         string
	UserID     string
	TotalPrice decimal.Decimal
	// CartItems is the denormalized JSON snapshot of all active line items,
	// rebuilt in full on every line-item mutation.
	CartItems []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CartLineItem struct {
	ID           string
	CartID       string
	ProductID    string
	VariantID    *string
	Qty          int
	ProductPrice decimal.Decimal
	DeltaPrice   decimal.Decimal
	UnitPrice    decimal.Decimal
	TotalPrice   decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// Reprice derives unit and total price from the stored inputs. Callers must
// invoke it after any change to qty, product price or variant delta so the
// derived columns never go stale.
func (li *CartLineItem) Reprice() {
	li.UnitPrice = li.ProductPrice.Add(li.DeltaPrice)
	li.TotalPrice = li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Qty)))
}

type Product struct {
	ID        string
	SKU       string
	Title     string
	Price     decimal.Decimal
	ImageURL  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ProductVariant struct {
	ID         string
	ProductID  string
	Title      string
	DeltaPrice decimal.Decimal
}

// CartLineItemDetail is a line item joined with its product and (optional)
// variant, as read back when rebuilding the cart snapshot.
type CartLineItemDetail struct {
	Item    CartLineItem
	Product Product
	Variant *ProductVariant
}
