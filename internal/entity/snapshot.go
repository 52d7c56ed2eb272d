package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot shapes are the read-model embedded into carts.cart_items. Money is
// flattened to plain floats and timestamps to RFC3339 strings so cart reads
// need no joins and no decimal decoding.

type SnapshotProduct struct {
	ID       string  `json:"id"`
	SKU      string  `json:"sku"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	ImageURL *string `json:"image_url"`
}

type SnapshotVariant struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	DeltaPrice float64 `json:"delta_price"`
}

type CartSnapshotItem struct {
	ID           string           `json:"id"`
	ProductID    string           `json:"product_id"`
	VariantID    *string          `json:"variant_id"`
	Qty          int              `json:"qty"`
	ProductPrice float64          `json:"product_price"`
	DeltaPrice   float64          `json:"delta_price"`
	UnitPrice    float64          `json:"unit_price"`
	TotalPrice   float64          `json:"total_price"`
	CreatedAt    string           `json:"created_at"`
	UpdatedAt    string           `json:"updated_at"`
	Product      SnapshotProduct  `json:"product"`
	Variant      *SnapshotVariant `json:"variant"`
}

// snapFloat converts a decimal to a plain float for the snapshot. A value
// outside float range yields 0 rather than aborting the whole transaction
// over a cosmetic read-model field.
func snapFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	if f != f || f > 1e15 || f < -1e15 {
		return 0
	}
	return f
}

// BuildCartSnapshot rebuilds the full denormalized snapshot from the active
// line items of a cart. It is always a complete rebuild, never a patch.
func BuildCartSnapshot(details []CartLineItemDetail) []CartSnapshotItem {
	out := make([]CartSnapshotItem, 0, len(details))
	for _, d := range details {
		item := CartSnapshotItem{
			ID:           d.Item.ID,
			ProductID:    d.Item.ProductID,
			VariantID:    d.Item.VariantID,
			Qty:          d.Item.Qty,
			ProductPrice: snapFloat(d.Item.ProductPrice),
			DeltaPrice:   snapFloat(d.Item.DeltaPrice),
			UnitPrice:    snapFloat(d.Item.UnitPrice),
			TotalPrice:   snapFloat(d.Item.TotalPrice),
			CreatedAt:    d.Item.CreatedAt.UTC().Format(time.RFC3339),
			UpdatedAt:    d.Item.UpdatedAt.UTC().Format(time.RFC3339),
			Product: SnapshotProduct{
				ID:       d.Product.ID,
				SKU:      d.Product.SKU,
				Title:    d.Product.Title,
				Price:    snapFloat(d.Product.Price),
				ImageURL: d.Product.ImageURL,
			},
		}
		if d.Variant != nil {
			item.Variant = &SnapshotVariant{
				ID:         d.Variant.ID,
				Title:      d.Variant.Title,
				DeltaPrice: snapFloat(d.Variant.DeltaPrice),
			}
		}
		out = append(out, item)
	}
	return out
}

// MarshalCartSnapshot serializes the snapshot for the carts.cart_items
// column. An empty cart serializes as [] rather than null.
func MarshalCartSnapshot(items []CartSnapshotItem) []byte {
	if items == nil {
		items = []CartSnapshotItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return []byte("[]")
	}
	return b
}
