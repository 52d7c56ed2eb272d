package usecase

import (
	"context"
	"fmt"
	"time"

	domain "github.com/IDLKZ/jankuier-back-sub002/internal/entity"
	"github.com/IDLKZ/jankuier-back-sub002/internal/logging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func sumCartItems(items []domain.CartLineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		if it.DeletedAt != nil {
			continue
		}
		sum = sum.Add(it.TotalPrice)
	}
	return sum
}

type AddCartItemInput struct {
	UserID    string
	ProductID string
	VariantID *string
	Qty       int
}

// CartItems mutates cart line items and keeps the owning cart aggregate
// consistent. Every mutation and its derived writes (total recompute +
// snapshot rebuild) run in one transaction.
type CartItems struct {
	tx    TxRunner
	cache CartCache
}

func NewCartItems(tx TxRunner, cache CartCache) *CartItems {
	return &CartItems{tx: tx, cache: cache}
}

// Add inserts a line item, creating the user's cart on first use.
func (uc *CartItems) Add(ctx context.Context, in AddCartItemInput) (*domain.CartLineItem, error) {
	if in.Qty <= 0 {
		return nil, ErrInvalidQty
	}

	var (
		item     *domain.CartLineItem
		snapshot []byte
		cartID   string
	)
	err := uc.tx.Within(ctx, func(r Repos) error {
		product, err := r.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return fmt.Errorf("load product: %w", err)
		}

		li := &domain.CartLineItem{
			ID:           uuid.NewString(),
			ProductID:    product.ID,
			VariantID:    in.VariantID,
			Qty:          in.Qty,
			ProductPrice: product.Price,
			CreatedAt:    time.Now().UTC(),
			UpdatedAt:    time.Now().UTC(),
		}
		if in.VariantID != nil {
			variant, err := r.Products.GetVariant(ctx, *in.VariantID)
			if err != nil {
				return fmt.Errorf("load variant: %w", err)
			}
			li.DeltaPrice = variant.DeltaPrice
		}
		li.Reprice()

		cart, err := uc.ensureCart(ctx, r, in.UserID)
		if err != nil {
			return err
		}
		li.CartID = cart.ID

		if err := r.CartItems.Insert(ctx, li); err != nil {
			return fmt.Errorf("insert cart item: %w", err)
		}

		snapshot, err = uc.recalcCart(ctx, r, cart.ID)
		if err != nil {
			return err
		}
		item = li
		cartID = cart.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.cacheSnapshot(ctx, cartID, snapshot)
	return item, nil
}

type UpdateCartItemInput struct {
	Qty int
	// VariantID switches the line to another variant when non-nil; an empty
	// string clears the variant.
	VariantID *string
}

// Update changes quantity and optionally the variant of a line item, then
// reprices it.
func (uc *CartItems) Update(ctx context.Context, itemID string, in UpdateCartItemInput) (*domain.CartLineItem, error) {
	if in.Qty <= 0 {
		return nil, ErrInvalidQty
	}

	var (
		item     *domain.CartLineItem
		snapshot []byte
		cartID   string
	)
	err := uc.tx.Within(ctx, func(r Repos) error {
		li, err := r.CartItems.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		li.Qty = in.Qty
		if in.VariantID != nil {
			if *in.VariantID == "" {
				li.VariantID = nil
				li.DeltaPrice = decimal.Zero
			} else {
				variant, err := r.Products.GetVariant(ctx, *in.VariantID)
				if err != nil {
					return fmt.Errorf("load variant: %w", err)
				}
				li.VariantID = in.VariantID
				li.DeltaPrice = variant.DeltaPrice
			}
		}
		li.Reprice()
		li.UpdatedAt = time.Now().UTC()
		if err := r.CartItems.Update(ctx, li); err != nil {
			return fmt.Errorf("update cart item: %w", err)
		}

		snapshot, err = uc.recalcCart(ctx, r, li.CartID)
		if err != nil {
			return err
		}
		item = li
		cartID = li.CartID
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.cacheSnapshot(ctx, cartID, snapshot)
	return item, nil
}

// Remove soft-deletes a line item.
func (uc *CartItems) Remove(ctx context.Context, itemID string) error {
	var (
		snapshot []byte
		cartID   string
	)
	err := uc.tx.Within(ctx, func(r Repos) error {
		li, err := r.CartItems.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		if err := r.CartItems.SoftDelete(ctx, li.ID); err != nil {
			return fmt.Errorf("delete cart item: %w", err)
		}

		snapshot, err = uc.recalcCart(ctx, r, li.CartID)
		if err != nil {
			return err
		}
		cartID = li.CartID
		return nil
	})
	if err != nil {
		return err
	}

	uc.cacheSnapshot(ctx, cartID, snapshot)
	return nil
}

func (uc *CartItems) ensureCart(ctx context.Context, r Repos, userID string) (*domain.Cart, error) {
	cart, err := r.Carts.GetByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	cart = &domain.Cart{
		ID:        uuid.NewString(),
		UserID:    userID,
		CartItems: []byte("[]"),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := r.Carts.Create(ctx, cart); err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}
	return cart, nil
}

// recalcCart is the cart aggregate recalculator. It locks the cart row, then
// unconditionally recomputes the total and rebuilds the full snapshot from
// the active line items, with no diffing.
func (uc *CartItems) recalcCart(ctx context.Context, r Repos, cartID string) ([]byte, error) {
	if _, err := r.Carts.LockForUpdate(ctx, cartID); err != nil {
		return nil, fmt.Errorf("lock cart: %w", err)
	}

	details, err := r.CartItems.ListActiveDetails(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}

	items := make([]domain.CartLineItem, 0, len(details))
	for _, d := range details {
		items = append(items, d.Item)
	}
	total := sumCartItems(items)
	snapshot := domain.MarshalCartSnapshot(domain.BuildCartSnapshot(details))

	if err := r.Carts.UpdateAggregate(ctx, cartID, total, snapshot); err != nil {
		return nil, fmt.Errorf("update cart aggregate: %w", err)
	}
	return snapshot, nil
}

func (uc *CartItems) cacheSnapshot(ctx context.Context, cartID string, snapshot []byte) {
	if uc.cache == nil || cartID == "" {
		return
	}
	// Best effort: a cache miss just falls back to the carts table.
	if err := uc.cache.SetSnapshot(ctx, cartID, snapshot); err != nil {
		logging.FromCtx(ctx).Warn("cart snapshot cache write failed", "cart_id", cartID, "error", err)
	}
}
