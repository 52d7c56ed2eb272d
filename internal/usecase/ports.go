package usecase

import (
	"context"

	domain "github.com/IDLKZ/jankuier-back-sub002/internal/entity"
	"github.com/shopspring/decimal"
)

// Repos bundles the repositories a transaction script works against. A
// TxRunner hands the callback a set bound to one open transaction; the same
// struct bound to the bare connection serves plain reads.
type Repos struct {
	Carts      CartRepo
	CartItems  CartItemRepo
	Products   ProductRepo
	Orders     OrderRepo
	OrderItems OrderItemRepo
	History    HistoryRepo
	Codes      VerificationCodeRepo
	Outbox     OutboxRepo
}

// TxRunner executes fn inside a single database transaction. Every
// consistency effect in this package runs through it: either the triggering
// write and all derived writes commit together, or none do.
type TxRunner interface {
	Within(ctx context.Context, fn func(r Repos) error) error
}

type CartRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	Create(ctx context.Context, c *domain.Cart) error
	// LockForUpdate reads the cart row with SELECT ... FOR UPDATE so two
	// concurrent line-item mutations cannot interleave their recomputes.
	LockForUpdate(ctx context.Context, id string) (*domain.Cart, error)
	UpdateAggregate(ctx context.Context, id string, total decimal.Decimal, snapshot []byte) error
}

type CartItemRepo interface {
	GetByID(ctx context.Context, id string) (*domain.CartLineItem, error)
	Insert(ctx context.Context, li *domain.CartLineItem) error
	Update(ctx context.Context, li *domain.CartLineItem) error
	SoftDelete(ctx context.Context, id string) error
	// ListActiveDetails returns all non-deleted line items of a cart joined
	// with product and variant, in insertion order.
	ListActiveDetails(ctx context.Context, cartID string) ([]domain.CartLineItemDetail, error)
}

type ProductRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetVariant(ctx context.Context, id string) (*domain.ProductVariant, error)
}

type OrderRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	Create(ctx context.Context, o *domain.Order) error
	LockForUpdate(ctx context.Context, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
	UpdateTotal(ctx context.Context, id string, total decimal.Decimal) error
	// MarkCancelled writes the escalated status together with the recomputed
	// total and flips is_canceled / is_active in one statement.
	MarkCancelled(ctx context.Context, id string, status domain.OrderStatus, total decimal.Decimal) error
}

type OrderItemRepo interface {
	GetByID(ctx context.Context, id string) (*domain.OrderLineItem, error)
	Insert(ctx context.Context, li *domain.OrderLineItem) error
	UpdateStatus(ctx context.Context, id string, status domain.OrderItemStatus, cancelReason *string) error
	SoftDelete(ctx context.Context, id string) error
	ListActive(ctx context.Context, orderID string) ([]domain.OrderLineItem, error)
	// BulkUpdateStatus is the cascade write path: one UPDATE over all
	// non-deleted items of the order, bypassing history on purpose.
	BulkUpdateStatus(ctx context.Context, orderID string, status domain.OrderItemStatus) error
}

type HistoryRepo interface {
	Insert(ctx context.Context, e *domain.OrderItemHistoryEntry) error
	ListByItem(ctx context.Context, orderItemID string) ([]domain.OrderItemHistoryEntry, error)
}

type VerificationCodeRepo interface {
	Insert(ctx context.Context, vc *domain.VerificationCode) error
	GetActiveByItem(ctx context.Context, orderItemID string) (*domain.VerificationCode, error)
	Deactivate(ctx context.Context, id string) error
}

// OutboxRepo records domain events in the same transaction as the state
// change; a background publisher drains them to the broker afterwards.
type OutboxRepo interface {
	InsertEvent(ctx context.Context, channel string, payload []byte) error
}

type OrderCache interface {
	SetStatus(ctx context.Context, orderID string, status string) error
	GetStatus(ctx context.Context, orderID string) (string, error)
}

type CartCache interface {
	SetSnapshot(ctx context.Context, cartID string, snapshot []byte) error
	GetSnapshot(ctx context.Context, cartID string) ([]byte, error)
}

type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
}
