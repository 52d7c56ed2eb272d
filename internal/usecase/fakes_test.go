package usecase

import (
	"context"
	"time"

	domain "github.com/IDLKZ/jankuier-back-sub002/internal/entity"
	"github.com/shopspring/decimal"
)

func nowUTC() time.Time { return time.Now().UTC() }

// memStore is an in-memory TxRunner + repo set for exercising the transaction
// scripts without MySQL. Transactions are not simulated: every test asserts on
// the success path or on state left untouched before the failing write.
type memStore struct {
	carts      *memCartRepo
	cartItems  *memCartItemRepo
	products   *memProductRepo
	orders     *memOrderRepo
	orderItems *memOrderItemRepo
	history    *memHistoryRepo
	codes      *memCodeRepo
	outbox     *memOutboxRepo
}

func newMemStore() *memStore {
	products := &memProductRepo{
		products: map[string]*domain.Product{},
		variants: map[string]*domain.ProductVariant{},
	}
	return &memStore{
		carts:      &memCartRepo{byID: map[string]*domain.Cart{}},
		cartItems:  &memCartItemRepo{products: products},
		products:   products,
		orders:     &memOrderRepo{byID: map[string]*domain.Order{}},
		orderItems: &memOrderItemRepo{},
		history:    &memHistoryRepo{},
		codes:      &memCodeRepo{},
		outbox:     &memOutboxRepo{},
	}
}

func (s *memStore) repos() Repos {
	return Repos{
		Carts:      s.carts,
		CartItems:  s.cartItems,
		Products:   s.products,
		Orders:     s.orders,
		OrderItems: s.orderItems,
		History:    s.history,
		Codes:      s.codes,
		Outbox:     s.outbox,
	}
}

func (s *memStore) Within(ctx context.Context, fn func(r Repos) error) error {
	return fn(s.repos())
}

type memCartRepo struct {
	byID map[string]*domain.Cart
}

func (r *memCartRepo) GetByID(_ context.Context, id string) (*domain.Cart, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

func (r *memCartRepo) GetByUser(_ context.Context, userID string) (*domain.Cart, error) {
	for _, c := range r.byID {
		if c.UserID == userID {
			return c, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memCartRepo) Create(_ context.Context, c *domain.Cart) error {
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *memCartRepo) LockForUpdate(ctx context.Context, id string) (*domain.Cart, error) {
	return r.GetByID(ctx, id)
}

func (r *memCartRepo) UpdateAggregate(_ context.Context, id string, total decimal.Decimal, snapshot []byte) error {
	c, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	c.TotalPrice = total
	c.CartItems = snapshot
	return nil
}

type memCartItemRepo struct {
	items    []*domain.CartLineItem
	products *memProductRepo
}

func (r *memCartItemRepo) GetByID(_ context.Context, id string) (*domain.CartLineItem, error) {
	for _, it := range r.items {
		if it.ID == id && it.DeletedAt == nil {
			cp := *it
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memCartItemRepo) Insert(_ context.Context, li *domain.CartLineItem) error {
	cp := *li
	r.items = append(r.items, &cp)
	return nil
}

func (r *memCartItemRepo) Update(_ context.Context, li *domain.CartLineItem) error {
	for _, it := range r.items {
		if it.ID == li.ID && it.DeletedAt == nil {
			*it = *li
			return nil
		}
	}
	return ErrNotFound
}

func (r *memCartItemRepo) SoftDelete(ctx context.Context, id string) error {
	for _, it := range r.items {
		if it.ID == id && it.DeletedAt == nil {
			now := nowUTC()
			it.DeletedAt = &now
			return nil
		}
	}
	return ErrNotFound
}

func (r *memCartItemRepo) ListActiveDetails(ctx context.Context, cartID string) ([]domain.CartLineItemDetail, error) {
	var out []domain.CartLineItemDetail
	for _, it := range r.items {
		if it.CartID != cartID || it.DeletedAt != nil {
			continue
		}
		d := domain.CartLineItemDetail{Item: *it}
		if p, ok := r.products.products[it.ProductID]; ok {
			d.Product = *p
		}
		if it.VariantID != nil {
			if v, ok := r.products.variants[*it.VariantID]; ok {
				cp := *v
				d.Variant = &cp
			}
		}
		out = append(out, d)
	}
	return out, nil
}

type memProductRepo struct {
	products map[string]*domain.Product
	variants map[string]*domain.ProductVariant
}

func (r *memProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (r *memProductRepo) GetVariant(_ context.Context, id string) (*domain.ProductVariant, error) {
	v, ok := r.variants[id]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

type memOrderRepo struct {
	byID map[string]*domain.Order
}

func (r *memOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	o, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *memOrderRepo) Create(_ context.Context, o *domain.Order) error {
	cp := *o
	r.byID[o.ID] = &cp
	return nil
}

func (r *memOrderRepo) LockForUpdate(ctx context.Context, id string) (*domain.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *memOrderRepo) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) error {
	o, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	o.StatusID = status
	return nil
}

func (r *memOrderRepo) UpdateTotal(_ context.Context, id string, total decimal.Decimal) error {
	o, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	o.TotalPrice = total
	return nil
}

func (r *memOrderRepo) MarkCancelled(_ context.Context, id string, status domain.OrderStatus, total decimal.Decimal) error {
	o, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	o.StatusID = status
	o.TotalPrice = total
	o.IsCanceled = true
	o.IsActive = false
	return nil
}

type memOrderItemRepo struct {
	items []*domain.OrderLineItem
}

func (r *memOrderItemRepo) GetByID(_ context.Context, id string) (*domain.OrderLineItem, error) {
	for _, it := range r.items {
		if it.ID == id && it.DeletedAt == nil {
			cp := *it
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memOrderItemRepo) Insert(_ context.Context, li *domain.OrderLineItem) error {
	cp := *li
	r.items = append(r.items, &cp)
	return nil
}

func (r *memOrderItemRepo) UpdateStatus(_ context.Context, id string, status domain.OrderItemStatus, cancelReason *string) error {
	for _, it := range r.items {
		if it.ID == id && it.DeletedAt == nil {
			it.StatusID = status
			it.CancelReason = cancelReason
			return nil
		}
	}
	return ErrNotFound
}

func (r *memOrderItemRepo) SoftDelete(_ context.Context, id string) error {
	for _, it := range r.items {
		if it.ID == id && it.DeletedAt == nil {
			now := nowUTC()
			it.DeletedAt = &now
			return nil
		}
	}
	return ErrNotFound
}

func (r *memOrderItemRepo) ListActive(_ context.Context, orderID string) ([]domain.OrderLineItem, error) {
	var out []domain.OrderLineItem
	for _, it := range r.items {
		if it.OrderID == orderID && it.DeletedAt == nil {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (r *memOrderItemRepo) BulkUpdateStatus(_ context.Context, orderID string, status domain.OrderItemStatus) error {
	for _, it := range r.items {
		if it.OrderID == orderID && it.DeletedAt == nil {
			it.StatusID = status
		}
	}
	return nil
}

type memHistoryRepo struct {
	entries []domain.OrderItemHistoryEntry
}

func (r *memHistoryRepo) Insert(_ context.Context, e *domain.OrderItemHistoryEntry) error {
	r.entries = append(r.entries, *e)
	return nil
}

func (r *memHistoryRepo) ListByItem(_ context.Context, orderItemID string) ([]domain.OrderItemHistoryEntry, error) {
	var out []domain.OrderItemHistoryEntry
	for _, e := range r.entries {
		if e.OrderItemID == orderItemID {
			out = append(out, e)
		}
	}
	return out, nil
}

type memCodeRepo struct {
	codes []*domain.VerificationCode
}

func (r *memCodeRepo) Insert(_ context.Context, vc *domain.VerificationCode) error {
	cp := *vc
	r.codes = append(r.codes, &cp)
	return nil
}

func (r *memCodeRepo) GetActiveByItem(_ context.Context, orderItemID string) (*domain.VerificationCode, error) {
	for _, vc := range r.codes {
		if vc.OrderItemID == orderItemID && vc.IsActive {
			cp := *vc
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memCodeRepo) Deactivate(_ context.Context, id string) error {
	for _, vc := range r.codes {
		if vc.ID == id {
			vc.IsActive = false
			return nil
		}
	}
	return ErrNotFound
}

type outboxEvent struct {
	channel string
	payload []byte
}

type memOutboxRepo struct {
	events []outboxEvent
}

func (r *memOutboxRepo) InsertEvent(_ context.Context, channel string, payload []byte) error {
	r.events = append(r.events, outboxEvent{channel: channel, payload: payload})
	return nil
}

type memIdemStore struct {
	locked map[string]bool
	values map[string]string
}

func newMemIdemStore() *memIdemStore {
	return &memIdemStore{locked: map[string]bool{}, values: map[string]string{}}
}

func (s *memIdemStore) TryLock(_ context.Context, scope, key string) (bool, error) {
	k := scope + "|" + key
	if s.locked[k] {
		return false, nil
	}
	s.locked[k] = true
	return true, nil
}

func (s *memIdemStore) Remember(_ context.Context, scope, key, value string) error {
	s.values[scope+"|"+key] = value
	return nil
}

func (s *memIdemStore) Recall(_ context.Context, scope, key string) (string, bool, error) {
	v, ok := s.values[scope+"|"+key]
	return v, ok, nil
}

type memCartCache struct {
	snapshots map[string][]byte
}

func newMemCartCache() *memCartCache {
	return &memCartCache{snapshots: map[string][]byte{}}
}

func (c *memCartCache) SetSnapshot(_ context.Context, cartID string, snapshot []byte) error {
	c.snapshots[cartID] = snapshot
	return nil
}

func (c *memCartCache) GetSnapshot(_ context.Context, cartID string) ([]byte, error) {
	b, ok := c.snapshots[cartID]
	if !ok {
		return nil, ErrNotFound
	}
	return b, nil
}
