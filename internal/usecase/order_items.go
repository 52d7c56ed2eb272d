package usecase

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	domain "github.com/IDLKZ/jankuier-back-sub002/internal/entity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PlaceOrderItemInput struct {
	OrderID        string
	ProductID      string
	TotalPrice     decimal.Decimal
	IdempotencyKey string
}

type UpdateOrderItemStatusInput struct {
	ItemID          string
	Status          domain.OrderItemStatus
	CancelReason    *string
	ResponsibleUser *string
}

// OrderItems owns the order-item lifecycle: history recording, verification
// code issuance on creation, and the order total reconciliation that follows
// every item mutation. All effects of one mutation share one transaction.
type OrderItems struct {
	tx   TxRunner
	idem IdempotencyStore
}

func NewOrderItems(tx TxRunner, idem IdempotencyStore) *OrderItems {
	return &OrderItems{tx: tx, idem: idem}
}

// Place creates an order item in the initial status, records the "item added"
// history entry, issues the verification code, and reconciles the order
// total. Duplicate submissions are fenced by the idempotency key.
func (uc *OrderItems) Place(ctx context.Context, in PlaceOrderItemInput) (*domain.OrderLineItem, error) {
	if uc.idem != nil && in.IdempotencyKey != "" {
		if id, ok, _ := uc.idem.Recall(ctx, in.OrderID, in.IdempotencyKey); ok {
			return uc.getItem(ctx, id)
		}
		ok, err := uc.idem.TryLock(ctx, in.OrderID, in.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrDuplicate
		}
	}

	var item *domain.OrderLineItem
	err := uc.tx.Within(ctx, func(r Repos) error {
		if _, err := r.Orders.GetByID(ctx, in.OrderID); err != nil {
			return fmt.Errorf("load order: %w", err)
		}

		now := time.Now().UTC()
		li := &domain.OrderLineItem{
			ID:         uuid.NewString(),
			OrderID:    in.OrderID,
			ProductID:  in.ProductID,
			StatusID:   domain.ItemCreatedAwaitingPayment,
			TotalPrice: in.TotalPrice,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := r.OrderItems.Insert(ctx, li); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}

		if err := r.History.Insert(ctx, newHistoryEntry(li.ID, li.StatusID, domain.MsgItemAdded, nil, nil)); err != nil {
			return fmt.Errorf("insert history: %w", err)
		}

		code, err := generateVerificationCode()
		if err != nil {
			return fmt.Errorf("generate verification code: %w", err)
		}
		vc := &domain.VerificationCode{
			ID:          uuid.NewString(),
			OrderItemID: li.ID,
			Code:        code,
			IsActive:    true,
			CreatedAt:   now,
		}
		if err := r.Codes.Insert(ctx, vc); err != nil {
			return fmt.Errorf("insert verification code: %w", err)
		}

		if err := reconcileOrder(ctx, r, in.OrderID); err != nil {
			return err
		}
		item = li
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.idem != nil && in.IdempotencyKey != "" {
		_ = uc.idem.Remember(ctx, in.OrderID, in.IdempotencyKey, item.ID)
	}
	return item, nil
}

// UpdateStatus applies a bottom-up item transition. Unlike the order-level
// cascade, this path always records history: the paid transition additionally
// writes a backdated entry retroactively marking the awaiting-payment step as
// passed. Downstream audit consumers depend on that two-entry shape.
func (uc *OrderItems) UpdateStatus(ctx context.Context, in UpdateOrderItemStatusInput) (*domain.OrderLineItem, error) {
	var item *domain.OrderLineItem
	err := uc.tx.Within(ctx, func(r Repos) error {
		li, err := applyItemStatus(ctx, r, in)
		if err != nil {
			return err
		}
		item = li
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// applyItemStatus performs the transition inside the caller's transaction:
// validate against the catalog, write the status, record history, reconcile
// the order. Validation runs before any write.
func applyItemStatus(ctx context.Context, r Repos, in UpdateOrderItemStatusInput) (*domain.OrderLineItem, error) {
	li, err := r.OrderItems.GetByID(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	from := li.StatusID
	if from == in.Status {
		return li, reconcileOrder(ctx, r, li.OrderID)
	}
	if err := domain.ValidateItemTransition(from, in.Status); err != nil {
		return nil, fmt.Errorf("item %s: %s -> %s: %w", in.ItemID, from, in.Status, err)
	}

	var cancelReason *string
	if domain.ItemStatusCancelsItem(in.Status) {
		cancelReason = in.CancelReason
	}
	if err := r.OrderItems.UpdateStatus(ctx, li.ID, in.Status, cancelReason); err != nil {
		return nil, fmt.Errorf("update item status: %w", err)
	}

	if from == domain.ItemCreatedAwaitingPayment && in.Status == domain.ItemPaidAwaitingConfirmation {
		now := time.Now().UTC()
		passed := newHistoryEntry(li.ID, from, domain.MsgPaidSuccessfully, in.ResponsibleUser, nil)
		t := true
		passed.IsPassed = &t
		passed.TakenAt = &now
		passed.PassedAt = &now
		if err := r.History.Insert(ctx, passed); err != nil {
			return nil, fmt.Errorf("insert backdated history: %w", err)
		}
	}

	entry := newHistoryEntry(li.ID, in.Status, domain.ItemStatusMessage(in.Status), in.ResponsibleUser, cancelReason)
	if err := r.History.Insert(ctx, entry); err != nil {
		return nil, fmt.Errorf("insert history: %w", err)
	}

	li.StatusID = in.Status
	li.CancelReason = cancelReason
	return li, reconcileOrder(ctx, r, li.OrderID)
}

// Remove soft-deletes an order item and reconciles the order.
func (uc *OrderItems) Remove(ctx context.Context, itemID string) error {
	return uc.tx.Within(ctx, func(r Repos) error {
		li, err := r.OrderItems.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		if err := r.OrderItems.SoftDelete(ctx, li.ID); err != nil {
			return fmt.Errorf("delete order item: %w", err)
		}
		return reconcileOrder(ctx, r, li.OrderID)
	})
}

// ConfirmDelivery checks the verification code handed over at delivery and,
// when it matches, transitions the item to successfully_received and burns the
// code. Check, transition, history, and deactivation share one transaction, so
// a rejected handoff leaves the code active for a retry.
func (uc *OrderItems) ConfirmDelivery(ctx context.Context, itemID, code string) (*domain.OrderLineItem, error) {
	var item *domain.OrderLineItem
	err := uc.tx.Within(ctx, func(r Repos) error {
		vc, err := r.Codes.GetActiveByItem(ctx, itemID)
		if err != nil {
			return ErrInvalidVerificationCode
		}
		if vc.Code != code {
			return ErrInvalidVerificationCode
		}

		li, err := applyItemStatus(ctx, r, UpdateOrderItemStatusInput{
			ItemID: itemID,
			Status: domain.ItemSuccessfullyReceived,
		})
		if err != nil {
			return err
		}
		if err := r.Codes.Deactivate(ctx, vc.ID); err != nil {
			return fmt.Errorf("deactivate verification code: %w", err)
		}
		item = li
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (uc *OrderItems) getItem(ctx context.Context, id string) (*domain.OrderLineItem, error) {
	var item *domain.OrderLineItem
	err := uc.tx.Within(ctx, func(r Repos) error {
		li, err := r.OrderItems.GetByID(ctx, id)
		if err != nil {
			return err
		}
		item = li
		return nil
	})
	return item, err
}

// reconcileOrder is the order total reconciler. It locks the order row,
// recomputes the total excluding refund-pending items, and escalates the
// order toward cancellation: zero items left means cancelled, zero total with
// items remaining means cancelled_awaiting_refund. It never advances an order
// forward, and re-running it against an unchanged item set is a no-op.
func reconcileOrder(ctx context.Context, r Repos, orderID string) error {
	order, err := r.Orders.LockForUpdate(ctx, orderID)
	if err != nil {
		return fmt.Errorf("lock order: %w", err)
	}

	items, err := r.OrderItems.ListActive(ctx, orderID)
	if err != nil {
		return fmt.Errorf("list order items: %w", err)
	}

	total := domain.SumActiveItems(items, domain.ItemCancelledAwaitingRefund)

	escalate := func(status domain.OrderStatus) error {
		if order.StatusID == status && !total.Equal(order.TotalPrice) {
			return r.Orders.UpdateTotal(ctx, orderID, total)
		}
		if order.StatusID == status {
			return nil
		}
		if err := r.Orders.MarkCancelled(ctx, orderID, status, total); err != nil {
			return fmt.Errorf("escalate order status: %w", err)
		}
		payload, _ := json.Marshal(OrderStatusChangedMsg{
			OrderID: orderID,
			UserID:  order.UserID,
			Status:  string(status),
		})
		return r.Outbox.InsertEvent(ctx, orderEventsChannel, payload)
	}

	switch {
	case len(items) == 0:
		return escalate(domain.OrderCancelled)
	case total.IsZero():
		return escalate(domain.OrderCancelledAwaitingRefund)
	default:
		if total.Equal(order.TotalPrice) {
			return nil
		}
		return r.Orders.UpdateTotal(ctx, orderID, total)
	}
}

func newHistoryEntry(itemID string, status domain.OrderItemStatus, msg domain.LocalizedMessage, responsible, cancelReason *string) *domain.OrderItemHistoryEntry {
	return &domain.OrderItemHistoryEntry{
		ID:              uuid.NewString(),
		OrderItemID:     itemID,
		StatusID:        status,
		ResponsibleUser: responsible,
		MessageKK:       msg.KK,
		MessageRU:       msg.RU,
		MessageEN:       msg.EN,
		CancelReason:    cancelReason,
		CreatedAt:       time.Now().UTC(),
	}
}

// generateVerificationCode returns a random 4-digit code, zero-padded.
func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}
