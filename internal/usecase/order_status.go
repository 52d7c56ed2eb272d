package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/IDLKZ/jankuier-back-sub002/internal/entity"
)

const orderEventsChannel = "order.status.changed"

// OrderStatus drives order-level status changes and the downward cascade
// onto order items. The status cache is refreshed asynchronously by the
// order-events consumer, not on the write path.
type OrderStatus struct {
	tx TxRunner
}

func NewOrderStatus(tx TxRunner) *OrderStatus {
	return &OrderStatus{tx: tx}
}

// Change validates the transition against the status catalog, writes the new
// status, and pushes the mapped item status onto every active item. The
// cascade is a direct bulk write: top-down pushes deliberately bypass the
// per-item history path.
func (uc *OrderStatus) Change(ctx context.Context, orderID string, to domain.OrderStatus) error {
	err := uc.tx.Within(ctx, func(r Repos) error {
		order, err := r.Orders.LockForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.StatusID == to {
			return nil // no-op, nothing changed
		}
		if err := domain.ValidateOrderTransition(order.StatusID, to); err != nil {
			return fmt.Errorf("order %s: %s -> %s: %w", orderID, order.StatusID, to, err)
		}

		if err := r.Orders.UpdateStatus(ctx, orderID, to); err != nil {
			return fmt.Errorf("update order status: %w", err)
		}

		if itemStatus, ok := domain.CascadedItemStatus(to); ok {
			if err := r.OrderItems.BulkUpdateStatus(ctx, orderID, itemStatus); err != nil {
				return fmt.Errorf("cascade item status: %w", err)
			}
			// Pushing items into the refund-pending status removes them from
			// the total, so the aggregate has to be recomputed here. The order
			// already sits at the target status, so the reconciler only
			// rewrites the total.
			if itemStatus == domain.ItemCancelledAwaitingRefund {
				if err := reconcileOrder(ctx, r, orderID); err != nil {
					return err
				}
			}
		}

		payload, _ := json.Marshal(OrderStatusChangedMsg{
			OrderID: orderID,
			UserID:  order.UserID,
			Status:  string(to),
		})
		return r.Outbox.InsertEvent(ctx, orderEventsChannel, payload)
	})
	return err
}
