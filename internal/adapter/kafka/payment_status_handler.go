package kafka

import (
	"context"
	"errors"

	domain "github.com/IDLKZ/jankuier-back-sub002/internal/entity"
	"github.com/IDLKZ/jankuier-back-sub002/internal/usecase"
)

// PaymentStatusHandler maps payment-gateway outcomes onto order status
// changes. A successful payment moves the order to paid, which cascades
// paid_awaiting_confirmation onto every active item; a failed payment
// cancels the order.
type PaymentStatusHandler struct {
	orderStatus *usecase.OrderStatus
}

func NewPaymentStatusHandler(orderStatus *usecase.OrderStatus) *PaymentStatusHandler {
	return &PaymentStatusHandler{orderStatus: orderStatus}
}

func (h *PaymentStatusHandler) Handle(ctx context.Context, ev usecase.PaymentStatusChangedMsg) error {
	var target domain.OrderStatus
	switch ev.Status {
	case "SUCCESS":
		target = domain.OrderPaid
	default:
		target = domain.OrderCancelled
	}

	err := h.orderStatus.Change(ctx, ev.OrderID, target)
	if errors.Is(err, domain.ErrIllegalStatusTransition) {
		// Late or duplicate gateway event against an order that already moved
		// on; swallow it so the message is not retried forever.
		return nil
	}
	return err
}
