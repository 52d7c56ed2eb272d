package queue

import (
	"context"

	"github.com/IDLKZ/jankuier-back-sub002/internal/usecase"
)

// OrderEventsHandler keeps the Redis order-status cache in step with
// published order events. Running it off the queue instead of the write path
// keeps the transaction free of network calls; escalations raised by the
// reconciler refresh the cache the same way as explicit status changes.
type OrderEventsHandler struct {
	cache usecase.OrderCache
}

func NewOrderEventsHandler(cache usecase.OrderCache) *OrderEventsHandler {
	return &OrderEventsHandler{cache: cache}
}

// HandleStatusChanged is used with queue.JSONHandler[usecase.OrderStatusChangedMsg].
func (h *OrderEventsHandler) HandleStatusChanged(ctx context.Context, msg usecase.OrderStatusChangedMsg) error {
	return h.cache.SetStatus(ctx, msg.OrderID, msg.Status)
}
