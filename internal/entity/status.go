package domain

import "errors"

type OrderStatus string

const (
	OrderCreatedAwaitingPayment  OrderStatus = "created_awaiting_payment"
	OrderPaid                    OrderStatus = "paid"
	OrderCancelled               OrderStatus = "cancelled"
	OrderCancelledAwaitingRefund OrderStatus = "cancelled_awaiting_refund"
	OrderCancelledRefunded       OrderStatus = "cancelled_refunded"
)

type OrderItemStatus string

const (
	ItemCreatedAwaitingPayment       OrderItemStatus = "created_awaiting_payment"
	ItemPaidAwaitingConfirmation     OrderItemStatus = "paid_awaiting_confirmation"
	ItemInDelivery                   OrderItemStatus = "in_delivery"
	ItemAwaitingDeliveryConfirmation OrderItemStatus = "awaiting_delivery_confirmation"
	ItemSuccessfullyReceived         OrderItemStatus = "successfully_received"
	ItemCancelled                    OrderItemStatus = "cancelled"
	ItemCancelledAwaitingRefund      OrderItemStatus = "cancelled_awaiting_refund"
	ItemCancelledRefunded            OrderItemStatus = "cancelled_refunded"
)

var (
	ErrUnknownStatus           = errors.New("unknown status")
	ErrIllegalStatusTransition = errors.New("illegal status transition")
)

// StatusEntry is one row of a status catalog. Next lists the statuses a row
// may legally transition to; the item machine branches, so Next is a list
// rather than a single pointer.
type StatusEntry struct {
	ID       string
	Previous []string
	Next     []string
	IsFirst  bool
	IsLast   bool
	IsActive bool
}

// orderStatusCatalog and orderItemStatusCatalog are seeded lookup data.
// They mirror the order_statuses / order_item_statuses tables and are the
// single source of truth for transition validation.
var orderStatusCatalog = map[OrderStatus]StatusEntry{
	OrderCreatedAwaitingPayment: {
		ID:      string(OrderCreatedAwaitingPayment),
		Next:    []string{string(OrderPaid), string(OrderCancelled)},
		IsFirst: true, IsActive: true,
	},
	OrderPaid: {
		ID:       string(OrderPaid),
		Previous: []string{string(OrderCreatedAwaitingPayment)},
		Next:     []string{string(OrderCancelledAwaitingRefund)},
		IsActive: true,
	},
	OrderCancelled: {
		ID:       string(OrderCancelled),
		Previous: []string{string(OrderCreatedAwaitingPayment)},
		IsLast:   true, IsActive: true,
	},
	OrderCancelledAwaitingRefund: {
		ID:       string(OrderCancelledAwaitingRefund),
		Previous: []string{string(OrderPaid)},
		Next:     []string{string(OrderCancelledRefunded)},
		IsActive: true,
	},
	OrderCancelledRefunded: {
		ID:       string(OrderCancelledRefunded),
		Previous: []string{string(OrderCancelledAwaitingRefund)},
		IsLast:   true, IsActive: true,
	},
}

var orderItemStatusCatalog = map[OrderItemStatus]StatusEntry{
	ItemCreatedAwaitingPayment: {
		ID:      string(ItemCreatedAwaitingPayment),
		Next:    []string{string(ItemPaidAwaitingConfirmation), string(ItemCancelled)},
		IsFirst: true, IsActive: true,
	},
	ItemPaidAwaitingConfirmation: {
		ID:       string(ItemPaidAwaitingConfirmation),
		Previous: []string{string(ItemCreatedAwaitingPayment)},
		Next:     []string{string(ItemInDelivery), string(ItemCancelledAwaitingRefund)},
		IsActive: true,
	},
	ItemInDelivery: {
		ID:       string(ItemInDelivery),
		Previous: []string{string(ItemPaidAwaitingConfirmation)},
		Next:     []string{string(ItemAwaitingDeliveryConfirmation), string(ItemCancelledAwaitingRefund)},
		IsActive: true,
	},
	ItemAwaitingDeliveryConfirmation: {
		ID:       string(ItemAwaitingDeliveryConfirmation),
		Previous: []string{string(ItemInDelivery)},
		Next:     []string{string(ItemSuccessfullyReceived), string(ItemCancelledAwaitingRefund)},
		IsActive: true,
	},
	ItemSuccessfullyReceived: {
		ID:       string(ItemSuccessfullyReceived),
		Previous: []string{string(ItemAwaitingDeliveryConfirmation)},
		IsLast:   true, IsActive: true,
	},
	ItemCancelled: {
		ID:       string(ItemCancelled),
		Previous: []string{string(ItemCreatedAwaitingPayment)},
		IsLast:   true, IsActive: true,
	},
	ItemCancelledAwaitingRefund: {
		ID: string(ItemCancelledAwaitingRefund),
		Previous: []string{
			string(ItemPaidAwaitingConfirmation),
			string(ItemInDelivery),
			string(ItemAwaitingDeliveryConfirmation),
		},
		Next:     []string{string(ItemCancelledRefunded)},
		IsActive: true,
	},
	ItemCancelledRefunded: {
		ID:       string(ItemCancelledRefunded),
		Previous: []string{string(ItemCancelledAwaitingRefund)},
		IsLast:   true, IsActive: true,
	},
}

// statusCascadeMap is the fixed order-status → item-status push table.
// Statuses absent from the map (e.g. created_awaiting_payment) cascade nothing.
var statusCascadeMap = map[OrderStatus]OrderItemStatus{
	OrderPaid:                    ItemPaidAwaitingConfirmation,
	OrderCancelled:               ItemCancelled,
	OrderCancelledAwaitingRefund: ItemCancelledAwaitingRefund,
	OrderCancelledRefunded:       ItemCancelledRefunded,
}

// CascadedItemStatus returns the item status pushed onto every active item
// when an order enters the given status. ok is false when no cascade applies.
func CascadedItemStatus(s OrderStatus) (OrderItemStatus, bool) {
	v, ok := statusCascadeMap[s]
	return v, ok
}

func OrderStatusEntry(s OrderStatus) (StatusEntry, bool) {
	e, ok := orderStatusCatalog[s]
	return e, ok
}

func OrderItemStatusEntry(s OrderItemStatus) (StatusEntry, bool) {
	e, ok := orderItemStatusCatalog[s]
	return e, ok
}

// ValidateOrderTransition checks from → to against the order status catalog.
func ValidateOrderTransition(from, to OrderStatus) error {
	entry, ok := orderStatusCatalog[from]
	if !ok {
		return ErrUnknownStatus
	}
	if _, ok := orderStatusCatalog[to]; !ok {
		return ErrUnknownStatus
	}
	for _, next := range entry.Next {
		if next == string(to) {
			return nil
		}
	}
	return ErrIllegalStatusTransition
}

// ValidateItemTransition checks from → to against the item status catalog.
func ValidateItemTransition(from, to OrderItemStatus) error {
	entry, ok := orderItemStatusCatalog[from]
	if !ok {
		return ErrUnknownStatus
	}
	if _, ok := orderItemStatusCatalog[to]; !ok {
		return ErrUnknownStatus
	}
	for _, next := range entry.Next {
		if next == string(to) {
			return nil
		}
	}
	return ErrIllegalStatusTransition
}

// ItemStatusCancelsItem reports whether the status marks the item as canceled
// (used to decide whether cancel_reason is carried into history entries).
func ItemStatusCancelsItem(s OrderItemStatus) bool {
	switch s {
	case ItemCancelled, ItemCancelledAwaitingRefund, ItemCancelledRefunded:
		return true
	}
	return false
}
