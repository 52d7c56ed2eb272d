package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateOrderTransition(t *testing.T) {
	cases := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		err  error
	}{
		{"created to paid", OrderCreatedAwaitingPayment, OrderPaid, nil},
		{"created to cancelled", OrderCreatedAwaitingPayment, OrderCancelled, nil},
		{"paid to awaiting refund", OrderPaid, OrderCancelledAwaitingRefund, nil},
		{"awaiting refund to refunded", OrderCancelledAwaitingRefund, OrderCancelledRefunded, nil},
		{"created to refunded skips steps", OrderCreatedAwaitingPayment, OrderCancelledRefunded, ErrIllegalStatusTransition},
		{"paid back to created", OrderPaid, OrderCreatedAwaitingPayment, ErrIllegalStatusTransition},
		{"cancelled is terminal", OrderCancelled, OrderPaid, ErrIllegalStatusTransition},
		{"refunded is terminal", OrderCancelledRefunded, OrderPaid, ErrIllegalStatusTransition},
		{"unknown from", OrderStatus("bogus"), OrderPaid, ErrUnknownStatus},
		{"unknown to", OrderPaid, OrderStatus("bogus"), ErrUnknownStatus},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateOrderTransition(tc.from, tc.to)
			if tc.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.err)
			}
		})
	}
}

func TestValidateItemTransition(t *testing.T) {
	cases := []struct {
		name string
		from OrderItemStatus
		to   OrderItemStatus
		err  error
	}{
		{"created to paid", ItemCreatedAwaitingPayment, ItemPaidAwaitingConfirmation, nil},
		{"created to cancelled", ItemCreatedAwaitingPayment, ItemCancelled, nil},
		{"paid to delivery", ItemPaidAwaitingConfirmation, ItemInDelivery, nil},
		{"delivery to awaiting confirmation", ItemInDelivery, ItemAwaitingDeliveryConfirmation, nil},
		{"awaiting confirmation to received", ItemAwaitingDeliveryConfirmation, ItemSuccessfullyReceived, nil},
		{"paid to awaiting refund", ItemPaidAwaitingConfirmation, ItemCancelledAwaitingRefund, nil},
		{"delivery to awaiting refund", ItemInDelivery, ItemCancelledAwaitingRefund, nil},
		{"awaiting refund to refunded", ItemCancelledAwaitingRefund, ItemCancelledRefunded, nil},
		{"created to delivery skips payment", ItemCreatedAwaitingPayment, ItemInDelivery, ErrIllegalStatusTransition},
		{"received is terminal", ItemSuccessfullyReceived, ItemInDelivery, ErrIllegalStatusTransition},
		{"cancelled is terminal", ItemCancelled, ItemCreatedAwaitingPayment, ErrIllegalStatusTransition},
		{"created cannot await refund", ItemCreatedAwaitingPayment, ItemCancelledAwaitingRefund, ErrIllegalStatusTransition},
		{"unknown to", ItemInDelivery, OrderItemStatus("bogus"), ErrUnknownStatus},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateItemTransition(tc.from, tc.to)
			if tc.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.err)
			}
		})
	}
}

func TestCascadedItemStatus(t *testing.T) {
	cases := []struct {
		order OrderStatus
		item  OrderItemStatus
		ok    bool
	}{
		{OrderPaid, ItemPaidAwaitingConfirmation, true},
		{OrderCancelled, ItemCancelled, true},
		{OrderCancelledAwaitingRefund, ItemCancelledAwaitingRefund, true},
		{OrderCancelledRefunded, ItemCancelledRefunded, true},
		{OrderCreatedAwaitingPayment, "", false},
	}
	for _, tc := range cases {
		got, ok := CascadedItemStatus(tc.order)
		require.Equal(t, tc.ok, ok, "status %s", tc.order)
		if ok {
			require.Equal(t, tc.item, got)
		}
	}
}

func TestItemStatusCancelsItem(t *testing.T) {
	assert.True(t, ItemStatusCancelsItem(ItemCancelled))
	assert.True(t, ItemStatusCancelsItem(ItemCancelledAwaitingRefund))
	assert.True(t, ItemStatusCancelsItem(ItemCancelledRefunded))
	assert.False(t, ItemStatusCancelsItem(ItemInDelivery))
	assert.False(t, ItemStatusCancelsItem(ItemSuccessfullyReceived))
}

func TestCatalogFirstAndLastMarkers(t *testing.T) {
	e, ok := OrderStatusEntry(OrderCreatedAwaitingPayment)
	require.True(t, ok)
	assert.True(t, e.IsFirst)

	for _, s := range []OrderStatus{OrderCancelled, OrderCancelledRefunded} {
		e, ok := OrderStatusEntry(s)
		require.True(t, ok)
		assert.True(t, e.IsLast, "status %s", s)
		assert.Empty(t, e.Next, "status %s", s)
	}

	ie, ok := OrderItemStatusEntry(ItemCreatedAwaitingPayment)
	require.True(t, ok)
	assert.True(t, ie.IsFirst)

	for _, s := range []OrderItemStatus{ItemSuccessfullyReceived, ItemCancelled, ItemCancelledRefunded} {
		e, ok := OrderItemStatusEntry(s)
		require.True(t, ok)
		assert.True(t, e.IsLast, "status %s", s)
	}
}
