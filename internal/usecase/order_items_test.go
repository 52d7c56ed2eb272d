package usecase

import (
	"context"
	"regexp"
	"testing"

	domain "github.com/IDLKZ/jankuier-back-sub002/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var fourDigits = regexp.MustCompile(`^\d{4}$`)

func TestPlaceRecordsHistoryCodeAndTotal(t *testing.T) {
	s := newMemStore()
	seedOrder(s, "o1", "u1", domain.OrderCreatedAwaitingPayment, "0")

	uc := NewOrderItems(s, nil)
	li, err := uc.Place(context.Background(), PlaceOrderItemInput{
		OrderID:    "o1",
		ProductID:  "p1",
		TotalPrice: decimal.RequireFromString("2500"),
	})
	require.NoError(t, err)
	require.Equal(t, domain.ItemCreatedAwaitingPayment, li.StatusID)

	// exactly one "item added" history entry, not yet passed
	entries, err := s.history.ListByItem(context.Background(), li.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, domain.ItemCreatedAwaitingPayment, entries[0].StatusID)
	require.Equal(t, domain.MsgItemAdded.RU, entries[0].MessageRU)
	require.Equal(t, domain.MsgItemAdded.KK, entries[0].MessageKK)
	require.Equal(t, domain.MsgItemAdded.EN, entries[0].MessageEN)
	require.Nil(t, entries[0].IsPassed)
	require.Nil(t, entries[0].TakenAt)

	// a 4-digit verification code is issued alongside
	vc, err := s.codes.GetActiveByItem(context.Background(), li.ID)
	require.NoError(t, err)
	require.Regexp(t, fourDigits, vc.Code)
	require.True(t, vc.IsActive)

	// order total reconciled in the same transaction
	order, _ := s.orders.GetByID(context.Background(), "o1")
	require.True(t, order.TotalPrice.Equal(decimal.RequireFromString("2500")))
}

func TestPlaceIdempotencyKeyReturnsSameItem(t *testing.T) {
	s := newMemStore()
	seedOrder(s, "o1", "u1", domain.OrderCreatedAwaitingPayment, "0")

	uc := NewOrderItems(s, newMemIdemStore())
	in := PlaceOrderItemInput{
		OrderID:        "o1",
		ProductID:      "p1",
		TotalPrice:     decimal.RequireFromString("2500"),
		IdempotencyKey: "req-1",
	}
	first, err := uc.Place(context.Background(), in)
	require.NoError(t, err)

	second, err := uc.Place(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Len(t, s.orderItems.items, 1)
}

func TestUpdateStatusPaidWritesBackdatedEntry(t *testing.T) {
	s := newMemStore()
	seedOrder(s, "o1", "u1", domain.OrderCreatedAwaitingPayment, "2500")
	seedOrderItem(s, "i1", "o1", domain.ItemCreatedAwaitingPayment, "2500")

	uc := NewOrderItems(s, nil)
	li, err := uc.UpdateStatus(context.Background(), UpdateOrderItemStatusInput{
		ItemID: "i1",
		Status: domain.ItemPaidAwaitingConfirmation,
	})
	require.NoError(t, err)
	require.Equal(t, domain.ItemPaidAwaitingConfirmation, li.StatusID)

	entries, err := s.history.ListByItem(context.Background(), "i1")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// first: the backdated "paid successfully" entry closing the old step
	backdated := entries[0]
	require.Equal(t, domain.ItemCreatedAwaitingPayment, backdated.StatusID)
	require.Equal(t, domain.MsgPaidSuccessfully.EN, backdated.MessageEN)
	require.NotNil(t, backdated.IsPassed)
	require.True(t, *backdated.IsPassed)
	require.NotNil(t, backdated.TakenAt)
	require.NotNil(t, backdated.PassedAt)

	// second: the standard entry for the new status
	current := entries[1]
	require.Equal(t, domain.ItemPaidAwaitingConfirmation, current.StatusID)
	require.Equal(t, domain.ItemStatusMessage(domain.ItemPaidAwaitingConfirmation).EN, current.MessageEN)
	require.Nil(t, current.IsPassed)
}

func TestUpdateStatusOrdinaryTransitionSingleEntry(t *testing.T) {
	s := newMemStore()
	seedOrder(s, "o1", "u1", domain.OrderPaid, "2500")
	seedOrderItem(s, "i1", "o1", domain.ItemPaidAwaitingConfirmation, "2500")

	uc := NewOrderItems(s, nil)
	_, err := uc.UpdateStatus(context.Background(), UpdateOrderItemStatusInput{
		ItemID: "i1",
		Status: domain.ItemInDelivery,
	})
	require.NoError(t, err)

	entries, _ := s.history.ListByItem(context.Background(), "i1")
	require.Len(t, entries, 1)
	require.Equal(t, domain.ItemInDelivery, entries[0].StatusID)
}

func TestUpdateStatusRejectsIllegalTransition(t *testing.T) {
	s := newMemStore()
	seedOrder(s, "o1", "u1", domain.OrderCreatedAwaitingPayment, "2500")
	seedOrderItem(s, "i1", "o1", domain.ItemCreatedAwaitingPayment, "2500")

	uc := NewOrderItems(s, nil)
	_, err := uc.UpdateStatus(context.Background(), UpdateOrderItemStatusInput{
		ItemID: "i1",
		Status: domain.ItemInDelivery,
	})
	require.ErrorIs(t, err, domain.ErrIllegalStatusTransition)
	require.Empty(t, s.history.entries)
}

func TestCancelReasonOnlyOnCancellingStatuses(t *testing.T) {
	s := newMemStore()
	seedOrder(s, "o1", "u1", domain.OrderPaid, "5000")
	seedOrderItem(s, "i1", "o1", domain.ItemPaidAwaitingConfirmation, "3000")
	seedOrderItem(s, "i2", "o1", domain.ItemPaidAwaitingConfirmation, "2000")

	reason := "customer changed their mind"
	uc := NewOrderItems(s, nil)
	li, err := uc.UpdateStatus(context.Background(), UpdateOrderItemStatusInput{
		ItemID:       "i1",
		Status:       domain.ItemCancelledAwaitingRefund,
		CancelReason: &reason,
	})
	require.NoError(t, err)
	require.NotNil(t, li.CancelReason)
	require.Equal(t, reason, *li.CancelReason)

	entries, _ := s.history.ListByItem(context.Background(), "i1")
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].CancelReason)

	// a non-cancelling transition drops a stray reason
	li2, err := uc.UpdateStatus(context.Background(), UpdateOrderItemStatusInput{
		ItemID:       "i2",
		Status:       domain.ItemInDelivery,
		CancelReason: &reason,
	})
	require.NoError(t, err)
	require.Nil(t, li2.CancelReason)
}

func TestRefundPendingItemExcludedFromTotal(t *testing.T) {
	s := newMemStore()
	seedOrder(s, "o1", "u1", domain.OrderPaid, "5000")
	seedOrderItem(s, "i1", "o1", domain.ItemPaidAwaitingConfirmation, "3000")
	seedOrderItem(s, "i2", "o1", domain.ItemPaidAwaitingConfirmation, "2000")

	uc := NewOrderItems(s, nil)
	_, err := uc.UpdateStatus(context.Background(), UpdateOrderItemStatusInput{
		ItemID: "i1",
		Status: domain.ItemCancelledAwaitingRefund,
	})
	require.NoError(t, err)

	order, _ := s.orders.GetByID(context.Background(), "o1")
	require.True(t, order.TotalPrice.Equal(decimal.RequireFromString("2000")))
	require.Equal(t, domain.OrderPaid, order.StatusID)
}

func TestZeroTotalEscalatesToAwaitingRefund(t *testing.T) {
	s := newMemStore()
	seedOrder(s, "o1", "u1", domain.OrderPaid, "3000")
	seedOrderItem(s, "i1", "o1", domain.ItemPaidAwaitingConfirmation, "3000")

	uc := NewOrderItems(s, nil)
	_, err := uc.UpdateStatus(context.Background(), UpdateOrderItemStatusInput{
		ItemID: "i1",
		Status: domain.ItemCancelledAwaitingRefund,
	})
	require.NoError(t, err)

	order, _ := s.orders.GetByID(context.Background(), "o1")
	require.Equal(t, domain.OrderCancelledAwaitingRefund, order.StatusID)
	require.True(t, order.TotalPrice.IsZero())
	require.True(t, order.IsCanceled)
	require.False(t, order.IsActive)

	// the escalation publishes its own status-changed event
	require.Len(t, s.outbox.events, 1)
	require.Equal(t, orderEventsChannel, s.outbox.events[0].channel)
}

func TestRemovingLastItemCancelsOrder(t *testing.T) {
	s := newMemStore()
	seedOrder(s, "o1", "u1", domain.OrderCreatedAwaitingPayment, "2500")
	seedOrderItem(s, "i1", "o1", domain.ItemCreatedAwaitingPayment, "2500")

	uc := NewOrderItems(s, nil)
	require.NoError(t, uc.Remove(context.Background(), "i1"))

	order, _ := s.orders.GetByID(context.Background(), "o1")
	require.Equal(t, domain.OrderCancelled, order.StatusID)
	require.True(t, order.TotalPrice.IsZero())
	require.True(t, order.IsCanceled)
}

func TestReconcileIsIdempotent(t *testing.T) {
	s := newMemStore()
	seedOrder(s, "o1", "u1", domain.OrderPaid, "3000")
	seedOrderItem(s, "i1", "o1", domain.ItemPaidAwaitingConfirmation, "3000")

	uc := NewOrderItems(s, nil)
	_, err := uc.UpdateStatus(context.Background(), UpdateOrderItemStatusInput{
		ItemID: "i1",
		Status: domain.ItemCancelledAwaitingRefund,
	})
	require.NoError(t, err)
	require.Len(t, s.outbox.events, 1)
	historyLen := len(s.history.entries)

	// same status again: reconcile runs, but nothing changes
	_, err = uc.UpdateStatus(context.Background(), UpdateOrderItemStatusInput{
		ItemID: "i1",
		Status: domain.ItemCancelledAwaitingRefund,
	})
	require.NoError(t, err)
	require.Len(t, s.outbox.events, 1)
	require.Len(t, s.history.entries, historyLen)

	order, _ := s.orders.GetByID(context.Background(), "o1")
	require.Equal(t, domain.OrderCancelledAwaitingRefund, order.StatusID)
}

func TestConfirmDeliveryChecksCode(t *testing.T) {
	s := newMemStore()
	seedOrder(s, "o1", "u1", domain.OrderPaid, "2500")
	seedOrderItem(s, "i1", "o1", domain.ItemAwaitingDeliveryConfirmation, "2500")
	require.NoError(t, s.codes.Insert(context.Background(), &domain.VerificationCode{
		ID: "vc1", OrderItemID: "i1", Code: "1234", IsActive: true,
	}))

	uc := NewOrderItems(s, nil)

	_, err := uc.ConfirmDelivery(context.Background(), "i1", "0000")
	require.ErrorIs(t, err, ErrInvalidVerificationCode)

	li, err := uc.ConfirmDelivery(context.Background(), "i1", "1234")
	require.NoError(t, err)
	require.Equal(t, domain.ItemSuccessfullyReceived, li.StatusID)

	// code is single-use
	_, err = s.codes.GetActiveByItem(context.Background(), "i1")
	require.ErrorIs(t, err, ErrNotFound)

	entries, _ := s.history.ListByItem(context.Background(), "i1")
	require.Len(t, entries, 1)
	require.Equal(t, domain.ItemSuccessfullyReceived, entries[0].StatusID)
}

func TestConfirmDeliveryRejectedTransitionKeepsCode(t *testing.T) {
	s := newMemStore()
	seedOrder(s, "o1", "u1", domain.OrderPaid, "2500")
	seedOrderItem(s, "i1", "o1", domain.ItemInDelivery, "2500")
	require.NoError(t, s.codes.Insert(context.Background(), &domain.VerificationCode{
		ID: "vc1", OrderItemID: "i1", Code: "1234", IsActive: true,
	}))

	// the item has not reached awaiting_delivery_confirmation yet
	uc := NewOrderItems(s, nil)
	_, err := uc.ConfirmDelivery(context.Background(), "i1", "1234")
	require.ErrorIs(t, err, domain.ErrIllegalStatusTransition)

	// the code survives the rejected handoff and the courier can retry
	vc, err := s.codes.GetActiveByItem(context.Background(), "i1")
	require.NoError(t, err)
	require.True(t, vc.IsActive)

	li, err := s.orderItems.GetByID(context.Background(), "i1")
	require.NoError(t, err)
	require.Equal(t, domain.ItemInDelivery, li.StatusID)
	require.Empty(t, s.history.entries)
}
