package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID         string
	UserID     string
	StatusID   OrderStatus
	TotalPrice decimal.Decimal
	IsCanceled bool
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type OrderLineItem struct {
	ID           string
	OrderID      string
	ProductID    string
	StatusID     OrderItemStatus
	TotalPrice   decimal.Decimal
	CancelReason *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

func (li OrderLineItem) IsCanceled() bool {
	return ItemStatusCancelsItem(li.StatusID)
}

// OrderItemHistoryEntry is append-only: rows are written on every lifecycle
// event and never updated or deleted.
type OrderItemHistoryEntry struct {
	ID              string
	OrderItemID     string
	StatusID        OrderItemStatus
	ResponsibleUser *string
	MessageKK       string
	MessageRU       string
	MessageEN       string
	IsPassed        *bool
	CancelReason    *string
	TakenAt         *time.Time
	PassedAt        *time.Time
	CreatedAt       time.Time
}

// VerificationCode is issued once per order item at creation and checked
// during the out-of-band delivery handoff.
type VerificationCode struct {
	ID          string
	OrderItemID string
	Code        string
	IsActive    bool
	CreatedAt   time.Time
}

// LocalizedMessage holds the three locales history entries are written in.
type LocalizedMessage struct {
	KK, RU, EN string
}

var (
	MsgItemAdded = LocalizedMessage{
		KK: "Тауар тапсырысқа қосылды",
		RU: "Товар добавлен в заказ",
		EN: "Item added to the order",
	}
	MsgPaidSuccessfully = LocalizedMessage{
		KK: "Сәтті төленді",
		RU: "Успешно оплачено",
		EN: "Paid successfully",
	}
)

// itemStatusMessages are the per-status messages written with each standard
// history entry.
var itemStatusMessages = map[OrderItemStatus]LocalizedMessage{
	ItemCreatedAwaitingPayment: {
		KK: "Тапсырыс жасалды, төлем күтілуде",
		RU: "Заказ создан, ожидает оплаты",
		EN: "Order created, awaiting payment",
	},
	ItemPaidAwaitingConfirmation: {
		KK: "Төленді, растау күтілуде",
		RU: "Оплачено, ожидает подтверждения",
		EN: "Paid, awaiting confirmation",
	},
	ItemInDelivery: {
		KK: "Жеткізу жолында",
		RU: "В процессе доставки",
		EN: "In delivery",
	},
	ItemAwaitingDeliveryConfirmation: {
		KK: "Жеткізуді растау күтілуде",
		RU: "Ожидает подтверждения доставки",
		EN: "Awaiting delivery confirmation",
	},
	ItemSuccessfullyReceived: {
		KK: "Сәтті қабылданды",
		RU: "Успешно получено",
		EN: "Successfully received",
	},
	ItemCancelled: {
		KK: "Бас тартылды",
		RU: "Отменено",
		EN: "Cancelled",
	},
	ItemCancelledAwaitingRefund: {
		KK: "Бас тартылды, қайтарым күтілуде",
		RU: "Отменено, ожидает возврата",
		EN: "Cancelled, awaiting refund",
	},
	ItemCancelledRefunded: {
		KK: "Бас тартылды, қайтарылды",
		RU: "Отменено, возврат выполнен",
		EN: "Cancelled, refunded",
	},
}

// ItemStatusMessage returns the localized message for a status, falling back
// to the status slug itself when no message is seeded.
func ItemStatusMessage(s OrderItemStatus) LocalizedMessage {
	if m, ok := itemStatusMessages[s]; ok {
		return m
	}
	return LocalizedMessage{KK: string(s), RU: string(s), EN: string(s)}
}

// SumActiveItems totals the given items, skipping soft-deleted rows and any
// status listed in excluded.
func SumActiveItems(items []OrderLineItem, excluded ...OrderItemStatus) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		if it.DeletedAt != nil {
			continue
		}
		skip := false
		for _, ex := range excluded {
			if it.StatusID == ex {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		sum = sum.Add(it.TotalPrice)
	}
	return sum
}
