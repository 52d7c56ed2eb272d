package usecase

import (
	"context"
	"fmt"
	"time"

	domain "github.com/IDLKZ/jankuier-back-sub002/internal/entity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Orders creates order aggregates. Items are added separately via OrderItems.
type Orders struct {
	tx TxRunner
}

func NewOrders(tx TxRunner) *Orders {
	return &Orders{tx: tx}
}

func (uc *Orders) Create(ctx context.Context, userID string) (*domain.Order, error) {
	now := time.Now().UTC()
	order := &domain.Order{
		ID:         uuid.NewString(),
		UserID:     userID,
		StatusID:   domain.OrderCreatedAwaitingPayment,
		TotalPrice: decimal.Zero,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err := uc.tx.Within(ctx, func(r Repos) error {
		if err := r.Orders.Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}
