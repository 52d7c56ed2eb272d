package queue

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler consumes one delivery from the order events exchange. The outbox
// publisher is at-least-once, so handlers must tolerate duplicate deliveries.
// Returning nil acks the message; an error nacks it (requeue behavior is
// decided by the Router).
type Handler interface {
	Handle(ctx context.Context, d amqp.Delivery) error
}
