package queue

import (
	"context"
	"log/slog"
	"time"

	"github.com/IDLKZ/jankuier-back-sub002/internal/adapter/repo"
)

// OutboxPublisher drains PENDING outbox rows to RabbitMQ. Events are written
// to the outbox inside the same transaction as the state change; this loop is
// the only asynchronous part of event delivery.
type OutboxPublisher struct {
	outbox   *repo.MySQLOutboxRepo
	producer *RabbitProducer
	interval time.Duration
	batch    int
	log      *slog.Logger
}

func NewOutboxPublisher(outbox *repo.MySQLOutboxRepo, producer *RabbitProducer, interval time.Duration, log *slog.Logger) *OutboxPublisher {
	if interval <= 0 {
		interval = time.Second
	}
	return &OutboxPublisher{
		outbox:   outbox,
		producer: producer,
		interval: interval,
		batch:    100,
		log:      log,
	}
}

// Run polls until ctx is cancelled.
func (p *OutboxPublisher) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.drain(ctx); err != nil {
				p.log.Error("outbox drain failed", "error", err)
			}
		}
	}
}

func (p *OutboxPublisher) drain(ctx context.Context) error {
	records, err := p.outbox.FetchPending(ctx, p.batch)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if err := p.producer.Publish(ctx, rec.Channel, rec.Payload); err != nil {
			// leave the row PENDING; the next tick retries
			p.log.Warn("outbox publish failed", "id", rec.ID, "channel", rec.Channel, "error", err)
			continue
		}
		if err := p.outbox.MarkSent(ctx, rec.ID); err != nil {
			p.log.Warn("outbox mark sent failed", "id", rec.ID, "error", err)
		}
	}
	return nil
}
