package stream

import (
	"context"
	"time"

	"github.com/rideflow/ride-saga/internal/domain/models"
	"github.com/rideflow/ride-saga/internal/domain/types"
	"github.com/rideflow/ride-saga/pkg/logger"
	wrap "github.com/rideflow/ride-saga/pkg/logger/wrapper"
)

type ChangeFeed interface {
	FetchPending(ctx context.Context, limit int) ([]models.PaymentChangeRecord, error)
	RecordAttempt(ctx context.Context, changeIDs []int64) error
	MarkDispatched(ctx context.Context, changeIDs []int64) error
	ParkExhausted(ctx context.Context, changeIDs []int64, maxAttempts int) (int64, error)
}

type BatchProcessor interface {
	ProcessBatch(ctx context.Context, records []models.PaymentChangeRecord) error
}

// Poller drives the change feed: it reads pending payment changes in
// order and hands each batch to the relay. A failed batch stays pending
// and is redelivered whole on the next tick until its records run out
// of attempts and get parked.
type Poller struct {
	feed        ChangeFeed
	processor   BatchProcessor
	batchSize   int
	maxAttempts int
	interval    time.Duration

	l logger.Logger
}

func NewPoller(feed ChangeFeed, processor BatchProcessor, batchSize, maxAttempts int, interval time.Duration, log logger.Logger) *Poller {
	return &Poller{
		feed:        feed,
		processor:   processor,
		batchSize:   batchSize,
		maxAttempts: maxAttempts,
		interval:    interval,
		l:           log,
	}
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.l.Info(ctx, "change feed poller shutting down")
			return nil
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	ctx = wrap.WithAction(ctx, types.ActionChangeFeedPoll)

	records, err := p.feed.FetchPending(ctx, p.batchSize)
	if err != nil {
		p.l.Error(ctx, "fetch pending changes failed", err)
		return
	}
	if len(records) == 0 {
		return
	}

	ids := make([]int64, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ChangeID)
	}

	if err := p.processor.ProcessBatch(ctx, records); err != nil {
		p.l.Warn(ctx, "batch failed, scheduling redelivery",
			"batch_size", len(records),
			"error", err.Error(),
		)

		if err := p.feed.RecordAttempt(ctx, ids); err != nil {
			p.l.Error(ctx, "record attempt failed", err)
			return
		}

		parked, err := p.feed.ParkExhausted(ctx, ids, p.maxAttempts)
		if err != nil {
			p.l.Error(ctx, "park exhausted records failed", err)
			return
		}
		if parked > 0 {
			p.l.Warn(ctx, "parked records after exhausting attempts",
				"parked", parked,
				"max_attempts", p.maxAttempts,
			)
		}
		return
	}

	if err := p.feed.MarkDispatched(ctx, ids); err != nil {
		p.l.Error(ctx, "mark dispatched failed", err)
	}
}
