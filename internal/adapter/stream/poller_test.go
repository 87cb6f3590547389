package stream

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rideflow/ride-saga/internal/domain/models"
	"github.com/rideflow/ride-saga/pkg/logger"
)

type fakeFeed struct {
	pending    []models.PaymentChangeRecord
	attempts   map[int64]int
	dispatched []int64
	parked     []int64
}

func (f *fakeFeed) FetchPending(_ context.Context, limit int) ([]models.PaymentChangeRecord, error) {
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeFeed) RecordAttempt(_ context.Context, changeIDs []int64) error {
	if f.attempts == nil {
		f.attempts = map[int64]int{}
	}
	for _, id := range changeIDs {
		f.attempts[id]++
	}
	return nil
}

func (f *fakeFeed) MarkDispatched(_ context.Context, changeIDs []int64) error {
	f.dispatched = append(f.dispatched, changeIDs...)
	return nil
}

func (f *fakeFeed) ParkExhausted(_ context.Context, changeIDs []int64, maxAttempts int) (int64, error) {
	var parked int64
	for _, id := range changeIDs {
		if f.attempts[id] >= maxAttempts {
			f.parked = append(f.parked, id)
			parked++
		}
	}
	return parked, nil
}

type fakeProcessor struct {
	err     error
	batches [][]models.PaymentChangeRecord
}

func (f *fakeProcessor) ProcessBatch(_ context.Context, records []models.PaymentChangeRecord) error {
	f.batches = append(f.batches, records)
	return f.err
}

func changes(ids ...int64) []models.PaymentChangeRecord {
	records := make([]models.PaymentChangeRecord, 0, len(ids))
	for _, id := range ids {
		records = append(records, models.PaymentChangeRecord{ChangeID: id, PaymentID: "pay", Status: "completed"})
	}
	return records
}

func newTestPoller(feed *fakeFeed, processor *fakeProcessor, maxAttempts int) *Poller {
	return NewPoller(feed, processor, 10, maxAttempts, 0, logger.InitLogger("test", logger.LevelError))
}

func TestTickDispatchesSuccessfulBatch(t *testing.T) {
	feed := &fakeFeed{pending: changes(1, 2)}
	processor := &fakeProcessor{}
	p := newTestPoller(feed, processor, 3)

	p.tick(context.Background())

	require.Len(t, processor.batches, 1)
	assert.Equal(t, []int64{1, 2}, feed.dispatched)
	assert.Empty(t, feed.attempts)
	assert.Empty(t, feed.parked)
}

func TestTickRedeliversFailedBatch(t *testing.T) {
	feed := &fakeFeed{pending: changes(1, 2)}
	processor := &fakeProcessor{err: errors.New("simulated failure")}
	p := newTestPoller(feed, processor, 3)

	p.tick(context.Background())

	assert.Empty(t, feed.dispatched)
	assert.Equal(t, 1, feed.attempts[1])
	assert.Equal(t, 1, feed.attempts[2])
	assert.Empty(t, feed.parked, "one failure is below the attempt cap")
}

func TestExhaustedBatchIsParked(t *testing.T) {
	feed := &fakeFeed{pending: changes(1)}
	processor := &fakeProcessor{err: errors.New("simulated failure")}
	p := newTestPoller(feed, processor, 3)

	for range 3 {
		p.tick(context.Background())
	}

	assert.Equal(t, 3, feed.attempts[1])
	assert.Equal(t, []int64{1}, feed.parked)
	assert.Empty(t, feed.dispatched)
}

func TestEmptyFeedDoesNothing(t *testing.T) {
	feed := &fakeFeed{}
	processor := &fakeProcessor{}
	p := newTestPoller(feed, processor, 3)

	p.tick(context.Background())
	assert.Empty(t, processor.batches)
}
