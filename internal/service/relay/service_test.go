package relay

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rideflow/ride-saga/internal/domain/models"
	"github.com/rideflow/ride-saga/internal/domain/types"
	"github.com/rideflow/ride-saga/pkg/logger"
)

type fakeBus struct {
	published []models.PaymentEvent
	err       error
}

func (f *fakeBus) Publish(_ context.Context, detailType string, detail any) error {
	if f.err != nil {
		return f.err
	}
	if detailType == models.DetailPaymentCompleted {
		f.published = append(f.published, detail.(models.PaymentEvent))
	}
	return nil
}

func newTestService(bus *fakeBus) *Service {
	svc := NewService(bus, 0, logger.InitLogger("test", logger.LevelError))
	svc.sleep = func(context.Context, time.Duration) {}
	return svc
}

func completedChange(changeID int64, paymentID string) models.PaymentChangeRecord {
	return models.PaymentChangeRecord{
		ChangeID:      changeID,
		PaymentID:     paymentID,
		RideID:        "ride-1",
		RiderID:       "u1",
		DriverID:      "driver-1",
		CorrelationID: "corr-1",
		Amount:        "18.75",
		PaymentMethod: "credit-card",
		TransactionID: "txn_abcd1234",
		Status:        "completed",
	}
}

func TestCleanBatchStillRaisesRetryDrill(t *testing.T) {
	bus := &fakeBus{}
	svc := newTestService(bus)

	records := []models.PaymentChangeRecord{
		completedChange(1, "pay-a"),
		completedChange(2, "pay-b"),
	}

	err := svc.ProcessBatch(context.Background(), records)
	require.ErrorIs(t, err, types.ErrBatchRetryDrill)

	// Every record relayed despite the terminal fault.
	require.Len(t, bus.published, 2)
	assert.Equal(t, "pay-a", bus.published[0].PaymentID)
	assert.Equal(t, "pay-b", bus.published[1].PaymentID)
}

func TestPoisonRecordAbortsBatchInPlace(t *testing.T) {
	bus := &fakeBus{}
	svc := newTestService(bus)

	records := []models.PaymentChangeRecord{
		completedChange(1, "pay-a"),
		completedChange(2, "pay-POISON-b"),
		completedChange(3, "pay-c"),
	}

	err := svc.ProcessBatch(context.Background(), records)
	require.ErrorIs(t, err, types.ErrPoisonRecord)
	assert.Contains(t, err.Error(), "pay-POISON-b")

	// A was already relayed when B aborted; C was never reached.
	require.Len(t, bus.published, 1)
	assert.Equal(t, "pay-a", bus.published[0].PaymentID)
}

func TestSyntheticRiderSkipped(t *testing.T) {
	bus := &fakeBus{}
	svc := newTestService(bus)

	rec := completedChange(1, "pay-a")
	rec.RiderID = "rider-batch-test"

	err := svc.ProcessBatch(context.Background(), []models.PaymentChangeRecord{rec})
	require.ErrorIs(t, err, types.ErrBatchRetryDrill)
	assert.Empty(t, bus.published)
}

func TestNonCompletedStatusSkipped(t *testing.T) {
	bus := &fakeBus{}
	svc := newTestService(bus)

	failed := completedChange(1, "pay-a")
	failed.Status = "failed"
	processing := completedChange(2, "pay-b")
	processing.Status = "processing"
	ok := completedChange(3, "pay-c")

	err := svc.ProcessBatch(context.Background(), []models.PaymentChangeRecord{failed, processing, ok})
	require.ErrorIs(t, err, types.ErrBatchRetryDrill)

	require.Len(t, bus.published, 1)
	assert.Equal(t, "pay-c", bus.published[0].PaymentID)
}

func TestMalformedAmountAbortsBatch(t *testing.T) {
	bus := &fakeBus{}
	svc := newTestService(bus)

	rec := completedChange(1, "pay-a")
	rec.Amount = "eighteen"

	err := svc.ProcessBatch(context.Background(), []models.PaymentChangeRecord{rec})
	require.ErrorIs(t, err, types.ErrSerialization)
	assert.Empty(t, bus.published)
}

func TestRelayedEventShape(t *testing.T) {
	bus := &fakeBus{}
	svc := newTestService(bus)

	err := svc.ProcessBatch(context.Background(), []models.PaymentChangeRecord{completedChange(1, "pay-a")})
	require.ErrorIs(t, err, types.ErrBatchRetryDrill)

	require.Len(t, bus.published, 1)
	event := bus.published[0]
	assert.Equal(t, "pay-a", event.PaymentID)
	assert.Equal(t, "ride-1", event.RideID)
	assert.Equal(t, "18.75", event.Amount)
	assert.Equal(t, "txn_abcd1234", event.TransactionID)
	assert.Equal(t, "corr-1", event.CorrelationID)
}
