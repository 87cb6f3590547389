package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rideflow/ride-saga/internal/domain/models"
	"github.com/rideflow/ride-saga/internal/domain/types"
	"github.com/rideflow/ride-saga/pkg/logger"
	"github.com/rideflow/ride-saga/pkg/uuid"
)

type fakePaymentRepo struct {
	created *models.Payment
	updates []paymentUpdate
}

type paymentUpdate struct {
	status        types.PaymentStatus
	transactionID string
	failureReason string
}

func (f *fakePaymentRepo) Create(_ context.Context, p *models.Payment) error {
	cp := *p
	f.created = &cp
	return nil
}

func (f *fakePaymentRepo) UpdateStatus(_ context.Context, _ uuid.UUID, status types.PaymentStatus, transactionID, failureReason string) error {
	f.updates = append(f.updates, paymentUpdate{status, transactionID, failureReason})
	return nil
}

type fakeRideRepo struct {
	statuses map[string]types.RideStatus
}

func (f *fakeRideRepo) UpdateStatus(_ context.Context, rideID string, status types.RideStatus) error {
	if f.statuses == nil {
		f.statuses = map[string]types.RideStatus{}
	}
	f.statuses[rideID] = status
	return nil
}

type fakeGateway struct {
	result      GatewayResult
	err         error
	seenPending bool
	repo        *fakePaymentRepo
}

func (f *fakeGateway) Charge(context.Context, string, float64) (GatewayResult, error) {
	// Observes ordering: the payment row must exist before the charge.
	if f.repo != nil && f.repo.created != nil {
		f.seenPending = f.repo.created.Status == types.PaymentProcessing
	}
	return f.result, f.err
}

type fakeBus struct {
	published []models.PaymentEvent
}

func (f *fakeBus) Publish(_ context.Context, detailType string, detail any) error {
	if detailType == models.DetailPaymentCompleted {
		f.published = append(f.published, detail.(models.PaymentEvent))
	}
	return nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func assignedEvent() models.DriverAssignedEvent {
	return models.DriverAssignedEvent{
		RideID:         "ride-1",
		RiderID:        "u1",
		DriverID:       "driver-1",
		DriverName:     "Driver One",
		EstimatedPrice: "18.75",
		PaymentMethod:  "credit-card",
		CorrelationID:  "corr-1",
	}
}

func newTestService(repo *fakePaymentRepo, rides *fakeRideRepo, gw *fakeGateway, bus *fakeBus) *Service {
	return NewService(repo, rides, gw, bus, passthroughTxManager{}, logger.InitLogger("test", logger.LevelError))
}

func TestApprovedCharge(t *testing.T) {
	repo := &fakePaymentRepo{}
	rides := &fakeRideRepo{}
	gw := &fakeGateway{repo: repo, result: GatewayResult{Approved: true, TransactionID: "txn_abcd1234"}}
	bus := &fakeBus{}
	svc := newTestService(repo, rides, gw, bus)

	require.NoError(t, svc.HandleDriverAssigned(context.Background(), assignedEvent()))

	require.NotNil(t, repo.created)
	assert.Equal(t, 18.75, repo.created.Amount)
	assert.Equal(t, "corr-1", repo.created.CorrelationID)
	assert.True(t, gw.seenPending, "payment row must be at processing before the gateway call")
	assert.Equal(t, types.RidePaymentProcessing, rides.statuses["ride-1"])

	require.Len(t, repo.updates, 1)
	assert.Equal(t, types.PaymentCompleted, repo.updates[0].status)
	assert.Equal(t, "txn_abcd1234", repo.updates[0].transactionID)

	require.Len(t, bus.published, 1)
	event := bus.published[0]
	assert.Equal(t, "18.75", event.Amount)
	assert.Equal(t, "txn_abcd1234", event.TransactionID)
	assert.Equal(t, "corr-1", event.CorrelationID)
}

func TestDeclinedCharge(t *testing.T) {
	repo := &fakePaymentRepo{}
	rides := &fakeRideRepo{}
	gw := &fakeGateway{repo: repo, result: GatewayResult{Approved: false, FailureReason: declineReason}}
	bus := &fakeBus{}
	svc := newTestService(repo, rides, gw, bus)

	// A decline is an outcome, not an error: the delivery is acked.
	require.NoError(t, svc.HandleDriverAssigned(context.Background(), assignedEvent()))

	require.Len(t, repo.updates, 1)
	assert.Equal(t, types.PaymentFailed, repo.updates[0].status)
	assert.Equal(t, "Payment gateway declined transaction", repo.updates[0].failureReason)
	assert.Empty(t, repo.updates[0].transactionID)

	assert.Empty(t, bus.published, "no event is emitted on decline")
}

func TestGatewayErrorPropagates(t *testing.T) {
	repo := &fakePaymentRepo{}
	gw := &fakeGateway{repo: repo, err: errors.New("gateway unreachable")}
	svc := newTestService(repo, &fakeRideRepo{}, gw, &fakeBus{})

	err := svc.HandleDriverAssigned(context.Background(), assignedEvent())
	require.Error(t, err)
	assert.Empty(t, repo.updates, "payment stays at processing when the charge never ran")
}

func TestHandleDriverAssignedValidation(t *testing.T) {
	svc := newTestService(&fakePaymentRepo{}, &fakeRideRepo{}, &fakeGateway{}, &fakeBus{})

	event := assignedEvent()
	event.RideID = ""
	require.ErrorIs(t, svc.HandleDriverAssigned(context.Background(), event), types.ErrValidation)

	event = assignedEvent()
	event.DriverID = ""
	require.ErrorIs(t, svc.HandleDriverAssigned(context.Background(), event), types.ErrValidation)

	event = assignedEvent()
	event.EstimatedPrice = "not-a-number"
	require.ErrorIs(t, svc.HandleDriverAssigned(context.Background(), event), types.ErrSerialization)
}
