package completion

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rideflow/ride-saga/internal/domain/models"
	"github.com/rideflow/ride-saga/internal/domain/types"
	"github.com/rideflow/ride-saga/pkg/logger"
)

type fakeRideRepo struct {
	statuses map[string]types.RideStatus
	err      error
}

func (f *fakeRideRepo) UpdateStatus(_ context.Context, rideID string, status types.RideStatus) error {
	if f.err != nil {
		return f.err
	}
	if f.statuses == nil {
		f.statuses = map[string]types.RideStatus{}
	}
	f.statuses[rideID] = status
	return nil
}

type fakeDriverRepo struct {
	statuses map[string]types.DriverStatus
	err      error
}

func (f *fakeDriverRepo) UpdateStatus(_ context.Context, driverID string, status types.DriverStatus) error {
	if f.err != nil {
		return f.err
	}
	if f.statuses == nil {
		f.statuses = map[string]types.DriverStatus{}
	}
	f.statuses[driverID] = status
	return nil
}

func paymentEvent() models.PaymentEvent {
	return models.PaymentEvent{
		PaymentID:     "pay-1",
		RideID:        "ride-1",
		RiderID:       "u1",
		DriverID:      "driver-1",
		Amount:        "18.75",
		CorrelationID: "corr-1",
	}
}

func newTestService(rides *fakeRideRepo, drivers *fakeDriverRepo) *Service {
	return NewService(rides, drivers, logger.InitLogger("test", logger.LevelError))
}

func TestCompletedPayment(t *testing.T) {
	rides := &fakeRideRepo{}
	drivers := &fakeDriverRepo{}
	svc := newTestService(rides, drivers)

	result, err := svc.HandlePaymentEvent(context.Background(), models.DetailPaymentCompleted, paymentEvent())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Empty(t, result.ErrorType)
	assert.Equal(t, types.RideCompleted, rides.statuses["ride-1"])
	assert.Equal(t, types.DriverAvailable, drivers.statuses["driver-1"])
}

func TestFailedPaymentTargetsPaymentFailed(t *testing.T) {
	rides := &fakeRideRepo{}
	drivers := &fakeDriverRepo{}
	svc := newTestService(rides, drivers)

	result, err := svc.HandlePaymentEvent(context.Background(), models.DetailPaymentFailed, paymentEvent())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, types.RidePaymentFailed, rides.statuses["ride-1"])
	assert.Equal(t, types.DriverAvailable, drivers.statuses["driver-1"])
}

func TestMissingRideIsTolerated(t *testing.T) {
	rides := &fakeRideRepo{err: types.ErrRideNotFound}
	drivers := &fakeDriverRepo{}
	svc := newTestService(rides, drivers)

	result, err := svc.HandlePaymentEvent(context.Background(), models.DetailPaymentCompleted, paymentEvent())
	require.NoError(t, err)

	// Driver still released, outcome recorded, overall success.
	assert.True(t, result.Success)
	assert.Equal(t, "RideNotFound", result.ErrorType)
	assert.Equal(t, types.DriverAvailable, drivers.statuses["driver-1"])
}

func TestFatalRideErrorAbortsBeforeDriver(t *testing.T) {
	rides := &fakeRideRepo{err: errors.New("store unreachable")}
	drivers := &fakeDriverRepo{}
	svc := newTestService(rides, drivers)

	_, err := svc.HandlePaymentEvent(context.Background(), models.DetailPaymentCompleted, paymentEvent())
	require.Error(t, err)
	assert.Empty(t, drivers.statuses, "driver must not be touched after a fatal ride error")
}

func TestDriverReleaseFailureIsFatal(t *testing.T) {
	rides := &fakeRideRepo{}
	drivers := &fakeDriverRepo{err: errors.New("store unreachable")}
	svc := newTestService(rides, drivers)

	_, err := svc.HandlePaymentEvent(context.Background(), models.DetailPaymentCompleted, paymentEvent())
	require.Error(t, err)
}

func TestSyntheticTrafficShortCircuits(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(*models.PaymentEvent)
	}{
		{"synthetic rider", func(e *models.PaymentEvent) { e.RiderID = "rider-batch-test" }},
		{"synthetic driver", func(e *models.PaymentEvent) { e.DriverID = "driver-batch-test" }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rides := &fakeRideRepo{}
			drivers := &fakeDriverRepo{}
			svc := newTestService(rides, drivers)

			event := paymentEvent()
			tc.mutate(&event)

			result, err := svc.HandlePaymentEvent(context.Background(), models.DetailPaymentCompleted, event)
			require.NoError(t, err)

			assert.True(t, result.Success)
			assert.Empty(t, rides.statuses)
			assert.Empty(t, drivers.statuses)
		})
	}
}

func TestHandlePaymentEventValidation(t *testing.T) {
	svc := newTestService(&fakeRideRepo{}, &fakeDriverRepo{})

	for _, tc := range []struct {
		name   string
		mutate func(*models.PaymentEvent)
	}{
		{"missing ride id", func(e *models.PaymentEvent) { e.RideID = "" }},
		{"missing driver id", func(e *models.PaymentEvent) { e.DriverID = "" }},
		{"missing payment id", func(e *models.PaymentEvent) { e.PaymentID = "" }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			event := paymentEvent()
			tc.mutate(&event)

			_, err := svc.HandlePaymentEvent(context.Background(), models.DetailPaymentCompleted, event)
			require.ErrorIs(t, err, types.ErrValidation)
		})
	}
}
