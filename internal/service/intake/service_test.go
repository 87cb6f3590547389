package intake

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rideflow/ride-saga/internal/domain/models"
	"github.com/rideflow/ride-saga/internal/domain/types"
	"github.com/rideflow/ride-saga/pkg/logger"
	wrap "github.com/rideflow/ride-saga/pkg/logger/wrapper"
	"github.com/rideflow/ride-saga/pkg/uuid"
)

type fakeRideRepo struct {
	created *models.Ride
	byID    map[string]*models.Ride
	err     error
}

func (f *fakeRideRepo) Create(_ context.Context, ride *models.Ride) (*models.Ride, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = ride
	return ride, nil
}

func (f *fakeRideRepo) Get(_ context.Context, rideID uuid.UUID) (*models.Ride, error) {
	if ride, ok := f.byID[rideID.String()]; ok {
		return ride, nil
	}
	return nil, types.ErrRideNotFound
}

type fakeBus struct {
	published []publishedEvent
	err       error
}

type publishedEvent struct {
	detailType string
	detail     any
}

func (f *fakeBus) Publish(_ context.Context, detailType string, detail any) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, publishedEvent{detailType, detail})
	return nil
}

func newTestService(repo *fakeRideRepo, bus *fakeBus) *Service {
	return NewService(repo, bus, logger.InitLogger("test", logger.LevelError))
}

func validRequest() models.CreateRideRequest {
	return models.CreateRideRequest{
		RiderID:   "u1",
		RiderName: "User One",
		PickupLocation: &models.Location{
			Latitude:  1.3,
			Longitude: 103.8,
		},
		DestinationLocation: &models.Location{
			Latitude:  1.35,
			Longitude: 103.85,
		},
		PaymentMethod: "credit-card",
	}
}

func TestCreateRide(t *testing.T) {
	repo := &fakeRideRepo{}
	bus := &fakeBus{}
	svc := newTestService(repo, bus)

	ctx := wrap.WithCorrelationID(context.Background(), "corr-123")

	ride, err := svc.CreateRide(ctx, validRequest())
	require.NoError(t, err)

	assert.Equal(t, types.RideRequested, ride.Status)
	assert.Equal(t, "u1", ride.RiderID)
	assert.NotEmpty(t, ride.ID.String())
	require.NotNil(t, repo.created)

	require.Len(t, bus.published, 1)
	assert.Equal(t, models.DetailRideCreated, bus.published[0].detailType)

	event, ok := bus.published[0].detail.(models.RideCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, ride.ID.String(), event.RideID)
	assert.Equal(t, "corr-123", event.CorrelationID)
	assert.Equal(t, 1.3, event.PickupLocation.Latitude)
	assert.Equal(t, 103.85, event.DestinationLocation.Longitude)
}

func TestCreateRideDefaultsPaymentMethod(t *testing.T) {
	repo := &fakeRideRepo{}
	bus := &fakeBus{}
	svc := newTestService(repo, bus)

	req := validRequest()
	req.PaymentMethod = ""

	ride, err := svc.CreateRide(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "credit-card", ride.PaymentMethod)
}

func TestCreateRideValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.CreateRideRequest)
	}{
		{"missing rider id", func(r *models.CreateRideRequest) { r.RiderID = "" }},
		{"missing pickup", func(r *models.CreateRideRequest) { r.PickupLocation = nil }},
		{"missing destination", func(r *models.CreateRideRequest) { r.DestinationLocation = nil }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeRideRepo{}
			bus := &fakeBus{}
			svc := newTestService(repo, bus)

			req := validRequest()
			tc.mutate(&req)

			_, err := svc.CreateRide(context.Background(), req)
			require.ErrorIs(t, err, types.ErrValidation)

			assert.Nil(t, repo.created, "nothing may be persisted on validation failure")
			assert.Empty(t, bus.published, "nothing may be emitted on validation failure")
		})
	}
}

func TestCreateRidePublishFailureKeepsRide(t *testing.T) {
	repo := &fakeRideRepo{}
	bus := &fakeBus{err: errors.New("broker down")}
	svc := newTestService(repo, bus)

	_, err := svc.CreateRide(context.Background(), validRequest())
	require.Error(t, err)

	// The ride is persisted even though the event never went out.
	assert.NotNil(t, repo.created)
	assert.Equal(t, types.RideRequested, repo.created.Status)
}

func TestGetRideMalformedID(t *testing.T) {
	svc := newTestService(&fakeRideRepo{}, &fakeBus{})

	_, err := svc.GetRide(context.Background(), "not-a-uuid")
	require.ErrorIs(t, err, types.ErrValidation)
}
