package pricing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rideflow/ride-saga/internal/domain/models"
	"github.com/rideflow/ride-saga/internal/domain/types"
	"github.com/rideflow/ride-saga/pkg/logger"
)

type fakePricingRepo struct {
	puts []models.PriceCalculation
	err  error
}

func (f *fakePricingRepo) Put(_ context.Context, calc *models.PriceCalculation) error {
	if f.err != nil {
		return f.err
	}
	f.puts = append(f.puts, *calc)
	return nil
}

type fakeSurge struct {
	multiplier float64
	err        error
	calls      int
}

func (f *fakeSurge) RushHourMultiplier(context.Context) (float64, error) {
	f.calls++
	return f.multiplier, f.err
}

type fakeBus struct {
	published []models.PriceCalculatedEvent
	err       error
}

func (f *fakeBus) Publish(_ context.Context, detailType string, detail any) error {
	if f.err != nil {
		return f.err
	}
	if detailType == models.DetailPriceCalculated {
		f.published = append(f.published, detail.(models.PriceCalculatedEvent))
	}
	return nil
}

func newTestService(repo *fakePricingRepo, surge *fakeSurge, bus *fakeBus, draw float64) *Service {
	svc := NewService(repo, surge, bus, logger.InitLogger("test", logger.LevelError))
	svc.rng = func() float64 { return draw }
	return svc
}

func validEvent() models.RideCreatedEvent {
	return models.RideCreatedEvent{
		RideID:              "ride-1",
		RiderID:             "u1",
		PickupLocation:      &models.Location{Latitude: 1.3, Longitude: 103.8},
		DestinationLocation: &models.Location{Latitude: 1.35, Longitude: 103.85},
		PaymentMethod:       "credit-card",
		CorrelationID:       "corr-9",
	}
}

func TestHandleRideCreated(t *testing.T) {
	repo := &fakePricingRepo{}
	surge := &fakeSurge{multiplier: 1.5}
	bus := &fakeBus{}
	// draw=0.5 puts the base price exactly mid-band: 12.50.
	svc := newTestService(repo, surge, bus, 0.5)

	err := svc.HandleRideCreated(context.Background(), validEvent())
	require.NoError(t, err)

	require.Len(t, repo.puts, 1)
	calc := repo.puts[0]
	assert.Equal(t, "ride-1", calc.RideID)
	assert.Equal(t, 12.50, calc.BasePrice)
	assert.Equal(t, 18.75, calc.FinalPrice)
	assert.Equal(t, 1.5, calc.SurgeMultiplier)

	require.Len(t, bus.published, 1)
	out := bus.published[0]
	assert.Equal(t, "12.50", out.BasePrice)
	assert.Equal(t, "18.75", out.EstimatedPrice)
	assert.Equal(t, "1.5", out.SurgeMultiplier)
	assert.Equal(t, "corr-9", out.CorrelationID)
}

func TestBasePriceStaysInBand(t *testing.T) {
	for _, draw := range []float64{0, 0.001, 0.25, 0.999, 1} {
		repo := &fakePricingRepo{}
		bus := &fakeBus{}
		svc := newTestService(repo, &fakeSurge{multiplier: 1.0}, bus, draw)

		require.NoError(t, svc.HandleRideCreated(context.Background(), validEvent()))
		require.Len(t, repo.puts, 1)

		base := repo.puts[0].BasePrice
		assert.GreaterOrEqual(t, base, 5.00, "draw %v", draw)
		assert.LessOrEqual(t, base, 20.00, "draw %v", draw)
	}
}

func TestFinalPriceRoundsHalfUp(t *testing.T) {
	repo := &fakePricingRepo{}
	bus := &fakeBus{}
	// base 12.50 x 1.05 = 13.125, exactly on the half boundary:
	// half-up gives 13.13 where banker's rounding would give 13.12.
	svc := newTestService(repo, &fakeSurge{multiplier: 1.05}, bus, 0.5)

	require.NoError(t, svc.HandleRideCreated(context.Background(), validEvent()))
	require.Len(t, repo.puts, 1)
	assert.Equal(t, 13.13, repo.puts[0].FinalPrice)
}

func TestHandleRideCreatedValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.RideCreatedEvent)
	}{
		{"missing ride id", func(e *models.RideCreatedEvent) { e.RideID = "" }},
		{"missing pickup", func(e *models.RideCreatedEvent) { e.PickupLocation = nil }},
		{"missing destination", func(e *models.RideCreatedEvent) { e.DestinationLocation = nil }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakePricingRepo{}
			surge := &fakeSurge{multiplier: 1.5}
			bus := &fakeBus{}
			svc := newTestService(repo, surge, bus, 0.5)

			event := validEvent()
			tc.mutate(&event)

			err := svc.HandleRideCreated(context.Background(), event)
			require.ErrorIs(t, err, types.ErrValidation)

			assert.Zero(t, surge.calls, "the secret must not be fetched for an invalid event")
			assert.Empty(t, repo.puts)
			assert.Empty(t, bus.published)
		})
	}
}

func TestSurgeFetchedPerInvocation(t *testing.T) {
	repo := &fakePricingRepo{}
	surge := &fakeSurge{multiplier: 2.0}
	bus := &fakeBus{}
	svc := newTestService(repo, surge, bus, 0.5)

	require.NoError(t, svc.HandleRideCreated(context.Background(), validEvent()))
	require.NoError(t, svc.HandleRideCreated(context.Background(), validEvent()))

	assert.Equal(t, 2, surge.calls)
	// Redelivery overwrites the calculation, it does not duplicate it.
	assert.Len(t, repo.puts, 2)
}
