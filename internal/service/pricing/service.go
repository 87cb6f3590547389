package pricing

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/rideflow/ride-saga/internal/domain/models"
	"github.com/rideflow/ride-saga/internal/domain/types"
	"github.com/rideflow/ride-saga/pkg/logger"
	wrap "github.com/rideflow/ride-saga/pkg/logger/wrapper"
)

const (
	basePriceMin = 5.00
	basePriceMax = 20.00
)

// Service prices a created ride: a randomized base price scaled by the
// rush hour multiplier from the secrets endpoint.
type Service struct {
	repo  PricingRepo
	surge SurgeSource
	bus   EventBus
	log   logger.Logger

	// rng is swapped out in tests for a deterministic draw.
	rng func() float64
}

func NewService(repo PricingRepo, surge SurgeSource, bus EventBus, log logger.Logger) *Service {
	return &Service{
		repo:  repo,
		surge: surge,
		bus:   bus,
		log:   log,
		rng:   rand.Float64,
	}
}

func (s *Service) HandleRideCreated(ctx context.Context, event models.RideCreatedEvent) error {
	ctx = wrap.WithLogCtx(ctx, wrap.LogCtx{
		Action:        types.ActionCalculatePrice,
		CorrelationID: event.CorrelationID,
		RideID:        event.RideID,
	})

	if err := validateEvent(event); err != nil {
		return wrap.Error(ctx, err)
	}

	multiplier, err := s.surge.RushHourMultiplier(ctx)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("fetch surge multiplier: %w", err))
	}

	basePrice := models.Round2(basePriceMin + s.rng()*(basePriceMax-basePriceMin))
	finalPrice := models.Round2(basePrice * multiplier)

	calc := &models.PriceCalculation{
		RideID:          event.RideID,
		BasePrice:       basePrice,
		FinalPrice:      finalPrice,
		SurgeMultiplier: multiplier,
	}
	if err := s.repo.Put(ctx, calc); err != nil {
		return wrap.Error(ctx, fmt.Errorf("persist price calculation: %w", err))
	}

	s.log.Info(ctx, "price calculated",
		"base_price", basePrice,
		"surge_multiplier", multiplier,
		"estimated_price", finalPrice,
	)

	out := models.PriceCalculatedEvent{
		RideID:          event.RideID,
		RiderID:         event.RiderID,
		RiderName:       event.RiderName,
		PickupLocation:  event.PickupLocation,
		DropoffLocation: event.DestinationLocation,
		EstimatedPrice:  models.FormatAmount(finalPrice),
		BasePrice:       models.FormatAmount(basePrice),
		SurgeMultiplier: strconv.FormatFloat(multiplier, 'f', -1, 64),
		PaymentMethod:   event.PaymentMethod,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		CorrelationID:   event.CorrelationID,
	}

	if err := s.bus.Publish(ctx, models.DetailPriceCalculated, out); err != nil {
		return wrap.Error(ctx, fmt.Errorf("publish price calculated: %w", err))
	}

	return nil
}

func validateEvent(event models.RideCreatedEvent) error {
	switch {
	case event.RideID == "":
		return fmt.Errorf("%w: rideId is required", types.ErrValidation)
	case event.PickupLocation == nil:
		return fmt.Errorf("%w: pickupLocation is required", types.ErrValidation)
	case event.DestinationLocation == nil:
		return fmt.Errorf("%w: destinationLocation is required", types.ErrValidation)
	}
	return nil
}
