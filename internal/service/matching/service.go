package matching

import (
	"context"
	"fmt"
	"time"

	"github.com/rideflow/ride-saga/internal/domain/models"
	"github.com/rideflow/ride-saga/internal/domain/types"
	"github.com/rideflow/ride-saga/pkg/logger"
	wrap "github.com/rideflow/ride-saga/pkg/logger/wrapper"
)

// Service assigns the nearest candidate driver to a priced ride. An
// empty candidate set ends the saga branch at no-driver-available.
type Service struct {
	drivers DriverRepo
	rides   RideRepo
	bus     EventBus
	policy  SelectionPolicy
	log     logger.Logger
}

func NewService(drivers DriverRepo, rides RideRepo, bus EventBus, policy SelectionPolicy, log logger.Logger) *Service {
	if policy == nil {
		policy = MatchAll
	}
	return &Service{
		drivers: drivers,
		rides:   rides,
		bus:     bus,
		policy:  policy,
		log:     log,
	}
}

func (s *Service) HandlePriceCalculated(ctx context.Context, event models.PriceCalculatedEvent) error {
	ctx = wrap.WithLogCtx(ctx, wrap.LogCtx{
		Action:        types.ActionMatchDriver,
		CorrelationID: event.CorrelationID,
		RideID:        event.RideID,
	})

	if err := validateEvent(event); err != nil {
		return wrap.Error(ctx, err)
	}

	drivers, err := s.drivers.Scan(ctx)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("scan drivers: %w", err))
	}

	nearest, found := s.nearestCandidate(*event.PickupLocation, drivers)
	if !found {
		// Terminal branch: mark the ride and end quietly. Replays land
		// on the same status, so redelivery is harmless.
		s.log.Warn(ctx, "no driver available", "scanned", len(drivers))
		if err := s.rides.UpdateStatus(ctx, event.RideID, types.RideNoDriverAvailable); err != nil {
			return wrap.Error(ctx, fmt.Errorf("mark ride no-driver-available: %w", err))
		}
		return nil
	}

	ctx = wrap.WithDriverID(ctx, nearest.ID)

	if err := s.drivers.UpdateStatus(ctx, nearest.ID, types.DriverBusy); err != nil {
		return wrap.Error(ctx, fmt.Errorf("mark driver busy: %w", err))
	}

	if err := s.rides.AssignDriver(ctx, event.RideID, nearest.ID, nearest.Name, types.RideDriverAssigned); err != nil {
		return wrap.Error(ctx, fmt.Errorf("assign driver to ride: %w", err))
	}

	s.log.Info(ctx, "driver assigned", "driver_name", nearest.Name)

	out := models.DriverAssignedEvent{
		RideID:          event.RideID,
		RiderID:         event.RiderID,
		RiderName:       event.RiderName,
		DriverID:        nearest.ID,
		DriverName:      nearest.Name,
		EstimatedPrice:  event.EstimatedPrice,
		BasePrice:       event.BasePrice,
		SurgeMultiplier: event.SurgeMultiplier,
		PickupLocation:  event.PickupLocation,
		DropoffLocation: event.DropoffLocation,
		PaymentMethod:   event.PaymentMethod,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		CorrelationID:   event.CorrelationID,
	}

	if err := s.bus.Publish(ctx, models.DetailDriverAssigned, out); err != nil {
		return wrap.Error(ctx, fmt.Errorf("publish driver assigned: %w", err))
	}

	return nil
}

// nearestCandidate picks the closest admitted driver by great-circle
// distance. Strict less-than keeps the first of equally distant drivers.
func (s *Service) nearestCandidate(pickup models.Location, drivers []models.Driver) (models.Driver, bool) {
	var (
		nearest models.Driver
		minDist = -1.0
		found   bool
	)

	for _, d := range drivers {
		if !s.policy(d) {
			continue
		}

		dist := haversineKm(pickup.Latitude, pickup.Longitude, d.CurrentLocation.Latitude, d.CurrentLocation.Longitude)
		if !found || dist < minDist {
			nearest = d
			minDist = dist
			found = true
		}
	}

	return nearest, found
}

func validateEvent(event models.PriceCalculatedEvent) error {
	switch {
	case event.RideID == "":
		return fmt.Errorf("%w: rideId is required", types.ErrValidation)
	case event.PickupLocation == nil:
		return fmt.Errorf("%w: pickupLocation is required", types.ErrValidation)
	}
	return nil
}
