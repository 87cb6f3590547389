package intake

import (
	"context"
	"fmt"
	"time"

	"github.com/rideflow/ride-saga/internal/domain/models"
	"github.com/rideflow/ride-saga/internal/domain/types"
	"github.com/rideflow/ride-saga/pkg/logger"
	wrap "github.com/rideflow/ride-saga/pkg/logger/wrapper"
	"github.com/rideflow/ride-saga/pkg/uuid"
)

const defaultPaymentMethod = "credit-card"

// Service starts the saga: it persists the requested ride and emits the
// ride created event. The two steps are not atomic; a ride whose event
// never went out stays at requested until someone replays it.
type Service struct {
	repo RideRepo
	bus  EventBus
	log  logger.Logger
}

func NewService(repo RideRepo, bus EventBus, log logger.Logger) *Service {
	return &Service{
		repo: repo,
		bus:  bus,
		log:  log,
	}
}

func (s *Service) CreateRide(ctx context.Context, req models.CreateRideRequest) (models.Ride, error) {
	ctx = wrap.WithAction(ctx, types.ActionCreateRide)

	if err := validateCreateRequest(req); err != nil {
		return models.Ride{}, wrap.Error(ctx, err)
	}

	rideID, err := uuid.New()
	if err != nil {
		return models.Ride{}, wrap.Error(ctx, fmt.Errorf("generate ride id: %w", err))
	}
	ctx = wrap.WithRideID(ctx, rideID.String())

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = defaultPaymentMethod
	}

	ride := &models.Ride{
		ID:                  rideID,
		RiderID:             req.RiderID,
		RiderName:           req.RiderName,
		PickupLocation:      *req.PickupLocation,
		DestinationLocation: *req.DestinationLocation,
		PaymentMethod:       paymentMethod,
		Status:              types.RideRequested,
	}

	created, err := s.repo.Create(ctx, ride)
	if err != nil {
		return models.Ride{}, wrap.Error(ctx, fmt.Errorf("persist ride: %w", err))
	}

	s.log.Info(ctx, "ride created", "rider_id", created.RiderID, "status", created.Status)

	event := models.RideCreatedEvent{
		RideID:              created.ID.String(),
		RiderID:             created.RiderID,
		RiderName:           created.RiderName,
		PickupLocation:      &created.PickupLocation,
		DestinationLocation: &created.DestinationLocation,
		PaymentMethod:       created.PaymentMethod,
		Timestamp:           time.Now().UTC().Format(time.RFC3339),
		CorrelationID:       wrap.CorrelationID(ctx),
	}

	if err := s.bus.Publish(ctx, models.DetailRideCreated, event); err != nil {
		// The ride is persisted; the saga stalls until the event is replayed.
		s.log.Error(ctx, "ride persisted but event not published", err)
		return *created, wrap.Error(ctx, fmt.Errorf("publish ride created: %w", err))
	}

	return *created, nil
}

func (s *Service) GetRide(ctx context.Context, rideID string) (models.Ride, error) {
	ctx = wrap.WithRideID(ctx, rideID)

	id, err := uuid.Parse(rideID)
	if err != nil {
		return models.Ride{}, wrap.Error(ctx, fmt.Errorf("%w: malformed ride id %q", types.ErrValidation, rideID))
	}

	ride, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.Ride{}, wrap.Error(ctx, err)
	}

	return *ride, nil
}

func validateCreateRequest(req models.CreateRideRequest) error {
	switch {
	case req.RiderID == "":
		return fmt.Errorf("%w: riderId is required", types.ErrValidation)
	case req.PickupLocation == nil:
		return fmt.Errorf("%w: pickupLocation is required", types.ErrValidation)
	case req.DestinationLocation == nil:
		return fmt.Errorf("%w: destinationLocation is required", types.ErrValidation)
	}
	return nil
}
