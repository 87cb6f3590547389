package completion

import (
	"context"
	"errors"
	"fmt"

	"github.com/rideflow/ride-saga/internal/domain/models"
	"github.com/rideflow/ride-saga/internal/domain/types"
	"github.com/rideflow/ride-saga/pkg/logger"
	wrap "github.com/rideflow/ride-saga/pkg/logger/wrapper"
)

const (
	syntheticRiderID  = "rider-batch-test"
	syntheticDriverID = "driver-batch-test"
)

// Result summarizes a non-fatal completion outcome. ErrorType records a
// tolerated failure (currently only a missing ride row).
type Result struct {
	Success   bool
	ErrorType string
}

// Service finalizes the saga: the ride moves to its terminal status and
// the driver is released back to available. A ride that no longer
// exists is tolerated; a driver that cannot be released is not.
type Service struct {
	rides   RideRepo
	drivers DriverRepo
	log     logger.Logger
}

func NewService(rides RideRepo, drivers DriverRepo, log logger.Logger) *Service {
	return &Service{
		rides:   rides,
		drivers: drivers,
		log:     log,
	}
}

func (s *Service) HandlePaymentEvent(ctx context.Context, detailType string, event models.PaymentEvent) (Result, error) {
	ctx = wrap.WithLogCtx(ctx, wrap.LogCtx{
		Action:        types.ActionCompleteRide,
		CorrelationID: event.CorrelationID,
		RideID:        event.RideID,
		PaymentID:     event.PaymentID,
		DriverID:      event.DriverID,
	})

	if err := validateEvent(event); err != nil {
		return Result{}, wrap.Error(ctx, err)
	}

	// Synthetic batch-test traffic never touches the store.
	if event.RiderID == syntheticRiderID || event.DriverID == syntheticDriverID {
		s.log.Info(ctx, "synthetic test event, skipping store updates")
		return Result{Success: true}, nil
	}

	target := types.RideCompleted
	if detailType == models.DetailPaymentFailed {
		target = types.RidePaymentFailed
	}

	var result Result

	// Step 1: ride. A missing row is a tolerated partial failure;
	// anything else aborts before the driver is touched.
	if err := s.rides.UpdateStatus(ctx, event.RideID, target); err != nil {
		if !errors.Is(err, types.ErrRideNotFound) {
			return Result{}, wrap.Error(ctx, fmt.Errorf("update ride status: %w", err))
		}
		s.log.Warn(ctx, "ride not found, continuing with driver release")
		result.ErrorType = "RideNotFound"
	}

	// Step 2: driver release. This failing is fatal regardless of step 1.
	if err := s.drivers.UpdateStatus(ctx, event.DriverID, types.DriverAvailable); err != nil {
		return Result{}, wrap.Error(ctx, fmt.Errorf("release driver: %w", err))
	}

	result.Success = true
	s.log.Info(ctx, "ride completion processed",
		"target_status", target,
		"error_type", result.ErrorType,
	)

	return result, nil
}

func validateEvent(event models.PaymentEvent) error {
	switch {
	case event.RideID == "":
		return fmt.Errorf("%w: rideId is required", types.ErrValidation)
	case event.DriverID == "":
		return fmt.Errorf("%w: driverId is required", types.ErrValidation)
	case event.PaymentID == "":
		return fmt.Errorf("%w: paymentId is required", types.ErrValidation)
	}
	return nil
}
