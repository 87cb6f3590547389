package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/rideflow/ride-saga/internal/domain/models"
	"github.com/rideflow/ride-saga/internal/domain/types"
	"github.com/rideflow/ride-saga/pkg/logger"
	wrap "github.com/rideflow/ride-saga/pkg/logger/wrapper"
	"github.com/rideflow/ride-saga/pkg/trm"
	"github.com/rideflow/ride-saga/pkg/uuid"
)

// Service charges the rider for an assigned ride. The payment row is
// persisted at processing before the gateway is called, so a crash
// mid-charge leaves an auditable record. A decline is a recorded
// business outcome: the row goes to failed and no event is emitted.
type Service struct {
	payments PaymentRepo
	rides    RideRepo
	gateway  Gateway
	bus      EventBus
	trm      trm.TxManager
	log      logger.Logger
}

func NewService(payments PaymentRepo, rides RideRepo, gateway Gateway, bus EventBus, trm trm.TxManager, log logger.Logger) *Service {
	return &Service{
		payments: payments,
		rides:    rides,
		gateway:  gateway,
		bus:      bus,
		trm:      trm,
		log:      log,
	}
}

func (s *Service) HandleDriverAssigned(ctx context.Context, event models.DriverAssignedEvent) error {
	ctx = wrap.WithLogCtx(ctx, wrap.LogCtx{
		Action:        types.ActionProcessPayment,
		CorrelationID: event.CorrelationID,
		RideID:        event.RideID,
		DriverID:      event.DriverID,
	})

	if err := validateEvent(event); err != nil {
		return wrap.Error(ctx, err)
	}

	amount, err := models.ParseAmount(event.EstimatedPrice)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%w: malformed estimatedPrice %q", types.ErrSerialization, event.EstimatedPrice))
	}

	paymentID, err := uuid.New()
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("generate payment id: %w", err))
	}
	ctx = wrap.WithPaymentID(ctx, paymentID.String())

	payment := &models.Payment{
		ID:            paymentID,
		RideID:        event.RideID,
		RiderID:       event.RiderID,
		DriverID:      event.DriverID,
		Amount:        amount,
		PaymentMethod: event.PaymentMethod,
		Status:        types.PaymentProcessing,
		CorrelationID: event.CorrelationID,
	}

	// Payment row and ride status move together, ahead of the gateway call.
	err = s.trm.Do(ctx, func(ctx context.Context) error {
		if err := s.payments.Create(ctx, payment); err != nil {
			return fmt.Errorf("persist payment: %w", err)
		}
		if err := s.rides.UpdateStatus(ctx, event.RideID, types.RidePaymentProcessing); err != nil {
			return fmt.Errorf("mark ride payment-processing: %w", err)
		}
		return nil
	})
	if err != nil {
		return wrap.Error(ctx, err)
	}

	result, err := s.gateway.Charge(ctx, payment.PaymentMethod, payment.Amount)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("gateway charge: %w", err))
	}

	if !result.Approved {
		s.log.Warn(ctx, "payment declined",
			"payment_method", payment.PaymentMethod,
			"failure_reason", result.FailureReason,
		)
		if err := s.payments.UpdateStatus(ctx, paymentID, types.PaymentFailed, "", result.FailureReason); err != nil {
			return wrap.Error(ctx, fmt.Errorf("mark payment failed: %w", err))
		}
		// No event on decline. The ride stays at payment-processing
		// until something downstream reconciles it.
		return nil
	}

	if err := s.payments.UpdateStatus(ctx, paymentID, types.PaymentCompleted, result.TransactionID, ""); err != nil {
		return wrap.Error(ctx, fmt.Errorf("mark payment completed: %w", err))
	}

	s.log.Info(ctx, "payment completed", "transaction_id", result.TransactionID)

	out := models.PaymentEvent{
		PaymentID:     paymentID.String(),
		RideID:        event.RideID,
		RiderID:       event.RiderID,
		DriverID:      event.DriverID,
		Amount:        models.FormatAmount(payment.Amount),
		PaymentMethod: payment.PaymentMethod,
		TransactionID: result.TransactionID,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		CorrelationID: event.CorrelationID,
	}

	if err := s.bus.Publish(ctx, models.DetailPaymentCompleted, out); err != nil {
		return wrap.Error(ctx, fmt.Errorf("publish payment completed: %w", err))
	}

	return nil
}

func validateEvent(event models.DriverAssignedEvent) error {
	switch {
	case event.RideID == "":
		return fmt.Errorf("%w: rideId is required", types.ErrValidation)
	case event.DriverID == "":
		return fmt.Errorf("%w: driverId is required", types.ErrValidation)
	case event.EstimatedPrice == "":
		return fmt.Errorf("%w: estimatedPrice is required", types.ErrValidation)
	}
	return nil
}
