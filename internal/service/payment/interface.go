package payment

import (
	"context"

	"github.com/rideflow/ride-saga/internal/domain/models"
	"github.com/rideflow/ride-saga/internal/domain/types"
	"github.com/rideflow/ride-saga/pkg/uuid"
)

type PaymentRepo interface {
	Create(ctx context.Context, p *models.Payment) error
	UpdateStatus(ctx context.Context, paymentID uuid.UUID, status types.PaymentStatus, transactionID, failureReason string) error
}

type RideRepo interface {
	UpdateStatus(ctx context.Context, rideID string, status types.RideStatus) error
}

// Gateway charges the rider. Declines come back as a result, not an
// error; errors mean the charge attempt itself could not run.
type Gateway interface {
	Charge(ctx context.Context, paymentMethod string, amount float64) (GatewayResult, error)
}

type GatewayResult struct {
	Approved      bool
	TransactionID string
	FailureReason string
}

type EventBus interface {
	Publish(ctx context.Context, detailType string, detail any) error
}
