package intake

import (
	"context"

	"github.com/rideflow/ride-saga/internal/domain/models"
	"github.com/rideflow/ride-saga/pkg/uuid"
)

type RideRepo interface {
	Create(ctx context.Context, ride *models.Ride) (*models.Ride, error)
	Get(ctx context.Context, rideID uuid.UUID) (*models.Ride, error)
}

type EventBus interface {
	Publish(ctx context.Context, detailType string, detail any) error
}
