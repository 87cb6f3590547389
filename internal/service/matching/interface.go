package matching

import (
	"context"

	"github.com/rideflow/ride-saga/internal/domain/models"
	"github.com/rideflow/ride-saga/internal/domain/types"
)

type DriverRepo interface {
	Scan(ctx context.Context) ([]models.Driver, error)
	UpdateStatus(ctx context.Context, driverID string, status types.DriverStatus) error
}

type RideRepo interface {
	AssignDriver(ctx context.Context, rideID string, driverID, driverName string, status types.RideStatus) error
	UpdateStatus(ctx context.Context, rideID string, status types.RideStatus) error
}

type EventBus interface {
	Publish(ctx context.Context, detailType string, detail any) error
}
