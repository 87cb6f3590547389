package completion

import (
	"context"

	"github.com/rideflow/ride-saga/internal/domain/types"
)

type RideRepo interface {
	UpdateStatus(ctx context.Context, rideID string, status types.RideStatus) error
}

type DriverRepo interface {
	UpdateStatus(ctx context.Context, driverID string, status types.DriverStatus) error
}
