package pricing

import (
	"context"

	"github.com/rideflow/ride-saga/internal/domain/models"
)

type PricingRepo interface {
	Put(ctx context.Context, calc *models.PriceCalculation) error
}

// SurgeSource yields the current rush hour multiplier. Read on every
// priced ride, never cached by this stage.
type SurgeSource interface {
	RushHourMultiplier(ctx context.Context) (float64, error)
}

type EventBus interface {
	Publish(ctx context.Context, detailType string, detail any) error
}
