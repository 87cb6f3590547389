package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rideflow/ride-saga/internal/domain/models"
	"github.com/rideflow/ride-saga/pkg/metrics"
)

type PricingRepo struct {
	db *pgxpool.Pool
}

func NewPricingRepo(db *pgxpool.Pool) *PricingRepo {
	return &PricingRepo{db: db}
}

// Put persists a price calculation keyed by ride id. The upsert makes a
// redelivered RideCreated idempotent for the same multiplier; a
// different multiplier silently overwrites the earlier calculation.
func (r *PricingRepo) Put(ctx context.Context, calc *models.PriceCalculation) error {
	q := TxOrDB(ctx, r.db)
	start := time.Now()

	query := `
        INSERT INTO price_calculations (ride_id, base_price, final_price, surge_multiplier, created_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (ride_id) DO UPDATE
        SET base_price = EXCLUDED.base_price,
            final_price = EXCLUDED.final_price,
            surge_multiplier = EXCLUDED.surge_multiplier,
            created_at = EXCLUDED.created_at;`

	_, err := q.Exec(ctx, query,
		calc.RideID, calc.BasePrice, calc.FinalPrice, calc.SurgeMultiplier, calc.CreatedAt,
	)
	metrics.RecordStoreQuery("price_calculations", "put", err, time.Since(start))
	if err != nil {
		return fmt.Errorf("pricing repo: Put: %w", err)
	}

	return nil
}
