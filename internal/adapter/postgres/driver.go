package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rideflow/ride-saga/internal/domain/models"
	"github.com/rideflow/ride-saga/internal/domain/types"
	"github.com/rideflow/ride-saga/pkg/metrics"
)

type DriverRepo struct {
	db *pgxpool.Pool
}

func NewDriverRepo(db *pgxpool.Pool) *DriverRepo {
	return &DriverRepo{db: db}
}

// Scan returns the full driver set. Availability is enforced by the
// matching stage's selection predicate, not by this query.
func (r *DriverRepo) Scan(ctx context.Context) ([]models.Driver, error) {
	q := TxOrDB(ctx, r.db)
	start := time.Now()

	query := `
        SELECT driver_id, name, address, lat, lon, status, rating, created_at, updated_at
        FROM drivers;`

	rows, err := q.Query(ctx, query)
	metrics.RecordStoreQuery("drivers", "scan", err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("driver repo: Scan: %w", err)
	}
	defer rows.Close()

	var drivers []models.Driver
	for rows.Next() {
		var d models.Driver
		if err := rows.Scan(
			&d.ID, &d.Name,
			&d.CurrentLocation.Address, &d.CurrentLocation.Latitude, &d.CurrentLocation.Longitude,
			&d.Status, &d.Rating, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			// Skip rows that fail to deserialize; a single bad driver
			// record must not break matching for the whole set.
			continue
		}
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("driver repo: Scan rows: %w", err)
	}

	return drivers, nil
}

// UpdateStatus flips a driver between available and busy. An absent row
// surfaces as ErrDriverNotFound.
func (r *DriverRepo) UpdateStatus(ctx context.Context, driverID string, status types.DriverStatus) error {
	if driverID == "" {
		return fmt.Errorf("driver repo: UpdateStatus: %w: empty driver id", types.ErrValidation)
	}

	q := TxOrDB(ctx, r.db)
	start := time.Now()

	query := `
        UPDATE drivers
        SET status = $2, updated_at = now()
        WHERE driver_id = $1;`

	cmdTag, err := q.Exec(ctx, query, driverID, status)
	metrics.RecordStoreQuery("drivers", "update_status", err, time.Since(start))
	if err != nil {
		return fmt.Errorf("driver repo: UpdateStatus: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return types.ErrDriverNotFound
	}

	return nil
}
