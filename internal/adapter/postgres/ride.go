package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rideflow/ride-saga/internal/domain/models"
	"github.com/rideflow/ride-saga/internal/domain/types"
	"github.com/rideflow/ride-saga/pkg/metrics"
	pkgpostgres "github.com/rideflow/ride-saga/pkg/postgres"
	"github.com/rideflow/ride-saga/pkg/uuid"
)

type RideRepo struct {
	db *pgxpool.Pool
}

func NewRideRepo(db *pgxpool.Pool) *RideRepo {
	return &RideRepo{db: db}
}

func (r *RideRepo) Create(ctx context.Context, ride *models.Ride) (*models.Ride, error) {
	q := TxOrDB(ctx, r.db)
	start := time.Now()

	query := `
        INSERT INTO rides (ride_id, rider_id, rider_name,
                           pickup_address, pickup_lat, pickup_lon,
                           dest_address, dest_lat, dest_lon,
                           status, payment_method)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING created_at, updated_at;`

	err := q.QueryRow(ctx, query,
		ride.ID, ride.RiderID, ride.RiderName,
		ride.PickupLocation.Address, ride.PickupLocation.Latitude, ride.PickupLocation.Longitude,
		ride.DestinationLocation.Address, ride.DestinationLocation.Latitude, ride.DestinationLocation.Longitude,
		ride.Status, ride.PaymentMethod,
	).Scan(&ride.CreatedAt, &ride.UpdatedAt)

	metrics.RecordStoreQuery("rides", "create", err, time.Since(start))

	if err != nil {
		if pkgpostgres.IsUniqueViolation(err) {
			return nil, fmt.Errorf("ride repo: Create: ride %s already exists: %w", ride.ID, types.ErrConflict)
		}
		return nil, fmt.Errorf("ride repo: Create: %w", err)
	}

	return ride, nil
}

func (r *RideRepo) Get(ctx context.Context, rideID uuid.UUID) (*models.Ride, error) {
	q := TxOrDB(ctx, r.db)

	var ride models.Ride
	query := `
        SELECT ride_id, rider_id, rider_name,
               pickup_address, pickup_lat, pickup_lon,
               dest_address, dest_lat, dest_lon,
               status, payment_method,
               COALESCE(driver_id, ''), COALESCE(driver_name, ''), final_price,
               created_at, updated_at
        FROM rides
        WHERE ride_id = $1;`

	err := q.QueryRow(ctx, query, rideID).Scan(
		&ride.ID, &ride.RiderID, &ride.RiderName,
		&ride.PickupLocation.Address, &ride.PickupLocation.Latitude, &ride.PickupLocation.Longitude,
		&ride.DestinationLocation.Address, &ride.DestinationLocation.Latitude, &ride.DestinationLocation.Longitude,
		&ride.Status, &ride.PaymentMethod,
		&ride.DriverID, &ride.DriverName, &ride.FinalPrice,
		&ride.CreatedAt, &ride.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrRideNotFound
		}
		return nil, fmt.Errorf("ride repo: Get: %w", err)
	}

	return &ride, nil
}

// AssignDriver updates the ride with the matched driver and the new
// status in one conditional update. An absent row surfaces as
// ErrRideNotFound, the store's conditional-update violation.
func (r *RideRepo) AssignDriver(ctx context.Context, rideID string, driverID, driverName string, status types.RideStatus) error {
	if _, err := uuid.Parse(rideID); err != nil {
		// A key that cannot exist in the table is an absent ride.
		return types.ErrRideNotFound
	}

	q := TxOrDB(ctx, r.db)
	start := time.Now()

	query := `
        UPDATE rides
        SET driver_id = $2, driver_name = $3, status = $4, updated_at = now()
        WHERE ride_id = $1;`

	cmdTag, err := q.Exec(ctx, query, rideID, driverID, driverName, status)
	metrics.RecordStoreQuery("rides", "assign_driver", err, time.Since(start))
	if err != nil {
		return fmt.Errorf("ride repo: AssignDriver: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return types.ErrRideNotFound
	}

	return nil
}

// UpdateStatus is the conditional status update used by ride completion.
func (r *RideRepo) UpdateStatus(ctx context.Context, rideID string, status types.RideStatus) error {
	if rideID == "" {
		return fmt.Errorf("ride repo: UpdateStatus: %w: empty ride id", types.ErrValidation)
	}
	if _, err := uuid.Parse(rideID); err != nil {
		// A key that cannot exist in the table is an absent ride.
		return types.ErrRideNotFound
	}

	q := TxOrDB(ctx, r.db)
	start := time.Now()

	query := `
        UPDATE rides
        SET status = $2, updated_at = now()
        WHERE ride_id = $1;`

	cmdTag, err := q.Exec(ctx, query, rideID, status)
	metrics.RecordStoreQuery("rides", "update_status", err, time.Since(start))
	if err != nil {
		return fmt.Errorf("ride repo: UpdateStatus: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return types.ErrRideNotFound
	}

	return nil
}
