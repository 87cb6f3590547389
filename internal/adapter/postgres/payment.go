package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rideflow/ride-saga/internal/domain/models"
	"github.com/rideflow/ride-saga/internal/domain/types"
	"github.com/rideflow/ride-saga/pkg/metrics"
	pkgpostgres "github.com/rideflow/ride-saga/pkg/postgres"
	"github.com/rideflow/ride-saga/pkg/uuid"
)

type PaymentRepo struct {
	db *pgxpool.Pool
}

func NewPaymentRepo(db *pgxpool.Pool) *PaymentRepo {
	return &PaymentRepo{db: db}
}

// Create inserts the payment row and appends the matching change-feed
// record. Run inside trm.Do so both writes commit together.
func (r *PaymentRepo) Create(ctx context.Context, p *models.Payment) error {
	q := TxOrDB(ctx, r.db)
	start := time.Now()

	query := `
        INSERT INTO payments (payment_id, ride_id, rider_id, driver_id, amount,
                              payment_method, status, correlation_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''))
        RETURNING created_at, updated_at;`

	err := q.QueryRow(ctx, query,
		p.ID, p.RideID, p.RiderID, p.DriverID, p.Amount,
		p.PaymentMethod, p.Status, p.CorrelationID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	metrics.RecordStoreQuery("payments", "create", err, time.Since(start))
	if err != nil {
		if pkgpostgres.IsUniqueViolation(err) {
			return fmt.Errorf("payment repo: Create: payment %s already exists: %w", p.ID, types.ErrConflict)
		}
		return fmt.Errorf("payment repo: Create: %w", err)
	}

	return r.appendChange(ctx, p)
}

// UpdateStatus moves the payment to completed or failed and appends the
// change-feed record. An absent row surfaces as ErrPaymentNotFound.
func (r *PaymentRepo) UpdateStatus(ctx context.Context, paymentID uuid.UUID, status types.PaymentStatus, transactionID, failureReason string) error {
	q := TxOrDB(ctx, r.db)
	start := time.Now()

	query := `
        UPDATE payments
        SET status = $2,
            transaction_id = COALESCE(NULLIF($3, ''), transaction_id),
            failure_reason = COALESCE(NULLIF($4, ''), failure_reason),
            updated_at = now()
        WHERE payment_id = $1;`

	cmdTag, err := q.Exec(ctx, query, paymentID, status, transactionID, failureReason)
	metrics.RecordStoreQuery("payments", "update_status", err, time.Since(start))
	if err != nil {
		return fmt.Errorf("payment repo: UpdateStatus: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return types.ErrPaymentNotFound
	}

	var p models.Payment
	getQuery := `
        SELECT payment_id, ride_id, rider_id, driver_id, amount, payment_method,
               status, COALESCE(failure_reason, ''), COALESCE(transaction_id, ''),
               COALESCE(correlation_id, '')
        FROM payments
        WHERE payment_id = $1;`

	if err := q.QueryRow(ctx, getQuery, paymentID).Scan(
		&p.ID, &p.RideID, &p.RiderID, &p.DriverID, &p.Amount, &p.PaymentMethod,
		&p.Status, &p.FailureReason, &p.TransactionID, &p.CorrelationID,
	); err != nil {
		return fmt.Errorf("payment repo: UpdateStatus readback: %w", err)
	}

	return r.appendChange(ctx, &p)
}

// appendChange writes the row-level snapshot that feeds the payment
// stream relay, the stand-in for a table change stream.
func (r *PaymentRepo) appendChange(ctx context.Context, p *models.Payment) error {
	q := TxOrDB(ctx, r.db)

	query := `
        INSERT INTO payment_changes (payment_id, ride_id, rider_id, driver_id,
                                     correlation_id, amount, payment_method,
                                     transaction_id, status)
        VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, NULLIF($8, ''), $9);`

	_, err := q.Exec(ctx, query,
		p.ID.String(), p.RideID, p.RiderID, p.DriverID,
		p.CorrelationID, models.FormatAmount(p.Amount), p.PaymentMethod,
		p.TransactionID, p.Status,
	)
	if err != nil {
		return fmt.Errorf("payment repo: appendChange: %w", err)
	}

	return nil
}
