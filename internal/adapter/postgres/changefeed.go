package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rideflow/ride-saga/internal/domain/models"
	"github.com/rideflow/ride-saga/pkg/metrics"
)

// ChangeFeedRepo reads the payment_changes table as an ordered,
// at-least-once change stream: records stay pending until the hosting
// poller parks them, so a failed batch is redelivered whole.
type ChangeFeedRepo struct {
	db *pgxpool.Pool
}

func NewChangeFeedRepo(db *pgxpool.Pool) *ChangeFeedRepo {
	return &ChangeFeedRepo{db: db}
}

// FetchPending returns the oldest pending batch, in change order.
func (r *ChangeFeedRepo) FetchPending(ctx context.Context, limit int) ([]models.PaymentChangeRecord, error) {
	q := TxOrDB(ctx, r.db)
	start := time.Now()

	query := `
        SELECT change_id, payment_id, ride_id, rider_id, driver_id,
               COALESCE(correlation_id, ''), amount, payment_method,
               COALESCE(transaction_id, ''), status
        FROM payment_changes
        WHERE NOT dispatched
        ORDER BY change_id
        LIMIT $1;`

	rows, err := q.Query(ctx, query, limit)
	metrics.RecordStoreQuery("payment_changes", "fetch_pending", err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("change feed repo: FetchPending: %w", err)
	}
	defer rows.Close()

	var records []models.PaymentChangeRecord
	for rows.Next() {
		var rec models.PaymentChangeRecord
		if err := rows.Scan(
			&rec.ChangeID, &rec.PaymentID, &rec.RideID, &rec.RiderID, &rec.DriverID,
			&rec.CorrelationID, &rec.Amount, &rec.PaymentMethod,
			&rec.TransactionID, &rec.Status,
		); err != nil {
			return nil, fmt.Errorf("change feed repo: FetchPending scan: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("change feed repo: FetchPending rows: %w", err)
	}

	return records, nil
}

// RecordAttempt bumps the delivery attempt counter for every record of
// a batch that just failed.
func (r *ChangeFeedRepo) RecordAttempt(ctx context.Context, changeIDs []int64) error {
	q := TxOrDB(ctx, r.db)

	query := `UPDATE payment_changes SET attempts = attempts + 1 WHERE change_id = ANY($1);`
	if _, err := q.Exec(ctx, query, changeIDs); err != nil {
		return fmt.Errorf("change feed repo: RecordAttempt: %w", err)
	}

	return nil
}

// MarkDispatched retires records whose batch was processed successfully.
func (r *ChangeFeedRepo) MarkDispatched(ctx context.Context, changeIDs []int64) error {
	q := TxOrDB(ctx, r.db)

	query := `UPDATE payment_changes SET dispatched = true WHERE change_id = ANY($1);`
	if _, err := q.Exec(ctx, query, changeIDs); err != nil {
		return fmt.Errorf("change feed repo: MarkDispatched: %w", err)
	}

	return nil
}

// ParkExhausted retires records whose attempt count reached the cap,
// the poller's dead-letter equivalent. Returns how many were parked.
func (r *ChangeFeedRepo) ParkExhausted(ctx context.Context, changeIDs []int64, maxAttempts int) (int64, error) {
	q := TxOrDB(ctx, r.db)

	query := `
        UPDATE payment_changes
        SET dispatched = true
        WHERE change_id = ANY($1) AND attempts >= $2;`

	cmdTag, err := q.Exec(ctx, query, changeIDs, maxAttempts)
	if err != nil {
		return 0, fmt.Errorf("change feed repo: ParkExhausted: %w", err)
	}

	return cmdTag.RowsAffected(), nil
}
