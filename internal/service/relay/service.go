package relay

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rideflow/ride-saga/internal/domain/models"
	"github.com/rideflow/ride-saga/internal/domain/types"
	"github.com/rideflow/ride-saga/pkg/logger"
	wrap "github.com/rideflow/ride-saga/pkg/logger/wrapper"
	"github.com/rideflow/ride-saga/pkg/metrics"
)

const syntheticRiderID = "rider-batch-test"

// Service relays payment change records to the bus, one batch at a
// time. Records are handled strictly in order; a poison record aborts
// the batch where it stands, leaving earlier records already published.
// Every batch ends by raising the retry-drill fault, so the feed
// redelivers it until the attempt cap parks it.
type Service struct {
	bus          EventBus
	extractDelay time.Duration
	log          logger.Logger

	sleep func(ctx context.Context, d time.Duration)
}

func NewService(bus EventBus, extractDelay time.Duration, log logger.Logger) *Service {
	return &Service{
		bus:          bus,
		extractDelay: extractDelay,
		log:          log,
		sleep:        sleepCtx,
	}
}

func (s *Service) ProcessBatch(ctx context.Context, records []models.PaymentChangeRecord) error {
	ctx = wrap.WithAction(ctx, types.ActionRelayBatch)

	metrics.RelayBatchSize.Observe(float64(len(records)))
	s.log.Info(ctx, "processing change batch", "batch_size", len(records))

	for _, rec := range records {
		// Log context is scoped to the record: recCtx never escapes the
		// iteration, on any exit path.
		recCtx := wrap.WithLogCtx(ctx, wrap.LogCtx{
			CorrelationID: rec.CorrelationID,
			RideID:        rec.RideID,
			PaymentID:     rec.PaymentID,
		})

		if err := s.processRecord(recCtx, rec); err != nil {
			metrics.RelayFailedRecords.Inc()
			s.log.Error(recCtx, "record failed, aborting batch", err, "change_id", rec.ChangeID)
			return wrap.Error(recCtx, err)
		}
	}

	// Deliberate terminal fault: the batch is reported as failed even
	// when every record relayed, forcing the feed to redeliver it.
	s.log.Warn(ctx, "raising stream retry fault", "batch_size", len(records))
	return wrap.Error(ctx, types.ErrBatchRetryDrill)
}

func (s *Service) processRecord(ctx context.Context, rec models.PaymentChangeRecord) error {
	// Extraction is artificially slow, modeling per-record backpressure.
	s.sleep(ctx, s.extractDelay)
	if err := ctx.Err(); err != nil {
		return err
	}
	metrics.RelayExtractedRecords.Inc()

	if strings.Contains(rec.PaymentID, "POISON") {
		return fmt.Errorf("payment %s: %w", rec.PaymentID, types.ErrPoisonRecord)
	}

	if rec.RiderID == syntheticRiderID {
		s.log.Info(ctx, "skipping synthetic test record")
		metrics.RelaySuccessfulRecords.Inc()
		return nil
	}

	if rec.Status != string(types.PaymentCompleted) {
		s.log.Debug(ctx, "skipping non-completed payment change", "status", rec.Status)
		metrics.RelaySuccessfulRecords.Inc()
		return nil
	}

	amount, err := models.ParseAmount(rec.Amount)
	if err != nil {
		return fmt.Errorf("%w: malformed amount %q", types.ErrSerialization, rec.Amount)
	}

	out := models.PaymentEvent{
		PaymentID:     rec.PaymentID,
		RideID:        rec.RideID,
		RiderID:       rec.RiderID,
		DriverID:      rec.DriverID,
		Amount:        models.FormatAmount(amount),
		PaymentMethod: rec.PaymentMethod,
		TransactionID: rec.TransactionID,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		CorrelationID: rec.CorrelationID,
	}

	if err := s.bus.Publish(ctx, models.DetailPaymentCompleted, out); err != nil {
		return fmt.Errorf("relay payment %s: %w", rec.PaymentID, err)
	}

	metrics.RelaySuccessfulRecords.Inc()
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
