package stages

import (
	"context"

	"github.com/rideflow/ride-saga/config"
	"github.com/rideflow/ride-saga/internal/adapter/http/server"
	"github.com/rideflow/ride-saga/internal/adapter/postgres"
	"github.com/rideflow/ride-saga/internal/adapter/rabbit"
	"github.com/rideflow/ride-saga/internal/domain/models"
	"github.com/rideflow/ride-saga/internal/service/completion"
	"github.com/rideflow/ride-saga/pkg/logger"
	pkgpostgres "github.com/rideflow/ride-saga/pkg/postgres"
	pkgrabbit "github.com/rideflow/ride-saga/pkg/rabbit"
)

// NewRideCompletion wires the final stage: consumes payment events,
// finalizes the ride and releases the driver.
func NewRideCompletion(ctx context.Context, cfg config.Config, log logger.Logger) (*Stage, error) {
	db, err := pkgpostgres.New(ctx, cfg.Database)
	if err != nil {
		log.Error(ctx, "failed to setup database", err)
		return nil, err
	}

	mq, err := pkgrabbit.New(ctx, cfg.RabbitMQ.GetDSN(), log)
	if err != nil {
		log.Error(ctx, "failed to setup rabbitmq", err)
		db.Pool.Close()
		return nil, err
	}

	rideRepo := postgres.NewRideRepo(db.Pool)
	driverRepo := postgres.NewDriverRepo(db.Pool)
	service := completion.NewService(rideRepo, driverRepo, log)

	consumer := rabbit.NewStageConsumer(mq, string(cfg.Mode), log)

	httpServer, err := server.New(cfg, nil, log)
	if err != nil {
		log.Error(ctx, "failed to setup http server", err)
		db.Pool.Close()
		return nil, err
	}

	worker := func(ctx context.Context) error {
		return consumer.Consume(ctx, rabbit.QueueCompletion, func(ctx context.Context, detailType string, body []byte) error {
			event, err := decode[models.PaymentEvent](body)
			if err != nil {
				return err
			}
			_, err = service.HandlePaymentEvent(ctx, detailType, event)
			return err
		})
	}

	return &Stage{
		name:       string(cfg.Mode),
		httpServer: httpServer,
		worker:     worker,
		closers:    defaultClosers(db, mq, log),
		log:        log,
	}, nil
}
