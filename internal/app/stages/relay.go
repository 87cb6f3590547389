package stages

import (
	"context"

	"github.com/rideflow/ride-saga/config"
	"github.com/rideflow/ride-saga/internal/adapter/http/server"
	"github.com/rideflow/ride-saga/internal/adapter/postgres"
	"github.com/rideflow/ride-saga/internal/adapter/rabbit"
	"github.com/rideflow/ride-saga/internal/adapter/stream"
	"github.com/rideflow/ride-saga/internal/domain/models"
	"github.com/rideflow/ride-saga/internal/service/relay"
	"github.com/rideflow/ride-saga/pkg/logger"
	pkgpostgres "github.com/rideflow/ride-saga/pkg/postgres"
	pkgrabbit "github.com/rideflow/ride-saga/pkg/rabbit"
)

// NewPaymentRelay wires the stream relay stage: polls the payment
// change feed and relays completed payments to the bus.
func NewPaymentRelay(ctx context.Context, cfg config.Config, log logger.Logger) (*Stage, error) {
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

	feed := postgres.NewChangeFeedRepo(db.Pool)
	bus := rabbit.NewEventBus(mq, models.SourcePaymentRelay, log)
	service := relay.NewService(bus, cfg.Relay.ExtractDelay, log)

	poller := stream.NewPoller(feed, service, cfg.Relay.BatchSize, cfg.Relay.MaxAttempts, cfg.Relay.PollInterval, log)

	httpServer, err := server.New(cfg, nil, log)
	if err != nil {
		log.Error(ctx, "failed to setup http server", err)
		db.Pool.Close()
		return nil, err
	}

	return &Stage{
		name:       string(cfg.Mode),
		httpServer: httpServer,
		worker:     poller.Run,
		closers:    defaultClosers(db, mq, log),
		log:        log,
	}, nil
}
