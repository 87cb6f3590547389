package stages

import (
	"context"

	"github.com/rideflow/ride-saga/config"
	"github.com/rideflow/ride-saga/internal/adapter/http/server"
	"github.com/rideflow/ride-saga/internal/adapter/postgres"
	"github.com/rideflow/ride-saga/internal/adapter/rabbit"
	"github.com/rideflow/ride-saga/internal/domain/models"
	"github.com/rideflow/ride-saga/internal/service/payment"
	"github.com/rideflow/ride-saga/pkg/logger"
	pkgpostgres "github.com/rideflow/ride-saga/pkg/postgres"
	pkgrabbit "github.com/rideflow/ride-saga/pkg/rabbit"
	"github.com/rideflow/ride-saga/pkg/trm"
)

// NewPaymentProcessor wires the payment stage: consumes driver assigned
// events and charges the rider through the simulated gateway.
func NewPaymentProcessor(ctx context.Context, cfg config.Config, log logger.Logger) (*Stage, error) {
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

	paymentRepo := postgres.NewPaymentRepo(db.Pool)
	rideRepo := postgres.NewRideRepo(db.Pool)
	gateway := payment.NewSimulatedGateway(cfg.Gateway.ApprovalRate, cfg.Gateway.SlowMethod, cfg.Gateway.SlowDelay)
	bus := rabbit.NewEventBus(mq, models.SourcePaymentProc, log)
	txManager := trm.New(db.Pool)
	service := payment.NewService(paymentRepo, rideRepo, gateway, bus, txManager, log)

	consumer := rabbit.NewStageConsumer(mq, string(cfg.Mode), log)

	httpServer, err := server.New(cfg, nil, log)
	if err != nil {
		log.Error(ctx, "failed to setup http server", err)
		db.Pool.Close()
		return nil, err
	}

	worker := func(ctx context.Context) error {
		return consumer.Consume(ctx, rabbit.QueuePayment, func(ctx context.Context, _ string, body []byte) error {
			event, err := decode[models.DriverAssignedEvent](body)
			if err != nil {
				return err
			}
			return service.HandleDriverAssigned(ctx, event)
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
