package stages

import (
	"context"

	"github.com/rideflow/ride-saga/config"
	"github.com/rideflow/ride-saga/internal/adapter/http/server"
	"github.com/rideflow/ride-saga/internal/adapter/postgres"
	"github.com/rideflow/ride-saga/internal/adapter/rabbit"
	"github.com/rideflow/ride-saga/internal/domain/models"
	"github.com/rideflow/ride-saga/internal/service/intake"
	"github.com/rideflow/ride-saga/pkg/logger"
	pkgpostgres "github.com/rideflow/ride-saga/pkg/postgres"
	pkgrabbit "github.com/rideflow/ride-saga/pkg/rabbit"
)

// NewRideIntake wires the saga's entry stage: the rides HTTP API backed
// by the ride repo and the bus.
func NewRideIntake(ctx context.Context, cfg config.Config, log logger.Logger) (*Stage, error) {
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
	bus := rabbit.NewEventBus(mq, models.SourceRideIntake, log)
	service := intake.NewService(rideRepo, bus, log)

	httpServer, err := server.New(cfg, service, log)
	if err != nil {
		log.Error(ctx, "failed to setup http server", err)
		db.Pool.Close()
		return nil, err
	}

	return &Stage{
		name:       string(cfg.Mode),
		httpServer: httpServer,
		closers:    defaultClosers(db, mq, log),
		log:        log,
	}, nil
}
