package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rideflow/ride-saga/config"
	"github.com/rideflow/ride-saga/internal/app/stages"
	"github.com/rideflow/ride-saga/internal/domain/types"
	"github.com/rideflow/ride-saga/pkg/logger"
)

var (
	ErrInvalidMode         = errors.New("invalid mode")
	ErrStageNotInitialized = errors.New("stage not initialized")
)

type Runnable interface {
	Start(ctx context.Context) error
}

// App hosts exactly one saga stage per process, selected by the mode flag.
type App struct {
	mode  types.ServiceMode
	stage Runnable

	cfg config.Config
	log logger.Logger
}

func NewApplication(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	app := &App{
		mode: cfg.Mode,
		cfg:  cfg,
		log:  log,
	}

	if err := app.initStage(ctx, app.mode); err != nil {
		return nil, err
	}

	return app, nil
}

func (a *App) Run(ctx context.Context) error {
	if a.stage == nil {
		return ErrStageNotInitialized
	}

	if err := a.stage.Start(ctx); err != nil {
		return err
	}

	return nil
}

func (a *App) initStage(ctx context.Context, mode types.ServiceMode) error {
	var (
		stage Runnable
		err   error
	)
	switch mode {
	case types.RideIntakeStage:
		stage, err = stages.NewRideIntake(ctx, a.cfg, a.log)
	case types.PricingStage:
		stage, err = stages.NewPricing(ctx, a.cfg, a.log)
	case types.DriverMatchingStage:
		stage, err = stages.NewDriverMatching(ctx, a.cfg, a.log)
	case types.PaymentStage:
		stage, err = stages.NewPaymentProcessor(ctx, a.cfg, a.log)
	case types.PaymentRelayStage:
		stage, err = stages.NewPaymentRelay(ctx, a.cfg, a.log)
	case types.RideCompletionStage:
		stage, err = stages.NewRideCompletion(ctx, a.cfg, a.log)
	default:
		return ErrInvalidMode
	}

	if err != nil {
		return fmt.Errorf("failed to init stage: %w", err)
	}
	if stage == nil {
		return fmt.Errorf("failed to initialize: %s", mode)
	}

	a.stage = stage

	return nil
}
