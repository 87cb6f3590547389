package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rideflow/ride-saga/config"
	"github.com/rideflow/ride-saga/internal/adapter/http/handler"
	"github.com/rideflow/ride-saga/internal/adapter/http/middleware"
	"github.com/rideflow/ride-saga/internal/domain/types"
	"github.com/rideflow/ride-saga/pkg/logger"
	wrap "github.com/rideflow/ride-saga/pkg/logger/wrapper"
)

const serverIPAddress = "%s:%s"

// API serves a stage's HTTP surface. Every stage exposes health and
// metrics; the ride intake stage additionally serves the rides API.
type API struct {
	mode   types.ServiceMode
	mux    *http.ServeMux
	server *http.Server
	routes *handlers
	m      *middleware.Middleware

	addr string
	log  logger.Logger
}

type handlers struct {
	ride   *handler.Ride
	health *handler.Health
}

func New(
	cfg config.Config,
	rideService handler.RideService,
	log logger.Logger,
) (*API, error) {
	port, err := cfg.Stages.StagePort(cfg.Mode)
	if err != nil {
		return nil, err
	}

	routes := &handlers{
		health: handler.NewHealth(string(cfg.Mode), log),
	}

	if cfg.Mode == types.RideIntakeStage {
		if rideService == nil {
			return nil, errors.New("ride service is required for ride intake")
		}
		routes.ride = handler.NewRide(log, rideService)
	}

	api := &API{
		mode: cfg.Mode,

		mux:    http.NewServeMux(),
		routes: routes,
		m:      middleware.NewMiddleware(log),

		addr: fmt.Sprintf(serverIPAddress, "0.0.0.0", port),
		log:  log,
	}

	setupRoutes(api.mux, api.routes, api.mode)

	api.server = &http.Server{
		Addr:     api.addr,
		Handler:  api.withMiddleware(),
		ErrorLog: slog.NewLogLogger(log.GetSlogLogger().Handler(), slog.LevelError),
	}

	return api, nil
}

func (a *API) Stop(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, types.ActionHTTPServerStop)
	a.log.Debug(ctx, "shutting down HTTP server", "address", a.addr)

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, types.ActionHTTPServerStart)
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

// withMiddleware applies middlewares to the mux
func (a *API) withMiddleware() http.Handler {
	stage := string(a.mode)
	return a.m.Recover(a.m.Correlation(a.m.Metrics(stage)(a.m.Logging(a.mux))))
}
