package stages

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rideflow/ride-saga/internal/adapter/http/server"
	"github.com/rideflow/ride-saga/internal/domain/types"
	"github.com/rideflow/ride-saga/pkg/logger"
	wrap "github.com/rideflow/ride-saga/pkg/logger/wrapper"
	pkgpostgres "github.com/rideflow/ride-saga/pkg/postgres"
	pkgrabbit "github.com/rideflow/ride-saga/pkg/rabbit"
)

// Stage is one saga stage process: an HTTP surface (health, metrics,
// and for ride intake the rides API), an optional long-running worker
// (consumer loop or change-feed poller), and the resources to close on
// the way out.
type Stage struct {
	name       string
	httpServer *server.API
	worker     func(ctx context.Context) error
	closers    []func(ctx context.Context)

	log logger.Logger
}

func (s *Stage) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)

	s.httpServer.Run(ctx, errCh)
	defer func() {
		s.close(ctx)
		s.log.Info(ctx, "stage closed", "stage", s.name)
	}()

	if s.worker != nil {
		go func() {
			if err := s.worker(ctx); err != nil {
				errCh <- fmt.Errorf("stage worker: %w", err)
			}
		}()
	}

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	s.log.Info(ctx, "stage started", "stage", s.name)

	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		ctx = wrap.WithAction(ctx, types.ActionStageShutdown)
		s.log.Info(ctx, "shutting down stage", "signal", sig.String())
		return nil
	}
}

func (s *Stage) close(ctx context.Context) {
	if s.httpServer != nil {
		if err := s.httpServer.Stop(ctx); err != nil {
			s.log.Warn(ctx, "failed to gracefully close http server", "error", err.Error())
		}
	}

	for _, closeFn := range s.closers {
		closeFn(ctx)
	}
}

// defaultClosers releases the store pool and the broker connection.
func defaultClosers(db *pkgpostgres.PostgreDB, mq *pkgrabbit.RabbitMQ, log logger.Logger) []func(ctx context.Context) {
	return []func(ctx context.Context){
		func(ctx context.Context) {
			if mq != nil {
				if err := mq.Close(ctx); err != nil {
					log.Warn(ctx, "failed to close rabbitmq connection", "error", err.Error())
				}
			}
		},
		func(ctx context.Context) {
			if db != nil && db.Pool != nil {
				db.Pool.Close()
			}
		},
	}
}

// decode unmarshals an event body, tagging failures as serialization
// errors so the consumer drops them instead of requeueing.
func decode[T any](body []byte) (T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return v, fmt.Errorf("%w: %v", types.ErrSerialization, err)
	}
	return v, nil
}
