package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rideflow/ride-saga/internal/domain/types"
)

// setupRoutes - setups http routes
func setupRoutes(mux *http.ServeMux, routes *handlers, mode types.ServiceMode) {
	// System Health
	mux.HandleFunc("/health", routes.health.HealthCheck)

	setupMetricsRoute(mux)

	if mode == types.RideIntakeStage {
		setupRideRoutes(mux, routes)
	}
}

// setupRideRoutes setups routes for the ride intake stage
func setupRideRoutes(mux *http.ServeMux, routes *handlers) {
	mux.HandleFunc("POST /rides", routes.ride.CreateRide)       // Create a new ride request
	mux.HandleFunc("GET /rides/{ride_id}", routes.ride.GetRide) // Inspect saga state of a ride
}

// setupMetricsRoute configures the Prometheus metrics endpoint
func setupMetricsRoute(mux *http.ServeMux) {
	mux.Handle("/metrics", promhttp.Handler())
}
