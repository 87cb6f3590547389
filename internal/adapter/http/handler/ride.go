package handler

import (
	"context"
	"net/http"

	"github.com/rideflow/ride-saga/internal/domain/models"
	"github.com/rideflow/ride-saga/internal/domain/types"
	"github.com/rideflow/ride-saga/pkg/logger"
	wrap "github.com/rideflow/ride-saga/pkg/logger/wrapper"
)

type RideService interface {
	CreateRide(ctx context.Context, req models.CreateRideRequest) (models.Ride, error)
	GetRide(ctx context.Context, rideID string) (models.Ride, error)
}

type Ride struct {
	service RideService
	log     logger.Logger
}

func NewRide(log logger.Logger, service RideService) *Ride {
	return &Ride{
		service: service,
		log:     log,
	}
}

// CreateRide accepts a ride request, persists the requested ride and
// kicks off the saga by emitting the ride created event.
func (h *Ride) CreateRide(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionCreateRide)

	var req models.CreateRideRequest
	if err := readJSON(w, r, &req); err != nil {
		h.log.Warn(ctx, "failed to parse request body", "error", err.Error())
		badRequestResponse(w, err.Error())
		return
	}

	ride, err := h.service.CreateRide(ctx, req)
	if err != nil {
		h.log.Error(ctx, "create ride failed", err)

		if IsOneOf(err, types.ErrValidation) {
			failedValidationResponse(w, map[string]string{"request": err.Error()})
			return
		}
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusCreated, envelope{"ride": ride}, nil); err != nil {
		internalErrorResponse(w, "the server encountered a problem")
	}
}

// GetRide returns the current saga state of one ride.
func (h *Ride) GetRide(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_ride")

	rideID := r.PathValue("ride_id")
	ctx = wrap.WithRideID(ctx, rideID)

	ride, err := h.service.GetRide(ctx, rideID)
	if err != nil {
		h.log.Error(ctx, "get ride failed", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"ride": ride}, nil); err != nil {
		internalErrorResponse(w, "the server encountered a problem")
	}
}
