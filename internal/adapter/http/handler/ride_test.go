package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rideflow/ride-saga/internal/domain/models"
	"github.com/rideflow/ride-saga/internal/domain/types"
	"github.com/rideflow/ride-saga/pkg/logger"
)

type stubRideService struct {
	ride models.Ride
	err  error
}

func (s *stubRideService) CreateRide(context.Context, models.CreateRideRequest) (models.Ride, error) {
	return s.ride, s.err
}

func (s *stubRideService) GetRide(context.Context, string) (models.Ride, error) {
	return s.ride, s.err
}

func newTestHandler(svc RideService) *Ride {
	return NewRide(logger.InitLogger("test", logger.LevelError), svc)
}

const validBody = `{
	"riderId": "u1",
	"riderName": "User One",
	"pickupLocation": {"latitude": 1.3, "longitude": 103.8},
	"destinationLocation": {"latitude": 1.35, "longitude": 103.85},
	"paymentMethod": "credit-card"
}`

func TestCreateRideCreated(t *testing.T) {
	ride := models.Ride{RiderID: "u1", Status: types.RideRequested}
	h := newTestHandler(&stubRideService{ride: ride})

	req := httptest.NewRequest(http.MethodPost, "/rides", strings.NewReader(validBody))
	rec := httptest.NewRecorder()

	h.CreateRide(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Ride models.Ride `json:"ride"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "u1", resp.Ride.RiderID)
	assert.Equal(t, types.RideRequested, resp.Ride.Status)
}

func TestCreateRideMalformedBody(t *testing.T) {
	h := newTestHandler(&stubRideService{})

	req := httptest.NewRequest(http.MethodPost, "/rides", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	h.CreateRide(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRideEmptyBody(t *testing.T) {
	h := newTestHandler(&stubRideService{})

	req := httptest.NewRequest(http.MethodPost, "/rides", strings.NewReader(""))
	rec := httptest.NewRecorder()

	h.CreateRide(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRideValidationFailure(t *testing.T) {
	h := newTestHandler(&stubRideService{err: types.ErrValidation})

	req := httptest.NewRequest(http.MethodPost, "/rides", strings.NewReader(validBody))
	rec := httptest.NewRecorder()

	h.CreateRide(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetRideNotFound(t *testing.T) {
	h := newTestHandler(&stubRideService{err: types.ErrRideNotFound})

	req := httptest.NewRequest(http.MethodGet, "/rides/00000000-0000-0000-0000-000000000000", nil)
	req.SetPathValue("ride_id", "00000000-0000-0000-0000-000000000000")
	rec := httptest.NewRecorder()

	h.GetRide(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
