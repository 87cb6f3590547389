package models

import (
	"time"

	"github.com/rideflow/ride-saga/internal/domain/types"
)

// Driver is shared state: read by driver matching, released back to
// available by ride completion. Last writer wins per field, no locking.
type Driver struct {
	ID              string             `json:"driverId"`
	Name            string             `json:"driverName"`
	CurrentLocation Location           `json:"currentLocation"`
	Status          types.DriverStatus `json:"status"`
	Rating          float64            `json:"rating"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}
