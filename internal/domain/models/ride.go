package models

import (
	"time"

	"github.com/rideflow/ride-saga/internal/domain/types"
	"github.com/rideflow/ride-saga/pkg/uuid"
)

// Ride is the saga's root record. Created by ride intake, mutated in
// turn by driver matching and ride completion.
type Ride struct {
	ID                  uuid.UUID        `json:"rideId"`
	RiderID             string           `json:"riderId"`
	RiderName           string           `json:"riderName,omitempty"`
	PickupLocation      Location         `json:"pickupLocation"`
	DestinationLocation Location         `json:"destinationLocation"`
	PaymentMethod       string           `json:"paymentMethod"`
	Status              types.RideStatus `json:"status"`

	DriverID   string   `json:"driverId,omitempty"`
	DriverName string   `json:"driverName,omitempty"`
	FinalPrice *float64 `json:"finalPrice,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateRideRequest is the intake request body.
type CreateRideRequest struct {
	RiderID             string    `json:"riderId"`
	RiderName           string    `json:"riderName"`
	PickupLocation      *Location `json:"pickupLocation"`
	DestinationLocation *Location `json:"destinationLocation"`
	PaymentMethod       string    `json:"paymentMethod"`
}
