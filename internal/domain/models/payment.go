package models

import (
	"time"

	"github.com/rideflow/ride-saga/internal/domain/types"
	"github.com/rideflow/ride-saga/pkg/uuid"
)

// Payment is created at `processing` before the gateway call and
// updated exactly once, to completed or failed, by payment processing.
type Payment struct {
	ID            uuid.UUID           `json:"paymentId"`
	RideID        string              `json:"rideId"`
	RiderID       string              `json:"riderId"`
	DriverID      string              `json:"driverId"`
	Amount        float64             `json:"amount"`
	PaymentMethod string              `json:"paymentMethod"`
	Status        types.PaymentStatus `json:"status"`
	FailureReason string              `json:"failureReason,omitempty"`
	TransactionID string              `json:"transactionId,omitempty"`
	CorrelationID string              `json:"correlationId,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// PaymentChangeRecord is one row-level change notification from the
// Payments table, as delivered to the payment stream relay. Amount stays
// a raw string until the relay parses it.
type PaymentChangeRecord struct {
	ChangeID      int64  `json:"changeId"`
	PaymentID     string `json:"paymentId"`
	RideID        string `json:"rideId"`
	RiderID       string `json:"riderId"`
	DriverID      string `json:"driverId"`
	CorrelationID string `json:"correlationId,omitempty"`
	Amount        string `json:"amount"`
	PaymentMethod string `json:"paymentMethod"`
	TransactionID string `json:"transactionId,omitempty"`
	Status        string `json:"status"`
}

// PriceCalculation is append-only, written once per ride by pricing.
// Re-running with the same multiplier yields the same row; a different
// multiplier on redelivery silently overwrites.
type PriceCalculation struct {
	RideID          string    `json:"rideId"`
	BasePrice       float64   `json:"basePrice"`
	FinalPrice      float64   `json:"finalPrice"`
	SurgeMultiplier float64   `json:"surgeMultiplier"`
	CreatedAt       time.Time `json:"createdAt"`
}
