package models

// Domain events. Each one is a flattened snapshot of the fields the next
// stage needs, so no event requires a second lookup at the originating
// stage. Monetary fields travel as decimal strings.

// Detail types identifying each event on the bus.
const (
	DetailRideCreated      = "RideCreated"
	DetailPriceCalculated  = "PriceCalculated"
	DetailDriverAssigned   = "DriverAssigned"
	DetailPaymentCompleted = "PaymentCompleted"
	DetailPaymentFailed    = "PaymentFailed"
)

// Source names identifying the stage of origin.
const (
	SourceRideIntake     = "ride-intake"
	SourcePricing        = "pricing-service"
	SourceDriverMatching = "driver-matching"
	SourcePaymentProc    = "payment-processor"
	SourcePaymentRelay   = "payment-stream-relay"
)

type RideCreatedEvent struct {
	RideID              string    `json:"rideId"`
	RiderID             string    `json:"riderId"`
	RiderName           string    `json:"riderName,omitempty"`
	PickupLocation      *Location `json:"pickupLocation"`
	DestinationLocation *Location `json:"destinationLocation"`
	PaymentMethod       string    `json:"paymentMethod,omitempty"`
	Timestamp           string    `json:"timestamp,omitempty"`
	CorrelationID       string    `json:"correlationId,omitempty"`
}

type PriceCalculatedEvent struct {
	RideID          string    `json:"rideId"`
	RiderID         string    `json:"riderId,omitempty"`
	RiderName       string    `json:"riderName,omitempty"`
	PickupLocation  *Location `json:"pickupLocation,omitempty"`
	DropoffLocation *Location `json:"dropoffLocation,omitempty"`
	EstimatedPrice  string    `json:"estimatedPrice,omitempty"`
	BasePrice       string    `json:"basePrice,omitempty"`
	SurgeMultiplier string    `json:"surgeMultiplier,omitempty"`
	PaymentMethod   string    `json:"paymentMethod,omitempty"`
	Timestamp       string    `json:"timestamp,omitempty"`
	CorrelationID   string    `json:"correlationId,omitempty"`
}

type DriverAssignedEvent struct {
	RideID          string    `json:"rideId"`
	RiderID         string    `json:"riderId,omitempty"`
	RiderName       string    `json:"riderName,omitempty"`
	DriverID        string    `json:"driverId"`
	DriverName      string    `json:"driverName,omitempty"`
	EstimatedPrice  string    `json:"estimatedPrice,omitempty"`
	BasePrice       string    `json:"basePrice,omitempty"`
	SurgeMultiplier string    `json:"surgeMultiplier,omitempty"`
	PickupLocation  *Location `json:"pickupLocation,omitempty"`
	DropoffLocation *Location `json:"dropoffLocation,omitempty"`
	PaymentMethod   string    `json:"paymentMethod,omitempty"`
	Timestamp       string    `json:"timestamp,omitempty"`
	CorrelationID   string    `json:"correlationId,omitempty"`
}

// PaymentEvent covers both PaymentCompleted and PaymentFailed shapes;
// the detail type on the bus distinguishes them.
type PaymentEvent struct {
	PaymentID     string `json:"paymentId"`
	RideID        string `json:"rideId"`
	RiderID       string `json:"riderId,omitempty"`
	DriverID      string `json:"driverId"`
	Amount        string `json:"amount,omitempty"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
	TransactionID string `json:"transactionId,omitempty"`
	FailureReason string `json:"failureReason,omitempty"`
	Timestamp     string `json:"timestamp,omitempty"`
	CorrelationID string `json:"correlationId,omitempty"`
}
