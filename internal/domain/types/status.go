package types

// RideStatus values, in saga order. Transitions are monotonic forward;
// no stage may regress a ride's status.
type RideStatus string

const (
	RideRequested         RideStatus = "requested"
	RidePriced            RideStatus = "priced"
	RideDriverAssigned    RideStatus = "driver-assigned"
	RideNoDriverAvailable RideStatus = "no-driver-available"
	RidePaymentProcessing RideStatus = "payment-processing"
	RideCompleted         RideStatus = "completed"
	RidePaymentFailed     RideStatus = "payment_failed"
)

type PaymentStatus string

const (
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
)

type DriverStatus string

const (
	DriverAvailable DriverStatus = "available"
	DriverBusy      DriverStatus = "busy"
)
