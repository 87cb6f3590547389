package types

// ServiceMode selects which saga stage a process runs.
type ServiceMode string

const (
	RideIntakeStage     ServiceMode = "ride-intake"
	PricingStage        ServiceMode = "pricing"
	DriverMatchingStage ServiceMode = "driver-matching"
	PaymentStage        ServiceMode = "payment-processor"
	PaymentRelayStage   ServiceMode = "payment-stream-relay"
	RideCompletionStage ServiceMode = "ride-completion"
)

// Valid reports whether the mode names a known stage.
func (m ServiceMode) Valid() bool {
	switch m {
	case RideIntakeStage, PricingStage, DriverMatchingStage,
		PaymentStage, PaymentRelayStage, RideCompletionStage:
		return true
	default:
		return false
	}
}
