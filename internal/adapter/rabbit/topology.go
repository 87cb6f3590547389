package rabbit

import "github.com/rideflow/ride-saga/internal/domain/models"

const (
	SagaExchange = "ride_saga_events"

	QueuePricing    = "pricing_requests"
	QueueMatching   = "matching_requests"
	QueuePayment    = "payment_requests"
	QueueCompletion = "completion_requests"
)

// RoutingKey builds the routing key an event is published under.
func RoutingKey(detailType string) string {
	return "saga.event." + detailType
}

// queueBindings maps each stage queue to the detail types it consumes.
var queueBindings = map[string][]string{
	QueuePricing:    {models.DetailRideCreated},
	QueueMatching:   {models.DetailPriceCalculated},
	QueuePayment:    {models.DetailDriverAssigned},
	QueueCompletion: {models.DetailPaymentCompleted, models.DetailPaymentFailed},
}
