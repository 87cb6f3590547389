package types

import "errors"

var (
	// ErrValidation marks malformed or missing required input. Never
	// retried, terminal for the invocation.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a referenced row that is absent from the store.
	ErrNotFound = errors.New("requested item not found")

	ErrRideNotFound    = errors.New("ride not found")
	ErrDriverNotFound  = errors.New("driver not found")
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrConflict marks a conditional update whose predicate failed.
	ErrConflict = errors.New("conditional update predicate failed")

	// ErrPoisonRecord aborts an entire change-feed batch.
	ErrPoisonRecord = errors.New("poison record detected")

	// ErrSerialization marks a malformed stored payload, e.g. a bad
	// decimal amount string.
	ErrSerialization = errors.New("invalid stored payload")

	// ErrTransport marks an event-publish failure.
	ErrTransport = errors.New("event publish failed")

	// ErrBatchRetryDrill is raised by the payment stream relay after
	// every batch, successful or not, to force the delivery mechanism
	// to redeliver it.
	ErrBatchRetryDrill = errors.New("simulated failure to trigger stream retry")
)
