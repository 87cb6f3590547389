package rabbit

import (
	"errors"
	"strings"

	"github.com/rideflow/ride-saga/internal/domain/types"
)

// isUnrecoverable reports whether an event should be dropped instead of
// requeued. Validation and serialization failures never heal on retry.
func isUnrecoverable(err error) bool {
	return oneOf(err, types.ErrValidation, types.ErrSerialization, types.ErrRideNotFound)
}

func oneOf(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// detailTypeFromKey recovers the detail type from saga.event.<DetailType>.
func detailTypeFromKey(routingKey string) string {
	if i := strings.LastIndex(routingKey, "."); i >= 0 {
		return routingKey[i+1:]
	}
	return routingKey
}
