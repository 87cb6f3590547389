package rabbit

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rideflow/ride-saga/internal/domain/types"
)

func TestIsUnrecoverable(t *testing.T) {
	assert.True(t, isUnrecoverable(types.ErrValidation))
	assert.True(t, isUnrecoverable(fmt.Errorf("decode: %w", types.ErrSerialization)))
	assert.True(t, isUnrecoverable(types.ErrRideNotFound))

	assert.False(t, isUnrecoverable(errors.New("connection reset")))
	assert.False(t, isUnrecoverable(types.ErrTransport))
}

func TestDetailTypeFromKey(t *testing.T) {
	assert.Equal(t, "RideCreated", detailTypeFromKey("saga.event.RideCreated"))
	assert.Equal(t, "PaymentCompleted", detailTypeFromKey(RoutingKey("PaymentCompleted")))
	assert.Equal(t, "bare", detailTypeFromKey("bare"))
}
