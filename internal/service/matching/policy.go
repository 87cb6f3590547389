package matching

import (
	"github.com/rideflow/ride-saga/internal/domain/models"
	"github.com/rideflow/ride-saga/internal/domain/types"
)

// SelectionPolicy decides whether a scanned driver is a match
// candidate. Availability is enforced here, not by the scan.
type SelectionPolicy func(models.Driver) bool

// MatchAll admits every driver. Demo default: lets a small seeded
// driver set serve repeated runs without anyone going unavailable.
func MatchAll(models.Driver) bool {
	return true
}

// OnlyAvailable admits drivers whose status is available.
func OnlyAvailable(d models.Driver) bool {
	return d.Status == types.DriverAvailable
}
