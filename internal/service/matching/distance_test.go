package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKm(t *testing.T) {
	// Singapore downtown to Changi, roughly 18 km great-circle.
	d := haversineKm(1.2838, 103.8514, 1.3644, 103.9915)
	assert.InDelta(t, 18.0, d, 1.0)

	// Identical points.
	assert.Zero(t, haversineKm(1.3, 103.8, 1.3, 103.8))

	// Symmetry.
	assert.InDelta(t,
		haversineKm(1.3, 103.8, 1.35, 103.85),
		haversineKm(1.35, 103.85, 1.3, 103.8),
		1e-9,
	)
}
