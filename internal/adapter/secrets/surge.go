package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rideflow/ride-saga/internal/domain/types"
	wrap "github.com/rideflow/ride-saga/pkg/logger/wrapper"
)

// SurgeClient fetches the rush hour multiplier from the secrets HTTP
// endpoint. The value is read on every call so a rotated secret takes
// effect on the next priced ride.
type SurgeClient struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string, timeout time.Duration) *SurgeClient {
	return &SurgeClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type surgePayload struct {
	RushHourMultiplier string `json:"rushHourMultiplier"`
}

// RushHourMultiplier returns the current surge multiplier. The secret
// stores it as a decimal string.
func (c *SurgeClient) RushHourMultiplier(ctx context.Context) (float64, error) {
	ctx = wrap.WithAction(ctx, types.ActionSecretFetch)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return 0, wrap.Error(ctx, fmt.Errorf("surge client: build request: %w", err))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionExternalAPIFailed)
		return 0, wrap.Error(ctx, fmt.Errorf("surge client: fetch secret: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		ctx = wrap.WithAction(ctx, types.ActionExternalAPIFailed)
		return 0, wrap.Error(ctx, fmt.Errorf("surge client: unexpected response status %d", resp.StatusCode))
	}

	var payload surgePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, wrap.Error(ctx, fmt.Errorf("surge client: decode secret payload: %w", err))
	}

	multiplier, err := strconv.ParseFloat(payload.RushHourMultiplier, 64)
	if err != nil {
		return 0, wrap.Error(ctx, fmt.Errorf("surge client: parse multiplier %q: %w", payload.RushHourMultiplier, err))
	}

	return multiplier, nil
}
