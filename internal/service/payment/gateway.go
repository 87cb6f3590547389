package payment

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/rideflow/ride-saga/pkg/metrics"
	"github.com/rideflow/ride-saga/pkg/uuid"
)

const declineReason = "Payment gateway declined transaction"

// SimulatedGateway stands in for a real payment provider. One payment
// method is deliberately slow; everything else answers within a few
// hundred milliseconds. A fixed share of charges is declined.
type SimulatedGateway struct {
	approvalRate float64
	slowMethod   string
	slowDelay    time.Duration

	rng   func() float64
	sleep func(ctx context.Context, d time.Duration)
}

func NewSimulatedGateway(approvalRate float64, slowMethod string, slowDelay time.Duration) *SimulatedGateway {
	return &SimulatedGateway{
		approvalRate: approvalRate,
		slowMethod:   slowMethod,
		slowDelay:    slowDelay,
		rng:          rand.Float64,
		sleep:        sleepCtx,
	}
}

func (g *SimulatedGateway) Charge(ctx context.Context, paymentMethod string, amount float64) (GatewayResult, error) {
	start := time.Now()

	g.sleep(ctx, g.processingDelay(paymentMethod))
	if err := ctx.Err(); err != nil {
		return GatewayResult{}, fmt.Errorf("gateway: %w", err)
	}

	approved := g.rng() < g.approvalRate
	metrics.RecordGatewayResult(paymentMethod, approved, time.Since(start))

	if !approved {
		return GatewayResult{
			Approved:      false,
			FailureReason: declineReason,
		}, nil
	}

	txnID, err := uuid.New()
	if err != nil {
		return GatewayResult{}, fmt.Errorf("gateway: generate transaction id: %w", err)
	}

	return GatewayResult{
		Approved:      true,
		TransactionID: "txn_" + txnID.Short(),
	}, nil
}

func (g *SimulatedGateway) processingDelay(paymentMethod string) time.Duration {
	if strings.EqualFold(paymentMethod, g.slowMethod) {
		return g.slowDelay
	}
	// 100-300ms, randomized.
	return time.Duration(100+g.rng()*200) * time.Millisecond
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
