package checkout

import (
	"context"
	"fmt"
	"time"
)

// ChargeRequest asks a gateway to take payment for an order.
type ChargeRequest struct {
	OrderNumber string
	Amount      float64
	Currency    string
}

// Receipt is the gateway's answer to a successful charge.
type Receipt struct {
	ProviderRef string
	Message     string
}

// Gateway is the provider-agnostic interface a payment adapter implements.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*Receipt, error)
}

// demoGateway takes no money. It waits for delay to mimic a provider round
// trip and then always succeeds.
type demoGateway struct {
	delay time.Duration
}

func NewDemoGateway(delay time.Duration) Gateway {
	return &demoGateway{delay: delay}
}

func (g *demoGateway) Charge(ctx context.Context, req ChargeRequest) (*Receipt, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("amount must be greater than 0")
	}

	timer := time.NewTimer(g.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	return &Receipt{
		ProviderRef: "DEMO-" + req.OrderNumber,
		Message:     fmt.Sprintf("Demo charge of %.2f %s accepted. No payment was processed.", req.Amount, req.Currency),
	}, nil
}
