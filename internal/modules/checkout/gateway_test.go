package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoGatewayCharge(t *testing.T) {
	g := NewDemoGateway(0)
	r, err := g.Charge(context.Background(), ChargeRequest{OrderNumber: "ORD-1", Amount: 29.99, Currency: "USD"})
	require.NoError(t, err)
	assert.Equal(t, "DEMO-ORD-1", r.ProviderRef)
	assert.Contains(t, r.Message, "29.99 USD")
}

func TestDemoGatewayRejectsNonPositive(t *testing.T) {
	_, err := NewDemoGateway(0).Charge(context.Background(), ChargeRequest{Amount: 0})
	assert.Error(t, err)
}

func TestDemoGatewayHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewDemoGateway(time.Minute).Charge(ctx, ChargeRequest{Amount: 1})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}
