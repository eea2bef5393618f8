package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GatewayStatus is the payment outcome as reported by the gateway.
type GatewayStatus string

const (
	GatewaySucceeded GatewayStatus = "succeeded"
	GatewayFailed    GatewayStatus = "failed"
	GatewayAbandoned GatewayStatus = "abandoned"
	GatewayPending   GatewayStatus = "pending"
)

// IsValid checks if the gateway status is one we know how to reconcile
func (g GatewayStatus) IsValid() bool {
	switch g {
	case GatewaySucceeded, GatewayFailed, GatewayAbandoned, GatewayPending:
		return true
	}
	return false
}

// GatewayResult is the outcome of querying the gateway for an intent.
type GatewayResult struct {
	IntentID      string        `json:"intent_id"`
	Status        GatewayStatus `json:"status"`
	TransactionID string        `json:"transaction_id,omitempty"`
	Reason        string        `json:"reason,omitempty"`
}

// ErrIntentNotFound means the gateway has no record of the intent.
var ErrIntentNotFound = errors.New("payment intent not found")

// Gateway is the boundary to the external payment provider. Both calls must
// honor the context deadline; a slow gateway is handled by the caller, never
// waited out.
type Gateway interface {
	CreateIntent(ctx context.Context, bookingRef string, amount float64, currency string) (string, error)
	GetResult(ctx context.Context, intentID string) (*GatewayResult, error)
}

// MockGateway simulates a payment provider for development and tests. Every
// intent it creates resolves as succeeded when queried; webhook-style
// failures are driven through the reconcile endpoint directly.
type MockGateway struct {
	latency time.Duration
}

// NewMockGateway creates a mock gateway with the given simulated latency
func NewMockGateway(latency time.Duration) *MockGateway {
	return &MockGateway{latency: latency}
}

func (g *MockGateway) CreateIntent(ctx context.Context, bookingRef string, amount float64, currency string) (string, error) {
	if err := g.sleep(ctx); err != nil {
		return "", err
	}
	if amount <= 0 {
		return "", fmt.Errorf("intent amount must be positive, got %.2f", amount)
	}
	intentID := "pi_" + strings.ReplaceAll(uuid.New().String(), "-", "")
	return intentID, nil
}

func (g *MockGateway) GetResult(ctx context.Context, intentID string) (*GatewayResult, error) {
	if err := g.sleep(ctx); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(intentID, "pi_") {
		return nil, ErrIntentNotFound
	}
	suffixEnd := min(len(intentID), 11)
	return &GatewayResult{
		IntentID:      intentID,
		Status:        GatewaySucceeded,
		TransactionID: fmt.Sprintf("TXN_%d_%s", time.Now().Unix(), strings.ToUpper(intentID[3:suffixEnd])),
	}, nil
}

func (g *MockGateway) sleep(ctx context.Context) error {
	if g.latency <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(g.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
