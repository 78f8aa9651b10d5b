package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/cart/domain"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
)

// BreakerGateway wraps a Gateway with circuit breakers so a flapping
// provider short-circuits into ErrGatewayUnavailable instead of hanging
// every checkout behind timeouts.
type BreakerGateway struct {
	inner   Gateway
	create  *gobreaker.CircuitBreaker[*Intent]
	confirm *gobreaker.CircuitBreaker[*ConfirmResult]
}

func NewBreakerGateway(inner Gateway) *BreakerGateway {
	return &BreakerGateway{
		inner:   inner,
		create:  gobreaker.NewCircuitBreaker[*Intent](breakerSettings("payment-create-intent")),
		confirm: gobreaker.NewCircuitBreaker[*ConfirmResult](breakerSettings("payment-confirm")),
	}
}

func breakerSettings(name string) gobreaker.Settings {
	return gobreaker.Settings{
		Name:    name,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}
}

func (b *BreakerGateway) CreateIntent(ctx context.Context, amount decimal.Decimal, currency string, items []domain.LineItem) (*Intent, error) {
	intent, err := b.create.Execute(func() (*Intent, error) {
		return b.inner.CreateIntent(ctx, amount, currency, items)
	})
	if err != nil {
		return nil, translateBreakerErr(err)
	}
	return intent, nil
}

func (b *BreakerGateway) Confirm(ctx context.Context, intentReference string, billing BillingDetails) (*ConfirmResult, error) {
	result, err := b.confirm.Execute(func() (*ConfirmResult, error) {
		return b.inner.Confirm(ctx, intentReference, billing)
	})
	if err != nil {
		return nil, translateBreakerErr(err)
	}
	return result, nil
}

func translateBreakerErr(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: circuit open", ErrGatewayUnavailable)
	}
	return err
}
