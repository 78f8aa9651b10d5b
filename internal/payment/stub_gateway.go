package payment

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/cart/domain"
	"github.com/shopspring/decimal"
)

// OutcomeSource decides how a confirmation attempt resolves. Production
// wiring uses RandomOutcome; tests plug in a deterministic source.
type OutcomeSource interface {
	Outcome() (Status, string)
}

// RandomOutcome succeeds 95% of the time.
type RandomOutcome struct{}

func (RandomOutcome) Outcome() (Status, string) {
	if rand.Intn(100) < 95 {
		return StatusSucceeded, ""
	}
	return StatusFailed, "card declined"
}

// FixedOutcome always resolves the same way.
type FixedOutcome struct {
	Status Status
	Reason string
}

func (f FixedOutcome) Outcome() (Status, string) {
	return f.Status, f.Reason
}

// StubGateway simulates the external payment provider. Intents are held in
// memory keyed by reference; confirming an unknown reference fails.
type StubGateway struct {
	outcome OutcomeSource

	mu      sync.Mutex
	intents map[string]decimal.Decimal
}

func NewStubGateway(outcome OutcomeSource) *StubGateway {
	if outcome == nil {
		outcome = RandomOutcome{}
	}
	return &StubGateway{
		outcome: outcome,
		intents: make(map[string]decimal.Decimal),
	}
}

func (g *StubGateway) CreateIntent(_ context.Context, amount decimal.Decimal, currency string, _ []domain.LineItem) (*Intent, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("intent amount must not be negative, got %s %s", amount, currency)
	}

	reference := fmt.Sprintf("pi_%s", uuid.NewString())

	g.mu.Lock()
	g.intents[reference] = amount
	g.mu.Unlock()

	return &Intent{
		Reference:    reference,
		ClientSecret: fmt.Sprintf("cs_%s", uuid.NewString()),
	}, nil
}

func (g *StubGateway) Confirm(_ context.Context, intentReference string, _ BillingDetails) (*ConfirmResult, error) {
	g.mu.Lock()
	_, known := g.intents[intentReference]
	g.mu.Unlock()
	if !known {
		return nil, ErrUnknownIntent
	}

	status, reason := g.outcome.Outcome()
	return &ConfirmResult{
		Status:    status,
		Reference: intentReference,
		Reason:    reason,
	}, nil
}
