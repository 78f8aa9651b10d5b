package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	cartdomain "github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/cart/domain"
	cartsvc "github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/cart/service"
	orderdomain "github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/order/domain"
	ordersvc "github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/order/service"
	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/payment"
	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/pricing"
)

type State string

const (
	StateAwaitingAddress State = "AWAITING_ADDRESS"
	StateAwaitingPayment State = "AWAITING_PAYMENT"
	StateCommitted       State = "COMMITTED"
)

func (s State) Terminal() bool {
	return s == StateCommitted
}

var (
	ErrEmptyCart         = errors.New("cart is empty, nothing to checkout")
	ErrInvalidTransition = errors.New("operation not allowed in current checkout state")
	ErrStaleIntent       = errors.New("payment intent does not match the outstanding intent")
	ErrPaymentDeclined   = errors.New("payment was declined")
	// ErrCommitRetryable means the payment succeeded but the order record
	// could not be written; the buyer can retry the confirmation safely
	// because the commit is idempotent on the intent reference.
	ErrCommitRetryable = errors.New("payment captured but order commit failed, retry")
)

// Session walks one buyer through the two-step checkout. Submitting an
// address freezes a quote together with the line items it priced and binds
// both to a fresh payment intent; editing the address discards all three,
// so a stale intent can never confirm a different amount and cart edits
// made after the intent exists never leak into the committed order.
type Session struct {
	mu sync.Mutex

	state        State
	cart         *cartsvc.Aggregate
	regions      *pricing.Table
	engine       *pricing.Engine
	gateway      payment.Gateway
	orders       *ordersvc.Service
	address      *Address
	quote        *pricing.Quote
	items        []cartdomain.LineItem
	intentRef    string
	clientSecret string
	order        *orderdomain.Order
}

func NewSession(cart *cartsvc.Aggregate, regions *pricing.Table, engine *pricing.Engine, gateway payment.Gateway, orders *ordersvc.Service) *Session {
	return &Session{
		state:   StateAwaitingAddress,
		cart:    cart,
		regions: regions,
		engine:  engine,
		gateway: gateway,
		orders:  orders,
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Quote returns the frozen quote, or nil before an address was accepted.
func (s *Session) Quote() *pricing.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quote == nil {
		return nil
	}
	q := *s.quote
	return &q
}

func (s *Session) Order() *orderdomain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order
}

// SubmitAddress validates the address, freezes a quote for its region, and
// requests a payment intent for the quote total. Resubmitting from
// AwaitingPayment (buyer edited the address) discards the old intent and
// binds the recomputed quote to a new one.
func (s *Session) SubmitAddress(ctx context.Context, address Address) (*pricing.Quote, string, error) {
	if err := address.Validate(); err != nil {
		return nil, "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Terminal() {
		return nil, "", ErrInvalidTransition
	}

	snapshot := s.cart.Snapshot()
	if len(snapshot.Items) == 0 {
		return nil, "", ErrEmptyCart
	}

	region := s.regions.Lookup(address.Country)
	quote := s.engine.Quote(snapshot.Items, snapshot.Discount, region)

	if s.intentRef != "" {
		log.Printf("discarding stale payment intent %v after address change", s.intentRef)
	}

	intent, err := s.gateway.CreateIntent(ctx, quote.Total, quote.Currency, snapshot.Items)
	if err != nil {
		// No partial progress: the session stays where it was and the old
		// intent (if any) remains discarded.
		s.intentRef = ""
		s.clientSecret = ""
		s.quote = nil
		s.items = nil
		s.state = StateAwaitingAddress
		if errors.Is(err, payment.ErrGatewayUnavailable) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("%w: %v", payment.ErrGatewayUnavailable, err)
	}

	s.address = &address
	s.quote = &quote
	s.items = snapshot.Items
	s.intentRef = intent.Reference
	s.clientSecret = intent.ClientSecret
	s.state = StateAwaitingPayment

	return &quote, intent.ClientSecret, nil
}

// EditAddress steps back to AwaitingAddress. The in-flight intent, quote
// and frozen items are discarded; re-entering AwaitingPayment requires a
// fresh SubmitAddress.
func (s *Session) EditAddress() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAwaitingPayment {
		return ErrInvalidTransition
	}

	s.intentRef = ""
	s.clientSecret = ""
	s.quote = nil
	s.items = nil
	s.state = StateAwaitingAddress
	return nil
}

// ConfirmPayment confirms the outstanding intent and, on success, commits
// the order synchronously before the transition completes. Any failure
// leaves the session in AwaitingPayment.
func (s *Session) ConfirmPayment(ctx context.Context, intentReference string, billing payment.BillingDetails) (*orderdomain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAwaitingPayment {
		return nil, ErrInvalidTransition
	}
	if intentReference == "" || intentReference != s.intentRef {
		return nil, ErrStaleIntent
	}

	result, err := s.gateway.Confirm(ctx, s.intentRef, billing)
	if err != nil {
		if errors.Is(err, payment.ErrGatewayUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", payment.ErrGatewayUnavailable, err)
	}
	if result.Reference != s.intentRef {
		return nil, ErrStaleIntent
	}
	if result.Status != payment.StatusSucceeded {
		if result.Reason != "" {
			return nil, fmt.Errorf("%w: %s", ErrPaymentDeclined, result.Reason)
		}
		return nil, ErrPaymentDeclined
	}

	// Commit the items frozen at SubmitAddress, not the live cart: the
	// buyer paid the frozen quote, and the cart stays editable while the
	// session sits in AwaitingPayment.
	order, err := s.orders.Commit(ctx, s.address.Snapshot(), s.items, s.quote.Total, s.intentRef)
	if err != nil {
		// The payment has succeeded; only the order record is missing.
		// Stay in AwaitingPayment and let the buyer retry.
		return nil, fmt.Errorf("%w: %v", ErrCommitRetryable, err)
	}

	s.order = order
	s.state = StateCommitted

	if err := s.cart.Clear(ctx); err != nil {
		log.Printf("cart clear after commit failed for order %v: %v", order.ID, err)
	}
	return order, nil
}
