package payment

import (
	"context"
	"errors"

	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/cart/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrUnknownIntent      = errors.New("unknown payment intent reference")
)

type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Intent is the gateway-side handle for one payment attempt. The core
// never sees card data; the client secret is handed to the buyer's browser.
type Intent struct {
	Reference    string
	ClientSecret string
}

type ConfirmResult struct {
	Status    Status
	Reference string
	Reason    string
}

type BillingDetails struct {
	Name  string
	Email string
}

// Gateway is the external payment collaborator contract.
type Gateway interface {
	CreateIntent(ctx context.Context, amount decimal.Decimal, currency string, items []domain.LineItem) (*Intent, error)
	Confirm(ctx context.Context, intentReference string, billing BillingDetails) (*ConfirmResult, error)
}
