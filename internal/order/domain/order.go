package domain

import (
	"time"

	cartdomain "github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/cart/domain"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusFulfilled OrderStatus = "FULFILLED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
)

// CustomerSnapshot is the buyer's details as captured at checkout time,
// not a live reference to a profile.
type CustomerSnapshot struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Order is created exactly once per successful payment confirmation.
// Everything except Status and the fulfillment fields is immutable; those
// are mutated by the fulfillment/admin tooling, not by this core.
type Order struct {
	ID               string                `json:"id"`
	Customer         CustomerSnapshot      `json:"customer"`
	Items            []cartdomain.LineItem `json:"items"`
	Total            decimal.Decimal       `json:"total"`
	Currency         string                `json:"currency"`
	PaymentReference string                `json:"payment_reference"`
	Status           OrderStatus           `json:"status"`
	TrackingNumber   string                `json:"tracking_number,omitempty"`
	Carrier          string                `json:"carrier,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}
