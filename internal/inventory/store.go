package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/cart/domain"
)

var ErrInvalidDecrement = errors.New("decrement units must be positive")

// SharedSKU identifies the one physical jar pool every bundle draws from.
const SharedSKU = "HV-SHILAJIT-JAR"

// LedgerEntry is one append-only inventory audit record.
type LedgerEntry struct {
	SKU           string    `json:"sku"`
	Action        string    `json:"action"`
	QuantityDelta int64     `json:"quantity_delta"`
	Actor         string    `json:"actor"`
	Timestamp     time.Time `json:"timestamp"`
}

// StockStore holds the single shared jar counter. Decrement must be an
// atomic read-modify-write: two orders racing for the last unit must not
// drive the counter below zero.
type StockStore interface {
	// Stock returns the current shared unit count.
	Stock(ctx context.Context) (int64, error)

	// SetStock replaces the counter (initialization and restock).
	SetStock(ctx context.Context, units int64) error

	// Decrement subtracts up to units from the counter, clamped at zero.
	// Returns the units actually consumed and the remaining stock; when
	// the clamp engages, consumed is less than requested.
	Decrement(ctx context.Context, units int64) (consumed int64, remaining int64, err error)
}

// BundleAvailability is the displayed stock for one bundle variant: the
// shared count divided by the bundle multiplier, floored. Stock is not
// tracked per bundle; this is a derived view.
func BundleAvailability(sharedStock int64, multiplier domain.BundleMultiplier) int64 {
	if multiplier <= 0 {
		return 0
	}
	return sharedStock / int64(multiplier)
}
