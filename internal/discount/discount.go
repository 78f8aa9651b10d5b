package discount

import (
	"strconv"
	"time"

	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/cart/domain"
	"github.com/shopspring/decimal"
)

// Record is a discount as stored. Older records carry the value in the
// legacy `amount` field instead of the canonical `value` field, and either
// may arrive as a JSON number or a numeric string. NormalizedValue is the
// single place that mess is resolved.
type Record struct {
	Code      string              `json:"code"`
	Kind      domain.DiscountKind `json:"kind"`
	Value     any                 `json:"value,omitempty"`
	Amount    any                 `json:"amount,omitempty"` // legacy field
	Active    bool                `json:"active"`
	ExpiresAt *time.Time          `json:"expires_at,omitempty"`
}

// NormalizedValue reads whichever source field is present, canonical first.
// Absent or non-numeric values normalize to 0 so a NaN can never propagate
// into a total. Negative values also normalize to 0.
func (r Record) NormalizedValue() decimal.Decimal {
	value, ok := coerceNumber(r.Value)
	if !ok {
		value, ok = coerceNumber(r.Amount)
	}
	if !ok || value.IsNegative() {
		return decimal.Zero
	}
	return value
}

// Expired reports whether the record's expiry, if any, has passed.
func (r Record) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && now.After(*r.ExpiresAt)
}

func coerceNumber(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case nil:
		return decimal.Zero, false
	case float64:
		return decimal.NewFromFloat(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case decimal.Decimal:
		return n, true
	case string:
		if _, err := strconv.ParseFloat(n, 64); err != nil {
			return decimal.Zero, false
		}
		parsed, err := decimal.NewFromString(n)
		if err != nil {
			return decimal.Zero, false
		}
		return parsed, true
	default:
		return decimal.Zero, false
	}
}
