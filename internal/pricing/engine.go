package pricing

import (
	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/cart/domain"
	"github.com/shopspring/decimal"
)

// DefaultFreeShippingThreshold is the canonical physical-unit count at
// which shipping becomes free. The source system disagreed with itself
// (2 in one call site, 3 in another); 2 is the documented behaviour.
const DefaultFreeShippingThreshold = 2

const Currency = "USD"

// Quote is an immutable pricing snapshot. Every component is already
// rounded to cents, so any rendering of it agrees with any other.
type Quote struct {
	ItemsSubtotal  decimal.Decimal `json:"items_subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	ShippingCost   decimal.Decimal `json:"shipping_cost"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	Total          decimal.Decimal `json:"total"`
	Currency       string          `json:"currency"`
}

// Engine computes quotes. It is pure: no side effects, safe to call on
// every cart edit.
type Engine struct {
	freeShippingThreshold int
}

func NewEngine(freeShippingThreshold int) *Engine {
	if freeShippingThreshold <= 0 {
		freeShippingThreshold = DefaultFreeShippingThreshold
	}
	return &Engine{freeShippingThreshold: freeShippingThreshold}
}

// Quote prices the given line items for one destination region.
//
// The percentage discount is the amount saved: discountAmount =
// subtotal * value/100. A fixed discount is capped at the subtotal so the
// discounted subtotal can never go negative. Tax applies to the discounted
// subtotal and excludes shipping. Discount and tax are each rounded to
// cents once, when produced; everything downstream is exact addition.
func (e *Engine) Quote(items []domain.LineItem, discount *domain.AppliedDiscount, region Region) Quote {
	subtotal := decimal.Zero
	units := 0
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
		units += item.Units()
	}

	discountAmount := e.discountAmount(subtotal, discount)
	afterDiscount := subtotal.Sub(discountAmount)
	if afterDiscount.IsNegative() {
		afterDiscount = decimal.Zero
	}

	shipping := region.ShippingCost
	if units >= e.freeShippingThreshold || region.ShippingCost.IsZero() {
		shipping = decimal.Zero
	}

	tax := afterDiscount.Mul(region.TaxRatePercent).Div(decimal.NewFromInt(100)).Round(2)

	return Quote{
		ItemsSubtotal:  subtotal,
		DiscountAmount: discountAmount,
		ShippingCost:   shipping,
		TaxAmount:      tax,
		Total:          afterDiscount.Add(shipping).Add(tax),
		Currency:       Currency,
	}
}

func (e *Engine) discountAmount(subtotal decimal.Decimal, discount *domain.AppliedDiscount) decimal.Decimal {
	if discount == nil {
		return decimal.Zero
	}
	switch discount.Kind {
	case domain.DiscountPercentage:
		return subtotal.Mul(discount.Value).Div(decimal.NewFromInt(100)).Round(2)
	case domain.DiscountFixed:
		if discount.Value.GreaterThan(subtotal) {
			return subtotal
		}
		return discount.Value
	default:
		return decimal.Zero
	}
}
