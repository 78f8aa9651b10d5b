package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BundleMultiplier is the number of physical jars one purchasable variant
// represents. Stock is tracked as a single jar count, so a DOUBLE bundle
// consumes two units of it.
type BundleMultiplier int

const (
	BundleSingle BundleMultiplier = 1
	BundleDouble BundleMultiplier = 2
	BundleTriple BundleMultiplier = 3
)

func (b BundleMultiplier) Valid() bool {
	return b == BundleSingle || b == BundleDouble || b == BundleTriple
}

type DiscountKind string

const (
	DiscountPercentage DiscountKind = "PERCENTAGE"
	DiscountFixed      DiscountKind = "FIXED"
)

// AppliedDiscount is the single discount attached to a cart. Applying a new
// code replaces any previous one; discounts are never combined.
type AppliedDiscount struct {
	Code  string          `json:"code"`
	Kind  DiscountKind    `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

// LineItem is one bundle variant in the cart. Identity is VariantID.
type LineItem struct {
	VariantID        string           `json:"variant_id"`
	ProductTitle     string           `json:"product_title"`
	VariantName      string           `json:"variant_name"`
	UnitPrice        decimal.Decimal  `json:"unit_price"`
	Quantity         int              `json:"quantity"`
	ImageRef         string           `json:"image_ref,omitempty"`
	BundleMultiplier BundleMultiplier `json:"bundle_multiplier"`
}

// Units is the physical jar count this line consumes.
func (li LineItem) Units() int {
	return li.Quantity * int(li.BundleMultiplier)
}

func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Cart holds the ordered line items plus an optional applied discount.
// No two items share a VariantID.
type Cart struct {
	Items     []LineItem       `json:"items"`
	Discount  *AppliedDiscount `json:"discount,omitempty"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Subtotal is recomputed on every call, never cached.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range c.Items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

// Count is the total item quantity across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// TotalUnits is the bundle-weighted physical jar count, used for the
// free-shipping threshold and for stock decrement at order commit.
func (c *Cart) TotalUnits() int {
	n := 0
	for _, item := range c.Items {
		n += item.Units()
	}
	return n
}

// Clone returns a deep copy safe to hand out to callers.
func (c *Cart) Clone() Cart {
	out := Cart{UpdatedAt: c.UpdatedAt}
	if len(c.Items) > 0 {
		out.Items = make([]LineItem, len(c.Items))
		copy(out.Items, c.Items)
	}
	if c.Discount != nil {
		d := *c.Discount
		out.Discount = &d
	}
	return out
}
