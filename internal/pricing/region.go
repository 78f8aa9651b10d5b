package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FallbackCountry is the designated region used when the buyer's country
// has no explicit entry.
const FallbackCountry = "OTHER"

// Region is static shipping/tax reference data keyed by destination country.
type Region struct {
	CountryCode    string
	ShippingCost   decimal.Decimal
	TaxRatePercent decimal.Decimal
	ETA            string
}

// Table is a lookup of regions with a guaranteed fallback: unknown country
// codes resolve to OTHER, or to the first region when OTHER is absent.
type Table struct {
	regions []Region
	byCode  map[string]Region
}

func NewTable(regions ...Region) *Table {
	t := &Table{
		regions: regions,
		byCode:  make(map[string]Region, len(regions)),
	}
	for _, region := range regions {
		t.byCode[strings.ToUpper(region.CountryCode)] = region
	}
	return t
}

// Lookup resolves a country to its region, falling back to OTHER and then
// to the first configured region. An empty table yields the zero Region
// (free shipping, no tax) rather than panicking.
func (t *Table) Lookup(countryCode string) Region {
	if region, ok := t.byCode[strings.ToUpper(strings.TrimSpace(countryCode))]; ok {
		return region
	}
	if region, ok := t.byCode[FallbackCountry]; ok {
		return region
	}
	if len(t.regions) == 0 {
		return Region{}
	}
	return t.regions[0]
}

// Has reports whether the country has an explicit entry (the fallback does
// not count).
func (t *Table) Has(countryCode string) bool {
	_, ok := t.byCode[strings.ToUpper(strings.TrimSpace(countryCode))]
	return ok
}

func (t *Table) Regions() []Region {
	out := make([]Region, len(t.regions))
	copy(out, t.regions)
	return out
}

// DefaultTable is the shipping/tax configuration the storefront ships with.
func DefaultTable() *Table {
	return NewTable(
		Region{CountryCode: "US", ShippingCost: dec("9.95"), TaxRatePercent: dec("7.25"), ETA: "3-5 business days"},
		Region{CountryCode: "CA", ShippingCost: dec("14.95"), TaxRatePercent: dec("5"), ETA: "5-8 business days"},
		Region{CountryCode: "GB", ShippingCost: dec("12.95"), TaxRatePercent: dec("20"), ETA: "5-8 business days"},
		Region{CountryCode: "AU", ShippingCost: dec("16.95"), TaxRatePercent: dec("10"), ETA: "8-12 business days"},
		Region{CountryCode: FallbackCountry, ShippingCost: dec("19.95"), TaxRatePercent: dec("0"), ETA: "10-21 business days"},
	)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
