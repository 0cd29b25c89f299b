package model

import (
	"strings"
	"villa/shared/money"
)

type DiscountKind string

const (
	DiscountPercent    DiscountKind = "percent"
	DiscountFree       DiscountKind = "free"
	DiscountFixedTotal DiscountKind = "fixed_total"
)

// DiscountCode is a named deterministic transform of a stay total.
type DiscountCode struct {
	Code            string
	Kind            DiscountKind
	Percent         int64
	FixedTotal      money.Amount
	AirportTransfer bool
}

// DiscountResult is the outcome of applying a code to a total.
type DiscountResult struct {
	FinalTotal      money.Amount
	AirportTransfer bool
	Code            string
	Applied         bool
	WaivesPriceChk  bool
}

var discountCodes = map[string]DiscountCode{
	"MEGAN": {
		Code:            "MEGAN",
		Kind:            DiscountPercent,
		Percent:         5,
		AirportTransfer: true,
	},
	"TESTFREE": {
		Code:            "TESTFREE",
		Kind:            DiscountFree,
		AirportTransfer: true,
	},
	"TESTFIVEEUR": {
		Code:            "TESTFIVEEUR",
		Kind:            DiscountFixedTotal,
		FixedTotal:      money.FromMajor(5),
		AirportTransfer: true,
	},
}

func LookupDiscount(code string) (DiscountCode, bool) {
	d, ok := discountCodes[strings.ToUpper(strings.TrimSpace(code))]

	return d, ok
}

// Apply transforms total, which must already be in the request currency.
// Fixed totals are taken literally in that currency.
func (d DiscountCode) Apply(total money.Amount) money.Amount {
	switch d.Kind {
	case DiscountPercent:
		return total.Percent(100 - d.Percent)
	case DiscountFree:
		return 0
	case DiscountFixedTotal:
		return d.FixedTotal
	default:
		return total
	}
}

// WaivesPriceCheck is true for codes whose total does not derive from the stay price.
func (d DiscountCode) WaivesPriceCheck() bool {
	return d.Kind == DiscountFree || d.Kind == DiscountFixedTotal
}

// ApplyDiscount is a pure function of its inputs. Unknown codes pass the total through.
func ApplyDiscount(total money.Amount, code string) DiscountResult {
	d, ok := LookupDiscount(code)
	if !ok {
		return DiscountResult{FinalTotal: total}
	}

	return DiscountResult{
		FinalTotal:      d.Apply(total),
		AirportTransfer: d.AirportTransfer,
		Code:            d.Code,
		Applied:         true,
		WaivesPriceChk:  d.WaivesPriceCheck(),
	}
}
