// Package money keeps amounts in integer minor units so that splits such as
// deposit and balance always add back up to the original total.
package money

import (
	"fmt"
	"math"
	"strings"
)

const (
	MinorPerMajor = 100
	percentBase   = 100
)

// Amount is a value in minor units (hundredths of the currency).
type Amount int64

func FromMajor(value float64) Amount {
	return Amount(math.Round(value * MinorPerMajor))
}

func (a Amount) Major() float64 {
	return float64(a) / MinorPerMajor
}

func (a Amount) Int64() int64 {
	return int64(a)
}

// Percent returns pct percent of a, rounded half away from zero.
func (a Amount) Percent(pct int64) Amount {
	return Amount(math.Round(float64(int64(a)*pct) / percentBase))
}

// Convert multiplies by an exchange rate and rounds to the nearest minor unit.
func (a Amount) Convert(rate float64) Amount {
	return Amount(math.Round(float64(a) * rate))
}

// Split divides a into an upfront part of pct percent and the remainder.
func (a Amount) Split(pct int64) (upfront, remaining Amount) {
	upfront = a.Percent(pct)

	return upfront, a - upfront
}

func (a Amount) String() string {
	return fmt.Sprintf("%.2f", a.Major())
}

// Currency is an ISO 4217 code accepted for payment.
type Currency string

const (
	IDR Currency = "IDR"
	USD Currency = "USD"
	EUR Currency = "EUR"
	AUD Currency = "AUD"

	BaseCurrency = IDR
)

var Supported = []Currency{IDR, USD, EUR, AUD}

func ParseCurrency(value string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(value)))
	if !c.Valid() {
		return "", fmt.Errorf("unsupported currency %q", value)
	}

	return c, nil
}

func (c Currency) Valid() bool {
	for _, s := range Supported {
		if c == s {
			return true
		}
	}

	return false
}

func (c Currency) Lower() string {
	return strings.ToLower(string(c))
}
