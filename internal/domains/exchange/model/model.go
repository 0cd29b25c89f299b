package model

import (
	"time"
	"villa/shared/money"
)

// FallbackRates are IDR-based rates used when the upstream api is unreachable
// or omits a currency.
var FallbackRates = map[money.Currency]float64{
	money.IDR: 1,
	money.USD: 0.000063,
	money.EUR: 0.000058,
	money.AUD: 0.000098,
}

// Rates is a snapshot of conversion rates from one base currency.
type Rates struct {
	Base      money.Currency             `json:"base"`
	Rates     map[money.Currency]float64 `json:"rates"`
	FetchedAt time.Time                  `json:"fetched_at"`
	Fallback  bool                       `json:"fallback"`
}

// FallbackFor derives the static table for any supported base.
func FallbackFor(base money.Currency) map[money.Currency]float64 {
	baseRate, ok := FallbackRates[base]
	if !ok || baseRate == 0 {
		baseRate = 1
	}

	rates := make(map[money.Currency]float64, len(FallbackRates))
	for currency, rate := range FallbackRates {
		rates[currency] = rate / baseRate
	}

	return rates
}
