package model

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"villa/shared/money"
	"villa/shared/timezone"
)

//go:embed seasons.json
var defaultSeasons []byte

var (
	ErrInvalidRule = errors.New("invalid season rule")
	ErrRuleOverlap = errors.New("season rule overlaps an existing rule")
)

// SeasonRule prices every night in [Start, End).
type SeasonRule struct {
	Start       timezone.Date `json:"start"`
	End         timezone.Date `json:"end"`
	Label       string        `json:"label"`
	NightlyRate int64         `json:"nightly_rate"`
	MinNights   int           `json:"min_nights"`
}

func (r SeasonRule) Covers(day timezone.Date) bool {
	return !day.Before(r.Start) && day.Before(r.End)
}

// Rate is the nightly rate in base currency minor units.
func (r SeasonRule) Rate() money.Amount {
	return money.Amount(r.NightlyRate * money.MinorPerMajor)
}

func (r SeasonRule) Validate() error {
	switch {
	case r.Start.IsZero() || r.End.IsZero():
		return fmt.Errorf("%w: start and end are required", ErrInvalidRule)
	case !r.Start.Before(r.End):
		return fmt.Errorf("%w: start must be before end", ErrInvalidRule)
	case r.NightlyRate <= 0:
		return fmt.Errorf("%w: nightly rate must be positive", ErrInvalidRule)
	case r.MinNights < 1:
		return fmt.Errorf("%w: minimum nights must be at least 1", ErrInvalidRule)
	case r.Label == "":
		return fmt.Errorf("%w: label is required", ErrInvalidRule)
	}

	return nil
}

func (r SeasonRule) overlaps(other SeasonRule) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// SeasonTable is the ordered rule set used to price stays.
type SeasonTable struct {
	mu    sync.RWMutex
	rules []SeasonRule
}

func NewSeasonTable(rules []SeasonRule) *SeasonTable {
	sorted := slices.Clone(rules)
	slices.SortFunc(sorted, func(a, b SeasonRule) int {
		return a.Start.Compare(b.Start)
	})

	return &SeasonTable{rules: sorted}
}

// DefaultSeasonTable loads the embedded rules for the supported horizon.
func DefaultSeasonTable() (*SeasonTable, error) {
	var rules []SeasonRule
	if err := json.Unmarshal(defaultSeasons, &rules); err != nil {
		return nil, fmt.Errorf("failed to decode season rules: %w", err)
	}

	return NewSeasonTable(rules), nil
}

func (t *SeasonTable) Lookup(day timezone.Date) (SeasonRule, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, rule := range t.rules {
		if rule.Covers(day) {
			return rule, true
		}
	}

	return SeasonRule{}, false
}

func (t *SeasonTable) Rules() []SeasonRule {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return slices.Clone(t.rules)
}

// Add inserts a rule. A rule with exactly the same range replaces the
// existing one; any other overlap is rejected.
func (t *SeasonTable) Add(rule SeasonRule) error {
	if err := rule.Validate(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for i, existing := range t.rules {
		if existing.Start == rule.Start && existing.End == rule.End {
			t.rules[i] = rule

			return nil
		}

		if existing.overlaps(rule) {
			return fmt.Errorf("%w: %s %s..%s", ErrRuleOverlap, existing.Label, existing.Start, existing.End)
		}
	}

	idx, _ := slices.BinarySearchFunc(t.rules, rule, func(a, b SeasonRule) int {
		return a.Start.Compare(b.Start)
	})
	t.rules = slices.Insert(t.rules, idx, rule)

	return nil
}

// Issues reports gaps and overlaps between consecutive rules.
func (t *SeasonTable) Issues() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	issues := []string{}

	for i := 0; i+1 < len(t.rules); i++ {
		current, next := t.rules[i], t.rules[i+1]

		switch {
		case current.End.Before(next.Start):
			issues = append(issues, fmt.Sprintf("gap between %s (ends %s) and %s (starts %s)", current.Label, current.End, next.Label, next.Start))
		case current.End.After(next.Start):
			issues = append(issues, fmt.Sprintf("overlap between %s (ends %s) and %s (starts %s)", current.Label, current.End, next.Label, next.Start))
		}
	}

	return issues
}

// NightPrice is the rate applied to a single night of a stay.
type NightPrice struct {
	Date   timezone.Date `json:"date"`
	Season string        `json:"season"`
	Rate   money.Amount  `json:"rate"`
}

// Quote is a priced stay before and after discount.
type Quote struct {
	CheckIn         timezone.Date
	CheckOut        timezone.Date
	Nights          int
	Season          string
	MinNights       int
	Currency        money.Currency
	BaseTotalIDR    money.Amount
	ExchangeRate    float64
	RateFallback    bool
	BaseTotal       money.Amount
	Total           money.Amount
	DiscountCode    string
	AirportTransfer bool
	PriceCheckWaive bool
	NightlyPrices   []NightPrice
}

// PricePerNight is the converted pre-discount average.
func (q Quote) PricePerNight() money.Amount {
	if q.Nights == 0 {
		return 0
	}

	return money.Amount(int64(q.BaseTotal) / int64(q.Nights))
}
