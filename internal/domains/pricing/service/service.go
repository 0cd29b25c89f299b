package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"villa/config"
	"villa/infras/otel"
	exchange "villa/internal/domains/exchange/service"
	"villa/internal/domains/pricing/model"
	"villa/shared/constant"
	"villa/shared/failure"
	"villa/shared/money"
	"villa/shared/timezone"

	"github.com/rs/zerolog/log"
)

var defaultHorizon = timezone.NewDate(2027, 2, 1)

type Pricing interface {
	PriceStay(ctx context.Context, checkIn, checkOut timezone.Date, currency money.Currency) (model.Quote, error)
	Quote(ctx context.Context, checkIn, checkOut timezone.Date, currency money.Currency, code string) (model.Quote, error)
	ApplyDiscount(total money.Amount, code string) model.DiscountResult
	Horizon() timezone.Date
	Rules(ctx context.Context) ([]model.SeasonRule, []string)
	AddRule(ctx context.Context, rule model.SeasonRule) error
}

type serviceImpl struct {
	table    *model.SeasonTable
	exchange exchange.Exchange
	otel     otel.Otel
	horizon  timezone.Date
}

func New(table *model.SeasonTable, exchange exchange.Exchange, cfg *config.Config, otel otel.Otel) Pricing {
	horizon, err := timezone.ParseDate(cfg.App.Property.HorizonEnd)
	if err != nil {
		log.Warn().Err(err).Str("horizon", cfg.App.Property.HorizonEnd).Msg("invalid booking horizon, using default")

		horizon = defaultHorizon
	}

	for _, issue := range table.Issues() {
		log.Warn().Str("issue", issue).Msg("season table is not contiguous")
	}

	return &serviceImpl{
		table:    table,
		exchange: exchange,
		otel:     otel,
		horizon:  horizon,
	}
}

func (s *serviceImpl) Horizon() timezone.Date {
	return s.horizon
}

// PriceStay sums the nightly rates of [checkIn, checkOut) in the base
// currency and converts the result into currency.
func (s *serviceImpl) PriceStay(ctx context.Context, checkIn, checkOut timezone.Date, currency money.Currency) (res model.Quote, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".pricing.PriceStay")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !checkIn.Before(checkOut) {
		return res, failure.BadRequestFromString("check-out must be after check-in") // nolint:wrapcheck
	}

	if checkOut.After(s.horizon) {
		return res, failure.OutOfRange(s.horizon.String()) // nolint:wrapcheck
	}

	if !currency.Valid() {
		return res, failure.BadRequestFromString(fmt.Sprintf("unsupported currency %q", currency)) // nolint:wrapcheck
	}

	nights := checkIn.DaysUntil(checkOut)
	res = model.Quote{
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Nights:        nights,
		Currency:      currency,
		NightlyPrices: make([]model.NightPrice, 0, nights),
	}

	missing := []string{}

	for day := checkIn; day.Before(checkOut); day = day.AddDays(1) {
		rule, ok := s.table.Lookup(day)
		if !ok {
			missing = append(missing, day.String())

			continue
		}

		if day == checkIn {
			res.Season = rule.Label
			res.MinNights = rule.MinNights
		}

		res.BaseTotalIDR += rule.Rate()
		res.NightlyPrices = append(res.NightlyPrices, model.NightPrice{Date: day, Season: rule.Label, Rate: rule.Rate()})
	}

	if len(missing) > 0 {
		return model.Quote{}, failure.NoPricingRule(missing) // nolint:wrapcheck
	}

	if nights < res.MinNights {
		return model.Quote{}, failure.MinimumStay(res.MinNights, res.Season) // nolint:wrapcheck
	}

	rate, fallback := s.exchange.Rate(ctx, money.BaseCurrency, currency)
	if rate <= 0 {
		return model.Quote{}, failure.InternalError(errors.New("no exchange rate available")) // nolint:wrapcheck
	}

	if fallback {
		log.Warn().Str("currency", string(currency)).Float64("rate", rate).Msg("pricing with fallback exchange rate")
	}

	res.ExchangeRate = rate
	res.RateFallback = fallback
	res.BaseTotal = res.BaseTotalIDR.Convert(rate)
	res.Total = res.BaseTotal

	scope.SetAttribute("pricing.nights", nights)

	return res, nil
}

// Quote prices the stay and applies the discount code to the converted total.
func (s *serviceImpl) Quote(ctx context.Context, checkIn, checkOut timezone.Date, currency money.Currency, code string) (res model.Quote, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".pricing.Quote")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	res, err = s.PriceStay(ctx, checkIn, checkOut, currency)
	if err != nil {
		return res, err
	}

	discount := s.ApplyDiscount(res.BaseTotal, code)
	res.Total = discount.FinalTotal
	res.DiscountCode = discount.Code
	res.AirportTransfer = discount.AirportTransfer
	res.PriceCheckWaive = discount.WaivesPriceChk

	return res, nil
}

func (s *serviceImpl) ApplyDiscount(total money.Amount, code string) model.DiscountResult {
	return model.ApplyDiscount(total, code)
}

func (s *serviceImpl) Rules(ctx context.Context) ([]model.SeasonRule, []string) {
	_, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".pricing.Rules")
	defer scope.End()

	return s.table.Rules(), s.table.Issues()
}

func (s *serviceImpl) AddRule(ctx context.Context, rule model.SeasonRule) (err error) {
	_, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".pricing.AddRule")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if rule.End.After(s.horizon) {
		return failure.OutOfRange(s.horizon.String()) // nolint:wrapcheck
	}

	err = s.table.Add(rule)

	switch {
	case errors.Is(err, model.ErrRuleOverlap):
		return failure.Conflict(err.Error()) // nolint:wrapcheck
	case errors.Is(err, model.ErrInvalidRule):
		return failure.BadRequest(err) // nolint:wrapcheck
	case err != nil:
		return fmt.Errorf("failed to add season rule: %w", err)
	}

	log.Info().Str("label", rule.Label).Str("start", rule.Start.String()).Str("end", rule.End.String()).Msg("season rule added")

	return nil
}
