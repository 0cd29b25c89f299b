package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"sync"
	"time"
	"villa/config"
	"villa/infras/exchangerate"
	"villa/infras/otel"
	"villa/internal/domains/exchange/model"
	"villa/shared/constant"
	"villa/shared/money"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	defaultTTL    = 15 * time.Minute
	fallbackRetry = time.Minute
)

type Exchange interface {
	GetRates(ctx context.Context, base money.Currency) model.Rates
	Rate(ctx context.Context, base, target money.Currency) (rate float64, fallback bool)
}

type serviceImpl struct {
	client exchangerate.Client
	otel   otel.Otel
	ttl    time.Duration
	now    func() time.Time

	mu      sync.RWMutex
	entries map[money.Currency]entry
	group   singleflight.Group
}

type entry struct {
	rates     model.Rates
	expiresAt time.Time
}

func New(client exchangerate.Client, cfg *config.Config, otel otel.Otel) Exchange {
	ttl := time.Duration(cfg.Exchange.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &serviceImpl{
		client:  client,
		otel:    otel,
		ttl:     ttl,
		now:     time.Now,
		entries: map[money.Currency]entry{},
	}
}

// GetRates never fails. A failed or partial refresh is completed from the
// static table and flagged as fallback.
func (s *serviceImpl) GetRates(ctx context.Context, base money.Currency) model.Rates {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".exchange.GetRates")
	defer scope.End()

	if rates, ok := s.cached(base); ok {
		return rates
	}

	result, _, _ := s.group.Do(string(base), func() (any, error) {
		if rates, ok := s.cached(base); ok {
			return rates, nil
		}

		return s.refresh(context.WithoutCancel(ctx), base), nil
	})

	rates, _ := result.(model.Rates)
	scope.SetAttribute("exchange.fallback", rates.Fallback)

	return rates
}

func (s *serviceImpl) Rate(ctx context.Context, base, target money.Currency) (float64, bool) {
	if base == target {
		return 1, false
	}

	rates := s.GetRates(ctx, base)

	return rates.Rates[target], rates.Fallback
}

func (s *serviceImpl) cached(base money.Currency) (model.Rates, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[base]
	if !ok || !s.now().Before(e.expiresAt) {
		return model.Rates{}, false
	}

	return e.rates, true
}

func (s *serviceImpl) refresh(ctx context.Context, base money.Currency) model.Rates {
	fallback := model.FallbackFor(base)
	now := s.now()

	rates := model.Rates{
		Base:      base,
		Rates:     make(map[money.Currency]float64, len(money.Supported)),
		FetchedAt: now,
	}

	upstream, err := s.client.Latest(ctx, base)
	if err != nil {
		log.Warn().Err(err).Str("base", string(base)).Msg("exchange rate fetch failed, using fallback rates")

		rates.Rates = fallback
		rates.Fallback = true
		s.store(base, rates, now.Add(fallbackRetry))

		return rates
	}

	for _, currency := range money.Supported {
		rate, ok := upstream[string(currency)]
		if !ok || rate <= 0 {
			log.Warn().Str("base", string(base)).Str("currency", string(currency)).Msg("exchange rate missing upstream, using fallback rate")

			rate = fallback[currency]
			rates.Fallback = true
		}

		rates.Rates[currency] = rate
	}

	s.store(base, rates, now.Add(s.ttl))

	log.Info().Str("base", string(base)).Bool("fallback", rates.Fallback).Msg("exchange rates refreshed")

	return rates
}

func (s *serviceImpl) store(base money.Currency, rates model.Rates, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[base] = entry{rates: rates, expiresAt: expiresAt}
}
