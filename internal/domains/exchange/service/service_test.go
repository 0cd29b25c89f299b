package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	"villa/config"
	exrMocks "villa/infras/exchangerate/mocks"
	"villa/infras/otel/mocks"
	"villa/internal/domains/exchange/model"
	"villa/internal/domains/exchange/service"
	"villa/shared/money"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func newService(t *testing.T) (service.Exchange, *exrMocks.MockClient, *clock) {
	t.Helper()

	ctrl := gomock.NewController(t)
	client := exrMocks.NewMockClient(ctrl)

	cfg := &config.Config{}
	cfg.Exchange.TTLSeconds = 900

	clk := &clock{now: time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)}

	return service.NewWithClock(client, cfg, mocks.NewOtel(), clk.Now), client, clk
}

func upstream() map[string]float64 {
	return map[string]float64{"IDR": 1, "USD": 0.000061, "EUR": 0.000056, "AUD": 0.000095, "JPY": 0.0091}
}

func TestExchange_GetRates(t *testing.T) {
	tests := []struct {
		name         string
		setupMock    func(client *exrMocks.MockClient)
		wantFallback bool
		wantUSD      float64
	}{
		{
			name: "fresh rates",
			setupMock: func(client *exrMocks.MockClient) {
				client.EXPECT().Latest(gomock.Any(), money.IDR).Return(upstream(), nil)
			},
			wantUSD: 0.000061,
		},
		{
			name: "upstream failure uses fallback table",
			setupMock: func(client *exrMocks.MockClient) {
				client.EXPECT().Latest(gomock.Any(), money.IDR).Return(nil, errors.New("timeout"))
			},
			wantFallback: true,
			wantUSD:      model.FallbackRates[money.USD],
		},
		{
			name: "missing currency filled from fallback",
			setupMock: func(client *exrMocks.MockClient) {
				client.EXPECT().Latest(gomock.Any(), money.IDR).Return(map[string]float64{"IDR": 1, "EUR": 0.00005}, nil)
			},
			wantFallback: true,
			wantUSD:      model.FallbackRates[money.USD],
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, client, _ := newService(t)
			tt.setupMock(client)

			rates := svc.GetRates(context.Background(), money.IDR)

			assert.Equal(t, tt.wantFallback, rates.Fallback)
			assert.InDelta(t, tt.wantUSD, rates.Rates[money.USD], 1e-12)
			assert.Len(t, rates.Rates, len(money.Supported))
		})
	}
}

func TestExchange_CachesUntilTTL(t *testing.T) {
	svc, client, clk := newService(t)

	client.EXPECT().Latest(gomock.Any(), money.IDR).Return(upstream(), nil).Times(2)

	svc.GetRates(context.Background(), money.IDR)
	clk.Advance(14 * time.Minute)
	svc.GetRates(context.Background(), money.IDR)

	clk.Advance(2 * time.Minute)
	svc.GetRates(context.Background(), money.IDR)
}

func TestExchange_SingleFlightRefresh(t *testing.T) {
	svc, client, _ := newService(t)

	release := make(chan struct{})

	client.EXPECT().
		Latest(gomock.Any(), money.IDR).
		DoAndReturn(func(context.Context, money.Currency) (map[string]float64, error) {
			<-release

			return upstream(), nil
		}).
		Times(1)

	var wg sync.WaitGroup

	for range 10 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			rates := svc.GetRates(context.Background(), money.IDR)
			assert.False(t, rates.Fallback)
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
}

func TestExchange_Rate(t *testing.T) {
	svc, client, _ := newService(t)

	rate, fallback := svc.Rate(context.Background(), money.IDR, money.IDR)
	assert.Equal(t, 1.0, rate)
	assert.False(t, fallback)

	client.EXPECT().Latest(gomock.Any(), money.IDR).Return(nil, errors.New("down"))

	rate, fallback = svc.Rate(context.Background(), money.IDR, money.EUR)
	assert.InDelta(t, 0.000058, rate, 1e-12)
	assert.True(t, fallback)
}

func TestFallbackFor_NonBaseCurrency(t *testing.T) {
	rates := model.FallbackFor(money.USD)

	assert.InDelta(t, 1.0, rates[money.USD], 1e-12)
	assert.InDelta(t, 1/0.000063, rates[money.IDR], 1e-6)
}
