package exchangerate

//go:generate go run go.uber.org/mock/mockgen -source=./exchangerate.go -destination=./mocks/exchangerate_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
	"villa/config"
	"villa/infras/otel"
	"villa/shared/constant"
	"villa/shared/money"

	"github.com/rs/zerolog/log"
)

// Client fetches the latest conversion rates for a base currency.
type Client interface {
	Latest(ctx context.Context, base money.Currency) (map[string]float64, error)
}

type latestResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

type clientImpl struct {
	httpClient *http.Client
	baseURL    string
	otel       otel.Otel
}

func New(cfg *config.Config, otel otel.Otel) Client {
	return &clientImpl{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Exchange.TimeoutSeconds) * time.Second,
		},
		baseURL: strings.TrimRight(cfg.Exchange.APIURL, "/"),
		otel:    otel,
	}
}

func (c *clientImpl) Latest(ctx context.Context, base money.Currency) (rates map[string]float64, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".exchangerate.Latest")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	url := fmt.Sprintf("%s/%s", c.baseURL, base)
	scope.SetAttribute("http.url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build exchange rate request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("base", string(base)).Msg("exchange rate request failed")

		return nil, fmt.Errorf("failed to fetch exchange rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("exchange rate api returned status %s", resp.Status)
	}

	var body latestResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode exchange rates: %w", err)
	}

	return body.Rates, nil
}
