package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"NiftyScreener/internal/model"

	"github.com/go-resty/resty/v2"
)

// RestFetcher implements Fetcher against a self-hosted bar API:
//
//	GET {base}/api/v1/bars/daily?symbol=INFY&range=1d
//
// returning a JSON array of {timestamp, open, high, low, close}.
type RestFetcher struct {
	Client *resty.Client
}

// NewRestFetcher creates a new fetcher with optional proxy support.
func NewRestFetcher(baseURL, apiKey, proxyURL string, timeout time.Duration) *RestFetcher {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &RestFetcher{Client: client}
}

func (f *RestFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape from the bar API. Pointers let null
// prices through as non-finite values.
type restBar struct {
	Timestamp int64    `json:"timestamp"`
	Open      *float64 `json:"open"`
	High      *float64 `json:"high"`
	Low       *float64 `json:"low"`
	Close     *float64 `json:"close"`
}

func (f *RestFetcher) FetchBar(ctx context.Context, symbol, period string) (model.Bar, error) {
	if !ValidPeriod(period) {
		return model.Bar{}, unavailable("rest", symbol, fmt.Errorf("unsupported period %q", period))
	}
	var raw []restBar
	resp, err := f.Client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"symbol": symbol, "range": period}).
		SetResult(&raw).
		Get("/api/v1/bars/daily")
	if err != nil {
		return model.Bar{}, unavailable("rest", symbol, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return model.Bar{}, unavailable("rest", symbol,
			fmt.Errorf("status %d, body: %s", resp.StatusCode(), resp.String()))
	}

	bars := make([]model.Bar, 0, len(raw))
	for _, rb := range raw {
		bars = append(bars, model.NewBarFromFloat(time.Unix(rb.Timestamp, 0).UTC(),
			orNaN(rb.Open), orNaN(rb.High), orNaN(rb.Low), orNaN(rb.Close)))
	}
	bar, ok := latest(bars)
	if !ok {
		return model.Bar{}, unavailable("rest", symbol, errors.New("no bars for period "+period))
	}
	return bar, nil
}
