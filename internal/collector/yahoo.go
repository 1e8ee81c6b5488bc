package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"NiftyScreener/internal/model"

	"github.com/go-resty/resty/v2"
)

// DefaultYahooURL is the public Yahoo Finance chart API host.
const DefaultYahooURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using Yahoo Finance public API.
type YahooFetcher struct {
	Client *resty.Client
	Suffix string // exchange suffix appended to symbols, e.g. ".NS"
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(baseURL, suffix, proxyURL string, timeout time.Duration) *YahooFetcher {
	if baseURL == "" {
		baseURL = DefaultYahooURL
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", "Mozilla/5.0")
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &YahooFetcher{Client: client, Suffix: suffix}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// Ticker maps an exchange symbol to its Yahoo ticker, e.g. INFY -> INFY.NS.
func (f *YahooFetcher) Ticker(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if i := strings.Index(symbol, ":"); i >= 0 {
		symbol = symbol[i+1:]
	}
	if f.Suffix == "" || strings.HasSuffix(symbol, f.Suffix) {
		return symbol
	}
	return symbol + f.Suffix
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open  []*float64 `json:"open"`
					High  []*float64 `json:"high"`
					Low   []*float64 `json:"low"`
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func orNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// at returns the i-th value, NaN for nulls and missing entries.
func at(vals []*float64, i int) float64 {
	if i >= len(vals) {
		return math.NaN()
	}
	return orNaN(vals[i])
}

func (f *YahooFetcher) FetchBar(ctx context.Context, symbol, period string) (model.Bar, error) {
	ticker := f.Ticker(symbol)
	bars, err := f.fetchChart(ctx, ticker, period)
	if err != nil {
		return model.Bar{}, unavailable("yahoo", ticker, err)
	}
	bar, ok := latest(bars)
	if !ok {
		return model.Bar{}, unavailable("yahoo", ticker, errors.New("no bars for period "+period))
	}
	return bar, nil
}

func (f *YahooFetcher) fetchChart(ctx context.Context, ticker, period string) ([]model.Bar, error) {
	if !ValidPeriod(period) {
		return nil, fmt.Errorf("unsupported period %q", period)
	}
	resp, err := f.Client.R().
		SetContext(ctx).
		SetPathParam("ticker", ticker).
		SetQueryParams(map[string]string{"interval": "1d", "range": period}).
		Get("/v8/finance/chart/{ticker}")
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}

	var chart yahooChart
	if err := json.Unmarshal(resp.Body(), &chart); err != nil {
		if resp.StatusCode() != http.StatusOK {
			return nil, fmt.Errorf("status %d", resp.StatusCode())
		}
		return nil, fmt.Errorf("decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("api error: %s", chart.Chart.Error.Description)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode())
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o, h, l, c := at(quote.Open, i), at(quote.High, i), at(quote.Low, i), at(quote.Close, i)
		if math.IsNaN(o) && math.IsNaN(h) && math.IsNaN(l) && math.IsNaN(c) {
			continue // null bar (holiday or halted session)
		}
		bars = append(bars, model.NewBarFromFloat(time.Unix(ts, 0).UTC(), o, h, l, c))
	}
	return bars, nil
}
