package collector

import (
	"context"
	"errors"
	"time"

	"NiftyScreener/internal/model"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
)

// FinanceGoFetcher implements Fetcher on top of the finance-go chart client.
type FinanceGoFetcher struct {
	Suffix string
	now    func() time.Time
}

// NewFinanceGoFetcher creates a fetcher that appends suffix to every symbol.
func NewFinanceGoFetcher(suffix string) *FinanceGoFetcher {
	return &FinanceGoFetcher{Suffix: suffix, now: time.Now}
}

func (f *FinanceGoFetcher) Name() string { return "financego" }

func (f *FinanceGoFetcher) FetchBar(ctx context.Context, symbol, period string) (model.Bar, error) {
	ticker := (&YahooFetcher{Suffix: f.Suffix}).Ticker(symbol)
	if err := ctx.Err(); err != nil {
		return model.Bar{}, unavailable("financego", ticker, err)
	}
	start, end, err := window(period, f.now())
	if err != nil {
		return model.Bar{}, unavailable("financego", ticker, err)
	}

	iter := chart.Get(&chart.Params{
		Symbol:   ticker,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	})
	var bars []model.Bar
	for iter.Next() {
		b := iter.Bar()
		bars = append(bars, model.Bar{
			Time:  time.Unix(int64(b.Timestamp), 0).UTC(),
			Open:  b.Open,
			High:  b.High,
			Low:   b.Low,
			Close: b.Close,
		})
	}
	if err := iter.Err(); err != nil {
		return model.Bar{}, unavailable("financego", ticker, err)
	}
	bar, ok := latest(bars)
	if !ok {
		return model.Bar{}, unavailable("financego", ticker, errors.New("no bars for period "+period))
	}
	return bar, nil
}
