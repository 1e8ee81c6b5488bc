package collector

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"NiftyScreener/internal/model"
)

// ErrDataUnavailable is returned when no bar can be obtained for a symbol.
var ErrDataUnavailable = errors.New("data unavailable")

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchBar returns the most recent bar within the lookback period.
	// Errors wrap ErrDataUnavailable.
	FetchBar(ctx context.Context, symbol, period string) (model.Bar, error)
	Name() string
}

// periods maps the supported lookback periods to calendar days.
var periods = map[string]int{
	"1d":  1,
	"5d":  5,
	"1mo": 31,
	"3mo": 92,
	"6mo": 183,
	"1y":  366,
}

// minLookbackDays covers a weekend plus a long exchange holiday.
const minLookbackDays = 10

// ValidPeriod reports whether period is a supported lookback period.
func ValidPeriod(period string) bool {
	_, ok := periods[period]
	return ok
}

// Periods returns the supported lookback periods, shortest first.
func Periods() []string {
	out := make([]string, 0, len(periods))
	for p := range periods {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return periods[out[i]] < periods[out[j]] })
	return out
}

// window returns the [start, end] range covering period, ending at now.
func window(period string, now time.Time) (time.Time, time.Time, error) {
	days, ok := periods[period]
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("unsupported period %q", period)
	}
	// Daily bars are stamped at the session open. Short periods reach back
	// at least minLookbackDays so weekends and holidays still leave the
	// last session inside the window; latest picks the newest bar.
	return now.AddDate(0, 0, -(max(days, minLookbackDays) + 1)), now, nil
}

func unavailable(source, symbol string, err error) error {
	return fmt.Errorf("%w: %s %s: %v", ErrDataUnavailable, source, symbol, err)
}

// latest returns the newest bar.
func latest(bars []model.Bar) (model.Bar, bool) {
	if len(bars) == 0 {
		return model.Bar{}, false
	}
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars[len(bars)-1], true
}
