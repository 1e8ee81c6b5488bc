package collector

import (
	"context"
	"errors"
	"hash/fnv"
	"time"

	"NiftyScreener/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Symbols without an explicit bar or error get a generated bar.
type MockFetcher struct {
	Bars   map[string]model.Bar
	Errors map[string]error
	Calls  []string
	Now    func() time.Time
}

// NewMockFetcher creates an empty MockFetcher.
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		Bars:   make(map[string]model.Bar),
		Errors: make(map[string]error),
	}
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBar(ctx context.Context, symbol, period string) (model.Bar, error) {
	m.Calls = append(m.Calls, symbol)
	if err := ctx.Err(); err != nil {
		return model.Bar{}, unavailable("mock", symbol, err)
	}
	if err, ok := m.Errors[symbol]; ok {
		if errors.Is(err, ErrDataUnavailable) {
			return model.Bar{}, err
		}
		return model.Bar{}, unavailable("mock", symbol, err)
	}
	if !ValidPeriod(period) {
		return model.Bar{}, unavailable("mock", symbol, errors.New("unsupported period "+period))
	}
	if bar, ok := m.Bars[symbol]; ok {
		return bar, nil
	}
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	return generateMockBar(symbol, now()), nil
}

// generateMockBar derives a stable bar from the symbol name. Roughly a
// third of symbols open at the high, a third at the low.
func generateMockBar(symbol string, now time.Time) model.Bar {
	h := fnv.New32a()
	h.Write([]byte(symbol))
	seed := h.Sum32()

	base := 100 + float64(seed%4900)
	high := base * 1.015
	low := base * 0.985
	closeP := base * (0.99 + float64(seed%20)/1000)
	open := base

	switch seed % 3 {
	case 0:
		open = high
	case 1:
		open = low
	}
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return model.NewBarFromFloat(day, open, high, low, closeP)
}
