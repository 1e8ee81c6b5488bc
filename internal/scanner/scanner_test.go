package scanner

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"NiftyScreener/internal/collector"
	"NiftyScreener/internal/model"
	"NiftyScreener/internal/strategy"
	"NiftyScreener/internal/universe"
)

func mustUniverse(t *testing.T, symbols ...string) universe.Universe {
	t.Helper()
	u, err := universe.New("NSE", symbols)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func newTestScanner(t *testing.T, m *collector.MockFetcher, obs Observer, symbols ...string) *Scanner {
	t.Helper()
	return NewScanner(mustUniverse(t, symbols...), m, strategy.NewClassifier(strategy.DefaultRules()), obs)
}

func bar(open, high, low, close float64) model.Bar {
	return model.NewBarFromFloat(time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), open, high, low, close)
}

func TestRun_PartialFailure(t *testing.T) {
	m := collector.NewMockFetcher()
	m.Bars["AAA"] = bar(100, 100, 95, 98)
	m.Bars["CCC"] = bar(95, 100, 95, 98)
	m.Errors["BBB"] = errors.New("timeout")

	s := newTestScanner(t, m, nil, "AAA", "BBB", "CCC")
	report, err := s.Run(context.Background(), "1d")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Signals) != 2 || len(report.Failures) != 1 || report.Total() != 3 {
		t.Fatalf("expected 2 signals + 1 failure, got %d + %d", len(report.Signals), len(report.Failures))
	}
	if report.Signals[0].Instrument.Symbol != "AAA" || report.Signals[1].Instrument.Symbol != "CCC" {
		t.Errorf("signals out of order: %s, %s", report.Signals[0].Symbol(), report.Signals[1].Symbol())
	}
	f := report.Failures[0]
	if f.Symbol != "NSE:BBB" || !errors.Is(f.Err, collector.ErrDataUnavailable) || f.Reason == "" {
		t.Errorf("unexpected failure %+v", f)
	}
	if s.State() != Completed {
		t.Errorf("state: got %s", s.State())
	}
	if s.LastReport() != report {
		t.Error("last report not retained")
	}
}

func TestRun_TotalFailure(t *testing.T) {
	m := collector.NewMockFetcher()
	for _, sym := range []string{"AAA", "BBB", "CCC"} {
		m.Errors[sym] = errors.New("no data")
	}
	s := newTestScanner(t, m, nil, "AAA", "BBB", "CCC")
	report, err := s.Run(context.Background(), "1d")
	if !errors.Is(err, ErrEmptyUniverseResult) {
		t.Fatalf("expected ErrEmptyUniverseResult, got %v", err)
	}
	if report == nil || len(report.Failures) != 3 {
		t.Fatalf("expected report with 3 failures, got %+v", report)
	}
	if s.State() != CompletedEmpty {
		t.Errorf("state: got %s", s.State())
	}
}

func TestRun_NoActionableIsNotAnError(t *testing.T) {
	m := collector.NewMockFetcher()
	m.Bars["AAA"] = bar(97, 100, 95, 98)
	m.Bars["BBB"] = bar(97, 100, 95, 99)
	s := newTestScanner(t, m, nil, "AAA", "BBB")
	report, err := s.Run(context.Background(), "1d")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Actionable()) != 0 || len(report.Neutral()) != 2 {
		t.Errorf("expected 0 actionable / 2 neutral, got %d / %d", len(report.Actionable()), len(report.Neutral()))
	}
}

func TestRun_AnalysisErrorIsIsolated(t *testing.T) {
	m := collector.NewMockFetcher()
	m.Bars["AAA"] = bar(100, 101, 99, math.NaN())
	m.Bars["BBB"] = bar(95, 100, 95, 98)
	s := newTestScanner(t, m, nil, "AAA", "BBB")
	report, err := s.Run(context.Background(), "1d")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Failures) != 1 || !errors.Is(report.Failures[0].Err, strategy.ErrAnalysis) {
		t.Fatalf("expected one analysis failure, got %+v", report.Failures)
	}
	if len(report.Signals) != 1 || report.Signals[0].Recommendation != model.Buy {
		t.Errorf("expected BBB Buy, got %+v", report.Signals)
	}
}

func TestRun_ObserverSeesEveryInstrument(t *testing.T) {
	m := collector.NewMockFetcher()
	m.Errors["BBB"] = errors.New("down")
	var seen []string
	obs := ObserverFunc(func(index, total int, symbol string) {
		if total != 3 {
			t.Errorf("total: got %d", total)
		}
		seen = append(seen, symbol)
		if len(seen) != index {
			t.Errorf("index %d after %d notifications", index, len(seen))
		}
	})
	s := newTestScanner(t, m, MultiObserver{obs, nil, LogObserver{}}, "AAA", "BBB", "CCC")
	if _, err := s.Run(context.Background(), "1d"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.Join(seen, ",") != "AAA,BBB,CCC" {
		t.Errorf("observer saw %v", seen)
	}
	if strings.Join(m.Calls, ",") != "AAA,BBB,CCC" {
		t.Errorf("fetch order %v", m.Calls)
	}
}

func TestRun_Cancelled(t *testing.T) {
	m := collector.NewMockFetcher()
	ctx, cancel := context.WithCancel(context.Background())
	obs := ObserverFunc(func(index, total int, symbol string) {
		if index == 1 {
			cancel()
		}
	})
	s := newTestScanner(t, m, obs, "AAA", "BBB", "CCC")
	report, err := s.Run(ctx, "1d")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Signals) != 1 || len(report.Failures) != 2 {
		t.Fatalf("expected 1 signal + 2 failures, got %d + %d", len(report.Signals), len(report.Failures))
	}
	if !errors.Is(report.Failures[0].Err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", report.Failures[0].Err)
	}
	if len(m.Calls) != 1 {
		t.Errorf("fetcher called after cancellation: %v", m.Calls)
	}
}

func TestRun_RejectsOverlap(t *testing.T) {
	m := collector.NewMockFetcher()
	var s *Scanner
	var inner error
	obs := ObserverFunc(func(index, total int, symbol string) {
		if index == 1 {
			_, inner = s.Run(context.Background(), "1d")
		}
	})
	s = newTestScanner(t, m, obs, "AAA", "BBB")
	if _, err := s.Run(context.Background(), "1d"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !errors.Is(inner, ErrScanInProgress) {
		t.Errorf("expected ErrScanInProgress, got %v", inner)
	}
}

func TestAnnotations(t *testing.T) {
	sig, err := strategy.NewClassifier(strategy.DefaultRules()).Classify(model.Instrument{Symbol: "X"}, bar(97, 100, 95, 98))
	if err != nil {
		t.Fatal(err)
	}
	if set := Annotations(sig); len(set) != 1 {
		t.Errorf("neutral signal: expected 1 line, got %d", len(set))
	}
}

func TestStateString(t *testing.T) {
	if Idle.String() != "idle" || CompletedEmpty.String() != "completed_empty" {
		t.Error("unexpected state names")
	}
}
