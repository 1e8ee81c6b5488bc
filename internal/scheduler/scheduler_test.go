package scheduler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"NiftyScreener/internal/collector"
	"NiftyScreener/internal/model"
	"NiftyScreener/internal/notifier"
	"NiftyScreener/internal/scanner"
	"NiftyScreener/internal/strategy"
	"NiftyScreener/internal/universe"
)

type fakeSender struct{ msgs []string }

func (f *fakeSender) SendWithRetry(_ context.Context, text string, _ int) error {
	f.msgs = append(f.msgs, text)
	return nil
}

type fakeMetrics struct{ reports int }

func (f *fakeMetrics) ObserveReport(*model.Report) { f.reports++ }

func newTestScheduler(t *testing.T, m *collector.MockFetcher, opts Options) *Scheduler {
	t.Helper()
	u, err := universe.New("NSE", []string{"AAA", "BBB", "CCC"})
	if err != nil {
		t.Fatal(err)
	}
	sc := scanner.NewScanner(u, m, strategy.NewClassifier(strategy.DefaultRules()), nil)
	return NewScheduler(context.Background(), sc, "1d", opts)
}

func TestRunNow_SendsAndExports(t *testing.T) {
	m := collector.NewMockFetcher()
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	m.Bars["AAA"] = model.NewBarFromFloat(day, 100, 100, 95, 98)
	m.Bars["BBB"] = model.NewBarFromFloat(day, 97, 100, 95, 98)
	m.Errors["CCC"] = errors.New("timeout")

	sender := &fakeSender{}
	met := &fakeMetrics{}
	path := filepath.Join(t.TempDir(), "recs.csv")
	s := newTestScheduler(t, m, Options{Sender: sender, Metrics: met, ExportPath: path})

	report, err := s.RunNow(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Actionable()) != 1 {
		t.Errorf("expected 1 actionable, got %d", len(report.Actionable()))
	}
	if len(sender.msgs) != 1 || !strings.Contains(sender.msgs[0], "NSE:AAA") {
		t.Errorf("unexpected messages %v", sender.msgs)
	}
	if met.reports != 1 {
		t.Errorf("metrics observed %d reports", met.reports)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("export not written: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(string(data)), "\n"); len(lines) != 2 {
		t.Errorf("expected header + 1 actionable row, got %v", lines)
	}
}

func TestRunNow_TotalFailure(t *testing.T) {
	m := collector.NewMockFetcher()
	for _, s := range []string{"AAA", "BBB", "CCC"} {
		m.Errors[s] = errors.New("down")
	}
	sender := &fakeSender{}
	path := filepath.Join(t.TempDir(), "recs.csv")
	s := newTestScheduler(t, m, Options{Sender: sender, ExportPath: path})

	if _, err := s.RunNow(context.Background()); !errors.Is(err, scanner.ErrEmptyUniverseResult) {
		t.Fatalf("expected ErrEmptyUniverseResult, got %v", err)
	}
	if len(sender.msgs) != 1 || !strings.Contains(sender.msgs[0], notifier.AllFailedMsg) {
		t.Errorf("unexpected messages %v", sender.msgs)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("export should be skipped on total failure")
	}
}

func TestHandleCommand(t *testing.T) {
	s := newTestScheduler(t, collector.NewMockFetcher(), Options{})
	ctx := context.Background()

	if reply := s.HandleCommand(ctx, "/report"); !strings.Contains(reply, "No scan has run yet") {
		t.Errorf("report before scan: %q", reply)
	}
	if reply := s.HandleCommand(ctx, "/scan"); reply != "" {
		t.Errorf("scan reply: %q", reply)
	}
	if reply := s.HandleCommand(ctx, "/report@nifty_bot"); !strings.Contains(reply, "NIFTY50 Screener") {
		t.Errorf("report after scan: %q", reply)
	}
	if reply := s.HandleCommand(ctx, "hello"); reply != notifier.HelpText() {
		t.Errorf("help: %q", reply)
	}
}

func TestRegister(t *testing.T) {
	s := newTestScheduler(t, collector.NewMockFetcher(), Options{})
	if err := s.Register("not a cron"); err == nil {
		t.Error("expected error for invalid spec")
	}
	if err := s.Register("0 45 15 * * 1-5"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if n := len(s.Cron.Entries()); n != 1 {
		t.Errorf("expected 1 entry, got %d", n)
	}
}
