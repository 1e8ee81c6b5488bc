package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"NiftyScreener/internal/chart"
	"NiftyScreener/internal/collector"
	"NiftyScreener/internal/model"
	"NiftyScreener/internal/strategy"
	"NiftyScreener/internal/universe"

	"go.uber.org/zap"
)

var (
	// ErrEmptyUniverseResult means every instrument failed. The report is
	// still returned so the failures can be shown.
	ErrEmptyUniverseResult = errors.New("no instrument could be analyzed")
	// ErrScanInProgress is returned when Run is called during another run.
	ErrScanInProgress = errors.New("scan already in progress")
)

// State is the lifecycle of a scan.
type State int

const (
	Idle State = iota
	Running
	Completed
	CompletedEmpty
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case CompletedEmpty:
		return "completed_empty"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Scanner runs the universe through fetch and classification, one
// instrument at a time, and collects the results into a Report.
type Scanner struct {
	Universe   universe.Universe
	Fetcher    collector.Fetcher
	Classifier *strategy.Classifier
	Observer   Observer

	mu    sync.Mutex
	state State
	last  *model.Report
	now   func() time.Time
}

// NewScanner creates a new Scanner. obs may be nil.
func NewScanner(u universe.Universe, f collector.Fetcher, c *strategy.Classifier, obs Observer) *Scanner {
	return &Scanner{
		Universe:   u,
		Fetcher:    f,
		Classifier: c,
		Observer:   obs,
		now:        time.Now,
	}
}

// State returns the state of the most recent run.
func (s *Scanner) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastReport returns the report of the most recent finished run, or nil.
func (s *Scanner) LastReport() *model.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Run scans the universe with the given lookback period. Per-instrument
// failures are recorded in the report and never abort the run. If no
// instrument produced a signal the report is returned together with
// ErrEmptyUniverseResult.
//
// ctx is checked between instruments; once it is done the remaining
// instruments are recorded as failures.
func (s *Scanner) Run(ctx context.Context, period string) (*model.Report, error) {
	s.mu.Lock()
	if s.state == Running {
		s.mu.Unlock()
		return nil, ErrScanInProgress
	}
	s.state = Running
	s.mu.Unlock()

	total := s.Universe.Len()
	report := &model.Report{
		Period:    period,
		Signals:   make([]*model.Signal, 0, total),
		StartedAt: s.now(),
	}
	zap.L().Info("scan started",
		zap.String("source", s.Fetcher.Name()),
		zap.String("period", period),
		zap.Int("instruments", total))

	for i := 0; i < total; i++ {
		inst := s.Universe.At(i)
		sig, err := s.analyze(ctx, inst, period)
		if err != nil {
			zap.L().Warn("instrument failed",
				zap.String("symbol", inst.Symbol),
				zap.Error(err))
			report.Failures = append(report.Failures, model.Failure{
				Symbol: inst.DisplaySymbol(),
				Reason: err.Error(),
				Err:    err,
			})
		} else {
			report.Signals = append(report.Signals, sig)
		}
		if s.Observer != nil {
			s.Observer.OnProgress(i+1, total, inst.Symbol)
		}
	}
	report.FinishedAt = s.now()

	final := Completed
	if len(report.Signals) == 0 {
		final = CompletedEmpty
	}
	s.mu.Lock()
	s.state = final
	s.last = report
	s.mu.Unlock()

	zap.L().Info("scan finished",
		zap.Int("signals", len(report.Signals)),
		zap.Int("actionable", len(report.Actionable())),
		zap.Int("failures", len(report.Failures)),
		zap.Duration("elapsed", report.Duration()))

	if final == CompletedEmpty {
		return report, ErrEmptyUniverseResult
	}
	return report, nil
}

func (s *Scanner) analyze(ctx context.Context, inst model.Instrument, period string) (*model.Signal, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan cancelled: %w", err)
	}
	bar, err := s.Fetcher.FetchBar(ctx, inst.Symbol, period)
	if err != nil {
		return nil, err
	}
	sig, err := s.Classifier.Classify(inst, bar)
	if err != nil {
		return nil, fmt.Errorf("classify %s: %w", inst.Symbol, err)
	}
	return sig, nil
}

// Annotations builds chart lines for a signal on demand.
func Annotations(sig *model.Signal) model.AnnotationSet {
	return chart.Build(sig)
}
