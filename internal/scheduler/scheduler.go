package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"NiftyScreener/internal/export"
	"NiftyScreener/internal/model"
	"NiftyScreener/internal/notifier"
	"NiftyScreener/internal/scanner"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sender delivers formatted reports.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// ReportObserver is told about every finished report.
type ReportObserver interface {
	ObserveReport(r *model.Report)
}

// Options holds the optional collaborators of a Scheduler.
type Options struct {
	Sender     Sender         // nil disables delivery
	Metrics    ReportObserver // nil disables metrics
	ExportPath string         // empty disables CSV export
	Location   *time.Location
}

// Scheduler runs scans on a cron schedule and on demand.
type Scheduler struct {
	Cron    *cron.Cron
	Scanner *scanner.Scanner
	Period  string
	Ctx     context.Context
	opts    Options
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, sc *scanner.Scanner, period string, opts Options) *Scheduler {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		Cron:    cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		Scanner: sc,
		Period:  period,
		Ctx:     ctx,
		opts:    opts,
	}
}

// Register adds the scan task under the given cron spec.
func (s *Scheduler) Register(scanCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, func() { s.scanTask(s.Ctx) }); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	zap.L().Info("scheduler started", zap.Int("entries", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for a running scan to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	zap.L().Info("scheduler stopped")
}

// RunNow executes the scan task immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow(ctx context.Context) (*model.Report, error) {
	return s.scanTask(ctx)
}

func (s *Scheduler) scanTask(ctx context.Context) (*model.Report, error) {
	zap.L().Info("running scan task", zap.String("period", s.Period))
	report, err := s.Scanner.Run(ctx, s.Period)
	if errors.Is(err, scanner.ErrScanInProgress) {
		zap.L().Warn("scan skipped, another scan is running")
		return nil, err
	}
	if s.opts.Metrics != nil {
		s.opts.Metrics.ObserveReport(report)
	}
	if err != nil {
		zap.L().Error("scan task", zap.Error(err))
	}

	if err == nil && s.opts.ExportPath != "" {
		if exErr := export.SaveCSV(s.opts.ExportPath, report.Actionable()); exErr != nil {
			zap.L().Error("export csv", zap.Error(exErr))
		} else {
			zap.L().Info("exported recommendations", zap.String("path", s.opts.ExportPath))
		}
	}

	s.trySend(ctx, notifier.FormatReport(report))
	return report, err
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	if fields := strings.Fields(command); len(fields) > 0 {
		command, _, _ = strings.Cut(strings.ToLower(fields[0]), "@")
	}
	switch command {
	case "/scan", "scan":
		if _, err := s.scanTask(ctx); errors.Is(err, scanner.ErrScanInProgress) {
			return "A scan is already running, please wait."
		}
		return ""
	case "/report", "report":
		if r := s.Scanner.LastReport(); r != nil {
			return notifier.FormatReport(r)
		}
		return "No scan has run yet. Send /scan to start one."
	default:
		return notifier.HelpText()
	}
}

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if s.opts.Sender == nil {
		return
	}
	if err := s.opts.Sender.SendWithRetry(ctx, text, 3); err != nil {
		zap.L().Error("send notification", zap.Error(err))
	}
}
