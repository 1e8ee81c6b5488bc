package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"NiftyScreener/internal/chart"
	"NiftyScreener/internal/collector"
	"NiftyScreener/internal/config"
	"NiftyScreener/internal/display"
	"NiftyScreener/internal/export"
	"NiftyScreener/internal/metrics"
	"NiftyScreener/internal/model"
	"NiftyScreener/internal/notifier"
	"NiftyScreener/internal/scanner"
	"NiftyScreener/internal/scheduler"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

type rootOptions struct {
	configPath string
	logLevel   string
	provider   string
}

func (o *rootOptions) load() (*app, error) {
	path := o.configPath
	if path == "" {
		path = config.Path()
	}
	return newApp(path, o.logLevel, o.provider)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "screener",
		Short: "NIFTY50 open-high / open-low screener",
		Long: `screener classifies each instrument of the universe by its latest daily bar:
open equal to high is a Sell, open equal to low is a Buy, anything else is Neutral.
Actionable signals carry a stop-loss and a target level.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newScanCmd(opts))
	rootCmd.AddCommand(newWatchCmd(opts))
	rootCmd.AddCommand(newChartCmd(opts))
	rootCmd.AddCommand(newSymbolsCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "configuration file path (default $CONFIG_PATH or "+config.DefaultPath+")")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&opts.provider, "provider", "", "override data provider (yahoo, financego, rest, mock)")

	return rootCmd
}

func newScanCmd(opts *rootOptions) *cobra.Command {
	var (
		period     string
		csvPath    string
		exportCSV  bool
		all        bool
		chartsPath string
		quiet      bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the universe once and print the report",
		Example: `  screener scan
  screener scan --period 5d --export
  screener scan --csv out.csv --all --charts charts.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load()
			if err != nil {
				return err
			}
			defer a.close()

			if period == "" {
				period = a.cfg.DataSource.Period
			}
			if !collector.ValidPeriod(period) {
				return fmt.Errorf("unsupported period %q, want one of %s", period, strings.Join(collector.Periods(), ", "))
			}
			if csvPath == "" && exportCSV {
				csvPath = a.cfg.ExportPath()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			observers := scanner.MultiObserver{scanner.LogObserver{}}
			if !quiet {
				observers = append(observers, &display.Progress{W: cmd.ErrOrStderr(), Inline: isTerminal(os.Stderr)})
			}

			report, err := a.scanner(observers).Run(ctx, period)
			if report != nil {
				display.Report(cmd.OutOrStdout(), report)
			}
			if err != nil {
				return err
			}

			if csvPath != "" {
				rows := report.Actionable()
				if all {
					rows = report.Signals
				}
				if err := export.SaveCSV(csvPath, rows); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Saved %d rows to %s\n", len(rows), csvPath)
			}
			if chartsPath != "" {
				if err := writeCharts(cmd.OutOrStdout(), chartsPath, report.Actionable()); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&period, "period", "", "history period to fetch (1d, 5d, 1mo, 3mo, 6mo, 1y)")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write recommendations to this CSV file")
	cmd.Flags().BoolVar(&exportCSV, "export", false, "write recommendations to the configured export path")
	cmd.Flags().BoolVar(&all, "all", false, "export every analyzed instrument, not only Buy/Sell")
	cmd.Flags().StringVar(&chartsPath, "charts", "", "write chart annotations for actionable signals as JSON (- for stdout)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print progress")

	return cmd
}

func writeCharts(stdout io.Writer, path string, signals []*model.Signal) error {
	docs := make([]chart.Document, 0, len(signals))
	for _, s := range signals {
		docs = append(docs, chart.NewDocument(s))
	}
	if path == "-" {
		return chart.WriteJSON(stdout, docs)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()
	return chart.WriteJSON(f, docs)
}

func newWatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run scheduled scans, deliver reports to Telegram and serve metrics",
		Long: `watch registers the configured cron schedule and keeps running until interrupted.
When a Telegram bot is configured, reports are delivered to the chat and the bot
answers /scan, /report and /help. Set RUN_ON_START=true to scan immediately.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load()
			if err != nil {
				return err
			}
			defer a.close()
			return runWatch(cmd.Context(), a)
		},
	}
}

func runWatch(parent context.Context, a *app) error {
	zap.L().Info("screener starting", zap.String("version", version), zap.String("source", a.fetcher.Name()))

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	rec := metrics.New()
	sc := a.scanner(scanner.MultiObserver{scanner.LogObserver{}, rec})

	loc, err := time.LoadLocation(a.cfg.Schedule.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}
	schedOpts := scheduler.Options{
		Metrics:    rec,
		ExportPath: a.cfg.ExportPath(),
		Location:   loc,
	}

	var tn *notifier.TelegramNotifier
	if a.cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy)
		schedOpts.Sender = tn
	} else {
		zap.L().Warn("telegram not configured, reports are logged only")
	}

	sched := scheduler.NewScheduler(ctx, sc, a.cfg.DataSource.Period, schedOpts)
	if err := sched.Register(a.cfg.Schedule.ScanCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		zap.L().Info("telegram polling started")
	}

	if addr := a.cfg.Metrics.Addr; addr != "" {
		go func() {
			if err := rec.Serve(ctx, addr); err != nil {
				zap.L().Error("metrics endpoint stopped", zap.Error(err))
			}
		}()
	}

	if os.Getenv("RUN_ON_START") == "true" {
		zap.L().Info("RUN_ON_START enabled, scanning now")
		go func() {
			if _, err := sched.RunNow(ctx); err != nil && !errors.Is(err, scanner.ErrEmptyUniverseResult) {
				zap.L().Warn("startup scan failed", zap.Error(err))
			}
		}()
	}

	zap.L().Info("screener is running, press Ctrl+C to stop", zap.String("cron", a.cfg.Schedule.ScanCron))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-ctx.Done():
	}

	zap.L().Info("shutdown signal received, stopping")
	cancel()
	return nil
}

func newChartCmd(opts *rootOptions) *cobra.Command {
	var period string

	cmd := &cobra.Command{
		Use:   "chart SYMBOL",
		Short: "Classify one symbol and print its chart annotations as JSON",
		Example: `  screener chart RELIANCE
  screener chart NSE:TCS --period 5d`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load()
			if err != nil {
				return err
			}
			defer a.close()

			if period == "" {
				period = a.cfg.DataSource.Period
			}
			inst, ok := a.universe.Lookup(args[0])
			if !ok {
				sym := strings.ToUpper(strings.TrimSpace(args[0]))
				if i := strings.IndexByte(sym, ':'); i >= 0 {
					sym = sym[i+1:]
				}
				inst = model.Instrument{Symbol: sym, DisplayPrefix: a.cfg.Universe.Prefix}
			}

			bar, err := a.fetcher.FetchBar(cmd.Context(), inst.Symbol, period)
			if err != nil {
				return err
			}
			sig, err := a.classifier.Classify(inst, bar)
			if err != nil {
				return err
			}
			return chart.WriteJSON(cmd.OutOrStdout(), []chart.Document{chart.NewDocument(sig)})
		},
	}

	cmd.Flags().StringVar(&period, "period", "", "history period to fetch")
	return cmd
}

func newSymbolsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "symbols",
		Short: "List the configured universe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load()
			if err != nil {
				return err
			}
			defer a.close()

			for _, inst := range a.universe.Instruments() {
				fmt.Fprintln(cmd.OutOrStdout(), inst.DisplaySymbol())
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "screener %s\n", version)
		},
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
