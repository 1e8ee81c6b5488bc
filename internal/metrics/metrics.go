package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"NiftyScreener/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Recorder exposes scan progress and outcomes as Prometheus metrics.
type Recorder struct {
	registry    *prometheus.Registry
	processed   prometheus.Counter
	scans       *prometheus.CounterVec
	signals     *prometheus.GaugeVec
	failures    prometheus.Gauge
	duration    prometheus.Histogram
	lastSuccess prometheus.Gauge
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		processed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "screener_instruments_processed_total",
			Help: "Instruments processed across all scans",
		}),
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "screener_scans_total",
			Help: "Finished scans by outcome",
		}, []string{"outcome"}),
		signals: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "screener_last_scan_signals",
			Help: "Signals in the last scan by recommendation",
		}, []string{"recommendation"}),
		failures: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "screener_last_scan_failures",
			Help: "Instruments that failed in the last scan",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "screener_scan_duration_seconds",
			Help:    "Duration of scans in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "screener_last_success_timestamp_seconds",
			Help: "Unix time of the last scan that produced signals",
		}),
	}
	r.registry.MustRegister(r.processed, r.scans, r.signals, r.failures, r.duration, r.lastSuccess)
	return r
}

// OnProgress implements scanner.Observer.
func (r *Recorder) OnProgress(_, _ int, _ string) {
	r.processed.Inc()
}

// ObserveReport records the outcome of a finished scan.
func (r *Recorder) ObserveReport(report *model.Report) {
	if report == nil {
		return
	}
	counts := map[model.Recommendation]int{model.Buy: 0, model.Sell: 0, model.Neutral: 0}
	for _, s := range report.Signals {
		counts[s.Recommendation]++
	}
	for rec, n := range counts {
		r.signals.WithLabelValues(string(rec)).Set(float64(n))
	}
	r.failures.Set(float64(len(report.Failures)))
	r.duration.Observe(report.Duration().Seconds())

	outcome := "completed"
	if len(report.Signals) == 0 {
		outcome = "empty"
	} else {
		r.lastSuccess.Set(float64(report.FinishedAt.Unix()))
	}
	r.scans.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (r *Recorder) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	zap.L().Info("metrics endpoint listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
