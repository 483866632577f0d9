package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	scansTotal      prometheus.Counter
	scanDuration    prometheus.Histogram
	symbolsAnalyzed *prometheus.CounterVec
	symbolsSkipped  *prometheus.CounterVec
	signalsTotal    *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	barsIngested    *prometheus.CounterVec
	lastScore       *prometheus.GaugeVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		scansTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tsescan_scans_total",
			Help: "Total number of universe scans executed",
		}),
		scanDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tsescan_scan_duration_seconds",
			Help:    "Duration of a full universe scan",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		symbolsAnalyzed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tsescan_symbols_analyzed_total",
			Help: "Symbols that completed the pipeline, by regime",
		}, []string{"regime"}),
		symbolsSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tsescan_symbols_skipped_total",
			Help: "Symbols excluded from ranking, by reason",
		}, []string{"reason"}),
		signalsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tsescan_signals_total",
			Help: "Signals generated, by direction",
		}, []string{"direction"}),
		errorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tsescan_errors_total",
			Help: "Errors encountered, by kind",
		}, []string{"kind"}),
		barsIngested: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tsescan_bars_ingested_total",
			Help: "Daily bars ingested into storage, by source",
		}, []string{"source"}),
		lastScore: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tsescan_last_score",
			Help: "Last computed rank score per symbol and direction",
		}, []string{"symbol", "direction"}),
	}
}

// RecordScan records a completed scan and its duration in seconds.
func (r *Recorder) RecordScan(seconds float64) {
	r.scansTotal.Inc()
	r.scanDuration.Observe(seconds)
}

// RecordSymbolAnalyzed counts a symbol that completed the pipeline.
func (r *Recorder) RecordSymbolAnalyzed(regime string) {
	r.symbolsAnalyzed.WithLabelValues(regime).Inc()
}

// RecordSymbolSkipped counts a symbol excluded from ranking.
func (r *Recorder) RecordSymbolSkipped(reason string) {
	r.symbolsSkipped.WithLabelValues(reason).Inc()
}

// RecordSignal counts a generated signal by direction.
func (r *Recorder) RecordSignal(direction string) {
	r.signalsTotal.WithLabelValues(direction).Inc()
}

// RecordError counts an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordBarsIngested counts bars written to storage.
func (r *Recorder) RecordBarsIngested(source string, n int) {
	r.barsIngested.WithLabelValues(source).Add(float64(n))
}

// RecordLastScore records the latest rank score for a symbol.
func (r *Recorder) RecordLastScore(symbol, direction string, score float64) {
	r.lastScore.WithLabelValues(symbol, direction).Set(score)
}
