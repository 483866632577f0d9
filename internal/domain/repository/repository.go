package repository

import (
	"context"

	"tsescan/internal/domain/models"
)

// BarSource loads a daily bar series for a symbol, ascending by date.
type BarSource interface {
	// Name identifies the source in SourcedSeries and logs.
	Name() string
	FetchBars(ctx context.Context, symbol string, days int) ([]models.Bar, error)
}

// SeriesLoader resolves a symbol's series through whatever sources are
// configured and reports which one served it.
type SeriesLoader interface {
	LoadSeries(ctx context.Context, symbol string, days int) (*models.SourcedSeries, error)
}

// BarStorage persists daily bars.
type BarStorage interface {
	StoreBars(ctx context.Context, symbol string, bars []models.Bar) error
}

// SignalPublisher emits ranked scan entries to downstream consumers.
type SignalPublisher interface {
	PublishScan(ctx context.Context, result *models.ScanResult) error
}

// Metrics records domain-level measurements. Implementations must be safe
// for concurrent use.
type Metrics interface {
	RecordScan(seconds float64)
	RecordSymbolAnalyzed(regime string)
	RecordSymbolSkipped(reason string)
	RecordSignal(direction string)
	RecordError(kind string)
	RecordBarsIngested(source string, n int)
	RecordLastScore(symbol, direction string, score float64)
}
