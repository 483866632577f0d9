package repository

import (
	"context"
	"errors"
	"fmt"

	"tsescan/internal/domain/models"
	domrepo "tsescan/internal/domain/repository"
	"tsescan/pkg/logger"
)

// FallbackSource tries an ordered list of bar sources and returns the
// first series it gets, tagged with the source that served it. A source
// failing is expected operation (remote down, table empty), so failures
// are logged at debug and only surfaced when every source refuses.
type FallbackSource struct {
	sources []domrepo.BarSource
	log     *logger.Logger
}

func NewFallbackSource(log *logger.Logger, sources ...domrepo.BarSource) *FallbackSource {
	return &FallbackSource{sources: sources, log: log}
}

// LoadSeries implements repository.SeriesLoader.
func (f *FallbackSource) LoadSeries(ctx context.Context, symbol string, days int) (*models.SourcedSeries, error) {
	if len(f.sources) == 0 {
		return nil, fmt.Errorf("%s: no sources configured", symbol)
	}

	var errs []error
	for _, src := range f.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bars, err := src.FetchBars(ctx, symbol, days)
		if err != nil {
			f.log.Debug("source failed",
				logger.String("source", src.Name()),
				logger.String("symbol", symbol),
				logger.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}
		if len(bars) == 0 {
			errs = append(errs, fmt.Errorf("%s: empty series", src.Name()))
			continue
		}
		return &models.SourcedSeries{Symbol: symbol, Source: src.Name(), Bars: bars}, nil
	}
	return nil, fmt.Errorf("%s: all sources failed: %w", symbol, errors.Join(errs...))
}
