package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"tsescan/internal/domain/models"
	"tsescan/internal/domain/repository"
	"tsescan/pkg/cache"
	"tsescan/pkg/config"
	"tsescan/pkg/logger"
)

const latestScanKey = "scan:latest"

// ErrNoScanYet is returned by Latest before any scan has completed.
var ErrNoScanYet = errors.New("no scan result available yet")

// ScanSummary is a completed scan plus run metadata that deliberately lives
// outside ScanResult (the result itself stays a pure function of its input).
type ScanSummary struct {
	Result       *models.ScanResult `json:"result"`
	SourceCounts map[string]int     `json:"source_counts"`
}

// ScanService loads the universe through the source chain, runs the
// analyzer, caches and publishes the result, and fans it out to
// subscribers.
type ScanService struct {
	cfg      *config.Config
	loader   repository.SeriesLoader
	analyzer *UniverseAnalyzer
	cache    cache.Service
	pub      repository.SignalPublisher
	metrics  repository.Metrics
	log      *logger.Logger

	mu   sync.RWMutex
	subs []func(*models.ScanResult)
}

// NewScanService wires the scan pipeline. pub and metrics may be nil.
func NewScanService(
	cfg *config.Config,
	loader repository.SeriesLoader,
	analyzer *UniverseAnalyzer,
	cacheSvc cache.Service,
	pub repository.SignalPublisher,
	metrics repository.Metrics,
	log *logger.Logger,
) *ScanService {
	return &ScanService{
		cfg:      cfg,
		loader:   loader,
		analyzer: analyzer,
		cache:    cacheSvc,
		pub:      pub,
		metrics:  metrics,
		log:      log,
	}
}

// Subscribe registers a callback invoked after every completed scan.
func (s *ScanService) Subscribe(fn func(*models.ScanResult)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// RunOnce scans the given symbols (or the configured universe when empty)
// and returns the result together with per-source load counts.
func (s *ScanService) RunOnce(ctx context.Context, symbols []string, topN int) (*ScanSummary, error) {
	start := time.Now()
	if len(symbols) == 0 {
		symbols = s.cfg.Scanner.Symbols
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no symbols configured")
	}
	if topN <= 0 {
		topN = s.cfg.Scanner.TopN
	}

	data := make(map[string][]models.Bar, len(symbols))
	counts := make(map[string]int)
	var loadSkipped []models.SkippedSymbol
	for _, sym := range symbols {
		series, err := s.loader.LoadSeries(ctx, sym, s.cfg.Scanner.HistoryDays)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.log.Warn("series load failed",
				logger.String("symbol", sym), logger.Error(err))
			loadSkipped = append(loadSkipped, models.SkippedSymbol{Symbol: sym, Reason: err.Error()})
			if s.metrics != nil {
				s.metrics.RecordSymbolSkipped("load_failed")
			}
			continue
		}
		data[sym] = series.Bars
		counts[series.Source]++
	}

	indices := s.loadIndices(ctx, counts)

	result, err := s.analyzer.Analyze(ctx, data, AnalyzeOptions{TopN: topN, Indices: indices})
	if err != nil {
		return nil, fmt.Errorf("analyze universe: %w", err)
	}
	result.Skipped = mergeSkipped(result.Skipped, loadSkipped)

	if s.cache != nil {
		if err := s.cache.Set(ctx, latestScanKey, result, s.cfg.Cache.TTL.Std()); err != nil {
			s.log.Warn("cache scan result", logger.Error(err))
		}
	}
	if s.pub != nil {
		if err := s.pub.PublishScan(ctx, result); err != nil {
			s.log.Error("publish scan", logger.Error(err))
			if s.metrics != nil {
				s.metrics.RecordError("publish")
			}
		}
	}
	if s.metrics != nil {
		s.metrics.RecordScan(time.Since(start).Seconds())
	}

	s.mu.RLock()
	subs := make([]func(*models.ScanResult), len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()
	for _, fn := range subs {
		fn(result)
	}

	s.log.Info("scan complete",
		logger.Int("symbols", len(symbols)),
		logger.Int("signals", len(result.Signals)),
		logger.Int("skipped", len(result.Skipped)),
		logger.Duration("elapsed", time.Since(start)))

	return &ScanSummary{Result: result, SourceCounts: counts}, nil
}

// Latest returns the most recent cached scan result.
func (s *ScanService) Latest(ctx context.Context) (*models.ScanResult, error) {
	if s.cache == nil {
		return nil, ErrNoScanYet
	}
	var result models.ScanResult
	if err := s.cache.Get(ctx, latestScanKey, &result); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, ErrNoScanYet
		}
		return nil, fmt.Errorf("read cached scan: %w", err)
	}
	return &result, nil
}

// loadIndices fetches the benchmark series. Best effort: a missing index
// just means symbols classify without the market gate.
func (s *ScanService) loadIndices(ctx context.Context, counts map[string]int) map[string][]models.Bar {
	indices := make(map[string][]models.Bar, 2)
	for _, sym := range []string{IndexTEDPIX, IndexEqual} {
		series, err := s.loader.LoadSeries(ctx, sym, s.cfg.Scanner.HistoryDays)
		if err != nil {
			s.log.Debug("index series unavailable",
				logger.String("symbol", sym), logger.Error(err))
			continue
		}
		indices[sym] = series.Bars
		counts[series.Source]++
	}
	return indices
}

func mergeSkipped(a, b []models.SkippedSymbol) []models.SkippedSymbol {
	merged := append(append([]models.SkippedSymbol{}, a...), b...)
	sort.Slice(merged, func(i, j int) bool { return merged[i].Symbol < merged[j].Symbol })
	return merged
}
