package usecase

import (
	"context"
	"errors"
	"runtime"
	"sort"
	"sync"

	"tsescan/internal/analytics"
	"tsescan/internal/domain/models"
	"tsescan/internal/domain/repository"
)

// Index symbols lifted out of the universe into the benchmark gate.
const (
	IndexTEDPIX = "TEDPIX"
	IndexEqual  = "EQUAL"
)

// AnalyzeOptions tunes a single universe run.
type AnalyzeOptions struct {
	TopN    int
	Indices map[string][]models.Bar
}

// UniverseAnalyzer runs the full pipeline over a set of symbols on a
// bounded worker pool. Symbols never share mutable state: one bad series
// is skipped and reported, never fatal.
type UniverseAnalyzer struct {
	cfg     analytics.Config
	workers int
	metrics repository.Metrics
}

// NewUniverseAnalyzer creates an analyzer. workers <= 0 means NumCPU.
// metrics may be nil.
func NewUniverseAnalyzer(cfg analytics.Config, workers int, metrics repository.Metrics) *UniverseAnalyzer {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &UniverseAnalyzer{cfg: cfg, workers: workers, metrics: metrics}
}

type symbolOutcome struct {
	symbol  string
	signal  models.Signal
	score   float64
	skipped string
}

// Analyze runs the pipeline for every non-index symbol in data and
// assembles a deterministic result: same input, same output, regardless of
// worker scheduling.
func (a *UniverseAnalyzer) Analyze(ctx context.Context, data map[string][]models.Bar, opts AnalyzeOptions) (*models.ScanResult, error) {
	gate := a.benchmarkGate(data, opts.Indices)

	symbols := make([]string, 0, len(data))
	for sym := range data {
		if sym == IndexTEDPIX || sym == IndexEqual {
			continue
		}
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	jobs := make(chan string)
	outcomes := make([]symbolOutcome, 0, len(symbols))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < a.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sym := range jobs {
				out := a.analyzeSymbol(sym, data[sym], gate)
				mu.Lock()
				outcomes = append(outcomes, out)
				mu.Unlock()
			}
		}()
	}

feed:
	for _, sym := range symbols {
		select {
		case jobs <- sym:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].symbol < outcomes[j].symbol })

	result := &models.ScanResult{Signals: make(map[string]models.Signal)}
	var longs, shorts []models.ScanEntry
	for _, out := range outcomes {
		if out.skipped != "" {
			result.Skipped = append(result.Skipped, models.SkippedSymbol{Symbol: out.symbol, Reason: out.skipped})
			continue
		}
		result.Signals[out.symbol] = out.signal
		entry := models.ScanEntry{Symbol: out.symbol, Regime: out.signal.Regime, Score: out.score}
		switch out.signal.Direction {
		case models.DirectionLong:
			longs = append(longs, entry)
		case models.DirectionShort:
			shorts = append(shorts, entry)
		}
	}

	topN := opts.TopN
	if topN <= 0 {
		topN = 20
	}
	result.LongTop = analytics.Rank(longs, topN)
	result.ShortTop = analytics.Rank(shorts, topN)
	return result, nil
}

func (a *UniverseAnalyzer) analyzeSymbol(symbol string, bars []models.Bar, gate *analytics.BenchmarkGate) symbolOutcome {
	ind, err := analytics.Compute(symbol, bars)
	if err != nil {
		a.recordSkip(err)
		return symbolOutcome{symbol: symbol, skipped: err.Error()}
	}

	regime := analytics.Classify(ind, gate, a.cfg)
	signal := analytics.Generate(symbol, ind, regime, a.cfg)

	score := 0.0
	if signal.Direction != models.DirectionNeutral {
		score = analytics.Score(ind, regime, signal.Direction == models.DirectionShort, a.cfg)
	}

	if a.metrics != nil {
		a.metrics.RecordSymbolAnalyzed(string(regime))
		a.metrics.RecordSignal(string(signal.Direction))
		if signal.Direction != models.DirectionNeutral {
			a.metrics.RecordLastScore(symbol, string(signal.Direction), score)
		}
	}
	return symbolOutcome{symbol: symbol, signal: signal, score: score}
}

func (a *UniverseAnalyzer) recordSkip(err error) {
	if a.metrics == nil {
		return
	}
	var insufficient *models.InsufficientDataError
	var malformed *models.MalformedRecordError
	switch {
	case errors.As(err, &insufficient):
		a.metrics.RecordSymbolSkipped("insufficient_data")
	case errors.As(err, &malformed):
		a.metrics.RecordSymbolSkipped("malformed_record")
	default:
		a.metrics.RecordSymbolSkipped("error")
	}
}

// benchmarkGate pulls both index series out of the request (inline in data
// or in the explicit indices map) and derives the gate. Missing either
// index means no gate.
func (a *UniverseAnalyzer) benchmarkGate(data, indices map[string][]models.Bar) *analytics.BenchmarkGate {
	pick := func(sym string) []models.Bar {
		if bars, ok := indices[sym]; ok {
			return bars
		}
		return data[sym]
	}
	tedpix := pick(IndexTEDPIX)
	equal := pick(IndexEqual)
	if len(tedpix) == 0 || len(equal) == 0 {
		return nil
	}
	return analytics.GateFromIndices(tedpix, equal)
}
