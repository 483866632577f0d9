package analytics

import (
	"testing"

	"tsescan/internal/domain/models"
)

func bullishSnapshot() *models.IndicatorSet {
	return &models.IndicatorSet{
		Close:      120,
		SMA200:     100,
		TrendAngle: 0.02,
		ATR14:      2,
		ADX14:      30,
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	cfg := DefaultConfig()

	// Volatility wins even over a clean bull trend.
	ind := bullishSnapshot()
	ind.ATR14 = 10 // 10/120 > 0.05
	if got := Classify(ind, nil, cfg); got != models.RegimeVolatile {
		t.Fatalf("expected VOLATILE to outrank BULL, got %s", got)
	}

	ind = bullishSnapshot()
	if got := Classify(ind, nil, cfg); got != models.RegimeBull {
		t.Fatalf("expected BULL, got %s", got)
	}

	ind = &models.IndicatorSet{Close: 80, SMA200: 100, TrendAngle: -0.02, ATR14: 1, ADX14: 30}
	if got := Classify(ind, nil, cfg); got != models.RegimeBear {
		t.Fatalf("expected BEAR, got %s", got)
	}

	ind = &models.IndicatorSet{Close: 100, SMA200: 100, TrendAngle: 0, ATR14: 1, ADX14: 15}
	if got := Classify(ind, nil, cfg); got != models.RegimeRanging {
		t.Fatalf("expected RANGING, got %s", got)
	}

	ind = &models.IndicatorSet{Close: 100, SMA200: 100, TrendAngle: 0, ATR14: 1, ADX14: 25}
	if got := Classify(ind, nil, cfg); got != models.RegimeUndefined {
		t.Fatalf("expected UNDEFINED, got %s", got)
	}
}

func TestClassifyBenchmarkGate(t *testing.T) {
	cfg := DefaultConfig()

	ind := bullishSnapshot()
	gate := &BenchmarkGate{BullOK: false, BearOK: false}
	got := Classify(ind, gate, cfg)
	if got == models.RegimeBull {
		t.Fatal("gate should block BULL when the benchmark disagrees")
	}
	if got != models.RegimeUndefined {
		t.Fatalf("blocked bull with strong ADX should fall to UNDEFINED, got %s", got)
	}

	gate.BullOK = true
	if got := Classify(ind, gate, cfg); got != models.RegimeBull {
		t.Fatalf("expected BULL with benchmark agreement, got %s", got)
	}
}

func TestClassifyTotality(t *testing.T) {
	cfg := DefaultConfig()
	snapshots := []*models.IndicatorSet{
		{},
		{Close: 1, SMA200: 1},
		{Close: 1e9, SMA200: 1, TrendAngle: 1, ATR14: 1e8, ADX14: 99},
		{Close: 0.001, SMA200: 100, TrendAngle: -1, ATR14: 0, ADX14: 0},
	}
	for i, ind := range snapshots {
		if got := Classify(ind, nil, cfg); !got.Valid() {
			t.Fatalf("snapshot %d: classifier returned invalid regime %q", i, got)
		}
	}
}

func TestGateFromIndices(t *testing.T) {
	if gate := GateFromIndices(constantBars(50, 100, 0), constantBars(200, 100, 0)); gate != nil {
		t.Fatal("short index series must yield a nil gate")
	}

	rising := trendBars(150, 100, 1, 0)
	falling := trendBars(150, 400, -1, 0)

	gate := GateFromIndices(rising, rising)
	if gate == nil || !gate.BullOK || gate.BearOK {
		t.Fatalf("both indices rising should allow bull only, got %+v", gate)
	}

	gate = GateFromIndices(falling, falling)
	if gate == nil || gate.BullOK || !gate.BearOK {
		t.Fatalf("both indices falling should allow bear only, got %+v", gate)
	}

	gate = GateFromIndices(rising, falling)
	if gate == nil || gate.BullOK || gate.BearOK {
		t.Fatalf("split indices should allow neither, got %+v", gate)
	}
}
