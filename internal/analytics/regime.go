package analytics

import "tsescan/internal/domain/models"

// BenchmarkGate constrains trending regimes to the broad-market direction.
// A nil gate means no benchmark data was available and symbols classify on
// their own indicators alone.
type BenchmarkGate struct {
	BullOK bool
	BearOK bool
}

// GateFromIndices derives the benchmark gate from the two index series:
// bull is allowed only when both indices close above their SMA100, bear
// only when both close below. Returns nil when either series is too short.
func GateFromIndices(tedpix, equal []models.Bar) *BenchmarkGate {
	const window = 100
	if len(tedpix) < window || len(equal) < window {
		return nil
	}
	tAbove := aboveSMA(tedpix, window)
	eAbove := aboveSMA(equal, window)
	tBelow := belowSMA(tedpix, window)
	eBelow := belowSMA(equal, window)
	return &BenchmarkGate{
		BullOK: tAbove && eAbove,
		BearOK: tBelow && eBelow,
	}
}

func aboveSMA(bars []models.Bar, n int) bool {
	last := len(bars) - 1
	return bars[last].Close > meanClose(bars, last, n)
}

func belowSMA(bars []models.Bar, n int) bool {
	last := len(bars) - 1
	return bars[last].Close < meanClose(bars, last, n)
}

// Classify assigns a regime. Total: every indicator set maps to exactly one
// regime, checked in fixed priority order with strict inequalities.
func Classify(ind *models.IndicatorSet, gate *BenchmarkGate, cfg Config) models.Regime {
	if ind.Close > 0 && ind.ATR14/ind.Close > cfg.VolatileATRPct {
		return models.RegimeVolatile
	}
	if ind.Close > ind.SMA200 && ind.TrendAngle > 0 && (gate == nil || gate.BullOK) {
		return models.RegimeBull
	}
	if ind.Close < ind.SMA200 && ind.TrendAngle < 0 && (gate == nil || gate.BearOK) {
		return models.RegimeBear
	}
	if ind.ADX14 < cfg.RangingADX {
		return models.RegimeRanging
	}
	return models.RegimeUndefined
}
