package analytics

import "tsescan/internal/domain/models"

// Score computes the bounded rank score for a symbol. Each component is
// clamped to [-1, 1] before weighting and the weighted sum is clamped
// again, so one extreme input can never dominate a list.
func Score(ind *models.IndicatorSet, regime models.Regime, short bool, cfg Config) float64 {
	atrPct := 0.0
	if ind.Close > 0 {
		atrPct = ind.ATR14 / ind.Close
	}

	momentum := 0.0
	if atrPct > 0 {
		momentum = clamp(ind.ROC10/atrPct, -1, 1)
	}

	trend := 0.0
	if ind.SMA200 > 0 {
		trend = clamp((ind.Close-ind.SMA200)/ind.SMA200+ind.TrendAngle, -1, 1)
	}
	if short {
		momentum, trend = -momentum, -trend
	}

	breakout := 0.0
	if ind.ATR14 > 0 {
		if short {
			breakout = clamp((ind.BBLower-ind.Close)/ind.ATR14, -1, 1)
		} else {
			breakout = clamp((ind.Close-ind.BBUpper)/ind.ATR14, -1, 1)
		}
	}

	risk := clamp(atrPct, 0, 1)

	illiquidity := 0.0
	if ind.ValueTraded < cfg.MinValueTraded {
		illiquidity = cfg.IlliquidityPenalty
	}

	w := cfg.Weights[string(regime)]
	s := w.Momentum*momentum + w.Trend*trend + w.Breakout*breakout -
		w.Risk*risk - w.Illiquidity*illiquidity
	return clamp(s, -1, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
