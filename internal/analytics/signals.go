package analytics

import (
	"tsescan/internal/domain/models"
)

// Generate evaluates the rule set against an indicator snapshot and returns
// exactly one signal. Rules run in confidence order (position, trend,
// swing); the first that fires wins, and a NEUTRAL signal with no levels is
// returned when none do.
func Generate(symbol string, ind *models.IndicatorSet, regime models.Regime, cfg Config) models.Signal {
	rules := []func(*models.IndicatorSet, models.Regime, Config) (models.Signal, bool){
		positionLong, positionShort,
		trendLong, trendShort,
		swingLong, swingShort,
	}
	for _, rule := range rules {
		if sig, ok := rule(ind, regime, cfg); ok {
			sig.Symbol = symbol
			sig.Regime = regime
			return sig
		}
	}
	return models.Signal{Symbol: symbol, Regime: regime, Direction: models.DirectionNeutral}
}

// volumeConfirmed reports whether the latest volume clears mult times the
// 20-day average. A zero average never confirms: a symbol that has not
// traded cannot show expansion.
func volumeConfirmed(ind *models.IndicatorSet, mult float64) bool {
	return ind.VolMA20 > 0 && ind.Volume >= mult*ind.VolMA20
}

// nearDailyLimit reports whether the close sits within bufferPct percent of
// the day's high or low. Closes pinned at a limit mean the order queue is
// one-sided and an entry is unlikely to fill.
func nearDailyLimit(ind *models.IndicatorSet, bufferPct float64) bool {
	buffer := ind.Close * bufferPct / 100
	return ind.High-ind.Close <= buffer || ind.Close-ind.Low <= buffer
}

func positionLong(ind *models.IndicatorSet, regime models.Regime, cfg Config) (models.Signal, bool) {
	if regime != models.RegimeBull {
		return models.Signal{}, false
	}
	goldenCross := ind.PrevSMA50 < ind.PrevSMA200 && ind.SMA50 > ind.SMA200
	breakout := ind.Close > ind.DonchianHigh
	volume := volumeConfirmed(ind, 1.3)
	if !(goldenCross && breakout && volume) {
		return models.Signal{}, false
	}
	return models.Signal{
		Horizon:      models.HorizonPosition,
		Direction:    models.DirectionLong,
		Entry:        ind.Close,
		Stop:         ind.DonchianLow,
		Take:         ind.Close + 4.2*ind.ATR14,
		TrailingMult: 2.0,
		Confidence:   0.80,
		Reasons:      []string{"golden cross", "donchian breakout", "volume expansion"},
	}, true
}

func positionShort(ind *models.IndicatorSet, regime models.Regime, cfg Config) (models.Signal, bool) {
	if regime != models.RegimeBear {
		return models.Signal{}, false
	}
	deathCross := ind.PrevSMA50 > ind.PrevSMA200 && ind.SMA50 < ind.SMA200
	breakdown := ind.Close < ind.DonchianLow
	volume := volumeConfirmed(ind, 1.3)
	if !(deathCross && breakdown && volume) {
		return models.Signal{}, false
	}
	return models.Signal{
		Horizon:      models.HorizonPosition,
		Direction:    models.DirectionShort,
		Entry:        ind.Close,
		Stop:         ind.DonchianHigh,
		Take:         ind.Close - 4.2*ind.ATR14,
		TrailingMult: 2.0,
		Confidence:   0.80,
		Reasons:      []string{"death cross", "donchian breakdown", "volume expansion"},
	}, true
}

func trendLong(ind *models.IndicatorSet, regime models.Regime, cfg Config) (models.Signal, bool) {
	if regime == models.RegimeBear {
		return models.Signal{}, false
	}
	stacked := ind.Close > ind.SMA50 && ind.SMA50 > ind.SMA200
	macdUp := ind.MACD > ind.MACDSignal && ind.MACD > 0
	trending := ind.ADX14 > cfg.RangingADX
	if !(stacked && macdUp && trending) {
		return models.Signal{}, false
	}
	return models.Signal{
		Horizon:      models.HorizonTrend,
		Direction:    models.DirectionLong,
		Entry:        ind.Close,
		Stop:         ind.SMA50 - 1.2*ind.ATR14,
		Take:         ind.Close + 3.2*ind.ATR14,
		TrailingMult: 1.5,
		Confidence:   0.70,
		Reasons:      []string{"ma stack up", "macd positive", "adx trending"},
	}, true
}

func trendShort(ind *models.IndicatorSet, regime models.Regime, cfg Config) (models.Signal, bool) {
	if regime == models.RegimeBull {
		return models.Signal{}, false
	}
	stacked := ind.Close < ind.SMA50 && ind.SMA50 < ind.SMA200
	macdDown := ind.MACD < ind.MACDSignal && ind.MACD < 0
	trending := ind.ADX14 > cfg.RangingADX
	if !(stacked && macdDown && trending) {
		return models.Signal{}, false
	}
	return models.Signal{
		Horizon:      models.HorizonTrend,
		Direction:    models.DirectionShort,
		Entry:        ind.Close,
		Stop:         ind.SMA50 + 1.2*ind.ATR14,
		Take:         ind.Close - 3.2*ind.ATR14,
		TrailingMult: 1.5,
		Confidence:   0.70,
		Reasons:      []string{"ma stack down", "macd negative", "adx trending"},
	}, true
}

func swingLong(ind *models.IndicatorSet, regime models.Regime, cfg Config) (models.Signal, bool) {
	if regime == models.RegimeBear {
		return models.Signal{}, false
	}
	momentum := ind.EMA9 > ind.EMA21 && ind.RSI14 > 45
	breakout := ind.Close > ind.Prev3High
	volume := volumeConfirmed(ind, 1.2)
	if !(momentum && breakout && volume) || nearDailyLimit(ind, cfg.LimitBufferPct) {
		return models.Signal{}, false
	}
	return models.Signal{
		Horizon:      models.HorizonSwing,
		Direction:    models.DirectionLong,
		Entry:        ind.Close,
		Stop:         ind.Close - 1.5*ind.ATR14,
		Take:         ind.Close + 2.5*ind.ATR14,
		TrailingMult: 1.0,
		Confidence:   0.65,
		Reasons:      []string{"ema momentum up", "3-day high break", "volume expansion"},
	}, true
}

func swingShort(ind *models.IndicatorSet, regime models.Regime, cfg Config) (models.Signal, bool) {
	if regime == models.RegimeBull {
		return models.Signal{}, false
	}
	momentum := ind.EMA9 < ind.EMA21 && ind.RSI14 < 55
	breakdown := ind.Close < ind.Prev3Low
	volume := volumeConfirmed(ind, 1.2)
	if !(momentum && breakdown && volume) || nearDailyLimit(ind, cfg.LimitBufferPct) {
		return models.Signal{}, false
	}
	return models.Signal{
		Horizon:      models.HorizonSwing,
		Direction:    models.DirectionShort,
		Entry:        ind.Close,
		Stop:         ind.Close + 1.5*ind.ATR14,
		Take:         ind.Close - 2.5*ind.ATR14,
		TrailingMult: 1.0,
		Confidence:   0.65,
		Reasons:      []string{"ema momentum down", "3-day low break", "volume expansion"},
	}, true
}
