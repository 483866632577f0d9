package analytics

import (
	"math"

	"tsescan/internal/domain/models"
)

// MinBars is the shortest series the indicator engine accepts: SMA200
// observed five bars back for the trend angle.
const MinBars = 205

// Compute evaluates the full indicator set at the latest bar of an
// ascending daily series. It validates the series first and never pads:
// fewer than MinBars bars is an InsufficientDataError.
func Compute(symbol string, bars []models.Bar) (*models.IndicatorSet, error) {
	if err := models.ValidateSeries(symbol, bars); err != nil {
		return nil, err
	}
	if len(bars) < MinBars {
		return nil, &models.InsufficientDataError{Symbol: symbol, Have: len(bars), Need: MinBars}
	}

	n := len(bars)
	last := bars[n-1]

	closes := make([]float64, n)
	for i, b := range bars {
		closes[i] = b.Close
	}

	ema9 := emaSeries(closes, 9)
	ema21 := emaSeries(closes, 21)

	ema12 := emaSeries(closes, 12)
	ema26 := emaSeries(closes, 26)
	macd := make([]float64, n)
	for i := range macd {
		macd[i] = ema12[i] - ema26[i]
	}
	macdSignal := emaSeries(macd, 9)

	bbMid := meanClose(bars, n-1, 20)
	bbStd := stddevClose(bars, n-1, 20, bbMid)

	atr := atrSeries(bars)

	set := &models.IndicatorSet{
		Close:  last.Close,
		High:   last.High,
		Low:    last.Low,
		Volume: last.Volume,

		EMA9:   ema9[n-1],
		EMA21:  ema21[n-1],
		SMA50:  meanClose(bars, n-1, 50),
		SMA200: meanClose(bars, n-1, 200),

		MACD:       macd[n-1],
		MACDSignal: macdSignal[n-1],
		RSI14:      rsi(closes, 14),

		BBUpper: bbMid + 2*bbStd,
		BBLower: bbMid - 2*bbStd,

		VolMA20: meanVolume(bars, n-1, 20),
		ROC10:   last.Close/bars[n-11].Close - 1,
		ATR14:   atr[n-1],
		ADX14:   adx(bars, atr),

		PrevSMA50:  meanClose(bars, n-2, 50),
		PrevSMA200: meanClose(bars, n-2, 200),

		ValueTraded: last.Close * last.Volume,
	}

	// Donchian channel over the 20 bars before the latest, so today's
	// close can actually break it.
	set.DonchianHigh, set.DonchianLow = channel(bars, n-21, n-1)
	set.Prev3High, set.Prev3Low = channel(bars, n-4, n-1)

	sma200Back := meanClose(bars, n-6, 200)
	set.TrendAngle = set.SMA200/sma200Back - 1

	return set, nil
}

// emaSeries computes a full exponential moving average, alpha = 2/(n+1),
// seeded with the first value.
func emaSeries(values []float64, n int) []float64 {
	alpha := 2.0 / float64(n+1)
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// meanClose is the simple moving average of closes over the n bars ending
// at index end (inclusive).
func meanClose(bars []models.Bar, end, n int) float64 {
	sum := 0.0
	for i := end - n + 1; i <= end; i++ {
		sum += bars[i].Close
	}
	return sum / float64(n)
}

func meanVolume(bars []models.Bar, end, n int) float64 {
	sum := 0.0
	for i := end - n + 1; i <= end; i++ {
		sum += bars[i].Volume
	}
	return sum / float64(n)
}

// stddevClose is the population standard deviation of closes over the n
// bars ending at index end.
func stddevClose(bars []models.Bar, end, n int, mean float64) float64 {
	sum := 0.0
	for i := end - n + 1; i <= end; i++ {
		d := bars[i].Close - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(n))
}

// channel returns the highest high and lowest low over bars[from:to).
func channel(bars []models.Bar, from, to int) (high, low float64) {
	high = bars[from].High
	low = bars[from].Low
	for i := from + 1; i < to; i++ {
		if bars[i].High > high {
			high = bars[i].High
		}
		if bars[i].Low < low {
			low = bars[i].Low
		}
	}
	return high, low
}

// rsi computes Wilder's RSI: averages seeded from the first n deltas, then
// avg = (prev*(n-1) + cur) / n.
func rsi(closes []float64, n int) float64 {
	var avgGain, avgLoss float64
	for i := 1; i <= n; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			avgGain += d
		} else {
			avgLoss -= d
		}
	}
	avgGain /= float64(n)
	avgLoss /= float64(n)

	for i := n + 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if d > 0 {
			gain = d
		} else {
			loss = -d
		}
		avgGain = (avgGain*float64(n-1) + gain) / float64(n)
		avgLoss = (avgLoss*float64(n-1) + loss) / float64(n)
	}

	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// atrSeries computes Wilder's ATR(14): true range smoothed with
// alpha = 1/14, seeded with the first bar's range.
func atrSeries(bars []models.Bar) []float64 {
	const alpha = 1.0 / 14.0
	out := make([]float64, len(bars))
	out[0] = bars[0].High - bars[0].Low
	for i := 1; i < len(bars); i++ {
		out[i] = alpha*trueRange(bars[i], bars[i-1].Close) + (1-alpha)*out[i-1]
	}
	return out
}

func trueRange(b models.Bar, prevClose float64) float64 {
	tr := b.High - b.Low
	if d := math.Abs(b.High - prevClose); d > tr {
		tr = d
	}
	if d := math.Abs(b.Low - prevClose); d > tr {
		tr = d
	}
	return tr
}

// adx computes Wilder's ADX(14) at the latest bar. Directional movement and
// true range use the same 1/14 smoothing as ATR; DX is smoothed once more.
func adx(bars []models.Bar, atr []float64) float64 {
	const alpha = 1.0 / 14.0
	n := len(bars)

	var smPlus, smMinus, smADX float64
	adxSeeded := false
	for i := 1; i < n; i++ {
		up := bars[i].High - bars[i-1].High
		down := bars[i-1].Low - bars[i].Low
		plusDM, minusDM := 0.0, 0.0
		if up > down && up > 0 {
			plusDM = up
		}
		if down > up && down > 0 {
			minusDM = down
		}
		if i == 1 {
			smPlus, smMinus = plusDM, minusDM
		} else {
			smPlus = alpha*plusDM + (1-alpha)*smPlus
			smMinus = alpha*minusDM + (1-alpha)*smMinus
		}

		if atr[i] == 0 {
			continue
		}
		diPlus := 100 * smPlus / atr[i]
		diMinus := 100 * smMinus / atr[i]
		dx := 0.0
		if diPlus+diMinus > 0 {
			dx = 100 * math.Abs(diPlus-diMinus) / (diPlus + diMinus)
		}
		if !adxSeeded {
			smADX = dx
			adxSeeded = true
		} else {
			smADX = alpha*dx + (1-alpha)*smADX
		}
	}
	return smADX
}
