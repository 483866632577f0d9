package analytics

import (
	"errors"
	"math"
	"testing"
	"time"

	"tsescan/internal/domain/models"
)

func constantBars(n int, price, volume float64) []models.Bar {
	bars := make([]models.Bar, n)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = models.Bar{
			Date:   day.AddDate(0, 0, i),
			Open:   price,
			High:   price,
			Low:    price,
			Close:  price,
			Volume: volume,
		}
	}
	return bars
}

func trendBars(n int, start, step, volume float64) []models.Bar {
	bars := make([]models.Bar, n)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		close := start + step*float64(i)
		bars[i] = models.Bar{
			Date:   day.AddDate(0, 0, i),
			Open:   close,
			High:   close * 1.01,
			Low:    close * 0.99,
			Close:  close,
			Volume: volume,
		}
	}
	return bars
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeMinimumLookback(t *testing.T) {
	_, err := Compute("FOOLAD", constantBars(204, 100, 1000))
	var insufficient *models.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientDataError for 204 bars, got %v", err)
	}
	if insufficient.Have != 204 || insufficient.Need != 205 {
		t.Fatalf("unexpected error detail: have %d need %d", insufficient.Have, insufficient.Need)
	}

	if _, err := Compute("FOOLAD", constantBars(205, 100, 1000)); err != nil {
		t.Fatalf("expected 205 bars to succeed, got %v", err)
	}
}

func TestComputeRejectsMalformedSeries(t *testing.T) {
	bars := constantBars(205, 100, 1000)
	bars[17].Low = bars[17].High + 1

	_, err := Compute("KHODRO", bars)
	var malformed *models.MalformedRecordError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedRecordError, got %v", err)
	}
	if malformed.Index != 17 {
		t.Fatalf("expected defect at index 17, got %d", malformed.Index)
	}
}

func TestComputeRejectsOutOfOrderDates(t *testing.T) {
	bars := constantBars(205, 100, 1000)
	bars[30].Date = bars[29].Date

	if _, err := Compute("KHODRO", bars); err == nil {
		t.Fatal("expected error for duplicate dates")
	}
}

func TestComputeConstantSeries(t *testing.T) {
	ind, err := Compute("SHEPNA", constantBars(205, 100, 1000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"EMA9", ind.EMA9, 100},
		{"EMA21", ind.EMA21, 100},
		{"SMA50", ind.SMA50, 100},
		{"SMA200", ind.SMA200, 100},
		{"MACD", ind.MACD, 0},
		{"RSI14", ind.RSI14, 50},
		{"BBUpper", ind.BBUpper, 100},
		{"BBLower", ind.BBLower, 100},
		{"DonchianHigh", ind.DonchianHigh, 100},
		{"DonchianLow", ind.DonchianLow, 100},
		{"VolMA20", ind.VolMA20, 1000},
		{"ROC10", ind.ROC10, 0},
		{"TrendAngle", ind.TrendAngle, 0},
		{"ATR14", ind.ATR14, 0},
		{"ADX14", ind.ADX14, 0},
		{"ValueTraded", ind.ValueTraded, 100000},
	}
	for _, c := range checks {
		if !almostEqual(c.got, c.want) {
			t.Fatalf("%s: got %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestComputeUptrend(t *testing.T) {
	ind, err := Compute("VBMELLAT", trendBars(260, 100, 0.5, 1000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ind.SMA50 <= ind.SMA200 {
		t.Fatalf("uptrend should stack SMAs: SMA50 %v, SMA200 %v", ind.SMA50, ind.SMA200)
	}
	if ind.ROC10 <= 0 {
		t.Fatalf("uptrend ROC10 should be positive, got %v", ind.ROC10)
	}
	if ind.TrendAngle <= 0 {
		t.Fatalf("uptrend TrendAngle should be positive, got %v", ind.TrendAngle)
	}
	if !almostEqual(ind.RSI14, 100) {
		t.Fatalf("all-gain series RSI should be 100, got %v", ind.RSI14)
	}
	if ind.MACD <= 0 {
		t.Fatalf("uptrend MACD should be positive, got %v", ind.MACD)
	}
	if ind.ATR14 <= 0 {
		t.Fatalf("ATR should be positive with real ranges, got %v", ind.ATR14)
	}
}

func TestComputeDeterministic(t *testing.T) {
	bars := trendBars(230, 150, -0.2, 5000)
	a, err := Compute("SAIPA", bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Compute("SAIPA", bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *a != *b {
		t.Fatalf("identical input produced different indicator sets:\n%+v\n%+v", a, b)
	}
}

func TestComputeDonchianExcludesCurrentBar(t *testing.T) {
	bars := constantBars(205, 100, 1000)
	last := len(bars) - 1
	bars[last].Close = 110
	bars[last].High = 112
	bars[last].Open = 110

	ind, err := Compute("FAMELI", bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(ind.DonchianHigh, 100) {
		t.Fatalf("channel must not include the latest bar: got %v", ind.DonchianHigh)
	}
	if ind.Close <= ind.DonchianHigh {
		t.Fatal("a fresh high must be able to break the channel")
	}
}
