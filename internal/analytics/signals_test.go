package analytics

import (
	"testing"

	"tsescan/internal/domain/models"
)

// positionReadySnapshot satisfies the position, trend, and swing long rules
// at once, so it also exercises rule priority.
func positionReadySnapshot() *models.IndicatorSet {
	return &models.IndicatorSet{
		Close:  120,
		High:   125,
		Low:    114,
		Volume: 2000,

		EMA9:   118,
		EMA21:  112,
		SMA50:  108,
		SMA200: 106,

		MACD:       1.5,
		MACDSignal: 0.8,
		RSI14:      62,

		DonchianHigh: 115,
		DonchianLow:  95,

		VolMA20: 1000,
		ADX14:   28,
		ATR14:   2,

		PrevSMA50:  105,
		PrevSMA200: 106,
		Prev3High:  116,
		Prev3Low:   104,

		ValueTraded: 2e9,
	}
}

func TestGenerateRulePriority(t *testing.T) {
	cfg := DefaultConfig()
	sig := Generate("FOOLAD", positionReadySnapshot(), models.RegimeBull, cfg)

	if sig.Direction != models.DirectionLong || sig.Horizon != models.HorizonPosition {
		t.Fatalf("expected position long, got %s/%s", sig.Horizon, sig.Direction)
	}
	if sig.Confidence != 0.80 {
		t.Fatalf("position confidence should be 0.80, got %v", sig.Confidence)
	}
	if sig.Stop != 95 {
		t.Fatalf("position stop should sit at the channel low, got %v", sig.Stop)
	}
	if want := 120 + 4.2*2; sig.Take != want {
		t.Fatalf("take should be %v, got %v", want, sig.Take)
	}
	if len(sig.Reasons) == 0 {
		t.Fatal("a fired rule must explain itself")
	}
}

func TestGenerateFallsThroughToTrend(t *testing.T) {
	cfg := DefaultConfig()
	ind := positionReadySnapshot()
	ind.PrevSMA50 = 107 // no cross on this bar

	sig := Generate("FOOLAD", ind, models.RegimeBull, cfg)
	if sig.Horizon != models.HorizonTrend || sig.Direction != models.DirectionLong {
		t.Fatalf("expected trend long, got %s/%s", sig.Horizon, sig.Direction)
	}
	if sig.Confidence != 0.70 {
		t.Fatalf("trend confidence should be 0.70, got %v", sig.Confidence)
	}
}

func TestGenerateNeutralByDefault(t *testing.T) {
	cfg := DefaultConfig()
	sig := Generate("SAIPA", &models.IndicatorSet{Close: 100, High: 101, Low: 99}, models.RegimeRanging, cfg)

	if sig.Direction != models.DirectionNeutral {
		t.Fatalf("expected NEUTRAL, got %s", sig.Direction)
	}
	if sig.Entry != 0 || sig.Stop != 0 || sig.Take != 0 {
		t.Fatal("neutral signal must carry no levels")
	}
	if len(sig.Reasons) != 0 {
		t.Fatalf("neutral signal must carry no reasons, got %v", sig.Reasons)
	}
}

func TestGenerateRegimeBlocks(t *testing.T) {
	cfg := DefaultConfig()

	// Position long requires BULL outright.
	sig := Generate("FOOLAD", positionReadySnapshot(), models.RegimeRanging, cfg)
	if sig.Horizon == models.HorizonPosition {
		t.Fatal("position rule must not fire outside BULL")
	}

	// Short rules are blocked in BULL.
	ind := &models.IndicatorSet{
		Close: 90, High: 95, Low: 85, Volume: 2000,
		EMA9: 92, EMA21: 96, SMA50: 100, SMA200: 110,
		MACD: -1.5, MACDSignal: -0.5, RSI14: 35,
		VolMA20: 1000, ADX14: 28, ATR14: 2,
		Prev3Low: 91, Prev3High: 99,
	}
	sig = Generate("SAIPA", ind, models.RegimeBull, cfg)
	if sig.Direction == models.DirectionShort {
		t.Fatal("short rules must not fire in BULL")
	}
	sig = Generate("SAIPA", ind, models.RegimeUndefined, cfg)
	if sig.Direction != models.DirectionShort || sig.Horizon != models.HorizonTrend {
		t.Fatalf("expected trend short outside BULL, got %s/%s", sig.Horizon, sig.Direction)
	}
}

func TestGenerateZeroVolumeAverageNeverConfirms(t *testing.T) {
	cfg := DefaultConfig()
	ind := positionReadySnapshot()
	ind.VolMA20 = 0
	ind.MACD = -1 // keep the trend rule out of the way
	ind.ADX14 = 10

	sig := Generate("KHODRO", ind, models.RegimeBull, cfg)
	if sig.Direction != models.DirectionNeutral {
		t.Fatalf("zero VolMA20 must fail volume confirmation, got %s/%s", sig.Horizon, sig.Direction)
	}
}

func TestGenerateDailyLimitGate(t *testing.T) {
	cfg := DefaultConfig()
	ind := positionReadySnapshot()
	// Keep only the swing rule in play.
	ind.PrevSMA50 = 107
	ind.MACD = 0.5
	ind.MACDSignal = 0.8

	sig := Generate("FAMELI", ind, models.RegimeBull, cfg)
	if sig.Horizon != models.HorizonSwing || sig.Direction != models.DirectionLong {
		t.Fatalf("expected swing long, got %s/%s", sig.Horizon, sig.Direction)
	}

	// Close pinned at the day's high: the queue-at-limit gate suppresses it.
	ind.High = ind.Close
	sig = Generate("FAMELI", ind, models.RegimeBull, cfg)
	if sig.Direction != models.DirectionNeutral {
		t.Fatalf("entry at the daily limit must be suppressed, got %s/%s", sig.Horizon, sig.Direction)
	}
}
