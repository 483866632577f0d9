package models

// IndicatorSet is the snapshot of all indicators at the latest bar of a
// series, plus the lagged values the signal rules need.
type IndicatorSet struct {
	Close  float64 `json:"close"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Volume float64 `json:"volume"`

	EMA9   float64 `json:"ema9"`
	EMA21  float64 `json:"ema21"`
	SMA50  float64 `json:"sma50"`
	SMA200 float64 `json:"sma200"`

	MACD       float64 `json:"macd"`
	MACDSignal float64 `json:"macd_signal"`
	RSI14      float64 `json:"rsi14"`

	BBUpper float64 `json:"bb_upper"`
	BBLower float64 `json:"bb_lower"`

	// Donchian channel over the 20 bars preceding the latest bar.
	DonchianHigh float64 `json:"donchian_high"`
	DonchianLow  float64 `json:"donchian_low"`

	VolMA20    float64 `json:"vol_ma20"`
	ROC10      float64 `json:"roc10"`
	TrendAngle float64 `json:"trend_angle"`
	ATR14      float64 `json:"atr14"`
	ADX14      float64 `json:"adx14"`

	// Lagged values for slope and pullback checks.
	PrevSMA50  float64 `json:"prev_sma50"`
	PrevSMA200 float64 `json:"prev_sma200"`
	Prev3High  float64 `json:"prev3_high"`
	Prev3Low   float64 `json:"prev3_low"`

	// ValueTraded is Close * Volume on the latest bar.
	ValueTraded float64 `json:"value_traded"`
}
