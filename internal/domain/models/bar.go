package models

import "time"

// Bar is one daily OHLCV record for a symbol.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// ValidateSeries checks a bar series for structural defects. Bars must be
// strictly ascending by date, prices positive, volume non-negative, and
// Low <= Open,Close <= High. The first defect found is returned as a
// *MalformedRecordError.
func ValidateSeries(symbol string, bars []Bar) error {
	for i, b := range bars {
		if b.Date.IsZero() {
			return &MalformedRecordError{Symbol: symbol, Index: i, Field: "date"}
		}
		if i > 0 && !bars[i-1].Date.Before(b.Date) {
			return &MalformedRecordError{Symbol: symbol, Index: i, Field: "date order"}
		}
		if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
			return &MalformedRecordError{Symbol: symbol, Index: i, Field: "price"}
		}
		if b.Volume < 0 {
			return &MalformedRecordError{Symbol: symbol, Index: i, Field: "volume"}
		}
		if b.Low > b.High {
			return &MalformedRecordError{Symbol: symbol, Index: i, Field: "low > high"}
		}
		if b.Open > b.High || b.Open < b.Low {
			return &MalformedRecordError{Symbol: symbol, Index: i, Field: "open out of range"}
		}
		if b.Close > b.High || b.Close < b.Low {
			return &MalformedRecordError{Symbol: symbol, Index: i, Field: "close out of range"}
		}
	}
	return nil
}

// SourcedSeries is a bar series tagged with the source that produced it.
type SourcedSeries struct {
	Symbol string `json:"symbol"`
	Source string `json:"source"`
	Bars   []Bar  `json:"bars"`
}
