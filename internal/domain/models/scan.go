package models

// ScanEntry is one ranked candidate.
type ScanEntry struct {
	Symbol string  `json:"symbol"`
	Regime Regime  `json:"regime"`
	Score  float64 `json:"score"`
}

// SkippedSymbol records a symbol excluded from a scan and why.
type SkippedSymbol struct {
	Symbol string `json:"symbol"`
	Reason string `json:"reason"`
}

// ScanResult is the output of one universe scan. It is a pure function of
// the input series and configuration: no timestamps, no run identifiers.
type ScanResult struct {
	Signals  map[string]Signal `json:"signals"`
	LongTop  []ScanEntry       `json:"long_top"`
	ShortTop []ScanEntry       `json:"short_top"`
	Skipped  []SkippedSymbol   `json:"skipped"`
}
