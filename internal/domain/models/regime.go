package models

// Regime classifies the current market state of a symbol.
type Regime string

const (
	RegimeBull      Regime = "BULL"
	RegimeBear      Regime = "BEAR"
	RegimeRanging   Regime = "RANGING"
	RegimeVolatile  Regime = "VOLATILE"
	RegimeUndefined Regime = "UNDEFINED"
)

// Valid reports whether r is one of the defined regimes.
func (r Regime) Valid() bool {
	switch r {
	case RegimeBull, RegimeBear, RegimeRanging, RegimeVolatile, RegimeUndefined:
		return true
	}
	return false
}
