package models

// Direction of a signal.
type Direction string

const (
	DirectionLong    Direction = "LONG"
	DirectionShort   Direction = "SHORT"
	DirectionNeutral Direction = "NEUTRAL"
)

// Horizon is the holding-period class of a rule.
type Horizon string

const (
	HorizonSwing    Horizon = "swing"
	HorizonTrend    Horizon = "trend"
	HorizonPosition Horizon = "position"
)

// Signal is the single directional decision for a symbol in one run.
// A NEUTRAL signal carries no levels and an empty Reasons list.
type Signal struct {
	Symbol       string    `json:"symbol"`
	Regime       Regime    `json:"regime"`
	Horizon      Horizon   `json:"horizon,omitempty"`
	Direction    Direction `json:"direction"`
	Entry        float64   `json:"entry,omitempty"`
	Stop         float64   `json:"stop,omitempty"`
	Take         float64   `json:"take,omitempty"`
	TrailingMult float64   `json:"trailing_mult,omitempty"`
	Confidence   float64   `json:"confidence"`
	Reasons      []string  `json:"reasons,omitempty"`
}
