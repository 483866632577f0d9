package analytics

import "tsescan/pkg/config"

// Config carries the rule thresholds and scoring weights the pipeline
// needs. It is a value type so runs stay pure functions of their inputs.
type Config struct {
	VolatileATRPct     float64
	RangingADX         float64
	LimitBufferPct     float64
	MinValueTraded     float64
	IlliquidityPenalty float64
	Weights            map[string]config.RegimeWeights
}

// DefaultConfig returns the documented default thresholds and weights.
func DefaultConfig() Config {
	return Config{
		VolatileATRPct:     0.05,
		RangingADX:         20,
		LimitBufferPct:     0.5,
		MinValueTraded:     1.5e9,
		IlliquidityPenalty: 0.5,
		Weights:            config.DefaultWeights(),
	}
}

// FromAppConfig extracts the pipeline configuration from the application
// config. The config has already been validated at load time.
func FromAppConfig(c *config.Config) Config {
	t := c.Scanner.Thresholds
	return Config{
		VolatileATRPct:     t.VolatileATRPct,
		RangingADX:         t.RangingADX,
		LimitBufferPct:     t.LimitBufferPct,
		MinValueTraded:     t.MinValueTraded,
		IlliquidityPenalty: t.IlliquidityPenalty,
		Weights:            c.Scanner.Weights,
	}
}
