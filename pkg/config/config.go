package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"tsescan/pkg/util"
)

// MinHistoryBars is the hard floor for scanner history: the longest
// indicator lookback (SMA200 observed five bars back).
const MinHistoryBars = 205

// RegimeWeights is the per-regime scoring weight vector.
type RegimeWeights struct {
	Momentum    float64 `yaml:"wm"`
	Trend       float64 `yaml:"wt"`
	Breakout    float64 `yaml:"wb"`
	Risk        float64 `yaml:"wr"`
	Illiquidity float64 `yaml:"wl"`
}

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int      `yaml:"port"`
		ReadTimeout     Duration `yaml:"read_timeout"`
		WriteTimeout    Duration `yaml:"write_timeout"`
		ShutdownTimeout Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Scanner struct {
		Symbols     []string `yaml:"symbols"`
		TopN        int      `yaml:"top_n"`
		Workers     int      `yaml:"workers"`
		Interval    Duration `yaml:"interval"` // 0 disables the scheduler
		HistoryDays int      `yaml:"history_days"`
		Thresholds  struct {
			VolatileATRPct     float64 `yaml:"volatile_atr_pct"`
			RangingADX         float64 `yaml:"ranging_adx"`
			LimitBufferPct     float64 `yaml:"limit_buffer_pct"`
			MinValueTraded     float64 `yaml:"min_value_traded"`
			IlliquidityPenalty float64 `yaml:"illiquidity_penalty"`
		} `yaml:"thresholds"`
		Weights map[string]RegimeWeights `yaml:"weights"`
	} `yaml:"scanner"`
	Sources struct {
		Order  []string `yaml:"order"` // priority: remote, clickhouse, csv
		CSVDir string   `yaml:"csv_dir"`
		Tsetmc struct {
			BaseURL string   `yaml:"base_url"`
			APIKey  string   `yaml:"api_key"`
			Timeout Duration `yaml:"timeout"`
		} `yaml:"tsetmc"`
	} `yaml:"sources"`
	ClickHouse struct {
		Enabled          bool     `yaml:"enabled"`
		Host             string   `yaml:"host"`
		Port             int      `yaml:"port"`
		Database         string   `yaml:"database"`
		User             string   `yaml:"user"`
		Password         string   `yaml:"password"`
		UseHTTP          bool     `yaml:"use_http"`
		AsyncInsert      bool     `yaml:"async_insert"`
		WaitForAsync     bool     `yaml:"wait_for_async_insert"`
		DialTimeout      Duration `yaml:"dial_timeout"`
		ReadTimeout      Duration `yaml:"read_timeout"`
		WriteTimeout     Duration `yaml:"write_timeout"`
		MaxExecutionTime Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Cache struct {
		TTL        Duration `yaml:"ttl"`
		MemorySize int      `yaml:"memory_size"`
		Redis      struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		SignalsTopic string   `yaml:"signals_topic"`
		BarsTopic    string   `yaml:"bars_topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int      `yaml:"max_attempts"`
			Linger       Duration `yaml:"linger"`
			BatchBytes   int      `yaml:"batch_bytes"`
			BatchSize    int      `yaml:"batch_size"`
			WriteTimeout Duration `yaml:"write_timeout"`
			ReadTimeout  Duration `yaml:"read_timeout"`
			Async        bool     `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string   `yaml:"group_id"`
			Workers    int      `yaml:"workers"`
			BufferSize int      `yaml:"buffer_size"`
			RetryMax   int      `yaml:"retry_max"`
			BackoffMin Duration `yaml:"backoff_min"`
			BackoffMax Duration `yaml:"backoff_max"`
			MinBytes   int      `yaml:"min_bytes"`
			MaxBytes   int      `yaml:"max_bytes"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
}

// regimeLabels are the regimes that must carry a weight vector.
var regimeLabels = []string{"BULL", "BEAR", "RANGING", "VOLATILE", "UNDEFINED"}

// DefaultWeights returns the fixed scoring weights used when the config
// omits them.
func DefaultWeights() map[string]RegimeWeights {
	neutral := RegimeWeights{Momentum: 0.25, Trend: 0.30, Breakout: 0.20, Risk: 0.20, Illiquidity: 0.05}
	return map[string]RegimeWeights{
		"BULL":      {Momentum: 0.30, Trend: 0.35, Breakout: 0.25, Risk: 0.07, Illiquidity: 0.03},
		"BEAR":      {Momentum: 0.20, Trend: 0.25, Breakout: 0.15, Risk: 0.30, Illiquidity: 0.10},
		"RANGING":   neutral,
		"VOLATILE":  {Momentum: 0.20, Trend: 0.25, Breakout: 0.15, Risk: 0.30, Illiquidity: 0.10},
		"UNDEFINED": neutral,
	}
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	c.Server.Port = util.ParseIntDefault(os.Getenv("PORT"), c.Server.Port)
	if v := os.Getenv("TSETMC_API_KEY"); v != "" {
		c.Sources.Tsetmc.APIKey = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		c.Scanner.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.Redis.Password = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = Duration(10 * time.Second)
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = Duration(10 * time.Second)
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = Duration(10 * time.Second)
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = Duration(15 * time.Minute)
	}
	if c.Cache.MemorySize == 0 {
		c.Cache.MemorySize = 1000
	}
	if c.Sources.Tsetmc.Timeout == 0 {
		c.Sources.Tsetmc.Timeout = Duration(30 * time.Second)
	}
	if c.Scanner.TopN == 0 {
		c.Scanner.TopN = 20
	}
	if c.Scanner.HistoryDays == 0 {
		c.Scanner.HistoryDays = 260
	}
	if c.Scanner.Thresholds.VolatileATRPct == 0 {
		c.Scanner.Thresholds.VolatileATRPct = 0.05
	}
	if c.Scanner.Thresholds.RangingADX == 0 {
		c.Scanner.Thresholds.RangingADX = 20
	}
	if c.Scanner.Thresholds.LimitBufferPct == 0 {
		c.Scanner.Thresholds.LimitBufferPct = 0.5
	}
	if c.Scanner.Thresholds.MinValueTraded == 0 {
		c.Scanner.Thresholds.MinValueTraded = 1.5e9
	}
	if c.Scanner.Thresholds.IlliquidityPenalty == 0 {
		c.Scanner.Thresholds.IlliquidityPenalty = 0.5
	}
	if len(c.Scanner.Weights) == 0 {
		c.Scanner.Weights = DefaultWeights()
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
}

// Validate checks if the configuration is valid. Any error here is fatal at
// startup: a run must not proceed with undefined rule behavior.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Scanner.TopN < 1 {
		return fmt.Errorf("scanner.top_n must be >= 1, got %d", c.Scanner.TopN)
	}
	if c.Scanner.HistoryDays < MinHistoryBars {
		return fmt.Errorf("scanner.history_days must be >= %d, got %d", MinHistoryBars, c.Scanner.HistoryDays)
	}
	if c.Scanner.Workers < 0 {
		return fmt.Errorf("scanner.workers must be >= 0, got %d", c.Scanner.Workers)
	}
	if t := c.Scanner.Thresholds; t.VolatileATRPct <= 0 || t.RangingADX <= 0 || t.LimitBufferPct <= 0 {
		return fmt.Errorf("scanner.thresholds must be positive")
	}
	if p := c.Scanner.Thresholds.IlliquidityPenalty; p < 0 || p > 1 {
		return fmt.Errorf("scanner.thresholds.illiquidity_penalty must be in [0,1], got %v", p)
	}
	for _, label := range regimeLabels {
		w, ok := c.Scanner.Weights[label]
		if !ok {
			return fmt.Errorf("scanner.weights missing regime %q", label)
		}
		sum := 0.0
		for _, v := range []float64{w.Momentum, w.Trend, w.Breakout, w.Risk, w.Illiquidity} {
			if v < 0 || v > 1 {
				return fmt.Errorf("scanner.weights[%s]: components must be in [0,1]", label)
			}
			sum += v
		}
		if sum > 1.0+1e-9 {
			return fmt.Errorf("scanner.weights[%s]: components sum to %.3f, must be <= 1", label, sum)
		}
	}
	for _, src := range c.Sources.Order {
		switch src {
		case "remote":
			if c.Sources.Tsetmc.BaseURL == "" {
				return fmt.Errorf("sources.tsetmc.base_url required when remote source is configured")
			}
		case "clickhouse":
			if c.ClickHouse.Host == "" {
				return fmt.Errorf("clickhouse.host required when clickhouse source is configured")
			}
		case "csv":
			if c.Sources.CSVDir == "" {
				return fmt.Errorf("sources.csv_dir required when csv source is configured")
			}
		default:
			return fmt.Errorf("unknown source %q (want remote, clickhouse, or csv)", src)
		}
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
		}
		if c.Kafka.SignalsTopic == "" && c.Kafka.BarsTopic == "" {
			return fmt.Errorf("kafka enabled but no topics configured")
		}
	}
	return nil
}
