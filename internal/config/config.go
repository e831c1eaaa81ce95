package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/quantarena/arena/internal/core"
	"github.com/spf13/viper"
)

type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation"`
	Report     ReportConfig     `mapstructure:"report"`
	Results    ResultsConfig    `mapstructure:"results"`
}

// SimulationConfig holds the competition and distribution parameters.
type SimulationConfig struct {
	Teams            int     `mapstructure:"teams"`
	Days             int     `mapstructure:"days"`
	Trials           int     `mapstructure:"trials"`
	TopK             int     `mapstructure:"top_k"`
	StartingCapital  float64 `mapstructure:"starting_capital"`
	Seed             int64   `mapstructure:"seed"`
	Workers          int     `mapstructure:"workers"`
	OpponentStrategy string  `mapstructure:"opponent_strategy"`

	AnnualTradingDays int     `mapstructure:"annual_trading_days"`
	MaxImpliedVol     float64 `mapstructure:"max_implied_vol"` // annual, percent
	MinImpliedVol     float64 `mapstructure:"min_implied_vol"` // annual, percent
	RiskFreeReturn    float64 `mapstructure:"risk_free_return"`
	MarketDrift       float64 `mapstructure:"market_drift"`
	VolLevels         int     `mapstructure:"vol_levels"`
	UpProbability     float64 `mapstructure:"up_probability"`
}

// ReportConfig holds output rendering settings.
type ReportConfig struct {
	Charts bool `mapstructure:"charts"`
	Bins   int  `mapstructure:"bins"`
}

// ResultsConfig holds run-artifact storage settings.
type ResultsConfig struct {
	Type string   `mapstructure:"type"` // "localfs" or "s3"
	Path string   `mapstructure:"path"` // For localfs
	S3   S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	cfg := Defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// Defaults returns the real competition parameters: 61 teams, a 50 day
// competition, top-2 qualification, $1M starting capital, and the 2019
// market assumptions (252 trading days, 10-100% annual implied vol, 2.48%
// risk-free, 6% market drift).
func Defaults() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Teams:             61,
			Days:              50,
			Trials:            1000,
			TopK:              2,
			StartingCapital:   1_000_000,
			Seed:              97,
			Workers:           0, // 0 means GOMAXPROCS
			OpponentStrategy:  string(core.ArchetypeRandom),
			AnnualTradingDays: 252,
			MaxImpliedVol:     100.0,
			MinImpliedVol:     10.0,
			RiskFreeReturn:    0.0248,
			MarketDrift:       0.06,
			VolLevels:         100,
			UpProbability:     0.5,
		},
		Report: ReportConfig{
			Charts: true,
			Bins:   100,
		},
		Results: ResultsConfig{
			Type: "localfs",
			Path: "results",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	s := c.Simulation

	if s.Teams < 2 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("teams must be at least 2, got %d", s.Teams))
	}
	if s.Days < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("days must be at least 1, got %d", s.Days))
	}
	if s.Trials < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("trials must be at least 1, got %d", s.Trials))
	}
	if s.TopK < 1 || s.TopK > s.Teams {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("top_k must be between 1 and teams (%d), got %d", s.Teams, s.TopK))
	}
	if s.StartingCapital <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("starting_capital must be positive, got %f", s.StartingCapital))
	}
	if s.Workers < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("workers cannot be negative, got %d", s.Workers))
	}
	if !core.Archetype(s.OpponentStrategy).IsValid() {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown opponent_strategy %q", s.OpponentStrategy))
	}

	if s.AnnualTradingDays < 1 {
		return core.WrapError(core.ErrParamInvalid,
			fmt.Errorf("annual_trading_days must be at least 1, got %d", s.AnnualTradingDays))
	}
	if s.MinImpliedVol < 0 || s.MaxImpliedVol < 0 || s.MinImpliedVol > s.MaxImpliedVol {
		return core.WrapError(core.ErrParamInvalid,
			fmt.Errorf("implied vol range [%f, %f] invalid", s.MinImpliedVol, s.MaxImpliedVol))
	}
	if s.RiskFreeReturn < 0 || s.RiskFreeReturn > 1 {
		return core.WrapError(core.ErrParamInvalid,
			fmt.Errorf("risk_free_return must be in [0, 1], got %f", s.RiskFreeReturn))
	}
	if s.MarketDrift < 0 || s.MarketDrift > 1 {
		return core.WrapError(core.ErrParamInvalid,
			fmt.Errorf("market_drift must be in [0, 1], got %f", s.MarketDrift))
	}
	if s.VolLevels < 1 {
		return core.WrapError(core.ErrParamInvalid,
			fmt.Errorf("vol_levels must be at least 1, got %d", s.VolLevels))
	}
	if s.UpProbability < 0 || s.UpProbability > 1 {
		return core.WrapError(core.ErrParamInvalid,
			fmt.Errorf("up_probability must be in [0, 1], got %f", s.UpProbability))
	}

	if c.Report.Bins < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("report bins must be at least 1, got %d", c.Report.Bins))
	}

	switch c.Results.Type {
	case "localfs":
		if c.Results.Path == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("results path required for localfs storage"))
		}
	case "s3":
		if c.Results.S3.Bucket == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("s3 bucket required for s3 storage"))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown results storage type %q", c.Results.Type))
	}

	return nil
}
