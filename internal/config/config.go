// Package config loads the tracker configuration. A Config is built once by
// Load and then passed by value; nothing in the tracker mutates it.
package config

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-tracker/internal/version"
	"github.com/rxtech-lab/argo-tracker/pkg/errors"
	"gopkg.in/yaml.v3"
)

type StrategyMode string

const (
	StrategyModeThreshold StrategyMode = "threshold"
	StrategyModeDCA       StrategyMode = "dca"
	StrategyModeCrossover StrategyMode = "crossover"
)

// AllStrategyModes is used for the schema enum.
var AllStrategyModes = []any{
	StrategyModeThreshold,
	StrategyModeDCA,
	StrategyModeCrossover,
}

type FeedProvider string

const (
	FeedProviderSynthetic FeedProvider = "synthetic"
	FeedProviderBinance   FeedProvider = "binance"
	FeedProviderPolygon   FeedProvider = "polygon"
)

// AllFeedProviders is used for the schema enum.
var AllFeedProviders = []any{
	FeedProviderSynthetic,
	FeedProviderBinance,
	FeedProviderPolygon,
}

const secondsPerYear = 365 * 24 * 3600

// Config is the complete tracker configuration.
type Config struct {
	// Version is the tracker version the file was written for.
	Version    string           `yaml:"version" json:"version,omitempty" jsonschema:"title=Version,description=Tracker version this file targets"`
	Simulation SimulationConfig `yaml:"simulation" json:"simulation"`
	Strategy   StrategyConfig   `yaml:"strategy" json:"strategy"`
	Risk       RiskConfig       `yaml:"risk" json:"risk"`
	Feed       FeedConfig       `yaml:"feed" json:"feed"`
	Display    DisplayConfig    `yaml:"display" json:"display"`
	Output     OutputConfig     `yaml:"output" json:"output"`
	Status     StatusConfig     `yaml:"status" json:"status"`
	Log        LogConfig        `yaml:"log" json:"log"`
	// Seed fixes the synthetic price generator. None seeds from the clock.
	Seed optional.Option[int64] `yaml:"-" json:"seed,omitempty" jsonschema:"title=Seed,description=Seed for the synthetic price generator"`
}

// SimulationConfig holds the parameters of the trading model.
type SimulationConfig struct {
	InitialCapital           float64  `yaml:"initial_capital" json:"initial_capital" validate:"gt=0" jsonschema:"title=Initial Capital,description=Capital split evenly across the assets,minimum=0"`
	Assets                   []string `yaml:"assets" json:"assets" validate:"required,min=1,unique,dive,required" jsonschema:"title=Assets,description=Tickers in display order"`
	RSIPeriod                int      `yaml:"rsi_period" json:"rsi_period" validate:"gte=2" jsonschema:"title=RSI Period,minimum=2"`
	MAShortPeriod            int      `yaml:"ma_short_period" json:"ma_short_period" validate:"gte=1" jsonschema:"title=Short MA Period,minimum=1"`
	MALongPeriod             int      `yaml:"ma_long_period" json:"ma_long_period" validate:"gtfield=MAShortPeriod" jsonschema:"title=Long MA Period"`
	RSIBuyThreshold          float64  `yaml:"rsi_buy_threshold" json:"rsi_buy_threshold" validate:"gte=0,lte=100" jsonschema:"title=RSI Buy Threshold,minimum=0,maximum=100"`
	RSISellThreshold         float64  `yaml:"rsi_sell_threshold" json:"rsi_sell_threshold" validate:"gte=0,lte=100,gtfield=RSIBuyThreshold" jsonschema:"title=RSI Sell Threshold,minimum=0,maximum=100"`
	StopLossPct              float64  `yaml:"stop_loss_pct" json:"stop_loss_pct" validate:"gte=0,lt=1" jsonschema:"title=Stop Loss,description=Fraction below average entry"`
	TakeProfitPct            float64  `yaml:"take_profit_pct" json:"take_profit_pct" validate:"gte=0" jsonschema:"title=Take Profit,description=Fraction above average entry"`
	CommissionPct            float64  `yaml:"commission_pct" json:"commission_pct" validate:"gte=0,lt=1" jsonschema:"title=Commission,description=Fraction of gross notional"`
	SlippagePct              float64  `yaml:"slippage_pct" json:"slippage_pct" validate:"gte=0,lt=1" jsonschema:"title=Slippage,description=Fraction applied against the trader"`
	CapitalAllocationPct     float64  `yaml:"capital_allocation_pct" json:"capital_allocation_pct" validate:"gt=0,lte=1" jsonschema:"title=Capital Allocation,description=Fraction of available cash spent per buy signal"`
	LogicTickIntervalSeconds float64  `yaml:"logic_tick_interval_seconds" json:"logic_tick_interval_seconds" validate:"gt=0" jsonschema:"title=Logic Tick Interval"`
	MaxTicks                 int      `yaml:"max_ticks" json:"max_ticks" validate:"gte=0" jsonschema:"title=Max Ticks,description=0 runs until interrupted"`
	HistoryCapacity          int      `yaml:"history_capacity" json:"history_capacity" validate:"gte=2" jsonschema:"title=History Capacity,description=Closes retained per asset"`
}

type StrategyConfig struct {
	Mode StrategyMode `yaml:"mode" json:"mode" validate:"oneof=threshold dca crossover" jsonschema:"title=Mode"`
	// InitialEntry buys into every asset on the first tick the indicators are ready.
	InitialEntry bool `yaml:"initial_entry" json:"initial_entry" jsonschema:"title=Initial Entry"`
}

type RiskConfig struct {
	// Enabled false turns off stop-loss and take-profit exits.
	Enabled bool `yaml:"enabled" json:"enabled" jsonschema:"title=Enabled"`
}

type FeedConfig struct {
	Provider          FeedProvider `yaml:"provider" json:"provider" validate:"oneof=synthetic binance polygon" jsonschema:"title=Provider"`
	TimeoutSeconds    float64      `yaml:"timeout_seconds" json:"timeout_seconds" validate:"gt=0" jsonschema:"title=Fetch Timeout"`
	RequestsPerSecond float64      `yaml:"requests_per_second" json:"requests_per_second" validate:"gt=0" jsonschema:"title=Request Rate"`
	// Interval is the candle interval used for history ("1m", "1h").
	Interval          string             `yaml:"interval" json:"interval" validate:"required" jsonschema:"title=Candle Interval"`
	StartPrices       map[string]float64 `yaml:"start_prices" json:"start_prices,omitempty" validate:"dive,gt=0" jsonschema:"title=Start Prices,description=Synthetic start price per asset"`
	DefaultStartPrice float64            `yaml:"default_start_price" json:"default_start_price" validate:"gt=0" jsonschema:"title=Default Start Price"`
	NoiseStdDev       float64            `yaml:"noise_std_dev" json:"noise_std_dev" validate:"gte=0,lt=1" jsonschema:"title=Noise Std Dev,description=Per tick relative price noise"`
	PolygonAPIKey     string             `yaml:"-" json:"-"`
	BinanceAPIKey     string             `yaml:"-" json:"-"`
	BinanceSecretKey  string             `yaml:"-" json:"-"`
}

type DisplayConfig struct {
	Headless      bool    `yaml:"headless" json:"headless" jsonschema:"title=Headless"`
	RefreshMillis int     `yaml:"refresh_millis" json:"refresh_millis" validate:"gt=0" jsonschema:"title=Refresh Interval"`
	MicroNoisePct float64 `yaml:"micro_noise_pct" json:"micro_noise_pct" validate:"gte=0,lt=1" jsonschema:"title=Display Noise"`
}

type OutputConfig struct {
	// Path is the base folder for run output. Empty disables persistence.
	Path    string `yaml:"path" json:"path" jsonschema:"title=Output Path"`
	Parquet bool   `yaml:"parquet" json:"parquet" jsonschema:"title=Parquet Export"`
}

type StatusConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled" jsonschema:"title=Enabled"`
	Addr    string `yaml:"addr" json:"addr" validate:"required_if=Enabled true" jsonschema:"title=Listen Address"`
}

type LogConfig struct {
	Level string `yaml:"level" json:"level" validate:"oneof=debug info warn error" jsonschema:"title=Level"`
	File  string `yaml:"file" json:"file" jsonschema:"title=File"`
}

// Default returns the configuration used when a key is absent.
func Default() Config {
	return Config{
		Version: "",
		Simulation: SimulationConfig{
			InitialCapital:           1000,
			Assets:                   []string{"BRCN"},
			RSIPeriod:                14,
			MAShortPeriod:            5,
			MALongPeriod:             20,
			RSIBuyThreshold:          30,
			RSISellThreshold:         70,
			StopLossPct:              0.03,
			TakeProfitPct:            0.06,
			CommissionPct:            0.003,
			SlippagePct:              0.001,
			CapitalAllocationPct:     0.95,
			LogicTickIntervalSeconds: 1,
			MaxTicks:                 100,
			HistoryCapacity:          300,
		},
		Strategy: StrategyConfig{Mode: StrategyModeThreshold, InitialEntry: false},
		Risk:     RiskConfig{Enabled: true},
		Feed: FeedConfig{
			Provider:          FeedProviderSynthetic,
			TimeoutSeconds:    3,
			RequestsPerSecond: 5,
			Interval:          "1m",
			StartPrices:       map[string]float64{},
			DefaultStartPrice: 0.50,
			NoiseStdDev:       0.005,
			PolygonAPIKey:     "",
			BinanceAPIKey:     "",
			BinanceSecretKey:  "",
		},
		Display: DisplayConfig{
			Headless:      false,
			RefreshMillis: 200,
			MicroNoisePct: 0.0005,
		},
		Output: OutputConfig{Path: "", Parquet: true},
		Status: StatusConfig{Enabled: false, Addr: "127.0.0.1:8089"},
		Log:    LogConfig{Level: "info", File: ""},
		Seed:   optional.None[int64](),
	}
}

// Load reads the YAML file at path on top of Default, applies .env and
// environment overrides and validates the result.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeConfigNotFound, err, "config.Load: read %q", path) //nolint:exhaustruct // zero config on error
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, err //nolint:exhaustruct // zero config on error
	}

	cfg = applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err //nolint:exhaustruct // zero config on error
	}

	return cfg, nil
}

// Parse decodes YAML on top of Default without touching the environment
// and without validating.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeConfigParseFailed, "config.Parse: parse YAML", err) //nolint:exhaustruct // zero config on error
	}

	var seed struct {
		Seed *int64 `yaml:"seed"`
	}

	if err := yaml.Unmarshal(data, &seed); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeConfigParseFailed, "config.Parse: parse seed", err) //nolint:exhaustruct // zero config on error
	}

	if seed.Seed != nil {
		cfg.Seed = optional.Some(*seed.Seed)
	}

	for i, asset := range cfg.Simulation.Assets {
		cfg.Simulation.Assets[i] = strings.ToUpper(strings.TrimSpace(asset))
	}

	prices := make(map[string]float64, len(cfg.Feed.StartPrices))
	for symbol, price := range cfg.Feed.StartPrices {
		prices[strings.ToUpper(strings.TrimSpace(symbol))] = price
	}

	cfg.Feed.StartPrices = prices

	return cfg, nil
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and the cross-field rules the struct
// tags cannot express.
func (c Config) Validate() error {
	var problems []string

	if err := configValidator.Struct(c); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return errors.Wrap(errors.ErrCodeInvalidConfiguration, "validate config", err)
		}

		for _, fe := range validationErrs {
			problems = append(problems, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
		}
	}

	if c.Simulation.HistoryCapacity < c.WarmupLength()+1 {
		problems = append(problems, fmt.Sprintf("history_capacity %d must exceed the warm-up window %d",
			c.Simulation.HistoryCapacity, c.WarmupLength()))
	}

	if c.Feed.Provider == FeedProviderPolygon && c.Feed.PolygonAPIKey == "" {
		problems = append(problems, "polygon feed requires POLYGON_API_KEY")
	}

	if len(problems) > 0 {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "validate config", errors.NewValidationError(problems...))
	}

	if err := version.CheckConfigCompatibility(version.GetVersion(), c.Version); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidVersion, "config version", err)
	}

	return nil
}

func applyEnvOverrides(cfg Config) Config {
	if v := os.Getenv("TRACKER_LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}

	if v := os.Getenv("TRACKER_FEED_PROVIDER"); v != "" {
		cfg.Feed.Provider = FeedProvider(strings.ToLower(v))
	}

	if v := os.Getenv("POLYGON_API_KEY"); v != "" {
		cfg.Feed.PolygonAPIKey = v
	}

	if v := os.Getenv("BINANCE_API_KEY"); v != "" {
		cfg.Feed.BinanceAPIKey = v
	}

	if v := os.Getenv("BINANCE_SECRET_KEY"); v != "" {
		cfg.Feed.BinanceSecretKey = v
	}

	return cfg
}

// LogicTickInterval is the cadence of trading decisions.
func (c Config) LogicTickInterval() time.Duration {
	return time.Duration(c.Simulation.LogicTickIntervalSeconds * float64(time.Second))
}

// FeedTimeout bounds a single price feed call.
func (c Config) FeedTimeout() time.Duration {
	return time.Duration(c.Feed.TimeoutSeconds * float64(time.Second))
}

// RefreshInterval is the cadence of the display.
func (c Config) RefreshInterval() time.Duration {
	return time.Duration(c.Display.RefreshMillis) * time.Millisecond
}

// TicksPerYear annualizes per-tick statistics for the configured cadence.
func (c Config) TicksPerYear() float64 {
	return secondsPerYear / c.Simulation.LogicTickIntervalSeconds
}

// CapitalPerAsset is each asset's starting cash. Capital is partitioned,
// never pooled.
func (c Config) CapitalPerAsset() float64 {
	if len(c.Simulation.Assets) == 0 {
		return 0
	}

	return c.Simulation.InitialCapital / float64(len(c.Simulation.Assets))
}

// WarmupLength is the number of closes needed before every indicator is defined.
func (c Config) WarmupLength() int {
	return int(math.Max(float64(c.Simulation.MALongPeriod), float64(c.Simulation.RSIPeriod)))
}

// StartPrice is the synthetic start price for symbol.
func (c Config) StartPrice(symbol string) float64 {
	if p, ok := c.Feed.StartPrices[symbol]; ok {
		return p
	}

	return c.Feed.DefaultStartPrice
}
