package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AssetSummary is the end-of-run state of one asset.
type AssetSummary struct {
	Symbol      string  `yaml:"symbol"`
	FinalPrice  float64 `yaml:"final_price"`
	FinalCash   float64 `yaml:"final_cash"`
	FinalValue  float64 `yaml:"final_value"`
	RealizedPnL float64 `yaml:"realized_pnl"`
	Trades      int     `yaml:"trades"`
}

// RunStats is the stats.yaml document written at the end of every run.
type RunStats struct {
	// ID is the unique identifier for this run.
	ID        string    `yaml:"id"`
	StartedAt time.Time `yaml:"started_at"`
	EndedAt   time.Time `yaml:"ended_at"`
	Ticks     int       `yaml:"ticks"`
	Strategy  string    `yaml:"strategy"`
	// FeedFallbacks counts ticks whose prices were synthesized locally.
	FeedFallbacks  int            `yaml:"feed_fallbacks"`
	Assets         []AssetSummary `yaml:"assets"`
	Metrics        []MetricEntry  `yaml:"metrics"`
	TradesFilePath string         `yaml:"trades_file_path,omitempty"`
	EquityFilePath string         `yaml:"equity_file_path,omitempty"`
}

// WriteRunStats marshals stats to YAML at path.
func WriteRunStats(path string, stats RunStats) error {
	data, err := yaml.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal run stats to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run stats to file: %w", err)
	}

	return nil
}
