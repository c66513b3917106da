package mocks

import (
	"math"
	"math/rand"
)

// DataGenerator generates close-price series for tests.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)), //nolint:gosec // test data
	}
}

// GeneratorConfig configures how closes are generated.
type GeneratorConfig struct {
	// Count is the number of closes to generate
	Count int
	// InitialPrice is the first close
	InitialPrice float64
	// Volatility is the per-step standard deviation of the relative change
	Volatility float64
	// Trend is the total drift spread across the series (0.1 = +10%)
	Trend float64
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Count:        300,
		InitialPrice: 100.0,
		Volatility:   0.005,
		Trend:        0.0,
	}
}

// Generate follows a geometric random walk. Every close is positive.
func (g *DataGenerator) Generate(config GeneratorConfig) []float64 {
	closes := make([]float64, config.Count)
	price := config.InitialPrice

	drift := 0.0
	if config.Count > 0 {
		drift = config.Trend / float64(config.Count)
	}

	for i := range closes {
		if i > 0 {
			next := price * (1 + g.rng.NormFloat64()*config.Volatility + drift)
			if next <= 0 {
				next = price * 0.99
			}

			price = next
		}

		closes[i] = roundToDecimals(price, 6)
	}

	return closes
}

// GenerateMultiSymbol generates one series per symbol with slightly varied
// start prices.
func (g *DataGenerator) GenerateMultiSymbol(symbols []string, baseConfig GeneratorConfig) map[string][]float64 {
	out := make(map[string][]float64, len(symbols))

	for _, symbol := range symbols {
		config := baseConfig
		config.InitialPrice = baseConfig.InitialPrice * (0.8 + g.rng.Float64()*0.4)
		out[symbol] = g.Generate(config)
	}

	return out
}

// Linear returns count closes from start moving by step each tick.
func Linear(start, step float64, count int) []float64 {
	closes := make([]float64, count)
	for i := range closes {
		closes[i] = start + step*float64(i)
	}

	return closes
}

// Constant returns count copies of price.
func Constant(price float64, count int) []float64 {
	return Linear(price, 0, count)
}

// Concat joins series in order.
func Concat(series ...[]float64) []float64 {
	var out []float64
	for _, s := range series {
		out = append(out, s...)
	}

	return out
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}
