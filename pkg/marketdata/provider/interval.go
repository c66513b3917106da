package provider

import (
	"time"

	"github.com/polygon-io/client-go/rest/models"
)

// Interval is a candle width in Binance notation ("1m", "4h", "1M").
type Interval string

type intervalSpec struct {
	multiplier int
	timespan   models.Timespan
	unit       time.Duration
}

var intervals = map[Interval]intervalSpec{
	"1s":  {1, models.Second, time.Second},
	"1m":  {1, models.Minute, time.Minute},
	"3m":  {3, models.Minute, time.Minute},
	"5m":  {5, models.Minute, time.Minute},
	"15m": {15, models.Minute, time.Minute},
	"30m": {30, models.Minute, time.Minute},
	"1h":  {1, models.Hour, time.Hour},
	"2h":  {2, models.Hour, time.Hour},
	"4h":  {4, models.Hour, time.Hour},
	"6h":  {6, models.Hour, time.Hour},
	"8h":  {8, models.Hour, time.Hour},
	"12h": {12, models.Hour, time.Hour},
	"1d":  {1, models.Day, 24 * time.Hour},
	"3d":  {3, models.Day, 24 * time.Hour},
	"1w":  {1, models.Week, 7 * 24 * time.Hour},
	"1M":  {1, models.Month, 30 * 24 * time.Hour},
}

func (i Interval) Valid() bool {
	_, ok := intervals[i]

	return ok
}

// Multiplier is the polygon aggregate multiplier. Unknown intervals map to 1.
func (i Interval) Multiplier() int {
	if spec, ok := intervals[i]; ok {
		return spec.multiplier
	}

	return 1
}

// Timespan is the polygon aggregate timespan. Unknown intervals map to a day.
func (i Interval) Timespan() models.Timespan {
	if spec, ok := intervals[i]; ok {
		return spec.timespan
	}

	return models.Day
}

// Duration is the approximate wall-clock width of one candle.
func (i Interval) Duration() time.Duration {
	if spec, ok := intervals[i]; ok {
		return time.Duration(spec.multiplier) * spec.unit
	}

	return 24 * time.Hour
}
