package provider

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// BaseOptions are the fields every network feed needs.
type BaseOptions struct {
	Symbols  []string `json:"symbols" validate:"required,min=1,dive,required"`
	Interval string   `json:"interval" validate:"required,oneof=1s 1m 3m 5m 15m 30m 1h 2h 4h 6h 8h 12h 1d 3d 1w 1M"`
}

// PolygonOptions configures PolygonFeed.
type PolygonOptions struct {
	BaseOptions

	ApiKey string `json:"apiKey" validate:"required"`
}

// BinanceOptions configures BinanceFeed. Public market endpoints work
// without keys.
type BinanceOptions struct {
	BaseOptions

	APIKey    string `json:"apiKey"`
	SecretKey string `json:"secretKey"`
	// BaseURL overrides the REST endpoint, e.g. for the testnet.
	BaseURL string `json:"baseUrl,omitempty" validate:"omitempty,url"`
}

var optionsValidator = validator.New()

func (o BaseOptions) Validate() error {
	if err := optionsValidator.Struct(o); err != nil {
		return fmt.Errorf("invalid feed options: %w", err)
	}

	return nil
}

func (o PolygonOptions) Validate() error {
	if err := optionsValidator.Struct(o); err != nil {
		return fmt.Errorf("invalid polygon options: %w", err)
	}

	return nil
}

func (o BinanceOptions) Validate() error {
	if err := optionsValidator.Struct(o); err != nil {
		return fmt.Errorf("invalid binance options: %w", err)
	}

	return nil
}
