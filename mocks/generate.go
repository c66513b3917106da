package mocks

//go:generate mockgen -destination=./mock_price_feed.go -package=mocks github.com/rxtech-lab/argo-tracker/pkg/marketdata/provider PriceFeed
//go:generate mockgen -destination=./mock_evaluator.go -package=mocks github.com/rxtech-lab/argo-tracker/internal/strategy Evaluator
