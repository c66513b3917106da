package engine_v1

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-tracker/internal/config"
	"github.com/rxtech-lab/argo-tracker/internal/logger"
	"github.com/rxtech-lab/argo-tracker/internal/simulation/engine"
	"github.com/rxtech-lab/argo-tracker/internal/simulation/engine/engine_v1/writers"
	"github.com/rxtech-lab/argo-tracker/internal/strategy"
	"github.com/rxtech-lab/argo-tracker/internal/types"
	"github.com/rxtech-lab/argo-tracker/mocks"
	"github.com/rxtech-lab/argo-tracker/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type TrackerTestSuite struct {
	suite.Suite
	ctrl  *gomock.Controller
	clock time.Time
}

func TestTrackerSuite(t *testing.T) {
	suite.Run(t, new(TrackerTestSuite))
}

func (suite *TrackerTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.clock = time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)
}

func (suite *TrackerTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *TrackerTestSuite) config(maxTicks int) config.Config {
	cfg := config.Default()
	cfg.Simulation.Assets = []string{"BRCN"}
	cfg.Simulation.MaxTicks = maxTicks

	return cfg
}

func (suite *TrackerTestSuite) tick() time.Time {
	suite.clock = suite.clock.Add(time.Second)

	return suite.clock
}

func (suite *TrackerTestSuite) newEngine(cfg config.Config, feed *mocks.ScriptedFeed, inputs <-chan types.InputEvent, opts ...Option) *TrackerV1 {
	opts = append([]Option{WithTickSource(ImmediateTicks), WithClock(suite.tick)}, opts...)

	e, err := NewEngine(cfg, feed, inputs, logger.NewNopLogger(), opts...)
	suite.Require().NoError(err)

	return e
}

func labels(trades []types.Trade) []string {
	out := make([]string, 0, len(trades))
	for _, t := range trades {
		out = append(out, t.Label())
	}

	return out
}

func (suite *TrackerTestSuite) TestTickBudget() {
	feed := mocks.NewScriptedFeed([]string{"BRCN"}, nil, map[string][]float64{"BRCN": mocks.Constant(100, 50)})
	e := suite.newEngine(suite.config(10), feed, nil)

	var stopped bool

	var stopErr error

	onStop := engine.OnEngineStopCallback(func(err error, result engine.Result) {
		stopped = true
		stopErr = err
	})

	suite.Require().NoError(e.Run(context.Background(), engine.Callbacks{OnEngineStop: &onStop})) //nolint:exhaustruct // only the stop callback is needed

	result := e.Result()
	suite.True(stopped)
	suite.NoError(stopErr)
	suite.Equal(10, result.Ticks)
	suite.Equal(10, feed.Calls())
	suite.Equal(engine.StopReasonMaxTicks, result.StopReason)
	// no warm-up snapshot without history, plus the final snapshot
	suite.Len(result.Snapshots, 11)
	suite.Empty(result.Trades)
	suite.Equal(1000.0, result.Metrics.FinalValue)
	suite.Equal("threshold", result.Strategy)
}

func (suite *TrackerTestSuite) TestNoEvaluationBeforeRSIPeriod() {
	evaluator := mocks.NewMockEvaluator(suite.ctrl)
	evaluator.EXPECT().Name().Return("mock").AnyTimes()
	evaluator.EXPECT().Evaluate(gomock.Any()).DoAndReturn(func(in strategy.Input) optional.Option[types.Order] {
		suite.GreaterOrEqual(in.Indicators.Length, 14)
		suite.True(in.Indicators.Ready())

		return optional.None[types.Order]()
	}).Times(7)

	feed := mocks.NewScriptedFeed([]string{"BRCN"}, nil, map[string][]float64{"BRCN": mocks.Linear(100, -1, 30)})
	e := suite.newEngine(suite.config(20), feed, nil, WithEvaluator(evaluator))

	suite.Require().NoError(e.Run(context.Background(), engine.Callbacks{})) //nolint:exhaustruct // no callbacks
	suite.Empty(e.Result().Trades)
	suite.Equal("mock", e.Result().Strategy)
}

func (suite *TrackerTestSuite) TestThresholdStopLossAndFinalClose() {
	feed := mocks.NewScriptedFeed([]string{"BRCN"}, nil, map[string][]float64{"BRCN": mocks.Linear(100, -1, 30)})
	e := suite.newEngine(suite.config(20), feed, nil)

	var traded []types.Trade

	onTrade := engine.OnTradeCallback(func(trade types.Trade) error {
		traded = append(traded, trade)

		return nil
	})

	suite.Require().NoError(e.Run(context.Background(), engine.Callbacks{OnTrade: &onTrade})) //nolint:exhaustruct // only trades are observed

	result := e.Result()
	suite.Equal([]string{"BUY", "SELL_SL", "BUY", "CLOSE"}, labels(result.Trades))

	ticks := []int{}
	for _, t := range result.Trades {
		ticks = append(ticks, t.Tick)
	}

	suite.Equal([]int{14, 17, 18, 20}, ticks)
	suite.Equal(result.Trades, traded)
	suite.Equal(result.Trades, e.Trades())

	suite.InDelta(87*1.001, result.Trades[0].ExecutionPrice, 1e-9)
	suite.InDelta(84*0.999, result.Trades[1].ExecutionPrice, 1e-9)
	suite.Less(result.Trades[1].PnL, 0.0)

	suite.Equal(2, result.Metrics.ClosedTrades)
	suite.Equal(4, result.Metrics.TotalTrades)

	for _, pos := range result.Positions {
		suite.False(pos.IsOpen())
	}

	final, ok := result.Final()
	suite.Require().True(ok)
	suite.InDelta(final.Assets[0].Cash, final.TotalValue, 1e-9)
	suite.InDelta(final.TotalValue, result.Metrics.FinalValue, 1e-9)
	suite.InDelta(-19.0, result.Metrics.BenchmarkReturnPct, 1e-9)

	latest, ok := e.Latest()
	suite.Require().True(ok)
	suite.Equal(final, latest)
}

func (suite *TrackerTestSuite) TestCancellationClosesPositions() {
	cfg := suite.config(0)
	cfg.Strategy.Mode = config.StrategyModeCrossover
	cfg.Strategy.InitialEntry = true

	history := map[string][]float64{"BRCN": mocks.Constant(100, 20)}
	feed := mocks.NewScriptedFeed([]string{"BRCN"}, history, map[string][]float64{"BRCN": mocks.Constant(100, 1)})
	e := suite.newEngine(cfg, feed, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	onTick := engine.OnTickCallback(func(tick int, _ map[string]float64) error {
		if tick == 3 {
			cancel()
		}

		return nil
	})

	suite.Require().NoError(e.Run(ctx, engine.Callbacks{OnTick: &onTick})) //nolint:exhaustruct // only ticks are observed

	result := e.Result()
	suite.Equal(engine.StopReasonCancelled, result.StopReason)
	suite.GreaterOrEqual(result.Ticks, 3)
	suite.Equal([]string{"BUY_INITIAL", "CLOSE"}, labels(result.Trades))
	suite.Equal(1, result.Trades[0].Tick)
	suite.False(result.Positions[0].IsOpen())

	// warm-up snapshot at tick 0 fixes the benchmark
	suite.Equal(0, result.Snapshots[0].TickIndex)
	suite.InDelta(1000, result.Snapshots[0].TotalValue, 1e-9)
	suite.InDelta(0, result.Metrics.BenchmarkReturnPct, 1e-9)
}

func (suite *TrackerTestSuite) TestManualInputsAndQuit() {
	inputs := make(chan types.InputEvent, 8)
	inputs <- types.InputEvent{Type: types.InputEventManualSell, Symbol: "BRCN"}
	inputs <- types.InputEvent{Type: types.InputEventManualBuy, Symbol: ""}
	inputs <- types.InputEvent{Type: types.InputEventManualBuy, Symbol: "NOPE"}

	cfg := suite.config(0)
	cfg.Strategy.Mode = config.StrategyModeCrossover

	history := map[string][]float64{"BRCN": mocks.Constant(100, 20)}
	feed := mocks.NewScriptedFeed([]string{"BRCN"}, history, map[string][]float64{"BRCN": mocks.Constant(100, 1)})
	e := suite.newEngine(cfg, feed, inputs)

	var rejected []types.RejectReason

	onReject := engine.OnOrderRejectedCallback(func(_ types.Order, reason types.RejectReason) {
		rejected = append(rejected, reason)
	})
	onTick := engine.OnTickCallback(func(tick int, _ map[string]float64) error {
		if tick == 2 {
			inputs <- types.InputEvent{Type: types.InputEventQuit, Symbol: ""}
		}

		return nil
	})

	err := e.Run(context.Background(), engine.Callbacks{OnOrderRejected: &onReject, OnTick: &onTick}) //nolint:exhaustruct // rejections and ticks only
	suite.Require().NoError(err)

	result := e.Result()
	suite.Equal(engine.StopReasonQuit, result.StopReason)
	suite.LessOrEqual(result.Ticks, 3)
	suite.Equal([]types.RejectReason{types.RejectReasonNoPosition}, rejected)
	suite.Equal([]string{"BUY_MANUAL", "CLOSE"}, labels(result.Trades))
	suite.Equal(1, result.Trades[0].Tick)
}

func (suite *TrackerTestSuite) TestFeedFailureHoldsLastPrice() {
	feed := mocks.NewMockPriceFeed(suite.ctrl)
	feed.EXPECT().Name().Return("mock").AnyTimes()
	feed.EXPECT().FetchInitialHistory(gomock.Any(), 20).Return(map[string][]float64{"BRCN": mocks.Constant(100, 20)}, nil)
	gomock.InOrder(
		feed.EXPECT().FetchLatestPrices(gomock.Any()).Return(map[string]float64{"BRCN": 101}, nil),
		feed.EXPECT().FetchLatestPrices(gomock.Any()).Return(nil, errors.New(errors.ErrCodeMarketDataFetchFailed, "boom")),
		feed.EXPECT().FetchLatestPrices(gomock.Any()).Return(map[string]float64{}, nil),
	)

	cfg := suite.config(3)
	cfg.Strategy.Mode = config.StrategyModeCrossover

	e, err := NewEngine(cfg, feed, nil, logger.NewNopLogger(), WithTickSource(ImmediateTicks), WithClock(suite.tick))
	suite.Require().NoError(err)

	seen := map[int]float64{}
	fallbacks := map[int]int{}

	onTick := engine.OnTickCallback(func(tick int, prices map[string]float64) error {
		seen[tick] = prices["BRCN"]

		return nil
	})
	onFallback := engine.OnFeedFallbackCallback(func(tick int, total int) {
		fallbacks[tick] = total
	})

	suite.Require().NoError(e.Run(context.Background(), engine.Callbacks{OnTick: &onTick, OnFeedFallback: &onFallback})) //nolint:exhaustruct // ticks and fallbacks only

	suite.Equal(map[int]float64{1: 101, 2: 101, 3: 101}, seen)
	suite.Equal(map[int]int{2: 1, 3: 2}, fallbacks)
	suite.Equal(2, e.Result().FeedFallbacks)
}

func (suite *TrackerTestSuite) TestCallbackFailureAbortsAfterLiquidation() {
	cfg := suite.config(10)
	cfg.Strategy.Mode = config.StrategyModeCrossover
	cfg.Strategy.InitialEntry = true

	history := map[string][]float64{"BRCN": mocks.Constant(100, 20)}
	feed := mocks.NewScriptedFeed([]string{"BRCN"}, history, map[string][]float64{"BRCN": mocks.Constant(100, 1)})
	e := suite.newEngine(cfg, feed, nil)

	var stopErr error

	onSnapshot := engine.OnSnapshotCallback(func(snapshot types.PortfolioSnapshot) error {
		if snapshot.TickIndex == 2 {
			return errors.New(errors.ErrCodeUnknown, "display gone")
		}

		return nil
	})
	onStop := engine.OnEngineStopCallback(func(err error, _ engine.Result) {
		stopErr = err
	})

	err := e.Run(context.Background(), engine.Callbacks{OnSnapshot: &onSnapshot, OnEngineStop: &onStop}) //nolint:exhaustruct // snapshots and stop only
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeCallbackFailed))
	suite.Equal(err, stopErr)

	result := e.Result()
	suite.Equal(engine.StopReasonError, result.StopReason)
	suite.Equal([]string{"BUY_INITIAL", "CLOSE"}, labels(result.Trades))
}

func (suite *TrackerTestSuite) TestPersistence() {
	cfg := suite.config(5)
	cfg.Strategy.Mode = config.StrategyModeCrossover
	cfg.Strategy.InitialEntry = true
	cfg.Output.Path = suite.T().TempDir()
	cfg.Output.Parquet = true

	history := map[string][]float64{"BRCN": mocks.Constant(100, 20)}
	feed := mocks.NewScriptedFeed([]string{"BRCN"}, history, map[string][]float64{"BRCN": mocks.Linear(100, 0.5, 5)})
	e := suite.newEngine(cfg, feed, nil)

	var startedPath string

	onStart := engine.OnEngineStartCallback(func(symbols []string, runID string, runPath string) error {
		suite.Equal([]string{"BRCN"}, symbols)
		suite.NotEmpty(runID)
		startedPath = runPath

		return nil
	})

	suite.Require().NoError(e.Run(context.Background(), engine.Callbacks{OnEngineStart: &onStart})) //nolint:exhaustruct // start only

	result := e.Result()
	suite.Equal(startedPath, result.RunPath)
	suite.Equal(filepath.Join(cfg.Output.Path, suite.clock.Format("2006-01-02"), "run_1"), result.RunPath)

	trades, err := writers.ReadTrades(filepath.Join(result.RunPath, "trades.parquet"))
	suite.Require().NoError(err)
	suite.Equal([]string{"BUY_INITIAL", "CLOSE"}, labels(trades))

	equity, err := writers.ReadEquity(filepath.Join(result.RunPath, "equity.parquet"))
	suite.Require().NoError(err)
	// warm-up, five ticks, final
	suite.Len(equity, 7)

	stats, err := os.ReadFile(filepath.Join(result.RunPath, "stats.yaml"))
	suite.Require().NoError(err)
	suite.Contains(string(stats), result.RunID)
	suite.Contains(string(stats), "trades.parquet")
}

func (suite *TrackerTestSuite) TestRunOnlyOnce() {
	feed := mocks.NewScriptedFeed([]string{"BRCN"}, nil, map[string][]float64{"BRCN": mocks.Constant(100, 1)})
	e := suite.newEngine(suite.config(1), feed, nil)

	suite.Require().NoError(e.Run(context.Background(), engine.Callbacks{})) //nolint:exhaustruct // no callbacks

	err := e.Run(context.Background(), engine.Callbacks{}) //nolint:exhaustruct // no callbacks
	suite.True(errors.HasCode(err, errors.ErrCodeEngineAlreadyRan))
}

func (suite *TrackerTestSuite) TestNewEngineErrors() {
	_, err := NewEngine(suite.config(1), nil, nil, nil)
	suite.True(errors.HasCode(err, errors.ErrCodeEngineNoFeed))

	bad := suite.config(1)
	bad.Simulation.Assets = nil
	feed := mocks.NewScriptedFeed(nil, nil, nil)

	_, err = NewEngine(bad, feed, nil, nil)
	suite.True(errors.HasCode(err, errors.ErrCodeEngineInitFailed))
}
