package engine_v1

import (
	"context"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/rxtech-lab/argo-tracker/internal/config"
	"github.com/rxtech-lab/argo-tracker/internal/datasource"
	"github.com/rxtech-lab/argo-tracker/internal/indicator"
	"github.com/rxtech-lab/argo-tracker/internal/logger"
	"github.com/rxtech-lab/argo-tracker/internal/metrics"
	"github.com/rxtech-lab/argo-tracker/internal/report"
	"github.com/rxtech-lab/argo-tracker/internal/risk"
	"github.com/rxtech-lab/argo-tracker/internal/simulation/engine"
	"github.com/rxtech-lab/argo-tracker/internal/simulation/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-tracker/internal/simulation/engine/engine_v1/session"
	"github.com/rxtech-lab/argo-tracker/internal/simulation/engine/engine_v1/writers"
	"github.com/rxtech-lab/argo-tracker/internal/strategy"
	"github.com/rxtech-lab/argo-tracker/internal/types"
	"github.com/rxtech-lab/argo-tracker/pkg/errors"
	"github.com/rxtech-lab/argo-tracker/pkg/marketdata/provider"
	"go.uber.org/zap"
)

// TickSource returns the logic tick channel and a function that stops it.
type TickSource func(interval time.Duration) (<-chan time.Time, func())

// TimeTicker ticks at interval on the wall clock.
func TimeTicker(interval time.Duration) (<-chan time.Time, func()) {
	ticker := time.NewTicker(interval)

	return ticker.C, ticker.Stop
}

// ImmediateTicks delivers a tick as soon as the loop is ready for one.
// Headless batch runs and tests use it to skip the wall-clock wait.
func ImmediateTicks(time.Duration) (<-chan time.Time, func()) {
	ch := make(chan time.Time)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case ch <- time.Now():
			case <-done:
				return
			}
		}
	}()

	var once sync.Once

	return ch, func() { once.Do(func() { close(done) }) }
}

// Option customizes a TrackerV1.
type Option func(*TrackerV1)

// WithEvaluator replaces the evaluator selected by strategy.mode.
func WithEvaluator(evaluator strategy.Evaluator) Option {
	return func(e *TrackerV1) {
		e.evaluator = evaluator
	}
}

// WithClock sets the source of trade and snapshot timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *TrackerV1) {
		e.now = now
	}
}

// WithTickSource replaces the wall-clock ticker.
func WithTickSource(source TickSource) Option {
	return func(e *TrackerV1) {
		e.tickSource = source
	}
}

// TrackerV1 is the single-goroutine simulation loop. Only Run mutates the
// ledgers; Latest and Trades read copies published under mu.
type TrackerV1 struct {
	cfg        config.Config
	feed       provider.PriceFeed
	inputs     <-chan types.InputEvent
	log        *logger.Logger
	evaluator  strategy.Evaluator
	sizing     strategy.Sizing
	risk       *risk.Manager
	simulator  *Simulator
	portfolio  *Portfolio
	indicators *indicator.Engine
	series     map[string]*datasource.PriceSeries
	now        func() time.Time
	tickSource TickSource

	lastPrices     map[string]float64
	lastIndicators map[string]indicator.Snapshot
	entered        map[string]bool
	pending        []types.InputEvent
	quit           bool
	// currentTick is the last tick started, complete or not.
	currentTick    int
	localFallbacks int
	fallbacks      int

	sessionManager *session.Manager
	tradesWriter   *writers.TradesWriter
	equityWriter   *writers.EquityWriter

	mu        sync.RWMutex
	ran       bool
	snapshots []types.PortfolioSnapshot
	trades    []types.Trade
	result    engine.Result
}

var _ engine.Engine = (*TrackerV1)(nil)

// NewEngine wires a tracker for cfg. inputs may be nil when nothing sends
// user actions.
func NewEngine(cfg config.Config, feed provider.PriceFeed, inputs <-chan types.InputEvent, log *logger.Logger, opts ...Option) (*TrackerV1, error) {
	if feed == nil {
		return nil, errors.New(errors.ErrCodeEngineNoFeed, "price feed is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEngineInitFailed, "invalid configuration", err)
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	sim := cfg.Simulation

	indicators, err := indicator.NewEngine(sim.MAShortPeriod, sim.MALongPeriod, sim.RSIPeriod)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEngineInitFailed, "failed to create indicators", err)
	}

	e := &TrackerV1{
		cfg:            cfg,
		feed:           feed,
		inputs:         inputs,
		log:            log,
		evaluator:      nil,
		sizing:         strategy.NewSizing(sim),
		risk:           risk.NewManagerFromConfig(cfg),
		simulator:      NewSimulator(sim.SlippagePct, commission_fee.ForPct(sim.CommissionPct)),
		portfolio:      NewPortfolio(sim.Assets, sim.InitialCapital),
		indicators:     indicators,
		series:         make(map[string]*datasource.PriceSeries, len(sim.Assets)),
		now:            time.Now,
		tickSource:     TimeTicker,
		lastPrices:     map[string]float64{},
		lastIndicators: map[string]indicator.Snapshot{},
		entered:        map[string]bool{},
		pending:        []types.InputEvent{},
		quit:           false,
		currentTick:    0,
		localFallbacks: 0,
		fallbacks:      0,
		sessionManager: nil,
		tradesWriter:   nil,
		equityWriter:   nil,
		mu:             sync.RWMutex{},
		ran:            false,
		snapshots:      []types.PortfolioSnapshot{},
		trades:         []types.Trade{},
		result:         engine.Result{}, //nolint:exhaustruct // filled when Run returns
	}

	for _, symbol := range sim.Assets {
		e.series[symbol] = datasource.NewPriceSeries(symbol, sim.HistoryCapacity)
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.evaluator == nil {
		evaluator, err := strategy.New(cfg)
		if err != nil {
			return nil, err
		}

		e.evaluator = evaluator
	}

	return e, nil
}

// Run executes the simulation. Cancellation, a quit input and the tick
// budget all end the run normally: open positions are closed, the final
// snapshot is taken and the metrics are computed before OnEngineStop.
func (e *TrackerV1) Run(ctx context.Context, callbacks engine.Callbacks) error {
	var runErr error

	e.mu.Lock()
	if e.ran {
		e.mu.Unlock()

		return errors.New(errors.ErrCodeEngineAlreadyRan, "engine has already run")
	}

	e.ran = true
	e.mu.Unlock()

	startedAt := e.now()
	ticks := 0
	stopReason := engine.StopReasonError

	// Always liquidate, report and clean up when Run exits
	defer func() {
		e.finish(startedAt, ticks, stopReason, callbacks)
		e.closeWriters()
		e.writeStats()

		if callbacks.OnEngineStop != nil {
			(*callbacks.OnEngineStop)(runErr, e.Result())
		}
	}()

	if err := e.openSession(startedAt); err != nil {
		runErr = err

		return err
	}

	if err := e.warmUp(ctx); err != nil {
		if ctx.Err() != nil {
			stopReason = engine.StopReasonCancelled

			return nil
		}

		runErr = err

		return err
	}

	if callbacks.OnEngineStart != nil {
		if err := (*callbacks.OnEngineStart)(e.portfolio.Symbols(), e.runID(), e.runPath()); err != nil {
			runErr = errors.Wrap(errors.ErrCodeCallbackFailed, "OnEngineStart callback failed", err)

			return runErr
		}
	}

	if len(e.lastPrices) == len(e.series) {
		if err := e.snapshot(0, callbacks); err != nil {
			runErr = err

			return err
		}
	}

	tickCh, stop := e.tickSource(e.cfg.LogicTickInterval())
	defer stop()

	maxTicks := e.cfg.Simulation.MaxTicks

	for maxTicks == 0 || ticks < maxTicks {
		if !e.waitForTick(ctx, tickCh) {
			if e.quit {
				stopReason = engine.StopReasonQuit
			} else {
				stopReason = engine.StopReasonCancelled
			}

			return nil
		}

		tick := ticks + 1

		if err := e.step(ctx, tick, callbacks); err != nil {
			if ctx.Err() != nil {
				stopReason = engine.StopReasonCancelled

				return nil
			}

			runErr = err

			return err
		}

		ticks = tick

		if e.quit {
			stopReason = engine.StopReasonQuit

			return nil
		}
	}

	stopReason = engine.StopReasonMaxTicks

	return nil
}

// Latest returns the most recent snapshot.
func (e *TrackerV1) Latest() (types.PortfolioSnapshot, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if len(e.snapshots) == 0 {
		return types.PortfolioSnapshot{}, false //nolint:exhaustruct // nothing published yet
	}

	return e.snapshots[len(e.snapshots)-1], true
}

// Trades returns a copy of the trade log so far.
func (e *TrackerV1) Trades() []types.Trade {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return slices.Clone(e.trades)
}

// Result returns the outcome of the finished run.
func (e *TrackerV1) Result() engine.Result {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.result
}

// waitForTick blocks until the next logic tick. Inputs arriving in the
// meantime are queued; a quit input ends the wait. It returns false when
// the loop must stop.
func (e *TrackerV1) waitForTick(ctx context.Context, tickCh <-chan time.Time) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-e.inputs:
			if !ok {
				e.inputs = nil

				continue
			}

			if ev.Type == types.InputEventQuit {
				e.quit = true

				return false
			}

			e.pending = append(e.pending, ev)
		case <-tickCh:
			return true
		}
	}
}

func (e *TrackerV1) openSession(now time.Time) error {
	if e.cfg.Output.Path == "" {
		return nil
	}

	e.sessionManager = session.NewManager(e.log)
	if err := e.sessionManager.Initialize(e.cfg.Output.Path, now); err != nil {
		return errors.Wrap(errors.ErrCodeSessionInitFailed, "failed to initialize session", err)
	}

	if !e.cfg.Output.Parquet {
		return nil
	}

	e.tradesWriter = writers.NewTradesWriter(e.sessionManager.FilePath(report.TradesFileName))
	if err := e.tradesWriter.Initialize(); err != nil {
		e.tradesWriter = nil

		return errors.Wrap(errors.ErrCodeSessionInitFailed, "failed to initialize trades writer", err)
	}

	e.equityWriter = writers.NewEquityWriter(e.sessionManager.FilePath(report.EquityFileName))
	if err := e.equityWriter.Initialize(); err != nil {
		e.equityWriter = nil

		return errors.Wrap(errors.ErrCodeSessionInitFailed, "failed to initialize equity writer", err)
	}

	return nil
}

// warmUp fills every price series from the feed's history so indicators
// can be ready on the first tick.
func (e *TrackerV1) warmUp(ctx context.Context) error {
	history, err := e.feed.FetchInitialHistory(ctx, e.cfg.WarmupLength())
	if err != nil {
		if ctx.Err() != nil {
			return errors.Wrap(errors.ErrCodeHistoryUnavailable, "warm-up cancelled", err)
		}

		e.log.Warn("Failed to fetch initial history, starting with empty windows",
			zap.String("feed", e.feed.Name()),
			zap.Error(err),
		)

		return nil
	}

	for _, symbol := range e.portfolio.Symbols() {
		closes := history[symbol]
		if len(closes) == 0 {
			continue
		}

		series := e.series[symbol]
		series.AppendAll(closes)

		e.lastPrices[symbol] = closes[len(closes)-1]
		e.lastIndicators[symbol] = e.indicators.Update(series)
	}

	e.log.Info("Warm-up complete",
		zap.String("feed", e.feed.Name()),
		zap.Int("window", e.cfg.WarmupLength()),
		zap.Int("assets_seeded", len(e.lastPrices)),
	)

	return nil
}

// step runs one logic tick.
func (e *TrackerV1) step(ctx context.Context, tick int, callbacks engine.Callbacks) error {
	e.currentTick = tick

	prices, err := e.fetchPrices(ctx, tick, callbacks)
	if err != nil {
		return err
	}

	for _, symbol := range e.portfolio.Symbols() {
		series := e.series[symbol]
		series.Append(prices[symbol])
		e.lastIndicators[symbol] = e.indicators.Update(series)
	}

	e.lastPrices = prices
	at := e.now()

	e.drainInputs()

	for _, ledger := range e.portfolio.Ledgers() {
		if err := e.decide(ledger, tick, at, callbacks); err != nil {
			return err
		}
	}

	if err := e.applyManual(tick, at, callbacks); err != nil {
		return err
	}

	if err := e.snapshot(tick, callbacks); err != nil {
		return err
	}

	if callbacks.OnTick != nil {
		if err := (*callbacks.OnTick)(tick, copyPrices(prices)); err != nil {
			return errors.Wrap(errors.ErrCodeCallbackFailed, "OnTick callback failed", err)
		}
	}

	return nil
}

// fetchPrices returns a positive price for every asset. A failed fetch or
// a missing ticker holds the last known price.
func (e *TrackerV1) fetchPrices(ctx context.Context, tick int, callbacks engine.Callbacks) (map[string]float64, error) {
	fetched, err := e.feed.FetchLatestPrices(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		e.log.Warn("Failed to fetch latest prices, holding last prices",
			zap.String("feed", e.feed.Name()),
			zap.Int("tick", tick),
			zap.Error(err),
		)

		fetched = map[string]float64{}
	}

	prices := make(map[string]float64, len(e.series))
	held := false

	for _, symbol := range e.portfolio.Symbols() {
		price, ok := fetched[symbol]
		if ok && price > 0 && !math.IsNaN(price) && !math.IsInf(price, 0) {
			prices[symbol] = price

			continue
		}

		last, known := e.lastPrices[symbol]
		if !known {
			return nil, errors.Newf(errors.ErrCodeMissingTickPrice, "no price for %s at tick %d", symbol, tick)
		}

		prices[symbol] = last
		held = true
	}

	if held {
		e.localFallbacks++
	}

	total := e.localFallbacks
	if reporter, ok := e.feed.(provider.FallbackReporter); ok {
		total += reporter.Fallbacks()
	}

	if total > e.fallbacks {
		e.fallbacks = total

		if callbacks.OnFeedFallback != nil {
			(*callbacks.OnFeedFallback)(tick, total)
		}
	}

	return prices, nil
}

// drainInputs queues every input already waiting on the channel.
func (e *TrackerV1) drainInputs() {
	for e.inputs != nil {
		select {
		case ev, ok := <-e.inputs:
			if !ok {
				e.inputs = nil

				return
			}

			if ev.Type == types.InputEventQuit {
				e.quit = true

				continue
			}

			e.pending = append(e.pending, ev)
		default:
			return
		}
	}
}

// decide emits at most one automatic order for the asset: a risk exit
// first, then the initial entry, then the strategy.
func (e *TrackerV1) decide(ledger *AssetLedger, tick int, at time.Time, callbacks engine.Callbacks) error {
	symbol := ledger.Symbol()
	ind := e.lastIndicators[symbol]

	if !ind.Ready() {
		return nil
	}

	price := e.lastPrices[symbol]

	if exit := e.risk.Check(ledger.Position(), price); exit.IsSome() {
		return e.execute(ledger, exit.Unwrap(), tick, at, callbacks)
	}

	if e.cfg.Strategy.InitialEntry && !e.entered[symbol] {
		e.entered[symbol] = true

		if !ledger.Position().IsOpen() {
			return e.execute(ledger, types.Order{
				Symbol:   symbol,
				Side:     types.SideBuy,
				Reason:   types.OrderReasonInitialEntry,
				Quantity: e.sizing.BuyQuantity(ledger.Cash(), price),
			}, tick, at, callbacks)
		}
	}

	order := e.evaluator.Evaluate(strategy.Input{
		Symbol:     symbol,
		Indicators: ind,
		Position:   ledger.Position(),
		Cash:       ledger.Cash(),
		Price:      price,
	})
	if order.IsNone() {
		return nil
	}

	return e.execute(ledger, order.Unwrap(), tick, at, callbacks)
}

// applyManual executes queued user actions. An empty symbol targets every
// asset.
func (e *TrackerV1) applyManual(tick int, at time.Time, callbacks engine.Callbacks) error {
	events := e.pending
	e.pending = []types.InputEvent{}

	for _, ev := range events {
		targets := e.portfolio.Ledgers()

		if ev.Symbol != "" {
			ledger, err := e.portfolio.Ledger(ev.Symbol)
			if err != nil {
				e.log.Warn("Ignoring input for unknown asset", zap.String("symbol", ev.Symbol), zap.Error(err))

				continue
			}

			targets = []*AssetLedger{ledger}
		}

		for _, ledger := range targets {
			if err := e.manualOrder(ledger, ev.Type, tick, at, callbacks); err != nil {
				return err
			}
		}
	}

	return nil
}

func (e *TrackerV1) manualOrder(ledger *AssetLedger, kind types.InputEventType, tick int, at time.Time, callbacks engine.Callbacks) error {
	symbol := ledger.Symbol()

	switch kind {
	case types.InputEventManualBuy:
		return e.execute(ledger, types.Order{
			Symbol:   symbol,
			Side:     types.SideBuy,
			Reason:   types.OrderReasonManualBuy,
			Quantity: e.sizing.BuyQuantity(ledger.Cash(), e.lastPrices[symbol]),
		}, tick, at, callbacks)
	case types.InputEventManualSell:
		order := types.Order{
			Symbol:   symbol,
			Side:     types.SideSell,
			Reason:   types.OrderReasonManualSell,
			Quantity: ledger.Position().Quantity,
		}

		if !ledger.Position().IsOpen() {
			e.reject(order, types.RejectReasonNoPosition, callbacks)

			return nil
		}

		return e.execute(ledger, order, tick, at, callbacks)
	case types.InputEventQuit:
		return nil
	default:
		e.log.Warn("Ignoring unknown input", zap.String("type", string(kind)))

		return nil
	}
}

func (e *TrackerV1) execute(ledger *AssetLedger, order types.Order, tick int, at time.Time, callbacks engine.Callbacks) error {
	result, err := e.simulator.Apply(ledger, order, e.lastPrices[order.Symbol], tick, at)
	if err != nil {
		return err
	}

	if !result.Accepted {
		e.reject(order, result.Reason, callbacks)

		return nil
	}

	trade := result.Trade

	e.mu.Lock()
	e.trades = append(e.trades, trade)
	e.mu.Unlock()

	e.log.Info("Trade executed",
		zap.Int("tick", tick),
		zap.String("symbol", trade.Symbol),
		zap.String("label", trade.Label()),
		zap.Float64("price", trade.ExecutionPrice),
		zap.Float64("quantity", trade.Quantity),
		zap.Float64("pnl", trade.PnL),
	)

	if e.tradesWriter != nil {
		if err := e.tradesWriter.Write(trade); err != nil {
			e.log.Warn("Failed to write trade", zap.String("trade_id", trade.ID), zap.Error(err))
		}
	}

	if callbacks.OnTrade != nil {
		if err := (*callbacks.OnTrade)(trade); err != nil {
			return errors.Wrap(errors.ErrCodeCallbackFailed, "OnTrade callback failed", err)
		}
	}

	return nil
}

func (e *TrackerV1) reject(order types.Order, reason types.RejectReason, callbacks engine.Callbacks) {
	e.log.Debug("Order rejected",
		zap.String("symbol", order.Symbol),
		zap.String("label", order.Reason.Label(order.Side)),
		zap.Float64("quantity", order.Quantity),
		zap.String("reason", string(reason)),
	)

	if callbacks.OnOrderRejected != nil {
		(*callbacks.OnOrderRejected)(order, reason)
	}
}

func (e *TrackerV1) snapshot(tick int, callbacks engine.Callbacks) error {
	snap, err := e.portfolio.Snapshot(tick, e.lastPrices, e.lastIndicators, e.now())
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.snapshots = append(e.snapshots, snap)
	e.mu.Unlock()

	if e.equityWriter != nil {
		if err := e.equityWriter.Write(snap); err != nil {
			e.log.Warn("Failed to write equity point", zap.Int("tick", tick), zap.Error(err))
		}
	}

	if callbacks.OnSnapshot != nil {
		if err := (*callbacks.OnSnapshot)(snap); err != nil {
			return errors.Wrap(errors.ErrCodeCallbackFailed, "OnSnapshot callback failed", err)
		}
	}

	return nil
}

// finish closes every open position at its last price, takes the final
// snapshot and publishes the Result. Callback failures here are logged
// only; the run is already over.
func (e *TrackerV1) finish(startedAt time.Time, ticks int, reason engine.StopReason, callbacks engine.Callbacks) {
	at := e.now()
	closeTick := e.currentTick

	for _, ledger := range e.portfolio.Ledgers() {
		pos := ledger.Position()
		if !pos.IsOpen() {
			continue
		}

		if _, ok := e.lastPrices[ledger.Symbol()]; !ok {
			continue
		}

		err := e.execute(ledger, types.Order{
			Symbol:   ledger.Symbol(),
			Side:     types.SideSell,
			Reason:   types.OrderReasonFinalClose,
			Quantity: pos.Quantity,
		}, closeTick, at, callbacks)
		if err != nil {
			e.log.Warn("Failed to close position", zap.String("symbol", ledger.Symbol()), zap.Error(err))
		}
	}

	if len(e.lastPrices) == len(e.series) {
		if err := e.snapshot(closeTick, callbacks); err != nil {
			e.log.Warn("Failed to take final snapshot", zap.Error(err))
		}
	}

	trades := e.portfolio.Trades()
	m := metrics.Calculate(e.portfolio.Equity(), trades, e.portfolio.InitialCapital(), e.cfg.TicksPerYear())

	if len(e.lastPrices) == len(e.series) {
		m.BenchmarkReturnPct = metrics.ReturnPct(e.portfolio.InitialCapital(), e.portfolio.BenchmarkValue(e.lastPrices))
	}

	e.mu.Lock()
	e.result = engine.Result{
		RunID:         e.runID(),
		RunPath:       e.runPath(),
		Strategy:      e.evaluator.Name(),
		StartedAt:     startedAt,
		EndedAt:       at,
		Ticks:         ticks,
		StopReason:    reason,
		FeedFallbacks: e.fallbacks,
		Snapshots:     slices.Clone(e.snapshots),
		Trades:        trades,
		Positions:     e.portfolio.Positions(),
		FinalPrices:   copyPrices(e.lastPrices),
		Metrics:       m,
	}
	e.mu.Unlock()

	e.log.Info("Simulation finished",
		zap.String("stop_reason", string(reason)),
		zap.Int("ticks", ticks),
		zap.Int("trades", len(trades)),
		zap.Float64("final_value", m.FinalValue),
		zap.Float64("return_pct", m.ReturnPct),
	)
}

func (e *TrackerV1) closeWriters() {
	if e.tradesWriter != nil {
		if err := e.tradesWriter.Flush(); err != nil {
			e.log.Warn("Failed to flush trades writer", zap.Error(err))
		}

		if err := e.tradesWriter.Close(); err != nil {
			e.log.Warn("Failed to close trades writer", zap.Error(err))
		}
	}

	if e.equityWriter != nil {
		if err := e.equityWriter.Flush(); err != nil {
			e.log.Warn("Failed to flush equity writer", zap.Error(err))
		}

		if err := e.equityWriter.Close(); err != nil {
			e.log.Warn("Failed to close equity writer", zap.Error(err))
		}
	}
}

func (e *TrackerV1) writeStats() {
	if e.sessionManager == nil {
		return
	}

	if err := report.WriteStats(e.sessionManager.FilePath(report.StatsFileName), e.Result()); err != nil {
		e.log.Warn("Failed to write final stats", zap.Error(err))
	}
}

func (e *TrackerV1) runID() string {
	if e.sessionManager == nil {
		return ""
	}

	return e.sessionManager.RunID()
}

func (e *TrackerV1) runPath() string {
	if e.sessionManager == nil {
		return ""
	}

	return e.sessionManager.RunPath()
}

func copyPrices(prices map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(prices))
	for symbol, price := range prices {
		out[symbol] = price
	}

	return out
}
