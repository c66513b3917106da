package dashboard

import (
	"bytes"
	"math/rand"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-tracker/internal/config"
	"github.com/rxtech-lab/argo-tracker/internal/simulation/engine"
	"github.com/rxtech-lab/argo-tracker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Simulation.Assets = []string{"BRCN", "ETHUSDT"}
	cfg.Display.MicroNoisePct = 0

	return cfg
}

func testSnapshot(tick int, prices ...float64) types.PortfolioSnapshot {
	symbols := []string{"BRCN", "ETHUSDT"}
	assets := make([]types.AssetState, 0, len(prices))
	total := 0.0

	for i, p := range prices {
		assets = append(assets, types.AssetState{ //nolint:exhaustruct // flat positions
			Symbol: symbols[i],
			Price:  p,
			Cash:   500,
			Value:  500,
		})
		total += 500
	}

	return types.PortfolioSnapshot{
		Timestamp:           time.Date(2026, 1, 2, 15, 0, tick, 0, time.UTC),
		TickIndex:           tick,
		TotalValue:          total,
		Assets:              assets,
		BenchmarkIndexValue: total,
		PeakValue:           total,
		DrawdownPct:         0,
	}
}

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()

	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)

	return out
}

func TestNewModel(t *testing.T) {
	m := NewModel(testConfig(), nil, nil)

	assert.Equal(t, []string{"BRCN", "ETHUSDT"}, m.symbols)
	assert.Equal(t, "threshold", m.strategy)
	assert.True(t, m.latest.IsNone())
	assert.True(t, m.stopped.IsNone())
	assert.NotNil(t, m.rng)
	assert.Contains(t, m.View(), "Loading price history")
}

func TestKeysSendInputEvents(t *testing.T) {
	inputs := make(chan types.InputEvent, 8)
	m := NewModel(testConfig(), inputs, nil)
	m = update(t, m, SnapshotMsg{Snapshot: testSnapshot(1, 0.5, 2000)})

	m = update(t, m, key('b'))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, key('s'))
	m = update(t, m, key('B'))
	m = update(t, m, key('S'))
	m = update(t, m, key('q'))
	m = update(t, m, key('q'))

	close(inputs)

	var got []types.InputEvent
	for ev := range inputs {
		got = append(got, ev)
	}

	assert.Equal(t, []types.InputEvent{
		{Type: types.InputEventManualBuy, Symbol: "BRCN"},
		{Type: types.InputEventManualSell, Symbol: "ETHUSDT"},
		{Type: types.InputEventManualBuy, Symbol: ""},
		{Type: types.InputEventManualSell, Symbol: ""},
		{Type: types.InputEventQuit, Symbol: ""},
	}, got)
	assert.True(t, m.quitting)
	assert.Contains(t, m.View(), "Closing positions")
}

func TestFullInputQueueDoesNotBlock(t *testing.T) {
	inputs := make(chan types.InputEvent)
	m := NewModel(testConfig(), inputs, nil)
	m = update(t, m, SnapshotMsg{Snapshot: testSnapshot(1, 0.5, 2000)})

	m = update(t, m, key('b'))

	assert.Equal(t, "input queue full, key ignored", m.notice)
}

func TestMicroNoiseStaysInDisplay(t *testing.T) {
	cfg := testConfig()
	cfg.Display.MicroNoisePct = 0.01

	m := NewModel(cfg, nil, rand.New(rand.NewSource(7)))
	m = update(t, m, SnapshotMsg{Snapshot: testSnapshot(1, 100, 2000)})

	for range 20 {
		m = update(t, m, refreshMsg{})

		assert.InDelta(t, 100, m.display["BRCN"], 1)
		assert.InDelta(t, 2000, m.display["ETHUSDT"], 20)
	}

	// the snapshot itself is never touched
	assert.Equal(t, 100.0, m.latest.Unwrap().Assets[0].Price)
}

func TestRefreshWithoutSnapshot(t *testing.T) {
	m := NewModel(testConfig(), nil, nil)

	next, cmd := m.Update(refreshMsg{})
	assert.NotNil(t, cmd)
	assert.Empty(t, next.(Model).display)
}

func TestTradesAndRejections(t *testing.T) {
	m := NewModel(testConfig(), nil, nil)
	m = update(t, m, SnapshotMsg{Snapshot: testSnapshot(1, 0.5, 2000)})

	m = update(t, m, RejectedMsg{
		Order:  types.Order{Symbol: "BRCN", Side: types.SideSell, Reason: types.OrderReasonManualSell, Quantity: 0},
		Reason: types.RejectReasonNoPosition,
	})
	assert.Equal(t, "SELL BRCN rejected: no_position", m.notice)

	m = update(t, m, TradeMsg{Trade: types.Trade{ //nolint:exhaustruct // display fields only
		Tick: 2, Symbol: "BRCN", Side: types.SideBuy, Reason: types.OrderReasonManualBuy, Quantity: 10, ExecutionPrice: 0.5,
	}})
	m = update(t, m, FallbackMsg{Tick: 3, Total: 2})

	assert.Empty(t, m.notice)
	assert.Len(t, m.trades, 1)

	view := m.View()
	assert.Contains(t, view, "BUY_MANUAL")
	assert.Contains(t, view, "Feed fallbacks: 2")
}

func TestDashboardRun(t *testing.T) {
	m := NewModel(testConfig(), nil, nil)
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 40))

	tm.Send(SnapshotMsg{Snapshot: testSnapshot(4, 0.5, 2000)})

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Wallet")) && bytes.Contains(bts, []byte("ETHUSDT"))
	}, teatest.WithDuration(2*time.Second))

	final := testSnapshot(5, 0.5, 2000)
	tm.Send(StoppedMsg{Err: nil, Result: engine.Result{ //nolint:exhaustruct // only the fields the view reads
		StopReason: engine.StopReasonMaxTicks,
		Snapshots:  []types.PortfolioSnapshot{final},
	}})

	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	fm, ok := tm.FinalModel(t).(Model)
	require.True(t, ok)
	assert.Equal(t, 5, fm.latest.Unwrap().TickIndex)
	assert.Contains(t, fm.View(), "Run finished (max_ticks)")
}

func TestQuitAfterStop(t *testing.T) {
	m := NewModel(testConfig(), nil, nil)
	m.stopped = optional.Some(StoppedMsg{Err: nil, Result: engine.Result{}}) //nolint:exhaustruct // empty result

	_, cmd := m.Update(key('q'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestCallbacksForward(t *testing.T) {
	var msgs []tea.Msg

	var stopped bool

	next := engine.OnEngineStopCallback(func(error, engine.Result) { stopped = true })
	cbs := Callbacks(func(msg tea.Msg) { msgs = append(msgs, msg) }, engine.Callbacks{OnEngineStop: &next}) //nolint:exhaustruct // stop only

	require.NoError(t, (*cbs.OnSnapshot)(testSnapshot(1, 0.5)))
	require.NoError(t, (*cbs.OnTrade)(types.Trade{ID: "t"})) //nolint:exhaustruct // minimal trade
	(*cbs.OnOrderRejected)(types.Order{}, types.RejectReasonInsufficientFunds) //nolint:exhaustruct // empty order
	(*cbs.OnFeedFallback)(2, 1)
	(*cbs.OnEngineStop)(nil, engine.Result{}) //nolint:exhaustruct // empty result

	assert.True(t, stopped)
	require.Len(t, msgs, 5)
	assert.IsType(t, SnapshotMsg{}, msgs[0])
	assert.IsType(t, TradeMsg{}, msgs[1])
	assert.IsType(t, RejectedMsg{}, msgs[2])
	assert.Equal(t, FallbackMsg{Tick: 2, Total: 1}, msgs[3])
	assert.IsType(t, StoppedMsg{}, msgs[4])
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous float64
		want     string
	}{
		{"up", 1.5, 1.0, "1.5000 ▲"},
		{"down", 0.5, 1.0, "0.5000 ▼"},
		{"flat", 1.0, 1.0, "1.0000"},
		{"no previous", 1.0, 0, "1.0000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(tt.current, tt.previous))
		})
	}
}

func TestTradeLinesShowsMostRecent(t *testing.T) {
	assert.Contains(t, TradeLines(nil), "No trades yet")

	trades := make([]types.Trade, 0, 8)
	for i := range 8 {
		trades = append(trades, types.Trade{Tick: 100 + i, Symbol: "BRCN", Side: types.SideBuy, Reason: types.OrderReasonSignal}) //nolint:exhaustruct // display fields only
	}

	lines := TradeLines(trades)
	assert.NotContains(t, lines, "#102 ")
	assert.Contains(t, lines, "#103 ")
	assert.Contains(t, lines, "#107 ")
}

func TestAssetRowsHideIndicatorsUntilReady(t *testing.T) {
	snapshot := testSnapshot(1, 0.5)
	rows := AssetRows(snapshot, map[string]float64{}, map[string]float64{})

	require.Len(t, rows, 1)
	assert.Equal(t, "BRCN", rows[0][0])
	assert.Equal(t, "-", rows[0][4])

	snapshot.Assets[0].IndicatorsReady = true
	snapshot.Assets[0].RSI = 42.31
	rows = AssetRows(snapshot, map[string]float64{"BRCN": 0.51}, map[string]float64{"BRCN": 0.5})

	assert.Equal(t, "42.3", rows[0][4])
	assert.Equal(t, "0.5100 ▲", rows[0][1])
}
