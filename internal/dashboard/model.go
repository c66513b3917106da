// Package dashboard is the interactive terminal view of a running tracker.
// It only renders published snapshots and forwards key presses to the
// engine as input events.
package dashboard

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-tracker/internal/config"
	"github.com/rxtech-lab/argo-tracker/internal/simulation/engine"
	"github.com/rxtech-lab/argo-tracker/internal/types"
)

// Model is the Bubble Tea model for a live run.
type Model struct {
	symbols        []string
	strategy       string
	initialCapital float64
	inputs         chan<- types.InputEvent
	refresh        time.Duration
	noisePct       float64
	rng            *rand.Rand

	assetTable table.Model
	latest     optional.Option[types.PortfolioSnapshot]
	// display holds the rendered prices, real prices plus micro-noise.
	display    map[string]float64
	prevPrices map[string]float64
	trades     []types.Trade
	fallbacks  int
	notice     string
	quitting   bool
	stopped    optional.Option[StoppedMsg]
	width      int
	height     int
}

// NewModel creates a dashboard for cfg that sends key presses to inputs.
func NewModel(cfg config.Config, inputs chan<- types.InputEvent, rng *rand.Rand) Model {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // display noise
	}

	return Model{
		symbols:        cfg.Simulation.Assets,
		strategy:       string(cfg.Strategy.Mode),
		initialCapital: cfg.Simulation.InitialCapital,
		inputs:         inputs,
		refresh:        cfg.RefreshInterval(),
		noisePct:       cfg.Display.MicroNoisePct,
		rng:            rng,
		assetTable:     NewAssetTable(),
		latest:         optional.None[types.PortfolioSnapshot](),
		display:        make(map[string]float64),
		prevPrices:     make(map[string]float64),
		trades:         nil,
		fallbacks:      0,
		notice:         "",
		quitting:       false,
		stopped:        optional.None[StoppedMsg](),
		width:          0,
		height:         0,
	}
}

// Callbacks forwards engine events to send, usually tea.Program.Send,
// before invoking next.
func Callbacks(send func(tea.Msg), next engine.Callbacks) engine.Callbacks {
	out := next

	onSnapshot := engine.OnSnapshotCallback(func(snapshot types.PortfolioSnapshot) error {
		send(SnapshotMsg{Snapshot: snapshot})

		if next.OnSnapshot != nil {
			return (*next.OnSnapshot)(snapshot)
		}

		return nil
	})
	onTrade := engine.OnTradeCallback(func(trade types.Trade) error {
		send(TradeMsg{Trade: trade})

		if next.OnTrade != nil {
			return (*next.OnTrade)(trade)
		}

		return nil
	})
	onRejected := engine.OnOrderRejectedCallback(func(order types.Order, reason types.RejectReason) {
		send(RejectedMsg{Order: order, Reason: reason})

		if next.OnOrderRejected != nil {
			(*next.OnOrderRejected)(order, reason)
		}
	})
	onFallback := engine.OnFeedFallbackCallback(func(tick int, total int) {
		send(FallbackMsg{Tick: tick, Total: total})

		if next.OnFeedFallback != nil {
			(*next.OnFeedFallback)(tick, total)
		}
	})
	onStop := engine.OnEngineStopCallback(func(err error, result engine.Result) {
		if next.OnEngineStop != nil {
			(*next.OnEngineStop)(err, result)
		}

		send(StoppedMsg{Err: err, Result: result})
	})

	out.OnSnapshot = &onSnapshot
	out.OnTrade = &onTrade
	out.OnOrderRejected = &onRejected
	out.OnFeedFallback = &onFallback
	out.OnEngineStop = &onStop

	return out
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(time.Time) tea.Msg { return refreshMsg{} })
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.assetTable.SetWidth(msg.Width)

		return m, nil

	case refreshMsg:
		m.jitter()

		return m, m.tick()

	case SnapshotMsg:
		if m.latest.IsSome() {
			for _, a := range m.latest.Unwrap().Assets {
				m.prevPrices[a.Symbol] = a.Price
			}
		}

		m.latest = optional.Some(msg.Snapshot)
		m.jitter()

		return m, nil

	case TradeMsg:
		m.trades = append(m.trades, msg.Trade)
		m.notice = ""

		return m, nil

	case RejectedMsg:
		m.notice = fmt.Sprintf("%s %s rejected: %s", msg.Order.Side, msg.Order.Symbol, msg.Reason)

		return m, nil

	case FallbackMsg:
		m.fallbacks = msg.Total

		return m, nil

	case StoppedMsg:
		m.stopped = optional.Some(msg)
		if final, ok := msg.Result.Final(); ok {
			m.latest = optional.Some(final)
			m.display = make(map[string]float64)
			m.refreshRows()
		}

		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.assetTable, cmd = m.assetTable.Update(msg)

	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		if m.stopped.IsSome() {
			return m, tea.Quit
		}

		if !m.quitting {
			m.quitting = true
			m.send(types.InputEvent{Type: types.InputEventQuit, Symbol: ""})
		}

		return m, nil

	case "b":
		m.send(types.InputEvent{Type: types.InputEventManualBuy, Symbol: m.selected()})

		return m, nil

	case "s":
		m.send(types.InputEvent{Type: types.InputEventManualSell, Symbol: m.selected()})

		return m, nil

	case "B":
		m.send(types.InputEvent{Type: types.InputEventManualBuy, Symbol: ""})

		return m, nil

	case "S":
		m.send(types.InputEvent{Type: types.InputEventManualSell, Symbol: ""})

		return m, nil
	}

	var cmd tea.Cmd
	m.assetTable, cmd = m.assetTable.Update(msg)

	return m, cmd
}

// send never blocks the UI; a full queue drops the event.
func (m *Model) send(ev types.InputEvent) {
	if m.inputs == nil {
		return
	}

	select {
	case m.inputs <- ev:
		m.notice = ""
	default:
		m.notice = "input queue full, key ignored"
	}
}

func (m Model) selected() string {
	row := m.assetTable.SelectedRow()
	if len(row) == 0 {
		return ""
	}

	return row[0]
}

// jitter recomputes display prices from the latest real prices.
func (m *Model) jitter() {
	if m.latest.IsNone() {
		return
	}

	display := make(map[string]float64, len(m.symbols))
	for _, a := range m.latest.Unwrap().Assets {
		price := a.Price
		if m.noisePct > 0 {
			price *= 1 + (m.rng.Float64()*2-1)*m.noisePct
		}

		display[a.Symbol] = price
	}

	m.display = display
	m.refreshRows()
}

func (m *Model) refreshRows() {
	if m.latest.IsNone() {
		return
	}

	m.assetTable.SetRows(AssetRows(m.latest.Unwrap(), m.display, m.prevPrices))
}

// View implements tea.Model.
func (m Model) View() string {
	var s strings.Builder

	header := fmt.Sprintf("Argo Tracker - %s (%s)", strings.Join(m.symbols, ", "), m.strategy)
	if m.latest.IsSome() {
		header += fmt.Sprintf(" | tick %d", m.latest.Unwrap().TickIndex)
	}

	s.WriteString(TitleStyle.Render(header))
	s.WriteString("\n\n")

	if m.latest.IsNone() {
		s.WriteString("Loading price history...\n\n")
		s.WriteString(HelpStyle.Render("q: quit"))

		return s.String()
	}

	s.WriteString(m.assetTable.View())
	s.WriteString("\n\n")
	s.WriteString(Wallet(m.latest.Unwrap(), m.initialCapital))
	s.WriteString("\n\n")
	s.WriteString(TitleStyle.Render("Recent trades"))
	s.WriteString("\n")
	s.WriteString(TradeLines(m.trades))
	s.WriteString("\n\n")

	if m.fallbacks > 0 {
		s.WriteString(ErrorStyle.Render(fmt.Sprintf("Feed fallbacks: %d", m.fallbacks)))
		s.WriteString("\n")
	}

	if m.notice != "" {
		s.WriteString(ErrorStyle.Render(m.notice))
		s.WriteString("\n")
	}

	switch {
	case m.stopped.IsSome():
		stopped := m.stopped.Unwrap()
		line := fmt.Sprintf("Run finished (%s)", stopped.Result.StopReason)

		if stopped.Err != nil {
			line += ": " + stopped.Err.Error()
		}

		s.WriteString(TitleStyle.Render(line))
	case m.quitting:
		s.WriteString(HelpStyle.Render("Closing positions..."))
	default:
		s.WriteString(HelpStyle.Render("b/s: buy/sell selected | B/S: all assets | up/down: select | q: quit"))
	}

	return s.String()
}
