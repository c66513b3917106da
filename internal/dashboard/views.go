package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/argo-tracker/internal/types"
)

const recentTrades = 5

// NewAssetTable creates the per-asset market table.
func NewAssetTable() table.Model {
	columns := []table.Column{
		{Title: "Symbol", Width: 10},
		{Title: "Price", Width: 14},
		{Title: "MA Short", Width: 10},
		{Title: "MA Long", Width: 10},
		{Title: "RSI", Width: 6},
		{Title: "Qty", Width: 12},
		{Title: "Avg Entry", Width: 10},
		{Title: "Value", Width: 11},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(8),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	t.SetStyles(s)

	return t
}

// AssetRows builds table rows from snapshot using the display prices.
func AssetRows(snapshot types.PortfolioSnapshot, display, previous map[string]float64) []table.Row {
	rows := make([]table.Row, 0, len(snapshot.Assets))

	for _, a := range snapshot.Assets {
		price, ok := display[a.Symbol]
		if !ok {
			price = a.Price
		}

		maShort, maLong, rsi := "-", "-", "-"
		if a.IndicatorsReady {
			maShort = fmt.Sprintf("%.4f", a.MAShort)
			maLong = fmt.Sprintf("%.4f", a.MALong)
			rsi = fmt.Sprintf("%.1f", a.RSI)
		}

		rows = append(rows, table.Row{
			a.Symbol,
			FormatPrice(price, previous[a.Symbol]),
			maShort,
			maLong,
			rsi,
			fmt.Sprintf("%.6f", a.Quantity),
			fmt.Sprintf("%.4f", a.AverageEntryPrice),
			fmt.Sprintf("%.2f", a.Cash+a.Quantity*price),
		})
	}

	return rows
}

// Wallet renders the balance panel.
func Wallet(snapshot types.PortfolioSnapshot, initialCapital float64) string {
	var cash, realized, unrealized float64
	for _, a := range snapshot.Assets {
		cash += a.Cash
		realized += a.RealizedPnL
		unrealized += a.UnrealizedPnL
	}

	ret := 0.0
	if initialCapital > 0 {
		ret = (snapshot.TotalValue - initialCapital) / initialCapital * 100
	}

	lines := []string{
		TitleStyle.Render("Wallet"),
		fmt.Sprintf("Cash        %12.2f", cash),
		fmt.Sprintf("Total       %12.2f", snapshot.TotalValue),
		fmt.Sprintf("Benchmark   %12.2f", snapshot.BenchmarkIndexValue),
		fmt.Sprintf("Return      %12s", FormatSigned(ret, ".2f%%")),
		fmt.Sprintf("Realized    %12s", FormatSigned(realized, ".2f")),
		fmt.Sprintf("Unrealized  %12s", FormatSigned(unrealized, ".2f")),
		fmt.Sprintf("Drawdown    %11.2f%%", snapshot.DrawdownPct),
	}

	return WalletStyle.Render(strings.Join(lines, "\n"))
}

// TradeLines renders the most recent trades, newest last.
func TradeLines(trades []types.Trade) string {
	if len(trades) == 0 {
		return HelpStyle.Render("No trades yet")
	}

	start := max(0, len(trades)-recentTrades)

	var s strings.Builder
	for _, t := range trades[start:] {
		fmt.Fprintf(&s, "#%-4d %-12s %-8s %.6f @ %.4f", t.Tick, t.Label(), t.Symbol, t.Quantity, t.ExecutionPrice)

		if t.Side == types.SideSell {
			s.WriteString("  pnl ")
			s.WriteString(FormatSigned(t.PnL, ".2f"))
		}

		s.WriteString("\n")
	}

	return strings.TrimRight(s.String(), "\n")
}
