package dashboard

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle = lipgloss.NewStyle().Bold(true)

	HelpStyle = lipgloss.NewStyle().Faint(true)

	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	GainStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	LossStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	// WalletStyle frames the balance panel.
	WalletStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// FormatPrice appends a direction arrow relative to previous.
func FormatPrice(current, previous float64) string {
	s := fmt.Sprintf("%.4f", current)

	switch {
	case previous == 0:
		return s
	case current > previous:
		return s + " ▲"
	case current < previous:
		return s + " ▼"
	default:
		return s
	}
}

// FormatSigned renders v with an explicit sign, colored by direction.
func FormatSigned(v float64, format string) string {
	s := fmt.Sprintf("%+"+format, v)

	switch {
	case v > 0:
		return GainStyle.Render(s)
	case v < 0:
		return LossStyle.Render(s)
	default:
		return s
	}
}
