package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/itohio/sailtrim/pkg/trim"
)

var (
	ColorIrons    = lipgloss.Color("#888888")
	ColorPort     = lipgloss.Color("#FF4136")
	ColorStbd     = lipgloss.Color("#2ECC40")
	ColorDownwind = lipgloss.Color("#0074D9")
	ColorGybe     = lipgloss.Color("#FFDC00")
	ColorDim      = lipgloss.Color("#555555")
	ColorWarning  = lipgloss.Color("#FF851B")
)

var (
	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	StyleDim = lipgloss.NewStyle().
			Foreground(ColorDim)

	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	StylePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

// regimeStyle colours text by regime and downwind phase.
func regimeStyle(r trim.Regime, d trim.Downwind) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	switch r {
	case trim.PortTack:
		return s.Foreground(ColorPort)
	case trim.StarboardTack:
		return s.Foreground(ColorStbd)
	case trim.DownwindRunOrGybe:
		if d == trim.Gybe {
			return s.Foreground(ColorGybe)
		}
		return s.Foreground(ColorDownwind)
	}
	return s.Foreground(ColorIrons)
}

// regimeName names the regime, including the downwind phase.
func regimeName(r trim.Regime, d trim.Downwind) string {
	if r == trim.DownwindRunOrGybe {
		return d.String()
	}
	return r.String()
}
