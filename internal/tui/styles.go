package tui

import (
	"strings"

	"github.com/chimera/logmind/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// Palette (ANSI 256).
const (
	ColorRed      = lipgloss.Color("196")
	ColorOrange   = lipgloss.Color("208")
	ColorYellow   = lipgloss.Color("220")
	ColorGreen    = lipgloss.Color("42")
	ColorBlue     = lipgloss.Color("39")
	ColorMagenta  = lipgloss.Color("201")
	ColorCyan     = lipgloss.Color("51")
	ColorWhite    = lipgloss.Color("15")
	ColorGray     = lipgloss.Color("245")
	ColorDarkGray = lipgloss.Color("238")
	ColorNavy     = lipgloss.Color("17")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(ColorCyan).
			Bold(true)

	tabStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true).
			Underline(true).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Background(ColorNavy).
			Foreground(ColorWhite)

	statusErrorStyle = lipgloss.NewStyle().
				Background(ColorNavy).
				Foreground(ColorRed)

	inputStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	helpTitleStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	selectedStyle = lipgloss.NewStyle().
			Background(ColorDarkGray).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)
)

// panelStyle frames one content block.
func panelStyle(width, height int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(max(width-2, 1)).
		Height(max(height-2, 1)).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBlue)
}

// band maps values strictly above a threshold to a color. Bands are checked
// in order, so list them from the highest threshold down.
type band struct {
	above float64
	color lipgloss.Color
}

func bandColor(v float64, bands []band, otherwise lipgloss.Color) lipgloss.Color {
	for _, b := range bands {
		if v > b.above {
			return b.color
		}
	}
	return otherwise
}

var (
	anomalyBands    = []band{{0.8, ColorRed}, {0.6, ColorYellow}}
	similarityBands = []band{{0.8, ColorGreen}, {0.6, ColorYellow}}
	cpuBands        = []band{{0.8, ColorRed}, {0.6, ColorYellow}}
	memoryBands     = []band{{0.9, ColorRed}, {0.7, ColorYellow}}
	diskBands       = []band{{0.9, ColorRed}, {0.8, ColorYellow}}
)

func anomalyColor(score float64) lipgloss.Color { return bandColor(score, anomalyBands, ColorGreen) }
func similarityColor(sim float64) lipgloss.Color { return bandColor(sim, similarityBands, ColorRed) }
func cpuColor(v float64) lipgloss.Color          { return bandColor(v, cpuBands, ColorGreen) }
func memoryColor(v float64) lipgloss.Color       { return bandColor(v, memoryBands, ColorGreen) }
func diskColor(v float64) lipgloss.Color         { return bandColor(v, diskBands, ColorGreen) }

// logSeverityColor colors journal/syslog severities.
func logSeverityColor(severity string) lipgloss.Color {
	switch strings.ToUpper(severity) {
	case "EMERG", "ALERT", "CRIT", "CRITICAL", "ERR", "ERROR":
		return ColorRed
	case "WARNING", "WARN":
		return ColorYellow
	case "NOTICE", "INFO":
		return ColorGreen
	case "DEBUG":
		return ColorBlue
	default:
		return ColorWhite
	}
}

// alertSeverityStyle styles health alert severities.
func alertSeverityStyle(severity string) lipgloss.Style {
	s := lipgloss.NewStyle()
	switch strings.ToUpper(severity) {
	case "CRITICAL":
		return s.Foreground(ColorRed).Bold(true)
	case "HIGH":
		return s.Foreground(ColorMagenta)
	case "MEDIUM", "WARNING":
		return s.Foreground(ColorYellow)
	case "LOW":
		return s.Foreground(ColorBlue)
	default:
		return s.Foreground(ColorWhite)
	}
}

func auditStatusColor(status model.AuditStatus) lipgloss.Color {
	switch status {
	case model.AuditCompleted:
		return ColorGreen
	case model.AuditFailed:
		return ColorRed
	case model.AuditRunning:
		return ColorYellow
	default:
		return ColorGray
	}
}

// sourceMarker returns the enabled/disabled glyph and its color.
func sourceMarker(enabled bool) (string, lipgloss.Color) {
	if enabled {
		return "✓", ColorGreen
	}
	return "✗", ColorRed
}

func fg(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
