package tui

import (
	"fmt"
	"slices"

	"github.com/chimera/logmind/internal/model"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

func (m *DashboardModel) renderHealthTab(width, height int) string {
	leftWidth := min(max(width*2/5, 40), width)
	rightWidth := width - leftWidth

	system := renderTextPanel("System Health", m.healthLines(leftWidth-4), leftWidth, height)

	lines := make([]string, 0, m.alerts.Len())
	for _, a := range m.alerts.Items() {
		lines = append(lines, m.healthAlertLine(a))
	}
	alerts := renderListPanel(fmt.Sprintf("Alerts (%d active)", m.activeAlerts()), lines, m.alerts.Cursor(),
		rightWidth, height, "No alerts")

	if rightWidth <= 10 {
		return system
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, system, alerts)
}

func (m *DashboardModel) activeAlerts() int {
	n := 0
	for _, a := range m.alerts.Items() {
		if !a.Acknowledged {
			n++
		}
	}
	return n
}

func (m *DashboardModel) healthAlertLine(a model.Alert) string {
	return fmt.Sprintf("%s %s %s: %s",
		shortID(a.ID),
		alertSeverityStyle(a.Severity).Render("["+a.Severity+"]"),
		ago(a.Timestamp, m.now),
		truncate(a.Message, widthHealthAlert),
	)
}

func (m *DashboardModel) healthLines(width int) []string {
	h := m.health
	if h == nil {
		return []string{dimStyle.Render("No health data. Press 'r' to refresh.")}
	}

	gaugeWidth := max(width-18, 10)
	lines := []string{
		gauge("CPU", h.CPUPercent, cpuColor(h.CPUPercent), gaugeWidth),
		gauge("Memory", h.MemoryPercent, memoryColor(h.MemoryPercent), gaugeWidth),
		gauge("Disk", h.DiskPercent, diskColor(h.DiskPercent), gaugeWidth),
		"",
		fmt.Sprintf("Load Average: %.2f, %.2f, %.2f", h.Load1, h.Load5, h.Load15),
		"Uptime: " + formatUptime(h.UptimeSeconds),
		fmt.Sprintf("Network Connections: %d", h.NetworkConnections),
		fmt.Sprintf("Services: %d running", runningServices(h.Services)),
	}
	if len(h.Services) > 0 {
		lines = append(lines, "", servicesTable(h.Services, width))
	}
	return lines
}

func gauge(label string, v float64, c lipgloss.Color, width int) string {
	bar := progress.New(
		progress.WithSolidFill(string(c)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	return fmt.Sprintf("%-7s %s %6s", label, bar.ViewAs(min(max(v, 0), 1)), percent(v))
}

func runningServices(services map[string]bool) int {
	n := 0
	for _, up := range services {
		if up {
			n++
		}
	}
	return n
}

// servicesTable lists services by name with their state.
func servicesTable(services map[string]bool, width int) string {
	names := make([]string, 0, len(services))
	for name := range services {
		names = append(names, name)
	}
	slices.Sort(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		state := "stopped"
		if services[name] {
			state = "running"
		}
		rows = append(rows, []string{name, state})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorGray)).
		Width(min(width, 50)).
		Headers("Service", "State").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return s.Foreground(ColorBlue).Bold(true)
			case col == 1 && row >= 0 && row < len(rows):
				if rows[row][1] == "running" {
					return s.Foreground(ColorGreen)
				}
				return s.Foreground(ColorRed)
			}
			return s
		}).
		Render()
}
