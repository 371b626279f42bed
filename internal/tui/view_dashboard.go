package tui

import (
	"fmt"

	"github.com/chimera/logmind/internal/model"

	"github.com/charmbracelet/lipgloss"
)

const dashboardRows = 10

func (m *DashboardModel) renderDashboardTab(width, height int) string {
	stats := fmt.Sprintf("Logs: %d | Alerts: %d | Anomalies: %d | Reports: %d",
		m.logs.Len(), m.alerts.Len(), m.anomalies.Len(), m.reports.Len())

	top := lipgloss.JoinVertical(lipgloss.Left, stats, m.healthSummary())
	panelHeight := height - lipgloss.Height(top)

	logLines := make([]string, 0, dashboardRows)
	for _, r := range head(m.logs.Items(), dashboardRows) {
		logLines = append(logLines, dashboardLogLine(r))
	}
	alertLines := make([]string, 0, dashboardRows)
	for _, a := range head(m.alerts.Items(), dashboardRows) {
		alertLines = append(alertLines, dashboardAlertLine(a))
	}

	leftWidth := width / 2
	panels := lipgloss.JoinHorizontal(lipgloss.Top,
		renderListPanel("Recent Logs", logLines, -1, leftWidth, panelHeight, "No logs yet"),
		renderListPanel("Active Alerts", alertLines, -1, width-leftWidth, panelHeight, "No alerts"),
	)
	return lipgloss.JoinVertical(lipgloss.Left, top, panels)
}

// healthSummary is the one-line CPU/memory/disk readout.
func (m *DashboardModel) healthSummary() string {
	h := m.health
	if h == nil {
		return dimStyle.Render("System health: no data")
	}
	return fmt.Sprintf("CPU %s | Memory %s | Disk %s | Uptime %s",
		fg(cpuColor(h.CPUPercent)).Render(percent(h.CPUPercent)),
		fg(memoryColor(h.MemoryPercent)).Render(percent(h.MemoryPercent)),
		fg(diskColor(h.DiskPercent)).Render(percent(h.DiskPercent)),
		formatUptime(h.UptimeSeconds),
	)
}

func dashboardLogLine(r model.LogRecord) string {
	return fmt.Sprintf("%s %s %s: %s",
		clockPart(r.Timestamp),
		fg(logSeverityColor(r.Severity)).Render("["+r.Severity+"]"),
		r.Unit,
		truncate(r.Message, widthDashboardLog),
	)
}

func dashboardAlertLine(a model.Alert) string {
	mark := "!"
	if a.Acknowledged {
		mark = "✓"
	}
	return fmt.Sprintf("%s %s %s %s",
		mark,
		shortID(a.ID),
		alertSeverityStyle(a.Severity).Render("["+a.Severity+"]"),
		truncate(a.Message, widthDashboardAlert),
	)
}

// head returns at most the first n items.
func head[T any](items []T, n int) []T {
	return items[:min(len(items), n)]
}
