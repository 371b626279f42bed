package tui

import (
	"fmt"
	"strings"

	"github.com/chimera/logmind/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

func (m *DashboardModel) renderReportsTab(width, height int) string {
	top := hint("g: daily report", "G: weekly report", "h: HTML report", "j: JSON report")

	lines := make([]string, 0, m.reports.Len())
	for _, r := range m.reports.Items() {
		lines = append(lines, reportLine(r))
	}
	list := renderListPanel(fmt.Sprintf("Reports (%d)", m.reports.Len()), lines, m.reports.Cursor(),
		width, height-lipgloss.Height(top), "No reports generated yet")
	return lipgloss.JoinVertical(lipgloss.Left, top, list)
}

func reportLine(r model.ReportSummary) string {
	return strings.Join([]string{
		r.ID,
		r.Title,
		r.Format,
		humanize.Bytes(uint64(max(r.SizeBytes, 0))),
		r.GeneratedAt,
	}, " | ")
}

func (m *DashboardModel) renderSecurityTab(width, height int) string {
	items := []string{"f: full audit"}
	for _, t := range auditTools {
		items = append(items, t.key+": "+t.tool)
	}
	items = append(items, "enter: details")
	top := hint(items...)

	lines := make([]string, 0, m.audits.Len())
	for _, a := range m.audits.Items() {
		lines = append(lines, m.auditLine(a))
	}
	list := renderListPanel(fmt.Sprintf("Security Audits (%d)", m.audits.Len()), lines, m.audits.Cursor(),
		width, height-lipgloss.Height(top), "No audits recorded")
	return lipgloss.JoinVertical(lipgloss.Left, top, list)
}

func (m *DashboardModel) auditLine(a model.SecurityAudit) string {
	return strings.Join([]string{
		a.Tool,
		fg(auditStatusColor(a.Status)).Render(string(a.Status)),
		ago(a.Timestamp, m.now),
		fmt.Sprintf("%d findings", a.FindingsCount),
		a.Summary,
		"ID:" + shortID(a.ID),
	}, " | ")
}

func (m *DashboardModel) renderConfigTab(width, height int) string {
	top := hint("e: enable/disable", "d: remove", "v: daemon config", "enter: settings")

	lines := make([]string, 0, m.sources.Len())
	for _, s := range m.sources.Items() {
		lines = append(lines, sourceLine(s))
	}
	list := renderListPanel(fmt.Sprintf("Log Sources (%d configured)", m.sources.Len()), lines, m.sources.Cursor(),
		width, height-lipgloss.Height(top), "No log sources configured")
	return lipgloss.JoinVertical(lipgloss.Left, top, list)
}

func sourceLine(s model.ConfigSource) string {
	mark, c := sourceMarker(s.Enabled)
	state := "DISABLED"
	if s.Enabled {
		state = "ENABLED"
	}
	return fmt.Sprintf("%s %s | %s | %s | %d configs",
		fg(c).Render(mark), s.Name, s.Type, fg(c).Render(state), len(s.Settings))
}

func (m *DashboardModel) renderHelpTab(width, height int) string {
	return renderTextPanel("Help", strings.Split(renderHelpContent(m.keys), "\n"), width, height)
}
