package tui

import (
	"fmt"

	"github.com/chimera/logmind/internal/model"

	"github.com/charmbracelet/lipgloss"
)

func (m *DashboardModel) renderLogsTab(width, height int) string {
	var top string
	switch {
	case m.mode == ModeFilter:
		top = inputStyle.Render("Filter: " + string(m.buffer) + "_")
	case m.logFilter != "":
		top = fmt.Sprintf("Filter: %s (Press '/' to edit, Esc to clear)", m.logFilter)
	default:
		top = hint("/: filter", "i: quick ingest", "I: full ingest", "enter: details")
	}

	lines := make([]string, 0, m.logs.Len())
	for _, r := range m.logs.Items() {
		lines = append(lines, logsTabLine(r))
	}
	list := renderListPanel(fmt.Sprintf("Logs (%d total)", m.logs.Len()), lines, m.logs.Cursor(),
		width, height-lipgloss.Height(top), "No logs in the current window")
	return lipgloss.JoinVertical(lipgloss.Left, top, list)
}

func logsTabLine(r model.LogRecord) string {
	return fmt.Sprintf("%s %s [%s] %s@%s: %s",
		r.Timestamp,
		fg(logSeverityColor(r.Severity)).Render(r.Severity),
		r.Source,
		r.Unit,
		r.Hostname,
		truncate(r.Message, widthLogsTab),
	)
}

func (m *DashboardModel) renderSearchTab(width, height int) string {
	var query string
	switch {
	case m.mode == ModeFilter:
		query = inputStyle.Render("Query: " + string(m.buffer) + "_")
	case m.searchQuery == "":
		query = "Query: (Press '/' to edit)"
	default:
		query = fmt.Sprintf("Query: %s (Press '/' to edit)", m.searchQuery)
	}
	top := lipgloss.JoinVertical(lipgloss.Left, query, hint("/: edit query", "n: index embeddings", "esc: clear", "enter: details"))

	lines := make([]string, 0, m.hits.Len())
	for _, h := range m.hits.Items() {
		lines = append(lines, searchHitLine(h))
	}
	list := renderListPanel(fmt.Sprintf("Results (%d found)", m.hits.Len()), lines, m.hits.Cursor(),
		width, height-lipgloss.Height(top), "No results. Press '/' to enter a query.")
	return lipgloss.JoinVertical(lipgloss.Left, top, list)
}

func searchHitLine(h model.SearchHit) string {
	return fmt.Sprintf("%s | %s [%s] %s: %s",
		fg(similarityColor(h.Similarity)).Render(fmt.Sprintf("%.3f", h.Similarity)),
		h.Log.Timestamp,
		h.Log.Severity,
		h.Log.Unit,
		truncate(h.Log.Message, widthSearchHit),
	)
}
