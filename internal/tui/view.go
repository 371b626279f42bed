package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const appTitle = "Chimera LogMind"

// View renders the dashboard. It reads m.now and never changes state.
func (m *DashboardModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Initializing dashboard..."
	}

	// If a modal is on the stack, render it full-screen.
	if modal := m.TopModal(); modal != nil {
		return modal.View(m.width, m.height)
	}

	if m.height < 12 || m.width < 50 {
		return "Terminal too small. Resize to at least 50x12."
	}

	header := m.renderHeader()
	statusLine := m.renderStatusLine()
	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(statusLine)

	content := m.activeTab().render(m, m.width, contentHeight)
	content = lipgloss.NewStyle().
		Width(m.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusLine)
}

// renderHeader renders the title line and the tab strip.
func (m *DashboardModel) renderHeader() string {
	tabs := make([]string, 0, tabCount)
	for i := range m.tabs {
		label := fmt.Sprintf("%d:%s", (i+1)%10, m.tabs[i].title)
		if Tab(i) == m.tab {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	strip := lipgloss.NewStyle().MaxWidth(m.width).Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(appTitle), strip)
}

// statusText is the plain status line content.
func (m *DashboardModel) statusText() string {
	parts := []string{m.status}
	if m.spinning {
		parts[0] = m.spinner.View() + " " + m.status
	}

	if m.mode != ModeNormal {
		parts = append(parts,
			"Mode: "+m.modeLabel(m.mode),
			"Input: "+string(m.buffer),
		)
		return strings.Join(parts, " | ")
	}

	auto := "OFF"
	if m.sched.Enabled {
		auto = "ON"
	}
	parts = append(parts, "Auto-refresh: "+auto)
	if m.lastUpdate.IsZero() {
		parts = append(parts, "Last update: never")
	} else {
		parts = append(parts, fmt.Sprintf("Last update: %ds ago", secondsSince(m.lastUpdate, m.now)))
	}
	if m.daemonVersion != "" {
		parts = append(parts, "daemon "+m.daemonVersion)
	}
	if m.lastError != "" {
		parts = append(parts, "! "+m.lastError)
	}
	return strings.Join(parts, " | ")
}

func (m *DashboardModel) renderStatusLine() string {
	style := statusBarStyle
	if m.lastError != "" && m.mode == ModeNormal {
		style = statusErrorStyle
	}
	return style.Width(m.width).MaxWidth(m.width).MaxHeight(1).Render(m.statusText())
}

// renderListPanel renders a titled, bordered list that keeps cursor in view.
// cursor -1 draws no selection.
func renderListPanel(title string, lines []string, cursor, width, height int, empty string) string {
	inner := max(height-3, 1) // borders + title
	lineStyle := lipgloss.NewStyle().MaxWidth(max(width-4, 1))

	body := []string{helpTitleStyle.Render(title)}
	if len(lines) == 0 {
		body = append(body, dimStyle.Render(empty))
	} else {
		start, end := window(len(lines), max(cursor, 0), inner)
		for i := start; i < end; i++ {
			if i == cursor {
				body = append(body, lineStyle.Render(selectedStyle.Render("> ")+lines[i]))
			} else {
				body = append(body, lineStyle.Render("  "+lines[i]))
			}
		}
	}

	return panelStyle(width, height).
		MaxHeight(height).
		Render(strings.Join(body, "\n"))
}

// renderTextPanel renders a titled, bordered block of preformatted lines.
func renderTextPanel(title string, lines []string, width, height int) string {
	lineStyle := lipgloss.NewStyle().MaxWidth(max(width-4, 1))
	body := []string{helpTitleStyle.Render(title)}
	for _, l := range fitLines(lines, max(height-3, 1)) {
		body = append(body, lineStyle.Render(l))
	}
	return panelStyle(width, height).
		MaxHeight(height).
		Render(strings.Join(body, "\n"))
}

// hint renders a one-line key reminder.
func hint(items ...string) string {
	return dimStyle.Render(strings.Join(items, " | "))
}
