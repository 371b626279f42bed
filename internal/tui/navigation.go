package tui

import (
	"context"
	"fmt"

	"github.com/chimera/logmind/internal/model"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const pageStep = 10

// handleKeyPress dispatches key events: modal stack first, then inline
// handlers (text entry), then the active tab's keys, then global shortcuts.
func (m *DashboardModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, m.shutdown()
	}

	// Modal on stack gets the event first.
	if modal := m.TopModal(); modal != nil {
		pop, cmd := modal.Update(msg)
		if pop {
			m.PopModal()
		}
		return m, cmd
	}

	// Inline handlers (text entry).
	for _, entry := range m.inlineHandlers {
		if entry.isActive(m) {
			handled, cmd := entry.handler.HandleKey(m, msg)
			if handled {
				return m, cmd
			}
			break
		}
	}

	if keys := m.activeTab().keys; keys != nil {
		if handled, cmd := keys(m, msg); handled {
			return m, cmd
		}
	}

	return m.handleGlobalKeys(msg)
}

// handleGlobalKeys handles dashboard-level shortcuts.
// Only reached when no modal, inline handler or tab handler consumed the key.
func (m *DashboardModel) handleGlobalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys

	switch {
	case key.Matches(msg, k.Quit):
		return m, m.shutdown()

	case key.Matches(msg, k.Help):
		m.PushModal(NewHelpModal(m.keys))

	case key.Matches(msg, k.Refresh):
		cmd := m.refreshCmd()
		if cmd == nil {
			m.status = "Refresh already in progress"
			return m, nil
		}
		m.status = "Refreshing..."
		return m, cmd

	case key.Matches(msg, k.AutoRefresh):
		if m.sched.Toggle() {
			m.status = "Auto-refresh enabled"
		} else {
			m.status = "Auto-refresh disabled"
		}

	case key.Matches(msg, k.Cancel):
		m.cancelAll()

	case key.Matches(msg, k.NextTab):
		m.setTab(m.tab.next())

	case key.Matches(msg, k.PrevTab):
		m.setTab(m.tab.prev())

	case key.Matches(msg, k.JumpTab):
		m.setTab(jumpTarget(msg.String()))

	case key.Matches(msg, k.Up):
		m.cursorStep(-1)

	case key.Matches(msg, k.Down):
		m.cursorStep(1)

	case key.Matches(msg, k.PageUp):
		m.moveSelection(-pageStep)

	case key.Matches(msg, k.PageDown):
		m.moveSelection(pageStep)
	}

	return m, nil
}

// jumpTarget maps "1".."9" to the first nine tabs and "0" to the tenth.
func jumpTarget(s string) Tab {
	if s == "0" {
		return TabHelp
	}
	if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		return Tab(s[0] - '1')
	}
	return -1
}

// cursorStep moves the active list by one, wrapping at the ends.
func (m *DashboardModel) cursorStep(delta int) {
	list := m.activeList()
	if list == nil {
		return
	}
	if delta < 0 {
		list.Prev()
	} else {
		list.Next()
	}
}

// moveSelection moves the active list without wrapping.
func (m *DashboardModel) moveSelection(delta int) {
	if list := m.activeList(); list != nil {
		list.Move(delta)
	}
}

func (m *DashboardModel) activeList() navigable {
	if f := m.activeTab().list; f != nil {
		return f(m)
	}
	return nil
}

// enterMode switches into a text-entry mode with a prefilled buffer.
func (m *DashboardModel) enterMode(mode InputMode, prefill string) {
	m.log.Debug().Str("mode", m.modeLabel(mode)).Msg("enter text entry")
	m.mode = mode
	m.buffer = []rune(prefill)
}

// leaveMode returns to Normal mode and discards the buffer.
func (m *DashboardModel) leaveMode() {
	if m.mode != ModeNormal {
		m.log.Debug().Str("mode", m.modeLabel(m.mode)).Msg("leave text entry")
	}
	m.mode = ModeNormal
	m.buffer = nil
}

func (m *DashboardModel) modeLabel(mode InputMode) string {
	switch {
	case mode == ModeConversation:
		return "Chat"
	case mode == ModeFilter && m.tab == TabSearch:
		return "Search"
	case mode == ModeFilter:
		return "Filter"
	default:
		return "Normal"
	}
}

// submitInput leaves text entry and acts on the buffer for the active tab.
func (m *DashboardModel) submitInput() tea.Cmd {
	text := string(m.buffer)
	mode := m.mode
	m.leaveMode()

	switch {
	case mode == ModeConversation:
		return m.sendChat(text)
	case mode == ModeFilter && m.tab == TabSearch:
		return m.searchCmd(text)
	case mode == ModeFilter && m.tab == TabLogs:
		m.logFilter = text
		if text == "" {
			m.status = "Log filter cleared"
		} else {
			m.status = "Filtering logs: " + text
		}
		return m.refreshCmd()
	}
	return nil
}

func (m *DashboardModel) handleLogsKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Filter):
		m.enterMode(ModeFilter, "")
		return true, nil
	case key.Matches(msg, k.Ingest):
		return true, m.run(actIngest)
	case key.Matches(msg, k.IngestAll):
		return true, m.run(actIngestAll)
	case key.Matches(msg, k.Enter):
		if rec, ok := m.logs.Selected(); ok {
			m.PushModal(NewDetailModal("Log Entry", yamlText(logView(rec))))
		}
		return true, nil
	case key.Matches(msg, k.Escape):
		if m.logFilter == "" {
			return true, nil
		}
		m.logFilter = ""
		m.status = "Log filter cleared"
		return true, m.refreshCmd()
	}
	return false, nil
}

func (m *DashboardModel) handleSearchKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Filter):
		m.enterMode(ModeFilter, m.searchQuery)
		return true, nil
	case key.Matches(msg, k.Index):
		return true, m.run(actIndex)
	case key.Matches(msg, k.Escape):
		m.searchQuery = ""
		m.hits.Clear()
		m.status = "Search cleared"
		return true, nil
	case key.Matches(msg, k.Enter):
		if hit, ok := m.hits.Selected(); ok {
			m.PushModal(NewDetailModal("Search Result", yamlText(hitView(hit))))
		}
		return true, nil
	}
	return false, nil
}

func (m *DashboardModel) handleAnalyticsKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.CollectMetrics):
		return true, m.run(actCollectMetrics)
	case key.Matches(msg, k.AnomalyScan):
		return true, m.anomalyScanCmd()
	case key.Matches(msg, k.Enter):
		if a, ok := m.anomalies.Selected(); ok {
			m.PushModal(NewDetailModal("Anomaly", yamlText(anomalyView(a))))
		}
		return true, nil
	}
	return false, nil
}

func (m *DashboardModel) handleHealthKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.CollectMetrics):
		return true, m.run(actCollectMetrics)
	case key.Matches(msg, k.Enter):
		if a, ok := m.alerts.Selected(); ok {
			m.PushModal(NewDetailModal("Alert", yamlText(alertView(a))))
		}
		return true, nil
	}
	return false, nil
}

func (m *DashboardModel) handleChatKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.StartChat):
		m.enterMode(ModeConversation, "")
		return true, nil
	case key.Matches(msg, k.ClearChat):
		m.chat = nil
		m.status = "Chat history cleared"
		return true, nil
	}
	return false, nil
}

func (m *DashboardModel) handleReportsKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.DailyReport):
		return true, m.run(actDailyReport)
	case key.Matches(msg, k.WeeklyReport):
		return true, m.run(actWeeklyReport)
	case key.Matches(msg, k.HTMLReport):
		return true, m.run(actHTMLReport)
	case key.Matches(msg, k.JSONReport):
		return true, m.run(actJSONReport)
	}
	return false, nil
}

func (m *DashboardModel) handleSecurityKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.FullAudit):
		return true, m.run(runAudit("", ""))
	case key.Matches(msg, k.Enter):
		audit, ok := m.audits.Selected()
		if !ok {
			return true, nil
		}
		id := audit.ID
		return true, m.detailCmd("Audit "+shortID(id), func(ctx context.Context, q model.Querier) (map[string]any, error) {
			return q.AuditDetails(ctx, id)
		})
	}
	for _, t := range auditTools {
		if msg.String() == t.key {
			return true, m.run(runAudit(t.tool, t.label))
		}
	}
	return false, nil
}

func (m *DashboardModel) handleConfigKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.ToggleSource):
		if src, ok := m.sources.Selected(); ok {
			return true, m.run(toggleSource(src))
		}
		return true, nil
	case key.Matches(msg, k.RemoveSource):
		src, ok := m.sources.Selected()
		if !ok {
			return true, nil
		}
		name := src.Name
		m.PushModal(NewConfirmModal(
			fmt.Sprintf("Remove log source %q?", name),
			func() tea.Cmd { return m.run(removeSource(name)) },
		))
		return true, nil
	case key.Matches(msg, k.ViewConfig):
		return true, m.detailCmd("Daemon Configuration", func(ctx context.Context, q model.Querier) (map[string]any, error) {
			return q.AppConfig(ctx)
		})
	case key.Matches(msg, k.Enter):
		if src, ok := m.sources.Selected(); ok {
			m.PushModal(NewDetailModal("Source "+src.Name, yamlText(sourceView(src))))
		}
		return true, nil
	}
	return false, nil
}
