package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages
func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.advanceClock(m.clock())

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, modal := range m.modalStack {
			if s, ok := modal.(sizer); ok {
				s.SetSize(m.width, m.height)
			}
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m.handleMouseEvent(msg)

	case TickMsg:
		m.advanceClock(time.Time(msg))
		var cmd tea.Cmd
		if m.sched.Due(m.now) && !m.busy(taskRefresh) {
			cmd = m.refreshCmd()
		}
		return m, tea.Batch(cmd, m.pollTick())

	case spinner.TickMsg:
		return m, m.handleSpinnerTick(msg)

	case taskDoneMsg:
		m.finishTask(msg.key)
		if msg.result == nil {
			return m, nil
		}
		return m.Update(msg.result)

	case refreshResultMsg:
		m.applyRefresh(msg)
		return m, nil

	case searchResultMsg:
		m.applySearch(msg)
		return m, nil

	case chatResultMsg:
		m.applyChat(msg)
		return m, nil

	case actionResultMsg:
		return m, m.applyAction(msg)

	case detailResultMsg:
		m.applyDetail(msg)
		return m, nil

	case versionMsg:
		m.applyVersion(msg)
		return m, nil
	}

	return m, nil
}

// advanceClock moves m.now forward; it never goes back.
func (m *DashboardModel) advanceClock(t time.Time) {
	if t.After(m.now) {
		m.now = t
	}
}

// handleMouseEvent processes mouse interactions
func (m *DashboardModel) handleMouseEvent(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	// Modal on stack gets the mouse event first.
	if modal := m.TopModal(); modal != nil {
		pop, cmd := modal.Update(msg)
		if pop {
			m.PopModal()
		}
		return m, cmd
	}

	for _, entry := range m.inlineHandlers {
		if entry.isActive(m) {
			handled, cmd := entry.handler.HandleMouse(m, msg)
			if handled {
				return m, cmd
			}
			break
		}
	}

	if msg.Action != tea.MouseActionPress {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.moveSelection(-1)
	case tea.MouseButtonWheelDown:
		m.moveSelection(1)
	}
	return m, nil
}
