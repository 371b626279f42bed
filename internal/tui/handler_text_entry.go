package tui

import tea "github.com/charmbracelet/bubbletea"

// textEntryHandler owns the keyboard while a filter, query or chat message
// is being typed. Every key is consumed; there is no caret movement.
type textEntryHandler struct{}

func (h textEntryHandler) HandleKey(m *DashboardModel, msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return true, m.submitInput()
	case tea.KeyEsc:
		m.leaveMode()
		m.status = "Input cancelled"
		return true, nil
	case tea.KeyBackspace:
		if n := len(m.buffer); n > 0 {
			m.buffer = m.buffer[:n-1]
		}
	case tea.KeySpace:
		m.buffer = append(m.buffer, ' ')
	case tea.KeyRunes:
		if !msg.Alt {
			m.buffer = append(m.buffer, msg.Runes...)
		}
	}
	return true, nil
}

func (h textEntryHandler) HandleMouse(_ *DashboardModel, _ tea.MouseMsg) (bool, tea.Cmd) {
	return true, nil // swallow mouse events during text entry
}
