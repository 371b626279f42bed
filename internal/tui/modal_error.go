package tui

import tea "github.com/charmbracelet/bubbletea"

// ErrorModal shows a failed operation until any key is pressed.
type ErrorModal struct {
	message string
}

func NewErrorModal(message string) *ErrorModal {
	return &ErrorModal{message: message}
}

func (e *ErrorModal) ID() string { return "error" }

func (e *ErrorModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	_, isKey := msg.(tea.KeyMsg)
	return isKey, nil
}

func (e *ErrorModal) View(width, height int) string {
	body := "Error: " + e.message + "\n\nPress any key to dismiss"
	return renderDialog("Error", body, ColorRed, width, height)
}
