package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmModal asks a yes/no question. y runs the action; any other key
// dismisses it.
type ConfirmModal struct {
	prompt  string
	action  func() tea.Cmd
	confirm key.Binding
}

func NewConfirmModal(prompt string, action func() tea.Cmd) *ConfirmModal {
	return &ConfirmModal{
		prompt:  prompt,
		action:  action,
		confirm: DefaultKeyMap().Confirm,
	}
}

func (c *ConfirmModal) ID() string { return "confirm" }

func (c *ConfirmModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return false, nil
	}
	if key.Matches(keyMsg, c.confirm) && c.action != nil {
		return true, c.action()
	}
	return true, nil
}

func (c *ConfirmModal) View(width, height int) string {
	body := c.prompt + "\n\n" + renderModalStatusBar("y: Confirm", "Any other key: Cancel")
	return renderDialog("Confirm", body, ColorOrange, width, height)
}
