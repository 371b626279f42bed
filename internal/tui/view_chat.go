package tui

import (
	"fmt"
	"strings"

	"github.com/chimera/logmind/internal/model"

	"github.com/charmbracelet/lipgloss"
)

func (m *DashboardModel) renderChatTab(width, height int) string {
	var input string
	if m.mode == ModeConversation {
		input = inputStyle.Render("> " + string(m.buffer) + "_")
	} else {
		input = dimStyle.Render("Press 'c' to start typing a message, 'C' to clear history...")
	}

	historyHeight := height - lipgloss.Height(input)
	lines := make([]string, 0, len(m.chat))
	for _, t := range m.chat {
		lines = append(lines, m.chatLine(t))
	}
	// Show the newest turns when the history overflows.
	if visible := max(historyHeight-3, 1); len(lines) > visible {
		lines = lines[len(lines)-visible:]
	}
	if len(lines) == 0 {
		lines = []string{dimStyle.Render("No messages yet")}
	}

	history := renderTextPanel(fmt.Sprintf("RAG Chat History (%d messages)", len(m.chat)), lines, width, historyHeight)
	return lipgloss.JoinVertical(lipgloss.Left, history, input)
}

func (m *DashboardModel) chatLine(t model.ChatTurn) string {
	var meta []string
	if t.Confidence != nil {
		meta = append(meta, fmt.Sprintf("(conf: %.2f)", *t.Confidence))
	}
	if t.SourceCount != nil {
		meta = append(meta, fmt.Sprintf("[%dsrc]", *t.SourceCount))
	}

	roleColor := ColorBlue
	if t.Role == model.RoleAssistant {
		roleColor = ColorGreen
	}
	head := fg(roleColor).Render("["+string(t.Role)+"]") + " " + ago(t.Timestamp, m.now)
	if len(meta) > 0 {
		head += " " + strings.Join(meta, " ")
	}
	return head + ": " + truncate(t.Content, widthChatTurn)
}
