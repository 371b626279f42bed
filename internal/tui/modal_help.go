package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModal lists every key binding. Any key closes it.
type HelpModal struct {
	content string
}

func NewHelpModal(k KeyMap) *HelpModal {
	return &HelpModal{content: renderHelpContent(k)}
}

func (h *HelpModal) ID() string { return "help" }

func (h *HelpModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	_, isKey := msg.(tea.KeyMsg)
	return isKey, nil
}

func (h *HelpModal) View(width, height int) string {
	body := h.content + "\n\n" + renderModalStatusBar("Any key: Close")
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBlue).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, helpTitleStyle.Render("Help"), "", body))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

type helpSection struct {
	title    string
	bindings []key.Binding
	extra    []string
}

func helpSections(k KeyMap) []helpSection {
	audits := make([]string, 0, len(auditTools))
	for _, t := range auditTools {
		audits = append(audits, helpLine(t.key, t.label))
	}
	return []helpSection{
		{title: "GLOBAL", bindings: []key.Binding{k.Quit, k.ForceQuit, k.Help, k.Refresh, k.AutoRefresh, k.Cancel}},
		{title: "NAVIGATION", bindings: []key.Binding{k.NextTab, k.PrevTab, k.JumpTab, k.Up, k.Down, k.PageUp, k.PageDown, k.Enter}},
		{title: "LOGS", bindings: []key.Binding{k.Filter, k.Ingest, k.IngestAll}, extra: []string{helpLine("esc", "clear filter")}},
		{title: "SEARCH", bindings: []key.Binding{k.Filter, k.Index}, extra: []string{helpLine("esc", "clear results")}},
		{title: "ANALYTICS / HEALTH", bindings: []key.Binding{k.CollectMetrics, k.AnomalyScan}},
		{title: "CHAT", bindings: []key.Binding{k.StartChat, k.ClearChat}, extra: []string{helpLine("enter", "send"), helpLine("esc", "cancel input")}},
		{title: "REPORTS", bindings: []key.Binding{k.DailyReport, k.WeeklyReport, k.HTMLReport, k.JSONReport}},
		{title: "SECURITY", bindings: []key.Binding{k.FullAudit}, extra: audits},
		{title: "CONFIG", bindings: []key.Binding{k.ToggleSource, k.RemoveSource, k.ViewConfig}},
	}
}

func helpLine(keys, desc string) string {
	return fmt.Sprintf("  %-14s %s", keys, desc)
}

// renderHelpContent returns the help text shared by the popup and the Help tab.
func renderHelpContent(k KeyMap) string {
	var b strings.Builder
	b.WriteString("Chimera LogMind Dashboard\n")
	for _, s := range helpSections(k) {
		b.WriteString("\n" + s.title + ":\n")
		for _, binding := range s.bindings {
			h := binding.Help()
			b.WriteString(helpLine(h.Key, h.Desc) + "\n")
		}
		for _, line := range s.extra {
			b.WriteString(line + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
