package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all dashboard key bindings with built-in help text.
type KeyMap struct {
	// Global
	Quit        key.Binding
	ForceQuit   key.Binding
	Help        key.Binding
	Escape      key.Binding
	Refresh     key.Binding
	AutoRefresh key.Binding
	Cancel      key.Binding

	// Navigation
	NextTab  key.Binding
	PrevTab  key.Binding
	JumpTab  key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Enter    key.Binding

	// Logs / Search
	Filter    key.Binding
	Ingest    key.Binding
	IngestAll key.Binding
	Index     key.Binding

	// Analytics / Health
	CollectMetrics key.Binding
	AnomalyScan    key.Binding

	// Chat
	StartChat key.Binding
	ClearChat key.Binding

	// Reports
	DailyReport  key.Binding
	WeeklyReport key.Binding
	HTMLReport   key.Binding
	JSONReport   key.Binding

	// Security
	FullAudit key.Binding

	// Config
	ToggleSource key.Binding
	RemoveSource key.Binding
	ViewConfig   key.Binding
	Confirm      key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "f1"),
			key.WithHelp("?/F1", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear/close"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "f5"),
			key.WithHelp("r/F5", "refresh"),
		),
		AutoRefresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "toggle auto-refresh"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "cancel requests"),
		),

		NextTab: key.NewBinding(
			key.WithKeys("tab", "right"),
			key.WithHelp("tab/→", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "left"),
			key.WithHelp("shift+tab/←", "prev tab"),
		),
		JumpTab: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9", "0"),
			key.WithHelp("1-0", "go to tab"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),

		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter/query"),
		),
		Ingest: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "quick ingest"),
		),
		IngestAll: key.NewBinding(
			key.WithKeys("I"),
			key.WithHelp("I", "full ingest"),
		),
		Index: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "index embeddings"),
		),

		CollectMetrics: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "collect metrics"),
		),
		AnomalyScan: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "anomaly scan"),
		),

		StartChat: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "type message"),
		),
		ClearChat: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "clear history"),
		),

		DailyReport: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "daily report"),
		),
		WeeklyReport: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "weekly report"),
		),
		HTMLReport: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "HTML report"),
		),
		JSONReport: key.NewBinding(
			key.WithKeys("j"),
			key.WithHelp("j", "JSON report"),
		),

		FullAudit: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "full audit"),
		),

		ToggleSource: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "enable/disable"),
		),
		RemoveSource: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "remove source"),
		),
		ViewConfig: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "daemon config"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "confirm"),
		),
	}
}

// auditTool binds a Security tab key to one audit runner.
type auditTool struct {
	key   string
	tool  string
	label string
}

var auditTools = []auditTool{
	{"a", "aide", "AIDE audit"},
	{"r", "rkhunter", "rkhunter audit"},
	{"c", "clamav", "ClamAV scan"},
	{"l", "lynis", "Lynis audit"},
	{"s", "openscap", "OpenSCAP scan"},
	{"k", "chkrootkit", "chkrootkit scan"},
}
