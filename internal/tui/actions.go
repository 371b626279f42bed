package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/chimera/logmind/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

// action is a daemon operation triggered by a key.
type action struct {
	key    taskKey
	label  string // used in errors and the busy message
	call   func(ctx context.Context, a model.Actor) (model.Ack, error)
	done   func(ack model.Ack) string
	reload []Domain
}

type actionResultMsg struct {
	action action
	ack    model.Ack
	err    error
}

func withSummary(prefix string) func(model.Ack) string {
	return func(ack model.Ack) string {
		if ack.Summary == "" {
			return prefix + ": done"
		}
		return prefix + ": " + ack.Summary
	}
}

func fixed(status string) func(model.Ack) string {
	return func(model.Ack) string { return status }
}

var (
	actIngest = action{
		key:   "ingest",
		label: "quick ingest",
		call: func(ctx context.Context, a model.Actor) (model.Ack, error) {
			return a.Ingest(ctx, model.DefaultIngestWindow, model.DefaultIngestLimit)
		},
		done:   withSummary("Quick ingest"),
		reload: []Domain{DomainLogs},
	}
	actIngestAll = action{
		key:   "ingest-all",
		label: "full ingest",
		call: func(ctx context.Context, a model.Actor) (model.Ack, error) {
			return a.IngestAll(ctx)
		},
		done:   withSummary("Full ingest"),
		reload: []Domain{DomainLogs},
	}
	actIndex = action{
		key:   "index",
		label: "indexing",
		call: func(ctx context.Context, a model.Actor) (model.Ack, error) {
			return a.Index(ctx, model.DefaultIndexWindow, 0)
		},
		done: withSummary("Indexing"),
	}
	actCollectMetrics = action{
		key:   "metrics",
		label: "metric collection",
		call: func(ctx context.Context, a model.Actor) (model.Ack, error) {
			return a.CollectMetrics(ctx)
		},
		done: withSummary("Metrics"),
	}
)

// generateReport builds the REPORT GENERATE action for one variant.
func generateReport(label string, format model.ReportFormat, weekly bool) action {
	window := model.DailyReportWindow
	if weekly {
		window = model.WeeklyReportWindow
	}
	return action{
		key:   taskKey("report-" + strings.ToLower(strings.ReplaceAll(label, " ", "-"))),
		label: strings.ToLower(label),
		call: func(ctx context.Context, a model.Actor) (model.Ack, error) {
			return a.GenerateReport(ctx, window, format)
		},
		done:   fixed(label + " generated"),
		reload: []Domain{DomainReports},
	}
}

var (
	actDailyReport  = generateReport("Daily report", model.ReportText, false)
	actWeeklyReport = generateReport("Weekly report", model.ReportText, true)
	actHTMLReport   = generateReport("HTML report", model.ReportHTML, false)
	actJSONReport   = generateReport("JSON report", model.ReportJSON, false)
)

// runAudit starts one audit tool; an empty tool runs the full audit.
func runAudit(tool, label string) action {
	if tool == "" {
		label = "Full security audit"
	}
	return action{
		key:   taskKey("audit-" + tool),
		label: strings.ToLower(label),
		call: func(ctx context.Context, a model.Actor) (model.Ack, error) {
			return a.RunAudit(ctx, tool)
		},
		done:   fixed(label + " started"),
		reload: []Domain{DomainAudits},
	}
}

func toggleSource(src model.ConfigSource) action {
	enable := !src.Enabled
	state := "disabled"
	if enable {
		state = "enabled"
	}
	return action{
		key:   "source-update",
		label: "update source " + src.Name,
		call: func(ctx context.Context, a model.Actor) (model.Ack, error) {
			return a.UpdateSource(ctx, src.Name, enable)
		},
		done:   fixed(fmt.Sprintf("Source %s %s", src.Name, state)),
		reload: []Domain{DomainSources},
	}
}

func removeSource(name string) action {
	return action{
		key:   "source-remove",
		label: "remove source " + name,
		call: func(ctx context.Context, a model.Actor) (model.Ack, error) {
			return a.RemoveSource(ctx, name)
		},
		done:   fixed(fmt.Sprintf("Source %s removed", name)),
		reload: []Domain{DomainSources},
	}
}

// run starts act unless the same kind of action is already in flight.
func (m *DashboardModel) run(act action) tea.Cmd {
	backend := m.backend
	cmd := m.startTask(act.key, func(ctx context.Context) tea.Msg {
		ack, err := act.call(ctx, backend)
		return actionResultMsg{action: act, ack: ack, err: err}
	})
	if cmd == nil {
		m.status = capitalize(act.label) + " already running"
		return nil
	}
	m.status = "Running " + act.label + "..."
	return cmd
}

func (m *DashboardModel) applyAction(msg actionResultMsg) tea.Cmd {
	if msg.err != nil {
		m.reportFailure(msg.action.label, msg.err)
		return nil
	}
	m.log.Debug().Str("action", msg.action.label).Str("summary", msg.ack.Summary).Msg("action accepted")
	m.status = msg.action.done(msg.ack)
	return m.reloadCmd(msg.action.reload...)
}

type searchResultMsg struct {
	query string
	hits  []model.SearchHit
	err   error
}

// searchCmd runs a semantic search. An empty query makes no call.
func (m *DashboardModel) searchCmd(query string) tea.Cmd {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	m.searchQuery = query
	backend := m.backend
	q := model.SearchQuery{Text: query, Results: m.opts.SearchResults, Window: m.opts.SearchWindow}
	cmd := m.startTask(taskSearch, func(ctx context.Context) tea.Msg {
		hits, err := backend.Search(ctx, q)
		return searchResultMsg{query: query, hits: hits, err: err}
	})
	if cmd == nil {
		m.status = "Search already running"
		return nil
	}
	m.status = "Searching..."
	return cmd
}

func (m *DashboardModel) applySearch(msg searchResultMsg) {
	if msg.err != nil {
		m.reportFailure("search", msg.err)
		return
	}
	m.hits.Replace(msg.hits)
	m.status = fmt.Sprintf("Search completed: %d results", len(msg.hits))
	m.clearError()
}

type chatResultMsg struct {
	turn model.ChatTurn
	err  error
}

// sendChat appends the user turn and asks the daemon for a reply.
func (m *DashboardModel) sendChat(text string) tea.Cmd {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if m.busy(taskChat) {
		m.status = "Waiting for the previous reply"
		return nil
	}
	m.chat = append(m.chat, model.ChatTurn{Role: model.RoleUser, Content: text, Timestamp: m.now})
	backend := m.backend
	m.status = "Sending message..."
	return m.startTask(taskChat, func(ctx context.Context) tea.Msg {
		turn, err := backend.Chat(ctx, text)
		return chatResultMsg{turn: turn, err: err}
	})
}

func (m *DashboardModel) applyChat(msg chatResultMsg) {
	if msg.err != nil {
		m.reportFailure("chat", msg.err)
		m.status = "Chat failed: " + statusFor(msg.err)
		return
	}
	turn := msg.turn
	if turn.Role == "" {
		turn.Role = model.RoleAssistant
	}
	if turn.Timestamp.IsZero() {
		turn.Timestamp = m.now
	}
	m.chat = append(m.chat, turn)
	m.status = "Message sent successfully"
}

// detailResultMsg carries a document fetched for a detail popup.
type detailResultMsg struct {
	title string
	doc   map[string]any
	err   error
}

func (m *DashboardModel) detailCmd(title string, get func(ctx context.Context, q model.Querier) (map[string]any, error)) tea.Cmd {
	backend := m.backend
	cmd := m.startTask(taskDetail, func(ctx context.Context) tea.Msg {
		doc, err := get(ctx, backend)
		return detailResultMsg{title: title, doc: doc, err: err}
	})
	if cmd != nil {
		m.status = "Loading " + strings.ToLower(title) + "..."
	}
	return cmd
}

func (m *DashboardModel) applyDetail(msg detailResultMsg) {
	if msg.err != nil {
		m.reportFailure(strings.ToLower(msg.title), msg.err)
		return
	}
	m.status = msg.title + " loaded"
	m.PushModal(NewDetailModal(msg.title, yamlText(msg.doc)))
}

type versionMsg struct {
	version string
	err     error
}

func (m *DashboardModel) versionCmd() tea.Cmd {
	backend := m.backend
	return m.startTask(taskVersion, func(ctx context.Context) tea.Msg {
		v, err := backend.Version(ctx)
		return versionMsg{version: v, err: err}
	})
}

func (m *DashboardModel) applyVersion(msg versionMsg) {
	if msg.err != nil {
		m.log.Debug().Err(msg.err).Msg("version probe failed")
		m.status = "backend unreachable"
		return
	}
	m.daemonVersion = msg.version
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
