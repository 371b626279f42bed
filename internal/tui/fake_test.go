package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/chimera/logmind/internal/model"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

var t0 = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

// countingBackend is a scripted model.Backend that counts calls. It honours
// context cancellation so canceled tasks fail like real ones.
type countingBackend struct {
	mu    sync.Mutex
	calls map[string]int

	logs      []model.LogRecord
	logsErr   error
	alerts    []model.Alert
	metrics   []model.MetricSample
	anomalies []model.Anomaly
	hits      []model.SearchHit
	searchErr error
	reports   []model.ReportSummary
	audits    []model.SecurityAudit
	sources   []model.ConfigSource
	health    *model.SystemHealth
	chatReply model.ChatTurn
	chatErr   error
	actionErr error
	details   map[string]any

	lastLogQuery      model.LogQuery
	lastAnomalyWindow time.Duration
	lastAuditTool     string
	lastSourceUpdate  string
}

func newCountingBackend() *countingBackend {
	return &countingBackend{calls: make(map[string]int)}
}

func (b *countingBackend) count(ctx context.Context, name string) error {
	b.mu.Lock()
	b.calls[name]++
	b.mu.Unlock()
	return ctx.Err()
}

func (b *countingBackend) Calls(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[name]
}

func (b *countingBackend) Logs(ctx context.Context, q model.LogQuery) ([]model.LogRecord, error) {
	if err := b.count(ctx, "Logs"); err != nil {
		return nil, err
	}
	b.mu.Lock()
	b.lastLogQuery = q
	b.mu.Unlock()
	return b.logs, b.logsErr
}

func (b *countingBackend) Metrics(ctx context.Context, _ model.MetricQuery) ([]model.MetricSample, error) {
	return b.metrics, b.count(ctx, "Metrics")
}

func (b *countingBackend) Alerts(ctx context.Context, _ model.AlertQuery) ([]model.Alert, error) {
	return b.alerts, b.count(ctx, "Alerts")
}

func (b *countingBackend) Anomalies(ctx context.Context, window time.Duration) ([]model.Anomaly, error) {
	b.mu.Lock()
	b.lastAnomalyWindow = window
	b.mu.Unlock()
	return b.anomalies, b.count(ctx, "Anomalies")
}

func (b *countingBackend) Search(ctx context.Context, _ model.SearchQuery) ([]model.SearchHit, error) {
	if err := b.count(ctx, "Search"); err != nil {
		return nil, err
	}
	return b.hits, b.searchErr
}

func (b *countingBackend) Reports(ctx context.Context, _ int) ([]model.ReportSummary, error) {
	return b.reports, b.count(ctx, "Reports")
}

func (b *countingBackend) Audits(ctx context.Context, _ int) ([]model.SecurityAudit, error) {
	return b.audits, b.count(ctx, "Audits")
}

func (b *countingBackend) AuditDetails(ctx context.Context, _ string) (map[string]any, error) {
	return b.details, b.count(ctx, "AuditDetails")
}

func (b *countingBackend) ConfigSources(ctx context.Context) ([]model.ConfigSource, error) {
	return b.sources, b.count(ctx, "ConfigSources")
}

func (b *countingBackend) AppConfig(ctx context.Context) (map[string]any, error) {
	return b.details, b.count(ctx, "AppConfig")
}

func (b *countingBackend) Health(ctx context.Context) (*model.SystemHealth, error) {
	return b.health, b.count(ctx, "Health")
}

func (b *countingBackend) Version(ctx context.Context) (string, error) {
	return "0.3.1", b.count(ctx, "Version")
}

func (b *countingBackend) ack(ctx context.Context, name string) (model.Ack, error) {
	if err := b.count(ctx, name); err != nil {
		return model.Ack{}, err
	}
	if b.actionErr != nil {
		return model.Ack{}, b.actionErr
	}
	return model.Ack{Command: name, Summary: "ok"}, nil
}

func (b *countingBackend) Ingest(ctx context.Context, _ time.Duration, _ int) (model.Ack, error) {
	return b.ack(ctx, "Ingest")
}

func (b *countingBackend) IngestAll(ctx context.Context) (model.Ack, error) {
	return b.ack(ctx, "IngestAll")
}

func (b *countingBackend) CollectMetrics(ctx context.Context) (model.Ack, error) {
	return b.ack(ctx, "CollectMetrics")
}

func (b *countingBackend) GenerateReport(ctx context.Context, _ time.Duration, _ model.ReportFormat) (model.Ack, error) {
	return b.ack(ctx, "GenerateReport")
}

func (b *countingBackend) Index(ctx context.Context, _ time.Duration, _ int) (model.Ack, error) {
	return b.ack(ctx, "Index")
}

func (b *countingBackend) RunAudit(ctx context.Context, tool string) (model.Ack, error) {
	b.mu.Lock()
	b.lastAuditTool = tool
	b.mu.Unlock()
	return b.ack(ctx, "RunAudit")
}

func (b *countingBackend) UpdateSource(ctx context.Context, name string, _ bool) (model.Ack, error) {
	b.mu.Lock()
	b.lastSourceUpdate = name
	b.mu.Unlock()
	return b.ack(ctx, "UpdateSource")
}

func (b *countingBackend) RemoveSource(ctx context.Context, _ string) (model.Ack, error) {
	return b.ack(ctx, "RemoveSource")
}

func (b *countingBackend) Chat(ctx context.Context, _ string) (model.ChatTurn, error) {
	if err := b.count(ctx, "Chat"); err != nil {
		return model.ChatTurn{}, err
	}
	return b.chatReply, b.chatErr
}

// testClock is a settable clock.
type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// newTestModel builds a sized dashboard with polling disabled.
func newTestModel(t *testing.T, b model.Backend) (*DashboardModel, *testClock) {
	t.Helper()
	clk := &testClock{now: t0}
	opts := DefaultOptions()
	opts.Clock = clk.Now
	m := NewDashboardModel(context.Background(), b, opts)
	m.tickFn = nil
	m.Update(tea.WindowSizeMsg{Width: 140, Height: 45})
	return m, clk
}

// drain runs cmd and every command it produces, feeding each message back
// into m until nothing is left. Spinner ticks are dropped.
func drain(t *testing.T, m *DashboardModel, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 1000 {
			t.Fatal("commands did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil, spinner.TickMsg, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			_, c := m.Update(msg)
			queue = append(queue, c)
		}
	}
}

// start runs Init to completion.
func start(t *testing.T, m *DashboardModel) {
	t.Helper()
	drain(t, m, m.Init())
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+x":
		return tea.KeyMsg{Type: tea.KeyCtrlX}
	case "f5":
		return tea.KeyMsg{Type: tea.KeyF5}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// press sends each key and runs the resulting commands to completion.
func press(t *testing.T, m *DashboardModel, keys ...string) {
	t.Helper()
	for _, k := range keys {
		_, cmd := m.Update(keyMsg(k))
		drain(t, m, cmd)
	}
}

// typeText sends s one rune at a time.
func typeText(t *testing.T, m *DashboardModel, s string) {
	t.Helper()
	for _, r := range s {
		press(t, m, string(r))
	}
}
