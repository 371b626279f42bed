package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/chimera/logmind/internal/model"

	"github.com/charmbracelet/lipgloss"
)

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this message is too long", 10, "this messa..."},
		{"line one\nline two", 40, "line one line two"},
		{"héllo wörld ünïcode", 8, "héllo wö..."},
		{"abc", 2, "ab..."},
		{"abc", 0, "..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestClip(t *testing.T) {
	t.Parallel()

	if got := clip("cpu_percent", 5); got != "cpu_p" {
		t.Errorf("clip = %q, want %q", got, "cpu_p")
	}
	if got := clip("mem", 5); got != "mem" {
		t.Errorf("clip = %q, want %q", got, "mem")
	}
}

func TestBands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  lipgloss.Color
		want lipgloss.Color
	}{
		{"anomaly high", anomalyColor(0.81), ColorRed},
		{"anomaly at 0.8", anomalyColor(0.8), ColorYellow},
		{"anomaly low", anomalyColor(0.6), ColorGreen},
		{"similarity high", similarityColor(0.9), ColorGreen},
		{"similarity mid", similarityColor(0.7), ColorYellow},
		{"similarity low", similarityColor(0.2), ColorRed},
		{"cpu", cpuColor(0.85), ColorRed},
		{"memory mid", memoryColor(0.8), ColorYellow},
		{"memory at 0.9", memoryColor(0.9), ColorYellow},
		{"disk mid", diskColor(0.85), ColorYellow},
		{"disk full", diskColor(0.95), ColorRed},
		{"log err", logSeverityColor("err"), ColorRed},
		{"log warning", logSeverityColor("WARNING"), ColorYellow},
		{"log notice", logSeverityColor("notice"), ColorGreen},
		{"log debug", logSeverityColor("debug"), ColorBlue},
		{"log other", logSeverityColor("trace"), ColorWhite},
		{"audit completed", auditStatusColor(model.AuditCompleted), ColorGreen},
		{"audit failed", auditStatusColor(model.AuditFailed), ColorRed},
		{"audit running", auditStatusColor(model.AuditRunning), ColorYellow},
		{"audit other", auditStatusColor("QUEUED"), ColorGray},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	if alertSeverityStyle("CRITICAL").GetForeground() != ColorRed || !alertSeverityStyle("CRITICAL").GetBold() {
		t.Error("critical alerts are not bold red")
	}
	if alertSeverityStyle("HIGH").GetForeground() != ColorMagenta {
		t.Error("high alerts are not magenta")
	}
}

func TestLineFormats(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, newCountingBackend())
	rec := model.LogRecord{Timestamp: "2025-03-01 10:00:01", Hostname: "web1", Unit: "sshd", Severity: "err", Source: "journald", Message: "auth failure"}

	checks := []struct {
		name, got, want string
	}{
		{"dashboard log", dashboardLogLine(rec), "10:00:01 [err] sshd: auth failure"},
		{"logs tab", logsTabLine(rec), "2025-03-01 10:00:01 err [journald] sshd@web1: auth failure"},
		{"search hit", searchHitLine(model.SearchHit{Log: rec, Similarity: 0.8765}), "0.877 | 2025-03-01 10:00:01 [err] sshd: auth failure"},
		{"alert", dashboardAlertLine(model.Alert{ID: "0f3c9a1e-77aa-4e", Severity: "HIGH", Message: "disk", Acknowledged: true}), "✓ 0f3c9a1e [HIGH] disk"},
		{"report", reportLine(model.ReportSummary{ID: "r1", Title: "Daily", Format: "text", SizeBytes: 2048, GeneratedAt: "2025-03-01"}), "r1 | Daily | text | 2.0 kB | 2025-03-01"},
		{"source", sourceLine(model.ConfigSource{Name: "nginx", Type: "file", Settings: map[string]string{"path": "/var/log/nginx"}}), "✗ nginx | file | DISABLED | 1 configs"},
		{"audit", m.auditLine(model.SecurityAudit{ID: "abcdef0123", Tool: "lynis", Timestamp: t0.Add(-2 * time.Hour), Status: model.AuditCompleted, FindingsCount: 4, Summary: "ok"}), "lynis | COMPLETED | 2 hours ago | 4 findings | ok | ID:abcdef01"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s line = %q, want %q", c.name, c.got, c.want)
		}
	}
}

func TestStatusLine(t *testing.T) {
	t.Parallel()

	m, clk := newTestModel(t, newCountingBackend())
	if got := m.statusText(); !strings.Contains(got, "Auto-refresh: ON | Last update: never") {
		t.Fatalf("status = %q", got)
	}

	start(t, m)
	clk.Advance(7 * time.Second)
	m.Update(TickMsg(clk.Now()))
	want := "Data refreshed successfully | Auto-refresh: ON | Last update: 7s ago | daemon 0.3.1"
	if got := m.statusText(); got != want {
		t.Fatalf("status = %q, want %q", got, want)
	}
}

func TestViewIsPure(t *testing.T) {
	t.Parallel()

	b := newCountingBackend()
	b.logs = sampleLogs()
	b.metrics = []model.MetricSample{
		{Kind: "cpu_percent", Value: 40, Unit: "%"},
		{Kind: "cpu_percent", Value: 60, Unit: "%"},
		{Kind: "disk_percent", Value: 80, Unit: "%"},
	}
	b.health = &model.SystemHealth{CPUPercent: 0.5, MemoryPercent: 0.5, DiskPercent: 0.5, UptimeSeconds: 90061, Services: map[string]bool{"sshd": true, "cron": false}}
	m, _ := newTestModel(t, b)
	start(t, m)

	for tab := range Tab(tabCount) {
		m.tab = tab
		first := m.View()
		if second := m.View(); first != second {
			t.Fatalf("%s view changed between renders", m.activeTab().title)
		}
		if first == "" {
			t.Fatalf("%s view is empty", m.activeTab().title)
		}
	}
	if b.Calls("Logs") != 1 {
		t.Fatal("rendering called the backend")
	}
}

func TestTabViews(t *testing.T) {
	t.Parallel()

	b := newCountingBackend()
	b.logs = sampleLogs()
	b.health = &model.SystemHealth{UptimeSeconds: 90061, NetworkConnections: 12, Services: map[string]bool{"sshd": true, "cron": false}}
	b.sources = []model.ConfigSource{{Name: "journald", Type: "journal", Enabled: true}}
	m, _ := newTestModel(t, b)
	start(t, m)

	tests := []struct {
		key  string
		want []string
	}{
		{"2", []string{"Logs (2 total)", "sshd.service@web1: auth failure"}},
		{"3", []string{"Query: (Press '/' to edit)", "Results (0 found)"}},
		{"5", []string{"Uptime: 1d 1h 1m", "Network Connections: 12", "Services: 1 running", "Alerts (0 active)"}},
		{"6", []string{"RAG Chat History (0 messages)", "Press 'c' to start typing a message"}},
		{"9", []string{"Log Sources (1 configured)", "journald | journal | ENABLED | 0 configs"}},
	}
	for _, tt := range tests {
		press(t, m, tt.key, "r")
		view := m.View()
		for _, w := range tt.want {
			if !strings.Contains(view, w) {
				t.Errorf("tab %s view missing %q", tt.key, w)
			}
		}
	}
}

func TestMetricAverages(t *testing.T) {
	t.Parallel()

	got := metricAverages([]model.MetricSample{
		{Kind: "mem", Value: 10},
		{Kind: "cpu", Value: 1},
		{Kind: "cpu", Value: 3},
	})
	if len(got) != 2 || got[0].kind != "cpu" || got[0].avg != 2 || got[0].count != 2 || got[1].kind != "mem" {
		t.Fatalf("averages = %+v", got)
	}
}
