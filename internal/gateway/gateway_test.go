package gateway

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chimera/logmind/internal/model"
	"github.com/chimera/logmind/internal/socketrpc"
	"github.com/chimera/logmind/internal/socketrpc/sockettest"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// scriptedDoer answers by command prefix and records every command.
type scriptedDoer struct {
	mu       sync.Mutex
	replies  map[string]string
	err      error
	commands []string
}

func (d *scriptedDoer) Do(_ context.Context, command string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.commands = append(d.commands, command)
	if d.err != nil {
		return "", d.err
	}
	best := ""
	for prefix := range d.replies {
		if strings.HasPrefix(command, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}
	return d.replies[best], nil
}

func (d *scriptedDoer) last() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.commands[len(d.commands)-1]
}

func newTestClient(replies map[string]string) (*Client, *scriptedDoer) {
	d := &scriptedDoer{replies: replies}
	c := New(d, zerolog.New(io.Discard), Options{})
	c.now = func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }
	return c, d
}

func TestCommandStrings(t *testing.T) {
	t.Parallel()

	c, d := newTestClient(map[string]string{"": "OK\n"})
	ctx := context.Background()
	ack := true

	tests := []struct {
		name string
		call func() error
		want string
	}{
		{"logs default", func() error { _, err := c.Logs(ctx, model.LogQuery{}); return err },
			"QUERY_LOGS since=3600 limit=200 order=desc"},
		{"logs filtered", func() error {
			_, err := c.Logs(ctx, model.LogQuery{Window: time.Minute, Limit: 5, Ascending: true, Contains: "disk full", Unit: "sshd.service"})
			return err
		}, "QUERY_LOGS since=60 limit=5 order=asc contains=disk%20full unit=sshd.service"},
		{"metrics", func() error { _, err := c.Metrics(ctx, model.MetricQuery{Window: time.Hour, Limit: 100}); return err },
			"METRICS since=3600 limit=100"},
		{"metrics by kind", func() error { _, err := c.Metrics(ctx, model.MetricQuery{Kind: "cpu_percent"}); return err },
			"METRICS type=cpu_percent since=3600 limit=100"},
		{"alerts", func() error {
			_, err := c.Alerts(ctx, model.AlertQuery{Window: time.Hour, Severity: "HIGH", Acknowledged: &ack})
			return err
		}, "ALERTS since=3600 severity=HIGH acknowledged=true"},
		{"anomalies", func() error { _, err := c.Anomalies(ctx, 24*time.Hour); return err },
			"ANOMALIES since=86400"},
		{"search", func() error {
			_, err := c.Search(ctx, model.SearchQuery{Text: "failed login & sudo", Results: 20, Window: 24 * time.Hour})
			return err
		}, "SEARCH query=failed%20login%20&%20sudo n_results=20 since=86400"},
		{"reports", func() error { _, err := c.Reports(ctx, 20); return err }, "REPORT LIST limit=20"},
		{"audits", func() error { _, err := c.Audits(ctx, 20); return err }, "AUDIT HISTORY limit=20"},
		{"config list", func() error { _, err := c.ConfigSources(ctx); return err }, "CONFIG LIST"},
		{"health", func() error { _, err := c.Health(ctx); return err }, "HEALTH"},
		{"ingest", func() error { _, err := c.Ingest(ctx, 300*time.Second, 500); return err }, "INGEST_JOURNAL 300 500"},
		{"ingest all", func() error { _, err := c.IngestAll(ctx); return err }, "INGEST_ALL"},
		{"collect", func() error { _, err := c.CollectMetrics(ctx); return err }, "COLLECT_METRICS"},
		{"index", func() error { _, err := c.Index(ctx, 24*time.Hour, 0); return err }, "INDEX since=86400"},
		{"weekly report", func() error { _, err := c.GenerateReport(ctx, 7*24*time.Hour, model.ReportHTML); return err },
			"REPORT GENERATE since=604800 format=html"},
		{"update source", func() error { _, err := c.UpdateSource(ctx, "journald", false); return err },
			"CONFIG UPDATE_SOURCE name=journald enabled=false"},
		{"remove source", func() error { _, err := c.RemoveSource(ctx, "nginx logs"); return err },
			"CONFIG REMOVE_SOURCE name=nginx%20logs"},
	}

	for _, tt := range tests {
		require.NoError(t, tt.call(), tt.name)
		require.Equal(t, tt.want, d.last(), tt.name)
	}
}

func TestAuditCommands(t *testing.T) {
	t.Parallel()

	c, d := newTestClient(map[string]string{"AUDIT": `{"status":"completed","findings_count":2}`})
	ctx := context.Background()

	ack, err := c.RunAudit(ctx, "")
	require.NoError(t, err)
	require.Equal(t, "AUDIT FULL", d.last())
	require.Equal(t, "completed, 2 findings", ack.Summary)

	_, err = c.RunAudit(ctx, "rkhunter")
	require.NoError(t, err)
	require.Equal(t, "AUDIT TOOL tool=rkhunter", d.last())
}

func TestLogsScenarioA(t *testing.T) {
	t.Parallel()

	srv := sockettest.Start(t, sockettest.Routes(map[string]string{
		"QUERY_LOGS": `{"ts":"2025-03-01 10:00:00","hostname":"web1","unit":"sshd.service","severity":"err","source":"journald","message":"auth failure"}` + "\n" +
			`{"ts":"2025-03-01 09:59:58","hostname":"web1","unit":"cron","severity":"info","mess` + "\n" +
			`{"ts":"2025-03-01 09:59:50","hostname":"web2","unit":"nginx","severity":"warning","source":"file","message":"slow upstream","fingerprint":"abc"}` + "\n",
	}))
	c := New(socketrpc.NewClient(srv.Path()), zerolog.New(io.Discard), Options{})

	logs, err := c.Logs(context.Background(), model.LogQuery{Window: time.Hour, Limit: 200})
	require.NoError(t, err)
	require.Equal(t, []string{"QUERY_LOGS since=3600 limit=200 order=desc"}, srv.Commands())
	require.Len(t, logs, 2)
	require.Equal(t, "auth failure", logs[0].Message)
	require.Equal(t, "slow upstream", logs[1].Message)
	require.Equal(t, "abc", logs[1].Fingerprint)
	require.Empty(t, logs[0].Fingerprint)
}

func TestQueriesMapFields(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(map[string]string{
		"METRICS": `{"timestamp":1700000000,"type":"cpu_percent","value":0.42,"unit":"ratio","hostname":"h1"}` + "\n" +
			`{"timestamp":"2024-01-01T00:00:00","metric_type":"memory_percent","value":0.5}` + "\n",
		"ALERTS":     `{"id":12,"timestamp":1700000000,"severity":"high","message":"disk","acknowledged":false,"alert_type":"disk"}`,
		"ANOMALIES":  `{"timestamp":1700000000,"anomaly_score":0.91,"message":"spike","unit":"nginx","severity":"err"}`,
		"REPORT":     `{"filename":"report_20250301.txt","size":2048,"modified":"2025-03-01T10:00:00"}`,
		"AUDIT":      `{"id":3,"tool":"aide","timestamp":1700000000,"status":"completed","findings_count":1,"summary":"1 changed file"}`,
		"SEARCH":     `{"ts":"x","message":"hit","similarity":0.83}`,
		"CONFIG GET": `{"db_path":"/var/lib/chimera/chimera.duckdb","log_sources":[]}`,
	})
	ctx := context.Background()

	metrics, err := c.Metrics(ctx, model.MetricQuery{})
	require.NoError(t, err)
	require.Len(t, metrics, 2)
	require.Equal(t, "cpu_percent", metrics[0].Kind)
	require.Equal(t, "memory_percent", metrics[1].Kind)
	require.Equal(t, time.Unix(1700000000, 0).UTC(), metrics[0].Timestamp)

	alerts, err := c.Alerts(ctx, model.AlertQuery{})
	require.NoError(t, err)
	require.Equal(t, model.Alert{ID: "12", Timestamp: time.Unix(1700000000, 0).UTC(), Severity: "HIGH", Message: "disk", Source: "disk"}, alerts[0])

	anomalies, err := c.Anomalies(ctx, time.Hour)
	require.NoError(t, err)
	require.InDelta(t, 0.91, anomalies[0].Score, 1e-9)

	reports, err := c.Reports(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, model.ReportSummary{
		ID: "report_20250301", Title: "report_20250301.txt", Format: "txt",
		GeneratedAt: "2025-03-01T10:00:00", SizeBytes: 2048,
	}, reports[0])

	audits, err := c.Audits(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, model.AuditCompleted, audits[0].Status)
	require.Equal(t, "3", audits[0].ID)

	hits, err := c.Search(ctx, model.SearchQuery{Text: "hit"})
	require.NoError(t, err)
	require.Equal(t, "hit", hits[0].Log.Message)
	require.InDelta(t, 0.83, hits[0].Similarity, 1e-9)

	cfg, err := c.AppConfig(ctx)
	require.NoError(t, err)
	require.Equal(t, "/var/lib/chimera/chimera.duckdb", cfg["db_path"])
}

func TestWrongTypedFieldDropsOnlyThatLine(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(map[string]string{
		"ALERTS": `{"id":"a1","severity":"LOW","acknowledged":"no"}` + "\n" + `{"id":"a2","severity":"LOW"}`,
	})
	alerts, err := c.Alerts(context.Background(), model.AlertQuery{})
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	require.Equal(t, "a2", alerts[0].ID)
}

func TestConfigSourcesEnvelope(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(map[string]string{
		"CONFIG LIST": `{"sources":[{"name":"journald","type":"journald","enabled":true,"config":{"units":"sshd"}},` +
			`{"name":"nginx","type":"file","enabled":false,"config":{"path":"/var/log/nginx/access.log","follow":true}},` +
			`{"name":7}]}`,
	})
	sources, err := c.ConfigSources(context.Background())
	require.NoError(t, err)
	require.Len(t, sources, 2)
	require.Equal(t, model.ConfigSource{Name: "journald", Type: "journald", Enabled: true, Settings: map[string]string{"units": "sshd"}}, sources[0])
	require.Equal(t, "true", sources[1].Settings["follow"])
}

func TestConfigSourcesPerLine(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(map[string]string{
		"CONFIG LIST": `{"name":"a","type":"file","enabled":true}` + "\n" + `{"name":"b","type":"file","enabled":false}`,
	})
	sources, err := c.ConfigSources(context.Background())
	require.NoError(t, err)
	require.Len(t, sources, 2)
	require.Empty(t, sources[0].Settings)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	t.Run("liveness only", func(t *testing.T) {
		c, _ := newTestClient(map[string]string{"HEALTH": "OK\n"})
		h, err := c.Health(context.Background())
		require.NoError(t, err)
		require.Nil(t, h)
	})

	t.Run("snapshot", func(t *testing.T) {
		c, _ := newTestClient(map[string]string{"HEALTH": `{"cpu_percent":0.85,"memory_percent":0.5,"disk_percent":0.95,` +
			`"uptime_seconds":3600,"load_1m":1.5,"load_5m":1.0,"load_15m":0.5,"network_connections":12,"services":{"sshd":true,"nginx":false}}`})
		h, err := c.Health(context.Background())
		require.NoError(t, err)
		require.NotNil(t, h)
		require.Equal(t, uint64(3600), h.UptimeSeconds)
		require.Equal(t, 12, h.NetworkConnections)
		require.Equal(t, map[string]bool{"sshd": true, "nginx": false}, h.Services)
	})

	t.Run("fractional uptime", func(t *testing.T) {
		c, _ := newTestClient(map[string]string{"HEALTH": `{"cpu_percent":0.85,"memory_percent":0.5,"disk_percent":0.95,` +
			`"uptime_seconds":3600.25,"network_connections":12.0,"services":{"sshd":true}}`})
		h, err := c.Health(context.Background())
		require.NoError(t, err)
		require.NotNil(t, h, "a float uptime must not discard the snapshot")
		require.Equal(t, uint64(3600), h.UptimeSeconds)
		require.Equal(t, 12, h.NetworkConnections)
		require.InDelta(t, 0.85, h.CPUPercent, 1e-9)
	})
}

func TestReportSizeOutOfRangeDropsLine(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(map[string]string{
		"REPORT": `{"filename":"huge.txt","size":1e300}` + "\n" + `{"filename":"ok.txt","size":10}` + "\n",
	})
	reports, err := c.Reports(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	require.Equal(t, "ok.txt", reports[0].Title)
	require.Equal(t, int64(10), reports[0].SizeBytes)
}

func TestActionAcks(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(map[string]string{
		"INGEST_JOURNAL":      "OK inserted=12 total=340\n",
		"INDEX":               "OK indexed=10 total=40\n",
		"CONFIG UPDATE":       "OK source-updated\n",
		"COLLECT_METRICS":     "collected\n",
		"INGEST_ALL":          "",
		"CONFIG REMOVE":       "ERR source-not-found\n",
		"REPORT GENERATE":     "Chimera LogMind Daily Report\n=====\nEvents: 10\n",
		"AUDIT TOOL tool=bad": "not json",
	})
	ctx := context.Background()

	ack, err := c.Ingest(ctx, 0, 0)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"inserted": "12", "total": "340"}, ack.Fields)
	require.Equal(t, "inserted=12 total=340", ack.Summary)

	ack, err = c.UpdateSource(ctx, "journald", true)
	require.NoError(t, err)
	require.Equal(t, "source-updated", ack.Summary)

	ack, err = c.GenerateReport(ctx, 0, "")
	require.NoError(t, err)
	require.Equal(t, "3 lines", ack.Summary)

	_, err = c.CollectMetrics(ctx)
	require.ErrorIs(t, err, ErrMalformedReply)

	_, err = c.IngestAll(ctx)
	var malformed *MalformedReplyError
	require.ErrorAs(t, err, &malformed)
	require.Equal(t, "empty reply", malformed.Reason)

	_, err = c.RemoveSource(ctx, "ghost")
	var rejectedErr *RejectedError
	require.ErrorAs(t, err, &rejectedErr)
	require.Equal(t, "source-not-found", rejectedErr.Message)
	require.False(t, errors.Is(err, ErrMalformedReply))

	_, err = c.RunAudit(ctx, "bad")
	require.ErrorIs(t, err, ErrMalformedReply)
}

func TestFullAuditSummary(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(map[string]string{"AUDIT FULL": "{\n  \"audits\": {},\n  \"summary\": {\n    \"total_audits\": 7,\n    \"passed\": 5,\n    \"warnings\": 2\n  }\n}\n"})
	ack, err := c.RunAudit(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, "passed=5 total_audits=7 warnings=2", ack.Summary)
}

func TestAddSource(t *testing.T) {
	t.Parallel()

	c, d := newTestClient(map[string]string{"CONFIG ADD_SOURCE": "OK source-added\n"})
	_, err := c.AddSource(context.Background(), model.ConfigSource{Name: "syslog", Type: "file", Enabled: true, Settings: map[string]string{"path": "/var/log/syslog"}})
	require.NoError(t, err)
	require.Equal(t, `CONFIG ADD_SOURCE name=syslog type=file enabled=true config={"path":"/var/log/syslog"}`, d.last())

	_, err = c.AddSource(context.Background(), model.ConfigSource{Name: "x", Type: "file", Settings: map[string]string{"path": "/my logs"}})
	require.ErrorIs(t, err, ErrUnencodableSettings)
}

func TestChat(t *testing.T) {
	t.Parallel()

	t.Run("reply with optional fields", func(t *testing.T) {
		c, d := newTestClient(map[string]string{"CHAT": `{"response":"Two sshd failures.","confidence":0.7,"sources_count":4}`})
		turn, err := c.Chat(context.Background(), "what failed?")
		require.NoError(t, err)
		require.Equal(t, "CHAT query=what%20failed%3F context_size=5", d.last())
		require.Equal(t, model.RoleAssistant, turn.Role)
		require.Equal(t, "Two sshd failures.", turn.Content)
		require.InDelta(t, 0.7, *turn.Confidence, 1e-9)
		require.Equal(t, 4, *turn.SourceCount)
		require.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), turn.Timestamp)
	})

	t.Run("bare response", func(t *testing.T) {
		c, _ := newTestClient(map[string]string{"CHAT": `{"response":"ok"}`})
		turn, err := c.Chat(context.Background(), "hi")
		require.NoError(t, err)
		require.Nil(t, turn.Confidence)
		require.Nil(t, turn.SourceCount)
	})

	t.Run("parse failure is distinct from transport failure", func(t *testing.T) {
		c, _ := newTestClient(map[string]string{"CHAT": `{"session":{"session_id":"chat_1"}}`})
		_, err := c.Chat(context.Background(), "hi")
		require.ErrorIs(t, err, ErrMalformedReply)

		d := &scriptedDoer{err: &socketrpc.ConnectionError{Addr: "/run/chimera/api.sock", Err: errors.New("connection refused")}}
		_, err = New(d, zerolog.New(io.Discard), Options{}).Chat(context.Background(), "hi")
		var connErr *socketrpc.ConnectionError
		require.ErrorAs(t, err, &connErr)
		require.False(t, errors.Is(err, ErrMalformedReply))
	})

	t.Run("empty message", func(t *testing.T) {
		c, d := newTestClient(nil)
		_, err := c.Chat(context.Background(), "   ")
		require.ErrorIs(t, err, ErrEmptyMessage)
		require.Empty(t, d.commands)
	})
}

func TestPingAndVersion(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(map[string]string{"PING": "PONG\n", "VERSION": "0.3.1\n"})
	require.NoError(t, c.Ping(context.Background()))
	v, err := c.Version(context.Background())
	require.NoError(t, err)
	require.Equal(t, "0.3.1", v)

	bad, _ := newTestClient(map[string]string{"PING": "HELLO\n"})
	require.ErrorIs(t, bad.Ping(context.Background()), ErrMalformedReply)
}

func TestErrLineQueriesAreEmpty(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(map[string]string{"QUERY_LOGS": "ERR db-not-initialized\n"})
	logs, err := c.Logs(context.Background(), model.LogQuery{})
	require.NoError(t, err)
	require.Empty(t, logs)
}
