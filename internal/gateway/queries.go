package gateway

import (
	"context"
	"strings"
	"time"

	"github.com/chimera/logmind/internal/model"
	"github.com/chimera/logmind/internal/wire"
)

// query sends cmd and maps every decodable line. Undecodable lines are
// logged and dropped; a reply with no valid lines is an empty result.
func query[T any](ctx context.Context, c *Client, cmd *command, mapper wire.Mapper[T]) ([]T, error) {
	raw, err := c.roundTrip(ctx, cmd)
	if err != nil {
		return nil, err
	}
	items, issues := wire.Collect(raw, mapper)
	c.reportIssues(cmd, issues)
	return items, nil
}

func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

// Logs runs QUERY_LOGS. Records come back in the daemon's order.
func (c *Client) Logs(ctx context.Context, q model.LogQuery) ([]model.LogRecord, error) {
	order := "desc"
	if q.Ascending {
		order = "asc"
	}
	cmd := newCommand("QUERY_LOGS").
		seconds("since", orDefault(q.Window, model.DefaultLogWindow)).
		int("limit", orDefault(q.Limit, model.DefaultLogLimit)).
		arg("order", order)
	if q.Contains != "" {
		cmd.text("contains", q.Contains)
	}
	cmd.optArg("min_severity", q.MinSeverity).
		optArg("unit", q.Unit).
		optArg("hostname", q.Hostname).
		optArg("source", q.Source)
	return query(ctx, c, cmd, mapLog)
}

// Metrics runs METRICS.
func (c *Client) Metrics(ctx context.Context, q model.MetricQuery) ([]model.MetricSample, error) {
	cmd := newCommand("METRICS").
		optArg("type", q.Kind).
		seconds("since", orDefault(q.Window, model.DefaultMetricWindow)).
		int("limit", orDefault(q.Limit, model.DefaultMetricLimit))
	return query(ctx, c, cmd, mapMetric)
}

// Alerts runs ALERTS.
func (c *Client) Alerts(ctx context.Context, q model.AlertQuery) ([]model.Alert, error) {
	cmd := newCommand("ALERTS").
		seconds("since", orDefault(q.Window, model.DefaultAlertWindow)).
		optArg("severity", q.Severity)
	if q.Acknowledged != nil {
		cmd.bool("acknowledged", *q.Acknowledged)
	}
	return query(ctx, c, cmd, mapAlert)
}

// Anomalies runs ANOMALIES over the given window.
func (c *Client) Anomalies(ctx context.Context, window time.Duration) ([]model.Anomaly, error) {
	cmd := newCommand("ANOMALIES").seconds("since", orDefault(window, model.DefaultAlertWindow))
	return query(ctx, c, cmd, mapAnomaly)
}

// Search runs a semantic SEARCH. Hits keep the daemon's ranking order.
func (c *Client) Search(ctx context.Context, q model.SearchQuery) ([]model.SearchHit, error) {
	cmd := newCommand("SEARCH").
		text("query", q.Text).
		int("n_results", orDefault(q.Results, model.DefaultSearchLimit))
	if q.Window > 0 {
		cmd.seconds("since", q.Window)
	}
	return query(ctx, c, cmd, mapSearchHit)
}

// Reports runs REPORT LIST.
func (c *Client) Reports(ctx context.Context, limit int) ([]model.ReportSummary, error) {
	cmd := newCommand("REPORT", "LIST").int("limit", orDefault(limit, model.DefaultReportLimit))
	return query(ctx, c, cmd, mapReport)
}

// Audits runs AUDIT HISTORY.
func (c *Client) Audits(ctx context.Context, limit int) ([]model.SecurityAudit, error) {
	cmd := newCommand("AUDIT", "HISTORY").int("limit", orDefault(limit, model.DefaultAuditLimit))
	return query(ctx, c, cmd, mapAudit)
}

// AuditDetails runs AUDIT DETAILS and returns the raw document.
func (c *Client) AuditDetails(ctx context.Context, id string) (map[string]any, error) {
	return c.document(ctx, newCommand("AUDIT", "DETAILS").arg("id", id))
}

// AppConfig runs CONFIG GET and returns the daemon configuration document.
func (c *Client) AppConfig(ctx context.Context) (map[string]any, error) {
	return c.document(ctx, newCommand("CONFIG", "GET"))
}

func (c *Client) document(ctx context.Context, cmd *command) (map[string]any, error) {
	raw, err := c.roundTrip(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if line := firstLine(raw); isErrorLine(line) {
		return nil, rejected(cmd, line)
	}
	rec, err := wire.DecodeDocument(raw)
	if err != nil {
		return nil, &MalformedReplyError{Command: cmd.verb, Reason: "expected a JSON object", Reply: raw, Err: err}
	}
	return rec.Value(), nil
}

// ConfigSources runs CONFIG LIST. The daemon wraps sources in a
// {"sources": [...]} envelope; bare one-source-per-line replies are accepted too.
func (c *Client) ConfigSources(ctx context.Context) ([]model.ConfigSource, error) {
	cmd := newCommand("CONFIG", "LIST")
	raw, err := c.roundTrip(ctx, cmd)
	if err != nil {
		return nil, err
	}

	var (
		out    []model.ConfigSource
		issues []error
	)
	for rec, err := range wire.Decode(raw) {
		if err != nil {
			issues = append(issues, err)
			continue
		}
		if !rec.Has("sources") {
			if src, err := mapSource(rec); err != nil {
				issues = append(issues, err)
			} else {
				out = append(out, src)
			}
			continue
		}
		elems, err := rec.Objects("sources")
		if err != nil {
			issues = append(issues, &wire.DecodeError{Line: rec.Line(), Field: "sources", Reason: "wrong type", Err: err})
			continue
		}
		for _, elem := range elems {
			src, err := mapSource(elem)
			if err != nil {
				issues = append(issues, &wire.DecodeError{Line: rec.Line(), Field: "sources", Reason: "invalid source", Err: err})
				continue
			}
			out = append(out, src)
		}
	}
	c.reportIssues(cmd, issues)
	return out, nil
}

// Health runs HEALTH. Daemon builds that only answer a bare "OK" yield a
// nil snapshot and no error.
func (c *Client) Health(ctx context.Context) (*model.SystemHealth, error) {
	cmd := newCommand("HEALTH")
	raw, err := c.roundTrip(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw) == healthLiveOnly {
		return nil, nil
	}
	snaps, issues := wire.Collect(raw, mapHealth)
	c.reportIssues(cmd, issues)
	if len(snaps) == 0 {
		return nil, nil
	}
	return &snaps[0], nil
}

// Ping runs PING and reports whether the daemon answered PONG.
func (c *Client) Ping(ctx context.Context) error {
	cmd := newCommand("PING")
	raw, err := c.roundTrip(ctx, cmd)
	if err != nil {
		return err
	}
	if line := firstLine(raw); line != "PONG" {
		if isErrorLine(line) {
			return rejected(cmd, line)
		}
		return &MalformedReplyError{Command: cmd.verb, Reason: "expected PONG", Reply: raw}
	}
	return nil
}

// Version runs VERSION and returns the daemon's version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	cmd := newCommand("VERSION")
	raw, err := c.roundTrip(ctx, cmd)
	if err != nil {
		return "", err
	}
	line := firstLine(raw)
	switch {
	case line == "":
		return "", &MalformedReplyError{Command: cmd.verb, Reason: "empty reply"}
	case isErrorLine(line):
		return "", rejected(cmd, line)
	}
	return line, nil
}
