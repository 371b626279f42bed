package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/chimera/logmind/internal/model"
	"github.com/chimera/logmind/internal/wire"
)

const healthLiveOnly = "OK"

// replyKind is what a successful action reply looks like.
type replyKind int

const (
	replyOK   replyKind = iota // "OK [key=value ...]"
	replyJSON                  // one JSON document, possibly pretty-printed
	replyText                  // any non-empty text (rendered reports)
)

// Ingest runs INGEST_JOURNAL <seconds> <limit>.
func (c *Client) Ingest(ctx context.Context, window time.Duration, limit int) (model.Ack, error) {
	cmd := newCommand("INGEST_JOURNAL").
		positional(fmt.Sprint(int64(orDefault(window, model.DefaultIngestWindow) / time.Second))).
		positional(fmt.Sprint(orDefault(limit, model.DefaultIngestLimit)))
	return c.act(ctx, cmd, replyOK)
}

// IngestAll runs INGEST_ALL over every enabled source.
func (c *Client) IngestAll(ctx context.Context) (model.Ack, error) {
	return c.act(ctx, newCommand("INGEST_ALL"), replyOK)
}

// CollectMetrics runs COLLECT_METRICS.
func (c *Client) CollectMetrics(ctx context.Context) (model.Ack, error) {
	return c.act(ctx, newCommand("COLLECT_METRICS"), replyOK)
}

// GenerateReport runs REPORT GENERATE. The daemon answers with the rendered
// report, which is summarised rather than kept.
func (c *Client) GenerateReport(ctx context.Context, window time.Duration, format model.ReportFormat) (model.Ack, error) {
	cmd := newCommand("REPORT", "GENERATE").
		seconds("since", orDefault(window, model.DailyReportWindow)).
		arg("format", string(orDefault(format, model.ReportText)))
	return c.act(ctx, cmd, replyText)
}

// Index runs INDEX. limit 0 leaves the daemon's default.
func (c *Client) Index(ctx context.Context, window time.Duration, limit int) (model.Ack, error) {
	cmd := newCommand("INDEX").seconds("since", orDefault(window, model.DefaultIndexWindow))
	if limit > 0 {
		cmd.int("limit", limit)
	}
	return c.act(ctx, cmd, replyOK)
}

// RunAudit runs AUDIT FULL for an empty tool, otherwise AUDIT TOOL tool=<tool>.
func (c *Client) RunAudit(ctx context.Context, tool string) (model.Ack, error) {
	cmd := newCommand("AUDIT", "FULL")
	if tool != "" {
		cmd = newCommand("AUDIT", "TOOL").arg("tool", tool)
	}
	return c.act(ctx, cmd, replyJSON)
}

// UpdateSource runs CONFIG UPDATE_SOURCE to enable or disable a source.
func (c *Client) UpdateSource(ctx context.Context, name string, enabled bool) (model.Ack, error) {
	cmd := newCommand("CONFIG", "UPDATE_SOURCE").text("name", name).bool("enabled", enabled)
	return c.act(ctx, cmd, replyOK)
}

// RemoveSource runs CONFIG REMOVE_SOURCE.
func (c *Client) RemoveSource(ctx context.Context, name string) (model.Ack, error) {
	cmd := newCommand("CONFIG", "REMOVE_SOURCE").text("name", name)
	return c.act(ctx, cmd, replyOK)
}

// ErrUnencodableSettings is returned by AddSource when settings would not
// survive the daemon's whitespace tokenizer.
var ErrUnencodableSettings = errors.New("gateway: source settings must not contain whitespace")

// AddSource runs CONFIG ADD_SOURCE. Settings travel as compact JSON, which
// the daemon parses verbatim.
func (c *Client) AddSource(ctx context.Context, src model.ConfigSource) (model.Ack, error) {
	cmd := newCommand("CONFIG", "ADD_SOURCE").
		text("name", src.Name).
		text("type", src.Type).
		bool("enabled", src.Enabled)
	if len(src.Settings) > 0 {
		data, err := json.Marshal(src.Settings)
		if err != nil {
			return model.Ack{}, fmt.Errorf("gateway: encode settings: %w", err)
		}
		if strings.ContainsAny(string(data), " \t\r\n") {
			return model.Ack{}, ErrUnencodableSettings
		}
		cmd.positional("config=" + string(data))
	}
	return c.act(ctx, cmd, replyOK)
}

func (c *Client) act(ctx context.Context, cmd *command, kind replyKind) (model.Ack, error) {
	raw, err := c.roundTrip(ctx, cmd)
	if err != nil {
		return model.Ack{}, err
	}
	ack, err := parseAck(cmd, raw, kind)
	if err != nil {
		c.log.Warn().Err(err).Str("verb", cmd.verb).Msg("action not acknowledged")
	}
	return ack, err
}

func parseAck(cmd *command, raw string, kind replyKind) (model.Ack, error) {
	line := firstLine(raw)
	if line == "" {
		return model.Ack{}, &MalformedReplyError{Command: cmd.verb, Reason: "empty reply", Reply: raw}
	}
	if isErrorLine(line) {
		return model.Ack{}, rejected(cmd, line)
	}

	ack := model.Ack{Command: cmd.verb, Fields: map[string]string{}}
	switch {
	case isAckLine(line):
		ack.Summary = parseOKLine(line, ack.Fields)
	case kind == replyOK:
		return model.Ack{}, &MalformedReplyError{Command: cmd.verb, Reason: "expected OK", Reply: raw}
	case kind == replyJSON:
		rec, err := wire.DecodeDocument(raw)
		if err != nil {
			return model.Ack{}, &MalformedReplyError{Command: cmd.verb, Reason: "expected a JSON document", Reply: raw, Err: err}
		}
		ack.Summary = summarizeDocument(rec, ack.Fields)
	default:
		body := strings.TrimSpace(raw)
		ack.Fields["bytes"] = fmt.Sprint(len(body))
		ack.Summary = fmt.Sprintf("%d lines", strings.Count(body, "\n")+1)
	}
	return ack, nil
}

// parseOKLine splits "OK inserted=3 total=9" into fields and returns the
// remaining free text ("OK source-added" yields "source-added").
func parseOKLine(line string, fields map[string]string) string {
	var words []string
	for _, tok := range strings.Fields(line)[1:] {
		if k, v, ok := strings.Cut(tok, "="); ok && k != "" {
			fields[k] = v
			continue
		}
		words = append(words, tok)
	}
	if len(words) > 0 {
		return strings.Join(words, " ")
	}
	if len(fields) == 0 {
		return "accepted"
	}
	parts := make([]string, 0, len(fields))
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		parts = append(parts, k+"="+fields[k])
	}
	return strings.Join(parts, " ")
}

// summarizeDocument reduces an audit result to its headline numbers. Full
// audits carry a "summary" object; single-tool runs carry status directly.
func summarizeDocument(rec wire.Record, fields map[string]string) string {
	src := rec
	if sum, ok, _ := rec.Object("summary"); ok {
		src = sum
	}
	for k, v := range src.Value() {
		switch v := v.(type) {
		case string:
			fields[k] = v
		case float64, bool:
			fields[k] = fmt.Sprint(v)
		}
	}
	if status, ok := fields["status"]; ok {
		if n, ok := fields["findings_count"]; ok {
			return fmt.Sprintf("%s, %s findings", status, n)
		}
		return status
	}
	parts := make([]string, 0, len(fields))
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		parts = append(parts, k+"="+fields[k])
	}
	if len(parts) == 0 {
		return "accepted"
	}
	return strings.Join(parts, " ")
}

func isAckLine(line string) bool {
	return line == "OK" || strings.HasPrefix(line, "OK ")
}

func isErrorLine(line string) bool {
	return line == wire.ErrorSentinel || strings.HasPrefix(line, wire.ErrorSentinel+" ")
}

func rejected(cmd *command, line string) *RejectedError {
	msg := strings.TrimSpace(strings.TrimPrefix(line, wire.ErrorSentinel))
	if msg == "" {
		msg = "unspecified error"
	}
	return &RejectedError{Command: cmd.verb, Message: msg}
}
