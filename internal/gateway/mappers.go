package gateway

import (
	"path/filepath"
	"strings"

	"github.com/chimera/logmind/internal/model"
	"github.com/chimera/logmind/internal/wire"
)

func mapLog(r wire.Record) (model.LogRecord, error) {
	f := r.Fields()
	rec := logFields(f)
	return rec, f.Err()
}

func logFields(f *wire.Fields) model.LogRecord {
	return model.LogRecord{
		Timestamp:   f.String("ts", "timestamp"),
		Hostname:    f.String("hostname"),
		Unit:        f.String("unit"),
		Severity:    f.String("severity"),
		Source:      f.String("source"),
		Message:     f.String("message"),
		Fingerprint: f.String("fingerprint"),
	}
}

func mapSearchHit(r wire.Record) (model.SearchHit, error) {
	f := r.Fields()
	hit := model.SearchHit{
		Log:        logFields(f),
		Similarity: f.Float("similarity", "score"),
	}
	return hit, f.Err()
}

func mapMetric(r wire.Record) (model.MetricSample, error) {
	f := r.Fields()
	m := model.MetricSample{
		Timestamp: f.Time("timestamp"),
		Kind:      f.String("type", "metric_type"),
		Value:     f.Float("value"),
		Unit:      f.String("unit"),
		Hostname:  f.String("hostname"),
	}
	return m, f.Err()
}

func mapAlert(r wire.Record) (model.Alert, error) {
	f := r.Fields()
	a := model.Alert{
		ID:           f.ID("id"),
		Timestamp:    f.Time("timestamp"),
		Severity:     strings.ToUpper(f.String("severity")),
		Message:      f.String("message"),
		Acknowledged: f.Bool("acknowledged"),
		Source:       f.String("source", "alert_type"),
	}
	return a, f.Err()
}

func mapAnomaly(r wire.Record) (model.Anomaly, error) {
	f := r.Fields()
	a := model.Anomaly{
		Timestamp: f.Time("timestamp", "ts"),
		Score:     f.Float("anomaly_score", "score"),
		Message:   f.String("message"),
		Unit:      f.String("unit"),
		Severity:  f.String("severity"),
	}
	return a, f.Err()
}

func mapReport(r wire.Record) (model.ReportSummary, error) {
	f := r.Fields()
	rep := model.ReportSummary{
		ID:          f.ID("id"),
		Title:       f.String("title", "filename"),
		Format:      f.String("format"),
		GeneratedAt: f.String("generated_at", "modified"),
		SizeBytes:   f.Int("size_bytes", "size"),
	}
	if rep.Format == "" {
		rep.Format = strings.TrimPrefix(filepath.Ext(rep.Title), ".")
	}
	if rep.ID == "" {
		rep.ID = strings.TrimSuffix(rep.Title, filepath.Ext(rep.Title))
	}
	return rep, f.Err()
}

func mapAudit(r wire.Record) (model.SecurityAudit, error) {
	f := r.Fields()
	a := model.SecurityAudit{
		ID:            f.ID("id"),
		Tool:          f.String("tool"),
		Timestamp:     f.Time("timestamp", "scan_time"),
		Status:        model.AuditStatus(strings.ToUpper(f.String("status"))),
		FindingsCount: int(f.Int("findings_count")),
		Summary:       f.String("summary"),
	}
	return a, f.Err()
}

func mapSource(r wire.Record) (model.ConfigSource, error) {
	f := r.Fields()
	s := model.ConfigSource{
		Name:     f.String("name"),
		Type:     f.String("type"),
		Enabled:  f.Bool("enabled"),
		Settings: f.StringMap("config", "settings"),
	}
	return s, f.Err()
}

func mapHealth(r wire.Record) (model.SystemHealth, error) {
	f := r.Fields()
	h := model.SystemHealth{
		CPUPercent:         f.Float("cpu_percent"),
		MemoryPercent:      f.Float("memory_percent"),
		DiskPercent:        f.Float("disk_percent"),
		Load1:              f.Float("load_1m"),
		Load5:              f.Float("load_5m"),
		Load15:             f.Float("load_15m"),
		NetworkConnections: int(f.Int("network_connections")),
		Services:           f.BoolMap("services"),
	}
	if up := f.Int("uptime_seconds"); up > 0 {
		h.UptimeSeconds = uint64(up)
	}
	return h, f.Err()
}

func mapChat(r wire.Record) (model.ChatTurn, error) {
	f := r.Fields()
	f.Require("response")
	turn := model.ChatTurn{
		Role:       model.RoleAssistant,
		Content:    f.String("response"),
		Confidence: f.OptFloat("confidence"),
	}
	if n := f.OptInt("sources_count"); n != nil {
		count := int(*n)
		turn.SourceCount = &count
	}
	return turn, f.Err()
}
