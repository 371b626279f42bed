package model

import (
	"context"
	"time"
)

// LogQuery selects log records. Zero Window and Limit fall back to defaults.
type LogQuery struct {
	Window      time.Duration
	Limit       int
	Ascending   bool
	Contains    string // free text; empty = no filter
	MinSeverity string
	Unit        string
	Hostname    string
	Source      string
}

// MetricQuery selects stored metrics. Empty Kind = all kinds.
type MetricQuery struct {
	Kind   string
	Window time.Duration
	Limit  int
}

// AlertQuery selects alerts. Acknowledged nil = both states.
type AlertQuery struct {
	Window       time.Duration
	Severity     string
	Acknowledged *bool
}

// SearchQuery is a semantic search request. Window 0 = unbounded.
type SearchQuery struct {
	Text    string
	Results int
	Window  time.Duration
}

// Querier provides the daemon's read-only capabilities.
type Querier interface {
	Logs(ctx context.Context, q LogQuery) ([]LogRecord, error)
	Metrics(ctx context.Context, q MetricQuery) ([]MetricSample, error)
	Alerts(ctx context.Context, q AlertQuery) ([]Alert, error)
	Anomalies(ctx context.Context, window time.Duration) ([]Anomaly, error)
	Search(ctx context.Context, q SearchQuery) ([]SearchHit, error)
	Reports(ctx context.Context, limit int) ([]ReportSummary, error)
	Audits(ctx context.Context, limit int) ([]SecurityAudit, error)
	AuditDetails(ctx context.Context, id string) (map[string]any, error)
	ConfigSources(ctx context.Context) ([]ConfigSource, error)
	AppConfig(ctx context.Context) (map[string]any, error)
	Health(ctx context.Context) (*SystemHealth, error)
	Version(ctx context.Context) (string, error)
}

// Actor provides the daemon's mutating or triggering capabilities. Each
// returns once the daemon accepted (or refused) the request; none waits
// for the underlying job.
type Actor interface {
	Ingest(ctx context.Context, window time.Duration, limit int) (Ack, error)
	IngestAll(ctx context.Context) (Ack, error)
	CollectMetrics(ctx context.Context) (Ack, error)
	GenerateReport(ctx context.Context, window time.Duration, format ReportFormat) (Ack, error)
	Index(ctx context.Context, window time.Duration, limit int) (Ack, error)
	RunAudit(ctx context.Context, tool string) (Ack, error)
	UpdateSource(ctx context.Context, name string, enabled bool) (Ack, error)
	RemoveSource(ctx context.Context, name string) (Ack, error)
}

// Chatter sends one message and returns the assistant's reply.
type Chatter interface {
	Chat(ctx context.Context, message string) (ChatTurn, error)
}

// Backend is everything the dashboard needs from the daemon.
type Backend interface {
	Querier
	Actor
	Chatter
}
