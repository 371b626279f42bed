package model

import "time"

// LogRecord is one journal/log entry as returned by QUERY_LOGS and SEARCH.
// Timestamp is kept as the daemon's text so the UI shows exactly what was stored.
type LogRecord struct {
	Timestamp   string
	Hostname    string
	Unit        string
	Severity    string
	Source      string
	Message     string
	Fingerprint string // empty = none
}

// MetricSample is a single stored system metric.
type MetricSample struct {
	Timestamp time.Time
	Kind      string // e.g. cpu_percent, memory_percent, disk_percent
	Value     float64
	Unit      string
	Hostname  string
}

// Alert is a health alert raised by the daemon. Acknowledgement is owned by
// the daemon; the client only displays it.
type Alert struct {
	ID           string
	Timestamp    time.Time
	Severity     string // CRITICAL/HIGH/MEDIUM/LOW
	Message      string
	Acknowledged bool
	Source       string
}

// ChatRole identifies who produced a chat turn.
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatTurn is one entry of the session-local conversation.
type ChatTurn struct {
	Role        ChatRole
	Content     string
	Timestamp   time.Time
	Confidence  *float64 // nil = not reported
	SourceCount *int     // nil = not reported
}

// Anomaly is a detector finding. Score is in [0, 1].
type Anomaly struct {
	Timestamp time.Time
	Score     float64
	Message   string
	Unit      string
	Severity  string
}

// ReportSummary lists a generated report; content is not fetched.
type ReportSummary struct {
	ID          string
	Title       string
	Format      string
	GeneratedAt string
	SizeBytes   int64
}

// AuditStatus is the lifecycle state of a security audit run.
type AuditStatus string

const (
	AuditCompleted AuditStatus = "COMPLETED"
	AuditFailed    AuditStatus = "FAILED"
	AuditRunning   AuditStatus = "RUNNING"
)

// SecurityAudit is one entry of the audit history.
type SecurityAudit struct {
	ID            string
	Tool          string
	Timestamp     time.Time
	Status        AuditStatus
	FindingsCount int
	Summary       string
}

// ConfigSource is a configured log source. Settings are opaque to the client.
type ConfigSource struct {
	Name     string
	Type     string
	Enabled  bool
	Settings map[string]string
}

// SystemHealth is a point-in-time snapshot. Percentages are fractions in [0, 1].
type SystemHealth struct {
	CPUPercent         float64
	MemoryPercent      float64
	DiskPercent        float64
	UptimeSeconds      uint64
	Load1              float64
	Load5              float64
	Load15             float64
	NetworkConnections int
	Services           map[string]bool
}

// SearchHit is a semantic search result.
type SearchHit struct {
	Log        LogRecord
	Similarity float64
}

// Ack is the daemon's acknowledgement of an action. Fields holds the
// key=value tokens of an "OK ..." line; Summary is a one-line description.
type Ack struct {
	Command string
	Summary string
	Fields  map[string]string
}

// ReportFormat selects the output of REPORT GENERATE.
type ReportFormat string

const (
	ReportText ReportFormat = "text"
	ReportHTML ReportFormat = "html"
	ReportJSON ReportFormat = "json"
)
