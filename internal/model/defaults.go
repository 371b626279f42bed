package model

import "time"

// Defaults shared by the gateway, the dashboard and the CLI config.
const (
	DefaultRefreshInterval = 30 * time.Second
	DefaultPollInterval    = 500 * time.Millisecond
	DefaultRequestTimeout  = 10 * time.Second

	DefaultLogWindow    = time.Hour
	DefaultLogLimit     = 200
	DefaultMetricWindow = time.Hour
	DefaultMetricLimit  = 100
	DefaultAlertWindow  = time.Hour
	DefaultAnomalyScan  = 24 * time.Hour
	DefaultSearchWindow = 24 * time.Hour
	DefaultSearchLimit  = 20
	DefaultChatContext  = 5
	DefaultReportLimit  = 20
	DefaultAuditLimit   = 20

	DefaultIngestWindow = 300 * time.Second
	DefaultIngestLimit  = 500
	DefaultIndexWindow  = 24 * time.Hour
	DailyReportWindow   = 24 * time.Hour
	WeeklyReportWindow  = 7 * 24 * time.Hour
)
