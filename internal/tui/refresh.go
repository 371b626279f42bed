package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chimera/logmind/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
)

const refreshedStatus = "Data refreshed successfully"

// fetchPlan is everything a fan-out needs, captured on the update goroutine.
type fetchPlan struct {
	domains       []Domain
	logs          model.LogQuery
	window        time.Duration // alerts and metrics
	anomalyWindow time.Duration
	metricLimit   int
	reportLimit   int
	auditLimit    int
	successStatus string // empty keeps the current status
}

// refreshResultMsg carries one complete fan-out. Only the domains in scope
// are meaningful; errs is indexed by Domain.
type refreshResultMsg struct {
	scope         []Domain
	successStatus string

	logs      []model.LogRecord
	health    *model.SystemHealth
	alerts    []model.Alert
	metrics   []model.MetricSample
	anomalies []model.Anomaly
	reports   []model.ReportSummary
	audits    []model.SecurityAudit
	sources   []model.ConfigSource

	errs [domainCount]error
}

// fetch pulls every domain in plan concurrently. Each goroutine writes only
// its own result field and error slot.
func fetch(ctx context.Context, q model.Querier, plan fetchPlan) refreshResultMsg {
	res := refreshResultMsg{scope: plan.domains, successStatus: plan.successStatus}

	var g errgroup.Group
	for _, d := range plan.domains {
		g.Go(func() error {
			res.errs[d] = res.fetchDomain(ctx, q, plan, d)
			return nil
		})
	}
	_ = g.Wait()
	return res
}

func (res *refreshResultMsg) fetchDomain(ctx context.Context, q model.Querier, plan fetchPlan, d Domain) error {
	var err error
	switch d {
	case DomainLogs:
		res.logs, err = q.Logs(ctx, plan.logs)
	case DomainHealth:
		res.health, err = q.Health(ctx)
	case DomainAlerts:
		res.alerts, err = q.Alerts(ctx, model.AlertQuery{Window: plan.window})
	case DomainMetrics:
		res.metrics, err = q.Metrics(ctx, model.MetricQuery{Window: plan.window, Limit: plan.metricLimit})
	case DomainAnomalies:
		res.anomalies, err = q.Anomalies(ctx, plan.anomalyWindow)
	case DomainReports:
		res.reports, err = q.Reports(ctx, plan.reportLimit)
	case DomainAudits:
		res.audits, err = q.Audits(ctx, plan.auditLimit)
	case DomainSources:
		res.sources, err = q.ConfigSources(ctx)
	default:
		err = fmt.Errorf("unknown domain %d", d)
	}
	return err
}

func (m *DashboardModel) plan(domains []Domain, status string) fetchPlan {
	return fetchPlan{
		domains: domains,
		logs: model.LogQuery{
			Window:   m.opts.LogWindow,
			Limit:    m.opts.LogLimit,
			Contains: m.logFilter,
		},
		window:        m.opts.LogWindow,
		anomalyWindow: m.activeAnomalyWindow(),
		metricLimit:   m.opts.MetricLimit,
		reportLimit:   m.opts.ReportLimit,
		auditLimit:    m.opts.AuditLimit,
		successStatus: status,
	}
}

func (m *DashboardModel) fetchCmd(key taskKey, plan fetchPlan) tea.Cmd {
	backend := m.backend
	return m.startTask(key, func(ctx context.Context) tea.Msg {
		return fetch(ctx, backend, plan)
	})
}

// refreshCmd issues a refresh of the active tab's scope and marks the
// scheduler. It returns nil when a refresh is already in flight.
func (m *DashboardModel) refreshCmd() tea.Cmd {
	cmd := m.fetchCmd(taskRefresh, m.plan(m.refreshScope(), refreshedStatus))
	if cmd != nil {
		m.sched.Mark(m.now)
	}
	return cmd
}

// reloadCmd re-pulls the given domains after a mutation.
func (m *DashboardModel) reloadCmd(domains ...Domain) tea.Cmd {
	if len(domains) == 0 {
		return nil
	}
	return m.fetchCmd(taskReload, m.plan(domains, ""))
}

// activeAnomalyWindow is the window later refreshes use for anomalies. It
// stays at the scan window once a scan has been issued.
func (m *DashboardModel) activeAnomalyWindow() time.Duration {
	if m.anomalyWindow > 0 {
		return m.anomalyWindow
	}
	return m.opts.LogWindow
}

// anomalyScanCmd replaces the anomalies collection with a wider window.
func (m *DashboardModel) anomalyScanCmd() tea.Cmd {
	p := m.plan([]Domain{DomainAnomalies}, "Anomaly detection completed")
	p.anomalyWindow = model.DefaultAnomalyScan
	cmd := m.fetchCmd(taskAnomalyScan, p)
	if cmd == nil {
		m.status = "Anomaly scan already running"
		return nil
	}
	m.anomalyWindow = model.DefaultAnomalyScan
	m.status = "Running anomaly detection..."
	return cmd
}

// applyRefresh replaces every successfully fetched collection in one step.
// A failed logs fetch empties the log list; other failed domains keep their
// previous data. A successful health fetch without a snapshot clears it.
func (m *DashboardModel) applyRefresh(msg refreshResultMsg) {
	var (
		failed   []string
		firstErr error
	)
	for _, d := range msg.scope {
		if err := msg.errs[d]; err != nil {
			m.log.Warn().Err(err).Str("domain", d.String()).Msg("refresh failed")
			failed = append(failed, d.String())
			if firstErr == nil {
				firstErr = err
			}
			if d == DomainLogs {
				m.logs.Clear()
			}
			continue
		}
		switch d {
		case DomainLogs:
			m.logs.Replace(msg.logs)
		case DomainHealth:
			// nil means the daemon no longer reports a snapshot.
			m.health = msg.health
		case DomainAlerts:
			m.alerts.Replace(msg.alerts)
		case DomainMetrics:
			m.metrics = append([]model.MetricSample(nil), msg.metrics...)
		case DomainAnomalies:
			m.anomalies.Replace(msg.anomalies)
		case DomainReports:
			m.reports.Replace(msg.reports)
		case DomainAudits:
			m.audits.Replace(msg.audits)
		case DomainSources:
			m.sources.Replace(msg.sources)
		}
	}
	m.lastUpdate = m.now

	if firstErr != nil {
		m.status = statusFor(firstErr)
		m.setError(fmt.Sprintf("refresh %s: %v", strings.Join(failed, ","), firstErr))
		return
	}
	if msg.successStatus != "" {
		m.status = msg.successStatus
	}
	m.clearError()
}
