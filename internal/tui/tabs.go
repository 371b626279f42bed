package tui

import tea "github.com/charmbracelet/bubbletea"

// Tab is one of the dashboard's top-level screens.
type Tab int

const (
	TabDashboard Tab = iota
	TabLogs
	TabSearch
	TabAnalytics
	TabHealth
	TabChat
	TabReports
	TabSecurity
	TabConfig
	TabHelp

	tabCount = iota
)

func (t Tab) next() Tab { return (t + 1) % tabCount }
func (t Tab) prev() Tab { return (t - 1 + tabCount) % tabCount }

// Domain is a backend collection a refresh can repopulate.
type Domain int

const (
	DomainLogs Domain = iota
	DomainHealth
	DomainAlerts
	DomainMetrics
	DomainAnomalies
	DomainReports
	DomainAudits
	DomainSources

	domainCount = iota
)

var domainNames = [domainCount]string{
	DomainLogs:      "logs",
	DomainHealth:    "health",
	DomainAlerts:    "alerts",
	DomainMetrics:   "metrics",
	DomainAnomalies: "anomalies",
	DomainReports:   "reports",
	DomainAudits:    "audits",
	DomainSources:   "config",
}

func (d Domain) String() string {
	if d < 0 || int(d) >= domainCount {
		return "unknown"
	}
	return domainNames[d]
}

// tabSpec describes a tab: what a refresh pulls while it is active, which
// list the arrow keys move, the tab's own keys and its content renderer.
type tabSpec struct {
	title   string
	domains []Domain
	list    func(m *DashboardModel) navigable
	keys    func(m *DashboardModel, msg tea.KeyMsg) (handled bool, cmd tea.Cmd)
	render  func(m *DashboardModel, width, height int) string
}

// defaultTabSpecs declares the built-in tabs in display order.
func defaultTabSpecs() [tabCount]tabSpec {
	return [tabCount]tabSpec{
		TabDashboard: {
			title:   "Dashboard",
			domains: []Domain{DomainHealth, DomainAlerts},
			render:  (*DashboardModel).renderDashboardTab,
		},
		TabLogs: {
			title:  "Logs",
			list:   func(m *DashboardModel) navigable { return &m.logs },
			keys:   (*DashboardModel).handleLogsKeys,
			render: (*DashboardModel).renderLogsTab,
		},
		TabSearch: {
			title:  "Search",
			list:   func(m *DashboardModel) navigable { return &m.hits },
			keys:   (*DashboardModel).handleSearchKeys,
			render: (*DashboardModel).renderSearchTab,
		},
		TabAnalytics: {
			title:   "Analytics",
			domains: []Domain{DomainMetrics, DomainAnomalies},
			list:    func(m *DashboardModel) navigable { return &m.anomalies },
			keys:    (*DashboardModel).handleAnalyticsKeys,
			render:  (*DashboardModel).renderAnalyticsTab,
		},
		TabHealth: {
			title:   "Health",
			domains: []Domain{DomainHealth, DomainAlerts},
			list:    func(m *DashboardModel) navigable { return &m.alerts },
			keys:    (*DashboardModel).handleHealthKeys,
			render:  (*DashboardModel).renderHealthTab,
		},
		TabChat: {
			title:  "Chat",
			keys:   (*DashboardModel).handleChatKeys,
			render: (*DashboardModel).renderChatTab,
		},
		TabReports: {
			title:   "Reports",
			domains: []Domain{DomainReports},
			list:    func(m *DashboardModel) navigable { return &m.reports },
			keys:    (*DashboardModel).handleReportsKeys,
			render:  (*DashboardModel).renderReportsTab,
		},
		TabSecurity: {
			title:   "Security",
			domains: []Domain{DomainAudits},
			list:    func(m *DashboardModel) navigable { return &m.audits },
			keys:    (*DashboardModel).handleSecurityKeys,
			render:  (*DashboardModel).renderSecurityTab,
		},
		TabConfig: {
			title:   "Config",
			domains: []Domain{DomainSources},
			list:    func(m *DashboardModel) navigable { return &m.sources },
			keys:    (*DashboardModel).handleConfigKeys,
			render:  (*DashboardModel).renderConfigTab,
		},
		TabHelp: {
			title:  "Help",
			render: (*DashboardModel).renderHelpTab,
		},
	}
}

// activeTab returns the active tab's descriptor.
func (m *DashboardModel) activeTab() *tabSpec { return &m.tabs[m.tab] }

// refreshScope lists the domains a refresh pulls for the active tab. Logs
// are always included.
func (m *DashboardModel) refreshScope() []Domain {
	return append([]Domain{DomainLogs}, m.activeTab().domains...)
}

func (m *DashboardModel) setTab(t Tab) {
	if t < 0 || int(t) >= tabCount || t == m.tab {
		return
	}
	m.log.Debug().Str("from", m.activeTab().title).Str("to", m.tabs[t].title).Msg("tab change")
	m.tab = t
}
