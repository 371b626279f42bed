package tui

import (
	"context"
	"errors"
	"time"

	"github.com/chimera/logmind/internal/model"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// InputMode selects how key events are routed. Exactly one is active.
type InputMode int

const (
	ModeNormal       InputMode = iota // shortcuts and navigation
	ModeFilter                        // typing a log filter or search query
	ModeConversation                  // typing a chat message
)

// Options configures a dashboard. Zero fields take the model package defaults.
type Options struct {
	RefreshInterval time.Duration
	PollInterval    time.Duration
	RequestTimeout  time.Duration
	AutoRefresh     bool

	LogWindow     time.Duration
	LogLimit      int
	MetricLimit   int
	SearchResults int
	SearchWindow  time.Duration
	ReportLimit   int
	AuditLimit    int

	Logger zerolog.Logger
	Clock  func() time.Time
}

// DefaultOptions returns the stock dashboard configuration.
func DefaultOptions() Options {
	return Options{
		RefreshInterval: model.DefaultRefreshInterval,
		PollInterval:    model.DefaultPollInterval,
		RequestTimeout:  model.DefaultRequestTimeout,
		AutoRefresh:     true,
		LogWindow:       model.DefaultLogWindow,
		LogLimit:        model.DefaultLogLimit,
		MetricLimit:     model.DefaultMetricLimit,
		SearchResults:   model.DefaultSearchLimit,
		SearchWindow:    model.DefaultSearchWindow,
		ReportLimit:     model.DefaultReportLimit,
		AuditLimit:      model.DefaultAuditLimit,
		Logger:          zerolog.Nop(),
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	fill := func(v *time.Duration, d time.Duration) {
		if *v <= 0 {
			*v = d
		}
	}
	fillInt := func(v *int, d int) {
		if *v <= 0 {
			*v = d
		}
	}
	fill(&o.RefreshInterval, def.RefreshInterval)
	fill(&o.PollInterval, def.PollInterval)
	fill(&o.RequestTimeout, def.RequestTimeout)
	fill(&o.LogWindow, def.LogWindow)
	fill(&o.SearchWindow, def.SearchWindow)
	fillInt(&o.LogLimit, def.LogLimit)
	fillInt(&o.MetricLimit, def.MetricLimit)
	fillInt(&o.SearchResults, def.SearchResults)
	fillInt(&o.ReportLimit, def.ReportLimit)
	fillInt(&o.AuditLimit, def.AuditLimit)
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}

// DataState holds the collections pulled from the daemon. Each one is
// replaced as a whole when its data arrives.
type DataState struct {
	logs      Selectable[model.LogRecord]
	alerts    Selectable[model.Alert]
	metrics   []model.MetricSample
	anomalies Selectable[model.Anomaly]
	hits      Selectable[model.SearchHit]
	reports   Selectable[model.ReportSummary]
	audits    Selectable[model.SecurityAudit]
	sources   Selectable[model.ConfigSource]
	health    *model.SystemHealth
}

// InputState holds the text-entry mode and its buffer.
type InputState struct {
	mode   InputMode
	buffer []rune
}

// QueryState holds the active search query and log filter.
type QueryState struct {
	searchQuery   string
	logFilter     string
	anomalyWindow time.Duration // zero follows Options.LogWindow
}

// ChatState holds the local conversation history.
type ChatState struct {
	chat []model.ChatTurn
}

// StatusState feeds the status line.
type StatusState struct {
	status        string
	lastError     string
	lastErrorAt   time.Time
	lastUpdate    time.Time
	daemonVersion string
}

// ModalStackState holds the modal stack.
type ModalStackState struct {
	modalStack []Modal
}

// TaskState tracks in-flight backend calls by key.
type TaskState struct {
	pending  map[taskKey]context.CancelFunc
	spinner  spinner.Model
	spinning bool
}

// DashboardModel represents the main TUI model.
// Sub-state is organized into embedded structs for readability.
type DashboardModel struct {
	DataState
	InputState
	QueryState
	ChatState
	StatusState
	ModalStackState
	TaskState

	width  int
	height int

	tab  Tab
	tabs [tabCount]tabSpec
	keys KeyMap

	sched   Scheduler
	backend model.Backend
	opts    Options
	log     zerolog.Logger

	// now is the clock as of the last message; View reads it instead of time.Now.
	now   time.Time
	clock func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	// tickFn schedules the next poll tick; nil disables polling.
	tickFn func(time.Duration, func(time.Time) tea.Msg) tea.Cmd

	inlineHandlers []inlineHandlerEntry
}

// TickMsg is the poll tick that drives the refresh scheduler.
type TickMsg time.Time

// NewDashboardModel creates a dashboard over backend. Canceling ctx aborts
// every outstanding request.
func NewDashboardModel(ctx context.Context, backend model.Backend, opts Options) *DashboardModel {
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(ctx)

	m := &DashboardModel{
		DataState: DataState{
			logs:      NewSelectable[model.LogRecord](nil),
			alerts:    NewSelectable[model.Alert](nil),
			anomalies: NewSelectable[model.Anomaly](nil),
			hits:      NewSelectable[model.SearchHit](nil),
			reports:   NewSelectable[model.ReportSummary](nil),
			audits:    NewSelectable[model.SecurityAudit](nil),
			sources:   NewSelectable[model.ConfigSource](nil),
		},
		StatusState: StatusState{status: "Starting"},
		TaskState: TaskState{
			pending: make(map[taskKey]context.CancelFunc),
			spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
		},
		tabs:    defaultTabSpecs(),
		keys:    DefaultKeyMap(),
		sched:   Scheduler{Interval: opts.RefreshInterval, Enabled: opts.AutoRefresh},
		backend: backend,
		opts:    opts,
		log:     opts.Logger.With().Str("component", "tui").Logger(),
		clock:   opts.Clock,
		now:     opts.Clock(),
		ctx:     ctx,
		cancel:  cancel,
		tickFn:  tea.Tick,
	}

	m.inlineHandlers = []inlineHandlerEntry{
		{isActive: func(m *DashboardModel) bool { return m.mode != ModeNormal }, handler: textEntryHandler{}},
	}

	return m
}

// Init probes the daemon version, runs the startup refresh and starts polling.
func (m *DashboardModel) Init() tea.Cmd {
	return tea.Batch(
		m.versionCmd(),
		m.refreshCmd(),
		m.pollTick(),
	)
}

func (m *DashboardModel) pollTick() tea.Cmd {
	if m.tickFn == nil {
		return nil
	}
	return m.tickFn(m.opts.PollInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// shutdown cancels the root context and quits the program.
func (m *DashboardModel) shutdown() tea.Cmd {
	m.cancel()
	return tea.Quit
}

// PushModal pushes a modal onto the stack. Deduplicates by ID.
func (m *DashboardModel) PushModal(modal Modal) {
	for _, existing := range m.modalStack {
		if existing.ID() == modal.ID() {
			return
		}
	}
	if s, ok := modal.(sizer); ok && m.width > 0 {
		s.SetSize(m.width, m.height)
	}
	m.modalStack = append(m.modalStack, modal)
}

// PopModal removes the topmost modal from the stack.
func (m *DashboardModel) PopModal() {
	if len(m.modalStack) > 0 {
		m.modalStack = m.modalStack[:len(m.modalStack)-1]
	}
}

// TopModal returns the topmost modal, or nil if the stack is empty.
func (m *DashboardModel) TopModal() Modal {
	if len(m.modalStack) == 0 {
		return nil
	}
	return m.modalStack[len(m.modalStack)-1]
}

// HasModal returns true if any modal is on the stack.
func (m *DashboardModel) HasModal() bool {
	return len(m.modalStack) > 0
}

// setError records a failure for the status line.
func (m *DashboardModel) setError(text string) {
	m.lastError = text
	m.lastErrorAt = m.now
}

func (m *DashboardModel) clearError() {
	m.lastError = ""
	m.lastErrorAt = time.Time{}
}

// reportFailure surfaces a failed explicit operation in the error popup and
// on the status line.
// Canceled operations only touch the status line.
func (m *DashboardModel) reportFailure(what string, err error) {
	m.status = statusFor(err)
	if errors.Is(err, context.Canceled) {
		m.log.Debug().Str("operation", what).Msg("operation canceled")
		return
	}
	text := what + ": " + err.Error()
	m.log.Warn().Err(err).Str("operation", what).Msg("operation failed")
	m.setError(text)
	m.PushModal(NewErrorModal(text))
}
