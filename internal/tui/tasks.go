package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/chimera/logmind/internal/gateway"
	"github.com/chimera/logmind/internal/socketrpc"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// taskKey identifies a kind of backend call. At most one task per key runs
// at a time.
type taskKey string

const (
	taskRefresh     taskKey = "refresh"
	taskSearch      taskKey = "search"
	taskChat        taskKey = "chat"
	taskVersion     taskKey = "version"
	taskReload      taskKey = "reload"
	taskDetail      taskKey = "detail"
	taskAnomalyScan taskKey = "anomaly-scan"
)

// taskDoneMsg wraps the result of a finished task so the pending entry can
// be released before the result is applied.
type taskDoneMsg struct {
	key    taskKey
	result tea.Msg
}

func (m *DashboardModel) busy(key taskKey) bool {
	_, ok := m.pending[key]
	return ok
}

// startTask runs fn as a command under a per-request timeout derived from
// the root context. It returns nil when a task with the same key is already
// in flight.
func (m *DashboardModel) startTask(key taskKey, fn func(ctx context.Context) tea.Msg) tea.Cmd {
	if m.busy(key) {
		m.log.Debug().Str("task", string(key)).Msg("task already in flight")
		return nil
	}

	ctx, cancel := context.WithTimeout(m.ctx, m.opts.RequestTimeout)
	m.pending[key] = cancel

	run := func() tea.Msg {
		defer cancel()
		return taskDoneMsg{key: key, result: fn(ctx)}
	}
	return tea.Batch(run, m.startSpinner())
}

func (m *DashboardModel) finishTask(key taskKey) {
	delete(m.pending, key)
	if len(m.pending) == 0 {
		m.spinning = false
	}
}

// cancelAll aborts every in-flight task. Each task still delivers its
// (canceled) result.
func (m *DashboardModel) cancelAll() {
	n := len(m.pending)
	for _, cancel := range m.pending {
		cancel()
	}
	if n == 0 {
		m.status = "No requests in flight"
		return
	}
	m.log.Debug().Int("tasks", n).Msg("canceled in-flight tasks")
	m.status = fmt.Sprintf("Cancelled %d request(s)", n)
}

func (m *DashboardModel) startSpinner() tea.Cmd {
	if m.spinning {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

// handleSpinnerTick advances the spinner while anything is in flight and
// lets the tick chain die otherwise.
func (m *DashboardModel) handleSpinnerTick(msg spinner.TickMsg) tea.Cmd {
	if !m.spinning {
		return nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return cmd
}

// statusFor maps an error to the short status line text.
func statusFor(err error) string {
	var (
		connErr   *socketrpc.ConnectionError
		ioErr     *socketrpc.IOError
		rejectErr *gateway.RejectedError
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	case errors.Is(err, context.Canceled):
		return "request cancelled"
	case errors.As(err, &connErr):
		return "backend unreachable"
	case errors.As(err, &rejectErr):
		return "request rejected"
	case errors.Is(err, gateway.ErrMalformedReply):
		return "unexpected reply"
	case errors.As(err, &ioErr):
		return "backend I/O error"
	default:
		return "request failed"
	}
}
