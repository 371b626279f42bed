package tui

import (
	"strings"
	"time"

	"github.com/chimera/logmind/internal/model"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"gopkg.in/yaml.v3"
)

// DetailModal displays a scrollable YAML document.
type DetailModal struct {
	title    string
	content  string
	viewport viewport.Model
}

func NewDetailModal(title, content string) *DetailModal {
	d := &DetailModal{
		title:    title,
		content:  content,
		viewport: viewport.New(80, 20),
	}
	d.viewport.SetContent(content)
	return d
}

func (d *DetailModal) ID() string { return "detail" }

// SetSize fits the viewport to the terminal.
func (d *DetailModal) SetSize(width, height int) {
	d.viewport.Width, d.viewport.Height = modalContentSize(width, height)
	d.viewport.SetContent(d.content)
}

func (d *DetailModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyUp:
			d.viewport.ScrollUp(1)
		case tea.KeyDown:
			d.viewport.ScrollDown(1)
		case tea.KeyPgUp:
			d.viewport.HalfPageUp()
		case tea.KeyPgDown:
			d.viewport.HalfPageDown()
		default:
			return true, nil
		}
		return false, nil

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return false, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			d.viewport.ScrollUp(1)
		case tea.MouseButtonWheelDown:
			d.viewport.ScrollDown(1)
		}
	}
	return false, nil
}

func (d *DetailModal) View(width, height int) string {
	return renderScrollModal(d.viewport, d.title, width, height)
}

// yamlText renders v as YAML for a detail popup.
func yamlText(v any) string {
	out, err := yaml.Marshal(v)
	if err != nil {
		return "unable to render: " + err.Error()
	}
	return strings.TrimRight(string(out), "\n")
}

type logDetail struct {
	Timestamp   string `yaml:"timestamp"`
	Severity    string `yaml:"severity"`
	Source      string `yaml:"source"`
	Unit        string `yaml:"unit"`
	Hostname    string `yaml:"hostname"`
	Message     string `yaml:"message"`
	Fingerprint string `yaml:"fingerprint,omitempty"`
}

func logView(r model.LogRecord) logDetail {
	return logDetail{
		Timestamp:   r.Timestamp,
		Severity:    r.Severity,
		Source:      r.Source,
		Unit:        r.Unit,
		Hostname:    r.Hostname,
		Message:     r.Message,
		Fingerprint: r.Fingerprint,
	}
}

type hitDetail struct {
	Similarity float64   `yaml:"similarity"`
	Log        logDetail `yaml:"log"`
}

func hitView(h model.SearchHit) hitDetail {
	return hitDetail{Similarity: h.Similarity, Log: logView(h.Log)}
}

type alertDetail struct {
	ID           string `yaml:"id"`
	Timestamp    string `yaml:"timestamp"`
	Severity     string `yaml:"severity"`
	Source       string `yaml:"source,omitempty"`
	Acknowledged bool   `yaml:"acknowledged"`
	Message      string `yaml:"message"`
}

func alertView(a model.Alert) alertDetail {
	return alertDetail{
		ID:           a.ID,
		Timestamp:    a.Timestamp.Format(time.RFC3339),
		Severity:     a.Severity,
		Source:       a.Source,
		Acknowledged: a.Acknowledged,
		Message:      a.Message,
	}
}

type anomalyDetail struct {
	Timestamp string  `yaml:"timestamp"`
	Score     float64 `yaml:"score"`
	Severity  string  `yaml:"severity"`
	Unit      string  `yaml:"unit"`
	Message   string  `yaml:"message"`
}

func anomalyView(a model.Anomaly) anomalyDetail {
	return anomalyDetail{
		Timestamp: a.Timestamp.Format(time.RFC3339),
		Score:     a.Score,
		Severity:  a.Severity,
		Unit:      a.Unit,
		Message:   a.Message,
	}
}

type sourceDetail struct {
	Name     string            `yaml:"name"`
	Type     string            `yaml:"type"`
	Enabled  bool              `yaml:"enabled"`
	Settings map[string]string `yaml:"settings,omitempty"`
}

func sourceView(s model.ConfigSource) sourceDetail {
	return sourceDetail{Name: s.Name, Type: s.Type, Enabled: s.Enabled, Settings: s.Settings}
}
