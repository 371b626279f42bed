package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/chimera/logmind/internal/model"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
)

var barColors = []lipgloss.Color{ColorBlue, ColorGreen, ColorYellow, ColorMagenta, ColorOrange, ColorCyan}

// metricAverage is the mean of the stored samples of one kind.
type metricAverage struct {
	kind  string
	unit  string
	avg   float64
	count int
}

// metricAverages groups samples by kind, sorted by kind.
func metricAverages(samples []model.MetricSample) []metricAverage {
	byKind := make(map[string]*metricAverage)
	for _, s := range samples {
		a, ok := byKind[s.Kind]
		if !ok {
			a = &metricAverage{kind: s.Kind, unit: s.Unit}
			byKind[s.Kind] = a
		}
		a.avg += s.Value
		a.count++
	}

	out := make([]metricAverage, 0, len(byKind))
	for _, a := range byKind {
		a.avg /= float64(a.count)
		out = append(out, *a)
	}
	slices.SortFunc(out, func(a, b metricAverage) int { return strings.Compare(a.kind, b.kind) })
	return out
}

func (m *DashboardModel) renderAnalyticsTab(width, height int) string {
	top := hint("m: collect metrics", "a: anomaly scan (24h)", "enter: details")
	chartHeight := max((height-1)*2/5, 6)
	listHeight := height - 1 - chartHeight

	avgs := metricAverages(m.metrics)
	chart := renderTextPanel(fmt.Sprintf("Metric Averages (%d samples)", len(m.metrics)),
		renderMetricChart(avgs, width-4, chartHeight-3), width, chartHeight)

	lines := make([]string, 0, m.anomalies.Len())
	for _, a := range m.anomalies.Items() {
		lines = append(lines, m.anomalyLine(a))
	}
	list := renderListPanel(fmt.Sprintf("Anomalies (%d detected)", m.anomalies.Len()), lines, m.anomalies.Cursor(),
		width, listHeight, "No anomalies detected")

	return lipgloss.JoinVertical(lipgloss.Left, top, chart, list)
}

func (m *DashboardModel) anomalyLine(a model.Anomaly) string {
	return fmt.Sprintf("%s %s [%s] %s: %s",
		fg(anomalyColor(a.Score)).Render(fmt.Sprintf("%.3f", a.Score)),
		ago(a.Timestamp, m.now),
		a.Severity,
		a.Unit,
		truncate(a.Message, widthAnomaly),
	)
}

// renderMetricChart draws one bar per metric kind with a label row and a
// legend line underneath.
func renderMetricChart(avgs []metricAverage, width, height int) []string {
	if len(avgs) == 0 {
		return []string{dimStyle.Render("No metrics collected. Press 'm' to collect.")}
	}

	barHeight := max(height-2, 2)
	slot := max(width/len(avgs), 2)
	barWidth := min(max(slot-1, 1), 12)

	bc := barchart.New(width, barHeight,
		barchart.WithBarGap(1),
		barchart.WithBarWidth(barWidth),
		barchart.WithNoAxis(),
	)
	labels := make([]string, 0, len(avgs))
	legend := make([]string, 0, len(avgs))
	for i, a := range avgs {
		c := barColors[i%len(barColors)]
		bc.Push(barchart.BarData{
			Label: "",
			Values: []barchart.BarValue{
				{Name: a.kind, Value: a.avg, Style: lipgloss.NewStyle().Foreground(c).Background(c)},
			},
		})
		labels = append(labels, fg(c).Render(fmt.Sprintf("%-*s", barWidth, clip(a.kind, barWidth))))
		legend = append(legend, fmt.Sprintf("%s %.2f%s", fg(c).Render(a.kind), a.avg, unitSuffix(a.unit)))
	}
	bc.Draw()

	out := strings.Split(bc.View(), "\n")
	out = append(out, strings.Join(labels, " "), strings.Join(legend, "  "))
	return out
}

func unitSuffix(unit string) string {
	if unit == "" {
		return ""
	}
	return " " + unit
}
