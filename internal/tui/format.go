package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Truncation widths, in runes.
const (
	widthDashboardLog   = 40
	widthDashboardAlert = 35
	widthSearchHit      = 60
	widthAnomaly        = 60
	widthLogsTab        = 80
	widthHealthAlert    = 80
	widthChatTurn       = 100
)

var newlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// truncate collapses newlines and keeps the first n runes of s, appending
// "..." when anything was removed.
func truncate(s string, n int) string {
	s = newlines.Replace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:max(n, 0)]) + "..."
}

// clip cuts s to at most n runes with no marker, for fixed-width cells.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:max(n, 0)])
}

// shortID returns the first 8 characters of an id.
func shortID(id string) string {
	r := []rune(id)
	if len(r) <= 8 {
		return id
	}
	return string(r[:8])
}

// ago renders t relative to now, e.g. "3 minutes ago".
func ago(t, now time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// secondsSince is the whole number of seconds from t to now.
func secondsSince(t, now time.Time) int {
	if t.IsZero() || now.Before(t) {
		return 0
	}
	return int(now.Sub(t) / time.Second)
}

func formatUptime(seconds uint64) string {
	days := seconds / 86400
	hours := seconds % 86400 / 3600
	minutes := seconds % 3600 / 60
	return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
}

// percent renders a [0, 1] fraction.
func percent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// clockPart returns the HH:MM:SS part of a daemon timestamp such as
// "2025-03-01T10:00:01.123".
func clockPart(ts string) string {
	r := []rune(ts)
	if len(r) >= 19 {
		return string(r[11:19])
	}
	return ts
}

// fitLines keeps at most n lines, padding nothing.
func fitLines(lines []string, n int) []string {
	if n <= 0 {
		return nil
	}
	if len(lines) > n {
		return lines[:n]
	}
	return lines
}

// window returns the [start, end) slice of a list of length total that keeps
// cursor visible in height rows.
func window(total, cursor, height int) (int, int) {
	if height <= 0 || total == 0 {
		return 0, 0
	}
	if total <= height {
		return 0, total
	}
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	return start, min(start+height, total)
}
