package tui

import "time"

// Scheduler decides when a timed refresh is due. It has no timer of its own;
// the dashboard asks it on every poll tick.
type Scheduler struct {
	Interval time.Duration
	Enabled  bool
	last     time.Time
}

// Due reports whether auto refresh is on and Interval has elapsed since the
// last Mark. A scheduler that was never marked is due immediately.
func (s *Scheduler) Due(now time.Time) bool {
	if !s.Enabled {
		return false
	}
	return s.last.IsZero() || now.Sub(s.last) >= s.Interval
}

// Mark records that a refresh was issued at now.
func (s *Scheduler) Mark(now time.Time) { s.last = now }

// Last returns the time of the last Mark.
func (s *Scheduler) Last() time.Time { return s.last }

// Toggle flips auto refresh and returns the new state.
func (s *Scheduler) Toggle() bool {
	s.Enabled = !s.Enabled
	return s.Enabled
}
