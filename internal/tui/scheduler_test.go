package tui

import (
	"testing"
	"time"
)

func TestSchedulerDue(t *testing.T) {
	t.Parallel()

	s := Scheduler{Interval: 30 * time.Second, Enabled: true}
	if !s.Due(t0) {
		t.Fatal("unmarked scheduler is not due")
	}
	s.Mark(t0)

	tests := []struct {
		after time.Duration
		want  bool
	}{
		{0, false},
		{29*time.Second + 500*time.Millisecond, false},
		{30 * time.Second, true},
		{31 * time.Second, true},
	}
	for _, tt := range tests {
		if got := s.Due(t0.Add(tt.after)); got != tt.want {
			t.Errorf("Due(+%v) = %v, want %v", tt.after, got, tt.want)
		}
	}
}

func TestSchedulerThirtyOneSecondsOfTicks(t *testing.T) {
	t.Parallel()

	s := Scheduler{Interval: 30 * time.Second, Enabled: true}
	s.Mark(t0)

	fired := 0
	for now := t0; now.Sub(t0) <= 31*time.Second; now = now.Add(500 * time.Millisecond) {
		if s.Due(now) {
			fired++
			s.Mark(now)
		}
	}
	if fired != 1 {
		t.Fatalf("fired %d times, want 1", fired)
	}
	if want := t0.Add(30 * time.Second); !s.Last().Equal(want) {
		t.Fatalf("last = %v, want %v", s.Last(), want)
	}
}

func TestSchedulerToggle(t *testing.T) {
	t.Parallel()

	s := Scheduler{Interval: time.Second, Enabled: true}
	if s.Toggle() {
		t.Fatal("toggle from on returned on")
	}
	if s.Due(t0.Add(time.Hour)) {
		t.Fatal("disabled scheduler is due")
	}
	if !s.Toggle() || !s.Due(t0) {
		t.Fatal("re-enabled scheduler is not due")
	}
}
