package practice

import (
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func TestStopwatchStartStop(t *testing.T) {
	clock := newFakeClock()
	sw := NewStopwatch(clock.Now)

	sw.Start()
	clock.Advance(3 * time.Second)
	sw.Stop()

	if got := sw.ElapsedSeconds(); got != 3 {
		t.Fatalf("expected 3 elapsed seconds, got %d", got)
	}
	if got := sw.Display(); got != "00:03" {
		t.Fatalf("expected display 00:03, got %s", got)
	}
}

func TestStopwatchResumeAccumulates(t *testing.T) {
	clock := newFakeClock()
	sw := NewStopwatch(clock.Now)

	sw.Start()
	clock.Advance(10 * time.Second)
	sw.Stop()

	clock.Advance(time.Minute) // paused time does not count

	sw.Start()
	clock.Advance(5 * time.Second)
	sw.Stop()

	if got := sw.ElapsedSeconds(); got != 15 {
		t.Fatalf("expected 15 elapsed seconds, got %d", got)
	}
}

func TestStopwatchStartWhileRunningIsNoop(t *testing.T) {
	clock := newFakeClock()
	sw := NewStopwatch(clock.Now)

	sw.Start()
	clock.Advance(4 * time.Second)
	sw.Start()
	clock.Advance(4 * time.Second)

	if got := sw.ElapsedSeconds(); got != 8 {
		t.Fatalf("expected 8 elapsed seconds, got %d", got)
	}
}

func TestStopwatchReset(t *testing.T) {
	clock := newFakeClock()
	sw := NewStopwatch(clock.Now)

	sw.Start()
	clock.Advance(42 * time.Second)
	sw.Reset()

	if sw.Running() {
		t.Fatal("expected stopwatch stopped after reset")
	}
	if got := sw.ElapsedSeconds(); got != 0 {
		t.Fatalf("expected 0 elapsed seconds after reset, got %d", got)
	}
	if got := sw.Display(); got != "00:00" {
		t.Fatalf("expected display 00:00 after reset, got %s", got)
	}
}

func TestStopwatchDisplayMinutesUnbounded(t *testing.T) {
	clock := newFakeClock()
	sw := NewStopwatch(clock.Now)

	sw.Start()
	clock.Advance(2 * time.Hour)
	sw.Stop()

	if got := sw.Display(); got != "120:00" {
		t.Fatalf("expected display 120:00, got %s", got)
	}
}
