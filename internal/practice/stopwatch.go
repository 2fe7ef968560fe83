package practice

import (
	"fmt"
	"time"
)

// Stopwatch tracks elapsed practice time for one subsession card. There is
// no background tick: elapsed time is derived from the clock whenever it is
// read, so a running stopwatch costs nothing between reads.
type Stopwatch struct {
	now       func() time.Time
	startedAt time.Time
	elapsed   time.Duration
	running   bool
}

func NewStopwatch(now func() time.Time) *Stopwatch {
	if now == nil {
		now = time.Now
	}
	return &Stopwatch{now: now}
}

// Start is a no-op while running. The start reference is shifted back by any
// previously accumulated time, so stop/start resumes rather than restarts.
func (s *Stopwatch) Start() {
	if s.running {
		return
	}
	s.startedAt = s.now().Add(-s.elapsed)
	s.running = true
}

// Stop freezes elapsed time at the current value; no-op when not running.
func (s *Stopwatch) Stop() {
	if !s.running {
		return
	}
	s.elapsed = s.now().Sub(s.startedAt)
	s.running = false
}

// Reset clears elapsed time to zero and stops the stopwatch.
func (s *Stopwatch) Reset() {
	s.running = false
	s.elapsed = 0
	s.startedAt = time.Time{}
}

func (s *Stopwatch) Running() bool {
	return s.running
}

// ElapsedSeconds reports elapsed time in whole seconds, rounded down.
func (s *Stopwatch) ElapsedSeconds() int {
	if s.running {
		return int(s.now().Sub(s.startedAt).Seconds())
	}
	return int(s.elapsed.Seconds())
}

// Display renders elapsed time as zero-padded MM:SS. Minutes are not wrapped
// at 60; a two-hour stopwatch reads "120:00".
func (s *Stopwatch) Display() string {
	total := s.ElapsedSeconds()
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
