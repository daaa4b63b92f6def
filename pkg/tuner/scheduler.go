package tuner

import (
	"sync"
	"time"
)

// Scheduler runs the acquisition loop's ticks one at a time. ScheduleNext
// arms exactly one future invocation of fn; the loop reschedules itself at
// the end of each tick, so ticks never overlap. Cancel stops any pending
// invocation and makes further ScheduleNext calls no-ops. Cancel is
// idempotent and safe to call before anything was ever scheduled.
type Scheduler interface {
	ScheduleNext(fn func())
	Cancel()
}

// TimerScheduler schedules ticks on a fixed interval timer, approximating
// a display-refresh cadence.
type TimerScheduler struct {
	interval  time.Duration
	mu        sync.Mutex
	timer     *time.Timer
	cancelled bool
}

// NewTimerScheduler creates a scheduler firing at most once per interval.
func NewTimerScheduler(interval time.Duration) *TimerScheduler {
	return &TimerScheduler{interval: interval}
}

func (s *TimerScheduler) ScheduleNext(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled {
		return
	}
	s.timer = time.AfterFunc(s.interval, fn)
}

func (s *TimerScheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelled = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
