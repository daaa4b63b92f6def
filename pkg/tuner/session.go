// Package tuner runs the pitch-tracking pipeline: it pulls audio windows
// from a sample source, estimates the fundamental, smooths the estimate,
// resolves it to a guitar string and records the result for the chart.
package tuner

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/tevino/abool"

	"github.com/BoxedFruits/pitch-detection-app/pkg/pitch"
)

// SampleSource supplies live audio. Start acquires the underlying device;
// ReadWindow copies the most recent samples into dst, oldest first, and
// reports how many were available. Stop releases the device and must be
// safe to call more than once or before Start.
type SampleSource interface {
	Start() error
	ReadWindow(dst []float64) int
	SampleRate() float64
	Stop() error
}

// EstimatorFunc is the single-frame frequency estimator. It is treated as
// a black box: given one window of samples and the source's sample rate it
// returns the dominant fundamental in hertz, or a value <= 0 when no pitch
// was found.
type EstimatorFunc func(samples []float64, sampleRate float64) float64

// Update is the externally observable state published after every tick.
type Update struct {
	Frequency float64 // smoothed, 0 when nothing detected
	Result    pitch.Result
}

// Session owns one acquisition loop and its state: the smoothing filter,
// the history ring and the scheduler. It is either stopped or active;
// Start moves it to active exactly once, Stop tears it down idempotently.
// A Session is single-use: after Stop, build a new one to listen again.
type Session struct {
	cfg      *Config
	source   SampleSource
	estimate EstimatorFunc
	sched    Scheduler
	onUpdate func(Update)
	log      *slog.Logger

	smoother   *Smoother
	history    *History
	window     []float64
	sampleRate float64

	active   *abool.AtomicBool
	stopped  *abool.AtomicBool
	stopOnce sync.Once

	mu       sync.Mutex
	releases []release
}

type release struct {
	name string
	fn   func() error
}

// NewSession wires a session from its collaborators. onUpdate may be nil;
// when set it is invoked once per tick from the scheduler's goroutine.
func NewSession(cfg *Config, source SampleSource, estimate EstimatorFunc, sched Scheduler, onUpdate func(Update)) *Session {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Session{
		cfg:      cfg,
		source:   source,
		estimate: estimate,
		sched:    sched,
		onUpdate: onUpdate,
		log:      slog.Default().With("component", "session"),
		smoother: NewSmoother(cfg.SmoothingAlpha),
		history:  NewHistory(cfg.HistorySize),
		window:   make([]float64, cfg.WindowSize),
		active:   abool.New(),
		stopped:  abool.New(),
	}
}

// ErrSessionStopped is returned by Start on a session that was already
// torn down. Sessions are single-use; build a new one.
var ErrSessionStopped = errors.New("tuner: session already stopped")

// Active reports whether the acquisition loop is running.
func (s *Session) Active() bool {
	return s.active.IsSet()
}

// History exposes the recorded samples for rendering. Callers take
// snapshots; they never see the live ring.
func (s *Session) History() *History {
	return s.history
}

// AddRelease registers an extra resource to tear down with the session,
// such as the tone player. Release failures are logged, never propagated.
func (s *Session) AddRelease(name string, fn func() error) {
	s.mu.Lock()
	s.releases = append(s.releases, release{name: name, fn: fn})
	s.mu.Unlock()
}

// Start acquires the sample source and begins ticking. On failure the
// session stays stopped and the error reports whether the microphone was
// denied, missing or something else.
func (s *Session) Start() error {
	if s.stopped.IsSet() {
		return ErrSessionStopped
	}
	if !s.active.SetToIf(false, true) {
		return nil
	}
	if err := s.source.Start(); err != nil {
		s.active.UnSet()
		aerr := classifyAcquisitionError(err)
		s.log.Error("source start failed", "kind", aerr.Kind.String(), "err", err)
		return aerr
	}
	s.sampleRate = s.source.SampleRate()
	s.log.Info("session active", "sample_rate", s.sampleRate, "window", s.cfg.WindowSize)
	s.sched.ScheduleNext(s.tick)
	return nil
}

// tick runs one iteration and reschedules the next. The body is isolated
// in runTick so that no tick-local failure, whether in the estimator or
// the publish step, can escape before ScheduleNext; under TimerScheduler
// an escaping panic would kill the process.
func (s *Session) tick() {
	if !s.active.IsSet() {
		return
	}
	s.runTick()
	s.sched.ScheduleNext(s.tick)
}

// runTick is one iteration: window read, estimate, smooth, classify,
// history append, publish. A panic anywhere in the body abandons the rest
// of this tick only.
func (s *Session) runTick() {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn("tick aborted", "panic", r)
		}
	}()

	raw := s.estimateWindow()
	smoothed := s.smoother.Update(raw)
	result := pitch.Classify(smoothed)

	s.history.Append(Entry{
		Timestamp: time.Now().UnixMilli(),
		Frequency: smoothed,
		Note:      result.Note,
	})
	if s.onUpdate != nil {
		s.onUpdate(Update{Frequency: smoothed, Result: result})
	}
}

// estimateWindow isolates the estimator call so a panicking estimator
// degrades to a missed detection instead of killing the loop.
func (s *Session) estimateWindow() (freq float64) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn("estimator panicked, treating tick as silent", "panic", r)
			freq = 0
		}
	}()
	n := s.source.ReadWindow(s.window)
	if n == 0 {
		return 0
	}
	return s.estimate(s.window[:n], s.sampleRate)
}

// Stop tears the session down: no more ticks, source released, registered
// resources released. Every step runs even if an earlier one fails, and
// calling Stop again (or before Start ever succeeded) does nothing.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		s.stopped.Set()
		s.active.UnSet()
		s.sched.Cancel()
		if err := s.source.Stop(); err != nil {
			s.log.Warn("source release failed", "err", err)
		}
		s.mu.Lock()
		releases := s.releases
		s.releases = nil
		s.mu.Unlock()
		for _, r := range releases {
			if err := r.fn(); err != nil {
				s.log.Warn("release failed", "resource", r.name, "err", err)
			}
		}
		s.log.Info("session stopped")
	})
}
