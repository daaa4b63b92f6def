// Package tone plays fixed-frequency reference tones through the default
// output device.
package tone

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/hajimehoshi/oto/v2"
	"github.com/tevino/abool"
)

const (
	DefaultDuration = time.Second
	DefaultFade     = 200 * time.Millisecond

	amplitude = 0.4
)

// handle is the part of the oto player the Player drives. Narrowed to an
// interface so playback logic is testable without an audio device.
type handle interface {
	Play()
	IsPlaying() bool
	Close() error
}

// Player synthesizes and plays sine tones. Playback is single-flight: a
// Play issued while a tone is sounding is dropped, not queued.
type Player struct {
	sampleRate int
	newHandle  func(r io.Reader) handle
	playing    *abool.AtomicBool

	mu      sync.Mutex
	current handle
	closed  bool
}

// NewPlayer opens the output device. There can be only one audio context
// per process, so the caller keeps the player for the life of the app and
// Closes it on shutdown.
func NewPlayer(sampleRate int) (*Player, error) {
	ctx, ready, err := oto.NewContext(sampleRate, 1, 2)
	if err != nil {
		return nil, fmt.Errorf("open output: %w", err)
	}
	<-ready
	return &Player{
		sampleRate: sampleRate,
		newHandle:  func(r io.Reader) handle { return ctx.NewPlayer(r) },
		playing:    abool.New(),
	}, nil
}

// Playing reports whether a tone is currently sounding.
func (p *Player) Playing() bool {
	return p.playing.IsSet()
}

// Play sounds freq for duration, fading the gain to zero over the final
// fade window. Returns false when a tone is already in progress or the
// player has been closed; that is a no-op, not an error.
func (p *Player) Play(freq float64, duration, fade time.Duration) bool {
	if !p.playing.SetToIf(false, true) {
		return false
	}
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.playing.UnSet()
		return false
	}
	pcm := Synthesize(freq, p.sampleRate, duration, fade)
	h := p.newHandle(bytes.NewReader(pcm))
	p.current = h
	p.mu.Unlock()

	h.Play()
	go p.reap(h, duration)
	return true
}

// reap waits for the tone to drain and releases the playback handle. It
// keys off IsPlaying so a slowly draining output buffer is never cut off
// mid-fade; the deadline is only a safety valve against a handle that
// never stops reporting playback. Close may get there first; releasing
// twice is harmless because release is keyed on the handle still being
// current.
func (p *Player) reap(h handle, duration time.Duration) {
	deadline := time.NewTimer(duration + 2*time.Second)
	defer deadline.Stop()
	poll := time.NewTicker(50 * time.Millisecond)
	defer poll.Stop()
	for {
		select {
		case <-deadline.C:
			p.release(h)
			return
		case <-poll.C:
			if !h.IsPlaying() {
				p.release(h)
				return
			}
		}
	}
}

func (p *Player) release(h handle) {
	p.mu.Lock()
	if p.current == h {
		p.current = nil
		_ = h.Close()
		p.playing.UnSet()
	}
	p.mu.Unlock()
}

// Close stops any in-progress tone and releases its resources. Idempotent.
func (p *Player) Close() error {
	p.mu.Lock()
	p.closed = true
	h := p.current
	p.current = nil
	p.mu.Unlock()
	if h != nil {
		err := h.Close()
		p.playing.UnSet()
		return err
	}
	return nil
}

// Synthesize renders freq as 16-bit little-endian mono PCM with a linear
// fade to silence over the final fade window.
func Synthesize(freq float64, sampleRate int, duration, fade time.Duration) []byte {
	n := int(float64(sampleRate) * duration.Seconds())
	if n <= 0 {
		return nil
	}
	fadeSamples := int(float64(sampleRate) * fade.Seconds())
	if fadeSamples > n {
		fadeSamples = n
	}
	out := make([]byte, 2*n)
	for i := 0; i < n; i++ {
		gain := amplitude
		if remaining := n - i; remaining < fadeSamples {
			gain *= float64(remaining) / float64(fadeSamples)
		}
		v := gain * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
		s := int16(v * math.MaxInt16)
		out[2*i] = byte(s)
		out[2*i+1] = byte(s >> 8)
	}
	return out
}
