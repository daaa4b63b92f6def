package tone

import (
	"io"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/tevino/abool"
)

type fakeHandle struct {
	mu      sync.Mutex
	playing bool
	closed  bool
}

func (f *fakeHandle) Play() {
	f.mu.Lock()
	f.playing = true
	f.mu.Unlock()
}

func (f *fakeHandle) IsPlaying() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.playing
}

func (f *fakeHandle) Close() error {
	f.mu.Lock()
	f.playing = false
	f.closed = true
	f.mu.Unlock()
	return nil
}

func newFakePlayer() (*Player, *[]*fakeHandle) {
	handles := &[]*fakeHandle{}
	p := &Player{
		sampleRate: 8000,
		playing:    abool.New(),
		newHandle: func(r io.Reader) handle {
			h := &fakeHandle{}
			*handles = append(*handles, h)
			return h
		},
	}
	return p, handles
}

func TestPlaySingleFlight(t *testing.T) {
	p, handles := newFakePlayer()
	if !p.Play(82.41, 100*time.Millisecond, 20*time.Millisecond) {
		t.Fatalf("first play should start")
	}
	if p.Play(82.41, 100*time.Millisecond, 20*time.Millisecond) {
		t.Fatalf("second play during playback should be a no-op")
	}
	if len(*handles) != 1 {
		t.Fatalf("expected exactly one playback handle, got %d", len(*handles))
	}
	if !p.Playing() {
		t.Fatalf("expected playing state")
	}
}

func TestPlayReleasesWhenDone(t *testing.T) {
	p, handles := newFakePlayer()
	if !p.Play(110, 10*time.Millisecond, 0) {
		t.Fatalf("play should start")
	}
	(*handles)[0].mu.Lock()
	(*handles)[0].playing = false
	(*handles)[0].mu.Unlock()

	deadline := time.Now().Add(2 * time.Second)
	for p.Playing() {
		if time.Now().After(deadline) {
			t.Fatalf("player never released finished tone")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !(*handles)[0].closed {
		t.Fatalf("expected handle closed after playback")
	}
	// A new tone may start once the previous one finished.
	if !p.Play(110, 10*time.Millisecond, 0) {
		t.Fatalf("play after release should start")
	}
}

func TestSlowDrainNotTruncated(t *testing.T) {
	p, handles := newFakePlayer()
	// The handle keeps draining well past the nominal duration; the
	// player must not cut it off, or the fade tail gets clipped.
	if !p.Play(82.41, 50*time.Millisecond, 10*time.Millisecond) {
		t.Fatalf("play should start")
	}
	time.Sleep(300 * time.Millisecond)
	h := (*handles)[0]
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		t.Fatalf("handle closed while output was still draining")
	}
	if !p.Playing() {
		t.Fatalf("expected playing state while draining")
	}

	h.mu.Lock()
	h.playing = false
	h.mu.Unlock()
	deadline := time.Now().Add(2 * time.Second)
	for p.Playing() {
		if time.Now().After(deadline) {
			t.Fatalf("player never released drained tone")
		}
		time.Sleep(10 * time.Millisecond)
	}
	h.mu.Lock()
	closed = h.closed
	h.mu.Unlock()
	if !closed {
		t.Fatalf("expected handle closed once drained")
	}
}

func TestCloseMidPlayback(t *testing.T) {
	p, handles := newFakePlayer()
	if !p.Play(82.41, time.Second, 200*time.Millisecond) {
		t.Fatalf("play should start")
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !(*handles)[0].closed {
		t.Fatalf("expected in-flight handle closed on Close")
	}
	if err := p.Close(); err != nil {
		t.Fatalf("second close should be a no-op, got %v", err)
	}
	if p.Play(82.41, time.Second, 0) {
		t.Fatalf("play after close should be refused")
	}
}

func TestSynthesizeShape(t *testing.T) {
	sampleRate := 8000
	pcm := Synthesize(440, sampleRate, 500*time.Millisecond, 100*time.Millisecond)
	wantBytes := 2 * sampleRate / 2
	if len(pcm) != wantBytes {
		t.Fatalf("expected %d bytes, got %d", wantBytes, len(pcm))
	}

	decode := func(i int) float64 {
		s := int16(pcm[2*i]) | int16(pcm[2*i+1])<<8
		return float64(s) / math.MaxInt16
	}

	var peak float64
	n := len(pcm) / 2
	for i := 0; i < n; i++ {
		if v := math.Abs(decode(i)); v > peak {
			peak = v
		}
	}
	if peak > amplitude+0.01 || peak < amplitude-0.05 {
		t.Fatalf("expected peak near %.2f, got %.3f", amplitude, peak)
	}
	if last := math.Abs(decode(n - 1)); last > 0.01 {
		t.Fatalf("expected faded-out tail, got %.4f", last)
	}
}

func TestSynthesizeEmpty(t *testing.T) {
	if pcm := Synthesize(440, 8000, 0, 0); pcm != nil {
		t.Fatalf("expected nil for zero duration")
	}
}
