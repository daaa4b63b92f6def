package estimate

import (
	"math"
	"testing"
)

func sine(freq, sampleRate float64, n int, amp float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
	}
	return out
}

func TestEstimateOpenStrings(t *testing.T) {
	d := New(DefaultConfig())
	sampleRate := 48000.0
	for _, target := range []float64{82.41, 110.0, 146.83, 196.0, 246.94, 329.63} {
		freq := d.Estimate(sine(target, sampleRate, 4096, 0.5), sampleRate)
		if math.Abs(freq-target) > 1.5 {
			t.Fatalf("target %.2f: got %.2f", target, freq)
		}
	}
}

func TestEstimateSilence(t *testing.T) {
	d := New(DefaultConfig())
	if freq := d.Estimate(make([]float64, 4096), 48000); freq != 0 {
		t.Fatalf("expected 0 for silence, got %.2f", freq)
	}
}

func TestEstimateBelowFloor(t *testing.T) {
	d := New(DefaultConfig())
	quiet := sine(110, 48000, 4096, 0.001)
	if freq := d.Estimate(quiet, 48000); freq != 0 {
		t.Fatalf("expected 0 below silence floor, got %.2f", freq)
	}
}

func TestEstimateIgnoresDCOffset(t *testing.T) {
	d := New(DefaultConfig())
	sampleRate := 48000.0
	in := sine(110, sampleRate, 4096, 0.5)
	for i := range in {
		in[i] += 0.3
	}
	freq := d.Estimate(in, sampleRate)
	if math.Abs(freq-110) > 1.5 {
		t.Fatalf("expected ~110 with DC offset, got %.2f", freq)
	}
}

func TestEstimateEmptyWindow(t *testing.T) {
	d := New(DefaultConfig())
	if freq := d.Estimate(nil, 48000); freq != 0 {
		t.Fatalf("expected 0 for empty window, got %.2f", freq)
	}
	if freq := d.Estimate(sine(110, 48000, 512, 0.5), 0); freq != 0 {
		t.Fatalf("expected 0 for zero sample rate, got %.2f", freq)
	}
}
