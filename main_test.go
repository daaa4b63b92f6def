package main

import (
	"errors"
	"math"
	"testing"

	"github.com/BoxedFruits/pitch-detection-app/pkg/tuner"
)

func TestQuantizeCents(t *testing.T) {
	cases := []struct {
		cents int
		steps int
	}{
		{0, 0},
		{2, 0},
		{3, 1},
		{5, 1},
		{12, 2},
		{-12, -2},
		{50, 10},
		{120, 10},
		{-120, -10},
	}
	for _, c := range cases {
		if got := quantizeCents(c.cents); got != c.steps {
			t.Fatalf("quantizeCents(%d): expected %d, got %d", c.cents, c.steps, got)
		}
	}
}

func TestChartYMapping(t *testing.T) {
	if y := chartY(chartMinHz); y != 1 {
		t.Fatalf("expected bottom of chart for min freq, got %.3f", y)
	}
	if y := chartY(chartMaxHz); y != 0 {
		t.Fatalf("expected top of chart for max freq, got %.3f", y)
	}
	mid := (chartMinHz + chartMaxHz) / 2
	if y := chartY(mid); math.Abs(float64(y)-0.5) > 0.001 {
		t.Fatalf("expected midpoint near 0.5, got %.3f", y)
	}
	// Out-of-band values clamp instead of escaping the plot.
	if y := chartY(10); y != 1 {
		t.Fatalf("expected clamp at bottom, got %.3f", y)
	}
	if y := chartY(5000); y != 0 {
		t.Fatalf("expected clamp at top, got %.3f", y)
	}
}

func TestStatusForError(t *testing.T) {
	denied := &tuner.AcquisitionError{Kind: tuner.ErrPermissionDenied, Err: errors.New("x")}
	if got := statusForError(denied); got != "Microphone access denied" {
		t.Fatalf("unexpected status: %q", got)
	}
	missing := &tuner.AcquisitionError{Kind: tuner.ErrDeviceUnavailable, Err: errors.New("x")}
	if got := statusForError(missing); got != "No usable input device" {
		t.Fatalf("unexpected status: %q", got)
	}
	if got := statusForError(errors.New("boom")); got != "Error: boom" {
		t.Fatalf("unexpected status: %q", got)
	}
}

func TestIndexOf(t *testing.T) {
	list := []string{"a", "b", "c"}
	if indexOf(list, "b") != 1 {
		t.Fatalf("expected 1")
	}
	if indexOf(list, "z") != -1 {
		t.Fatalf("expected -1 for missing entry")
	}
}
