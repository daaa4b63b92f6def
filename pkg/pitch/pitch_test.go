package pitch

import (
	"math"
	"testing"
)

func TestClassifyExactReference(t *testing.T) {
	r := Classify(110.0)
	if r.Note != "A2" {
		t.Fatalf("expected A2, got %s", r.Note)
	}
	if r.Cents != 0 {
		t.Fatalf("expected 0 cents, got %d", r.Cents)
	}
}

func TestClassifyNoSignal(t *testing.T) {
	for _, f := range []float64{0, -1, -82.41} {
		r := Classify(f)
		if r.Note != NoNote {
			t.Fatalf("f=%.2f: expected placeholder note, got %s", f, r.Note)
		}
		if r.Cents != 0 {
			t.Fatalf("f=%.2f: expected 0 cents, got %d", f, r.Cents)
		}
	}
}

func TestClassifyNearestByHertz(t *testing.T) {
	// 220 Hz is an octave above A2, but |220-196| < |220-246.94| so the
	// raw-hertz metric picks G3, not A2.
	r := Classify(220.0)
	if r.Note != "G3" {
		t.Fatalf("expected G3, got %s", r.Note)
	}
}

func TestClassifyOutOfRangeStillResolves(t *testing.T) {
	r := Classify(1000.0)
	if r.Note != "E4" {
		t.Fatalf("expected E4 for out-of-range input, got %s", r.Note)
	}
	if r.Cents <= 0 {
		t.Fatalf("expected sharp deviation, got %d", r.Cents)
	}
}

func TestClassifyMinimizesDistance(t *testing.T) {
	for f := 40.0; f < 500.0; f += 7.3 {
		r := Classify(f)
		got := math.Inf(1)
		for _, c := range Classes {
			if c.Name == r.Note {
				got = math.Abs(f - c.Frequency)
			}
		}
		for _, c := range Classes {
			if math.Abs(f-c.Frequency) < got {
				t.Fatalf("f=%.2f: %s is closer than chosen %s", f, c.Name, r.Note)
			}
		}
	}
}

func TestClassifyCentsFloor(t *testing.T) {
	// 83.0 Hz vs E2: 1200*log2(83/82.41) ~ 12.35, floored to 12.
	r := Classify(83.0)
	if r.Note != "E2" {
		t.Fatalf("expected E2, got %s", r.Note)
	}
	if r.Cents != 12 {
		t.Fatalf("expected 12 cents, got %d", r.Cents)
	}
	// Slightly flat input floors to a negative value even when the exact
	// deviation is a fraction of a cent.
	r = Classify(82.40)
	if r.Cents >= 0 {
		t.Fatalf("expected negative cents for flat input, got %d", r.Cents)
	}
}
