// Package pitch maps frequencies to the nearest open-string pitch of a
// standard-tuned guitar and reports the deviation in cents.
package pitch

import "math"

// NoNote is the placeholder label reported while no pitch is detected.
const NoNote = "--"

// Class is one open-string pitch with its reference frequency in hertz.
type Class struct {
	Name      string
	Frequency float64
}

// Classes holds standard tuning, low string to high. The order matters:
// Classify breaks distance ties in favor of the earlier entry.
var Classes = []Class{
	{Name: "E2", Frequency: 82.41},
	{Name: "A2", Frequency: 110.00},
	{Name: "D3", Frequency: 146.83},
	{Name: "G3", Frequency: 196.00},
	{Name: "B3", Frequency: 246.94},
	{Name: "E4", Frequency: 329.63},
}

// Result is the outcome of classifying a single frequency measurement.
// Cents is negative when the input is flat of the matched string and
// positive when sharp.
type Result struct {
	Note  string
	Cents int
}

// Classify resolves freq to the open string whose reference frequency is
// nearest by absolute hertz difference. A freq of zero or below is the
// "no signal" state and yields a placeholder result rather than an error.
//
// Matching is by raw hertz distance, not by semitone distance, so input far
// outside the guitar range still resolves to some string (1000 Hz maps to
// E4) even when the match is octaves away.
func Classify(freq float64) Result {
	if freq <= 0 {
		return Result{Note: NoNote}
	}
	best := Classes[0]
	bestDiff := math.Abs(freq - best.Frequency)
	for _, c := range Classes[1:] {
		if diff := math.Abs(freq - c.Frequency); diff < bestDiff {
			best = c
			bestDiff = diff
		}
	}
	cents := int(math.Floor(1200 * math.Log2(freq/best.Frequency)))
	return Result{Note: best.Name, Cents: cents}
}
