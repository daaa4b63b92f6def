// Package estimate provides the default single-frame frequency estimator:
// FFT-based autocorrelation with parabolic peak interpolation, band limited
// to the guitar's fundamental range.
package estimate

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Config bounds the search and gates out silence.
type Config struct {
	MinFreq      float64 // search floor in Hz
	MaxFreq      float64 // search ceiling in Hz
	SilenceFloor float64 // RMS below this is treated as silence
}

// DefaultConfig covers E2 through well above E4 with headroom for sharp
// strings.
func DefaultConfig() Config {
	return Config{
		MinFreq:      60.0,
		MaxFreq:      500.0,
		SilenceFloor: 0.005,
	}
}

// Detector estimates the dominant fundamental of an audio window.
type Detector struct {
	cfg Config
}

// New creates a detector with the given bounds.
func New(cfg Config) *Detector {
	return &Detector{cfg: cfg}
}

// Estimate returns the fundamental frequency of the window in hertz, or 0
// when the window is silent, too short, or holds no plausible period.
//
// The window is mean-subtracted and gated by RMS, then autocorrelated via
// the Wiener-Khinchin route (forward FFT, power spectrum, inverse FFT).
// The correlation peak is searched only between the lags corresponding to
// MaxFreq and MinFreq, and refined by parabolic interpolation for
// sub-sample accuracy.
func (d *Detector) Estimate(samples []float64, sampleRate float64) float64 {
	n := len(samples)
	if n == 0 || sampleRate <= 0 {
		return 0
	}

	var sum float64
	for _, s := range samples {
		sum += s
	}
	mean := sum / float64(n)

	var energy float64
	centered := make([]float64, 2*n) // zero-padded to avoid circular wrap
	for i, s := range samples {
		v := s - mean
		centered[i] = v
		energy += v * v
	}
	rms := math.Sqrt(energy / float64(n))
	if rms < d.cfg.SilenceFloor {
		return 0
	}

	spectrum := fft.FFTReal(centered)
	for i, c := range spectrum {
		spectrum[i] = c * cmplx.Conj(c)
	}
	corrC := fft.IFFT(spectrum)

	minLag := int(sampleRate / d.cfg.MaxFreq)
	maxLag := int(sampleRate / d.cfg.MinFreq)
	if minLag < 1 {
		minLag = 1
	}
	if maxLag >= n {
		maxLag = n - 1
	}
	if minLag >= maxLag {
		return 0
	}

	bestLag := -1
	bestCorr := 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		if c := real(corrC[lag]); c > bestCorr {
			bestCorr = c
			bestLag = lag
		}
	}
	if bestLag <= 0 {
		return 0
	}

	lag := float64(bestLag) + interpolatePeak(
		real(corrC[bestLag-1]),
		bestCorr,
		real(corrC[bestLag+1]),
	)
	freq := sampleRate / lag
	if freq < d.cfg.MinFreq || freq > d.cfg.MaxFreq {
		return 0
	}
	return freq
}

// interpolatePeak fits a parabola through three correlation values and
// returns the sub-sample shift of the true peak, clamped to half a sample.
func interpolatePeak(left, peak, right float64) float64 {
	denom := 2 * (2*peak - left - right)
	if denom == 0 {
		return 0
	}
	shift := (right - left) / denom
	if shift < -0.5 {
		shift = -0.5
	} else if shift > 0.5 {
		shift = 0.5
	}
	return shift
}
