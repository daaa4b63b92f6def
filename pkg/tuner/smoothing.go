package tuner

// Smoother is a single-pole exponential filter over successive raw
// frequency estimates. It keeps one value of memory; a tick without a
// detection resets that memory, so smoothing never bridges a silence gap.
type Smoother struct {
	alpha float64
	prev  float64
}

// NewSmoother creates a filter with the given coefficient. Higher alpha
// means a steadier reading at the cost of response latency.
func NewSmoother(alpha float64) *Smoother {
	return &Smoother{alpha: alpha}
}

// Update feeds one raw estimate and returns the smoothed value. raw <= 0
// means no detection this tick: the filter resets and returns 0.
func (s *Smoother) Update(raw float64) float64 {
	if raw <= 0 {
		s.prev = 0
		return 0
	}
	if s.prev == 0 {
		s.prev = raw
		return raw
	}
	smoothed := s.alpha*s.prev + (1-s.alpha)*raw
	s.prev = smoothed
	return smoothed
}

// Reset clears the filter memory.
func (s *Smoother) Reset() {
	s.prev = 0
}
