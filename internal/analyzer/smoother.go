package analyzer

// Smoothing window sizes. The buffer remembers more samples than the
// averaging window so the full recent history stays available for
// diagnostics while only a short slice drives the responsive estimate.
const (
	// DefaultBufferSize is the rolling metric buffer capacity.
	DefaultBufferSize = 10
	// smoothWindow is the number of most recent samples averaged.
	smoothWindow = 5
	// minSamples is the buffer fill below which the raw value is returned
	// unsmoothed, to avoid lag at stream start.
	minSamples = 3
)

// Smoother maintains a bounded FIFO buffer of recent primary-metric values
// and produces a jitter-suppressed estimate.
type Smoother struct {
	buf []float64
	cap int
}

// NewSmoother creates a Smoother with the given buffer capacity.
// Capacities less than 1 fall back to DefaultBufferSize.
func NewSmoother(capacity int) *Smoother {
	if capacity < 1 {
		capacity = DefaultBufferSize
	}
	return &Smoother{
		buf: make([]float64, 0, capacity),
		cap: capacity,
	}
}

// Add appends a raw metric sample and returns the smoothed value: the raw
// sample while fewer than 3 samples have been seen, otherwise the mean of
// the most recent min(5, len) samples.
func (s *Smoother) Add(v float64) float64 {
	if len(s.buf) >= s.cap {
		copy(s.buf, s.buf[1:])
		s.buf = s.buf[:s.cap-1]
	}
	s.buf = append(s.buf, v)

	if len(s.buf) < minSamples {
		return v
	}

	window := smoothWindow
	if len(s.buf) < window {
		window = len(s.buf)
	}

	var sum float64
	for _, x := range s.buf[len(s.buf)-window:] {
		sum += x
	}
	return sum / float64(window)
}

// Len returns the number of samples currently buffered.
func (s *Smoother) Len() int {
	return len(s.buf)
}

// Values returns a copy of the buffered samples, oldest first.
func (s *Smoother) Values() []float64 {
	out := make([]float64, len(s.buf))
	copy(out, s.buf)
	return out
}
