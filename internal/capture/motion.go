package capture

import (
	"image"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

const (
	// blurKernelSize is the Gaussian kernel applied before differencing,
	// large enough to swallow sensor noise and small lighting flicker.
	blurKernelSize = 21
	// pixelDeltaMin is the per-pixel intensity change that counts as a
	// changed pixel after blurring.
	pixelDeltaMin = 25
)

// MotionDetector separates exercise movement from rest by differencing
// consecutive blurred grayscale frames. It remembers when movement was
// last seen so the pipeline can drop to the idle frame rate between sets
// and ramp back up when the next set starts.
type MotionDetector struct {
	threshold  float64
	prevGray   gocv.Mat
	haveBase   bool
	lastMotion time.Time
	mu         sync.Mutex
}

// NewMotionDetector creates a detector that reports movement when more
// than threshold percent of pixels change between frames. A threshold of
// 1.0 means 1% of the frame must change.
func NewMotionDetector(threshold float64) *MotionDetector {
	return &MotionDetector{
		threshold: threshold,
		prevGray:  gocv.NewMat(),
	}
}

// Detect compares a frame against the previous one and reports whether
// the subject moved, along with the percentage of pixels that changed.
// The first frame after creation or Reset only establishes the baseline.
func (m *MotionDetector) Detect(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	blurred := grayBlur(frame)
	defer blurred.Close()

	if !m.haveBase {
		blurred.CopyTo(&m.prevGray)
		m.haveBase = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, m.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, pixelDeltaMin, 255, gocv.ThresholdBinary)

	changed := gocv.CountNonZero(thresh)
	total := thresh.Rows() * thresh.Cols()
	changePercent := float64(changed) / float64(total) * 100.0

	blurred.CopyTo(&m.prevGray)

	moving := changePercent > m.threshold
	if moving {
		m.lastMotion = time.Now()
	}
	return moving, changePercent
}

// grayBlur converts a frame to blurred grayscale for differencing.
func grayBlur(frame *gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}
	defer gray.Close()

	blurred := gocv.NewMat()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: blurKernelSize, Y: blurKernelSize}, 0, 0, gocv.BorderDefault)
	return blurred
}

// Resting reports whether the subject has shown no movement for at least
// idle. A detector that has never seen movement counts as resting.
func (m *MotionDetector) Resting(idle time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.lastMotion.IsZero() {
		return true
	}
	return time.Since(m.lastMotion) >= idle
}

// LastMotion returns when movement was last detected. The second return
// is false when no movement has been seen yet.
func (m *MotionDetector) LastMotion() (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastMotion, !m.lastMotion.IsZero()
}

// Reset drops the baseline and the movement timestamp so the detector
// starts fresh, as between two recording sessions.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release()
}

// Close releases the detector's image buffers.
func (m *MotionDetector) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release()
}

func (m *MotionDetector) release() {
	if !m.prevGray.Empty() {
		m.prevGray.Close()
		m.prevGray = gocv.NewMat()
	}
	m.haveBase = false
	m.lastMotion = time.Time{}
}

// SetThreshold changes the percent-changed threshold for movement.
// Non-positive values are ignored.
func (m *MotionDetector) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.threshold = threshold
}
