package analyzer

import "math"

// Depth-gate constants for the squat knee checks. The knee rules only run
// once the hips have descended far enough and sit near the lowest point of
// the recent window, so transition frames cannot trigger false positives.
const (
	// hipWindowSize is the rolling hip-height history length.
	hipWindowSize = 7
	// descentRatio is the fraction of the thigh's vertical projection the
	// hips must have descended before knee checks activate.
	descentRatio = 1.0 / 3.0
	// lowestProximity is the tolerance for "near the lowest point".
	lowestProximity = 0.03
)

// TrackingState is the mutable per-run analysis state, carried from frame
// to frame and owned exclusively by one Analyzer.
type TrackingState struct {
	// Phase is the current phase label; empty means not yet established.
	Phase string
	// Reps is the repetition counter.
	Reps int
	// LastSmoothed is the previous frame's smoothed metric; HasSmoothed
	// is false until the first metric has been processed.
	LastSmoothed float64
	HasSmoothed  bool

	smoother   *Smoother
	debounce   *Debouncer
	hipHeights []float64
}

func newTrackingState() *TrackingState {
	return &TrackingState{
		smoother:   NewSmoother(DefaultBufferSize),
		debounce:   NewDebouncer(DefaultPersistence),
		hipHeights: make([]float64, 0, hipWindowSize),
	}
}

// pushHipHeight appends a hip-height sample to the fixed-size rolling
// window, evicting the oldest sample when full.
func (st *TrackingState) pushHipHeight(y float64) {
	if len(st.hipHeights) >= hipWindowSize {
		copy(st.hipHeights, st.hipHeights[1:])
		st.hipHeights = st.hipHeights[:hipWindowSize-1]
	}
	st.hipHeights = append(st.hipHeights, y)
}

// depthGateOpen reports whether the squat is deep enough, and near enough
// to the window's lowest point, for the knee alignment checks to run.
// Image Y grows downward, so the highest hip position is the window
// minimum and the lowest is the maximum.
func (st *TrackingState) depthGateOpen(currentHipY, avgKneeY float64) bool {
	if len(st.hipHeights) < hipWindowSize {
		return false
	}

	highest := st.hipHeights[0]
	lowest := st.hipHeights[0]
	for _, y := range st.hipHeights[1:] {
		if y < highest {
			highest = y
		}
		if y > lowest {
			lowest = y
		}
	}

	thighProjection := avgKneeY - currentHipY
	if thighProjection <= 0 {
		return false
	}

	descended := (currentHipY - highest) > descentRatio*thighProjection
	nearLowest := math.Abs(currentHipY-lowest) < lowestProximity

	return descended && nearLowest
}
