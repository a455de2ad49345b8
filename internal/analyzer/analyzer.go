package analyzer

import (
	"fmt"
	"strings"

	"github.com/fitmirror/fitmirror/internal/pose"
)

// Feedback strings independent of any exercise profile.
const (
	feedbackNoPerson    = "no person detected"
	feedbackNoMovement  = "cannot recognize movement, adjust your position"
	errorFeedbackPrefix = "watch out: "
)

// FrameResult is the outcome of analyzing one frame.
type FrameResult struct {
	// Time is the frame timestamp in seconds.
	Time float64 `json:"time"`
	// Metric is the smoothed primary metric; MetricOK is false when it
	// could not be extracted this frame.
	Metric   float64 `json:"metric"`
	MetricOK bool    `json:"metric_ok"`
	// Phase is the current phase label; empty until established.
	Phase string `json:"phase"`
	// Reps is the running repetition count.
	Reps int `json:"reps"`
	// Counted is true when this frame completed a repetition.
	Counted bool `json:"counted"`
	// Feedback is the coaching message for this frame.
	Feedback string `json:"feedback"`
	// PoseValid reports whether the pose passed validation; PoseReason
	// carries the failure reason when it did not.
	PoseValid  bool   `json:"pose_valid"`
	PoseReason string `json:"pose_reason,omitempty"`
	// Errors are the form errors confirmed on this frame.
	Errors []ErrorCandidate `json:"errors,omitempty"`
}

// Analyzer runs the full per-frame analysis pipeline for one exercise:
// pose validation, metric extraction and smoothing, phase and rep
// tracking, form-error detection with debouncing, and quality scoring.
// It is not safe for concurrent use; each run owns its own Analyzer.
type Analyzer struct {
	profile *Profile
	state   *TrackingState
	log     *ErrorLog
	stats   *SessionStats
}

// New creates an Analyzer for the given exercise type identifier. Unknown
// identifiers return ErrUnsupportedExercise.
func New(exercise string) (*Analyzer, error) {
	p, err := ProfileFor(exercise)
	if err != nil {
		return nil, err
	}
	return &Analyzer{
		profile: p,
		state:   newTrackingState(),
		log:     NewErrorLog(),
		stats:   NewSessionStats(),
	}, nil
}

// Profile returns the exercise profile this analyzer runs.
func (a *Analyzer) Profile() *Profile { return a.profile }

// Reps returns the running repetition count.
func (a *Analyzer) Reps() int { return a.state.Reps }

// Phase returns the current phase label; empty until established.
func (a *Analyzer) Phase() string { return a.state.Phase }

// ProcessFrame analyzes one frame and advances the run state. Frames with
// no detected person leave all state untouched.
func (a *Analyzer) ProcessFrame(f *pose.Frame) FrameResult {
	res := FrameResult{
		Phase: a.state.Phase,
		Reps:  a.state.Reps,
	}
	if f != nil {
		res.Time = f.Time
	}

	if f == nil || !f.Detected {
		res.Feedback = feedbackNoPerson
		return res
	}

	a.stats.ObserveTime(f.Time)

	valid, reason := ValidatePose(f, a.profile)
	res.PoseValid = valid
	res.PoseReason = reason

	// Form rules and the debouncer run on every detected frame. Pose
	// validation is advisory and must not suppress a persistent fault,
	// and absence decay keeps ticking through occlusions.
	var candidates []ErrorCandidate
	if a.profile.CheckForm != nil {
		candidates = a.profile.CheckForm(f, a.state)
	}
	confirmed, newly := a.state.debounce.Update(candidates)
	for _, c := range newly {
		a.log.Record(c.Label, f.Time)
	}
	res.Errors = confirmed

	metric, aux, ok := ExtractMetrics(f, a.profile.Exercise)
	if !ok {
		res.Feedback = feedbackNoMovement
		return res
	}

	smoothed := a.state.smoother.Add(metric)
	res.Metric = smoothed
	res.MetricOK = true

	newPhase, counted, feedback := advancePhase(a.profile, a.state.Phase, smoothed, aux)
	feedback = applyAuxCheck(a.profile, aux, feedback)

	if counted {
		a.state.Reps++
		q := ScoreRep(a.profile, f.Time, smoothed, a.state.LastSmoothed,
			a.state.HasSmoothed, valid, len(confirmed))
		a.stats.AddRep(q)
		feedback = fmt.Sprintf("%s (%d)", feedback, a.state.Reps)
	} else if !valid {
		// Pose problems qualify the frame's feedback but do not block
		// motion tracking; a completed rep still outranks them.
		feedback = reason
	}

	// Confirmed form errors take priority over everything else.
	if len(confirmed) > 0 {
		labels := make([]string, len(confirmed))
		for i, c := range confirmed {
			labels[i] = c.Label
		}
		feedback = errorFeedbackPrefix + strings.Join(labels, ", ")
	}

	a.state.Phase = newPhase
	a.state.LastSmoothed = smoothed
	a.state.HasSmoothed = true

	res.Phase = newPhase
	res.Reps = a.state.Reps
	res.Counted = counted
	res.Feedback = feedback
	return res
}

// Summary aggregates the run into its final report. It may be called at
// any point; processing can continue afterwards.
func (a *Analyzer) Summary() Summary {
	return a.stats.Summarize(a.profile, a.log)
}
