// Package analyzer implements the per-frame exercise analysis engine:
// pose validation, metric extraction, smoothing, phase and repetition
// tracking, and form-error detection.
package analyzer

import (
	"errors"
	"fmt"

	"github.com/fitmirror/fitmirror/internal/pose"
)

// ErrUnsupportedExercise is returned when an exercise type identifier is
// not in the supported set.
var ErrUnsupportedExercise = errors.New("unsupported exercise type")

// Exercise identifies a supported exercise type.
type Exercise string

const (
	ExerciseSquat       Exercise = "squat"
	ExercisePushup      Exercise = "pushup"
	ExerciseSitup       Exercise = "situp"
	ExerciseCrunch      Exercise = "crunch"
	ExerciseJumpingJack Exercise = "jumping_jack"
)

// Facing describes the camera orientation an exercise expects.
type Facing string

const (
	// FacingSide expects the subject's left side toward the camera.
	FacingSide Facing = "side"
	// FacingFront expects the subject facing the camera directly.
	FacingFront Facing = "front"
)

// CountEdge declares which directed phase transition counts a repetition.
type CountEdge int

const (
	// CountAtoB counts when the phase moves from A into B (entering the
	// deepest position, e.g. standing into squat).
	CountAtoB CountEdge = iota
	// CountBtoA counts when the phase returns from B to A (e.g. a jumping
	// jack closing back to the start position).
	CountBtoA
)

// Feedback holds the per-exercise feedback strings emitted by the phase
// state machine, keyed by the transition that produced them.
type Feedback struct {
	InitialA          string // null phase settles into zone A
	InitialB          string // null phase settles into zone B
	InitialTransition string // null phase, metric in the transition band
	EnterA            string // full B -> A transition
	EnterB            string // full A -> B transition
	HoldA             string // staying in zone A
	HoldB             string // staying in zone B
	FromATransition   string // left zone A into the transition band
	FromBTransition   string // left zone B into the transition band
}

// AuxCheck overrides phase feedback when an auxiliary measurement drifts
// too far from its target (e.g. pushup body line deviating from straight).
type AuxCheck struct {
	Name     string
	Target   float64
	MaxDev   float64
	Feedback string
}

// Profile is the static per-exercise configuration: required landmarks,
// camera facing, phase thresholds, counting direction, form rules, and
// scoring parameters. Profiles are never mutated at runtime.
type Profile struct {
	Exercise Exercise
	Name     string

	Required []int
	Facing   Facing

	PhaseA string
	PhaseB string

	// Upper and Lower bound the transition band of the smoothed metric.
	// For angle-based exercises zone A is above Upper and zone B below
	// Lower; for width-based exercises the comparison is mirrored.
	Upper      float64
	Lower      float64
	WidthBased bool

	CountOn  CountEdge
	Feedback Feedback
	AuxCheck *AuxCheck

	// CheckForm evaluates the frame's landmarks against this exercise's
	// form rules and returns candidate errors, before debouncing.
	CheckForm func(f *pose.Frame, st *TrackingState) []ErrorCandidate

	// DepthScore maps the smoothed metric at count time to a 0-100 depth
	// sub-score.
	DepthScore func(metric float64) float64

	// IdealRepsPerMin is the cadence band rewarded by the frequency
	// sub-score.
	IdealRepsPerMin [2]float64
}

// Thresholds returns the effective (upper, lower) thresholds for a frame.
// The jumping jack derives both from the live shoulder width; other
// exercises use the profile constants.
func (p *Profile) Thresholds(aux map[string]float64) (upper, lower float64) {
	if p.Exercise != ExerciseJumpingJack {
		return p.Upper, p.Lower
	}

	// Adaptive thresholds: closed below half shoulder width, open above
	// 1.5x shoulder width. Fall back to fixed defaults when the shoulder
	// width could not be measured.
	sw := aux["shoulder_width"]
	if sw > 0 {
		return sw * 1.5, sw * 0.5
	}
	return 0.3, 0.025
}

var profiles = map[Exercise]*Profile{
	ExerciseSquat: {
		Exercise: ExerciseSquat,
		Name:     "Squat",
		Required: []int{pose.LeftHip, pose.LeftKnee, pose.LeftAnkle},
		Facing:   FacingSide,
		PhaseA:   "stand",
		PhaseB:   "squat",
		Upper:    170,
		Lower:    155,
		CountOn:  CountAtoB,
		Feedback: Feedback{
			InitialA:          "standing position detected, ready to squat",
			InitialB:          "good squat depth, hold it",
			InitialTransition: "get into a standing position",
			EnterA:            "standing position detected, ready to squat",
			EnterB:            "squat complete",
			HoldA:             "ready to start the squat",
			HoldB:             "good squat depth, hold it",
			FromATransition:   "keep lowering",
			FromBTransition:   "return to standing",
		},
		CheckForm:       squatFormErrors,
		DepthScore:      squatDepthScore,
		IdealRepsPerMin: [2]float64{8, 12},
	},
	ExercisePushup: {
		Exercise: ExercisePushup,
		Name:     "Pushup",
		Required: []int{pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist, pose.LeftHip},
		Facing:   FacingSide,
		PhaseA:   "up",
		PhaseB:   "down",
		Upper:    160,
		Lower:    90,
		CountOn:  CountAtoB,
		Feedback: Feedback{
			InitialA:          "ready to lower, keep your elbows close",
			InitialB:          "hold it, keep your body straight",
			InitialTransition: "get into the starting position",
			EnterA:            "ready to lower, keep your elbows close",
			EnterB:            "solid pushup, keep it up",
			HoldA:             "ready to lower, keep your body straight",
			HoldB:             "hold it, keep your body straight",
			FromATransition:   "keep lowering, elbows close to your body",
			FromBTransition:   "push back up, chest out",
		},
		AuxCheck: &AuxCheck{
			Name:     "body_angle",
			Target:   180,
			MaxDev:   20,
			Feedback: "keep your body straight, don't let your hips drop",
		},
		CheckForm:       pushupFormErrors,
		DepthScore:      pushupDepthScore,
		IdealRepsPerMin: [2]float64{6, 10},
	},
	ExerciseSitup: {
		Exercise: ExerciseSitup,
		Name:     "Situp",
		Required: []int{pose.LeftShoulder, pose.LeftHip, pose.LeftKnee},
		Facing:   FacingSide,
		PhaseA:   "down",
		PhaseB:   "up",
		Upper:    100,
		Lower:    85,
		CountOn:  CountAtoB,
		Feedback: Feedback{
			InitialA:          "ready to rise, brace your core",
			InitialB:          "hold it, squeeze your abs",
			InitialTransition: "get into the starting position",
			EnterA:            "ready to rise, brace your core",
			EnterB:            "clean situp",
			HoldA:             "brace your core, ready to rise",
			HoldB:             "hold it, squeeze your abs",
			FromATransition:   "keep pulling your torso up",
			FromBTransition:   "lower slowly, ready for the next one",
		},
		CheckForm:       situpFormErrors,
		DepthScore:      situpDepthScore,
		IdealRepsPerMin: [2]float64{10, 15},
	},
	ExerciseJumpingJack: {
		Exercise:   ExerciseJumpingJack,
		Name:       "Jumping Jack",
		Required:   []int{pose.LeftShoulder, pose.LeftHip, pose.LeftAnkle, pose.RightShoulder, pose.RightHip, pose.RightAnkle},
		Facing:     FacingFront,
		PhaseA:     "closed",
		PhaseB:     "open",
		WidthBased: true,
		CountOn:    CountBtoA,
		Feedback: Feedback{
			InitialA:          "start position detected, jump and spread",
			InitialB:          "open position detected, return to start",
			InitialTransition: "move to a start position, feet together or apart",
			EnterA:            "clean jumping jack",
			EnterB:            "arms and legs wide, full extension",
			HoldA:             "hold the start, ready to jump",
			HoldB:             "hold wide, ready to close",
			FromATransition:   "not wide enough, spread your arms and legs",
			FromBTransition:   "not closed enough, bring your feet together",
		},
		CheckForm:       nil,
		DepthScore:      jumpingJackDepthScore,
		IdealRepsPerMin: [2]float64{20, 30},
	},
}

func init() {
	// Crunch shares the situp profile with its own cadence band.
	crunch := *profiles[ExerciseSitup]
	crunch.Exercise = ExerciseCrunch
	crunch.Name = "Crunch"
	crunch.IdealRepsPerMin = [2]float64{12, 18}
	profiles[ExerciseCrunch] = &crunch
}

// ProfileFor returns the profile for the given exercise type identifier.
// Unknown identifiers return ErrUnsupportedExercise.
func ProfileFor(exercise string) (*Profile, error) {
	p, ok := profiles[Exercise(exercise)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedExercise, exercise)
	}
	return p, nil
}

// SupportedExercises returns the identifiers of all supported exercises.
func SupportedExercises() []string {
	return []string{
		string(ExerciseSquat),
		string(ExercisePushup),
		string(ExerciseSitup),
		string(ExerciseCrunch),
		string(ExerciseJumpingJack),
	}
}

func squatDepthScore(angle float64) float64 {
	switch {
	case angle < 90:
		return 100
	case angle < 120:
		return 90
	case angle < 140:
		return 80
	default:
		return 70
	}
}

func pushupDepthScore(angle float64) float64 {
	switch {
	case angle < 90:
		return 90
	case angle < 120:
		return 80
	default:
		return 70
	}
}

func situpDepthScore(angle float64) float64 {
	switch {
	case angle < 80:
		return 90
	case angle < 90:
		return 80
	default:
		return 70
	}
}

func jumpingJackDepthScore(width float64) float64 {
	switch {
	case width > 0.3:
		return 90
	case width > 0.2:
		return 80
	default:
		return 70
	}
}
