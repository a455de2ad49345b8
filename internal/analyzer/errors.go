package analyzer

import (
	"math"

	"github.com/fitmirror/fitmirror/internal/pose"
)

// Form-error rule thresholds, calibrated against normalized landmark
// coordinates.
const (
	// kneeValgusRatio is the knee/ankle separation ratio below which the
	// knees are collapsing inward.
	kneeValgusRatio = 0.95
	// kneeVarusRatio is the ratio above which the knees bow outward.
	kneeVarusRatio = 1.3
	// minAnkleDist guards the ratio against a near-zero denominator.
	minAnkleDist = 0.05
	// gravityOffsetMax is the maximum horizontal offset between the
	// estimated center of gravity and the ankle midpoint.
	gravityOffsetMax = 0.12
	// hipLineMax is the maximum vertical hip/shoulder offset in a pushup.
	hipLineMax = 0.12
	// torsoTwistMax is the maximum shoulder-width/hip-width difference in
	// a situp before the torso is considered twisted.
	torsoTwistMax = 0.12
)

// Severity ranks a form error for the rendering layer.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Position is a normalized display position hint in [0,1] coordinates for
// projecting the error annotation onto pixels.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ErrorCandidate is a single-frame form-error observation, before
// debouncing.
type ErrorCandidate struct {
	Label    string   `json:"label"`
	Position Position `json:"position"`
	Severity Severity `json:"severity"`
}

// squatFormErrors checks knee alignment (gated on squat depth) and the
// horizontal center-of-gravity offset.
func squatFormErrors(f *pose.Frame, st *TrackingState) []ErrorCandidate {
	leftKnee, ok1 := f.At(pose.LeftKnee)
	rightKnee, ok2 := f.At(pose.RightKnee)
	leftAnkle, ok3 := f.At(pose.LeftAnkle)
	rightAnkle, ok4 := f.At(pose.RightAnkle)
	leftHip, ok5 := f.At(pose.LeftHip)
	rightHip, ok6 := f.At(pose.RightHip)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 || !ok6 {
		return nil
	}

	var out []ErrorCandidate

	currentHipY := (leftHip.Y + rightHip.Y) / 2
	st.pushHipHeight(currentHipY)

	avgKneeY := (leftKnee.Y + rightKnee.Y) / 2
	if st.depthGateOpen(currentHipY, avgKneeY) {
		kneeDist := pose.Distance2D(leftKnee.Point3D, rightKnee.Point3D)
		ankleDist := pose.Distance2D(leftAnkle.Point3D, rightAnkle.Point3D)

		if ankleDist > minAnkleDist {
			ratio := kneeDist / ankleDist
			kneeCenter := Position{
				X: (leftKnee.X + rightKnee.X) / 2,
				Y: (leftKnee.Y + rightKnee.Y) / 2,
			}
			if ratio < kneeValgusRatio {
				out = append(out, ErrorCandidate{Label: "knee valgus", Position: kneeCenter, Severity: SeverityHigh})
			} else if ratio > kneeVarusRatio {
				out = append(out, ErrorCandidate{Label: "knee varus", Position: kneeCenter, Severity: SeverityMedium})
			}
		}
	}

	leftShoulder, ok7 := f.At(pose.LeftShoulder)
	rightShoulder, ok8 := f.At(pose.RightShoulder)
	if ok7 && ok8 {
		ankleCenterX := (leftAnkle.X + rightAnkle.X) / 2
		hipCenterX := (leftHip.X + rightHip.X) / 2
		shoulderCenterX := (leftShoulder.X + rightShoulder.X) / 2
		gravityX := (hipCenterX + shoulderCenterX) / 2

		if math.Abs(gravityX-ankleCenterX) > gravityOffsetMax {
			gravityPos := Position{X: gravityX, Y: currentHipY}
			label := "weight too far forward"
			if gravityX > ankleCenterX {
				label = "weight too far back"
			}
			out = append(out, ErrorCandidate{Label: label, Position: gravityPos, Severity: SeverityLow})
		}
	}

	return out
}

// pushupFormErrors checks for sagging shoulders and a broken hip line.
func pushupFormErrors(f *pose.Frame, st *TrackingState) []ErrorCandidate {
	leftShoulder, ok1 := f.At(pose.LeftShoulder)
	rightShoulder, ok2 := f.At(pose.RightShoulder)
	leftElbow, ok3 := f.At(pose.LeftElbow)
	rightElbow, ok4 := f.At(pose.RightElbow)
	leftHip, ok5 := f.At(pose.LeftHip)
	rightHip, ok6 := f.At(pose.RightHip)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 || !ok6 {
		return nil
	}

	var out []ErrorCandidate

	shoulderY := (leftShoulder.Y + rightShoulder.Y) / 2
	elbowY := (leftElbow.Y + rightElbow.Y) / 2
	if shoulderY > elbowY {
		out = append(out, ErrorCandidate{
			Label:    "shoulder sag",
			Position: Position{X: (leftShoulder.X + rightShoulder.X) / 2, Y: shoulderY},
			Severity: SeverityHigh,
		})
	}

	if _, ok := f.At(pose.LeftAnkle); ok {
		if math.Abs(leftHip.Y-leftShoulder.Y) > hipLineMax {
			hipPos := Position{
				X: (leftHip.X + rightHip.X) / 2,
				Y: (leftHip.Y + rightHip.Y) / 2,
			}
			label := "hip raised"
			if leftHip.Y > leftShoulder.Y {
				label = "hip sag"
			}
			out = append(out, ErrorCandidate{Label: label, Position: hipPos, Severity: SeverityMedium})
		}
	}

	return out
}

// situpFormErrors checks for torso twist and the head pulling forward.
func situpFormErrors(f *pose.Frame, st *TrackingState) []ErrorCandidate {
	leftShoulder, ok1 := f.At(pose.LeftShoulder)
	rightShoulder, ok2 := f.At(pose.RightShoulder)
	leftHip, ok3 := f.At(pose.LeftHip)
	rightHip, ok4 := f.At(pose.RightHip)
	_, ok5 := f.At(pose.LeftKnee)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return nil
	}

	var out []ErrorCandidate

	shoulderWidth := pose.Distance2D(leftShoulder.Point3D, rightShoulder.Point3D)
	hipWidth := pose.Distance2D(leftHip.Point3D, rightHip.Point3D)
	if math.Abs(shoulderWidth-hipWidth) > torsoTwistMax {
		out = append(out, ErrorCandidate{
			Label:    "torso twist",
			Position: Position{X: (leftShoulder.X + rightShoulder.X) / 2, Y: (leftShoulder.Y + leftHip.Y) / 2},
			Severity: SeverityHigh,
		})
	}

	if leftShoulder.Y > leftHip.Y {
		out = append(out, ErrorCandidate{
			Label:    "head forward",
			Position: Position{X: leftShoulder.X, Y: leftShoulder.Y},
			Severity: SeverityMedium,
		})
	}

	return out
}
