package analyzer

import (
	"fmt"

	"github.com/fitmirror/fitmirror/internal/pose"
)

// Visibility thresholds for pose validation.
const (
	// visThreshold is the minimum visibility for a required landmark.
	visThreshold = 0.2
	// sideFacingMargin is added to visThreshold when judging whether the
	// far-side shoulder is too visible for a side-view exercise.
	sideFacingMargin = 0.3
	// sideFacingRatio is how much the far-side shoulder visibility may
	// exceed the near side before the orientation is rejected.
	sideFacingRatio = 1.2
	// frontFacingMaxDiff is the maximum left/right shoulder visibility
	// difference for a front-view exercise.
	frontFacingMaxDiff = 0.3
)

// ValidatePose checks that the frame's required landmarks are visible and
// that the subject's orientation matches the profile's expected camera
// facing. The result is advisory: downstream motion analysis still runs on
// an invalid frame, but its feedback is qualified with the reason.
func ValidatePose(f *pose.Frame, p *Profile) (bool, string) {
	for _, idx := range p.Required {
		lm, ok := f.At(idx)
		if !ok {
			return false, fmt.Sprintf("cannot see %s, adjust your position", pose.LandmarkName(idx))
		}
		if lm.Visibility < visThreshold {
			return false, fmt.Sprintf("cannot clearly see %s, adjust your position", pose.LandmarkName(idx))
		}
	}

	left, lok := f.At(pose.LeftShoulder)
	right, rok := f.At(pose.RightShoulder)
	if !lok || !rok {
		return true, ""
	}

	switch p.Facing {
	case FacingSide:
		// The far-side shoulder should be mostly hidden when the subject
		// presents their left side to the camera.
		if right.Visibility > visThreshold+sideFacingMargin && right.Visibility > left.Visibility*sideFacingRatio {
			return false, "keep your left side facing the camera"
		}
	case FacingFront:
		diff := left.Visibility - right.Visibility
		if diff < 0 {
			diff = -diff
		}
		if diff > frontFacingMaxDiff {
			return false, "face the camera directly"
		}
	}

	return true, ""
}
