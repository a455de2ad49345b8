package analyzer

import (
	"math"

	"github.com/fitmirror/fitmirror/internal/pose"
)

// Test frame builders. Coordinates are normalized image space with Y
// growing downward, matching the pose estimator output.

func lm(x, y, vis float64) pose.Landmark {
	return pose.Landmark{Point3D: pose.Point3D{X: x, Y: y}, Visibility: vis}
}

// squatFrame builds a side-view frame whose left knee angle equals the
// given value in degrees. The right-side joints sit just behind the left
// ones so the two-sided form rules see a proper side view.
func squatFrame(t, kneeAngle float64) *pose.Frame {
	f := &pose.Frame{Detected: true, Time: t}

	const kneeX, kneeY = 0.5, 0.5
	f.Landmarks[pose.LeftKnee] = lm(kneeX, kneeY, 0.9)
	f.Landmarks[pose.LeftAnkle] = lm(kneeX, kneeY+0.2, 0.9)

	// Place the hip so that Angle2D(hip, knee, ankle) comes out at the
	// requested angle: the ankle ray points straight down (90 degrees), so
	// the hip ray goes at 90-angle.
	rad := (90 - kneeAngle) * math.Pi / 180
	hip := pose.Point3D{X: kneeX + 0.2*math.Cos(rad), Y: kneeY + 0.2*math.Sin(rad)}
	f.Landmarks[pose.LeftHip] = lm(hip.X, hip.Y, 0.9)

	f.Landmarks[pose.RightHip] = lm(hip.X+0.02, hip.Y, 0.4)
	f.Landmarks[pose.RightKnee] = lm(kneeX+0.02, kneeY, 0.4)
	f.Landmarks[pose.RightAnkle] = lm(kneeX+0.02, kneeY+0.2, 0.4)

	f.Landmarks[pose.LeftShoulder] = lm(hip.X, hip.Y-0.25, 0.9)
	f.Landmarks[pose.RightShoulder] = lm(hip.X+0.02, hip.Y-0.25, 0.1)
	return f
}

// pushupFrame builds a side-view frame whose left elbow angle equals the
// given value in degrees.
func pushupFrame(t, elbowAngle float64) *pose.Frame {
	f := &pose.Frame{Detected: true, Time: t}

	const elbowX, elbowY = 0.5, 0.6
	f.Landmarks[pose.LeftElbow] = lm(elbowX, elbowY, 0.9)
	f.Landmarks[pose.LeftWrist] = lm(elbowX, elbowY+0.15, 0.9)

	rad := (90 - elbowAngle) * math.Pi / 180
	sh := pose.Point3D{X: elbowX + 0.15*math.Cos(rad), Y: elbowY + 0.15*math.Sin(rad)}
	f.Landmarks[pose.LeftShoulder] = lm(sh.X, sh.Y, 0.9)
	f.Landmarks[pose.RightShoulder] = lm(sh.X+0.02, sh.Y, 0.1)

	f.Landmarks[pose.LeftHip] = lm(sh.X+0.25, sh.Y+0.02, 0.9)
	f.Landmarks[pose.RightHip] = lm(sh.X+0.27, sh.Y+0.02, 0.4)
	f.Landmarks[pose.LeftAnkle] = lm(sh.X+0.5, sh.Y+0.04, 0.9)
	f.Landmarks[pose.RightAnkle] = lm(sh.X+0.52, sh.Y+0.04, 0.4)
	f.Landmarks[pose.RightElbow] = lm(elbowX+0.02, elbowY, 0.4)
	return f
}

// jackFrame builds a front-view frame with the given horizontal ankle
// separation. Shoulder width is fixed at 0.1, so the adaptive thresholds
// are 0.05 (closed) and 0.15 (open).
func jackFrame(t, ankleWidth float64) *pose.Frame {
	f := &pose.Frame{Detected: true, Time: t}

	f.Landmarks[pose.LeftAnkle] = lm(0.5+ankleWidth/2, 0.9, 0.9)
	f.Landmarks[pose.RightAnkle] = lm(0.5-ankleWidth/2, 0.9, 0.9)
	f.Landmarks[pose.LeftShoulder] = lm(0.55, 0.25, 0.9)
	f.Landmarks[pose.RightShoulder] = lm(0.45, 0.25, 0.85)
	f.Landmarks[pose.LeftHip] = lm(0.53, 0.5, 0.9)
	f.Landmarks[pose.RightHip] = lm(0.47, 0.5, 0.9)
	f.Landmarks[pose.LeftWrist] = lm(0.6, 0.5, 0.9)
	f.Landmarks[pose.RightWrist] = lm(0.4, 0.5, 0.9)
	return f
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
