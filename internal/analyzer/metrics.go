package analyzer

import (
	"math"

	"github.com/fitmirror/fitmirror/internal/pose"
)

// ExtractMetrics computes the primary tracked metric and auxiliary
// measurements for the exercise from a single frame's landmarks.
//
// The primary metric is a joint angle for the angle-based exercises and
// the horizontal ankle separation for the jumping jack. The boolean is
// false when a needed landmark is absent, which signals that this frame
// cannot be evaluated; phase and counters are left untouched in that case.
func ExtractMetrics(f *pose.Frame, ex Exercise) (float64, map[string]float64, bool) {
	aux := make(map[string]float64)

	switch ex {
	case ExerciseSquat:
		hip, ok1 := f.At(pose.LeftHip)
		knee, ok2 := f.At(pose.LeftKnee)
		ankle, ok3 := f.At(pose.LeftAnkle)
		if !ok1 || !ok2 || !ok3 {
			return 0, aux, false
		}
		angle := pose.Angle2D(hip.Point3D, knee.Point3D, ankle.Point3D)
		if shoulder, ok := f.At(pose.LeftShoulder); ok {
			aux["hip_angle"] = pose.Angle3D(hip.Point3D, knee.Point3D, shoulder.Point3D)
		}
		return angle, aux, true

	case ExercisePushup:
		shoulder, ok1 := f.At(pose.LeftShoulder)
		elbow, ok2 := f.At(pose.LeftElbow)
		wrist, ok3 := f.At(pose.LeftWrist)
		if !ok1 || !ok2 || !ok3 {
			return 0, aux, false
		}
		angle := pose.Angle2D(shoulder.Point3D, elbow.Point3D, wrist.Point3D)
		hip, hok := f.At(pose.LeftHip)
		ankle, aok := f.At(pose.LeftAnkle)
		if hok && aok {
			aux["body_angle"] = pose.Angle3D(hip.Point3D, shoulder.Point3D, ankle.Point3D)
		}
		return angle, aux, true

	case ExerciseSitup, ExerciseCrunch:
		shoulder, ok1 := f.At(pose.LeftShoulder)
		hip, ok2 := f.At(pose.LeftHip)
		knee, ok3 := f.At(pose.LeftKnee)
		if !ok1 || !ok2 || !ok3 {
			return 0, aux, false
		}
		return pose.Angle2D(shoulder.Point3D, hip.Point3D, knee.Point3D), aux, true

	case ExerciseJumpingJack:
		la, ok1 := f.At(pose.LeftAnkle)
		ra, ok2 := f.At(pose.RightAnkle)
		if !ok1 || !ok2 {
			return 0, aux, false
		}
		width := math.Abs(la.X - ra.X)
		if lw, ok := f.At(pose.LeftWrist); ok {
			if rw, ok := f.At(pose.RightWrist); ok {
				aux["hand_distance"] = pose.Distance2D(lw.Point3D, rw.Point3D)
			}
		}
		if ls, ok := f.At(pose.LeftShoulder); ok {
			if rs, ok := f.At(pose.RightShoulder); ok {
				aux["shoulder_width"] = math.Abs(ls.X - rs.X)
			}
		}
		return width, aux, true
	}

	return 0, aux, false
}
