// Package pose provides body landmark types and geometry utilities for
// exercise analysis.
package pose

// Body landmark indices following the MediaPipe Pose convention.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
const (
	Nose           = 0
	LeftEyeInner   = 1
	LeftEye        = 2
	LeftEyeOuter   = 3
	RightEyeInner  = 4
	RightEye       = 5
	RightEyeOuter  = 6
	LeftEar        = 7
	RightEar       = 8
	MouthLeft      = 9
	MouthRight     = 10
	LeftShoulder   = 11
	RightShoulder  = 12
	LeftElbow      = 13
	RightElbow     = 14
	LeftWrist      = 15
	RightWrist     = 16
	LeftPinky      = 17
	RightPinky     = 18
	LeftIndex      = 19
	RightIndex     = 20
	LeftThumb      = 21
	RightThumb     = 22
	LeftHip        = 23
	RightHip       = 24
	LeftKnee       = 25
	RightKnee      = 26
	LeftAnkle      = 27
	RightAnkle     = 28
	LeftHeel       = 29
	RightHeel      = 30
	LeftFootIndex  = 31
	RightFootIndex = 32
	NumLandmarks   = 33
)

// landmarkNames maps landmark indices to human-readable names for feedback.
var landmarkNames = [NumLandmarks]string{
	"nose", "left eye inner", "left eye", "left eye outer",
	"right eye inner", "right eye", "right eye outer",
	"left ear", "right ear", "mouth left", "mouth right",
	"left shoulder", "right shoulder", "left elbow", "right elbow",
	"left wrist", "right wrist", "left pinky", "right pinky",
	"left index", "right index", "left thumb", "right thumb",
	"left hip", "right hip", "left knee", "right knee",
	"left ankle", "right ankle", "left heel", "right heel",
	"left foot index", "right foot index",
}

// LandmarkName returns the human-readable name for a landmark index.
func LandmarkName(idx int) string {
	if idx < 0 || idx >= NumLandmarks {
		return "unknown"
	}
	return landmarkNames[idx]
}

// Point3D represents a 3D point in normalized image space.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Landmark is a tracked body joint position with a visibility confidence
// score in [0,1].
type Landmark struct {
	Point3D
	Visibility float64 `json:"visibility"`
}

// Frame is a snapshot of all body landmarks at a given video timestamp.
// Detected is false when the pose estimator found no person in the frame;
// the landmark array is meaningless in that case.
type Frame struct {
	Landmarks [NumLandmarks]Landmark `json:"landmarks"`
	Detected  bool                   `json:"detected"`
	Time      float64                `json:"time"` // seconds since start of video
}

// At returns the landmark at the given index. The second return value is
// false when no pose was detected or the index is out of range.
func (f *Frame) At(idx int) (Landmark, bool) {
	if f == nil || !f.Detected || idx < 0 || idx >= NumLandmarks {
		return Landmark{}, false
	}
	return f.Landmarks[idx], true
}
