package detector

import (
	"gocv.io/x/gocv"

	"github.com/fitmirror/fitmirror/internal/pose"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	frames []*pose.Frame
	next   int
	err    error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetFrame sets a single frame that will be returned by every Detect call.
func (m *MockDetector) SetFrame(f *pose.Frame) {
	m.frames = []*pose.Frame{f}
	m.next = 0
}

// SetFrames queues a sequence of frames; Detect returns them in order and
// repeats the last one when the sequence is exhausted.
func (m *MockDetector) SetFrames(frames []*pose.Frame) {
	m.frames = frames
	m.next = 0
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured frame or error.
func (m *MockDetector) Detect(frame *gocv.Mat) (*pose.Frame, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.frames) == 0 {
		return &pose.Frame{Detected: false}, nil
	}

	f := m.frames[m.next]
	if m.next < len(m.frames)-1 {
		m.next++
	}
	return f, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

func visible(x, y float64) pose.Landmark {
	return pose.Landmark{Point3D: pose.Point3D{X: x, Y: y}, Visibility: 0.95}
}

func hidden(x, y float64) pose.Landmark {
	return pose.Landmark{Point3D: pose.Point3D{X: x, Y: y}, Visibility: 0.1}
}

// StandingFrame returns a preset frame of a subject standing upright with
// the left side toward the camera. The left knee angle is roughly 175
// degrees.
func StandingFrame() *pose.Frame {
	f := &pose.Frame{Detected: true}

	f.Landmarks[pose.LeftShoulder] = visible(0.517, 0.05)
	f.Landmarks[pose.RightShoulder] = hidden(0.537, 0.05)
	f.Landmarks[pose.LeftHip] = visible(0.517, 0.301)
	f.Landmarks[pose.RightHip] = hidden(0.537, 0.301)
	f.Landmarks[pose.LeftKnee] = visible(0.5, 0.5)
	f.Landmarks[pose.RightKnee] = hidden(0.52, 0.5)
	f.Landmarks[pose.LeftAnkle] = visible(0.5, 0.7)
	f.Landmarks[pose.RightAnkle] = hidden(0.52, 0.7)

	return f
}

// DeepSquatFrame returns a preset frame of a subject at the bottom of a
// squat, left side toward the camera. The left knee angle is roughly 140
// degrees.
func DeepSquatFrame() *pose.Frame {
	f := &pose.Frame{Detected: true}

	f.Landmarks[pose.LeftShoulder] = visible(0.629, 0.1)
	f.Landmarks[pose.RightShoulder] = hidden(0.649, 0.1)
	f.Landmarks[pose.LeftHip] = visible(0.629, 0.347)
	f.Landmarks[pose.RightHip] = hidden(0.649, 0.347)
	f.Landmarks[pose.LeftKnee] = visible(0.5, 0.5)
	f.Landmarks[pose.RightKnee] = hidden(0.52, 0.5)
	f.Landmarks[pose.LeftAnkle] = visible(0.5, 0.7)
	f.Landmarks[pose.RightAnkle] = hidden(0.52, 0.7)

	return f
}

// JackClosedFrame returns a preset front-view frame of a subject in the
// jumping jack start position, feet together and arms down.
func JackClosedFrame() *pose.Frame {
	f := &pose.Frame{Detected: true}

	f.Landmarks[pose.LeftShoulder] = visible(0.55, 0.25)
	f.Landmarks[pose.RightShoulder] = visible(0.45, 0.25)
	f.Landmarks[pose.LeftHip] = visible(0.53, 0.5)
	f.Landmarks[pose.RightHip] = visible(0.47, 0.5)
	f.Landmarks[pose.LeftWrist] = visible(0.57, 0.5)
	f.Landmarks[pose.RightWrist] = visible(0.43, 0.5)
	f.Landmarks[pose.LeftAnkle] = visible(0.51, 0.9)
	f.Landmarks[pose.RightAnkle] = visible(0.49, 0.9)

	return f
}

// JackOpenFrame returns a preset front-view frame of a subject in the
// jumping jack open position, feet spread and arms raised.
func JackOpenFrame() *pose.Frame {
	f := &pose.Frame{Detected: true}

	f.Landmarks[pose.LeftShoulder] = visible(0.55, 0.25)
	f.Landmarks[pose.RightShoulder] = visible(0.45, 0.25)
	f.Landmarks[pose.LeftHip] = visible(0.53, 0.5)
	f.Landmarks[pose.RightHip] = visible(0.47, 0.5)
	f.Landmarks[pose.LeftWrist] = visible(0.68, 0.1)
	f.Landmarks[pose.RightWrist] = visible(0.32, 0.1)
	f.Landmarks[pose.LeftAnkle] = visible(0.65, 0.9)
	f.Landmarks[pose.RightAnkle] = visible(0.35, 0.9)

	return f
}

// EmptyFrame returns a frame with no detected person.
func EmptyFrame() *pose.Frame {
	return &pose.Frame{Detected: false}
}
