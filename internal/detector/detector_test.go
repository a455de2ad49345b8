package detector

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/fitmirror/fitmirror/internal/pose"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ModelComplexity != 1 {
		t.Errorf("expected model complexity 1, got %d", cfg.ModelComplexity)
	}
	if cfg.MinConfidence != 0.5 || cfg.MinTrackingConf != 0.5 {
		t.Errorf("expected 0.5 confidence thresholds, got %v / %v",
			cfg.MinConfidence, cfg.MinTrackingConf)
	}
}

func TestMockDetector_DefaultReturnsNoDetection(t *testing.T) {
	m := NewMockDetector()
	f, err := m.Detect(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Detected {
		t.Error("expected no detection from an unconfigured mock")
	}
}

func TestMockDetector_FrameSequence(t *testing.T) {
	m := NewMockDetector()
	m.SetFrames([]*pose.Frame{StandingFrame(), DeepSquatFrame()})

	first, _ := m.Detect(nil)
	second, _ := m.Detect(nil)
	third, _ := m.Detect(nil)

	if first.Landmarks[pose.LeftHip].Y == second.Landmarks[pose.LeftHip].Y {
		t.Error("expected the sequence to advance between frames")
	}
	// The last frame repeats once the sequence is exhausted.
	if third.Landmarks[pose.LeftHip] != second.Landmarks[pose.LeftHip] {
		t.Error("expected the last frame to repeat")
	}
}

func TestMockDetector_Error(t *testing.T) {
	m := NewMockDetector()
	want := errors.New("camera unplugged")
	m.SetError(want)

	if _, err := m.Detect(nil); !errors.Is(err, want) {
		t.Errorf("expected configured error, got %v", err)
	}
}

func TestFixtureFrames(t *testing.T) {
	// Side-view fixtures hide the far shoulder; front-view fixtures show
	// both.
	standing := StandingFrame()
	if !standing.Detected {
		t.Fatal("expected standing fixture to be detected")
	}
	if standing.Landmarks[pose.LeftShoulder].Visibility < 0.5 {
		t.Error("expected near shoulder visible in side view")
	}
	if standing.Landmarks[pose.RightShoulder].Visibility > 0.5 {
		t.Error("expected far shoulder hidden in side view")
	}

	open := JackOpenFrame()
	if open.Landmarks[pose.RightShoulder].Visibility < 0.5 {
		t.Error("expected both shoulders visible in front view")
	}

	// The squat fixture drops the hips relative to standing.
	squat := DeepSquatFrame()
	if squat.Landmarks[pose.LeftHip].Y <= standing.Landmarks[pose.LeftHip].Y {
		t.Error("expected squat hips below standing hips")
	}

	// The open jack spreads the ankles.
	closed := JackClosedFrame()
	closedWidth := closed.Landmarks[pose.LeftAnkle].X - closed.Landmarks[pose.RightAnkle].X
	openWidth := open.Landmarks[pose.LeftAnkle].X - open.Landmarks[pose.RightAnkle].X
	if openWidth <= closedWidth {
		t.Error("expected the open jack to spread the ankles")
	}

	if EmptyFrame().Detected {
		t.Error("expected empty fixture to be undetected")
	}
}

func TestJSONPoseToFrame(t *testing.T) {
	payload := `{"detected":true,"landmarks":[{"x":0.1,"y":0.2,"z":0.3,"visibility":0.9}]}`

	var p jsonPose
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	f := p.toFrame()
	if !f.Detected {
		t.Fatal("expected detected frame")
	}
	lm := f.Landmarks[pose.Nose]
	if lm.X != 0.1 || lm.Y != 0.2 || lm.Z != 0.3 || lm.Visibility != 0.9 {
		t.Errorf("unexpected landmark %+v", lm)
	}

	// An undetected response carries no landmarks.
	var empty jsonPose
	if err := json.Unmarshal([]byte(`{"detected":false}`), &empty); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if empty.toFrame().Detected {
		t.Error("expected undetected frame")
	}
}
