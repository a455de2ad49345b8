package api

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fitmirror/fitmirror/internal/analyzer"
	"github.com/fitmirror/fitmirror/internal/pose"
	"github.com/fitmirror/fitmirror/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "fitmirror-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func sampleSummary() analyzer.Summary {
	return analyzer.Summary{
		Exercise: "squat",
		Reps:     8,
		Duration: 42.5,
		Errors: []analyzer.ErrorEntry{
			{Label: "knee valgus", Count: 2, FirstSeen: 10.1},
		},
		DistinctErrors: 1,
		Quality: analyzer.QualityDimensions{
			Standard: 85, Stability: 85, Depth: 90, Frequency: 90, Overall: 87.5,
		},
		RepQualities: []analyzer.RepQuality{
			{Time: 5.0, Standard: 90, Stability: 85, Depth: 100},
			{Time: 10.5, Standard: 80, Stability: 75, Depth: 90},
		},
	}
}

// squatCycleFrames builds a stand, squat, stand landmark sequence that
// counts exactly one rep.
func squatCycleFrames() []*pose.Frame {
	angles := []float64{175, 176, 174, 174, 173, 150, 148, 147, 149, 151, 172, 173, 174}
	frames := make([]*pose.Frame, 0, len(angles))
	for i, angle := range angles {
		f := &pose.Frame{Detected: true, Time: float64(i) * 0.1}

		const kneeX, kneeY = 0.5, 0.5
		lm := func(x, y, vis float64) pose.Landmark {
			return pose.Landmark{Point3D: pose.Point3D{X: x, Y: y}, Visibility: vis}
		}
		f.Landmarks[pose.LeftKnee] = lm(kneeX, kneeY, 0.9)
		f.Landmarks[pose.LeftAnkle] = lm(kneeX, kneeY+0.2, 0.9)

		rad := (90 - angle) * math.Pi / 180
		hipX, hipY := kneeX+0.2*math.Cos(rad), kneeY+0.2*math.Sin(rad)
		f.Landmarks[pose.LeftHip] = lm(hipX, hipY, 0.9)
		f.Landmarks[pose.RightHip] = lm(hipX+0.02, hipY, 0.4)
		f.Landmarks[pose.RightKnee] = lm(kneeX+0.02, kneeY, 0.4)
		f.Landmarks[pose.RightAnkle] = lm(kneeX+0.02, kneeY+0.2, 0.4)
		f.Landmarks[pose.LeftShoulder] = lm(hipX, hipY-0.25, 0.9)
		f.Landmarks[pose.RightShoulder] = lm(hipX+0.02, hipY-0.25, 0.1)

		frames = append(frames, f)
	}
	return frames
}

func postJSON(t *testing.T, h http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestSessionHandler_CreateFromSummary(t *testing.T) {
	h := NewSessionHandler(newTestStore(t))

	sum := sampleSummary()
	w := postJSON(t, h, "/api/sessions", createSessionRequest{
		Exercise: "squat",
		Summary:  &sum,
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp sessionResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID == "" {
		t.Error("expected generated session ID")
	}
	if resp.Exercise != "squat" || resp.Reps != 8 {
		t.Errorf("unexpected session: %+v", resp)
	}
	if resp.Overall != 87.5 {
		t.Errorf("expected overall 87.5, got %v", resp.Overall)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Label != "knee valgus" {
		t.Errorf("unexpected errors: %+v", resp.Errors)
	}
	if len(resp.RepScores) != 2 || resp.RepScores[0].RepIndex != 1 {
		t.Errorf("unexpected rep scores: %+v", resp.RepScores)
	}
}

func TestSessionHandler_CreateFromFrames(t *testing.T) {
	h := NewSessionHandler(newTestStore(t))

	w := postJSON(t, h, "/api/sessions", createSessionRequest{
		Exercise: "squat",
		Frames:   squatCycleFrames(),
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp sessionResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Reps != 1 {
		t.Errorf("expected 1 rep from analyzed frames, got %d", resp.Reps)
	}
	if len(resp.RepScores) != 1 {
		t.Errorf("expected 1 rep score, got %d", len(resp.RepScores))
	}
	if resp.Overall == 0 {
		t.Error("expected a nonzero overall quality score")
	}
}

func TestSessionHandler_CreateRejectsUnknownExercise(t *testing.T) {
	h := NewSessionHandler(newTestStore(t))

	w := postJSON(t, h, "/api/sessions", createSessionRequest{
		Exercise: "burpee",
		Frames:   squatCycleFrames(),
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown exercise, got %d", w.Code)
	}
}

func TestSessionHandler_CreateRequiresInput(t *testing.T) {
	h := NewSessionHandler(newTestStore(t))

	w := postJSON(t, h, "/api/sessions", createSessionRequest{Exercise: "squat"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without frames or summary, got %d", w.Code)
	}
}

func TestSessionHandler_ListAndFilter(t *testing.T) {
	s := newTestStore(t)
	h := NewSessionHandler(s)

	for _, ex := range []string{"squat", "pushup", "squat"} {
		sum := sampleSummary()
		sum.Exercise = ex
		if err := s.Sessions().Create(SessionFromSummary(sum)); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp listSessionsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Sessions) != 3 {
		t.Errorf("expected 3 sessions, got %d", len(resp.Sessions))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/sessions?exercise=pushup", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode filtered response: %v", err)
	}
	if len(resp.Sessions) != 1 || resp.Sessions[0].Exercise != "pushup" {
		t.Errorf("unexpected filtered sessions: %+v", resp.Sessions)
	}
}

func TestSessionHandler_GetAndDelete(t *testing.T) {
	s := newTestStore(t)
	h := NewSessionHandler(s)

	sess := SessionFromSummary(sampleSummary())
	if err := s.Sessions().Create(sess); err != nil {
		t.Fatalf("create: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/"+sess.ID, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp sessionResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != sess.ID || len(resp.Errors) != 1 {
		t.Errorf("unexpected session detail: %+v", resp)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/sessions/"+sess.ID, nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/sessions/"+sess.ID, nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}
}

func TestSessionHandler_MethodNotAllowed(t *testing.T) {
	h := NewSessionHandler(newTestStore(t))

	req := httptest.NewRequest(http.MethodPut, "/api/sessions", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}
