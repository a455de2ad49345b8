package analyzer

import "testing"

func TestClassifyZone_AngleBased(t *testing.T) {
	squat, _ := ProfileFor("squat")

	cases := []struct {
		metric float64
		want   zone
	}{
		{175, zoneA},   // above upper: standing
		{170, zoneNone}, // on the threshold stays in the band
		{160, zoneNone}, // hysteresis band
		{155, zoneNone},
		{150, zoneB}, // below lower: deep squat
	}
	for _, c := range cases {
		if got := classifyZone(squat, c.metric, nil); got != c.want {
			t.Errorf("classifyZone(%v) = %v, want %v", c.metric, got, c.want)
		}
	}
}

func TestClassifyZone_WidthBased(t *testing.T) {
	jack, _ := ProfileFor("jumping_jack")
	aux := map[string]float64{"shoulder_width": 0.1} // thresholds 0.15 / 0.05

	cases := []struct {
		metric float64
		want   zone
	}{
		{0.02, zoneA},   // feet together
		{0.1, zoneNone}, // mid-jump
		{0.3, zoneB},    // fully open
	}
	for _, c := range cases {
		if got := classifyZone(jack, c.metric, aux); got != c.want {
			t.Errorf("classifyZone(%v) = %v, want %v", c.metric, got, c.want)
		}
	}
}

func TestAdvancePhase_NullPhase(t *testing.T) {
	squat, _ := ProfileFor("squat")

	// Settling into zone A establishes the phase without counting.
	phase, counted, _ := advancePhase(squat, "", 175, nil)
	if phase != "stand" || counted {
		t.Errorf("expected (stand, false), got (%q, %v)", phase, counted)
	}

	// Settling straight into zone B also establishes without counting.
	phase, counted, _ = advancePhase(squat, "", 150, nil)
	if phase != "squat" || counted {
		t.Errorf("expected (squat, false), got (%q, %v)", phase, counted)
	}

	// The transition band keeps the phase unestablished.
	phase, counted, _ = advancePhase(squat, "", 160, nil)
	if phase != "" || counted {
		t.Errorf("expected null phase in transition band, got (%q, %v)", phase, counted)
	}
}

func TestAdvancePhase_CountOnAtoB(t *testing.T) {
	squat, _ := ProfileFor("squat")

	// Descending edge counts for the squat.
	phase, counted, _ := advancePhase(squat, "stand", 150, nil)
	if phase != "squat" || !counted {
		t.Errorf("expected counted squat, got (%q, %v)", phase, counted)
	}

	// The return to standing does not.
	phase, counted, _ = advancePhase(squat, "squat", 175, nil)
	if phase != "stand" || counted {
		t.Errorf("expected uncounted stand, got (%q, %v)", phase, counted)
	}
}

func TestAdvancePhase_CountOnBtoA(t *testing.T) {
	jack, _ := ProfileFor("jumping_jack")
	aux := map[string]float64{"shoulder_width": 0.1}

	// Opening up does not count for the jumping jack.
	phase, counted, _ := advancePhase(jack, "closed", 0.3, aux)
	if phase != "open" || counted {
		t.Errorf("expected uncounted open, got (%q, %v)", phase, counted)
	}

	// Closing back does.
	phase, counted, _ = advancePhase(jack, "open", 0.02, aux)
	if phase != "closed" || !counted {
		t.Errorf("expected counted closed, got (%q, %v)", phase, counted)
	}
}

func TestAdvancePhase_HoldAndTransitionNeverCount(t *testing.T) {
	squat, _ := ProfileFor("squat")

	// Holding the same zone never counts.
	phase, counted, _ := advancePhase(squat, "squat", 148, nil)
	if phase != "squat" || counted {
		t.Errorf("expected uncounted hold, got (%q, %v)", phase, counted)
	}

	// Dipping into the transition band keeps the phase and never counts.
	phase, counted, _ = advancePhase(squat, "squat", 160, nil)
	if phase != "squat" || counted {
		t.Errorf("expected phase kept in transition band, got (%q, %v)", phase, counted)
	}
	phase, counted, _ = advancePhase(squat, "stand", 160, nil)
	if phase != "stand" || counted {
		t.Errorf("expected phase kept in transition band, got (%q, %v)", phase, counted)
	}
}

func TestApplyAuxCheck(t *testing.T) {
	pushup, _ := ProfileFor("pushup")

	// A straight body keeps the phase feedback.
	got := applyAuxCheck(pushup, map[string]float64{"body_angle": 178}, "keep going")
	if got != "keep going" {
		t.Errorf("expected phase feedback kept, got %q", got)
	}

	// Sagging past the allowed deviation swaps in the aux feedback.
	got = applyAuxCheck(pushup, map[string]float64{"body_angle": 150}, "keep going")
	if got != pushup.AuxCheck.Feedback {
		t.Errorf("expected aux feedback, got %q", got)
	}

	// A missing measurement leaves the feedback alone.
	got = applyAuxCheck(pushup, map[string]float64{}, "keep going")
	if got != "keep going" {
		t.Errorf("expected phase feedback kept, got %q", got)
	}
}
