package analyzer

import "testing"

func TestScoreRep_Standard(t *testing.T) {
	squat, _ := ProfileFor("squat")

	cases := []struct {
		name      string
		poseValid bool
		errors    int
		want      float64
	}{
		{"clean rep", true, 0, 90},
		{"invalid pose", false, 0, 80},
		{"two errors", true, 2, 70},
		{"floor", true, 6, 50},
	}
	for _, c := range cases {
		q := ScoreRep(squat, 1.0, 150, 150, true, c.poseValid, c.errors)
		if q.Standard != c.want {
			t.Errorf("%s: expected standard %v, got %v", c.name, c.want, q.Standard)
		}
	}
}

func TestScoreRep_Stability(t *testing.T) {
	squat, _ := ProfileFor("squat")

	// A small change between smoothed values reads as steady.
	q := ScoreRep(squat, 1.0, 150, 153, true, true, 0)
	if q.Stability != 85 {
		t.Errorf("expected stability 85 for steady metric, got %v", q.Stability)
	}

	// A big jump reads as shaky.
	q = ScoreRep(squat, 1.0, 150, 165, true, true, 0)
	if q.Stability != 75 {
		t.Errorf("expected stability 75 for jumpy metric, got %v", q.Stability)
	}

	// The first rep has no prior value to compare against.
	q = ScoreRep(squat, 1.0, 150, 0, false, true, 0)
	if q.Stability != 85 {
		t.Errorf("expected stability 85 without a prior value, got %v", q.Stability)
	}
}

func TestScoreRep_DepthBuckets(t *testing.T) {
	squat, _ := ProfileFor("squat")

	cases := []struct {
		metric float64
		want   float64
	}{
		{85, 100},
		{110, 90},
		{130, 80},
		{150, 70},
	}
	for _, c := range cases {
		q := ScoreRep(squat, 1.0, c.metric, c.metric, true, true, 0)
		if q.Depth != c.want {
			t.Errorf("metric %v: expected depth %v, got %v", c.metric, c.want, q.Depth)
		}
	}
}

func TestFrequencyScore(t *testing.T) {
	squat, _ := ProfileFor("squat") // ideal band 8-12 reps/min

	cases := []struct {
		name     string
		reps     int
		duration float64
		want     float64
	}{
		{"in band", 10, 60, 90},
		{"too slow", 4, 60, 70},  // 90 - (8-4)*5
		{"too fast", 20, 60, 66}, // 90 - (20-12)*3
		{"no reps", 0, 60, 75},
		{"floor", 1, 600, 60}, // 0.1/min, heavily penalized
	}
	for _, c := range cases {
		if got := frequencyScore(squat, c.reps, c.duration); got != c.want {
			t.Errorf("%s: expected %v, got %v", c.name, c.want, got)
		}
	}
}

func TestSessionStats_Duration(t *testing.T) {
	s := NewSessionStats()
	if s.Duration() != 0 {
		t.Errorf("expected zero duration before any frames, got %v", s.Duration())
	}

	s.ObserveTime(2.5)
	s.ObserveTime(10)
	s.ObserveTime(62.5)
	if s.Duration() != 60 {
		t.Errorf("expected duration 60, got %v", s.Duration())
	}
}

func TestSummarize_NoReps(t *testing.T) {
	squat, _ := ProfileFor("squat")
	s := NewSessionStats()
	s.ObserveTime(0)
	s.ObserveTime(30)

	sum := s.Summarize(squat, NewErrorLog())
	if sum.Reps != 0 {
		t.Fatalf("expected 0 reps, got %d", sum.Reps)
	}
	if sum.Quality.Standard != 100 {
		t.Errorf("expected standard 100 with no reps and no errors, got %v", sum.Quality.Standard)
	}
	// No per-rep scores: the stability and depth fallbacks apply.
	if sum.Quality.Stability != 95 {
		t.Errorf("expected stability fallback 95, got %v", sum.Quality.Stability)
	}
	if sum.Quality.Depth != 90 {
		t.Errorf("expected depth fallback 90, got %v", sum.Quality.Depth)
	}
	if sum.Quality.Frequency != 75 {
		t.Errorf("expected frequency 75 with no reps, got %v", sum.Quality.Frequency)
	}
	want := (100.0 + 95 + 90 + 75) / 4
	if sum.Quality.Overall != want {
		t.Errorf("expected overall %v, got %v", want, sum.Quality.Overall)
	}
}

func TestSummarize_WithRepsAndErrors(t *testing.T) {
	squat, _ := ProfileFor("squat")
	s := NewSessionStats()
	s.ObserveTime(0)
	s.ObserveTime(60)

	// Ten reps over a minute, scored uniformly.
	for i := 0; i < 10; i++ {
		s.AddRep(RepQuality{Time: float64(i) * 6, Standard: 90, Stability: 85, Depth: 80})
	}

	log := NewErrorLog()
	log.Record("knee valgus", 12)

	sum := s.Summarize(squat, log)
	if sum.Reps != 10 {
		t.Fatalf("expected 10 reps, got %d", sum.Reps)
	}
	if sum.Duration != 60 {
		t.Errorf("expected duration 60, got %v", sum.Duration)
	}
	if sum.DistinctErrors != 1 {
		t.Errorf("expected 1 distinct error, got %d", sum.DistinctErrors)
	}

	// One occurrence over ten reps: error rate 10, standard 100-10*2.
	if sum.Quality.Standard != 80 {
		t.Errorf("expected standard 80, got %v", sum.Quality.Standard)
	}
	if sum.Quality.Stability != 85 {
		t.Errorf("expected stability 85, got %v", sum.Quality.Stability)
	}
	if sum.Quality.Depth != 80 {
		t.Errorf("expected depth 80, got %v", sum.Quality.Depth)
	}
	// Ten reps per minute sits inside the squat cadence band.
	if sum.Quality.Frequency != 90 {
		t.Errorf("expected frequency 90, got %v", sum.Quality.Frequency)
	}
	// (80+85+80+90)/4 = 83.75, rounded to one decimal.
	if sum.Quality.Overall != 83.8 {
		t.Errorf("expected overall 83.8, got %v", sum.Quality.Overall)
	}
}

func TestSummarize_StandardFloor(t *testing.T) {
	squat, _ := ProfileFor("squat")
	s := NewSessionStats()
	s.ObserveTime(0)
	s.ObserveTime(60)
	s.AddRep(RepQuality{Time: 10, Standard: 50, Stability: 75, Depth: 70})

	// Many more occurrences than reps: the rate caps at 100 and the score
	// floors at 60.
	log := NewErrorLog()
	for i := 0; i < 5; i++ {
		log.Record("knee valgus", float64(i))
	}

	sum := s.Summarize(squat, log)
	if sum.Quality.Standard != 60 {
		t.Errorf("expected standard floored at 60, got %v", sum.Quality.Standard)
	}
}
