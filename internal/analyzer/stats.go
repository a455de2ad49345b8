package analyzer

import "math"

// Score floors and penalties for the per-rep standard score.
const (
	repBaseScore       = 90
	repScoreFloor      = 50
	posePenalty        = 10
	formPenaltyPerErr  = 10
	stabilityGood      = 85
	stabilityPoor      = 75
	stabilityTolerance = 5
)

// RepQuality scores a single counted repetition on three 0-100 axes.
type RepQuality struct {
	// Time is the timestamp of the frame the rep was counted on.
	Time float64 `json:"time"`
	// Standard reflects pose validity and confirmed form errors.
	Standard float64 `json:"standard"`
	// Stability reflects how steady the smoothed metric was at count time.
	Stability float64 `json:"stability"`
	// Depth is the exercise-specific depth bucket for the count-time
	// metric.
	Depth float64 `json:"depth"`
}

// QualityDimensions are the aggregated 0-100 session scores.
type QualityDimensions struct {
	Standard  float64 `json:"standard"`
	Stability float64 `json:"stability"`
	Depth     float64 `json:"depth"`
	Frequency float64 `json:"frequency"`
	Overall   float64 `json:"overall"`
}

// Summary is the end-of-run aggregate for one analysis run.
type Summary struct {
	Exercise       string            `json:"exercise"`
	Reps           int               `json:"reps"`
	Duration       float64           `json:"duration"`
	DistinctErrors int               `json:"distinct_errors"`
	Errors         []ErrorEntry      `json:"errors"`
	Quality        QualityDimensions `json:"quality"`
	RepQualities   []RepQuality      `json:"rep_qualities,omitempty"`
}

// SessionStats accumulates per-rep quality scores and rep timestamps for
// one run and produces the aggregate summary.
type SessionStats struct {
	repTimes  []float64
	qualities []RepQuality
	firstTime float64
	lastTime  float64
	hasTime   bool
}

// NewSessionStats creates an empty SessionStats.
func NewSessionStats() *SessionStats {
	return &SessionStats{}
}

// ObserveTime extends the run's known time span. Every processed frame
// reports its timestamp here so the duration covers the whole run, not
// just the span between the first and last rep.
func (s *SessionStats) ObserveTime(ts float64) {
	if !s.hasTime {
		s.firstTime = ts
		s.lastTime = ts
		s.hasTime = true
		return
	}
	if ts > s.lastTime {
		s.lastTime = ts
	}
}

// AddRep records one counted repetition with its quality scores.
func (s *SessionStats) AddRep(q RepQuality) {
	s.repTimes = append(s.repTimes, q.Time)
	s.qualities = append(s.qualities, q)
}

// Duration returns the observed run length in seconds.
func (s *SessionStats) Duration() float64 {
	if !s.hasTime {
		return 0
	}
	return s.lastTime - s.firstTime
}

// RepQuality scores a repetition counted on the current frame.
// poseValid and the confirmed-error count drive the standard score;
// stability compares the frame's smoothed metric to the previous frame's.
func ScoreRep(p *Profile, ts, smoothed, lastSmoothed float64, hasLast, poseValid bool, confirmedErrors int) RepQuality {
	standard := float64(repBaseScore)
	if !poseValid {
		standard -= posePenalty
	}
	standard -= float64(formPenaltyPerErr * confirmedErrors)
	if standard < repScoreFloor {
		standard = repScoreFloor
	}

	stability := float64(stabilityPoor)
	if !hasLast || math.Abs(smoothed-lastSmoothed) < stabilityTolerance {
		stability = stabilityGood
	}

	depth := 75.0
	if p.DepthScore != nil {
		depth = p.DepthScore(smoothed)
	}

	return RepQuality{Time: ts, Standard: standard, Stability: stability, Depth: depth}
}

// Summarize computes the aggregate quality dimensions for the run.
func (s *SessionStats) Summarize(p *Profile, log *ErrorLog) Summary {
	reps := len(s.repTimes)
	distinct := log.Distinct()

	standard := 100.0
	if reps > 0 {
		errorRate := float64(log.TotalOccurrences()) / float64(reps) * 100
		if errorRate > 100 {
			errorRate = 100
		}
		standard = 100 - errorRate*2
		if standard < 60 {
			standard = 60
		}
	}

	stability := s.meanStability()
	if stability == 0 {
		stability = 95 - 10*float64(distinct)
		if stability < 60 {
			stability = 60
		}
	}

	depth := s.meanDepth()
	if depth == 0 {
		depth = standard - 5
		if depth > 90 {
			depth = 90
		}
		if depth < 65 {
			depth = 65
		}
	}

	frequency := frequencyScore(p, reps, s.Duration())

	overall := (standard + stability + depth + frequency) / 4

	return Summary{
		Exercise:       string(p.Exercise),
		Reps:           reps,
		Duration:       s.Duration(),
		DistinctErrors: distinct,
		Errors:         log.Entries(),
		Quality: QualityDimensions{
			Standard:  round1(standard),
			Stability: round1(stability),
			Depth:     round1(depth),
			Frequency: round1(frequency),
			Overall:   round1(overall),
		},
		RepQualities: s.qualities,
	}
}

func (s *SessionStats) meanStability() float64 {
	if len(s.qualities) == 0 {
		return 0
	}
	var sum float64
	for _, q := range s.qualities {
		sum += q.Stability
	}
	return sum / float64(len(s.qualities))
}

func (s *SessionStats) meanDepth() float64 {
	if len(s.qualities) == 0 {
		return 0
	}
	var sum float64
	for _, q := range s.qualities {
		sum += q.Depth
	}
	return sum / float64(len(s.qualities))
}

// frequencyScore rewards a cadence inside the exercise's ideal band and
// penalizes deviation, with undertraining penalized harder than rushing.
func frequencyScore(p *Profile, reps int, duration float64) float64 {
	if reps == 0 || duration <= 0 {
		return 75
	}

	perMin := float64(reps) / (duration / 60)
	lo, hi := p.IdealRepsPerMin[0], p.IdealRepsPerMin[1]

	switch {
	case perMin >= lo && perMin <= hi:
		return 90
	case perMin < lo:
		score := 90 - (lo-perMin)*5
		if score < 60 {
			score = 60
		}
		return score
	default:
		score := 90 - (perMin-hi)*3
		if score < 60 {
			score = 60
		}
		return score
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
