package analyzer

import "math"

// zone is the region of metric space the smoothed value falls in, derived
// from the profile thresholds. The gap between the two thresholds is the
// hysteresis band that defends against threshold oscillation from noise.
type zone int

const (
	zoneNone zone = iota // transition band between the thresholds
	zoneA                // rest/extended endpoint
	zoneB                // deepest/contracted endpoint
)

// classifyZone maps a smoothed metric to a zone. Angle-based exercises
// place zone A above the upper threshold; width-based exercises mirror
// the comparison so that "more open" plays the role of "larger angle".
func classifyZone(p *Profile, m float64, aux map[string]float64) zone {
	upper, lower := p.Thresholds(aux)
	if p.WidthBased {
		switch {
		case m < lower:
			return zoneA
		case m > upper:
			return zoneB
		}
		return zoneNone
	}

	switch {
	case m > upper:
		return zoneA
	case m < lower:
		return zoneB
	}
	return zoneNone
}

// advancePhase applies one step of the phase state machine. The empty
// string is the initial null phase. A repetition is counted only on the
// profile's declared counting edge; re-entering the same zone or sitting
// in the transition band never counts.
func advancePhase(p *Profile, phase string, m float64, aux map[string]float64) (newPhase string, counted bool, feedback string) {
	z := classifyZone(p, m, aux)
	fb := p.Feedback

	switch phase {
	case "":
		switch z {
		case zoneA:
			return p.PhaseA, false, fb.InitialA
		case zoneB:
			return p.PhaseB, false, fb.InitialB
		}
		return "", false, fb.InitialTransition

	case p.PhaseA:
		switch z {
		case zoneB:
			return p.PhaseB, p.CountOn == CountAtoB, fb.EnterB
		case zoneA:
			return phase, false, fb.HoldA
		}
		return phase, false, fb.FromATransition

	case p.PhaseB:
		switch z {
		case zoneA:
			return p.PhaseA, p.CountOn == CountBtoA, fb.EnterA
		case zoneB:
			return phase, false, fb.HoldB
		}
		return phase, false, fb.FromBTransition
	}

	return phase, false, fb.InitialTransition
}

// applyAuxCheck overrides the phase feedback when the profile's auxiliary
// measurement has drifted beyond its allowed deviation.
func applyAuxCheck(p *Profile, aux map[string]float64, feedback string) string {
	if p.AuxCheck == nil {
		return feedback
	}
	v, ok := aux[p.AuxCheck.Name]
	if !ok {
		return feedback
	}
	if math.Abs(v-p.AuxCheck.Target) >= p.AuxCheck.MaxDev {
		return p.AuxCheck.Feedback
	}
	return feedback
}
