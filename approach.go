package orrery

import (
	"fmt"
	"math"
)

const (
	goldenRatio      = 0.6180339887498949 // (√5 - 1) / 2
	goldenIterations = 60
	goldenTimeε      = 1e-9 // days
)

// Approach is the closest approach between two bodies over a search window.
type Approach struct {
	JD               float64 // time of the closest approach
	Distance         float64 // AU
	RelativeVelocity float64 // norm of the velocity difference, AU/day
	Step             float64 // sampling step, in days
	Refined          bool    // whether the golden-section refinement improved the sampled minimum
}

// ClosestApproach scans the window [start, start+duration] with a step of
// min(periodA, periodB)/SamplesPerPeriod and returns the sample of minimum separation.
// The scan is limited to MaxSamples samples and does not populate the state cache.
// The sampled minimum can miss the true minimum by up to one step; when
// RefineApproach is set, a golden-section search around the sampled minimum narrows it.
func (e *Engine) ClosestApproach(a, b string, start, duration float64) (Approach, error) {
	if duration < 0 || isNotFinite(start) || isNotFinite(duration) {
		return Approach{}, fmt.Errorf("%w: start=%g duration=%g", ErrInvalidArgument, start, duration)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	ka, err := e.system.lookup(a)
	if err != nil {
		return Approach{}, err
	}
	kb, err := e.system.lookup(b)
	if err != nil {
		return Approach{}, err
	}
	period := math.Inf(1)
	for _, k := range []int{ka, kb} {
		if orbit := e.system.nodes[k].body.Orbit; orbit != nil {
			period = math.Min(period, orbit.Period)
		}
	}
	if math.IsInf(period, 1) {
		return Approach{}, fmt.Errorf("%w: neither %q nor %q has an orbital period", ErrInvalidArgument, a, b)
	}
	step := period / float64(e.conf.SamplesPerPeriod)
	samples, err := e.sampleCount(duration, step)
	if err != nil {
		return Approach{}, err
	}

	best := Approach{Distance: math.Inf(1), Step: step}
	end := start + duration
	for s := 0; s < samples; s++ {
		jd := start + float64(s)*step
		d, v, err := e.separation(ka, kb, jd)
		if err != nil {
			return Approach{}, err
		}
		if d < best.Distance {
			best.JD, best.Distance, best.RelativeVelocity = jd, d, v
		}
	}

	if e.conf.RefineApproach && best.Distance > 0 {
		lo := math.Max(start, best.JD-step)
		hi := math.Min(end, best.JD+step)
		jd, err := e.goldenSection(ka, kb, lo, hi)
		if err != nil {
			return Approach{}, err
		}
		d, v, err := e.separation(ka, kb, jd)
		if err != nil {
			return Approach{}, err
		}
		if d < best.Distance {
			best.JD, best.Distance, best.RelativeVelocity, best.Refined = jd, d, v, true
		}
	}
	e.logger.Log("level", "debug", "subsys", "approach", "a", a, "b", b, "jd", best.JD, "distance", best.Distance, "refined", best.Refined)
	return best, nil
}

// separation returns the distance and relative speed of two bodies at jd, bypassing
// the state cache.
func (e *Engine) separation(ka, kb int, jd float64) (d, v float64, err error) {
	f := newFrame(jd)
	sa, err := e.resolve(f, ka, false)
	if err != nil {
		return 0, 0, err
	}
	sb, err := e.resolve(f, kb, false)
	if err != nil {
		return 0, 0, err
	}
	return distance(sa.Position, sb.Position), distance(sa.Velocity, sb.Velocity), nil
}

// goldenSection minimizes the separation over [lo, hi], assuming it is unimodal there.
func (e *Engine) goldenSection(ka, kb int, lo, hi float64) (float64, error) {
	dist := func(jd float64) (float64, error) {
		d, _, err := e.separation(ka, kb, jd)
		return d, err
	}
	x1 := hi - goldenRatio*(hi-lo)
	x2 := lo + goldenRatio*(hi-lo)
	f1, err := dist(x1)
	if err != nil {
		return 0, err
	}
	f2, err := dist(x2)
	if err != nil {
		return 0, err
	}
	for iter := 0; iter < goldenIterations && hi-lo > goldenTimeε; iter++ {
		if f1 < f2 {
			hi, x2, f2 = x2, x1, f1
			x1 = hi - goldenRatio*(hi-lo)
			if f1, err = dist(x1); err != nil {
				return 0, err
			}
		} else {
			lo, x1, f1 = x1, x2, f2
			x2 = lo + goldenRatio*(hi-lo)
			if f2, err = dist(x2); err != nil {
				return 0, err
			}
		}
	}
	return (lo + hi) / 2, nil
}
