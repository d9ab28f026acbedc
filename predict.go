package orrery

import (
	"fmt"
	"math"
)

// TrajectoryPoint is a sample of a predicted trajectory.
type TrajectoryPoint struct {
	JD       float64
	Position [3]float64
	Velocity [3]float64
	Distance float64 // from the parent
	Phase    float64 // true anomaly in [0, 2π)
}

// OrbitalPrediction is a sampled trajectory of a body over a time window.
type OrbitalPrediction struct {
	Body            string
	Start, Duration float64 // JD and days
	Step            float64 // days
	Trajectory      []TrajectoryPoint
	Period          float64 // days, zero for a body without orbit
	TimeToPeriapsis float64 // days from Start
	TimeToApoapsis  float64 // days from Start
	NextPeriapsis   float64 // JD
	NextApoapsis    float64 // JD
}

// End returns the Julian Day of the end of the prediction window.
func (p OrbitalPrediction) End() float64 {
	return p.Start + p.Duration
}

// Predict samples the state of the body every step days from start, including the
// final sample: the trajectory has floor(duration/step)+1 points.
// A zero step uses the configured default step.
// Predictions are cached by (body, start, duration, step); the returned trajectory is
// always a copy owned by the caller.
func (e *Engine) Predict(id string, start, duration, step float64) (OrbitalPrediction, error) {
	if step == 0 {
		step = e.conf.DefaultTimeStep
	}
	if step < 0 || duration < 0 || isNotFinite(start) || isNotFinite(duration) || isNotFinite(step) {
		return OrbitalPrediction{}, fmt.Errorf("%w: start=%g duration=%g step=%g", ErrInvalidArgument, start, duration, step)
	}
	samples, err := e.sampleCount(duration, step)
	if err != nil {
		return OrbitalPrediction{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	k, err := e.system.lookup(id)
	if err != nil {
		return OrbitalPrediction{}, err
	}
	key := predictionKey{body: id, start: start, duration: duration, step: step}
	if p, ok := e.predictions.get(key); ok {
		e.stats.PredictionHits++
		e.metrics.predictionLookup(true)
		return p.clone(), nil
	}
	e.stats.PredictionMisses++
	e.metrics.predictionLookup(false)

	p := OrbitalPrediction{
		Body:       id,
		Start:      start,
		Duration:   duration,
		Step:       step,
		Trajectory: make([]TrajectoryPoint, samples),
	}
	var first OrbitalState
	for s := 0; s < samples; s++ {
		jd := start + float64(s)*step
		st, err := e.resolve(newFrame(jd), k, true)
		if err != nil {
			return OrbitalPrediction{}, err
		}
		if s == 0 {
			first = st
		}
		p.Trajectory[s] = TrajectoryPoint{
			JD:       jd,
			Position: st.Position,
			Velocity: st.Velocity,
			Distance: st.Distance,
			Phase:    wrap2π(st.TrueAnomaly),
		}
	}

	if orbit := e.system.nodes[k].body.Orbit; orbit != nil {
		P := orbit.Period
		p.Period = P
		p.TimeToPeriapsis = P - math.Mod(first.TimeSincePeriapsis, P)
		p.TimeToApoapsis = P - math.Mod(first.TimeSincePeriapsis+P/2, P)
		p.NextPeriapsis = start + p.TimeToPeriapsis
		p.NextApoapsis = start + p.TimeToApoapsis
	}

	e.predictions.put(key, p)
	e.logger.Log("level", "debug", "subsys", "predict", "body", id, "start", start, "duration", duration, "samples", samples)
	return p.clone(), nil
}

// sampleCount returns floor(duration/step)+1, or an error if that exceeds MaxSamples.
// duration and step must be finite, with step > 0.
func (e *Engine) sampleCount(duration, step float64) (int, error) {
	n := math.Floor(duration / step)
	if math.IsNaN(n) || n+1 > float64(e.conf.MaxSamples) {
		return 0, fmt.Errorf("%w: duration=%g step=%g needs %g samples, at most %d allowed", ErrInvalidArgument, duration, step, n+1, e.conf.MaxSamples)
	}
	return int(n) + 1, nil
}

func (p OrbitalPrediction) clone() OrbitalPrediction {
	p.Trajectory = append([]TrajectoryPoint(nil), p.Trajectory...)
	return p
}

func isNotFinite(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
