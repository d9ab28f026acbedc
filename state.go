package orrery

import (
	"fmt"
	"math"
)

// distanceε is the smallest distance to the focus which is not considered degenerate, in AU.
const distanceε = 1e-12

// OrbitalState is the state of a body at a given time. It is computed once per
// (body, time) and never mutated afterwards.
type OrbitalState struct {
	Body               string
	JD                 float64    // Julian Day of this state
	Position           [3]float64 // World frame, AU
	Velocity           [3]float64 // World frame, AU/day
	Distance           float64    // Distance from the parent, AU
	TrueAnomaly        float64    // ν, radians
	EccentricAnomaly   float64    // E, radians
	MeanAnomaly        float64    // M, radians
	TimeSincePeriapsis float64    // days
	Converged          bool       // false when Kepler's equation fell back to bisection
}

// Speed returns the norm of the velocity vector.
func (s OrbitalState) Speed() float64 {
	return norm(s.Velocity[:])
}

// String implements the stringer interface (hence the value receiver)
func (s OrbitalState) String() string {
	return fmt.Sprintf("%s@%.6f R=%v V=%v r=%.6f ν=%.3f", s.Body, s.JD, s.Position, s.Velocity, s.Distance, Rad2deg(s.TrueAnomaly))
}

// KeplerState returns the state of a body following the provided elements at the given
// Julian Day, relative to its parent (i.e. the parent sits at the origin).
// μ is the gravitational parameter of the parent in AU³/day².
func KeplerState(el OrbitalElements, jd, μ float64) (OrbitalState, error) {
	if err := el.Validate(); err != nil {
		return OrbitalState{}, err
	}
	if μ <= 0 || math.IsNaN(μ) || math.IsInf(μ, 0) {
		return OrbitalState{}, invalidOrbit("", ReasonCentralMass, μ)
	}
	a, e := el.SemiMajorAxis, el.Eccentricity
	M := el.MeanAnomalyAt(jd)
	E, converged := EccentricAnomaly(M, e)
	ν := TrueAnomaly(E, e)
	r := a * (1 - e*math.Cos(E))
	if r < distanceε {
		return OrbitalState{}, invalidOrbit("", ReasonZeroDistance, r)
	}

	sinν, cosν := math.Sincos(ν)
	R := []float64{r * cosν, r * sinν, 0}
	// Vis-viva gives the speed, the perifocal velocity gives its direction.
	v := math.Sqrt(μ * (2/r - 1/a))
	V := unit([]float64{-sinν, e + cosν, 0})
	for k := range V {
		V[k] *= v
	}
	i := el.Inclination * deg2rad
	Ω := el.LongitudeAscendingNode * deg2rad
	ω := el.ArgumentPeriapsis * deg2rad

	st := OrbitalState{
		JD:                 jd,
		Position:           vec3(PQW2ECI(i, ω, Ω, R)),
		Velocity:           vec3(PQW2ECI(i, ω, Ω, V)),
		Distance:           r,
		TrueAnomaly:        ν,
		EccentricAnomaly:   E,
		MeanAnomaly:        M,
		TimeSincePeriapsis: MeanAnomaly(E, e) / twoPi * el.Period,
		Converged:          converged,
	}
	if !finite3(st.Position) || !finite3(st.Velocity) {
		return OrbitalState{}, invalidOrbit("", ReasonNotFinite, r)
	}
	return st, nil
}
