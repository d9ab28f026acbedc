package orrery

import (
	"math"
)

const (
	eccentricityε = 5e-5
	angleε        = (5e-3 / 360) * (2 * math.Pi) // 0.005 degrees
	momentumε     = 1e-15                        // AU²/day
)

// ElementsFromState returns the orbital elements of a body from its parent-relative
// position (AU) and velocity (AU/day) at the given Julian Day, around a central body of
// centralMass solar masses. The semi-major axis, eccentricity, inclination and longitude
// of the ascending node are derived; the argument of periapsis and the mean anomaly at
// epoch are NOT derived and are left at zero. Use FullElementsFromState for those.
func ElementsFromState(R, V [3]float64, jd, centralMass float64) (OrbitalElements, error) {
	el, _, err := rv2coe(R, V, jd, centralMass)
	return el, err
}

// FullElementsFromState is ElementsFromState which also derives the argument of
// periapsis and the mean anomaly at epoch. For circular orbits the argument of periapsis
// is zero and the anomaly is measured from the ascending node (or from the x axis if
// the orbit is also equatorial). For equatorial orbits the ascending node is zero and
// the argument of periapsis is the longitude of periapsis.
func FullElementsFromState(R, V [3]float64, jd, centralMass float64) (OrbitalElements, error) {
	el, g, err := rv2coe(R, V, jd, centralMass)
	if err != nil {
		return el, err
	}
	e := el.Eccentricity
	circular := e < eccentricityε
	equatorial := el.Inclination*deg2rad < angleε || el.Inclination*deg2rad > math.Pi-angleε

	var ω, ν float64
	switch {
	case circular && equatorial:
		// True longitude.
		ν = math.Atan2(R[1], R[0])
		if g.h[2] < 0 {
			ν = -ν
		}
	case circular:
		// Argument of latitude.
		ν = angleBetween(g.n, R[:])
		if R[2] < 0 {
			ν = twoPi - ν
		}
	case equatorial:
		// Longitude of periapsis.
		ω = math.Atan2(g.eVec[1], g.eVec[0])
		if g.h[2] < 0 {
			ω = -ω
		}
		ν = trueAnomalyFromRV(g, R, V)
	default:
		ω = angleBetween(g.n, g.eVec)
		if g.eVec[2] < 0 {
			ω = twoPi - ω
		}
		ν = trueAnomalyFromRV(g, R, V)
	}
	E := EccentricFromTrue(ν, e)
	el.ArgumentPeriapsis = Rad2deg(ω)
	el.MeanAnomalyEpoch = Rad2deg(MeanAnomaly(E, e))
	return el, nil
}

// rvGeometry holds the intermediate vectors of the RV to COE conversion.
type rvGeometry struct {
	h, n, eVec []float64
	r          float64
}

// rv2coe follows Vallado's RV2COE, page 113.
func rv2coe(R, V [3]float64, jd, centralMass float64) (OrbitalElements, rvGeometry, error) {
	var g rvGeometry
	if centralMass <= 0 || isNotFinite(centralMass) {
		return OrbitalElements{}, g, invalidOrbit("", ReasonCentralMass, centralMass)
	}
	if !finite3(R) || !finite3(V) {
		return OrbitalElements{}, g, invalidOrbit("", ReasonNotFinite, math.NaN())
	}
	μ := GMSun * centralMass
	g.r = norm(R[:])
	if g.r < distanceε {
		return OrbitalElements{}, g, invalidOrbit("", ReasonZeroDistance, g.r)
	}
	v := norm(V[:])
	if v == 0 {
		return OrbitalElements{}, g, invalidOrbit("", ReasonZeroVelocity, v)
	}
	g.h = cross(R[:], V[:])
	hNorm := norm(g.h)
	if hNorm < momentumε {
		// Radial trajectories are not closed orbits.
		return OrbitalElements{}, g, invalidOrbit("", ReasonUnboundedOrbit, hNorm)
	}
	g.n = cross([]float64{0, 0, 1}, g.h)
	ξ := (v*v)/2 - μ/g.r
	if ξ >= 0 {
		return OrbitalElements{}, g, invalidOrbit("", ReasonUnboundedOrbit, ξ)
	}
	a := -μ / (2 * ξ)
	rDotV := dot(R[:], V[:])
	g.eVec = make([]float64, 3)
	for i := 0; i < 3; i++ {
		g.eVec[i] = ((v*v-μ/g.r)*R[i] - rDotV*V[i]) / μ
	}
	e := norm(g.eVec)
	if e >= 1 {
		return OrbitalElements{}, g, invalidOrbit("", ReasonEccentricity, e)
	}
	i := math.Acos(clamp1(g.h[2] / hNorm))
	var Ω float64
	if nNorm := norm(g.n); nNorm > momentumε {
		Ω = math.Acos(clamp1(g.n[0] / nNorm))
		if g.n[1] < 0 {
			Ω = twoPi - Ω
		}
	}
	period := twoPi * math.Sqrt(a*a*a/μ)
	el := OrbitalElements{
		SemiMajorAxis:          a,
		Eccentricity:           e,
		Inclination:            i / deg2rad,
		LongitudeAscendingNode: Rad2deg(Ω),
		Epoch:                  jd,
		Period:                 period,
		MeanMotion:             360 / period,
	}
	return el, g, nil
}

func trueAnomalyFromRV(g rvGeometry, R, V [3]float64) float64 {
	ν := math.Acos(clamp1(dot(g.eVec, R[:]) / (norm(g.eVec) * g.r)))
	if dot(R[:], V[:]) < 0 {
		ν = twoPi - ν
	}
	return ν
}

// angleBetween returns the angle between two vectors, in [0, π].
func angleBetween(a, b []float64) float64 {
	return math.Acos(clamp1(dot(a, b) / (norm(a) * norm(b))))
}

// clamp1 clamps rounding errors which would make math.Acos return NaN.
func clamp1(c float64) float64 {
	if math.Abs(c) > 1 {
		return sign(c)
	}
	return c
}

// SynodicPeriod returns the time between successive alignments of two bodies with the
// provided orbital periods around a common center. Identical periods never realign
// and return +Inf.
func SynodicPeriod(p1, p2 float64) float64 {
	if p1 == p2 {
		return math.Inf(1)
	}
	return 1 / math.Abs(1/p1-1/p2)
}

// HillSphere returns the radius of the Hill sphere of a body of mass m orbiting a
// central body of mass M at the provided separation (circular approximation).
// Both masses must be in the same unit; the radius is in the unit of the separation.
func HillSphere(separation, m, M float64) float64 {
	return separation * math.Cbrt(m/(3*M))
}

// SphereOfInfluence returns the Laplace sphere of influence radius of a body of mass m
// orbiting a central body of mass M at the provided separation.
func SphereOfInfluence(separation, m, M float64) float64 {
	return separation * math.Pow(m/M, 2./5)
}

// Radii2ae returns the semi major axis and the eccentricty from the radii.
func Radii2ae(rA, rP float64) (a, e float64) {
	if rA < rP {
		panic("periapsis cannot be greater than apoapsis")
	}
	a = (rP + rA) / 2
	e = (rA - rP) / (rA + rP)
	return
}
