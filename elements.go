package orrery

import (
	"fmt"
	"math"
)

const (
	// DaysPerYear is the length of the Julian year in days.
	DaysPerYear = 365.25
	// J2000 is the Julian Day of the J2000.0 epoch.
	J2000 = 2451545.0
)

// GMSun is the heliocentric gravitational parameter (4π² AU³/yr²) in AU³/day².
var GMSun = 4 * math.Pi * math.Pi / (DaysPerYear * DaysPerYear)

// OrbitalElements defines a closed orbit around a parent body.
// WARNING: All angles are in degrees, not radians.
type OrbitalElements struct {
	SemiMajorAxis          float64 // a, in AU
	Eccentricity           float64 // e, in [0, 1)
	Inclination            float64 // i
	LongitudeAscendingNode float64 // Ω
	ArgumentPeriapsis      float64 // ω
	MeanAnomalyEpoch       float64 // M0, at Epoch
	Epoch                  float64 // Julian Day
	Period                 float64 // days
	MeanMotion             float64 // degrees per day, ~360/Period
}

// NewOrbitalElements returns the elements with the period and mean motion computed from
// Kepler's third law around a central body of centralMass solar masses.
// WARNING: Angles must be in degrees not radian.
func NewOrbitalElements(a, e, i, Ω, ω, M0, epoch, centralMass float64) OrbitalElements {
	μ := GMSun * centralMass
	n := math.Sqrt(μ / (a * a * a)) // rad/day
	return OrbitalElements{
		SemiMajorAxis:          a,
		Eccentricity:           e,
		Inclination:            i,
		LongitudeAscendingNode: Ω,
		ArgumentPeriapsis:      ω,
		MeanAnomalyEpoch:       M0,
		Epoch:                  epoch,
		Period:                 twoPi / n,
		MeanMotion:             n / deg2rad,
	}
}

// Validate returns an *InvalidOrbitError if these elements do not describe a closed orbit.
func (el OrbitalElements) Validate() error {
	for _, v := range []float64{el.SemiMajorAxis, el.Eccentricity, el.Inclination, el.LongitudeAscendingNode,
		el.ArgumentPeriapsis, el.MeanAnomalyEpoch, el.Epoch, el.Period, el.MeanMotion} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalidOrbit("", ReasonNotFinite, v)
		}
	}
	if el.Eccentricity < 0 || el.Eccentricity >= 1 {
		return invalidOrbit("", ReasonEccentricity, el.Eccentricity)
	}
	if el.SemiMajorAxis <= 0 {
		return invalidOrbit("", ReasonSemiMajorAxis, el.SemiMajorAxis)
	}
	if el.Period <= 0 {
		return invalidOrbit("", ReasonPeriod, el.Period)
	}
	if el.MeanMotion <= 0 {
		return invalidOrbit("", ReasonMeanMotion, el.MeanMotion)
	}
	return nil
}

// SemiParameter returns the semi-latus rectum.
func (el OrbitalElements) SemiParameter() float64 {
	return el.SemiMajorAxis * (1 - el.Eccentricity*el.Eccentricity)
}

// Apoapsis returns the apoapsis radius.
func (el OrbitalElements) Apoapsis() float64 {
	return el.SemiMajorAxis * (1 + el.Eccentricity)
}

// Periapsis returns the periapsis radius.
func (el OrbitalElements) Periapsis() float64 {
	return el.SemiMajorAxis * (1 - el.Eccentricity)
}

// MeanAnomalyAt returns the mean anomaly in radians at the given Julian Day, in [0, 2π).
func (el OrbitalElements) MeanAnomalyAt(jd float64) float64 {
	return wrap2π(el.MeanAnomalyEpoch*deg2rad + el.MeanMotion*deg2rad*(jd-el.Epoch))
}

// String implements the stringer interface (hence the value receiver)
func (el OrbitalElements) String() string {
	return fmt.Sprintf("a=%.6f e=%.6f i=%.3f Ω=%.3f ω=%.3f M0=%.3f epoch=%.3f P=%.3fd",
		el.SemiMajorAxis, el.Eccentricity, el.Inclination, el.LongitudeAscendingNode,
		el.ArgumentPeriapsis, el.MeanAnomalyEpoch, el.Epoch, el.Period)
}

// CelestialBody defines a body of the simulated system.
type CelestialBody struct {
	ID     string
	Parent string           // Empty for a root body
	Mass   float64          // In solar masses, optional
	Orbit  *OrbitalElements // Nil for a body fixed at its parent's origin (e.g. the Sun)
}

// String implements the Stringer interface.
func (c CelestialBody) String() string {
	if c.Parent == "" {
		return c.ID + " body"
	}
	return c.ID + " body (around " + c.Parent + ")"
}

// gm returns the gravitational parameter of this body as a central mass.
// Bodies without a known mass are treated as one solar mass.
func (c CelestialBody) gm() float64 {
	if c.Mass > 0 {
		return GMSun * c.Mass
	}
	return GMSun
}
