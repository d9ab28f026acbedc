package orrery

import (
	"fmt"
	"strings"
)

const (
	// AU is one astronomical unit in kilometers.
	AU = 1.49597870700e8
)

// j2000Orbit returns mean elements at J2000 with the mean motion derived from the period.
func j2000Orbit(a, e, i, Ω, ω, M0, period float64) *OrbitalElements {
	return &OrbitalElements{
		SemiMajorAxis:          a,
		Eccentricity:           e,
		Inclination:            i,
		LongitudeAscendingNode: Ω,
		ArgumentPeriapsis:      ω,
		MeanAnomalyEpoch:       M0,
		Epoch:                  J2000,
		Period:                 period,
		MeanMotion:             360 / period,
	}
}

/* Definitions: J2000 mean ecliptic elements (Standish), masses in solar masses. */

// Sun is our closest star.
var Sun = CelestialBody{ID: "Sun", Mass: 1}

// Mercury is fast.
var Mercury = CelestialBody{"Mercury", "Sun", 1.6601e-7, j2000Orbit(0.38709927, 0.20563593, 7.00497902, 48.33076593, 29.12703035, 174.79252722, 87.9691)}

// Venus is poisonous.
var Venus = CelestialBody{"Venus", "Sun", 2.4478e-6, j2000Orbit(0.72333566, 0.00677672, 3.39467605, 76.67984255, 54.92262463, 50.37663232, 224.701)}

// Earth is home.
var Earth = CelestialBody{"Earth", "Sun", 3.0035e-6, j2000Orbit(1.00000261, 0.01671123, 0, 0, 102.93768193, 357.52688973, 365.256363)}

// Moon keeps us company.
var Moon = CelestialBody{"Moon", "Earth", 3.694e-8, j2000Orbit(384400/AU, 0.0549, 5.145, 125.08, 318.15, 135.27, 27.321661)}

// Mars is the vacation place.
var Mars = CelestialBody{"Mars", "Sun", 3.2272e-7, j2000Orbit(1.52371034, 0.09339410, 1.84969142, 49.55953891, 286.5031685, 19.39019754, 686.980)}

// Jupiter is big.
var Jupiter = CelestialBody{"Jupiter", "Sun", 9.5479e-4, j2000Orbit(5.20288700, 0.04838624, 1.30439695, 100.47390909, 274.25457074, 19.66796068, 4332.589)}

// Io is volcanic.
var Io = CelestialBody{"Io", "Jupiter", 4.49e-8, j2000Orbit(421700/AU, 0.0041, 0.05, 43.977, 84.129, 342.021, 1.769137786)}

// Saturn floats and that's really cool.
var Saturn = CelestialBody{"Saturn", "Sun", 2.8589e-4, j2000Orbit(9.53667594, 0.05386179, 2.48599187, 113.66242448, 338.93645383, 317.35536592, 10759.22)}

// Uranus is no joke.
var Uranus = CelestialBody{"Uranus", "Sun", 4.3662e-5, j2000Orbit(19.18916464, 0.04725744, 0.77263783, 74.01692503, 96.93735127, 142.28382821, 30685.4)}

// Neptune is windy.
var Neptune = CelestialBody{"Neptune", "Sun", 5.1514e-5, j2000Orbit(30.06992276, 0.00859048, 1.77004347, 131.78422574, 273.18053653, 259.91520804, 60189.0)}

// SolarSystem returns the built-in bodies, parents first.
func SolarSystem() []CelestialBody {
	return []CelestialBody{Sun, Mercury, Venus, Earth, Moon, Mars, Jupiter, Io, Saturn, Uranus, Neptune}
}

// BodyFromName returns the built-in body from its name.
func BodyFromName(name string) (CelestialBody, error) {
	for _, b := range SolarSystem() {
		if strings.EqualFold(b.ID, name) {
			return b, nil
		}
	}
	return CelestialBody{}, fmt.Errorf("%w: undefined body '%s'", ErrUnknownBody, name)
}
