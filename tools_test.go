package orrery

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestSynodicPeriod(t *testing.T) {
	// Earth and Mars realign every ~780 days.
	if s := SynodicPeriod(Earth.Orbit.Period, Mars.Orbit.Period); !scalar.EqualWithinAbs(s, 779.9, 0.1) {
		t.Fatalf("Earth-Mars synodic period %f", s)
	}
	if s := SynodicPeriod(Mars.Orbit.Period, Earth.Orbit.Period); !scalar.EqualWithinAbs(s, 779.9, 0.1) {
		t.Fatal("the synodic period must be symmetric")
	}
	if s := SynodicPeriod(1, 2); s != 2 {
		t.Fatalf("SynodicPeriod(1, 2)=%f", s)
	}
	if s := SynodicPeriod(100, 100); !math.IsInf(s, 1) {
		t.Fatalf("identical periods: %f", s)
	}
}

func TestSpheres(t *testing.T) {
	if r := HillSphere(1, Earth.Mass, Sun.Mass); !scalar.EqualWithinAbs(r, 0.0100039, 1e-7) {
		t.Fatalf("Earth Hill sphere %f AU", r)
	}
	// The Earth's sphere of influence is about 924,000 km.
	if r := SphereOfInfluence(1, Earth.Mass, Sun.Mass) * AU; !scalar.EqualWithinAbs(r, 9.24e5, 2e3) {
		t.Fatalf("Earth sphere of influence %f km", r)
	}
}

func TestRadii2ae(t *testing.T) {
	a, e := Radii2ae(1.5, 0.5)
	if a != 1 || e != 0.5 {
		t.Fatalf("a=%f e=%f", a, e)
	}
	assertPanic(t, func() {
		Radii2ae(0.5, 1.5)
	})
}

func TestElementsFromStateRoundTrip(t *testing.T) {
	for _, el := range []OrbitalElements{
		NewOrbitalElements(1.3, 0.2, 15, 40, 60, 30, J2000, 1),
		NewOrbitalElements(5.2, 0.048, 1.3, 100.5, 274.3, 19.7, J2000, 1),
		NewOrbitalElements(0.8, 0.6, 120, 300, 10, 200, J2000, 1),
	} {
		jd := J2000 + 50
		st, err := KeplerState(el, jd, GMSun)
		if err != nil {
			t.Fatal(err)
		}
		got, err := ElementsFromState(st.Position, st.Velocity, jd, 1)
		if err != nil {
			t.Fatal(err)
		}
		if !scalar.EqualWithinAbs(got.SemiMajorAxis, el.SemiMajorAxis, 1e-9) ||
			!scalar.EqualWithinAbs(got.Eccentricity, el.Eccentricity, 1e-9) ||
			!scalar.EqualWithinAbs(got.Inclination, el.Inclination, 1e-7) ||
			!scalar.EqualWithinAbs(got.LongitudeAscendingNode, el.LongitudeAscendingNode, 1e-7) {
			t.Fatalf("elements differ:\n%s\n%s", got, el)
		}
		if got.ArgumentPeriapsis != 0 || got.MeanAnomalyEpoch != 0 {
			t.Fatalf("ω and M0 must be left at zero: %s", got)
		}
		if !scalar.EqualWithinAbs(got.Period, el.Period, 1e-6) || got.Epoch != jd {
			t.Fatalf("period %f != %f", got.Period, el.Period)
		}

		full, err := FullElementsFromState(st.Position, st.Velocity, jd, 1)
		if err != nil {
			t.Fatal(err)
		}
		if ok, err := anglesEqual(full.ArgumentPeriapsis*deg2rad, el.ArgumentPeriapsis*deg2rad, 1e-8); !ok {
			t.Fatalf("ω: %s", err)
		}
		if ok, err := anglesEqual(full.MeanAnomalyEpoch*deg2rad, st.MeanAnomaly, 1e-8); !ok {
			t.Fatalf("M0: %s", err)
		}
		// The recovered elements propagate to the same state.
		back, err := KeplerState(full, jd+100, GMSun)
		if err != nil {
			t.Fatal(err)
		}
		exp, _ := KeplerState(el, jd+100, GMSun)
		if !vectorsEqual(back.Position[:], exp.Position[:], 1e-7) {
			t.Fatalf("propagated positions differ: %v %v", back.Position, exp.Position)
		}
	}
}

func TestFullElementsFromStateSpecialCases(t *testing.T) {
	// Circular equatorial: the anomaly is the true longitude.
	circ := NewOrbitalElements(1, 0, 0, 0, 0, 75, J2000, 1)
	st, _ := KeplerState(circ, J2000, GMSun)
	el, err := FullElementsFromState(st.Position, st.Velocity, J2000, 1)
	if err != nil {
		t.Fatal(err)
	}
	if el.ArgumentPeriapsis != 0 || el.LongitudeAscendingNode != 0 || !scalar.EqualWithinAbs(el.MeanAnomalyEpoch, 75, 1e-6) {
		t.Fatalf("circular equatorial: %s", el)
	}
	// Circular inclined: the anomaly is the argument of latitude.
	incl := NewOrbitalElements(1, 0, 30, 50, 0, 120, J2000, 1)
	st, _ = KeplerState(incl, J2000, GMSun)
	if el, err = FullElementsFromState(st.Position, st.Velocity, J2000, 1); err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbs(el.LongitudeAscendingNode, 50, 1e-6) || !scalar.EqualWithinAbs(el.MeanAnomalyEpoch, 120, 1e-6) {
		t.Fatalf("circular inclined: %s", el)
	}
	// Elliptical equatorial: ω is the longitude of periapsis.
	eq := NewOrbitalElements(2, 0.3, 0, 0, 70, 10, J2000, 1)
	st, _ = KeplerState(eq, J2000, GMSun)
	if el, err = FullElementsFromState(st.Position, st.Velocity, J2000, 1); err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbs(el.ArgumentPeriapsis, 70, 1e-6) || !scalar.EqualWithinAbs(el.MeanAnomalyEpoch, 10, 1e-6) {
		t.Fatalf("elliptical equatorial: %s", el)
	}
}

func TestElementsFromStateVallado(t *testing.T) {
	// Vallado, 4th edition, example 2-5, converted to AU and AU/day around the Earth.
	μEarth := 398600.4418 * 86400 * 86400 / (AU * AU * AU)
	R := [3]float64{6524.834 / AU, 6862.875 / AU, 6448.296 / AU}
	V := [3]float64{4.901327 * 86400 / AU, 5.533756 * 86400 / AU, -1.976341 * 86400 / AU}
	el, err := FullElementsFromState(R, V, J2000, μEarth/GMSun)
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbs(el.SemiMajorAxis*AU, 36127.343, 1e-2) {
		t.Fatalf("a=%f km", el.SemiMajorAxis*AU)
	}
	if !scalar.EqualWithinAbs(el.Eccentricity, 0.832853, 1e-6) {
		t.Fatalf("e=%f", el.Eccentricity)
	}
	for _, angle := range []struct {
		name     string
		got, exp float64
	}{
		{"i", el.Inclination, 87.869126},
		{"Ω", el.LongitudeAscendingNode, 227.898260},
		{"ω", el.ArgumentPeriapsis, 53.384931},
	} {
		if !scalar.EqualWithinAbs(angle.got, angle.exp, 1e-5) {
			t.Fatalf("%s=%f, expected %f", angle.name, angle.got, angle.exp)
		}
	}
	E, _ := EccentricAnomaly(el.MeanAnomalyEpoch*deg2rad, el.Eccentricity)
	if ν := Rad2deg(TrueAnomaly(E, el.Eccentricity)); !scalar.EqualWithinAbs(ν, 92.335157, 1e-5) {
		t.Fatalf("ν=%f", ν)
	}
}

func TestElementsFromStateErrors(t *testing.T) {
	R := [3]float64{1, 0, 0}
	vEscape := math.Sqrt(2 * GMSun)
	for name, tt := range map[string]struct {
		R, V   [3]float64
		mass   float64
		reason InvalidOrbitReason
	}{
		"escape":     {R, [3]float64{0, 1.01 * vEscape, 0}, 1, ReasonUnboundedOrbit},
		"radial":     {R, [3]float64{0.01, 0, 0}, 1, ReasonUnboundedOrbit},
		"at focus":   {[3]float64{}, [3]float64{0, 0.01, 0}, 1, ReasonZeroDistance},
		"at rest":    {R, [3]float64{}, 1, ReasonZeroVelocity},
		"no mass":    {R, [3]float64{0, 0.01, 0}, 0, ReasonCentralMass},
		"not finite": {R, [3]float64{0, math.NaN(), 0}, 1, ReasonNotFinite},
	} {
		_, err := FullElementsFromState(tt.R, tt.V, J2000, tt.mass)
		var oErr *InvalidOrbitError
		if !errors.As(err, &oErr) || !errors.Is(err, ErrInvalidOrbit) {
			t.Fatalf("%s: expected an *InvalidOrbitError, got %v", name, err)
		}
		if oErr.Reason != tt.reason {
			t.Fatalf("%s: reason %s, expected %s", name, oErr.Reason, tt.reason)
		}
	}
}
