package orrery

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func assertPanic(t *testing.T, f func()) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("code did not panic")
		}
	}()
	f()
}

func vectorsEqual(a, b []float64, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := len(a) - 1; i >= 0; i-- {
		if !scalar.EqualWithinAbs(a[i], b[i], tol) {
			return false
		}
	}
	return true
}

// anglesEqual returns whether two angles in radians are equal modulo 2π.
func anglesEqual(a, b, tol float64) (bool, error) {
	d := math.Abs(wrap2π(a) - wrap2π(b))
	if d > math.Pi {
		d = twoPi - d
	}
	if d > tol {
		return false, fmt.Errorf("|%f - %f| = %e > %e", a, b, d, tol)
	}
	return true, nil
}

func assertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("expected error %q, got %v", target, err)
	}
}

// circularOrbit returns heliocentric circular elements of radius a (AU), with the period
// from Kepler's third law.
func circularOrbit(a, i, M0 float64) *OrbitalElements {
	el := NewOrbitalElements(a, 0, i, 0, 0, M0, J2000, 1)
	return &el
}
