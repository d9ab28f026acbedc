package orrery

import "math"

const (
	keplerMaxIterations = 100
	keplerΔEε           = 1e-12 // Newton step tolerance
	keplerFε            = 1e-15 // residual tolerance
	bisectionFε         = 1e-12
)

// EccentricAnomaly solves Kepler's equation E - e*sin(E) = M for the eccentric anomaly.
// M is in radians (any real value) and e must be in [0, 1).
// Newton-Raphson is used first, starting from E0 = M + e*sin(M). If it fails to converge
// within the iteration cap, a bisection on [0, 2π] of the wrapped M is shifted back by the
// same number of turns and converged is false: the result is then of degraded precision,
// and callers should log it as a warning.
// This function is pure and safe for concurrent use.
func EccentricAnomaly(M, e float64) (E float64, converged bool) {
	E = M + e*math.Sin(M)
	for iter := 0; iter < keplerMaxIterations; iter++ {
		f := E - e*math.Sin(E) - M
		if math.Abs(f) < keplerFε {
			return E, true
		}
		ΔE := f / (1 - e*math.Cos(E))
		E -= ΔE
		if math.Abs(ΔE) < keplerΔEε {
			return E, true
		}
	}
	Mw := wrap2π(M)
	return keplerBisection(Mw, e) + (M - Mw), false
}

// keplerBisection halves [0, 2π] on the sign of f(E) = E - e*sin(E) - M.
// M must already be wrapped into [0, 2π).
func keplerBisection(M, e float64) float64 {
	lo, hi := 0.0, twoPi
	mid := (lo + hi) / 2
	for iter := 0; iter < keplerMaxIterations; iter++ {
		mid = (lo + hi) / 2
		f := mid - e*math.Sin(mid) - M
		if math.Abs(f) < bisectionFε {
			break
		}
		// f is monotonically increasing in E for e < 1.
		if f > 0 {
			hi = mid
		} else {
			lo = mid
		}
	}
	return mid
}

// TrueAnomaly returns the true anomaly ν from the eccentric anomaly E, in (-π, π].
func TrueAnomaly(E, e float64) float64 {
	sE2, cE2 := math.Sincos(E / 2)
	return 2 * math.Atan2(math.Sqrt(1+e)*sE2, math.Sqrt(1-e)*cE2)
}

// MeanAnomaly returns the mean anomaly from the eccentric anomaly (Kepler's equation).
func MeanAnomaly(E, e float64) float64 {
	return E - e*math.Sin(E)
}

// EccentricFromTrue returns the eccentric anomaly for a true anomaly ν.
func EccentricFromTrue(ν, e float64) float64 {
	sν, cν := math.Sincos(ν)
	return math.Atan2(math.Sqrt(1-e*e)*sν, e+cν)
}
