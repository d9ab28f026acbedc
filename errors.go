package orrery

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOrbit is matched by every *InvalidOrbitError.
	ErrInvalidOrbit = errors.New("invalid orbit")
	// ErrUnknownBody is returned when a body identifier is not part of the system.
	ErrUnknownBody = errors.New("unknown body")
	// ErrCyclicHierarchy is returned when the parent links of a body set form a cycle.
	ErrCyclicHierarchy = errors.New("cyclic body hierarchy")
	// ErrMissingParent is returned in strict mode when a parent identifier does not resolve.
	ErrMissingParent = errors.New("missing parent body")
	// ErrDuplicateBody is returned when two bodies share an identifier.
	ErrDuplicateBody = errors.New("duplicate body")
	// ErrInvalidArgument is returned for unusable time windows and step sizes.
	ErrInvalidArgument = errors.New("invalid argument")
)

// InvalidOrbitReason defines why a set of elements or a state cannot describe a closed orbit.
type InvalidOrbitReason string

const (
	ReasonEccentricity   InvalidOrbitReason = "eccentricity outside [0, 1)"
	ReasonSemiMajorAxis  InvalidOrbitReason = "semi-major axis not positive"
	ReasonPeriod         InvalidOrbitReason = "orbital period not positive"
	ReasonMeanMotion     InvalidOrbitReason = "mean motion not positive"
	ReasonNotFinite      InvalidOrbitReason = "non-finite value"
	ReasonZeroDistance   InvalidOrbitReason = "distance to focus is zero"
	ReasonCentralMass    InvalidOrbitReason = "central mass not positive"
	ReasonZeroVelocity   InvalidOrbitReason = "velocity is zero"
	ReasonUnboundedOrbit InvalidOrbitReason = "orbit is not closed"
)

// InvalidOrbitError is returned instead of propagating NaN or infinities.
type InvalidOrbitError struct {
	Body   string             // Body identifier, empty when not known
	Reason InvalidOrbitReason // The specific check which failed
	Value  float64            // The offending value
}

// Error returns the error message for InvalidOrbitError.
func (e *InvalidOrbitError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("invalid orbit: %s (value: %g)", e.Reason, e.Value)
	}
	return fmt.Sprintf("invalid orbit for %s: %s (value: %g)", e.Body, e.Reason, e.Value)
}

// Is allows errors.Is(err, ErrInvalidOrbit).
func (e *InvalidOrbitError) Is(target error) bool {
	return target == ErrInvalidOrbit
}

func invalidOrbit(body string, reason InvalidOrbitReason, value float64) error {
	return &InvalidOrbitError{Body: body, Reason: reason, Value: value}
}
