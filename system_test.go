package orrery

import (
	"errors"
	"testing"
)

func indexOf(ids []string, id string) int {
	for k, v := range ids {
		if v == id {
			return k
		}
	}
	return -1
}

func TestSystemOrder(t *testing.T) {
	// Children listed before their parents.
	bodies := []CelestialBody{Moon, Io, Earth, Jupiter, Sun}
	sys, err := NewSystem(bodies, true)
	if err != nil {
		t.Fatal(err)
	}
	if sys.Len() != len(bodies) {
		t.Fatalf("expected %d bodies, got %d", len(bodies), sys.Len())
	}
	order := sys.Order()
	for _, b := range bodies {
		if b.Parent == "" {
			continue
		}
		if indexOf(order, b.Parent) > indexOf(order, b.ID) {
			t.Fatalf("%s evaluated before its parent %s: %v", b.ID, b.Parent, order)
		}
	}
	ancestors, err := sys.Ancestors("Moon")
	if err != nil {
		t.Fatal(err)
	}
	if len(ancestors) != 2 || ancestors[0] != "Sun" || ancestors[1] != "Earth" {
		t.Fatalf("unexpected Moon ancestors %v", ancestors)
	}
	if _, err := sys.Ancestors("Vulcan"); !errors.Is(err, ErrUnknownBody) {
		t.Fatalf("expected ErrUnknownBody, got %v", err)
	}
}

func TestSystemCycles(t *testing.T) {
	orbit := circularOrbit(1, 0, 0)
	self := []CelestialBody{{ID: "A", Parent: "A", Orbit: orbit}}
	if _, err := NewSystem(self, false); !errors.Is(err, ErrCyclicHierarchy) {
		t.Fatalf("self parent: expected ErrCyclicHierarchy, got %v", err)
	}
	loop := []CelestialBody{
		Sun,
		{ID: "A", Parent: "C", Orbit: orbit},
		{ID: "B", Parent: "A", Orbit: orbit},
		{ID: "C", Parent: "B", Orbit: orbit},
	}
	if _, err := NewSystem(loop, false); !errors.Is(err, ErrCyclicHierarchy) {
		t.Fatalf("loop: expected ErrCyclicHierarchy, got %v", err)
	}
}

func TestSystemDanglingParent(t *testing.T) {
	bodies := []CelestialBody{{ID: "Lost", Parent: "Nowhere", Orbit: circularOrbit(1, 0, 0)}}
	sys, err := NewSystem(bodies, false)
	if err != nil {
		t.Fatalf("lenient mode should accept a dangling parent: %s", err)
	}
	if d := sys.Dangling(); len(d) != 1 || d[0] != "Lost" {
		t.Fatalf("unexpected dangling bodies %v", d)
	}
	if ancestors, _ := sys.Ancestors("Lost"); len(ancestors) != 0 {
		t.Fatalf("a body with a dangling parent is a root, got ancestors %v", ancestors)
	}
	if _, err := NewSystem(bodies, true); !errors.Is(err, ErrMissingParent) {
		t.Fatalf("strict mode: expected ErrMissingParent, got %v", err)
	}
}

func TestSystemValidation(t *testing.T) {
	if _, err := NewSystem([]CelestialBody{Sun, Sun}, false); !errors.Is(err, ErrDuplicateBody) {
		t.Fatalf("expected ErrDuplicateBody, got %v", err)
	}
	bad := *circularOrbit(1, 0, 0)
	bad.Eccentricity = 1.2
	_, err := NewSystem([]CelestialBody{Sun, {ID: "Comet", Parent: "Sun", Orbit: &bad}}, false)
	var oErr *InvalidOrbitError
	if !errors.As(err, &oErr) {
		t.Fatalf("expected *InvalidOrbitError, got %v", err)
	}
	if oErr.Body != "Comet" || oErr.Reason != ReasonEccentricity {
		t.Fatalf("unexpected error details: %+v", oErr)
	}
}

func TestSystemCopiesOrbits(t *testing.T) {
	orbit := circularOrbit(1, 0, 0)
	sys, err := NewSystem([]CelestialBody{{ID: "A", Orbit: orbit}}, false)
	if err != nil {
		t.Fatal(err)
	}
	orbit.SemiMajorAxis = 42
	if b, _ := sys.Body("A"); b.Orbit.SemiMajorAxis != 1 {
		t.Fatal("system must not share the caller's elements")
	}
}
