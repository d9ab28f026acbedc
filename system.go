package orrery

import (
	"errors"
	"fmt"
)

const noParent = -1

// node is a body of the arena with its resolved parent index.
type node struct {
	body   CelestialBody
	parent int
	chain  []int   // ancestors root first, ending with this node
	μ      float64 // gravitational parameter of the parent, AU³/day²
}

// System is an immutable set of bodies whose parent links have been resolved once.
// Bodies are stored in an arena and addressed by index; parents are always evaluated
// before their children.
type System struct {
	nodes    []node
	index    map[string]int
	order    []int    // topological order, parents first
	dangling []string // bodies whose parent id did not resolve
}

// NewSystem validates the provided bodies and resolves their hierarchy.
// Cycles, including a body being its own parent, return ErrCyclicHierarchy.
// A parent identifier which is not in the set is ignored (the body is treated as a
// root) unless strictParents is set, in which case ErrMissingParent is returned.
func NewSystem(bodies []CelestialBody, strictParents bool) (*System, error) {
	s := &System{
		nodes: make([]node, len(bodies)),
		index: make(map[string]int, len(bodies)),
	}
	for k, b := range bodies {
		if _, dup := s.index[b.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateBody, b.ID)
		}
		if b.Orbit != nil {
			if err := b.Orbit.Validate(); err != nil {
				var oErr *InvalidOrbitError
				if errors.As(err, &oErr) {
					oErr.Body = b.ID
				}
				return nil, err
			}
			orbit := *b.Orbit
			b.Orbit = &orbit
		}
		s.index[b.ID] = k
		s.nodes[k] = node{body: b, parent: noParent, μ: GMSun}
	}
	for k := range s.nodes {
		parentID := s.nodes[k].body.Parent
		if parentID == "" {
			continue
		}
		p, found := s.index[parentID]
		if !found {
			if strictParents {
				return nil, fmt.Errorf("%w: %q (parent of %q)", ErrMissingParent, parentID, s.nodes[k].body.ID)
			}
			s.dangling = append(s.dangling, s.nodes[k].body.ID)
			continue
		}
		s.nodes[k].parent = p
		s.nodes[k].μ = s.nodes[p].body.gm()
	}
	if err := s.sort(); err != nil {
		return nil, err
	}
	return s, nil
}

// sort computes the evaluation order and ancestor chains, detecting cycles.
func (s *System) sort() error {
	const (
		unvisited = iota
		visiting
		done
	)
	color := make([]uint8, len(s.nodes))
	s.order = make([]int, 0, len(s.nodes))
	for start := range s.nodes {
		if color[start] == done {
			continue
		}
		// Walk up until a resolved ancestor or a root, then unwind.
		var path []int
		for k := start; k != noParent && color[k] != done; k = s.nodes[k].parent {
			if color[k] == visiting {
				return fmt.Errorf("%w: through %q", ErrCyclicHierarchy, s.nodes[k].body.ID)
			}
			color[k] = visiting
			path = append(path, k)
		}
		for p := len(path) - 1; p >= 0; p-- {
			k := path[p]
			var chain []int
			if parent := s.nodes[k].parent; parent != noParent {
				chain = append(chain, s.nodes[parent].chain...)
			}
			s.nodes[k].chain = append(chain, k)
			color[k] = done
			s.order = append(s.order, k)
		}
	}
	return nil
}

// Len returns the number of bodies.
func (s *System) Len() int {
	return len(s.nodes)
}

// Body returns the body with the provided identifier.
func (s *System) Body(id string) (CelestialBody, bool) {
	k, ok := s.index[id]
	if !ok {
		return CelestialBody{}, false
	}
	return s.nodes[k].body, true
}

// Order returns the body identifiers in evaluation order (parents before children).
func (s *System) Order() []string {
	ids := make([]string, len(s.order))
	for k, idx := range s.order {
		ids[k] = s.nodes[idx].body.ID
	}
	return ids
}

// Ancestors returns the identifiers of the parents of this body, root first.
func (s *System) Ancestors(id string) ([]string, error) {
	k, ok := s.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBody, id)
	}
	chain := s.nodes[k].chain
	ids := make([]string, 0, len(chain)-1)
	for _, idx := range chain[:len(chain)-1] {
		ids = append(ids, s.nodes[idx].body.ID)
	}
	return ids, nil
}

// Dangling returns the bodies whose parent was not found and which are treated as roots.
func (s *System) Dangling() []string {
	return append([]string(nil), s.dangling...)
}

func (s *System) lookup(id string) (int, error) {
	k, ok := s.index[id]
	if !ok {
		return noParent, fmt.Errorf("%w: %q", ErrUnknownBody, id)
	}
	return k, nil
}
