package orrery

import (
	"errors"
	"sync"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/soniakeys/meeus/v3/julian"
)

// Engine computes the world frame states of a System and memoizes them.
// An Engine is owned by its caller (e.g. one per simulation session); all its methods
// are safe for concurrent use.
type Engine struct {
	mu          sync.Mutex
	conf        Config
	logger      kitlog.Logger
	metrics     *CacheCollector
	system      *System
	states      *fifoStateCache
	predictions *fifoPredictionCache
	stats       CacheStats
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig sets the engine configuration.
func WithConfig(conf Config) Option {
	return func(e *Engine) {
		e.conf = conf
	}
}

// WithLogger sets the logger. Engines do not log anything by default.
func WithLogger(logger kitlog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics mirrors the engine counters into the provided Prometheus collectors.
func WithMetrics(c *CacheCollector) Option {
	return func(e *Engine) {
		e.metrics = c
	}
}

// NewEngine returns an engine for the provided bodies.
func NewEngine(bodies []CelestialBody, opts ...Option) (*Engine, error) {
	e := &Engine{conf: DefaultConfig(), logger: kitlog.NewNopLogger()}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.conf.Validate(); err != nil {
		return nil, err
	}
	if err := e.SetBodies(bodies); err != nil {
		return nil, err
	}
	return e, nil
}

// SetBodies replaces the set of bodies and clears all caches.
// On error, the engine keeps its previous bodies.
func (e *Engine) SetBodies(bodies []CelestialBody) error {
	sys, err := NewSystem(bodies, e.conf.StrictParents)
	if err != nil {
		e.logger.Log("level", "error", "subsys", "hierarchy", "err", err)
		return err
	}
	for _, id := range sys.Dangling() {
		body, _ := sys.Body(id)
		e.logger.Log("level", "warning", "subsys", "hierarchy", "body", id, "parent", body.Parent, "message", "parent not found, treating as root")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.system = sys
	e.resetLocked()
	e.logger.Log("level", "info", "subsys", "hierarchy", "bodies", sys.Len())
	return nil
}

// System returns the current set of bodies.
func (e *Engine) System() *System {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.system
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.conf
}

// ComputeState returns the world frame state of the body at the provided Julian Day.
// The state is the body's own Keplerian state added to the state of its parent.
func (e *Engine) ComputeState(id string, jd float64) (OrbitalState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	k, err := e.system.lookup(id)
	if err != nil {
		return OrbitalState{}, err
	}
	return e.resolve(newFrame(jd), k, true)
}

// StateAt is ComputeState for a time.Time.
func (e *Engine) StateAt(id string, dt time.Time) (OrbitalState, error) {
	return e.ComputeState(id, julian.TimeToJD(dt.UTC()))
}

// CacheStats returns the cache diagnostics counters.
func (e *Engine) CacheStats() CacheStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	stats := e.stats
	stats.States = e.states.len()
	stats.Predictions = e.predictions.len()
	return stats
}

// ResetCaches empties the caches and zeroes the counters.
func (e *Engine) ResetCaches() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetLocked()
}

func (e *Engine) resetLocked() {
	e.states = newFIFOStateCache(e.conf.StateCacheSize, e.conf.TimeTolerance)
	e.predictions = newFIFOPredictionCache(e.conf.PredictionCacheSize)
	e.stats = CacheStats{}
}

// frame is the memo of one top-level request: the absolute states already resolved
// at a single time, keyed by body index.
type frame struct {
	jd   float64
	memo map[int]OrbitalState
}

func newFrame(jd float64) *frame {
	return &frame{jd: jd, memo: make(map[int]OrbitalState, 4)}
}

// resolve returns the absolute state of body k, evaluating its ancestors root first.
// Must be called with the lock held.
func (e *Engine) resolve(f *frame, k int, useCache bool) (OrbitalState, error) {
	if st, ok := f.memo[k]; ok {
		return st, nil
	}
	if useCache {
		if st, ok := e.cached(k, f.jd); ok {
			f.memo[k] = st
			return st, nil
		}
	}
	var parent OrbitalState
	for _, idx := range e.system.nodes[k].chain {
		if st, ok := f.memo[idx]; ok {
			parent = st
			continue
		}
		if idx != k && useCache {
			if st, ok := e.cached(idx, f.jd); ok {
				f.memo[idx] = st
				parent = st
				continue
			}
		}
		st, err := e.own(idx, f.jd)
		if err != nil {
			return OrbitalState{}, err
		}
		if e.system.nodes[idx].parent != noParent {
			st.Position = add3(st.Position, parent.Position)
			st.Velocity = add3(st.Velocity, parent.Velocity)
		}
		if useCache && e.states.put(idx, st) {
			e.stats.Evictions++
			e.metrics.stateEvicted()
		}
		f.memo[idx] = st
		parent = st
	}
	return parent, nil
}

// cached looks up the state cache and updates the counters.
func (e *Engine) cached(k int, jd float64) (OrbitalState, bool) {
	st, ok := e.states.get(k, jd)
	if ok {
		e.stats.Hits++
	} else {
		e.stats.Misses++
	}
	e.metrics.stateLookup(ok)
	return st, ok
}

// own returns the parent-relative state of body k.
func (e *Engine) own(k int, jd float64) (OrbitalState, error) {
	n := e.system.nodes[k]
	if n.body.Orbit == nil {
		return OrbitalState{Body: n.body.ID, JD: jd, Converged: true}, nil
	}
	st, err := KeplerState(*n.body.Orbit, jd, n.μ)
	if err != nil {
		var oErr *InvalidOrbitError
		if errors.As(err, &oErr) {
			oErr.Body = n.body.ID
		}
		return OrbitalState{}, err
	}
	st.Body = n.body.ID
	if !st.Converged {
		e.stats.KeplerFallbacks++
		e.metrics.keplerFallback()
		e.logger.Log("level", "warning", "subsys", "kepler", "body", n.body.ID, "jd", jd,
			"M", st.MeanAnomaly, "e", n.body.Orbit.Eccentricity, "message", "Newton-Raphson did not converge, used bisection")
	}
	return st, nil
}
