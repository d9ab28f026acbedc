package orrery

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// CacheCollector bundles the Prometheus metrics of an Engine's caches and solver.
type CacheCollector struct {
	StateRequests      *prometheus.CounterVec
	StateEvictions     prometheus.Counter
	PredictionRequests *prometheus.CounterVec
	KeplerFallbacks    prometheus.Counter
}

// NewCacheCollector registers the engine metrics against the provided registerer,
// defaulting to the global Prometheus registry when nil. Registering twice against the
// same registerer returns the already registered collectors.
func NewCacheCollector(reg prometheus.Registerer) (*CacheCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	stateRequests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orrery_state_cache_requests_total",
		Help: "Total number of state cache lookups, labeled by result (hit or miss).",
	}, []string{"result"}), "orrery_state_cache_requests_total")
	if err != nil {
		return nil, err
	}
	evictions, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orrery_state_cache_evictions_total",
		Help: "Total number of states evicted from the state cache.",
	}), "orrery_state_cache_evictions_total")
	if err != nil {
		return nil, err
	}
	predRequests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orrery_prediction_cache_requests_total",
		Help: "Total number of trajectory prediction cache lookups, labeled by result (hit or miss).",
	}, []string{"result"}), "orrery_prediction_cache_requests_total")
	if err != nil {
		return nil, err
	}
	fallbacks, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orrery_kepler_fallback_total",
		Help: "Total number of Kepler equation solves which fell back to bisection.",
	}), "orrery_kepler_fallback_total")
	if err != nil {
		return nil, err
	}

	return &CacheCollector{
		StateRequests:      stateRequests,
		StateEvictions:     evictions,
		PredictionRequests: predRequests,
		KeplerFallbacks:    fallbacks,
	}, nil
}

func (c *CacheCollector) stateLookup(hit bool) {
	if c == nil {
		return
	}
	c.StateRequests.WithLabelValues(hitLabel(hit)).Inc()
}

func (c *CacheCollector) stateEvicted() {
	if c == nil {
		return
	}
	c.StateEvictions.Inc()
}

func (c *CacheCollector) predictionLookup(hit bool) {
	if c == nil {
		return
	}
	c.PredictionRequests.WithLabelValues(hitLabel(hit)).Inc()
}

func (c *CacheCollector) keplerFallback() {
	if c == nil {
		return
	}
	c.KeplerFallbacks.Inc()
}

func hitLabel(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, c prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return c, nil
}
