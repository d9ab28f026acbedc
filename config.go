package orrery

import (
	"fmt"
	"math"
	"os"

	"github.com/spf13/viper"
)

const (
	// ConfigEnv is the environment variable naming the directory of conf.toml.
	ConfigEnv = "ORRERY_CONFIG"

	defaultStateCacheSize      = 1000
	defaultPredictionCacheSize = 50
	defaultTimeTolerance       = 1e-6 // days
	defaultSamplesPerPeriod    = 100
	defaultTimeStep            = 1.0 // days
	defaultMaxSamples          = 1000000
)

// Config configures an Engine.
type Config struct {
	StateCacheSize      int     // Maximum number of cached states
	PredictionCacheSize int     // Maximum number of cached predictions
	TimeTolerance       float64 // Two times closer than this (in days) share a cached state
	StrictParents       bool    // Reject bodies whose parent is not in the system
	RefineApproach      bool    // Golden-section refinement of the sampled closest approach
	SamplesPerPeriod    int     // Closest approach samples per shortest period
	DefaultTimeStep     float64 // Prediction step used when none is provided, in days
	MaxSamples          int     // Maximum number of samples of a prediction or closest approach scan
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		StateCacheSize:      defaultStateCacheSize,
		PredictionCacheSize: defaultPredictionCacheSize,
		TimeTolerance:       defaultTimeTolerance,
		StrictParents:       false,
		RefineApproach:      true,
		SamplesPerPeriod:    defaultSamplesPerPeriod,
		DefaultTimeStep:     defaultTimeStep,
		MaxSamples:          defaultMaxSamples,
	}
}

// Validate returns an error if this configuration cannot be used.
func (c Config) Validate() error {
	if c.StateCacheSize < 1 {
		return fmt.Errorf("%w: state cache size must be positive, got %d", ErrInvalidArgument, c.StateCacheSize)
	}
	if c.PredictionCacheSize < 1 {
		return fmt.Errorf("%w: prediction cache size must be positive, got %d", ErrInvalidArgument, c.PredictionCacheSize)
	}
	if c.TimeTolerance <= 0 {
		return fmt.Errorf("%w: time tolerance must be positive, got %g", ErrInvalidArgument, c.TimeTolerance)
	}
	if c.SamplesPerPeriod < 1 {
		return fmt.Errorf("%w: samples per period must be positive, got %d", ErrInvalidArgument, c.SamplesPerPeriod)
	}
	if c.DefaultTimeStep <= 0 {
		return fmt.Errorf("%w: default time step must be positive, got %g", ErrInvalidArgument, c.DefaultTimeStep)
	}
	if c.MaxSamples < 1 || c.MaxSamples > math.MaxInt32 {
		return fmt.Errorf("%w: max samples must be in [1, %d], got %d", ErrInvalidArgument, math.MaxInt32, c.MaxSamples)
	}
	return nil
}

// ConfigFromViper reads the `engine` section of the provided viper instance.
// Unset keys keep their default value.
func ConfigFromViper(v *viper.Viper) (Config, error) {
	conf := DefaultConfig()
	if v.IsSet("engine.state_cache_size") {
		conf.StateCacheSize = v.GetInt("engine.state_cache_size")
	}
	if v.IsSet("engine.prediction_cache_size") {
		conf.PredictionCacheSize = v.GetInt("engine.prediction_cache_size")
	}
	if v.IsSet("engine.time_tolerance") {
		conf.TimeTolerance = v.GetFloat64("engine.time_tolerance")
	}
	if v.IsSet("engine.strict_parents") {
		conf.StrictParents = v.GetBool("engine.strict_parents")
	}
	if v.IsSet("engine.refine_approach") {
		conf.RefineApproach = v.GetBool("engine.refine_approach")
	}
	if v.IsSet("engine.samples_per_period") {
		conf.SamplesPerPeriod = v.GetInt("engine.samples_per_period")
	}
	if v.IsSet("engine.time_step") {
		conf.DefaultTimeStep = v.GetFloat64("engine.time_step")
	}
	if v.IsSet("engine.max_samples") {
		conf.MaxSamples = v.GetInt("engine.max_samples")
	}
	return conf, conf.Validate()
}

// LoadConfig loads conf.toml from the directory in the ORRERY_CONFIG environment variable.
// The default configuration is returned if the variable is unset.
func LoadConfig() (Config, error) {
	confPath := os.Getenv(ConfigEnv)
	if confPath == "" {
		return DefaultConfig(), nil
	}
	v := viper.New()
	v.SetConfigName("conf")
	v.SetConfigType("toml")
	v.AddConfigPath(confPath)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("%s/conf.toml: %w", confPath, err)
	}
	return ConfigFromViper(v)
}
