package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ChristopherRabotin/orrery"
	kitlog "github.com/go-kit/kit/log"
	"github.com/spf13/viper"
)

// Reads a scenario file and computes states, predictions or closest approaches.

const defaultScenario = "~~unset~~"

var (
	scenarioFile string
	outDir       string
	verbose      bool
)

func init() {
	flag.StringVar(&scenarioFile, "scenario", defaultScenario, "scenario TOML file")
	flag.StringVar(&outDir, "out", "", "directory for Cosmographia files (predict mode only)")
	flag.BoolVar(&verbose, "verbose", false, "log cache statistics and engine events")
}

func main() {
	flag.Parse()
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)
	if scenarioFile == defaultScenario {
		fatal(logger, fmt.Errorf("no scenario provided"))
	}

	v := viper.New()
	v.SetConfigFile(scenarioFile)
	if err := v.ReadInConfig(); err != nil {
		fatal(logger, fmt.Errorf("%s: %s", scenarioFile, err))
	}
	sc, err := readScenario(v)
	if err != nil {
		fatal(logger, err)
	}

	opts := []orrery.Option{orrery.WithConfig(sc.conf)}
	if verbose {
		opts = append(opts, orrery.WithLogger(kitlog.With(logger, "engine", strings.TrimSuffix(filepath.Base(scenarioFile), ".toml"))))
	}
	engine, err := orrery.NewEngine(sc.bodies, opts...)
	if err != nil {
		fatal(logger, err)
	}

	switch sc.mode {
	case "state":
		st, err := engine.ComputeState(sc.body, sc.start)
		if err != nil {
			fatal(logger, err)
		}
		logger.Log("body", st.Body, "jd", st.JD, "R(AU)", fmt.Sprint(st.Position), "V(AU/d)", fmt.Sprint(st.Velocity), "r(AU)", st.Distance, "ν(deg)", orrery.Rad2deg(st.TrueAnomaly))
	case "predict":
		p, err := engine.Predict(sc.body, sc.start, sc.duration, sc.step)
		if err != nil {
			fatal(logger, err)
		}
		logger.Log("body", p.Body, "samples", len(p.Trajectory), "period(d)", p.Period, "periapsis(JD)", p.NextPeriapsis, "apoapsis(JD)", p.NextApoapsis)
		if outDir != "" {
			if err := writeCosmographia(p, sc, outDir); err != nil {
				fatal(logger, err)
			}
		}
	case "approach":
		a, err := engine.ClosestApproach(sc.body, sc.other, sc.start, sc.duration)
		if err != nil {
			fatal(logger, err)
		}
		logger.Log("a", sc.body, "b", sc.other, "jd", a.JD, "distance(AU)", a.Distance, "Δv(AU/d)", a.RelativeVelocity, "refined", a.Refined)
	default:
		fatal(logger, fmt.Errorf("unknown mode `%s`", sc.mode))
	}
	if verbose {
		stats := engine.CacheStats()
		logger.Log("level", "info", "subsys", "cache", "hits", stats.Hits, "misses", stats.Misses, "evictions", stats.Evictions, "fallbacks", stats.KeplerFallbacks)
	}
}

func writeCosmographia(p orrery.OrbitalPrediction, sc scenario, dir string) error {
	center := "Sun"
	if body, ok := engineBody(sc, p.Body); ok && body.Parent != "" {
		center = body.Parent
	}
	source := fmt.Sprintf("orrery-%s.xyzv", p.Body)
	f, err := os.Create(filepath.Join(dir, source))
	if err != nil {
		return err
	}
	defer f.Close()
	if err := orrery.WriteInterpolatedStates(f, p); err != nil {
		return err
	}
	fc, err := os.Create(filepath.Join(dir, fmt.Sprintf("catalog-%s.json", p.Body)))
	if err != nil {
		return err
	}
	defer fc.Close()
	return orrery.WriteCgCatalog(fc, orrery.NewCgCatalog(p, center, source))
}

func engineBody(sc scenario, id string) (orrery.CelestialBody, bool) {
	for _, b := range sc.bodies {
		if b.ID == id {
			return b, true
		}
	}
	return orrery.CelestialBody{}, false
}

func fatal(logger kitlog.Logger, err error) {
	logger.Log("level", "critical", "err", err)
	os.Exit(1)
}
