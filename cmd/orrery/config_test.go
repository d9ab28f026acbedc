package main

import (
	"bytes"
	"math"
	"testing"

	"github.com/ChristopherRabotin/orrery"
	"github.com/spf13/viper"
)

func scenarioFromTOML(t *testing.T, conf string) (scenario, error) {
	t.Helper()
	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(bytes.NewBufferString(conf)); err != nil {
		t.Fatalf("could not read scenario: %s", err)
	}
	return readScenario(v)
}

func TestReadScenarioBuiltin(t *testing.T) {
	sc, err := scenarioFromTOML(t, `
[scenario]
body = "Moon"
start = 2000-01-01T12:00:00Z
`)
	if err != nil {
		t.Fatal(err)
	}
	if sc.mode != "state" || sc.body != "Moon" {
		t.Fatalf("unexpected scenario %+v", sc)
	}
	if math.Abs(sc.start-orrery.J2000) > 1e-9 {
		t.Fatalf("start=%f", sc.start)
	}
	if len(sc.bodies) != len(orrery.SolarSystem()) {
		t.Fatalf("expected the built-in bodies, got %d", len(sc.bodies))
	}
	if sc.conf != orrery.DefaultConfig() {
		t.Fatalf("unexpected configuration %+v", sc.conf)
	}
}

func TestReadScenarioBodies(t *testing.T) {
	sc, err := scenarioFromTOML(t, `
[scenario]
mode = "approach"
body = "Rock"
other = "Moonlet"
start = 2455000.5
duration = 365.25
builtin = true

[engine]
samples_per_period = 400

[[bodies]]
id = "Rock"
parent = "Sun"
sma = 2.5
ecc = 0.1
inc = 4.0
RAAN = 80.0
argPeri = 150.0
mAnomaly = 10.0

[[bodies]]
id = "Moonlet"
parent = "Rock"
mass = 1e-12
sma = 1e-5
period = 1.5
epoch = 2455000.5
`)
	if err != nil {
		t.Fatal(err)
	}
	if sc.mode != "approach" || sc.other != "Moonlet" || sc.start != 2455000.5 || sc.duration != 365.25 {
		t.Fatalf("unexpected scenario %+v", sc)
	}
	if sc.conf.SamplesPerPeriod != 400 {
		t.Fatalf("engine section not read: %+v", sc.conf)
	}
	// Built-in bodies first, then the scenario ones.
	n := len(orrery.SolarSystem())
	if len(sc.bodies) != n+2 {
		t.Fatalf("expected %d bodies, got %d", n+2, len(sc.bodies))
	}
	rock, moonlet := sc.bodies[n], sc.bodies[n+1]
	if rock.Orbit.LongitudeAscendingNode != 80 || rock.Orbit.ArgumentPeriapsis != 150 || rock.Orbit.Epoch != orrery.J2000 {
		t.Fatalf("unexpected orbit %s", rock.Orbit)
	}
	// Kepler's third law when no period is provided.
	if math.Abs(rock.Orbit.Period-orrery.DaysPerYear*math.Pow(2.5, 1.5)) > 1e-6 {
		t.Fatalf("period=%f", rock.Orbit.Period)
	}
	if moonlet.Orbit.Period != 1.5 || moonlet.Orbit.MeanMotion != 240 || moonlet.Mass != 1e-12 {
		t.Fatalf("unexpected moonlet %s %s", moonlet, moonlet.Orbit)
	}
	if _, err := orrery.NewEngine(sc.bodies, orrery.WithConfig(sc.conf)); err != nil {
		t.Fatalf("scenario bodies rejected: %s", err)
	}
}

func TestReadScenarioErrors(t *testing.T) {
	if _, err := scenarioFromTOML(t, "[scenario]\nmode = \"predict\"\n"); err == nil {
		t.Fatal("expected an error without a body")
	}
	if _, err := scenarioFromTOML(t, "[scenario]\nbody = \"Earth\"\n[engine]\nstate_cache_size = -1\n"); err == nil {
		t.Fatal("expected an error for an invalid engine section")
	}
}

func TestFixedBody(t *testing.T) {
	c := bodyConf{ID: "Barycenter", Fixed: true, SMA: 3}
	if b := c.body(); b.Orbit != nil {
		t.Fatalf("a fixed body has no orbit: %s", b.Orbit)
	}
}
