package main

import (
	"fmt"

	"github.com/ChristopherRabotin/orrery"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/spf13/viper"
)

// bodyConf is one [[bodies]] entry of a scenario.
type bodyConf struct {
	ID          string  `mapstructure:"id"`
	Parent      string  `mapstructure:"parent"`
	Mass        float64 `mapstructure:"mass"`
	Fixed       bool    `mapstructure:"fixed"`
	SMA         float64 `mapstructure:"sma"`
	Ecc         float64 `mapstructure:"ecc"`
	Inc         float64 `mapstructure:"inc"`
	RAAN        float64 `mapstructure:"RAAN"`
	ArgPeri     float64 `mapstructure:"argPeri"`
	MeanAnomaly float64 `mapstructure:"mAnomaly"`
	Epoch       float64 `mapstructure:"epoch"`
	Period      float64 `mapstructure:"period"`
}

func (c bodyConf) body() orrery.CelestialBody {
	body := orrery.CelestialBody{ID: c.ID, Parent: c.Parent, Mass: c.Mass}
	if c.Fixed {
		return body
	}
	epoch := c.Epoch
	if epoch == 0 {
		epoch = orrery.J2000
	}
	var el orrery.OrbitalElements
	if c.Period > 0 {
		el = orrery.OrbitalElements{
			SemiMajorAxis:          c.SMA,
			Eccentricity:           c.Ecc,
			Inclination:            c.Inc,
			LongitudeAscendingNode: c.RAAN,
			ArgumentPeriapsis:      c.ArgPeri,
			MeanAnomalyEpoch:       c.MeanAnomaly,
			Epoch:                  epoch,
			Period:                 c.Period,
			MeanMotion:             360 / c.Period,
		}
	} else {
		// Kepler's third law around a central mass of one Sun.
		el = orrery.NewOrbitalElements(c.SMA, c.Ecc, c.Inc, c.RAAN, c.ArgPeri, c.MeanAnomaly, epoch, 1)
	}
	body.Orbit = &el
	return body
}

// scenario is what the command computes.
type scenario struct {
	mode            string
	body, other     string
	start, duration float64
	step            float64
	bodies          []orrery.CelestialBody
	conf            orrery.Config
}

func readScenario(v *viper.Viper) (scenario, error) {
	sc := scenario{
		mode:     v.GetString("scenario.mode"),
		body:     v.GetString("scenario.body"),
		other:    v.GetString("scenario.other"),
		start:    confReadJDE(v, "scenario.start"),
		duration: v.GetFloat64("scenario.duration"),
		step:     v.GetFloat64("scenario.step"),
	}
	if sc.mode == "" {
		sc.mode = "state"
	}
	if sc.body == "" {
		return sc, fmt.Errorf("scenario.body is required")
	}
	conf, err := orrery.ConfigFromViper(v)
	if err != nil {
		return sc, err
	}
	sc.conf = conf

	if v.GetBool("scenario.builtin") || !v.IsSet("bodies") {
		sc.bodies = orrery.SolarSystem()
	}
	var confs []bodyConf
	if err := v.UnmarshalKey("bodies", &confs); err != nil {
		return sc, fmt.Errorf("could not read bodies: %s", err)
	}
	for _, c := range confs {
		sc.bodies = append(sc.bodies, c.body())
	}
	return sc, nil
}

// confReadJDE reads either a Julian Day or a date.
func confReadJDE(v *viper.Viper, key string) float64 {
	if jde := v.GetFloat64(key); jde != 0 {
		return jde
	}
	if dt := v.GetTime(key); !dt.IsZero() {
		return julian.TimeToJD(dt.UTC())
	}
	return orrery.J2000
}
