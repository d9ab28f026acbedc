package orrery

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// CgCatalog definition.
type CgCatalog struct {
	Version string     `json:"version"`
	Name    string     `json:"name"`
	Items   []*CgItems `json:"items"`
	Require []string   `json:"require,omitempty"`
}

func (c *CgCatalog) String() string {
	return c.Name + "(" + c.Version + ")"
}

// CgItems definition.
type CgItems struct {
	Class           string            `json:"class"`
	Name            string            `json:"name"`
	StartTime       string            `json:"startTime"`
	EndTime         string            `json:"endTime"`
	Center          string            `json:"center"`
	TrajectoryFrame string            `json:"trajectoryFrame"`
	Trajectory      *CgTrajectory     `json:"trajectory,omitempty"`
	Label           *CgLabel          `json:"label,omitempty"`
	TrajectoryPlot  *CgTrajectoryPlot `json:"trajectoryPlot,omitempty"`
}

// CgTrajectory definition.
type CgTrajectory struct {
	Type   string `json:"type,omitempty"`
	Source string `json:"source,omitempty"`
}

// Validate validates a CgTrajectory.
func (t *CgTrajectory) Validate() error {
	if t.Type != "InterpolatedStates" || !strings.HasSuffix(t.Source, "xyzv") {
		return errors.New("only InterpolatedStates are currently supported in Cosmographia trajectory types")
	}
	return nil
}

func (t *CgTrajectory) String() string {
	return t.Source + " as " + t.Type
}

// CgLabel definition.
type CgLabel struct {
	Color    []float64 `json:"color,omitempty"`
	FadeSize int       `json:"fadeSize,omitempty"`
	ShowText bool      `json:"showText,omitempty"`
}

// CgTrajectoryPlot definition.
type CgTrajectoryPlot struct {
	Color       []float64 `json:"color,omitempty"`
	LineWidth   int       `json:"lineWidth,omitempty"`
	Duration    string    `json:"duration,omitempty"`
	Lead        string    `json:"lead,omitempty"`
	Fade        int       `json:"fade,omitempty"`
	SampleCount int       `json:"sampleCount,omitempty"`
}

// CgInterpolatedState is one line of a Cosmographia interpolated states file.
// Positions are in km and velocities in km/s, as Cosmographia expects.
type CgInterpolatedState struct {
	JD       float64
	Position []float64
	Velocity []float64
}

// FromText initializes from text.
// The `record` parameter must be an array of seven items.
func (i *CgInterpolatedState) FromText(record []string) error {
	if len(record) != 7 {
		return fmt.Errorf("expected 7 fields, got %d", len(record))
	}
	vals := make([]float64, 7)
	for k, field := range record {
		val, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return err
		}
		vals[k] = val
	}
	i.JD = vals[0]
	i.Position = vals[1:4]
	i.Velocity = vals[4:7]
	return nil
}

// ToText converts to text for written output.
func (i *CgInterpolatedState) ToText() string {
	return fmt.Sprintf("%f %f %f %f %f %f %f", i.JD, i.Position[0], i.Position[1], i.Position[2], i.Velocity[0], i.Velocity[1], i.Velocity[2])
}

// ParseInterpolatedStates reads the states of a Cosmographia interpolated states file.
func ParseInterpolatedStates(s string) ([]*CgInterpolatedState, error) {
	var states = []*CgInterpolatedState{}
	r := csv.NewReader(strings.NewReader(s))
	r.Comma = ' '
	r.Comment = '#'
	for {
		record, err := r.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		state := CgInterpolatedState{}
		if err := state.FromText(record); err != nil {
			return nil, err
		}
		states = append(states, &state)
	}
	return states, nil
}

// WriteInterpolatedStates writes the trajectory of the prediction in the Cosmographia
// interpolated states format, converted to km and km/s.
func WriteInterpolatedStates(w io.Writer, p OrbitalPrediction) error {
	if _, err := fmt.Fprintf(w, "# Trajectory of %s\n# Start (JD): %f\n# Records are JD, x, y, z (km), vx, vy, vz (km/s).", p.Body, p.Start); err != nil {
		return err
	}
	const daySeconds = 86400.
	for _, pt := range p.Trajectory {
		state := CgInterpolatedState{JD: pt.JD, Position: make([]float64, 3), Velocity: make([]float64, 3)}
		for k := 0; k < 3; k++ {
			state.Position[k] = pt.Position[k] * AU
			state.Velocity[k] = pt.Velocity[k] * AU / daySeconds
		}
		if _, err := fmt.Fprint(w, "\n"+state.ToText()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// NewCgCatalog returns a Cosmographia catalog describing the trajectory of a prediction
// stored in the provided xyzv source file, centered on the named body.
func NewCgCatalog(p OrbitalPrediction, center, source string) *CgCatalog {
	color := []float64{0.6, 1, 1}
	start := julian.JDToTime(p.Start).UTC()
	end := julian.JDToTime(p.End()).UTC()
	item := &CgItems{
		Class:           "spacecraft",
		Name:            p.Body,
		StartTime:       start.Format(time.RFC3339),
		EndTime:         end.Format(time.RFC3339),
		Center:          center,
		TrajectoryFrame: "EclipticJ2000",
		Trajectory:      &CgTrajectory{Type: "InterpolatedStates", Source: source},
		Label:           &CgLabel{Color: color, FadeSize: 1000000, ShowText: true},
		TrajectoryPlot:  &CgTrajectoryPlot{Color: color, LineWidth: 1, Duration: fmt.Sprintf("%d d", int(p.Duration)+1), Lead: "0 d", SampleCount: len(p.Trajectory)},
	}
	return &CgCatalog{Version: "1.0", Name: p.Body, Items: []*CgItems{item}}
}

// WriteCgCatalog writes the catalog as JSON.
func WriteCgCatalog(w io.Writer, c *CgCatalog) error {
	return json.NewEncoder(w).Encode(c)
}
