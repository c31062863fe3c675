package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"rectlink/internal/app"
	"rectlink/internal/config"
	"rectlink/internal/metrics"
	"rectlink/pkg/colorutil"
	"rectlink/pkg/geometry"
)

// Script is a recorded sequence of pointer gestures.
type Script struct {
	Canvas     geometry.Size `yaml:"canvas"`
	NodeHeight int           `yaml:"node_height"`
	Seed       uint64        `yaml:"seed"`
	Steps      []Step        `yaml:"steps"`
}

// Pos is an [x, y] pair.
type Pos [2]int

func (p Pos) point() geometry.Point {
	return geometry.Pt(p[0], p[1])
}

// Step is one gesture. Exactly one field must be set.
type Step struct {
	DoubleClick *Pos `yaml:"double_click,omitempty"`
	Press       *Pos `yaml:"press,omitempty"`
	Move        *Pos `yaml:"move,omitempty"`
	Release     *Pos `yaml:"release,omitempty"`
	RightClick  *Pos `yaml:"right_click,omitempty"`
	Cancel      bool `yaml:"cancel,omitempty"`
}

func (s Step) kind() (string, *Pos) {
	switch {
	case s.DoubleClick != nil:
		return "double_click", s.DoubleClick
	case s.Press != nil:
		return "press", s.Press
	case s.Move != nil:
		return "move", s.Move
	case s.Release != nil:
		return "release", s.Release
	case s.RightClick != nil:
		return "right_click", s.RightClick
	case s.Cancel:
		return "cancel", nil
	}
	return "", nil
}

func (s Step) count() int {
	n := 0
	for _, p := range []*Pos{s.DoubleClick, s.Press, s.Move, s.Release, s.RightClick} {
		if p != nil {
			n++
		}
	}
	if s.Cancel {
		n++
	}
	return n
}

func (s Step) String() string {
	name, pos := s.kind()
	if pos == nil {
		return name
	}
	return fmt.Sprintf("%s %v", name, pos.point())
}

// apply performs the gesture on state.
func (s Step) apply(state *app.State) {
	name, pos := s.kind()
	var p geometry.Point
	if pos != nil {
		p = pos.point()
	}
	switch name {
	case "double_click":
		state.OnPrimaryDoubleClick(p)
	case "press":
		state.OnPrimaryDown(p)
	case "move":
		state.OnPrimaryMove(p)
	case "release":
		state.OnPrimaryUp(p)
	case "right_click":
		state.OnSecondaryDown(p)
	case "cancel":
		state.CancelLink()
	}
}

// LoadScript reads and validates a script file. "-" reads standard input.
func LoadScript(path string) (Script, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return Script{}, fmt.Errorf("read script: %w", err)
	}
	return ParseScript(data)
}

// ParseScript decodes a YAML script and fills in defaults.
func ParseScript(data []byte) (Script, error) {
	defaults := config.Default()
	s := Script{
		Canvas:     geometry.NewSize(defaults.Canvas.Width, defaults.Canvas.Height),
		NodeHeight: defaults.Node.Height,
		Seed:       1,
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Script{}, fmt.Errorf("parse script: %w", err)
	}

	if s.Canvas.Width <= 0 || s.Canvas.Height <= 0 {
		return Script{}, fmt.Errorf("canvas must be positive, got %dx%d", s.Canvas.Width, s.Canvas.Height)
	}
	if s.NodeHeight < 2 {
		return Script{}, fmt.Errorf("node_height must be at least 2, got %d", s.NodeHeight)
	}
	for i, step := range s.Steps {
		if n := step.count(); n != 1 {
			return Script{}, fmt.Errorf("step %d: expected one gesture, got %d", i+1, n)
		}
	}
	return s, nil
}

// ErrInvariant reports a snapshot with overlapping or off-canvas nodes.
var ErrInvariant = errors.New("invariant violated")

// Replay runs the script against a fresh controller. After each step, trace
// (if set) receives the step and the resulting snapshot.
func Replay(s Script, logger *zap.Logger, reg *metrics.Registry, trace func(i int, step Step, snap app.Snapshot)) (app.Snapshot, error) {
	state := app.NewState(app.FixedSurface(s.Canvas), app.Options{
		NodeHeight: s.NodeHeight,
		Colors:     colorutil.NewPicker(s.Seed, colorutil.DefaultMaxRetries),
		Logger:     logger,
		Metrics:    reg,
	})

	for i, step := range s.Steps {
		step.apply(state)
		snap := state.Snapshot()
		if trace != nil {
			trace(i+1, step, snap)
		}
		if err := snap.Check(); err != nil {
			return snap, fmt.Errorf("step %d (%s): %w: %w", i+1, step, ErrInvariant, err)
		}
	}
	return state.Snapshot(), nil
}
