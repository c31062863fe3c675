// Package config loads rectlink settings from TOML or YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned when a configuration fails validation.
var ErrInvalid = errors.New("invalid configuration")

var validate = validator.New()

// Config holds all settings.
type Config struct {
	Canvas  Canvas  `toml:"canvas" yaml:"canvas"`
	Node    Node    `toml:"node" yaml:"node"`
	Link    Link    `toml:"link" yaml:"link"`
	Drag    Drag    `toml:"drag" yaml:"drag"`
	Color   Color   `toml:"color" yaml:"color"`
	Log     Log     `toml:"log" yaml:"log"`
	Metrics Metrics `toml:"metrics" yaml:"metrics"`
}

// Canvas is the initial drawing area size in pixels.
type Canvas struct {
	Width  int `toml:"width" yaml:"width" validate:"min=1,max=16384"`
	Height int `toml:"height" yaml:"height" validate:"min=1,max=16384"`
}

// Node sets the uniform node height. Width is always twice the height.
type Node struct {
	Height int `toml:"height" yaml:"height" validate:"min=2"`
}

// Link configures connection picking.
type Link struct {
	PickTolerance float64 `toml:"pick_tolerance" yaml:"pick_tolerance" validate:"gt=0"`
}

// Drag configures the drag engine.
type Drag struct {
	AdjacencyTolerance int `toml:"adjacency_tolerance" yaml:"adjacency_tolerance" validate:"gte=0,lte=16"`
}

// Color bounds the re-rolls spent looking for an unused node color.
type Color struct {
	MaxRetries int `toml:"max_retries" yaml:"max_retries" validate:"min=1"`
}

// Log configures the zap logger.
type Log struct {
	Level       string `toml:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `toml:"development" yaml:"development"`
	File        string `toml:"file" yaml:"file"`
}

// Metrics configures the Prometheus listener. An empty Addr disables it.
type Metrics struct {
	Addr string `toml:"addr" yaml:"addr" validate:"omitempty,hostname_port"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Canvas:  Canvas{Width: 1200, Height: 800},
		Node:    Node{Height: 80},
		Link:    Link{PickTolerance: 10},
		Drag:    Drag{AdjacencyTolerance: 1},
		Color:   Color{MaxRetries: 64},
		Log:     Log{Level: "info"},
		Metrics: Metrics{},
	}
}

// Load reads the file at path over the defaults and validates the result. The
// format is chosen by extension: .toml, or .yaml/.yml. An empty path returns
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := Decode(data, filepath.Ext(path), &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses data in the format named by ext into cfg. Keys absent from
// data keep their current values.
func Decode(data []byte, ext string, cfg *Config) error {
	switch strings.ToLower(ext) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("parse toml: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse yaml: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
	return nil
}

// Validate checks field ranges and that a node fits on the canvas.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	if 2*c.Node.Height > c.Canvas.Width || c.Node.Height > c.Canvas.Height {
		return fmt.Errorf("%w: node %dx%d does not fit on canvas %dx%d",
			ErrInvalid, 2*c.Node.Height, c.Node.Height, c.Canvas.Width, c.Canvas.Height)
	}
	return nil
}

func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	e := validationErrs[0]
	switch e.Tag() {
	case "min", "gte":
		return fmt.Errorf("%w: %s must be at least %s", ErrInvalid, e.Namespace(), e.Param())
	case "max", "lte":
		return fmt.Errorf("%w: %s must not exceed %s", ErrInvalid, e.Namespace(), e.Param())
	case "oneof":
		return fmt.Errorf("%w: %s must be one of [%s]", ErrInvalid, e.Namespace(), e.Param())
	default:
		return fmt.Errorf("%w: %s failed %s", ErrInvalid, e.Namespace(), e.Tag())
	}
}
