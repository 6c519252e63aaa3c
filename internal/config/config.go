// Package config holds the keyed, clamped simulation configuration:
// wall/ground geometry, climber/belayer/deflection-point placement,
// rope material parameters, and run parameters (step size, duration,
// snapshot rate).
package config

import (
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// Logger is the warning side channel used when an out-of-range value
// is clamped rather than rejected.
type Logger interface {
	Warnf(format string, args ...any)
}

// NopLogger discards every warning.
type NopLogger struct{}

func (NopLogger) Warnf(string, ...any) {}

// Draw is a single deflection point (carabiner) placement.
type Draw struct {
	Height       float64 `yaml:"height"`
	Sideways     float64 `yaml:"sideways"`
	WallDistance float64 `yaml:"wall_distance"`
}

// Config is the full keyed configuration of a simulation run. Clamp
// enforces a [min, max] range on the numeric options listed in bounds;
// Seed, the belayer/climber wall distances and the per-draw placements
// are not clamped, and BelayerWeight is clamped only when neither
// FixedAnchor nor BelayerFixed is set.
type Config struct {
	Version string `yaml:"version"`
	Seed    int64  `yaml:"seed"`

	WallAngleDeg  float64 `yaml:"wall_angle"`
	GroundPresent bool    `yaml:"ground_present"`
	GroundLevel   float64 `yaml:"ground_level"`

	ClimberHeight   float64 `yaml:"climber_height"`
	ClimberSideways float64 `yaml:"climber_sideways"`
	ClimberWeight   float64 `yaml:"climber_weight"`

	LastDrawHeight float64 `yaml:"last_draw_height"`
	DrawNumber     int     `yaml:"draw_number"`
	Draws          []Draw  `yaml:"draws"`

	FixedAnchor   bool    `yaml:"fixed_anchor"`
	BelayerFixed  bool    `yaml:"belayer_fixed"`
	BelayerWeight float64 `yaml:"belayer_weight"`

	BelayerWallDistance float64 `yaml:"belayer_wall_distance"`
	ClimberWallDistance float64 `yaml:"climber_wall_distance"`

	RopeSegments        int     `yaml:"rope_segments"`
	PhysicsStepSizeMs   float64 `yaml:"physics_step_size_ms"`
	ElasticityConstant  float64 `yaml:"elasticity_constant"`  // 1/N * 1e-3, as configured
	RopeWeight          float64 `yaml:"rope_weight"`          // kg/m
	RopeBendDamping     float64 `yaml:"rope_bend_damping"`    // d_perp
	RopeStretchDamping  float64 `yaml:"rope_stretch_damping"` // d_par
	FrictionCoefficient float64 `yaml:"friction_coefficient"`
	Slack               float64 `yaml:"slack"`

	FrameRate          float64 `yaml:"frame_rate"`
	SimulationDuration float64 `yaml:"simulation_duration"`
}

// bound is a [min, max] clamp range for one field.
type bound struct{ min, max float64 }

var bounds = map[string]bound{
	"wall_angle":           {0, 40},
	"ground_level":         {-50, 50},
	"climber_height":       {0, 200},
	"climber_sideways":     {-10, 10},
	"climber_weight":       {20, 200},
	"last_draw_height":     {0, 200},
	"draw_number":          {0, 64},
	"belayer_weight":       {20, 200},
	"rope_segments":        {1, 500},
	"physics_step_size_ms": {0.001, 10},
	"elasticity_constant":  {0.001, 10},
	"rope_weight":          {0.01, 1},
	"rope_bend_damping":    {0, 10},
	"rope_stretch_damping": {0, 500},
	"friction_coefficient": {0, 2},
	"slack":                {0, 50},
	"frame_rate":           {1, 240},
	"simulation_duration":  {0.01, 600},
}

// Defaults for values missing from a loaded configuration.
const (
	DefaultBelayerWallDistance = 0.5
	DefaultClimberWallDistance = 0.3
	DefaultDrawWallDistance    = 0.1
	DefaultSlack               = 0.1
)

// DefaultConfig returns the vertical free-fall scenario: a 70 kg
// climber 6 m above a fixed anchor on a standard dynamic rope.
func DefaultConfig() *Config {
	return &Config{
		Version:             "1.0.0",
		WallAngleDeg:        0,
		GroundPresent:       false,
		ClimberHeight:       6.0,
		ClimberWeight:       70,
		FixedAnchor:         true,
		BelayerWallDistance: DefaultBelayerWallDistance,
		ClimberWallDistance: DefaultClimberWallDistance,
		RopeSegments:        70,
		PhysicsStepSizeMs:   0.01,
		ElasticityConstant:  0.079,
		RopeWeight:          0.062,
		RopeBendDamping:     0.02,
		RopeStretchDamping:  0.1,
		FrictionCoefficient: 0.125,
		Slack:               DefaultSlack,
		FrameRate:           40,
		SimulationDuration:  2.0,
	}
}

func clampField(name string, v float64, logger Logger) float64 {
	b, ok := bounds[name]
	if !ok {
		return v
	}
	if v < b.min {
		logger.Warnf("config: %s = %v below minimum %v, clamped", name, v, b.min)
		return b.min
	}
	if v > b.max {
		logger.Warnf("config: %s = %v above maximum %v, clamped", name, v, b.max)
		return b.max
	}
	return v
}

// Clamp enforces every per-option [min, max] range in place, warning
// through logger for each value it adjusts, and fills in the
// documented defaults for zero-valued optional fields. Out-of-range
// input is clamped, never rejected.
func (c *Config) Clamp(logger Logger) {
	if logger == nil {
		logger = NopLogger{}
	}
	c.WallAngleDeg = clampField("wall_angle", c.WallAngleDeg, logger)
	c.GroundLevel = clampField("ground_level", c.GroundLevel, logger)
	c.ClimberHeight = clampField("climber_height", c.ClimberHeight, logger)
	c.ClimberSideways = clampField("climber_sideways", c.ClimberSideways, logger)
	c.ClimberWeight = clampField("climber_weight", c.ClimberWeight, logger)
	c.LastDrawHeight = clampField("last_draw_height", c.LastDrawHeight, logger)
	c.DrawNumber = int(clampField("draw_number", float64(c.DrawNumber), logger))
	if !c.FixedAnchor && !c.BelayerFixed {
		c.BelayerWeight = clampField("belayer_weight", c.BelayerWeight, logger)
	}
	c.RopeSegments = int(clampField("rope_segments", float64(c.RopeSegments), logger))
	c.PhysicsStepSizeMs = clampField("physics_step_size_ms", c.PhysicsStepSizeMs, logger)
	c.ElasticityConstant = clampField("elasticity_constant", c.ElasticityConstant, logger)
	c.RopeWeight = clampField("rope_weight", c.RopeWeight, logger)
	c.RopeBendDamping = clampField("rope_bend_damping", c.RopeBendDamping, logger)
	c.RopeStretchDamping = clampField("rope_stretch_damping", c.RopeStretchDamping, logger)
	c.FrictionCoefficient = clampField("friction_coefficient", c.FrictionCoefficient, logger)
	c.Slack = clampField("slack", c.Slack, logger)
	c.FrameRate = clampField("frame_rate", c.FrameRate, logger)
	c.SimulationDuration = clampField("simulation_duration", c.SimulationDuration, logger)

	if c.BelayerWallDistance == 0 {
		c.BelayerWallDistance = DefaultBelayerWallDistance
	}
	if c.ClimberWallDistance == 0 {
		c.ClimberWallDistance = DefaultClimberWallDistance
	}
	if c.Slack == 0 {
		c.Slack = DefaultSlack
	}
	c.normalizeDraws(logger)
	for i := range c.Draws {
		if c.Draws[i].WallDistance == 0 {
			c.Draws[i].WallDistance = DefaultDrawWallDistance
		}
	}
}

// normalizeDraws reconciles the draw-number/last-draw-height keys with
// the per-draw placement list: a configuration that only names a count
// and the highest draw's height gets the missing draws synthesised at
// evenly spaced heights, and a placement list longer than draw_number
// is truncated with a warning. A zero draw_number adopts the length of
// an explicit placement list.
func (c *Config) normalizeDraws(logger Logger) {
	if c.DrawNumber == 0 {
		c.DrawNumber = len(c.Draws)
		return
	}
	if len(c.Draws) > c.DrawNumber {
		logger.Warnf("config: %d draw placements exceed draw_number %d, extra entries dropped", len(c.Draws), c.DrawNumber)
		c.Draws = c.Draws[:c.DrawNumber]
		return
	}
	for i := len(c.Draws); i < c.DrawNumber; i++ {
		height := c.LastDrawHeight * float64(i+1) / float64(c.DrawNumber)
		c.Draws = append(c.Draws, Draw{Height: height, WallDistance: DefaultDrawWallDistance})
	}
}

// StepSize returns the maximum physics step in seconds.
func (c *Config) StepSize() float64 { return c.PhysicsStepSizeMs / 1000 }

// Elasticity returns κ in 1/Newton.
func (c *Config) Elasticity() float64 { return c.ElasticityConstant * 1e-3 }

// ParsedVersion parses the configuration's schema version as a
// semantic version, so older persisted presets can be compared against
// what a newer binary writes instead of relying on bare string
// equality.
func (c *Config) ParsedVersion() (*semver.Version, error) {
	v := c.Version
	if v == "" {
		v = "0.0.0"
	}
	parsed, err := semver.NewVersion(v)
	if err != nil {
		return nil, fmt.Errorf("config: invalid version %q: %w", c.Version, err)
	}
	return parsed, nil
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
