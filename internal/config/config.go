package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/edgeoverlay/internal/edge"
	"github.com/ivlev/edgeoverlay/internal/texture"
)

var (
	ErrInvalidOffset    = errors.New("offset must be two finite values >= 0")
	ErrInvalidTolerance = errors.New("tolerance components must be finite and > 0")
	ErrInvalidBits      = errors.New("bit depth must be between 1 and 16")
	ErrInvalidSize      = errors.New("target size must be >= 0")
	ErrInvalidWorkers   = errors.New("workers must be >= 0")
	ErrInvalidRegion    = errors.New("min_region must be >= 0")
)

// Config holds the per-draw-call settings. Zero Width/Height mean "same as
// the texture"; zero Workers means one per CPU.
type Config struct {
	Input        string    `yaml:"input"`
	Output       string    `yaml:"output"`
	Width        int       `yaml:"width"`
	Height       int       `yaml:"height"`
	Offset       []float32 `yaml:"offset,omitempty"`
	OffsetTexels float32   `yaml:"offset_texels"`
	Bits         int       `yaml:"bits"`
	Tolerance    []float32 `yaml:"tolerance,omitempty"`
	Addressing   string    `yaml:"addressing"`
	Workers      int       `yaml:"workers"`
	DPI          int       `yaml:"dpi"`
	ShowStats    bool      `yaml:"stats"`
	StatsLog     string    `yaml:"stats_log"`
	ASCII        bool      `yaml:"ascii"`
	MinRegion    int       `yaml:"min_region"`
	BuildVersion string    `yaml:"-"`
}

// DrawParams are the uniforms shared by every fragment of a draw call.
type DrawParams struct {
	Offset     edge.Vec2
	Tolerance  edge.Tolerance
	Addressing texture.Addressing
}

// Default returns a one-texel, 8-bit, clamp-to-edge configuration.
func Default() *Config {
	return &Config{
		OffsetTexels: 1,
		Bits:         8,
		Addressing:   "clamp",
		DPI:          150,
		StatsLog:     "benchmark.log",
		MinRegion:    4,
	}
}

// Load reads a YAML file on top of Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	// A file that names only a normalized offset must not fall back to the
	// default one-texel offset.
	var set struct {
		Offset       []float32 `yaml:"offset"`
		OffsetTexels *float32  `yaml:"offset_texels"`
	}
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(set.Offset) > 0 && set.OffsetTexels == nil {
		cfg.OffsetTexels = 0
	}
	return cfg, nil
}

// Save writes cfg as YAML.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the configuration once, before any fragment runs.
func (c *Config) Validate() error {
	if len(c.Offset) != 0 && len(c.Offset) != 2 {
		return fmt.Errorf("%w: got %d values", ErrInvalidOffset, len(c.Offset))
	}
	for _, v := range c.Offset {
		if !finite(v) || v < 0 {
			return fmt.Errorf("%w: offset %v", ErrInvalidOffset, c.Offset)
		}
	}
	if !finite(c.OffsetTexels) || c.OffsetTexels < 0 {
		return fmt.Errorf("%w: offset_texels %v", ErrInvalidOffset, c.OffsetTexels)
	}
	if c.Bits < 1 || c.Bits > 16 {
		return fmt.Errorf("%w: %d", ErrInvalidBits, c.Bits)
	}
	if len(c.Tolerance) != 0 && len(c.Tolerance) != 1 && len(c.Tolerance) != 4 {
		return fmt.Errorf("%w: want 1 or 4 values, got %d", ErrInvalidTolerance, len(c.Tolerance))
	}
	for _, v := range c.Tolerance {
		if !finite(v) || v <= 0 {
			return fmt.Errorf("%w: tolerance %v", ErrInvalidTolerance, c.Tolerance)
		}
	}
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, c.Width, c.Height)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Workers)
	}
	if c.MinRegion < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRegion, c.MinRegion)
	}
	if _, err := texture.ParseAddressing(c.Addressing); err != nil {
		return err
	}
	return nil
}

// Resolve turns the configuration into draw-call uniforms for a texture with
// the given texel size. OffsetTexels takes precedence over Offset when set.
func (c *Config) Resolve(texelSize edge.Vec2) (DrawParams, error) {
	if err := c.Validate(); err != nil {
		return DrawParams{}, err
	}

	var p DrawParams
	switch {
	case c.OffsetTexels > 0:
		p.Offset = edge.Vec2{X: c.OffsetTexels * texelSize.X, Y: c.OffsetTexels * texelSize.Y}
	case len(c.Offset) == 2:
		p.Offset = edge.Vec2{X: c.Offset[0], Y: c.Offset[1]}
	}

	switch len(c.Tolerance) {
	case 1:
		p.Tolerance = edge.UniformTolerance(c.Tolerance[0])
	case 4:
		p.Tolerance = edge.Tolerance{R: c.Tolerance[0], G: c.Tolerance[1], B: c.Tolerance[2], A: c.Tolerance[3]}
	default:
		p.Tolerance = edge.ToleranceForBits(c.Bits)
	}

	p.Addressing, _ = texture.ParseAddressing(c.Addressing)
	return p, nil
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
