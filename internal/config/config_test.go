package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/edgeoverlay/internal/edge"
	"github.com/ivlev/edgeoverlay/internal/texture"
)

func TestValidate(t *testing.T) {
	nan := float32(math.NaN())

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"default", func(c *Config) {}, nil},
		{"zero offset", func(c *Config) { c.OffsetTexels = 0; c.Offset = nil }, nil},
		{"negative offset", func(c *Config) { c.Offset = []float32{-0.1, 0} }, ErrInvalidOffset},
		{"offset arity", func(c *Config) { c.Offset = []float32{0.1} }, ErrInvalidOffset},
		{"nan offset", func(c *Config) { c.Offset = []float32{0, nan} }, ErrInvalidOffset},
		{"negative texels", func(c *Config) { c.OffsetTexels = -1 }, ErrInvalidOffset},
		{"zero tolerance", func(c *Config) { c.Tolerance = []float32{0.1, 0.1, 0, 0.1} }, ErrInvalidTolerance},
		{"tolerance arity", func(c *Config) { c.Tolerance = []float32{0.1, 0.1} }, ErrInvalidTolerance},
		{"bits", func(c *Config) { c.Bits = 0 }, ErrInvalidBits},
		{"size", func(c *Config) { c.Width = -1 }, ErrInvalidSize},
		{"workers", func(c *Config) { c.Workers = -2 }, ErrInvalidWorkers},
		{"min region", func(c *Config) { c.MinRegion = -1 }, ErrInvalidRegion},
		{"addressing", func(c *Config) { c.Addressing = "mirror" }, texture.ErrUnknownAddressing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestResolve(t *testing.T) {
	texel := edge.Vec2{X: 0.25, Y: 0.5}

	cfg := Default()
	p, err := cfg.Resolve(texel)
	require.NoError(t, err)
	assert.Equal(t, texel, p.Offset)
	assert.Equal(t, edge.DefaultTolerance, p.Tolerance)
	assert.Equal(t, texture.ClampToEdge, p.Addressing)

	cfg.OffsetTexels = 0
	cfg.Offset = []float32{0.125, 0}
	cfg.Tolerance = []float32{0.5}
	cfg.Addressing = "repeat"
	p, err = cfg.Resolve(texel)
	require.NoError(t, err)
	assert.Equal(t, edge.Vec2{X: 0.125}, p.Offset)
	assert.Equal(t, edge.UniformTolerance(0.5), p.Tolerance)
	assert.Equal(t, texture.Repeat, p.Addressing)

	cfg.Tolerance = nil
	cfg.Bits = 16
	p, err = cfg.Resolve(texel)
	require.NoError(t, err)
	assert.Equal(t, edge.ToleranceForBits(16), p.Tolerance)

	cfg.Bits = 40
	_, err = cfg.Resolve(texel)
	assert.ErrorIs(t, err, ErrInvalidBits)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.yaml")

	cfg := Default()
	cfg.Input = "qr:hello"
	cfg.Tolerance = []float32{0.25, 0.25, 0.25, 0.5}
	cfg.Workers = 3
	cfg.BuildVersion = "dev"
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "qr:hello", loaded.Input)
	assert.Equal(t, cfg.Tolerance, loaded.Tolerance)
	assert.Equal(t, 3, loaded.Workers)
	assert.Empty(t, loaded.BuildVersion)
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("input: split\naddressing: border\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "split", cfg.Input)
	assert.Equal(t, "border", cfg.Addressing)
	assert.Equal(t, 8, cfg.Bits)
	assert.Equal(t, float32(1), cfg.OffsetTexels)
	assert.Equal(t, 4, cfg.MinRegion)
}

func TestLoadNormalizedOffset(t *testing.T) {
	dir := t.TempDir()
	texel := edge.Vec2{X: 0.125, Y: 0.25}

	path := filepath.Join(dir, "offset.yaml")
	require.NoError(t, os.WriteFile(path, []byte("offset: [0.5, 0.75]\n"), 0644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Zero(t, cfg.OffsetTexels)
	p, err := cfg.Resolve(texel)
	require.NoError(t, err)
	assert.Equal(t, edge.Vec2{X: 0.5, Y: 0.75}, p.Offset)

	// both present: the texel offset still wins
	path = filepath.Join(dir, "both.yaml")
	require.NoError(t, os.WriteFile(path, []byte("offset: [0.5, 0.75]\noffset_texels: 2\n"), 0644))
	cfg, err = Load(path)
	require.NoError(t, err)
	p, err = cfg.Resolve(texel)
	require.NoError(t, err)
	assert.Equal(t, edge.Vec2{X: 0.25, Y: 0.5}, p.Offset)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: [1, 2"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
