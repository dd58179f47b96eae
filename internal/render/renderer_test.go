package render

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/edgeoverlay/internal/config"
	"github.com/ivlev/edgeoverlay/internal/texture"
)

func decodeFile(t *testing.T, path string) image.Image {
	t.Helper()
	src, err := texture.NewImageSource(path)
	require.NoError(t, err)
	img, err := src.Load(0)
	require.NoError(t, err)
	return img
}

func TestRendererSplitPattern(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Input = "split:8x4"
	cfg.Output = filepath.Join(dir, "split.png")
	cfg.ASCII = true
	cfg.ShowStats = true
	cfg.StatsLog = filepath.Join(dir, "benchmark.log")
	cfg.BuildVersion = "test"

	src, err := texture.Open(cfg.Input, cfg.DPI)
	require.NoError(t, err)

	var out bytes.Buffer
	r := NewRenderer(cfg, src)
	r.Out = &out

	rep, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, rep.Frames, 1)
	assert.Equal(t, 32, rep.Fragments)
	assert.Equal(t, 8, rep.Edges)
	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, cfg.Output, rep.Frames[0].Output)
	require.Len(t, rep.Frames[0].Regions, 1)
	assert.Equal(t, image.Rect(3, 0, 5, 4), rep.Frames[0].Regions[0].Rect)
	assert.Equal(t, 8, rep.Frames[0].Regions[0].Pixels)

	assert.Contains(t, out.String(), "...##...\n")
	assert.Contains(t, out.String(), "(контуров: 1)")
	assert.Contains(t, out.String(), "PERFORMANCE REPORT")

	img := decodeFile(t, cfg.Output)
	c := color.NRGBAModel.Convert(img.At(3, 0)).(color.NRGBA)
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, c)
	c = color.NRGBAModel.Convert(img.At(0, 0)).(color.NRGBA)
	assert.Zero(t, c.A)

	logData, err := os.ReadFile(cfg.StatsLog)
	require.NoError(t, err)
	assert.Contains(t, string(logData), rep.RunID)
	assert.Contains(t, string(logData), "Edges: 8")
}

func TestRendererDirectoryOfFrames(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	for _, spec := range []string{"split:6x2", "uniform:6x2"} {
		src, err := texture.NewPatternSource(spec)
		require.NoError(t, err)
		img, _ := src.Load(0)
		name := strings.Replace(spec, ":", "_", 1) + ".png"
		require.NoError(t, WriteImage(filepath.Join(in, name), img))
	}

	cfg := config.Default()
	cfg.Input = in
	cfg.Output = out
	cfg.Workers = 2
	cfg.Width, cfg.Height = 12, 4

	src, err := texture.Open(in, 0)
	require.NoError(t, err)
	r := NewRenderer(cfg, src)
	r.Out = &bytes.Buffer{}

	rep, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, rep.Frames, 2)

	assert.Equal(t, filepath.Join(out, "split_6x2_edges.png"), rep.Frames[0].Output)
	assert.Equal(t, filepath.Join(out, "uniform_6x2_edges.png"), rep.Frames[1].Output)
	assert.Positive(t, rep.Frames[0].Stats.Edges)
	assert.Zero(t, rep.Frames[1].Stats.Edges)
	assert.Empty(t, rep.Frames[1].Regions)

	img := decodeFile(t, rep.Frames[1].Output)
	assert.Equal(t, image.Rect(0, 0, 12, 4), img.Bounds())
}

func TestRendererRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Tolerance = []float32{0}
	src, err := texture.NewPatternSource("split")
	require.NoError(t, err)

	_, err = NewRenderer(cfg, src).Run(context.Background())
	assert.ErrorIs(t, err, config.ErrInvalidTolerance)
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output string
		count  int
		want   string
	}{
		{"", 1, filepath.Join("output", "f_edges.png")},
		{"-", 3, ""},
		{"out.bmp", 1, "out.bmp"},
		{"out.bmp", 2, filepath.Join("out.bmp", "f_edges.png")},
		{"frames", 1, filepath.Join("frames", "f_edges.png")},
	}

	for _, tt := range tests {
		r := &Renderer{Config: &config.Config{Output: tt.output}}
		assert.Equal(t, tt.want, r.outputPath("f", tt.count), "output %q count %d", tt.output, tt.count)
	}
}

func TestWriteImageFormats(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	for _, name := range []string{"a.png", "nested/b.bmp", "c.tiff"} {
		path := filepath.Join(dir, name)
		require.NoError(t, WriteImage(path, img), name)
		got := decodeFile(t, path)
		assert.Equal(t, img.Bounds(), got.Bounds(), name)
		c := color.NRGBAModel.Convert(got.At(1, 1)).(color.NRGBA)
		assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, c, name)
	}

	err := WriteImage(filepath.Join(dir, "d.gif"), img)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestRendererUsesConfiguredAddressing(t *testing.T) {
	cfg := config.Default()
	cfg.Input = "split:8x4"
	cfg.Output = "-"
	cfg.Addressing = "repeat"
	cfg.ASCII = true

	src, err := texture.Open(cfg.Input, 0)
	require.NoError(t, err)
	var out bytes.Buffer
	r := NewRenderer(cfg, src)
	r.Out = &out

	rep, err := r.Run(context.Background())
	require.NoError(t, err)
	// the wrapped columns at both borders join the split edge
	assert.Equal(t, 16, rep.Edges)
	assert.Contains(t, out.String(), "#..##..#\n")
	assert.Len(t, rep.Frames[0].Regions, 3)
}
