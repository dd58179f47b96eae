// Package render runs the edge classifier over every fragment of a render
// target and drives it frame by frame.
package render

import (
	"context"
	"image"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/edgeoverlay/internal/edge"
	"github.com/ivlev/edgeoverlay/internal/logging"
)

// Pass is one draw call: a texture bound to the sampler plus the uniforms
// shared by all fragments.
type Pass struct {
	Sampler   edge.Sampler
	Offset    edge.Vec2
	Tolerance edge.Tolerance

	// Workers bounds the number of bands rendered at once. Zero or less
	// renders bands one at a time.
	Workers int

	// BandRows is the number of rows per band. Zero picks a size that gives
	// every worker a few bands.
	BandRows int
}

// Stats summarizes a finished pass.
type Stats struct {
	Fragments int
	Edges     int
	Bands     int
	Duration  time.Duration
}

// Run invokes the classifier once per pixel of dst. The fragment at (x, y)
// samples at ((x+0.5)/W, (y+0.5)/H). Bands of rows run in parallel and each
// band writes only its own rows of dst.
//
// If ctx is cancelled the pass stops between rows and returns ctx's error;
// dst is then partially written.
func (p *Pass) Run(ctx context.Context, dst *image.NRGBA) (Stats, error) {
	start := time.Now()
	b := dst.Rect
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return Stats{}, nil
	}

	workers := max(p.Workers, 1)
	rows := p.BandRows
	if rows <= 0 {
		rows = max(h/(workers*4), 1)
	}
	bands := (h + rows - 1) / rows
	edges := make([]int, bands)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for band := 0; band < bands; band++ {
		y0 := band * rows
		y1 := min(y0+rows, h)
		g.Go(func() error {
			for y := y0; y < y1; y++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				edges[band] += p.row(dst, y, w, h)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	st := Stats{Fragments: w * h, Bands: bands, Duration: time.Since(start)}
	for _, n := range edges {
		st.Edges += n
	}

	logging.Logger().Debug("draw call finished",
		"width", w, "height", h, "bands", bands, "workers", workers,
		"edges", st.Edges, "duration", st.Duration)
	return st, nil
}

// row classifies row y of the target and returns its edge count.
func (p *Pass) row(dst *image.NRGBA, y, w, h int) int {
	n := 0
	v := (float32(y) + 0.5) / float32(h)
	pix := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
	for x := 0; x < w; x++ {
		coord := edge.Vec2{X: (float32(x) + 0.5) / float32(w), Y: v}
		res := edge.Fragment(p.Sampler, coord, p.Offset, p.Tolerance)
		if res.Edge {
			n++
		}
		px := pix[x*4 : x*4+4]
		px[0] = quantize(res.Color.R)
		px[1] = quantize(res.Color.G)
		px[2] = quantize(res.Color.B)
		px[3] = quantize(res.Color.A)
	}
	return n
}

// quantize maps a normalized channel to 8 bits, clamping out-of-range and
// NaN values.
func quantize(v float32) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(float64(v) * 255))
}
