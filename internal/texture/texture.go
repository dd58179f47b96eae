// Package texture provides the read-only 2D color grid that the edge
// classifier samples, together with the sources textures are loaded from.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/ivlev/edgeoverlay/internal/edge"
)

// ErrUnknownAddressing is returned by ParseAddressing for unsupported names.
var ErrUnknownAddressing = errors.New("unknown addressing mode")

// Addressing decides what a sample outside [0,1) returns.
type Addressing uint8

const (
	// ClampToEdge repeats the outermost texel row/column.
	ClampToEdge Addressing = iota
	// Repeat wraps coordinates around, tiling the texture.
	Repeat
	// ClampToBorder returns transparent black outside the texture.
	ClampToBorder
)

func (a Addressing) String() string {
	switch a {
	case ClampToEdge:
		return "clamp"
	case Repeat:
		return "repeat"
	case ClampToBorder:
		return "border"
	default:
		return "unknown"
	}
}

// ParseAddressing maps "clamp", "repeat" or "border" to an Addressing.
// An empty name selects ClampToEdge.
func ParseAddressing(name string) (Addressing, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "clamp", "clamp-to-edge", "":
		return ClampToEdge, nil
	case "repeat", "wrap":
		return Repeat, nil
	case "border", "clamp-to-border":
		return ClampToBorder, nil
	default:
		return ClampToEdge, fmt.Errorf("%w: %q", ErrUnknownAddressing, name)
	}
}

// Texture is an immutable grid of normalized colors. It is safe to sample
// from any number of goroutines.
type Texture struct {
	width, height int
	texels        []edge.Color
	mode          Addressing
}

// New wraps texels (row-major, width*height entries). The slice is owned by
// the texture afterwards.
func New(width, height int, texels []edge.Color, mode Addressing) (*Texture, error) {
	if width < 0 || height < 0 || len(texels) != width*height {
		return nil, fmt.Errorf("texture: %d texels do not fill %dx%d", len(texels), width, height)
	}
	return &Texture{width: width, height: height, texels: texels, mode: mode}, nil
}

// FromImage converts img to a texture. Channels are read through
// color.NRGBA64Model so 16-bit sources keep their precision.
func FromImage(img image.Image, mode Addressing) *Texture {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	texels := make([]edge.Color, w*h)

	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := 0; y < h; y++ {
			row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
			for x := 0; x < w; x++ {
				p := row[x*4 : x*4+4]
				texels[y*w+x] = edge.Color{
					R: unorm8(p[0]),
					G: unorm8(p[1]),
					B: unorm8(p[2]),
					A: unorm8(p[3]),
				}
			}
		}
	} else {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := color.NRGBA64Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA64)
				texels[y*w+x] = edge.Color{
					R: unorm16(c.R),
					G: unorm16(c.G),
					B: unorm16(c.B),
					A: unorm16(c.A),
				}
			}
		}
	}

	return &Texture{width: w, height: h, texels: texels, mode: mode}
}

func unorm8(v uint8) float32   { return float32(float64(v) / 255) }
func unorm16(v uint16) float32 { return float32(float64(v) / 65535) }

// Width returns the texture width in texels.
func (t *Texture) Width() int { return t.width }

// Height returns the texture height in texels.
func (t *Texture) Height() int { return t.height }

// Addressing returns the addressing mode used by Sample.
func (t *Texture) Addressing() Addressing { return t.mode }

// At returns the texel at integer position (x, y), resolving out-of-range
// positions with the addressing mode.
func (t *Texture) At(x, y int) edge.Color {
	if t.width == 0 || t.height == 0 {
		return edge.Color{}
	}
	x, okX := t.resolve(x, t.width)
	y, okY := t.resolve(y, t.height)
	if !okX || !okY {
		return edge.Color{}
	}
	return t.texels[y*t.width+x]
}

// Sample returns the nearest texel to the normalized coordinate.
// Texel i covers [i/W, (i+1)/W), so texel centers sit at (i+0.5)/W.
func (t *Texture) Sample(coord edge.Vec2) edge.Color {
	if t.width == 0 || t.height == 0 {
		return edge.Color{}
	}
	x, okX := t.index(coord.X, t.width)
	y, okY := t.index(coord.Y, t.height)
	if !okX || !okY {
		return edge.Color{}
	}
	return t.texels[y*t.width+x]
}

// TexelSize returns the size of one texel in normalized units.
func (t *Texture) TexelSize() edge.Vec2 {
	if t.width == 0 || t.height == 0 {
		return edge.Vec2{}
	}
	return edge.Vec2{X: 1 / float32(t.width), Y: 1 / float32(t.height)}
}

// index converts a normalized coordinate to a texel index along an axis of
// n texels. It works in float64 until the value is known to fit an int.
func (t *Texture) index(u float32, n int) (int, bool) {
	f := float64(u)
	if math.IsNaN(f) {
		f = 0
	}

	switch t.mode {
	case Repeat:
		f -= math.Floor(f)
		if math.IsNaN(f) {
			// ±Inf
			f = 0
		}
		i := int(f * float64(n))
		if i >= n {
			i = n - 1
		}
		return i, true
	case ClampToBorder:
		p := math.Floor(f * float64(n))
		if p < 0 || p >= float64(n) {
			return 0, false
		}
		return int(p), true
	default:
		p := math.Floor(f * float64(n))
		if p < 0 {
			return 0, true
		}
		if p >= float64(n) {
			return n - 1, true
		}
		return int(p), true
	}
}

func (t *Texture) resolve(i, n int) (int, bool) {
	switch t.mode {
	case Repeat:
		i %= n
		if i < 0 {
			i += n
		}
		return i, true
	case ClampToBorder:
		return i, i >= 0 && i < n
	default:
		return min(max(i, 0), n-1), true
	}
}

// Uniform returns a w×h texture filled with c.
func Uniform(w, h int, c edge.Color) *Texture {
	texels := make([]edge.Color, w*h)
	for i := range texels {
		texels[i] = c
	}
	return &Texture{width: w, height: h, texels: texels}
}

// VerticalSplit returns a w×h texture whose columns x < w/2 are left and
// the rest right.
func VerticalSplit(w, h int, left, right edge.Color) *Texture {
	texels := make([]edge.Color, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < w/2 {
				texels[y*w+x] = left
			} else {
				texels[y*w+x] = right
			}
		}
	}
	return &Texture{width: w, height: h, texels: texels}
}

// WithAddressing returns a texture sharing t's texels but sampling with mode.
func (t *Texture) WithAddressing(mode Addressing) *Texture {
	cp := *t
	cp.mode = mode
	return &cp
}
