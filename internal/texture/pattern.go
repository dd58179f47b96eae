package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// ErrUnknownPattern is returned for pattern specs this package cannot build.
var ErrUnknownPattern = errors.New("unknown pattern")

const (
	defaultPatternSize = 64
	defaultQRSize      = 256
)

var patternNames = []string{"qr", "split", "uniform", "alpha"}

// IsPattern reports whether spec names a generated pattern rather than a file.
func IsPattern(spec string) bool {
	name, _, _ := strings.Cut(spec, ":")
	for _, p := range patternNames {
		if name == p {
			return true
		}
	}
	return false
}

// PatternSource produces a single generated image:
//
//	qr:<text>        QR code of text, 256 px square
//	split[:WxH]      left half red, right half green
//	uniform[:WxH]    mid gray everywhere
//	alpha[:WxH]      same color, left half opaque, right half 50% alpha
type PatternSource struct {
	name string
	img  image.Image
}

func NewPatternSource(spec string) (*PatternSource, error) {
	name, arg, _ := strings.Cut(spec, ":")
	var (
		img image.Image
		err error
	)

	switch name {
	case "qr":
		img, err = QRImage(arg, defaultQRSize)
	case "split":
		img, err = splitImage(arg, color.NRGBA{R: 255, A: 255}, color.NRGBA{G: 255, A: 255})
	case "uniform":
		gray := color.NRGBA{R: 128, G: 128, B: 128, A: 255}
		img, err = splitImage(arg, gray, gray)
	case "alpha":
		img, err = splitImage(arg, color.NRGBA{R: 51, G: 77, B: 102, A: 255}, color.NRGBA{R: 51, G: 77, B: 102, A: 128})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPattern, spec)
	}
	if err != nil {
		return nil, err
	}

	return &PatternSource{name: name, img: img}, nil
}

func (s *PatternSource) Count() int                    { return 1 }
func (s *PatternSource) Name(int) string               { return s.name }
func (s *PatternSource) Load(int) (image.Image, error) { return s.img, nil }
func (s *PatternSource) Close() error                  { return nil }

// QRImage renders text as a black-on-white QR code of the given pixel size.
// The hard module boundaries make it a convenient edge-detection target.
func QRImage(text string, size int) (image.Image, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: qr pattern needs text", ErrUnknownPattern)
	}
	q, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}
	src := q.Image(size)

	// go-qrcode returns a paletted image; normalize to NRGBA.
	dst := image.NewNRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst, nil
}

func splitImage(arg string, left, right color.NRGBA) (image.Image, error) {
	w, h, err := parseSize(arg)
	if err != nil {
		return nil, err
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < w/2 {
				img.SetNRGBA(x, y, left)
			} else {
				img.SetNRGBA(x, y, right)
			}
		}
	}
	return img, nil
}

// maxPatternSize bounds each axis of a generated pattern.
const maxPatternSize = 8192

func parseSize(arg string) (int, int, error) {
	if arg == "" {
		return defaultPatternSize, defaultPatternSize, nil
	}
	ws, hs, ok := strings.Cut(arg, "x")
	if !ok {
		hs = ws
	}
	w, err := strconv.Atoi(ws)
	if err != nil || w <= 0 {
		return 0, 0, fmt.Errorf("%w: bad size %q", ErrUnknownPattern, arg)
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h <= 0 {
		return 0, 0, fmt.Errorf("%w: bad size %q", ErrUnknownPattern, arg)
	}
	if w > maxPatternSize || h > maxPatternSize {
		return 0, 0, fmt.Errorf("%w: size %q exceeds %d per axis", ErrUnknownPattern, arg, maxPatternSize)
	}
	return w, h, nil
}
