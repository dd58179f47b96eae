package edge

// Color is a normalized RGBA sample. Channels are straight (not premultiplied)
// and nominally lie in [0,1].
type Color struct {
	R, G, B, A float32
}

// Vec2 is a 2D vector in normalized texture-coordinate units.
type Vec2 struct {
	X, Y float32
}

// Tolerance holds the per-channel threshold below which two samples are
// treated as equal. Every component must be > 0.
type Tolerance struct {
	R, G, B, A float32
}

// DefaultTolerance matches 8-bit-per-channel textures.
var DefaultTolerance = ToleranceForBits(8)

// ToleranceForBits returns one quantization step, 1/(2^bits-1), per channel.
// Bit depths outside [1,16] fall back to 8 bits.
func ToleranceForBits(bits int) Tolerance {
	if bits < 1 || bits > 16 {
		bits = 8
	}
	step := float32(1.0 / float64(uint32(1)<<bits-1))
	return Tolerance{R: step, G: step, B: step, A: step}
}

// UniformTolerance returns a tolerance with the same value on all channels.
func UniformTolerance(v float32) Tolerance {
	return Tolerance{R: v, G: v, B: v, A: v}
}

// Neighbor directions inside Neighborhood.Neighbors.
const (
	PosX = iota
	NegX
	PosY
	NegY
)

// Neighborhood is the output of the sampler stage: the center sample plus
// the four axis-aligned neighbors ordered PosX, NegX, PosY, NegY.
type Neighborhood struct {
	Center    Color
	Neighbors [4]Color
}

// Result is the classification of one fragment.
type Result struct {
	Edge  bool
	Color Color
}
