// Package edge classifies fragments as lying on a color boundary.
//
// Classification is a pure function of the sampled neighborhood and the
// tolerance. Nothing here keeps state between invocations, so callers may run
// any number of fragments concurrently against the same texture.
package edge

// RoundingSlack bounds the float32 rounding error of a channel difference
// for channel values in [0, 1]. Quantized levels k/(2^n-1) are stored
// rounded, so two adjacent levels can differ by a few ulps more than one
// step. Larger magnitudes scale the slack.
const RoundingSlack = 1.0 / (1 << 22)

// Distinct reports whether neighbor differs from center by more than the
// tolerance in at least one channel. A difference equal to the tolerance,
// up to float32 rounding of the stored channel values, is not distinct.
func Distinct(center, neighbor Color, tol Tolerance) bool {
	return exceeds(center.R, neighbor.R, tol.R) ||
		exceeds(center.G, neighbor.G, tol.G) ||
		exceeds(center.B, neighbor.B, tol.B) ||
		exceeds(center.A, neighbor.A, tol.A)
}

func exceeds(a, b, tol float32) bool {
	scale := max(float32(1), abs(a), abs(b))
	return absDiff(a, b) > tol+RoundingSlack*scale
}

// ClassifyEdge decides whether the center sample sits on a boundary.
//
// The fragment is an edge if any neighbor is Distinct from the center. Edge
// fragments keep the center color unchanged; all others get the center color
// with alpha forced to 0.
func ClassifyEdge(center Color, neighbors [4]Color, tol Tolerance) (bool, Color) {
	for _, n := range neighbors {
		if Distinct(center, n, tol) {
			return true, center
		}
	}
	out := center
	out.A = 0
	return false, out
}

// Classify runs ClassifyEdge on a sampled neighborhood.
func (n Neighborhood) Classify(tol Tolerance) Result {
	isEdge, c := ClassifyEdge(n.Center, n.Neighbors, tol)
	return Result{Edge: isEdge, Color: c}
}

// Fragment runs the sampler stage and the classifier for one fragment.
func Fragment(s Sampler, coord, offset Vec2, tol Tolerance) Result {
	return SampleNeighborhood(s, coord, offset).Classify(tol)
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func absDiff(a, b float32) float32 {
	if a > b {
		return a - b
	}
	return b - a
}
