package edge

// Sampler reads a texture at a normalized coordinate. Out-of-range
// coordinates are resolved by the implementation's addressing mode, so
// Sample always returns some color.
type Sampler interface {
	Sample(coord Vec2) Color
}

// SamplerFunc adapts a plain function to the Sampler interface.
type SamplerFunc func(coord Vec2) Color

// Sample calls f(coord).
func (f SamplerFunc) Sample(coord Vec2) Color { return f(coord) }

// SampleNeighborhood reads the center sample at coord and the four neighbors
// at coord ± (offset.X, 0) and coord ± (0, offset.Y).
//
// A zero offset makes every neighbor equal to the center.
func SampleNeighborhood(s Sampler, coord, offset Vec2) Neighborhood {
	var n Neighborhood
	n.Center = s.Sample(coord)
	n.Neighbors[PosX] = s.Sample(Vec2{X: coord.X + offset.X, Y: coord.Y})
	n.Neighbors[NegX] = s.Sample(Vec2{X: coord.X - offset.X, Y: coord.Y})
	n.Neighbors[PosY] = s.Sample(Vec2{X: coord.X, Y: coord.Y + offset.Y})
	n.Neighbors[NegY] = s.Sample(Vec2{X: coord.X, Y: coord.Y - offset.Y})
	return n
}
