// Package analyzer groups the visible pixels of an edge overlay into
// connected outline regions.
package analyzer

import (
	"image"
	"sort"
)

// Region is one 4-connected group of visible overlay pixels.
type Region struct {
	Rect   image.Rectangle
	Pixels int
}

// Regions finds the connected groups of pixels with alpha > 0 in overlay and
// returns those with at least minPixels pixels, largest first.
func Regions(overlay *image.NRGBA, minPixels int) []Region {
	bounds := overlay.Rect
	visited := make([][]bool, bounds.Dy())
	for i := range visited {
		visited[i] = make([]bool, bounds.Dx())
	}

	regions := []Region{}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if visible(overlay, x, y) && !visited[y-bounds.Min.Y][x-bounds.Min.X] {
				r := floodFill(overlay, visited, x, y)
				if r.Pixels >= minPixels {
					regions = append(regions, r)
				}
			}
		}
	}

	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].Pixels > regions[j].Pixels
	})
	return regions
}

func visible(img *image.NRGBA, x, y int) bool {
	return img.Pix[img.PixOffset(x, y)+3] > 0
}

// floodFill marks the region containing (startX, startY) and returns its
// bounding rectangle and size.
func floodFill(img *image.NRGBA, visited [][]bool, startX, startY int) Region {
	bounds := img.Rect
	minX, minY := startX, startY
	maxX, maxY := startX, startY
	pixels := 0

	stack := []image.Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		x, y := p.X, p.Y

		if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}

		if visited[y-bounds.Min.Y][x-bounds.Min.X] || !visible(img, x, y) {
			continue
		}

		visited[y-bounds.Min.Y][x-bounds.Min.X] = true
		pixels++

		minX = min(minX, x)
		maxX = max(maxX, x)
		minY = min(minY, y)
		maxY = max(maxY, y)

		stack = append(stack,
			image.Point{X: x + 1, Y: y},
			image.Point{X: x - 1, Y: y},
			image.Point{X: x, Y: y + 1},
			image.Point{X: x, Y: y - 1},
		)
	}

	return Region{Rect: image.Rect(minX, minY, maxX+1, maxY+1), Pixels: pixels}
}
