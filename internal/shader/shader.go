// Package shader carries the GPU rendition of the edge classifier: a WGSL
// vertex/fragment pair and the uniform block it reads.
//
// The CPU path in package render and this shader classify identically; the
// external pipeline owns device, texture and render-target setup.
package shader

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/naga"

	"github.com/ivlev/edgeoverlay/internal/edge"
)

//go:embed edge.wgsl
var edgeShaderWGSL string

// Entry points and bindings declared in edge.wgsl.
const (
	VertexEntry   = "vs_main"
	FragmentEntry = "fs_main"

	TextureBinding = 0
	SamplerBinding = 1
	UniformBinding = 2
)

// UniformSize is the byte size of the EdgeUniforms block.
const UniformSize = 32

// Source returns the WGSL source.
func Source() string {
	return edgeShaderWGSL
}

// CompileSPIRV compiles the shader to SPIR-V words.
func CompileSPIRV() ([]uint32, error) {
	spirvBytes, err := naga.Compile(edgeShaderWGSL)
	if err != nil {
		return nil, fmt.Errorf("shader: failed to compile edge shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("shader: SPIR-V length %d is not a multiple of 4", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	return words, nil
}

// Uniforms mirrors the EdgeUniforms block.
type Uniforms struct {
	Offset    edge.Vec2
	Tolerance edge.Tolerance
}

// Bytes packs u with std140 layout: offset (vec2), 8 bytes of padding,
// tolerance (vec4).
func (u Uniforms) Bytes() []byte {
	buf := make([]byte, UniformSize)
	put := func(i int, v float32) {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	put(0, u.Offset.X)
	put(1, u.Offset.Y)
	put(4, u.Tolerance.R)
	put(5, u.Tolerance.G)
	put(6, u.Tolerance.B)
	put(7, u.Tolerance.A)
	return buf
}
