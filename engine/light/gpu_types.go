package light

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPULightBlockSource is the canonical WGSL definition of the LightBlock struct.
// Matches GPULightBlock layout exactly (80 bytes).
//
//go:embed assets/light_block.wgsl
var GPULightBlockSource string

// GPULightBlock is the GPU-aligned representation of the bubble light rig: one key and one
// fill directional light plus an ambient term. A zero block contributes no light.
// Size: 80 bytes.
type GPULightBlock struct {
	KeyDirection  [3]float32 // offset  0: unit vector toward the key light
	KeyIntensity  float32    // offset 12
	KeyColor      [4]float32 // offset 16: rgb, w unused
	FillDirection [3]float32 // offset 32: unit vector toward the fill light
	FillIntensity float32    // offset 44
	FillColor     [4]float32 // offset 48: rgb, w unused
	Ambient       [3]float32 // offset 64: ambient rgb
	AmbientLevel  float32    // offset 76: ambient intensity
}

// Size returns the size of the GPULightBlock struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (g *GPULightBlock) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULightBlock struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 80-byte buffer ready for GPU upload
func (g *GPULightBlock) Marshal() []byte {
	buf := make([]byte, g.Size())
	put := func(off int, v float32) {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
	}
	for i := range 3 {
		put(i*4, g.KeyDirection[i])
		put(32+i*4, g.FillDirection[i])
		put(64+i*4, g.Ambient[i])
	}
	put(12, g.KeyIntensity)
	put(44, g.FillIntensity)
	put(76, g.AmbientLevel)
	for i := range 4 {
		put(16+i*4, g.KeyColor[i])
		put(48+i*4, g.FillColor[i])
	}
	return buf
}
