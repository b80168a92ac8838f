package model

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-bubble/common"
)

// GPUVertexSource is the canonical WGSL definition of the VertexInput struct for sphere meshes.
// Matches GPUVertex layout exactly (32 bytes).
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// GPUVertex is the GPU-aligned representation of a single mesh vertex.
// Size: 32 bytes, tightly packed.
type GPUVertex struct {
	Position [3]float32 // offset  0: vertex position in model space
	Normal   [3]float32 // offset 12: unit surface normal
	TexCoord [2]float32 // offset 24: UV coordinate
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload.
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, 32)
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Position[i]))
		binary.LittleEndian.PutUint32(buf[12+i*4:], math.Float32bits(g.Normal[i]))
	}
	binary.LittleEndian.PutUint32(buf[24:], math.Float32bits(g.TexCoord[0]))
	binary.LittleEndian.PutUint32(buf[28:], math.Float32bits(g.TexCoord[1]))
	return buf
}

// GPUObjectUniformSource is the canonical WGSL definition of the ObjectUniform struct.
// Matches GPUObjectUniform layout exactly (128 bytes).
//
//go:embed assets/object_uniform.wgsl
var GPUObjectUniformSource string

// GPUObjectUniform carries the model-to-world transform and its inverse-transpose for normals.
// Size: 128 bytes.
type GPUObjectUniform struct {
	Model  [16]float32 // offset  0
	Normal [16]float32 // offset 64
}

// NewObjectUniform builds the uniform for a bubble placed at pos, spun by rotY about Y and
// uniformly scaled.
//
// Parameters:
//   - pos: world-space translation
//   - rotY: rotation about Y in radians
//   - scale: uniform scale factor
//
// Returns:
//   - GPUObjectUniform: model and normal matrices
func NewObjectUniform(pos [3]float32, rotY, scale float32) GPUObjectUniform {
	var u GPUObjectUniform
	common.BuildModelMatrix(u.Model[:], pos, rotY, scale)
	common.NormalMatrix(u.Normal[:], u.Model[:])
	return u
}

// Size returns the size of the GPUObjectUniform struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUObjectUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUObjectUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 128-byte buffer ready for GPU upload.
func (g *GPUObjectUniform) Marshal() []byte {
	buf := make([]byte, 128)
	for i := 0; i < 16; i++ {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Model[i]))
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.Normal[i]))
	}
	return buf
}
