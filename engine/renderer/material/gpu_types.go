package material

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUMaterialParamsSource is the canonical WGSL definition of the MaterialParams struct.
// Matches GPUMaterialUniform layout exactly (64 bytes).
//
//go:embed assets/material_params.wgsl
var GPUMaterialParamsSource string

// GPUMaterialUniform is the per-surface uniform read by both bubble shader stages.
// Size: 64 bytes.
type GPUMaterialUniform struct {
	BaseColor          [4]float32 // offset  0: rgb tint, a = surface opacity
	Time               float32    // offset 16: elapsed seconds
	WobbleAmp          float32    // offset 20: vertex displacement amplitude
	EnvIntensity       float32    // offset 24
	Iridescence        float32    // offset 28
	IOR                float32    // offset 32: iridescence index of refraction
	ThicknessMin       float32    // offset 36: film thickness range in nm
	ThicknessMax       float32    // offset 40
	Clearcoat          float32    // offset 44
	Transmission       float32    // offset 48
	Roughness          float32    // offset 52
	ClearcoatRoughness float32    // offset 56
	EnvMipCount        float32    // offset 60: mip levels of the bound reflection map
}

// Size returns the size of the GPUMaterialUniform struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUMaterialUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMaterialUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload.
func (g *GPUMaterialUniform) Marshal() []byte {
	buf := make([]byte, 64)
	fields := [...]float32{
		g.BaseColor[0], g.BaseColor[1], g.BaseColor[2], g.BaseColor[3],
		g.Time, g.WobbleAmp, g.EnvIntensity, g.Iridescence,
		g.IOR, g.ThicknessMin, g.ThicknessMax, g.Clearcoat,
		g.Transmission, g.Roughness, g.ClearcoatRoughness, g.EnvMipCount,
	}
	for i, f := range fields {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}
