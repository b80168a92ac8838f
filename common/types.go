// package common contains plain data types and math helpers shared across the engine.
package common

import "github.com/cogentcore/webgpu/wgpu"

// TextureStagingData holds RGBA8 pixel data for a texture binding pending GPU upload.
// Cube maps stage six layers per mip level.
type TextureStagingData struct {
	// Pixels holds one entry per mip level. Each entry is Layers tightly packed RGBA images of the level's size.
	Pixels [][]byte
	// Width is the width of mip level 0 in pixels.
	Width uint32
	// Height is the height of mip level 0 in pixels.
	Height uint32
	// Layers is the array layer count (6 for cube maps, 1 otherwise).
	Layers uint32
}

// MipLevelCount returns the number of staged mip levels.
func (t *TextureStagingData) MipLevelCount() uint32 {
	return uint32(len(t.Pixels))
}

// LevelSize returns the pixel dimensions of the given mip level.
//
// Parameters:
//   - level: mip level index
//
// Returns:
//   - uint32: width of the level, at least 1
//   - uint32: height of the level, at least 1
func (t *TextureStagingData) LevelSize(level uint32) (uint32, uint32) {
	return max(1, t.Width>>level), max(1, t.Height>>level)
}

// Validate reports whether every staged level matches its expected byte size.
func (t *TextureStagingData) Validate() bool {
	if t.Width == 0 || t.Height == 0 || t.Layers == 0 || len(t.Pixels) == 0 {
		return false
	}
	for i, px := range t.Pixels {
		w, h := t.LevelSize(uint32(i))
		if uint32(len(px)) != w*h*4*t.Layers {
			return false
		}
	}
	return true
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode outside [0, 1] per dimension.
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mip level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp bound the sampled level of detail.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy specifies the maximum anisotropy level.
	MaxAnisotropy uint16
}

// CubeSampler returns trilinear clamp-to-edge sampling across levels mip levels.
//
// Parameters:
//   - levels: number of mip levels in the sampled texture
//
// Returns:
//   - SamplerStagingData: the sampler configuration
func CubeSampler(levels uint32) SamplerStagingData {
	return SamplerStagingData{
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   float32(max(1, levels) - 1),
		MaxAnisotropy: 1,
	}
}
