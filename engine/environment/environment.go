// Package environment builds the synthetic reflection map the bubble film mirrors: six
// hue-rotated radial gradient faces with a soft highlight, pre-filtered into a mip chain
// whose coarser levels stand in for rougher reflection lobes.
package environment

import (
	"errors"
	"image"
	"image/color"

	"github.com/Carmen-Shannon/oxy-bubble/common"
)

// FaceCount is the number of cube faces.
const FaceCount = 6

// ErrInvalidConfig is returned by Build when the face size or mip count cannot produce a map.
var ErrInvalidConfig = errors.New("environment: invalid configuration")

// Map is a filtered cube reflection map. Levels[0] holds the unfiltered faces; each
// following level halves the size and widens the blur.
type Map struct {
	Levels [][FaceCount]*image.RGBA
	flat   bool
}

// Flat returns the 1×1 neutral map bound when the reflection map cannot be generated.
//
// Returns:
//   - *Map: a single-level map of light grey-blue faces
func Flat() *Map {
	var faces [FaceCount]*image.RGBA
	for i := range faces {
		img := image.NewRGBA(image.Rect(0, 0, 1, 1))
		img.SetRGBA(0, 0, color.RGBA{R: 200, G: 210, B: 230, A: 255})
		faces[i] = img
	}
	return &Map{Levels: [][FaceCount]*image.RGBA{faces}, flat: true}
}

// IsFlat reports whether m is the neutral fallback.
func (m *Map) IsFlat() bool {
	return m.flat
}

// FaceSize returns the edge length of level 0 in pixels.
func (m *Map) FaceSize() int {
	if len(m.Levels) == 0 || m.Levels[0][0] == nil {
		return 0
	}
	return m.Levels[0][0].Bounds().Dx()
}

// MipLevelCount returns the number of filtered levels.
func (m *Map) MipLevelCount() uint32 {
	return uint32(len(m.Levels))
}

// Staging packs the map for cube texture upload, faces in +X, -X, +Y, -Y, +Z, -Z order.
//
// Returns:
//   - common.TextureStagingData: six layers per mip level
func (m *Map) Staging() common.TextureStagingData {
	size := uint32(m.FaceSize())
	data := common.TextureStagingData{
		Width:  size,
		Height: size,
		Layers: FaceCount,
		Pixels: make([][]byte, len(m.Levels)),
	}
	for level, faces := range m.Levels {
		w, h := data.LevelSize(uint32(level))
		buf := make([]byte, 0, w*h*4*FaceCount)
		for _, face := range faces {
			buf = append(buf, tightPixels(face, int(w), int(h))...)
		}
		data.Pixels[level] = buf
	}
	return data
}

// Discard drops the intermediate images once they have been staged.
func (m *Map) Discard() {
	m.Levels = nil
}

// tightPixels returns img's pixels without row padding, sized w×h.
func tightPixels(img *image.RGBA, w, h int) []byte {
	if img.Stride == w*4 && len(img.Pix) == w*h*4 {
		return img.Pix
	}
	out := make([]byte, 0, w*h*4)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		out = append(out, row[:w*4]...)
	}
	return out
}
