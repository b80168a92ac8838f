package environment

import (
	"image"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func luminance(img *image.RGBA, x, y int) float64 {
	c := img.RGBAAt(x, y)
	return 0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)
}

func TestBuild_Levels(t *testing.T) {
	m, err := NewBuilder().Build()
	require.NoError(t, err)
	require.Equal(t, uint32(5), m.MipLevelCount())
	assert.Equal(t, 64, m.FaceSize())
	assert.False(t, m.IsFlat())

	for level, faces := range m.Levels {
		for i, face := range faces {
			require.NotNil(t, face, "level %d face %d", level, i)
			assert.Equal(t, 64>>level, face.Bounds().Dx())
		}
	}
}

func TestBuild_FaceContent(t *testing.T) {
	m, err := NewBuilder(WithMipLevels(1)).Build()
	require.NoError(t, err)

	face := m.Levels[0][0]
	assert.Greater(t, luminance(face, 32, 32), luminance(face, 0, 0))
	assert.Equal(t, uint8(255), face.RGBAAt(5, 60).A)

	// Faces are hue-rotated copies of the same layout.
	assert.NotEqual(t, m.Levels[0][0].RGBAAt(32, 32), m.Levels[0][3].RGBAAt(32, 32))

	// Outside the disc and past the gradient radius the face shows the outer stop.
	want := colorful.Hsl(240, 0.5, 0.65)
	r, g, b := want.RGB255()
	got := face.RGBAAt(0, 0)
	assert.InDelta(t, r, got.R, 1)
	assert.InDelta(t, g, got.G, 1)
	assert.InDelta(t, b, got.B, 1)
}

func TestBuild_Deterministic(t *testing.T) {
	a, err := NewBuilder(WithWorkers(1)).Build()
	require.NoError(t, err)
	b, err := NewBuilder(WithWorkers(6)).Build()
	require.NoError(t, err)
	assert.Equal(t, a.Staging(), b.Staging())
}

func TestBuild_FilterSmooths(t *testing.T) {
	m, err := NewBuilder(WithFaceSize(32), WithMipLevels(3)).Build()
	require.NoError(t, err)

	spread := func(img *image.RGBA) float64 {
		n := img.Bounds().Dx()
		return luminance(img, n/2, n/2) - luminance(img, 0, 0)
	}
	assert.Less(t, spread(m.Levels[2][0]), spread(m.Levels[0][0]))
}

func TestBuild_Invalid(t *testing.T) {
	_, err := NewBuilder(WithFaceSize(0)).Build()
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewBuilder(WithFaceSize(8), WithMipLevels(5)).Build()
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewBuilder(WithMipLevels(0)).Build()
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestStaging(t *testing.T) {
	m, err := NewBuilder(WithFaceSize(16), WithMipLevels(3)).Build()
	require.NoError(t, err)

	s := m.Staging()
	assert.True(t, s.Validate())
	assert.Equal(t, uint32(6), s.Layers)
	assert.Equal(t, uint32(3), s.MipLevelCount())
	assert.Len(t, s.Pixels[1], 8*8*4*6)

	m.Discard()
	assert.Zero(t, m.MipLevelCount())
	assert.Zero(t, m.FaceSize())
}

func TestFlat(t *testing.T) {
	m := Flat()
	assert.True(t, m.IsFlat())
	s := m.Staging()
	assert.True(t, s.Validate())
	assert.Equal(t, uint32(1), s.Width)
	assert.Len(t, s.Pixels[0], 4*6)
}
