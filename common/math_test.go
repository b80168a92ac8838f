package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMul4Identity(t *testing.T) {
	var id, m, out [16]float32
	Identity(id[:])
	BuildModelMatrix(m[:], [3]float32{1, 2, 3}, 0.4, 2)

	Mul4(out[:], id[:], m[:])
	assert.Equal(t, m, out)

	Mul4(out[:], m[:], id[:])
	assert.Equal(t, m, out)
}

func TestInvert4RoundTrip(t *testing.T) {
	var m, inv, out, id [16]float32
	BuildModelMatrix(m[:], [3]float32{0.5, -1, 4}, 1.1, 1.7)
	require.True(t, Invert4(inv[:], m[:]))

	Mul4(out[:], m[:], inv[:])
	Identity(id[:])
	for i := range out {
		assert.InDelta(t, id[i], out[i], 1e-5, "element %d", i)
	}
}

func TestInvert4Singular(t *testing.T) {
	var zero, out [16]float32
	out[0] = 42
	assert.False(t, Invert4(out[:], zero[:]))
	assert.Equal(t, float32(42), out[0])
}

func TestBuildModelMatrixRotatesAroundY(t *testing.T) {
	var m [16]float32
	BuildModelMatrix(m[:], [3]float32{}, math32.Pi/2, 1)
	p := TransformPoint(m[:], [3]float32{1, 0, 0})
	assert.InDelta(t, 0, p[0], 1e-6)
	assert.InDelta(t, 0, p[1], 1e-6)
	assert.InDelta(t, -1, p[2], 1e-6)
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	var v [16]float32
	eye := [3]float32{0, 0, 7}
	LookAt(v[:], eye, [3]float32{}, [3]float32{0, 1, 0})
	p := TransformPoint(v[:], eye)
	for i := range p {
		assert.InDelta(t, 0, p[i], 1e-6)
	}
	// the target sits straight down -Z in view space
	target := TransformPoint(v[:], [3]float32{})
	assert.InDelta(t, -7, target[2], 1e-6)
}

func TestPerspectiveDepthRange(t *testing.T) {
	var p [16]float32
	Perspective(p[:], math32.Pi/2, 1, 0.1, 1000)

	clipZ := func(zView float32) float32 {
		z := p[10]*zView + p[14]
		w := p[11] * zView
		return z / w
	}
	assert.InDelta(t, 0, clipZ(-0.1), 1e-5)
	assert.InDelta(t, 1, clipZ(-1000), 1e-4)
}

func TestNormalMatrixUniformScale(t *testing.T) {
	var m, n [16]float32
	BuildModelMatrix(m[:], [3]float32{3, 0, 0}, 0, 2)
	NormalMatrix(n[:], m[:])
	assert.InDelta(t, 0.5, n[0], 1e-6)
	assert.InDelta(t, 0, n[12], 1e-6)
}

func TestTextureStagingValidate(t *testing.T) {
	tex := TextureStagingData{Width: 4, Height: 4, Layers: 6}
	tex.Pixels = [][]byte{make([]byte, 4*4*4*6), make([]byte, 2*2*4*6), make([]byte, 1*1*4*6)}
	assert.True(t, tex.Validate())
	assert.Equal(t, uint32(3), tex.MipLevelCount())

	w, h := tex.LevelSize(5)
	assert.Equal(t, uint32(1), w)
	assert.Equal(t, uint32(1), h)

	tex.Pixels[1] = tex.Pixels[1][:4]
	assert.False(t, tex.Validate())
}
