package camera

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-bubble/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresets(t *testing.T) {
	p := NewPrimaryCamera(1.5)
	assert.InDelta(t, 75*math.Pi/180, p.Fov(), 1e-6)
	assert.Equal(t, [3]float32{0, 0, 7}, p.Position())
	assert.InDelta(t, 0.1, p.Near(), 1e-7)
	assert.InDelta(t, 1000, p.Far(), 1e-4)
	assert.InDelta(t, 1.5, p.Aspect(), 1e-7)

	m := NewMiniatureCamera(1)
	assert.InDelta(t, 45*math.Pi/180, m.Fov(), 1e-6)
	assert.Equal(t, [3]float32{0, 0, 4}, m.Position())
	assert.InDelta(t, 20, m.Far(), 1e-6)
}

func TestOriginProjectsToCentre(t *testing.T) {
	c := NewPrimaryCamera(16.0 / 9.0)
	vp := c.ViewProjectionMatrix()

	// Clip-space of the origin: x = y = 0 and w = distance to the eye.
	x := vp[12]
	y := vp[13]
	z := vp[14]
	w := vp[15]
	assert.InDelta(t, 0, x, 1e-5)
	assert.InDelta(t, 0, y, 1e-5)
	assert.InDelta(t, 7, w, 1e-4)
	ndcZ := z / w
	assert.Greater(t, ndcZ, float32(0))
	assert.Less(t, ndcZ, float32(1))
}

func TestSetViewport(t *testing.T) {
	c := NewPrimaryCamera(1)
	before := c.ProjectionMatrix()

	c.SetViewport(800, 400)
	assert.InDelta(t, 2, c.Aspect(), 1e-7)
	after := c.ProjectionMatrix()
	assert.InDelta(t, before[0]/2, after[0], 1e-6)
	assert.Equal(t, before[5], after[5])

	c.SetViewport(0, 400)
	assert.InDelta(t, 2, c.Aspect(), 1e-7)
	c.SetAspect(-1)
	assert.InDelta(t, 2, c.Aspect(), 1e-7)
}

func TestSetPosition(t *testing.T) {
	c := NewCamera()
	c.SetPosition(0, 0, 10)
	view := c.ViewMatrix()
	p := common.TransformPoint(view[:], [3]float32{0, 0, 0})
	assert.InDelta(t, -10, p[2], 1e-5)
}

func TestUniformMarshal(t *testing.T) {
	c := NewCamera(WithPosition(1, 2, 3), WithFovDegrees(60))
	u := c.Uniform()
	require.Equal(t, 80, u.Size())

	buf := u.Marshal()
	require.Len(t, buf, 80)
	vp := c.ViewProjectionMatrix()
	assert.Equal(t, math.Float32bits(vp[5]), binary.LittleEndian.Uint32(buf[20:]))
	assert.Equal(t, math.Float32bits(2), binary.LittleEndian.Uint32(buf[68:]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(buf[76:]))
}

func TestUniformSourceMatches(t *testing.T) {
	assert.Contains(t, GPUCameraUniformSource, "struct CameraUniform")
	assert.Contains(t, GPUCameraUniformSource, "view_proj: mat4x4<f32>")
}
