package model

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-bubble/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSphere_Counts(t *testing.T) {
	m, err := NewSphere("bubble", PrimaryRadius, SphereSegments, SphereSegments)
	require.NoError(t, err)

	assert.Equal(t, "bubble", m.Name())
	assert.Len(t, m.Vertices(), 193*193)
	assert.Equal(t, 6*192*192-6*192, m.IndexCount())
	assert.Len(t, m.VertexData(), 193*193*32)
	assert.Len(t, m.IndexData(), m.IndexCount()*4)
	assert.Equal(t, "bubble_mesh", m.MeshProvider().Label())
	assert.InDelta(t, PrimaryRadius, m.BoundingRadius(), 1e-6)
}

func TestNewSphere_Geometry(t *testing.T) {
	m, err := NewSphere("s", 2, 16, 8)
	require.NoError(t, err)

	for _, v := range m.Vertices() {
		l := math.Sqrt(float64(common.Dot3(v.Position, v.Position)))
		assert.InDelta(t, 2, l, 1e-5)
		n := v.Normal
		assert.InDelta(t, 1, math.Sqrt(float64(common.Dot3(n, n))), 1e-5)
		assert.InDelta(t, v.Position[0]/2, n[0], 1e-5)
		assert.GreaterOrEqual(t, v.TexCoord[1], float32(0))
		assert.LessOrEqual(t, v.TexCoord[1], float32(1))
	}

	verts := m.Vertices()
	assert.InDelta(t, 2, verts[0].Position[1], 1e-6)
	assert.InDelta(t, -2, verts[len(verts)-1].Position[1], 1e-6)
	assert.InDelta(t, 1, verts[0].TexCoord[1], 1e-6)
	assert.InDelta(t, 0.5/16, verts[0].TexCoord[0], 1e-6)
}

func TestNewSphere_OutwardWinding(t *testing.T) {
	m, err := NewSphere("s", 1, 12, 6)
	require.NoError(t, err)

	verts := m.Vertices()
	idx := m.Indices()
	for i := 0; i < len(idx); i += 3 {
		a, b, c := verts[idx[i]].Position, verts[idx[i+1]].Position, verts[idx[i+2]].Position
		ab := [3]float32{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
		ac := [3]float32{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
		n := common.Cross3(ab, ac)
		centre := [3]float32{(a[0] + b[0] + c[0]) / 3, (a[1] + b[1] + c[1]) / 3, (a[2] + b[2] + c[2]) / 3}
		require.Greater(t, common.Dot3(n, centre), float32(0), "triangle %d faces inward", i/3)
	}
}

func TestNewSphere_Invalid(t *testing.T) {
	_, err := NewSphere("s", 1, 2, 8)
	assert.Error(t, err)
	_, err = NewSphere("s", 1, 8, 1)
	assert.Error(t, err)
	_, err = NewSphere("s", 0, 8, 8)
	assert.Error(t, err)
	_, err = NewSphere("s", 1, MaxSphereSegments+1, 8)
	assert.Error(t, err)
	_, err = NewSphere("s", 1, 8, 65535)
	assert.Error(t, err)
}

func TestObjectUniform(t *testing.T) {
	u := NewObjectUniform([3]float32{0, 1, 0}, 0, 0.5)
	require.Equal(t, 128, u.Size())
	assert.InDelta(t, 0.5, u.Model[0], 1e-7)
	assert.InDelta(t, 1, u.Model[13], 1e-7)
	// Inverse-transpose of a uniform scale is the reciprocal scale with no translation.
	assert.InDelta(t, 2, u.Normal[0], 1e-6)
	assert.InDelta(t, 0, u.Normal[13], 1e-7)

	buf := u.Marshal()
	require.Len(t, buf, 128)
	assert.Equal(t, math.Float32bits(u.Normal[0]), binary.LittleEndian.Uint32(buf[64:]))
}

func TestVertexMarshal(t *testing.T) {
	v := GPUVertex{Position: [3]float32{1, 2, 3}, Normal: [3]float32{0, 1, 0}, TexCoord: [2]float32{0.25, 0.75}}
	require.Equal(t, 32, v.Size())
	buf := v.Marshal()
	assert.Equal(t, math.Float32bits(3), binary.LittleEndian.Uint32(buf[8:]))
	assert.Equal(t, math.Float32bits(0.75), binary.LittleEndian.Uint32(buf[28:]))
	assert.Contains(t, GPUVertexSource, "@location(2) uv: vec2<f32>")
}
