package light

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimaryRig(t *testing.T) {
	b := NewPrimaryRig().Block()

	inv := float32(1 / math.Sqrt(3))
	assert.InDelta(t, inv, b.KeyDirection[0], 1e-6)
	assert.InDelta(t, inv, b.KeyDirection[2], 1e-6)
	assert.InDelta(t, 1.2, b.KeyIntensity, 1e-6)
	assert.Equal(t, [4]float32{1, 1, 1, 1}, b.KeyColor)

	assert.Less(t, b.FillDirection[0], float32(0))
	assert.Less(t, b.FillDirection[2], float32(0))
	assert.InDelta(t, 0.6, b.FillIntensity, 1e-6)
	assert.InDelta(t, 0x88/255.0, b.FillColor[0], 1e-6)
	assert.InDelta(t, 0xaa/255.0, b.FillColor[1], 1e-6)
	assert.InDelta(t, 1, b.FillColor[2], 1e-6)

	assert.InDelta(t, 0x40/255.0, b.Ambient[0], 1e-6)
	assert.InDelta(t, 0x50/255.0, b.Ambient[2], 1e-6)
	assert.InDelta(t, 0.4, b.AmbientLevel, 1e-6)
}

func TestZeroRig(t *testing.T) {
	var r *Rig
	assert.Equal(t, GPULightBlock{}, r.Block())
	assert.Equal(t, GPULightBlock{}, (&Rig{}).Block())
}

func TestDisabledLight(t *testing.T) {
	r := NewPrimaryRig()
	r.Fill.SetEnabled(false)
	b := r.Block()
	assert.Zero(t, b.FillIntensity)
	assert.NotZero(t, b.KeyIntensity)
}

func TestBlockMarshal(t *testing.T) {
	b := NewPrimaryRig().Block()
	require.Equal(t, 80, b.Size())
	buf := b.Marshal()
	require.Len(t, buf, 80)
	assert.Equal(t, math.Float32bits(1.2), binary.LittleEndian.Uint32(buf[12:]))
	assert.Equal(t, math.Float32bits(0.6), binary.LittleEndian.Uint32(buf[44:]))
	assert.Equal(t, math.Float32bits(0.4), binary.LittleEndian.Uint32(buf[76:]))
	assert.Equal(t, math.Float32bits(1), binary.LittleEndian.Uint32(buf[16:]))

	zero := GPULightBlock{}
	assert.Equal(t, make([]byte, 80), zero.Marshal())
	assert.Contains(t, GPULightBlockSource, "struct LightBlock")
}
