package material

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShadeFilm_HeadOn(t *testing.T) {
	in := FragmentInput{
		Normal: [3]float32{0, 0, 1},
		View:   [3]float32{0, 0, 1},
	}
	rgb, alpha := ShadeFilm(in)

	// fresnel = 0.04 and edge glow = 0 when looking straight at the surface.
	assert.InDelta(t, 0.16, alpha, 1e-6)
	for i, tint := range [3]float32{0.8, 0.9, 1.0} {
		assert.LessOrEqual(t, rgb[i], tint*0.48+1e-6)
		assert.GreaterOrEqual(t, rgb[i], float32(0))
	}
}

func TestShadeFilm_Grazing(t *testing.T) {
	in := FragmentInput{
		Normal: [3]float32{0, 0, 1},
		View:   [3]float32{1, 0, 0},
	}
	rgb, alpha := ShadeFilm(in)
	assert.InDelta(t, 0.6, alpha, 1e-6)
	assert.GreaterOrEqual(t, rgb[2], float32(0.4))
}

func TestShadeFilm_BackFacingClampsNdotV(t *testing.T) {
	front := FragmentInput{Normal: [3]float32{0, 0, 1}, View: [3]float32{1, 0, 0}, Time: 2}
	back := FragmentInput{Normal: [3]float32{0, 0, 1}, View: [3]float32{0, 0, -1}, Time: 2}
	rgbA, alphaA := ShadeFilm(front)
	rgbB, alphaB := ShadeFilm(back)
	assert.Equal(t, alphaA, alphaB)
	assert.Equal(t, rgbA, rgbB)
}

func TestShadeFilm_AlphaFloor(t *testing.T) {
	for _, tm := range []float32{0, 0.5, 3, 40} {
		for _, ndv := range []float32{0, 0.3, 0.7, 1} {
			in := FragmentInput{
				Normal:        [3]float32{0, 0, 1},
				View:          [3]float32{float32(math.Sqrt(float64(1 - ndv*ndv))), 0, ndv},
				WorldPosition: [3]float32{0.3, -0.2, 1.1},
				Time:          tm,
			}
			_, alpha := ShadeFilm(in)
			assert.GreaterOrEqual(t, alpha, float32(0.1))
			assert.LessOrEqual(t, alpha, float32(0.6)+1e-6)
		}
	}
}

func TestDisplacement(t *testing.T) {
	assert.InDelta(t, 0, Displacement([3]float32{0, 0, 0}, 0, 0.012), 1e-9)

	pos := [3]float32{0.1, 0.4, 0}
	want := 0.012 * math.Sin(0.4*8+1.6) * math.Cos(0.1*7+1.3)
	assert.InDelta(t, want, Displacement(pos, 1, 0.012), 1e-6)

	for _, tm := range []float32{0, 1.7, 9} {
		d := Displacement([3]float32{0.9, -0.3, 0.2}, tm, VariantPrimary.WobbleAmplitude())
		assert.LessOrEqual(t, math.Abs(float64(d)), 0.012+1e-7)
	}
}

func TestThinFilmTint(t *testing.T) {
	tint := ThinFilmTint([3]float32{0.2, 0.1, 1.6}, 0.5, FilmParams)
	for _, c := range tint {
		assert.GreaterOrEqual(t, c, float32(0))
		assert.LessOrEqual(t, c, float32(1)+1e-6)
	}

	off := FilmParams
	off.Iridescence = 0
	assert.Equal(t, [3]float32{1, 1, 1}, ThinFilmTint([3]float32{0.2, 0.1, 1.6}, 0.5, off))
}

func TestVariant(t *testing.T) {
	assert.InDelta(t, 0.012, VariantPrimary.WobbleAmplitude(), 1e-9)
	assert.InDelta(t, 0.01, VariantMiniature.WobbleAmplitude(), 1e-9)

	v, err := ParseVariant("miniature")
	require.NoError(t, err)
	assert.Equal(t, VariantMiniature, v)
	assert.Equal(t, "miniature", v.String())
	_, err = ParseVariant("huge")
	assert.Error(t, err)
}

func TestMaterial_TimeAndOpacity(t *testing.T) {
	m := NewFilm(VariantPrimary)
	assert.Equal(t, FilmPipelineKey, m.PipelineKey())
	assert.Equal(t, "film", m.BindGroupProvider().Label())

	m.SetTime(0.5)
	m.SetTime(1.25)
	assert.InDelta(t, 1.25, m.Time(), 1e-7)
	assert.Equal(t, 2, m.TimePushes())

	m.SetOpacity(1.5)
	assert.InDelta(t, 1, m.Opacity(), 1e-7)
	m.SetOpacity(-0.2)
	assert.Zero(t, m.Opacity())
}

func TestMaterial_Uniform(t *testing.T) {
	film := NewFilm(VariantMiniature)
	film.SetTime(2)
	film.SetEnvMipCount(5)
	u := film.Uniform()
	require.Equal(t, 64, u.Size())
	assert.Equal(t, [4]float32{1, 1, 1, 1}, u.BaseColor)
	assert.InDelta(t, 0.01, u.WobbleAmp, 1e-9)
	assert.InDelta(t, 1.3, u.IOR, 1e-6)
	assert.InDelta(t, 800, u.ThicknessMax, 1e-6)
	assert.InDelta(t, 0.02, u.ClearcoatRoughness, 1e-7)
	assert.InDelta(t, 5, u.EnvMipCount, 1e-7)

	buf := u.Marshal()
	require.Len(t, buf, 64)
	assert.Equal(t, math.Float32bits(2), binary.LittleEndian.Uint32(buf[16:]))
	assert.Equal(t, math.Float32bits(5), binary.LittleEndian.Uint32(buf[60:]))

	carrier := NewCarrier()
	cu := carrier.Uniform()
	assert.InDelta(t, CarrierOpacity, cu.BaseColor[3], 1e-7)
	assert.Zero(t, cu.WobbleAmp)
	assert.Zero(t, cu.Clearcoat)
	assert.Equal(t, KindCarrier, carrier.Kind())
}

func TestFilmProgram_Compiles(t *testing.T) {
	prog, err := FilmProgram()
	require.NoError(t, err)
	assert.True(t, prog.UsesEnvironment)
	assert.NotContains(t, prog.Vertex, "@oxy:slot")
	assert.NotContains(t, prog.Fragment, "@oxy:slot")

	vs, fs, err := prog.Compile(NewPreProcessor())
	require.NoError(t, err)
	assert.Equal(t, "vs_main", vs.EntryPoint())
	assert.Equal(t, "fs_main", fs.EntryPoint())

	layouts := vs.VertexLayouts()
	require.Len(t, layouts, 1)
	assert.Equal(t, uint64(32), layouts[0].ArrayStride)
	assert.Len(t, layouts[0].Attributes, 3)

	vg1 := vs.BindGroupLayoutDescriptor(1).Entries
	require.Len(t, vg1, 2)
	assert.Equal(t, uint64(128), vg1[0].Buffer.MinBindingSize)
	assert.Equal(t, uint64(64), vg1[1].Buffer.MinBindingSize)

	fg0 := fs.BindGroupLayoutDescriptor(0).Entries
	require.Len(t, fg0, 2)
	assert.Equal(t, uint64(80), fg0[0].Buffer.MinBindingSize)
	assert.Equal(t, uint64(80), fg0[1].Buffer.MinBindingSize)

	fg2 := fs.BindGroupLayoutDescriptor(2).Entries
	require.Len(t, fg2, 2)
	assert.Equal(t, wgpu.TextureViewDimensionCube, fg2[0].Texture.ViewDimension)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, fg2[1].Sampler.Type)
	assert.Equal(t, "env_map", fs.BindGroupVarName(2, 0))

	assert.Len(t, fs.Declarations(), 5)
}

func TestFallbackPrograms_NoEnvironmentGroup(t *testing.T) {
	for _, build := range []func() (Program, error){FlatFilmProgram, CarrierProgram} {
		prog, err := build()
		require.NoError(t, err)
		assert.False(t, prog.UsesEnvironment)

		_, fs, err := prog.Compile(NewPreProcessor())
		require.NoError(t, err, prog.Key)
		assert.Empty(t, fs.BindGroupLayoutDescriptor(2).Entries, prog.Key)
		assert.NotContains(t, fs.Source(), "texture_cube", prog.Key)
	}

	carrier, err := CarrierProgram()
	require.NoError(t, err)
	assert.Contains(t, carrier.Vertex, "return 0.0;")
}
