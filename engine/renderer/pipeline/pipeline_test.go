package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-bubble/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-bubble/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformEntry(binding uint32, vis wgpu.ShaderStage, size uint64) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: vis,
		Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform, MinBindingSize: size},
	}
}

func TestMergeBindGroupLayouts(t *testing.T) {
	vertex := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Entries: []wgpu.BindGroupLayoutEntry{uniformEntry(0, wgpu.ShaderStageVertex, 80)}},
		1: {Entries: []wgpu.BindGroupLayoutEntry{
			uniformEntry(0, wgpu.ShaderStageVertex, 128),
			uniformEntry(1, wgpu.ShaderStageVertex, 64),
		}},
	}
	fragment := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Entries: []wgpu.BindGroupLayoutEntry{
			uniformEntry(1, wgpu.ShaderStageFragment, 80),
			uniformEntry(0, wgpu.ShaderStageFragment, 80),
		}},
		1: {Entries: []wgpu.BindGroupLayoutEntry{uniformEntry(1, wgpu.ShaderStageFragment, 64)}},
		2: {Entries: []wgpu.BindGroupLayoutEntry{uniformEntry(0, wgpu.ShaderStageFragment, 16)}},
	}

	merged := MergeBindGroupLayouts(vertex, fragment)
	require.Len(t, merged, 3)

	g0 := merged[0].Entries
	require.Len(t, g0, 2)
	assert.Equal(t, uint32(0), g0[0].Binding)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, g0[0].Visibility)
	assert.Equal(t, uint32(1), g0[1].Binding)
	assert.Equal(t, wgpu.ShaderStageFragment, g0[1].Visibility)

	g1 := merged[1].Entries
	require.Len(t, g1, 2)
	assert.Equal(t, wgpu.ShaderStageVertex, g1[0].Visibility)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, g1[1].Visibility)

	assert.Equal(t, fragment[2], merged[2])

	// inputs are not modified
	assert.Equal(t, wgpu.ShaderStageVertex, vertex[0].Entries[0].Visibility)
}

func TestMergeEmpty(t *testing.T) {
	assert.Empty(t, MergeBindGroupLayouts(nil, nil))
}

func TestFilmPipelineLayouts(t *testing.T) {
	prog, err := material.FilmProgram()
	require.NoError(t, err)
	vs, fs, err := prog.Compile(material.NewPreProcessor())
	require.NoError(t, err)

	p := NewPipeline(prog.Key, WithVertexShader(vs), WithFragmentShader(fs), WithTransparent(), WithCullMode(wgpu.CullModeBack))
	assert.Equal(t, material.FilmPipelineKey, p.PipelineKey())
	assert.Same(t, vs, p.Shader(shader.ShaderTypeVertex))
	assert.True(t, p.BlendEnabled())
	assert.False(t, p.DepthWriteEnabled())
	assert.True(t, p.DepthTestEnabled())
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())

	layouts := p.BindGroupLayoutDescriptors()
	require.Len(t, layouts, 3)

	frame := layouts[0].Entries
	require.Len(t, frame, 2)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, frame[0].Visibility)
	assert.Equal(t, uint64(80), frame[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageFragment, frame[1].Visibility)

	surface := layouts[1].Entries
	require.Len(t, surface, 2)
	assert.Equal(t, wgpu.ShaderStageVertex, surface[0].Visibility)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, surface[1].Visibility)

	env := layouts[2].Entries
	require.Len(t, env, 2)
	assert.Equal(t, wgpu.TextureViewDimensionCube, env[0].Texture.ViewDimension)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, env[1].Sampler.Type)
}

func TestUnregisteredPipeline(t *testing.T) {
	p := NewPipeline("empty")
	assert.False(t, p.Registered())
	assert.Nil(t, p.RenderPipeline())
	assert.Nil(t, p.BindGroupLayout(0))
	assert.Nil(t, p.BindGroupLayout(-1))
	assert.Zero(t, p.Release())
	assert.Zero(t, p.Release())
	assert.Empty(t, p.BindGroupLayoutDescriptors())
}

func TestDefaults(t *testing.T) {
	p := NewPipeline("defaults")
	assert.True(t, p.DepthTestEnabled())
	assert.True(t, p.DepthWriteEnabled())
	assert.False(t, p.BlendEnabled())
	assert.Equal(t, wgpu.CullModeNone, p.CullMode())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Equal(t, wgpu.FrontFaceCCW, p.FrontFace())
	assert.Equal(t, wgpu.ColorWriteMaskAll, p.WriteMask())
	require.NotNil(t, p.BlendState())
	assert.Equal(t, wgpu.BlendFactorSrcAlpha, p.BlendState().Color.SrcFactor)
}
