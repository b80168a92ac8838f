package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVertexSource = `
struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) normal: vec3<f32>,
    @location(2) uv: vec2<f32>,
}

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) world_position: vec3<f32>,
}

struct Params {
    base_color: vec4<f32>,
    time: f32,
    offset: vec3<f32>,
}

struct Outer {
    p: Params,
    m: mat4x4<f32>,
}

/* @group(3) @binding(0) var<uniform> hidden: Params; */
@group(0) @binding(0) var<uniform> camera: Outer;
@group(1) @binding(1) var<uniform> material: Params;
@group(1) @binding(0) var<storage, read> lights: array<vec4<f32>>;
@group(2) @binding(1) var env_sampler: sampler;
@group(2) @binding(0) var env_map: texture_cube<f32>;

// @vertex fn commented_out() {}
@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    return out;
}
`

func TestParseEntryPoint(t *testing.T) {
	assert.Equal(t, "vs_main", parseEntryPoint(testVertexSource, ShaderTypeVertex))
	assert.Equal(t, "", parseEntryPoint(testVertexSource, ShaderTypeFragment))
	assert.Equal(t, "fs_main", parseEntryPoint("@fragment\nfn fs_main() -> @location(0) vec4<f32> {}", ShaderTypeFragment))
}

func TestParseVertexLayouts(t *testing.T) {
	layouts := parseVertexLayouts(testVertexSource)
	require.Len(t, layouts, 1)

	l := layouts[0]
	assert.Equal(t, uint64(32), l.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, l.StepMode)
	require.Len(t, l.Attributes, 3)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, l.Attributes[0].Format)
	assert.Equal(t, uint64(12), l.Attributes[1].Offset)
	assert.Equal(t, uint64(24), l.Attributes[2].Offset)
	assert.Equal(t, wgpu.VertexFormatFloat32x2, l.Attributes[2].Format)
	assert.Equal(t, uint32(2), l.Attributes[2].ShaderLocation)
}

func TestParseBindGroupLayouts(t *testing.T) {
	layouts, names := parseBindGroupLayouts(testVertexSource, wgpu.ShaderStageVertex)
	require.Len(t, layouts, 3)
	assert.NotContains(t, layouts, 3)

	g0 := layouts[0].Entries
	require.Len(t, g0, 1)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, g0[0].Buffer.Type)
	// Params is 48 bytes; Outer is 48 + 64.
	assert.Equal(t, uint64(112), g0[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageVertex, g0[0].Visibility)

	g1 := layouts[1].Entries
	require.Len(t, g1, 2)
	assert.Equal(t, uint32(0), g1[0].Binding)
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, g1[0].Buffer.Type)
	assert.Equal(t, uint32(1), g1[1].Binding)
	assert.Equal(t, uint64(48), g1[1].Buffer.MinBindingSize)

	g2 := layouts[2].Entries
	require.Len(t, g2, 2)
	assert.Equal(t, wgpu.TextureViewDimensionCube, g2[0].Texture.ViewDimension)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, g2[0].Texture.SampleType)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, g2[1].Sampler.Type)

	assert.Equal(t, "material", names[1][1])
	assert.Equal(t, "env_map", names[2][0])
}

func TestComputeStructSizes_OutOfOrder(t *testing.T) {
	structs := parseStructBlocks("struct B { a: A, f: f32, }\nstruct A { v: vec3<f32>, }")
	sizes := computeStructSizes(structs)
	assert.Equal(t, wgslTypeLayout{16, 16}, sizes["A"])
	assert.Equal(t, wgslTypeLayout{32, 16}, sizes["B"])
}

func TestStripComments(t *testing.T) {
	in := "a // line\nb /* block /* nested */ still */ c"
	assert.Equal(t, "a \nb  c", stripComments(in))
}

func TestSplitAtTopLevelCommas(t *testing.T) {
	parts := splitAtTopLevelCommas("a: array<f32, 4>, b: f32")
	assert.Equal(t, []string{"a: array<f32, 4>", " b: f32"}, parts)
}
