package pipeline

import (
	"github.com/Carmen-Shannon/oxy-bubble/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineBuilderOption is a functional option used to configure a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithVertexShader sets the vertex shader for this pipeline.
//
// Parameters:
//   - s: the compiled vertex stage of a bubble program
//
// Returns:
//   - PipelineBuilderOption: a function that sets the vertex shader for this pipeline
func WithVertexShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexShader = s
	}
}

// WithFragmentShader sets the fragment shader for this pipeline.
//
// Parameters:
//   - s: the compiled fragment stage of a bubble program
//
// Returns:
//   - PipelineBuilderOption: a function that sets the fragment shader for this pipeline
func WithFragmentShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.fragmentShader = s
	}
}

// WithCullMode sets which triangle faces are discarded. The film renders its front side
// only, which culls back faces.
//
// Parameters:
//   - mode: the cull mode
//
// Returns:
//   - PipelineBuilderOption: a function that sets the cull mode for this pipeline
func WithCullMode(mode wgpu.CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.cullMode = mode
	}
}

// WithTransparent configures straight alpha blending over the target with depth testing
// against opaque geometry but no depth writes, so the carrier and film both stay visible.
//
// Returns:
//   - PipelineBuilderOption: a function that sets the transparent state for this pipeline
func WithTransparent() PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendEnabled = true
		p.depthTestEnabled = true
		p.depthWriteEnabled = false
	}
}
