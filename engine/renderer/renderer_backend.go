package renderer

import (
	"github.com/Carmen-Shannon/oxy-bubble/common"
	"github.com/Carmen-Shannon/oxy-bubble/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-bubble/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// Only specific power-of-two values are valid for GPU hardware. WebGPU guarantees support for
// 1 (off) and 4; higher values (8, 16) are adapter-dependent and may not be available.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4

	// MSAA8x enables 8× multisample anti-aliasing. Adapter-dependent; not all hardware supports this.
	MSAA8x MSAASampleCount = 8

	// MSAA16x enables 16× multisample anti-aliasing. Adapter-dependent; not all hardware supports this.
	MSAA16x MSAASampleCount = 16
)

// RendererBackend is the GPU API behind the Renderer. The Renderer serializes calls and
// keeps resource accounting; the backend only creates, encodes and releases.
type RendererBackend interface {
	// ConfigureSurface (re)configures the surface and the depth and MSAA targets for a size.
	//
	// Parameters:
	//   - width: the surface width in pixels
	//   - height: the surface height in pixels
	//
	// Returns:
	//   - error: an error if a target could not be created
	ConfigureSurface(width, height int) error

	// SetPresentMode selects the present mode used by the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// RegisterRenderPipeline creates the shader modules, bind group layouts, pipeline layout
	// and render pipeline for p and stores them on it.
	//
	// Parameters:
	//   - p: the pipeline with both shaders set
	//
	// Returns:
	//   - int: the number of GPU objects left on p
	//   - error: an error if any creation step fails, after releasing what was created
	RegisterRenderPipeline(p pipeline.Pipeline) (int, error)

	// InitMeshBuffers creates and fills the vertex and index buffers of a mesh.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the buffers on
	//   - vertexData: the raw vertex data bytes
	//   - indexData: the raw index data bytes
	//   - indexCount: the number of indices
	//
	// Returns:
	//   - error: an error if a buffer could not be created
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitBindGroup creates missing buffers, the layout and the bind group for a provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to populate
	//   - descriptor: the bind group layout
	//
	// Returns:
	//   - error: an error if a resource is missing or could not be created
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// InitCubeTexture uploads every layer and mip level and creates a cube view.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the texture on
	//   - binding: the texture binding index
	//   - staging: validated six-layer staging data
	//
	// Returns:
	//   - error: an error if the texture or view could not be created
	InitCubeTexture(provider bind_group_provider.BindGroupProvider, binding int, staging common.TextureStagingData) error

	// InitSampler creates a sampler.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the sampler on
	//   - binding: the sampler binding index
	//   - staging: the sampler configuration
	//
	// Returns:
	//   - error: an error if the sampler could not be created
	InitSampler(provider bind_group_provider.BindGroupProvider, binding int, staging common.SamplerStagingData) error

	// WriteBuffers writes staged data to provider buffers through the queue.
	//
	// Parameters:
	//   - writes: the buffer writes
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the surface texture and begins the render pass.
	//
	// Returns:
	//   - error: an error if the surface texture could not be acquired
	BeginFrame() error

	// DrawCall encodes one indexed draw in the current render pass.
	//
	// Parameters:
	//   - p: the registered pipeline
	//   - meshProvider: the provider holding vertex and index buffers
	//   - instanceCount: the number of instances
	//   - bindGroups: providers bound to groups 0..n-1
	DrawCall(p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider)

	// EndFrame ends the render pass and submits the command buffer.
	EndFrame()

	// Present presents the surface texture.
	Present()

	// Release releases the surface targets, device, adapter, surface and instance.
	Release()
}
