package renderer

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-bubble/common"
	"github.com/Carmen-Shannon/oxy-bubble/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-bubble/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrRenderingUnavailable is returned when the host cannot provide an adapter, device or
// surface for accelerated rendering.
var ErrRenderingUnavailable = errors.New("accelerated rendering unavailable")

// ErrNoFrame is returned by DrawCall outside a BeginFrame/EndFrame pair.
var ErrNoFrame = errors.New("no frame in progress")

// SurfaceSource supplies the platform surface and its initial size. The window implements it.
type SurfaceSource interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	// live counts GPU objects created through this renderer and not yet released.
	live     int
	inFrame  bool
	released bool

	logger *slog.Logger

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	clearColor           wgpu.Color
}

// Renderer defines the interface for the rendering system.
//
// This is a high-level API over a GPU backend. The Renderer caches pipelines by key, fills
// BindGroupProviders with GPU resources, encodes one render pass per frame, and keeps a count
// of every GPU object it created so owners can verify teardown.
type Renderer interface {
	// Pipeline retrieves the cached Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// Pipelines returns a copy of the pipeline cache.
	//
	// Returns:
	//   - map[string]pipeline.Pipeline: a map of pipeline keys to their corresponding Pipeline objects
	Pipelines() map[string]pipeline.Pipeline

	// RegisterPipelines creates the GPU render pipeline for each Pipeline and caches it by
	// PipelineKey. Keys that are already registered are skipped. Registration stops at the
	// first failure; pipelines registered before it stay cached.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// ReleasePipeline releases the GPU objects of a cached pipeline and removes it from the cache.
	//
	// Parameters:
	//   - key: the pipeline key
	//
	// Returns:
	//   - bool: true if a pipeline was cached under key
	ReleasePipeline(key string) bool

	// InitMeshBuffers creates and uploads the vertex and index buffers of a mesh and stores
	// them on the provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created buffers on
	//   - vertexData: the raw vertex data bytes
	//   - indexData: the raw uint32 index data bytes
	//   - indexCount: the number of indices in indexData
	//
	// Returns:
	//   - error: an error if the buffers could not be created
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitBindGroup creates the buffers named by the descriptor's buffer entries, then the
	// bind group layout and bind group. Texture and sampler entries must already be present
	// on the provider. Buffer sizes come from the provider's overrides, else from each
	// entry's MinBindingSize.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to populate
	//   - descriptor: the layout of the bind group
	//
	// Returns:
	//   - error: an error if the bind group could not be initialized
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// InitCubeTexture uploads a six-layer mipmapped texture and stores it with a cube view on
	// the provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the texture on
	//   - binding: the binding index of the texture entry
	//   - staging: the pixel data, six layers per level
	//
	// Returns:
	//   - error: an error if the staging data is malformed or creation fails
	InitCubeTexture(provider bind_group_provider.BindGroupProvider, binding int, staging common.TextureStagingData) error

	// InitSampler creates a sampler and stores it on the provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the sampler on
	//   - binding: the binding index of the sampler entry
	//   - staging: the sampler configuration
	//
	// Returns:
	//   - error: an error if creation fails
	InitSampler(provider bind_group_provider.BindGroupProvider, binding int, staging common.SamplerStagingData) error

	// WriteBuffers queues buffer uploads. Writes to bindings without a buffer are skipped.
	//
	// Parameters:
	//   - writes: the buffer writes
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// ReleaseProvider releases every GPU object held by the provider. Safe to call on an
	// already released provider.
	//
	// Parameters:
	//   - provider: the provider to empty
	//
	// Returns:
	//   - int: the number of GPU objects released
	ReleaseProvider(provider bind_group_provider.BindGroupProvider) int

	// BeginFrame acquires the next surface texture and begins the render pass. Must be
	// paired with EndFrame.
	//
	// Returns:
	//   - error: an error if the surface texture could not be acquired
	BeginFrame() error

	// DrawCall encodes one indexed, instanced draw within the current frame. bindGroups are
	// bound in order starting at group 0.
	//
	// Parameters:
	//   - pipelineKey: the registered pipeline to draw with
	//   - meshProvider: the provider holding vertex and index buffers
	//   - instanceCount: the number of instances to draw
	//   - bindGroups: the providers for groups 0..n-1
	//
	// Returns:
	//   - error: ErrNoFrame outside a frame, or an error if the pipeline is not registered
	DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame ends the render pass and submits the frame's commands.
	EndFrame()

	// Present displays the frame and releases the surface texture.
	Present()

	// Resize reconfigures the surface and depth/MSAA targets. Zero sizes are ignored.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Resize(width, height int)

	// SetPresentMode sets how frames are delivered to the display. Takes effect on the next
	// Resize.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// LiveResources returns the number of GPU objects created through the renderer that have
	// not been released.
	//
	// Returns:
	//   - int: the live object count
	LiveResources() int

	// Release releases every cached pipeline and the device, surface and instance. Safe to
	// call multiple times.
	//
	// Returns:
	//   - error: always nil, teardown failures are tolerated
	Release() error
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer on the given surface.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - surface: the source of the platform surface descriptor and initial size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the renderer, with its surface configured
//   - error: wraps ErrRenderingUnavailable if no adapter, device or surface can be created
func NewRenderer(backendType RendererBackendType, surface SurfaceSource, options ...RendererBuilderOption) (Renderer, error) {
	r := newRenderer(backendType, options...)

	if surface == nil {
		return nil, fmt.Errorf("%w: no surface", ErrRenderingUnavailable)
	}
	descriptor := surface.SurfaceDescriptor()
	if descriptor == nil {
		return nil, fmt.Errorf("%w: window has no surface descriptor", ErrRenderingUnavailable)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	var backend RendererBackend
	var err error
	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		backend, err = newWGPURendererBackend(descriptor, r.forceFallbackAdapter, msaa, r.clearColor)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderingUnavailable, err)
	}

	if err := r.attach(backend, surface.Width(), surface.Height()); err != nil {
		backend.Release()
		return nil, fmt.Errorf("%w: %w", ErrRenderingUnavailable, err)
	}
	r.logger.Info("renderer ready", "msaa", uint32(msaa), "width", surface.Width(), "height", surface.Height())
	return r, nil
}

// newRenderer applies the options without creating a backend.
func newRenderer(backendType RendererBackendType, options ...RendererBuilderOption) *renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		logger:        slog.Default(),
	}
	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}
	return r
}

// attach installs the backend and configures the surface.
func (r *renderer) attach(backend RendererBackend, width, height int) error {
	r.backend = backend
	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	return r.backend.ConfigureSurface(max(width, 1), max(height, 1))
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return
	}
	if err := r.backend.ConfigureSurface(width, height); err != nil {
		r.logger.Warn("surface reconfigure failed", "width", width, "height", height, "error", err)
	}
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return
	}
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) Pipelines() map[string]pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make(map[string]pipeline.Pipeline, len(r.pipelineCache))
	for k, v := range r.pipelineCache {
		cp[k] = v
	}
	return cp
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return fmt.Errorf("register pipelines: %w", ErrRenderingUnavailable)
	}
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		created, err := r.backend.RegisterRenderPipeline(p)
		if err != nil {
			// Objects created before the failure are released by the backend.
			return fmt.Errorf("register pipeline %s: %w", key, err)
		}
		r.live += created
		r.pipelineCache[key] = p
		r.logger.Debug("pipeline registered", "key", key, "objects", created)
	}
	return nil
}

func (r *renderer) ReleasePipeline(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pipelineCache[key]
	if !ok {
		return false
	}
	r.live -= p.Release()
	delete(r.pipelineCache, key)
	return true
}

// track runs fn and adds the objects it stored on provider to the live count.
func (r *renderer) track(provider bind_group_provider.BindGroupProvider, fn func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return ErrRenderingUnavailable
	}
	before := provider.ResourceCount()
	err := fn()
	r.live += provider.ResourceCount() - before
	return err
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	return r.track(provider, func() error {
		return r.backend.InitMeshBuffers(provider, vertexData, indexData, indexCount)
	})
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	return r.track(provider, func() error {
		return r.backend.InitBindGroup(provider, descriptor)
	})
}

func (r *renderer) InitCubeTexture(provider bind_group_provider.BindGroupProvider, binding int, staging common.TextureStagingData) error {
	if !staging.Validate() || staging.Layers != 6 {
		return fmt.Errorf("cube texture %s: staging data does not describe six complete layers", provider.Label())
	}
	return r.track(provider, func() error {
		return r.backend.InitCubeTexture(provider, binding, staging)
	})
}

func (r *renderer) InitSampler(provider bind_group_provider.BindGroupProvider, binding int, staging common.SamplerStagingData) error {
	return r.track(provider, func() error {
		return r.backend.InitSampler(provider, binding, staging)
	})
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return
	}
	r.backend.WriteBuffers(writes)
}

func (r *renderer) ReleaseProvider(provider bind_group_provider.BindGroupProvider) int {
	if provider == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	released := provider.Release()
	r.live -= released
	return released
}

func (r *renderer) BeginFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return ErrRenderingUnavailable
	}
	if err := r.backend.BeginFrame(); err != nil {
		return err
	}
	r.inFrame = true
	return nil
}

func (r *renderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inFrame {
		return ErrNoFrame
	}
	p, exists := r.pipelineCache[pipelineKey]
	if !exists {
		return fmt.Errorf("render pipeline %q not registered", pipelineKey)
	}
	r.backend.DrawCall(p, meshProvider, instanceCount, bindGroups)
	return nil
}

func (r *renderer) EndFrame() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.inFrame {
		return
	}
	r.backend.EndFrame()
	r.inFrame = false
}

func (r *renderer) Present() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return
	}
	r.backend.Present()
}

func (r *renderer) LiveResources() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.live
}

func (r *renderer) Release() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return nil
	}
	for key, p := range r.pipelineCache {
		r.live -= p.Release()
		delete(r.pipelineCache, key)
	}
	if r.live != 0 {
		r.logger.Warn("renderer released with live resources", "count", r.live)
	}
	r.backend.Release()
	r.released = true
	return nil
}
