package renderer

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/Carmen-Shannon/oxy-bubble/common"
	"github.com/Carmen-Shannon/oxy-bubble/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-bubble/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingBackend records calls without touching a GPU. It never stores GPU objects on
// providers, so accounting stays at zero for resources and counts pipeline objects only.
type recordingBackend struct {
	calls       []string
	registerErr error
	beginErr    error
	configured  [][2]int
	released    int
}

func (b *recordingBackend) ConfigureSurface(w, h int) error {
	b.configured = append(b.configured, [2]int{w, h})
	return nil
}
func (b *recordingBackend) SetPresentMode(PresentMode) { b.calls = append(b.calls, "present_mode") }
func (b *recordingBackend) RegisterRenderPipeline(p pipeline.Pipeline) (int, error) {
	b.calls = append(b.calls, "register:"+p.PipelineKey())
	if b.registerErr != nil {
		return 0, b.registerErr
	}
	return 0, nil
}
func (b *recordingBackend) InitMeshBuffers(bind_group_provider.BindGroupProvider, []byte, []byte, int) error {
	b.calls = append(b.calls, "mesh")
	return nil
}
func (b *recordingBackend) InitBindGroup(bind_group_provider.BindGroupProvider, wgpu.BindGroupLayoutDescriptor) error {
	b.calls = append(b.calls, "bind_group")
	return nil
}
func (b *recordingBackend) InitCubeTexture(bind_group_provider.BindGroupProvider, int, common.TextureStagingData) error {
	b.calls = append(b.calls, "cube")
	return nil
}
func (b *recordingBackend) InitSampler(bind_group_provider.BindGroupProvider, int, common.SamplerStagingData) error {
	b.calls = append(b.calls, "sampler")
	return nil
}
func (b *recordingBackend) WriteBuffers([]bind_group_provider.BufferWrite) {
	b.calls = append(b.calls, "write")
}
func (b *recordingBackend) BeginFrame() error {
	b.calls = append(b.calls, "begin")
	return b.beginErr
}
func (b *recordingBackend) DrawCall(p pipeline.Pipeline, _ bind_group_provider.BindGroupProvider, _ uint32, _ []bind_group_provider.BindGroupProvider) {
	b.calls = append(b.calls, "draw:"+p.PipelineKey())
}
func (b *recordingBackend) EndFrame() { b.calls = append(b.calls, "end") }
func (b *recordingBackend) Present()  { b.calls = append(b.calls, "present") }
func (b *recordingBackend) Release()  { b.released++ }

func newTestRenderer(t *testing.T, opts ...RendererBuilderOption) (*renderer, *recordingBackend) {
	t.Helper()
	opts = append([]RendererBuilderOption{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	r := newRenderer(BackendTypeWGPU, opts...)
	b := &recordingBackend{}
	require.NoError(t, r.attach(b, 640, 480))
	return r, b
}

type nilSurface struct{}

func (nilSurface) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (nilSurface) Width() int                                 { return 1 }
func (nilSurface) Height() int                                { return 1 }

func TestNewRendererWithoutSurface(t *testing.T) {
	_, err := NewRenderer(BackendTypeWGPU, nil)
	assert.ErrorIs(t, err, ErrRenderingUnavailable)

	_, err = NewRenderer(BackendTypeWGPU, nilSurface{})
	assert.ErrorIs(t, err, ErrRenderingUnavailable)
}

func TestAttachAppliesPresentMode(t *testing.T) {
	_, b := newTestRenderer(t, WithPresentMode(PresentModeVSync))
	assert.Equal(t, []string{"present_mode"}, b.calls)
	assert.Equal(t, [][2]int{{640, 480}}, b.configured)
}

func TestRegisterPipelinesSkipsDuplicates(t *testing.T) {
	r, b := newTestRenderer(t)
	p := pipeline.NewPipeline("film")

	require.NoError(t, r.RegisterPipelines(p))
	require.NoError(t, r.RegisterPipelines(pipeline.NewPipeline("film")))

	assert.Equal(t, []string{"register:film"}, b.calls)
	assert.Same(t, p, r.Pipeline("film"))
	assert.Len(t, r.Pipelines(), 1)
}

func TestRegisterPipelineFailureIsNotCached(t *testing.T) {
	r, b := newTestRenderer(t)
	b.registerErr = errors.New("bad wgsl")

	err := r.RegisterPipelines(pipeline.NewPipeline("film"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "film")
	assert.Nil(t, r.Pipeline("film"))
}

func TestReleasePipeline(t *testing.T) {
	r, _ := newTestRenderer(t)
	require.NoError(t, r.RegisterPipelines(pipeline.NewPipeline("carrier")))

	assert.True(t, r.ReleasePipeline("carrier"))
	assert.False(t, r.ReleasePipeline("carrier"))
	assert.Nil(t, r.Pipeline("carrier"))
}

func TestDrawCallRequiresFrame(t *testing.T) {
	r, b := newTestRenderer(t)
	require.NoError(t, r.RegisterPipelines(pipeline.NewPipeline("film")))
	mesh := bind_group_provider.NewBindGroupProvider("mesh")

	assert.ErrorIs(t, r.DrawCall("film", mesh, 1, nil), ErrNoFrame)

	require.NoError(t, r.BeginFrame())
	assert.NoError(t, r.DrawCall("film", mesh, 1, nil))
	assert.Error(t, r.DrawCall("missing", mesh, 1, nil))
	r.EndFrame()
	r.Present()

	assert.ErrorIs(t, r.DrawCall("film", mesh, 1, nil), ErrNoFrame)
	assert.Equal(t, []string{"register:film", "begin", "draw:film", "end", "present"}, b.calls)
}

func TestBeginFrameFailure(t *testing.T) {
	r, b := newTestRenderer(t)
	b.beginErr = errors.New("surface lost")

	assert.Error(t, r.BeginFrame())
	assert.ErrorIs(t, r.DrawCall("film", bind_group_provider.NewBindGroupProvider("m"), 1, nil), ErrNoFrame)
	r.EndFrame()
	assert.NotContains(t, b.calls, "end")
}

func TestInitCubeTextureValidatesStaging(t *testing.T) {
	r, b := newTestRenderer(t)
	provider := bind_group_provider.NewBindGroupProvider("env")

	err := r.InitCubeTexture(provider, 0, common.TextureStagingData{Width: 1, Height: 1, Layers: 1, Pixels: [][]byte{make([]byte, 4)}})
	assert.Error(t, err)

	err = r.InitCubeTexture(provider, 0, common.TextureStagingData{Width: 1, Height: 1, Layers: 6, Pixels: [][]byte{make([]byte, 24)}})
	assert.NoError(t, err)
	assert.Equal(t, []string{"cube"}, b.calls)
}

func TestResizeIgnoresZero(t *testing.T) {
	r, b := newTestRenderer(t)
	r.Resize(0, 100)
	r.Resize(800, 600)
	assert.Equal(t, [][2]int{{640, 480}, {800, 600}}, b.configured)
}

func TestReleaseIsIdempotent(t *testing.T) {
	r, b := newTestRenderer(t)
	require.NoError(t, r.Release())
	require.NoError(t, r.Release())
	assert.Equal(t, 1, b.released)
	assert.Zero(t, r.LiveResources())

	assert.ErrorIs(t, r.BeginFrame(), ErrRenderingUnavailable)
	assert.ErrorIs(t, r.InitBindGroup(bind_group_provider.NewBindGroupProvider("x"), wgpu.BindGroupLayoutDescriptor{}), ErrRenderingUnavailable)
	assert.Zero(t, r.ReleaseProvider(bind_group_provider.NewBindGroupProvider("x")))
	assert.Zero(t, r.ReleaseProvider(nil))
}
