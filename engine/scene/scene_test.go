package scene

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Carmen-Shannon/oxy-bubble/common"
	"github.com/Carmen-Shannon/oxy-bubble/engine/animator"
	"github.com/Carmen-Shannon/oxy-bubble/engine/environment"
	"github.com/Carmen-Shannon/oxy-bubble/engine/renderer"
	"github.com/Carmen-Shannon/oxy-bubble/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-bubble/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-bubble/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type drawRecord struct {
	key    string
	groups []string
}

// fakeRenderer counts the objects each provider would hold on a real device.
type fakeRenderer struct {
	pipelines map[string]pipeline.Pipeline
	held      map[bind_group_provider.BindGroupProvider]int
	failKeys  map[string]error
	failCube  error

	inFrame  bool
	frames   int
	presents int
	writes   int
	draws    []drawRecord
}

var _ renderer.Renderer = &fakeRenderer{}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		pipelines: make(map[string]pipeline.Pipeline),
		held:      make(map[bind_group_provider.BindGroupProvider]int),
		failKeys:  make(map[string]error),
	}
}

func (f *fakeRenderer) Pipeline(key string) pipeline.Pipeline { return f.pipelines[key] }

func (f *fakeRenderer) Pipelines() map[string]pipeline.Pipeline {
	cp := make(map[string]pipeline.Pipeline, len(f.pipelines))
	for k, v := range f.pipelines {
		cp[k] = v
	}
	return cp
}

func (f *fakeRenderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	for _, p := range pipelines {
		if err := f.failKeys[p.PipelineKey()]; err != nil {
			return err
		}
		if _, ok := f.pipelines[p.PipelineKey()]; !ok {
			f.pipelines[p.PipelineKey()] = p
		}
	}
	return nil
}

func (f *fakeRenderer) ReleasePipeline(key string) bool {
	if _, ok := f.pipelines[key]; !ok {
		return false
	}
	delete(f.pipelines, key)
	return true
}

func (f *fakeRenderer) InitMeshBuffers(p bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	if len(vertexData) == 0 || len(indexData) != indexCount*4 {
		return errors.New("bad mesh")
	}
	f.held[p] += 2
	return nil
}

func (f *fakeRenderer) InitBindGroup(p bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	if len(descriptor.Entries) == 0 {
		return errors.New("empty layout")
	}
	buffers := 0
	for _, e := range descriptor.Entries {
		if e.Buffer.MinBindingSize > 0 {
			buffers++
		}
	}
	f.held[p] += buffers + 2
	return nil
}

func (f *fakeRenderer) InitCubeTexture(p bind_group_provider.BindGroupProvider, binding int, staging common.TextureStagingData) error {
	if f.failCube != nil {
		return f.failCube
	}
	if staging.Layers != 6 || !staging.Validate() {
		return fmt.Errorf("cube needs 6 layers, got %d", staging.Layers)
	}
	f.held[p] += 2
	return nil
}

func (f *fakeRenderer) InitSampler(p bind_group_provider.BindGroupProvider, binding int, staging common.SamplerStagingData) error {
	f.held[p]++
	return nil
}

func (f *fakeRenderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	f.writes += len(writes)
}

func (f *fakeRenderer) ReleaseProvider(p bind_group_provider.BindGroupProvider) int {
	n := f.held[p]
	delete(f.held, p)
	return n
}

func (f *fakeRenderer) BeginFrame() error {
	f.inFrame = true
	f.frames++
	return nil
}

func (f *fakeRenderer) DrawCall(key string, mesh bind_group_provider.BindGroupProvider, instances uint32, groups []bind_group_provider.BindGroupProvider) error {
	if !f.inFrame {
		return renderer.ErrNoFrame
	}
	if f.pipelines[key] == nil {
		return fmt.Errorf("pipeline %q not registered", key)
	}
	rec := drawRecord{key: key}
	for _, g := range groups {
		rec.groups = append(rec.groups, g.Label())
	}
	f.draws = append(f.draws, rec)
	return nil
}

func (f *fakeRenderer) EndFrame() { f.inFrame = false }

func (f *fakeRenderer) Present() { f.presents++ }

func (f *fakeRenderer) Resize(width, height int) {}

func (f *fakeRenderer) SetPresentMode(mode renderer.PresentMode) {}

func (f *fakeRenderer) LiveResources() int {
	n := 3 * len(f.pipelines)
	for _, c := range f.held {
		n += c
	}
	return n
}

func (f *fakeRenderer) Release() error { return nil }

// smallScene keeps construction fast: a coarse mesh and an 8px environment.
func smallScene(t *testing.T, r *fakeRenderer, opts ...SceneBuilderOption) BubbleScene {
	t.Helper()
	base := []SceneBuilderOption{
		WithSegments(8),
		WithEnvironmentOptions(environment.WithFaceSize(8), environment.WithMipLevels(2), environment.WithWorkers(2)),
	}
	s, err := NewBubbleScene(r, append(base, opts...)...)
	require.NoError(t, err)
	return s
}

func TestNewBubbleScene_Primary(t *testing.T) {
	r := newFakeRenderer()
	s := smallScene(t, r)

	assert.False(t, s.Degraded())
	assert.Equal(t, material.VariantPrimary, s.Variant())
	assert.Equal(t, material.FilmPipelineKey, s.Film().PipelineKey())
	assert.Equal(t, material.CarrierPipelineKey, s.Carrier().PipelineKey())
	assert.Contains(t, r.pipelines, material.FilmPipelineKey)
	assert.Contains(t, r.pipelines, material.CarrierPipelineKey)
	assert.NotContains(t, r.pipelines, material.FlatFilmPipelineKey)
	assert.Equal(t, animator.PhaseIdle, s.Controller().Phase())
	assert.Positive(t, s.LiveResources())
}

func TestNewBubbleScene_NilRendererPanics(t *testing.T) {
	assert.Panics(t, func() { _, _ = NewBubbleScene(nil) })
}

func TestRedraw_DrawsCarrierThenFilm(t *testing.T) {
	r := newFakeRenderer()
	s := smallScene(t, r)

	s.Advance(0)
	require.NoError(t, s.Redraw())

	require.Len(t, r.draws, 2)
	assert.Equal(t, material.CarrierPipelineKey, r.draws[0].key)
	assert.Equal(t, []string{"frame", "carrier"}, r.draws[0].groups)
	assert.Equal(t, material.FilmPipelineKey, r.draws[1].key)
	assert.Equal(t, []string{"frame", "film", "environment"}, r.draws[1].groups)
	assert.Equal(t, 6, r.writes)
	assert.Equal(t, 1, r.frames)
	assert.Equal(t, 1, r.presents)
	assert.False(t, r.inFrame)
}

func TestAdvance_PushesTimeAndOpacity(t *testing.T) {
	r := newFakeRenderer()
	s := smallScene(t, r)

	for _, ts := range []float64{0, 16, 33, 50} {
		pose := s.Advance(ts)
		assert.Equal(t, pose.FilmOpacity, s.Film().Opacity())
		assert.Equal(t, pose.CarrierOpacity, s.Carrier().Opacity())
	}
	assert.Equal(t, 4, s.Film().TimePushes())
	assert.Equal(t, 4, s.Carrier().TimePushes())
	assert.InDelta(t, 0.050, s.Film().Time(), 1e-6)
}

func TestDispose_DuringLiftReleasesEverything(t *testing.T) {
	r := newFakeRenderer()
	s := smallScene(t, r)

	require.True(t, s.StartLift(nil))
	s.Advance(0)
	s.Advance(500)
	require.NoError(t, s.Redraw())
	require.Equal(t, animator.PhaseLifting, s.Controller().Phase())

	require.NoError(t, s.Dispose())
	assert.Zero(t, s.LiveResources())
	assert.Empty(t, r.pipelines)

	assert.NoError(t, s.Dispose())
	assert.ErrorIs(t, s.Redraw(), ErrDisposed)
	assert.False(t, s.StartLift(nil))
}

func TestStartLift_CompletesOnce(t *testing.T) {
	r := newFakeRenderer()
	s := smallScene(t, r)

	calls := 0
	require.True(t, s.StartLift(func() { calls++ }))
	assert.False(t, s.StartLift(nil))
	for ts := 0.0; ts <= 3000; ts += 100 {
		s.Advance(ts)
	}
	assert.Equal(t, 1, calls)
	assert.True(t, s.Controller().Completed())
}

func TestFilmPipelineFailure_DegradesToFlat(t *testing.T) {
	r := newFakeRenderer()
	r.failKeys[material.FilmPipelineKey] = errors.New("shader module rejected")
	s := smallScene(t, r)

	assert.True(t, s.Degraded())
	assert.Equal(t, material.FlatFilmPipelineKey, s.Film().PipelineKey())

	require.NoError(t, s.Redraw())
	require.Len(t, r.draws, 2)
	assert.Equal(t, material.FlatFilmPipelineKey, r.draws[1].key)
	assert.Equal(t, []string{"frame", "film"}, r.draws[1].groups)

	require.NoError(t, s.Dispose())
	assert.Zero(t, r.LiveResources())
}

func TestEnvironmentFailure_UsesFlatMap(t *testing.T) {
	r := newFakeRenderer()
	s := smallScene(t, r, WithEnvironmentOptions(environment.WithFaceSize(0)))

	assert.True(t, s.Degraded())
	assert.Equal(t, material.FilmPipelineKey, s.Film().PipelineKey())
	require.NoError(t, s.Redraw())
	assert.Equal(t, []string{"frame", "film", "environment"}, r.draws[1].groups)
}

func TestCubeUploadFailure_FallsBackAndReleases(t *testing.T) {
	r := newFakeRenderer()
	r.failCube = errors.New("out of memory")
	s := smallScene(t, r)

	assert.True(t, s.Degraded())
	assert.Equal(t, material.FlatFilmPipelineKey, s.Film().PipelineKey())
	assert.NotContains(t, r.pipelines, material.FilmPipelineKey)

	require.NoError(t, s.Dispose())
	assert.Zero(t, r.LiveResources())
}

func TestCarrierFailure_ReleasesPartialResources(t *testing.T) {
	r := newFakeRenderer()
	r.failKeys[material.CarrierPipelineKey] = renderer.ErrRenderingUnavailable

	s, err := NewBubbleScene(r, WithSegments(8), WithEnvironmentOptions(environment.WithFaceSize(8), environment.WithMipLevels(2)))
	require.Error(t, err)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, renderer.ErrRenderingUnavailable)
	assert.Zero(t, r.LiveResources())
}

func TestMiniature(t *testing.T) {
	r := newFakeRenderer()
	s := smallScene(t, r, WithVariant(material.VariantMiniature))

	assert.Equal(t, material.VariantMiniature, s.Film().Variant())
	assert.False(t, s.StartLift(nil))

	s.Advance(0)
	s.Advance(1000)
	assert.InDelta(t, 0.032, s.Controller().ElapsedTime(), 1e-9)
	require.NoError(t, s.Redraw())
}

func TestResize_UpdatesAspectOnly(t *testing.T) {
	r := newFakeRenderer()
	s := smallScene(t, r, WithViewport(400, 400))
	assert.InDelta(t, 1.0, s.Camera().Aspect(), 1e-6)

	require.True(t, s.StartLift(nil))
	s.Advance(0)
	s.Resize(800, 400)
	s.Resize(0, 100)

	assert.InDelta(t, 2.0, s.Camera().Aspect(), 1e-6)
	assert.Equal(t, animator.PhaseLifting, s.Controller().Phase())
}
