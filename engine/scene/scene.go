package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-bubble/common"
	"github.com/Carmen-Shannon/oxy-bubble/engine/animator"
	"github.com/Carmen-Shannon/oxy-bubble/engine/camera"
	"github.com/Carmen-Shannon/oxy-bubble/engine/environment"
	"github.com/Carmen-Shannon/oxy-bubble/engine/light"
	"github.com/Carmen-Shannon/oxy-bubble/engine/model"
	"github.com/Carmen-Shannon/oxy-bubble/engine/renderer"
	"github.com/Carmen-Shannon/oxy-bubble/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-bubble/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-bubble/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// Bind group indices shared by every bubble pipeline.
const (
	groupFrame       = 0
	groupSurface     = 1
	groupEnvironment = 2
)

// Binding indices inside the frame and environment groups.
const (
	bindingCamera     = 0
	bindingLights     = 1
	bindingObject     = 0
	bindingMaterial   = 1
	bindingEnvTexture = 0
	bindingEnvSampler = 1
)

// ErrDisposed is returned by Redraw after Dispose.
var ErrDisposed = errors.New("scene disposed")

// scene is the implementation of the BubbleScene interface.
type scene struct {
	mu *sync.Mutex

	renderer renderer.Renderer
	logger   *slog.Logger

	variant     material.Variant
	radius      float32
	segments    int
	width       int
	height      int
	envOptions  []environment.BuilderOption
	animOptions []animator.ControllerOption

	film       material.Material
	carrier    material.Material
	sphere     model.Model
	cam        camera.Camera
	rig        *light.Rig
	controller animator.Controller

	frameProvider bind_group_provider.BindGroupProvider
	envProvider   bind_group_provider.BindGroupProvider

	// pipelineKeys lists the pipelines this scene registered, in registration order.
	pipelineKeys []string
	usesEnv      bool
	degraded     bool
	disposed     bool
}

// BubbleScene owns everything one bubble widget draws: the filtered environment map, the film
// and carrier materials, the shared sphere mesh, their pipelines, the camera and lights, and the
// animation controller. Surface transforms and opacities are derived from the controller's pose
// on every Advance and never accumulated. Exactly one BubbleScene exists per mounted bubble.
type BubbleScene interface {
	// Controller returns the animation controller driving the scene.
	//
	// Returns:
	//   - animator.Controller: the controller
	Controller() animator.Controller

	// Film returns the outer film material.
	//
	// Returns:
	//   - material.Material: the film material
	Film() material.Material

	// Carrier returns the inner carrier material.
	//
	// Returns:
	//   - material.Material: the carrier material
	Carrier() material.Material

	// Camera returns the scene camera.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Variant returns the bubble variant the scene was built for.
	//
	// Returns:
	//   - material.Variant: the variant
	Variant() material.Variant

	// Degraded reports whether the scene fell back to flat environment lighting, either because
	// the environment could not be generated or the environment-mapped film pipeline could not
	// be built.
	//
	// Returns:
	//   - bool: true when running on the fallback path
	Degraded() bool

	// StartLift asks the controller to begin the lift animation. The miniature variant never
	// lifts and always returns false.
	//
	// Parameters:
	//   - onComplete: invoked once when the lift finishes, may be nil
	//
	// Returns:
	//   - bool: true if a lift was started
	StartLift(onComplete func()) bool

	// Advance ticks the controller to nowMs and applies the resulting opacities to the
	// materials.
	//
	// Parameters:
	//   - nowMs: the frame timestamp in milliseconds
	//
	// Returns:
	//   - animator.Pose: the pose to draw this frame
	Advance(nowMs float64) animator.Pose

	// Redraw uploads the camera, light, object and material uniforms for the current pose,
	// then draws the carrier and the film in one frame and presents it.
	//
	// Returns:
	//   - error: ErrDisposed after Dispose, or the renderer's frame error
	Redraw() error

	// Resize updates the camera aspect ratio. It does not touch animation state.
	//
	// Parameters:
	//   - width, height: the new framebuffer size in pixels
	Resize(width, height int)

	// Dispose releases every provider and pipeline the scene created. Safe to call more
	// than once, and at any animation phase.
	//
	// Returns:
	//   - error: always nil
	Dispose() error

	// LiveResources returns the renderer's count of unreleased GPU objects.
	//
	// Returns:
	//   - int: the live object count
	LiveResources() int
}

var _ BubbleScene = &scene{}

// NewBubbleScene builds a bubble scene on the renderer. Construction runs in order:
// environment, materials, mesh, pipelines, bind groups, camera and lights, controller.
// Environment or film pipeline failures degrade to flat lighting; any other failure releases
// what was already created and returns the error.
//
// Parameters:
//   - r: the renderer to create GPU resources on, must not be nil
//   - options: variadic list of SceneBuilderOption functions to configure the scene
//
// Returns:
//   - BubbleScene: the scene, ready for Advance and Redraw
//   - error: an error if a required resource could not be created
func NewBubbleScene(r renderer.Renderer, options ...SceneBuilderOption) (BubbleScene, error) {
	if r == nil {
		panic("scene: nil renderer")
	}
	s := &scene{
		mu:       &sync.Mutex{},
		renderer: r,
		logger:   slog.Default(),
		variant:  material.VariantPrimary,
		segments: model.SphereSegments,
		width:    1,
		height:   1,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.radius <= 0 {
		s.radius = model.PrimaryRadius
		if s.variant == material.VariantMiniature {
			s.radius = model.MiniatureRadius
		}
	}

	if err := s.build(); err != nil {
		s.release()
		return nil, err
	}
	s.logger.Info("bubble scene ready",
		"variant", s.variant.String(),
		"pipeline", s.film.PipelineKey(),
		"degraded", s.degraded,
		"live", r.LiveResources(),
	)
	return s, nil
}

func (s *scene) build() error {
	envMap := s.buildEnvironment()

	s.film = material.NewFilm(s.variant)
	s.carrier = material.NewCarrier()

	sphere, err := model.NewSphere("bubble", s.radius, s.segments, s.segments)
	if err != nil {
		return fmt.Errorf("failed to build bubble mesh: %w", err)
	}
	s.sphere = sphere
	if err := s.renderer.InitMeshBuffers(sphere.MeshProvider(), sphere.VertexData(), sphere.IndexData(), sphere.IndexCount()); err != nil {
		return fmt.Errorf("failed to upload bubble mesh: %w", err)
	}

	carrierPipeline, err := s.registerProgram(material.CarrierProgram, wgpu.CullModeBack)
	if err != nil {
		return fmt.Errorf("failed to register carrier pipeline: %w", err)
	}
	filmPipeline, err := s.registerFilm()
	if err != nil {
		return err
	}

	layouts := filmPipeline.BindGroupLayoutDescriptors()
	s.frameProvider = bind_group_provider.NewBindGroupProvider("frame")
	if err := s.renderer.InitBindGroup(s.frameProvider, layouts[groupFrame]); err != nil {
		return fmt.Errorf("failed to init frame bind group: %w", err)
	}
	if err := s.renderer.InitBindGroup(s.film.BindGroupProvider(), layouts[groupSurface]); err != nil {
		return fmt.Errorf("failed to init film bind group: %w", err)
	}
	carrierLayouts := carrierPipeline.BindGroupLayoutDescriptors()
	if err := s.renderer.InitBindGroup(s.carrier.BindGroupProvider(), carrierLayouts[groupSurface]); err != nil {
		return fmt.Errorf("failed to init carrier bind group: %w", err)
	}

	if s.usesEnv {
		if err := s.uploadEnvironment(envMap, layouts[groupEnvironment]); err != nil {
			s.logger.Warn("environment upload failed, using flat lighting", "error", err)
			if err := s.fallBackToFlatFilm(); err != nil {
				return err
			}
		}
	}
	envMap.Discard()

	if s.variant == material.VariantMiniature {
		s.cam = camera.NewMiniatureCamera(s.aspect())
	} else {
		s.cam = camera.NewPrimaryCamera(s.aspect())
		s.rig = light.NewPrimaryRig()
	}

	opts := append([]animator.ControllerOption{
		animator.WithTimeUniform(s.film),
		animator.WithTimeUniform(s.carrier),
		animator.WithLogger(s.logger),
	}, s.animOptions...)
	if s.variant == material.VariantMiniature {
		s.controller = animator.NewMiniatureController(opts...)
	} else {
		s.controller = animator.NewController(opts...)
	}
	pose := s.controller.Pose()
	s.film.SetOpacity(pose.FilmOpacity)
	s.carrier.SetOpacity(pose.CarrierOpacity)
	return nil
}

// buildEnvironment generates the reflection map, or the flat map when generation fails.
func (s *scene) buildEnvironment() *environment.Map {
	m, err := environment.NewBuilder(append([]environment.BuilderOption{environment.WithLogger(s.logger)}, s.envOptions...)...).Build()
	if err != nil {
		s.logger.Warn("environment generation failed, using flat lighting", "error", err)
		s.degraded = true
		return environment.Flat()
	}
	return m
}

// registerFilm registers the environment-mapped film, falling back to the flat film program.
func (s *scene) registerFilm() (pipeline.Pipeline, error) {
	p, err := s.registerProgram(material.FilmProgram, wgpu.CullModeBack)
	if err == nil {
		s.usesEnv = true
		return p, nil
	}
	s.logger.Warn("film pipeline unavailable, using flat film", "error", err)
	s.degraded = true
	p, err = s.registerProgram(material.FlatFilmProgram, wgpu.CullModeBack)
	if err != nil {
		return nil, fmt.Errorf("failed to register flat film pipeline: %w", err)
	}
	s.film.SetPipelineKey(p.PipelineKey())
	return p, nil
}

// fallBackToFlatFilm swaps the film to the flat program after an environment upload failure.
func (s *scene) fallBackToFlatFilm() error {
	if s.envProvider != nil {
		s.renderer.ReleaseProvider(s.envProvider)
		s.envProvider = nil
	}
	s.renderer.ReleasePipeline(material.FilmPipelineKey)
	s.pipelineKeys = slices.DeleteFunc(s.pipelineKeys, func(k string) bool { return k == material.FilmPipelineKey })
	s.usesEnv = false
	s.degraded = true

	p, err := s.registerProgram(material.FlatFilmProgram, wgpu.CullModeBack)
	if err != nil {
		return fmt.Errorf("failed to register flat film pipeline: %w", err)
	}
	s.film.SetPipelineKey(p.PipelineKey())
	return nil
}

// registerProgram compiles a bubble program and registers it as a transparent pipeline.
func (s *scene) registerProgram(program func() (material.Program, error), cull wgpu.CullMode) (pipeline.Pipeline, error) {
	prog, err := program()
	if err != nil {
		return nil, err
	}
	vs, fs, err := prog.Compile(material.NewPreProcessor())
	if err != nil {
		return nil, err
	}
	p := pipeline.NewPipeline(prog.Key,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithTransparent(),
		pipeline.WithCullMode(cull),
	)
	if err := s.renderer.RegisterPipelines(p); err != nil {
		return nil, err
	}
	s.pipelineKeys = append(s.pipelineKeys, prog.Key)
	return p, nil
}

// uploadEnvironment creates the cube texture, its sampler and the environment bind group.
func (s *scene) uploadEnvironment(m *environment.Map, descriptor wgpu.BindGroupLayoutDescriptor) error {
	s.envProvider = bind_group_provider.NewBindGroupProvider("environment")
	if err := s.renderer.InitCubeTexture(s.envProvider, bindingEnvTexture, m.Staging()); err != nil {
		return fmt.Errorf("cube texture: %w", err)
	}
	if err := s.renderer.InitSampler(s.envProvider, bindingEnvSampler, common.CubeSampler(m.MipLevelCount())); err != nil {
		return fmt.Errorf("cube sampler: %w", err)
	}
	if err := s.renderer.InitBindGroup(s.envProvider, descriptor); err != nil {
		return fmt.Errorf("environment bind group: %w", err)
	}
	s.film.SetEnvMipCount(m.MipLevelCount())
	return nil
}

func (s *scene) aspect() float32 {
	return float32(max(s.width, 1)) / float32(max(s.height, 1))
}

func (s *scene) Controller() animator.Controller {
	return s.controller
}

func (s *scene) Film() material.Material {
	return s.film
}

func (s *scene) Carrier() material.Material {
	return s.carrier
}

func (s *scene) Camera() camera.Camera {
	return s.cam
}

func (s *scene) Variant() material.Variant {
	return s.variant
}

func (s *scene) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

func (s *scene) StartLift(onComplete func()) bool {
	if s.variant == material.VariantMiniature {
		s.logger.Debug("lift ignored on miniature bubble")
		return false
	}
	s.mu.Lock()
	disposed := s.disposed
	s.mu.Unlock()
	if disposed {
		return false
	}
	return s.controller.RequestLift(onComplete)
}

func (s *scene) Advance(nowMs float64) animator.Pose {
	pose := s.controller.Tick(nowMs)
	s.film.SetOpacity(pose.FilmOpacity)
	s.carrier.SetOpacity(pose.CarrierOpacity)
	return pose
}

func (s *scene) Redraw() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return ErrDisposed
	}

	pose := s.controller.Pose()
	object := model.NewObjectUniform(pose.Position, pose.RotationY, pose.Scale)
	camUniform := s.cam.Uniform()
	lights := s.rig.Block()
	filmUniform := s.film.Uniform()
	carrierUniform := s.carrier.Uniform()
	objectData := object.Marshal()

	s.renderer.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: s.frameProvider, Binding: bindingCamera, Data: camUniform.Marshal()},
		{Provider: s.frameProvider, Binding: bindingLights, Data: lights.Marshal()},
		{Provider: s.carrier.BindGroupProvider(), Binding: bindingObject, Data: objectData},
		{Provider: s.carrier.BindGroupProvider(), Binding: bindingMaterial, Data: carrierUniform.Marshal()},
		{Provider: s.film.BindGroupProvider(), Binding: bindingObject, Data: objectData},
		{Provider: s.film.BindGroupProvider(), Binding: bindingMaterial, Data: filmUniform.Marshal()},
	})

	if err := s.renderer.BeginFrame(); err != nil {
		return fmt.Errorf("failed to begin frame: %w", err)
	}
	mesh := s.sphere.MeshProvider()
	carrierGroups := []bind_group_provider.BindGroupProvider{s.frameProvider, s.carrier.BindGroupProvider()}
	filmGroups := []bind_group_provider.BindGroupProvider{s.frameProvider, s.film.BindGroupProvider()}
	if s.usesEnv {
		filmGroups = append(filmGroups, s.envProvider)
	}

	// The carrier sits inside the film and must be blended first.
	drawErr := s.renderer.DrawCall(s.carrier.PipelineKey(), mesh, 1, carrierGroups)
	if drawErr == nil {
		drawErr = s.renderer.DrawCall(s.film.PipelineKey(), mesh, 1, filmGroups)
	}
	s.renderer.EndFrame()
	s.renderer.Present()
	if drawErr != nil {
		return fmt.Errorf("failed to draw bubble: %w", drawErr)
	}
	return nil
}

func (s *scene) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.mu.Lock()
	s.width, s.height = width, height
	s.mu.Unlock()
	s.cam.SetViewport(width, height)
}

func (s *scene) Dispose() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return nil
	}
	released := s.release()
	s.disposed = true
	s.logger.Info("bubble scene disposed",
		"released", released,
		"phase", s.controller.Phase().String(),
		"live", s.renderer.LiveResources(),
	)
	return nil
}

// release frees every provider and pipeline created so far and returns the object count.
func (s *scene) release() int {
	n := 0
	providers := []bind_group_provider.BindGroupProvider{s.envProvider, s.frameProvider}
	if s.film != nil {
		providers = append(providers, s.film.BindGroupProvider())
	}
	if s.carrier != nil {
		providers = append(providers, s.carrier.BindGroupProvider())
	}
	if s.sphere != nil {
		providers = append(providers, s.sphere.MeshProvider())
	}
	for _, p := range providers {
		if p != nil {
			n += s.renderer.ReleaseProvider(p)
		}
	}
	for _, key := range s.pipelineKeys {
		if s.renderer.ReleasePipeline(key) {
			n++
		}
	}
	s.pipelineKeys = nil
	return n
}

func (s *scene) LiveResources() int {
	return s.renderer.LiveResources()
}
