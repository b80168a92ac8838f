package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-bubble/config"
	"github.com/Carmen-Shannon/oxy-bubble/engine/driver"
	"github.com/Carmen-Shannon/oxy-bubble/engine/environment"
	"github.com/Carmen-Shannon/oxy-bubble/engine/profiler"
	"github.com/Carmen-Shannon/oxy-bubble/engine/renderer"
	"github.com/Carmen-Shannon/oxy-bubble/engine/scene"
	"github.com/Carmen-Shannon/oxy-bubble/engine/window"
)

// engine implements the Engine interface.
// Owns the window, renderer, bubble scene and render loop driver of one bubble instance.
type engine struct {
	mu *sync.Mutex

	cfg    config.Config
	logger *slog.Logger

	window   window.Window
	renderer renderer.Renderer
	scene    scene.BubbleScene
	driver   driver.Driver
	profiler *profiler.Profiler

	onLiftComplete func()
	onWobble       func(x, y float32)

	running  bool
	quitOnce sync.Once
	downOnce sync.Once
}

// Engine is the main entry point for the bubble.
// It wires the window's frame pacing and input to the scene through the render loop driver.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the GPU renderer.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// Scene returns the bubble scene.
	//
	// Returns:
	//   - scene.BubbleScene: the scene
	Scene() scene.BubbleScene

	// Driver returns the render loop driver.
	//
	// Returns:
	//   - driver.Driver: the driver
	Driver() driver.Driver

	// Run starts the render loop and blocks until the window closes, then tears down.
	Run()

	// Quit stops the render loop and closes the window. Safe to call multiple times;
	// subsequent calls are no-ops. Outside Run it tears down immediately.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates the window, renderer, scene and driver described by cfg.
//
// Parameters:
//   - cfg: the runtime configuration, validated here
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the ready engine, call Run to start it
//   - error: a config error, or the first construction failure after partial teardown
func NewEngine(cfg config.Config, options ...EngineBuilderOption) (Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := newEngine(cfg, options...)

	if err := e.build(); err != nil {
		e.teardown()
		return nil, err
	}
	e.wire()
	return e, nil
}

// newEngine applies the options without creating any platform resources.
func newEngine(cfg config.Config, options ...EngineBuilderOption) *engine {
	e := &engine{
		mu:     &sync.Mutex{},
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range options {
		opt(e)
	}
	if e.cfg.Profiling {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
	}
	return e
}

// build creates the platform and GPU objects in dependency order.
func (e *engine) build() error {
	variant, _ := e.cfg.Variant()
	presentMode, _ := e.cfg.PresentMode()
	msaa, _ := e.cfg.MSAA()

	win, err := window.NewWindow(
		window.WithTitle(e.cfg.Window.Title),
		window.WithSize(e.cfg.Window.Width, e.cfg.Window.Height),
		window.WithLogger(e.logger),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", renderer.ErrRenderingUnavailable, err)
	}
	e.window = win

	r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, win,
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(msaa),
		renderer.WithForceSoftwareRenderer(e.cfg.Renderer.ForceSoftware),
		renderer.WithLogger(e.logger),
	)
	if err != nil {
		return err
	}
	e.renderer = r

	s, err := scene.NewBubbleScene(r,
		scene.WithVariant(variant),
		scene.WithRadius(e.cfg.Bubble.Radius),
		scene.WithSegments(e.cfg.Bubble.Segments),
		scene.WithViewport(win.Width(), win.Height()),
		scene.WithEnvironmentOptions(
			environment.WithFaceSize(e.cfg.Bubble.EnvFaceSize),
			environment.WithMipLevels(e.cfg.Bubble.EnvMipLevels),
		),
		scene.WithLogger(e.logger),
	)
	if err != nil {
		return fmt.Errorf("failed to build bubble scene: %w", err)
	}
	e.scene = s

	opts := []driver.DriverOption{
		driver.WithWobbleThrottle(e.cfg.WobbleThrottle()),
		driver.WithResizeHandler(r.Resize),
		driver.WithResizeHandler(s.Resize),
		driver.WithLogger(e.logger),
	}
	if e.onWobble != nil {
		opts = append(opts, driver.WithWobbleCallback(e.onWobble))
	}
	if e.profiler != nil {
		opts = append(opts, driver.WithProfiler(e.profiler))
	}
	e.driver = driver.NewDriver(win, s, opts...)
	return nil
}

// wire connects window input to the driver and scene.
func (e *engine) wire() {
	e.window.SetResizeCallback(e.driver.Resize)
	e.window.SetClickCallback(e.click)
}

// click starts the lift. Clicks during a lift are ignored.
func (e *engine) click() {
	if e.scene.StartLift(e.liftComplete) {
		e.logger.Info("lift started")
		return
	}
	e.logger.Debug("click ignored", "phase", e.scene.Controller().Phase().String())
}

func (e *engine) liftComplete() {
	e.logger.Info("lift complete")
	if e.onLiftComplete != nil {
		e.onLiftComplete()
	}
	if e.cfg.QuitOnLiftComplete {
		e.Quit()
	}
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Scene() scene.BubbleScene {
	return e.scene
}

func (e *engine) Driver() driver.Driver {
	return e.driver
}

func (e *engine) Run() {
	e.mu.Lock()
	e.running = true
	e.mu.Unlock()

	e.driver.Start()
	e.window.ProcessMessages()

	e.mu.Lock()
	e.running = false
	e.mu.Unlock()
	e.teardown()
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		running := e.running
		e.mu.Unlock()
		if !running {
			e.teardown()
			return
		}
		// Run tears down once the message loop exits.
		e.driver.Stop()
		e.window.RequestClose()
	})
}

// teardown stops the driver, disposes the scene, releases the renderer and closes the window,
// in that order. Runs at most once.
func (e *engine) teardown() {
	e.downOnce.Do(func() {
		var errs []error
		if e.driver != nil {
			e.driver.Stop()
		}
		if e.scene != nil {
			errs = append(errs, e.scene.Dispose())
		}
		if e.renderer != nil {
			errs = append(errs, e.renderer.Release())
		}
		if e.window != nil {
			errs = append(errs, e.window.Close())
		}
		if err := errors.Join(errs...); err != nil {
			e.logger.Warn("teardown incomplete", "error", err)
			return
		}
		e.logger.Info("engine stopped")
	})
}
