// Package animator advances the bubble's animation state once per frame: elapsed time, the
// idle bob and spin, and the lift-off transition that raises, shrinks and fades the bubble
// before notifying its caller.
package animator

import (
	"log/slog"
	"sync"

	"github.com/chewxy/math32"
)

// Phase is the lift state of the bubble.
type Phase int

const (
	// PhaseIdle is the resting phase, also entered once a lift completes.
	PhaseIdle Phase = iota
	// PhaseLifting is active between RequestLift and completion.
	PhaseLifting
)

// String returns the phase name.
func (p Phase) String() string {
	if p == PhaseLifting {
		return "lifting"
	}
	return "idle"
}

// TimeUniform receives the elapsed time each tick. Materials implement it.
type TimeUniform interface {
	SetTime(t float32)
}

// Pose is the derived transform and opacity of both bubble surfaces for one frame.
type Pose struct {
	Position       [3]float32
	RotationY      float32
	Scale          float32
	FilmOpacity    float32
	CarrierOpacity float32
}

// controller is the implementation of the Controller interface.
type controller struct {
	mu *sync.Mutex

	elapsedTime   float64
	lastFrameTime float64
	hasLastFrame  bool
	fixedStep     float64

	phase          Phase
	liftStartTime  float64
	liftDuration   float64
	liftDistance   float32
	startY         float32
	completed      bool
	onLiftComplete func()

	bobAmplitude   float32
	bobFrequency   float32
	rotationStep   float32
	carrierOpacity float32

	rotationY float32
	pose      Pose

	timeUniforms []TimeUniform
	logger       *slog.Logger
}

// Controller owns the animation state of one bubble. Tick is called from the frame callback
// and returns the pose to draw; RequestLift may be called from input handlers on the same
// goroutine or another.
type Controller interface {
	// Tick advances elapsed time to the frame timestamp and returns the resulting pose.
	// The first tick only records the timestamp. Timestamps earlier than the previous one
	// advance nothing.
	//
	// Parameters:
	//   - nowMs: the frame timestamp in milliseconds
	//
	// Returns:
	//   - Pose: the surfaces' transform and opacities
	Tick(nowMs float64) Pose

	// RequestLift starts the lift-off transition unless one is already running. onComplete,
	// which may be nil, is invoked exactly once when the transition finishes.
	//
	// Parameters:
	//   - onComplete: completion callback
	//
	// Returns:
	//   - bool: false if a lift was already in progress and the request was ignored
	RequestLift(onComplete func()) bool

	// Phase returns the current phase.
	//
	// Returns:
	//   - Phase: PhaseIdle or PhaseLifting
	Phase() Phase

	// ElapsedTime returns seconds accumulated since the first tick.
	//
	// Returns:
	//   - float64: elapsed seconds
	ElapsedTime() float64

	// LiftStartTime returns the elapsed time at which the last lift began.
	//
	// Returns:
	//   - float64: elapsed seconds, 0 if no lift was ever requested
	LiftStartTime() float64

	// Completed reports whether a lift has run to completion.
	//
	// Returns:
	//   - bool: true once the final pose is pinned
	Completed() bool

	// Pose returns the pose computed by the most recent tick.
	//
	// Returns:
	//   - Pose: the current pose
	Pose() Pose
}

var _ Controller = &controller{}

// NewController creates a Controller with the full-size bubble motion: 2.5 s lift over 15
// units, a 0.2 unit bob at 0.4 rad/s and 0.003 rad of spin per tick.
//
// Parameters:
//   - opts: functional options
//
// Returns:
//   - Controller: the controller
func NewController(opts ...ControllerOption) Controller {
	c := &controller{
		mu:             &sync.Mutex{},
		liftDuration:   2.5,
		liftDistance:   15,
		bobAmplitude:   0.2,
		bobFrequency:   0.4,
		rotationStep:   0.003,
		carrierOpacity: 0.03,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.pose = c.restingPose()
	return c
}

// NewMiniatureController creates a Controller for the decorative bubble: a fixed 16 ms step
// per tick, 0.002 rad of spin and no bob.
//
// Parameters:
//   - opts: additional options applied after the miniature defaults
//
// Returns:
//   - Controller: the controller
func NewMiniatureController(opts ...ControllerOption) Controller {
	return NewController(append([]ControllerOption{
		WithFixedStep(0.016),
		WithIdleMotion(0, 0, 0.002),
	}, opts...)...)
}

// EaseOutCubic returns 1 - (1 - t)^3, clamped to t in [0, 1].
//
// Parameters:
//   - t: progress
//
// Returns:
//   - float32: eased progress
func EaseOutCubic(t float32) float32 {
	t = min(max(t, 0), 1)
	inv := 1 - t
	return 1 - inv*inv*inv
}

func (c *controller) Tick(nowMs float64) Pose {
	c.mu.Lock()

	var delta float64
	switch {
	case c.fixedStep > 0:
		delta = c.fixedStep
	case c.hasLastFrame:
		delta = max((nowMs-c.lastFrameTime)/1000, 0)
	}
	c.hasLastFrame = true
	c.elapsedTime += delta
	c.lastFrameTime = nowMs

	var done func()
	if c.phase == PhaseLifting {
		done = c.advanceLift()
	}

	c.pose.Position[0] = math32.Sin(float32(c.elapsedTime)*c.bobFrequency) * c.bobAmplitude
	c.rotationY += c.rotationStep
	c.pose.RotationY = c.rotationY

	t := float32(c.elapsedTime)
	uniforms := c.timeUniforms
	pose := c.pose
	c.mu.Unlock()

	for _, u := range uniforms {
		u.SetTime(t)
	}
	// Invoked after unlocking so the callback may query or re-request.
	if done != nil {
		done()
	}
	return pose
}

// advanceLift updates the lift part of the pose. It returns the completion callback when
// this tick finishes the lift. Caller must hold c.mu.
func (c *controller) advanceLift() func() {
	elapsed := c.elapsedTime - c.liftStartTime
	if elapsed < c.liftDuration {
		eased := EaseOutCubic(float32(elapsed / c.liftDuration))
		c.pose.Position[1] = c.startY + c.liftDistance*eased
		c.pose.Scale = 1 - 0.9*eased
		c.pose.CarrierOpacity = max(0, c.carrierOpacity*(1-eased))
		c.pose.FilmOpacity = max(0, 1-eased)
		return nil
	}

	c.pose.Position[1] = c.startY + c.liftDistance
	c.pose.Scale = 0.1
	c.pose.CarrierOpacity = 0
	c.pose.FilmOpacity = 0
	c.phase = PhaseIdle
	c.completed = true

	done := c.onLiftComplete
	c.onLiftComplete = nil
	c.logger.Debug("lift complete", "elapsed", c.elapsedTime)
	return done
}

func (c *controller) RequestLift(onComplete func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == PhaseLifting {
		return false
	}
	c.liftStartTime = c.elapsedTime
	c.phase = PhaseLifting
	c.onLiftComplete = onComplete
	c.logger.Debug("lift requested", "elapsed", c.elapsedTime)
	return true
}

func (c *controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *controller) ElapsedTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsedTime
}

func (c *controller) LiftStartTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.liftStartTime
}

func (c *controller) Completed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.completed
}

func (c *controller) Pose() Pose {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pose
}

func (c *controller) restingPose() Pose {
	return Pose{
		Position:       [3]float32{0, c.startY, 0},
		Scale:          1,
		FilmOpacity:    1,
		CarrierOpacity: c.carrierOpacity,
	}
}
