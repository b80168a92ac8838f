// Package driver runs the per-frame callback chain: it receives display-paced frames from a
// FrameSource, advances the bubble animation, redraws, and reports the UI wobble signal.
package driver

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-bubble/engine/animator"
	"github.com/Carmen-Shannon/oxy-bubble/engine/profiler"
	"github.com/chewxy/math32"
)

// FrameID identifies a requested frame so it can be cancelled.
type FrameID uint64

// FrameSource delivers one callback per display refresh. Requested callbacks run once, with
// the frame timestamp in milliseconds.
type FrameSource interface {
	RequestFrame(callback func(ts float64)) FrameID
	CancelFrame(id FrameID)
}

// Target is the scene driven by the loop.
type Target interface {
	Advance(nowMs float64) animator.Pose
	Redraw() error
}

// driver is the implementation of the Driver interface.
type driver struct {
	mu *sync.Mutex

	source FrameSource
	target Target

	running    bool
	pending    FrameID
	hasPending bool

	wobbleCallback  func(x, y float32)
	wobbleThrottle  time.Duration
	lastWobble      time.Time
	hasLastWobble   bool
	resizeHandlers  []func(width, height int)
	width, height   int
	profiler        *profiler.Profiler
	logger          *slog.Logger
	now             func() time.Time
	warnInterval    time.Duration
	lastWarn        time.Time
	suppressedWarns int
}

// Driver ties a FrameSource to a Target. Each frame runs, in order: the wobble callback,
// the animation advance, the redraw, the profiler, and the request for the next frame.
type Driver interface {
	// Start requests the first frame. Calling Start on a running driver does nothing.
	Start()

	// Stop cancels the pending frame and stops requesting new ones. Safe to call multiple times.
	Stop()

	// Running reports whether frames are being requested.
	//
	// Returns:
	//   - bool: true between Start and Stop
	Running() bool

	// Resize records new output dimensions and forwards them to the resize handlers.
	// Animation state is not touched.
	//
	// Parameters:
	//   - width: output width in pixels
	//   - height: output height in pixels
	Resize(width, height int)

	// Size returns the last dimensions passed to Resize.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	Size() (int, int)

	// Frame runs one frame at the given timestamp. It is the callback handed to the
	// FrameSource and does nothing once the driver is stopped.
	//
	// Parameters:
	//   - ts: frame timestamp in milliseconds
	Frame(ts float64)
}

var _ Driver = &driver{}

// NewDriver creates a Driver. It panics if source or target is nil.
//
// Parameters:
//   - source: the frame pacing source
//   - target: the scene to advance and redraw
//   - opts: functional options
//
// Returns:
//   - Driver: the stopped driver
func NewDriver(source FrameSource, target Target, opts ...DriverOption) Driver {
	if source == nil || target == nil {
		panic("driver: frame source and target are required")
	}
	d := &driver{
		mu:           &sync.Mutex{},
		source:       source,
		target:       target,
		logger:       slog.Default(),
		now:          time.Now,
		warnInterval: time.Second,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.profiler != nil {
		d.warnInterval = d.profiler.Interval()
	}
	return d
}

// Wobble returns the UI parallax pair for a raw frame timestamp.
//
// Parameters:
//   - ts: frame timestamp in milliseconds
//
// Returns:
//   - float32: horizontal offset
//   - float32: vertical offset
func Wobble(ts float64) (float32, float32) {
	return math32.Sin(float32(ts*0.001)) * 0.5, math32.Cos(float32(ts*0.0008)) * 0.5
}

func (d *driver) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return
	}
	d.running = true
	d.requestLocked()
	d.logger.Debug("driver started")
}

func (d *driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running {
		return
	}
	d.running = false
	if d.hasPending {
		d.source.CancelFrame(d.pending)
		d.hasPending = false
	}
	d.logger.Debug("driver stopped")
}

func (d *driver) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

func (d *driver) Resize(width, height int) {
	d.mu.Lock()
	d.width, d.height = width, height
	handlers := d.resizeHandlers
	d.mu.Unlock()

	for _, h := range handlers {
		h(width, height)
	}
}

func (d *driver) Size() (int, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.width, d.height
}

func (d *driver) Frame(ts float64) {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.hasPending = false
	deliver := d.wobbleDueLocked()
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		if d.running && !d.hasPending {
			d.requestLocked()
		}
		d.mu.Unlock()
	}()

	if deliver {
		if err := d.deliverWobble(ts); err != nil {
			d.warn(err)
		}
	}

	if err := d.advance(ts); err != nil {
		d.warn(err)
	}

	if d.profiler != nil {
		d.profiler.Tick()
	}
}

// deliverWobble hands the wobble pair to the callback. A panic in the callback is converted
// to an error.
func (d *driver) deliverWobble(ts float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("wobble callback at frame %.1f panicked: %v", ts, r)
		}
	}()
	d.wobbleCallback(Wobble(ts))
	return nil
}

// advance ticks and redraws the target. A panic in either is converted to an error so one
// bad frame does not end the loop.
func (d *driver) advance(ts float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("frame %.1f panicked: %v", ts, r)
		}
	}()
	d.target.Advance(ts)
	if err := d.target.Redraw(); err != nil {
		return fmt.Errorf("redraw: %w", err)
	}
	return nil
}

// warn logs a swallowed frame failure, at most once per warn interval.
func (d *driver) warn(err error) {
	d.mu.Lock()
	now := d.now()
	if !d.lastWarn.IsZero() && now.Sub(d.lastWarn) < d.warnInterval {
		d.suppressedWarns++
		d.mu.Unlock()
		return
	}
	suppressed := d.suppressedWarns
	d.suppressedWarns = 0
	d.lastWarn = now
	d.mu.Unlock()

	d.logger.Warn("frame failed", "error", err, "suppressed", suppressed)
}

// wobbleDueLocked reports whether the wobble callback runs this frame. Caller must hold d.mu.
func (d *driver) wobbleDueLocked() bool {
	if d.wobbleCallback == nil {
		return false
	}
	if d.wobbleThrottle <= 0 {
		return true
	}
	now := d.now()
	if d.hasLastWobble && now.Sub(d.lastWobble) <= d.wobbleThrottle {
		return false
	}
	d.lastWobble = now
	d.hasLastWobble = true
	return true
}

// requestLocked asks the source for the next frame. Caller must hold d.mu.
func (d *driver) requestLocked() {
	d.pending = d.source.RequestFrame(d.Frame)
	d.hasPending = true
}
