package driver

import (
	"log/slog"
	"time"

	"github.com/Carmen-Shannon/oxy-bubble/engine/profiler"
)

// DriverOption is a functional option applied during NewDriver.
type DriverOption func(*driver)

// WithWobbleCallback sets the receiver of the per-frame UI wobble pair.
//
// Parameters:
//   - callback: function receiving the horizontal and vertical offsets
//
// Returns:
//   - DriverOption: a function that sets the callback
func WithWobbleCallback(callback func(x, y float32)) DriverOption {
	return func(d *driver) {
		d.wobbleCallback = callback
	}
}

// WithWobbleThrottle limits wobble deliveries to one per interval of wall-clock time.
// Zero delivers every frame.
//
// Parameters:
//   - interval: minimum spacing between deliveries
//
// Returns:
//   - DriverOption: a function that sets the throttle
func WithWobbleThrottle(interval time.Duration) DriverOption {
	return func(d *driver) {
		d.wobbleThrottle = max(interval, 0)
	}
}

// WithClock replaces the wall clock used for throttling.
//
// Parameters:
//   - now: the clock function
//
// Returns:
//   - DriverOption: a function that sets the clock
func WithClock(now func() time.Time) DriverOption {
	return func(d *driver) {
		if now != nil {
			d.now = now
		}
	}
}

// WithResizeHandler registers a function called on every Resize.
//
// Parameters:
//   - handler: function receiving the new width and height
//
// Returns:
//   - DriverOption: a function that registers the handler
func WithResizeHandler(handler func(width, height int)) DriverOption {
	return func(d *driver) {
		if handler != nil {
			d.resizeHandlers = append(d.resizeHandlers, handler)
		}
	}
}

// WithProfiler ticks the profiler once per frame.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - DriverOption: a function that sets the profiler
func WithProfiler(p *profiler.Profiler) DriverOption {
	return func(d *driver) {
		d.profiler = p
	}
}

// WithLogger sets the driver's logger.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - DriverOption: a function that sets the logger
func WithLogger(logger *slog.Logger) DriverOption {
	return func(d *driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}
