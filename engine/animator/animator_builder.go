package animator

import "log/slog"

// ControllerOption is a functional option applied during NewController.
type ControllerOption func(*controller)

// WithTimeUniform registers a receiver for the elapsed time pushed on every tick.
//
// Parameters:
//   - u: the time receiver
//
// Returns:
//   - ControllerOption: a function that registers the receiver
func WithTimeUniform(u TimeUniform) ControllerOption {
	return func(c *controller) {
		if u != nil {
			c.timeUniforms = append(c.timeUniforms, u)
		}
	}
}

// WithStartY sets the resting height of the bubble.
//
// Parameters:
//   - y: resting Y position
//
// Returns:
//   - ControllerOption: a function that sets the start height
func WithStartY(y float32) ControllerOption {
	return func(c *controller) {
		c.startY = y
	}
}

// WithLiftDuration sets the lift transition length in seconds.
//
// Parameters:
//   - seconds: the duration, must be positive
//
// Returns:
//   - ControllerOption: a function that sets the duration
func WithLiftDuration(seconds float64) ControllerOption {
	return func(c *controller) {
		if seconds > 0 {
			c.liftDuration = seconds
		}
	}
}

// WithLiftDistance sets how far the bubble rises during the lift.
//
// Parameters:
//   - distance: world units
//
// Returns:
//   - ControllerOption: a function that sets the distance
func WithLiftDistance(distance float32) ControllerOption {
	return func(c *controller) {
		c.liftDistance = distance
	}
}

// WithIdleMotion sets the horizontal bob and the spin applied every tick.
//
// Parameters:
//   - bobAmplitude: bob distance in world units
//   - bobFrequency: bob angular frequency in rad/s of elapsed time
//   - rotationStep: spin about Y per tick in radians
//
// Returns:
//   - ControllerOption: a function that sets the idle motion
func WithIdleMotion(bobAmplitude, bobFrequency, rotationStep float32) ControllerOption {
	return func(c *controller) {
		c.bobAmplitude = bobAmplitude
		c.bobFrequency = bobFrequency
		c.rotationStep = rotationStep
	}
}

// WithCarrierOpacity sets the resting opacity of the inner sphere.
//
// Parameters:
//   - opacity: the resting opacity
//
// Returns:
//   - ControllerOption: a function that sets the carrier opacity
func WithCarrierOpacity(opacity float32) ControllerOption {
	return func(c *controller) {
		c.carrierOpacity = opacity
	}
}

// WithFixedStep advances elapsed time by a constant step per tick, the first tick included,
// instead of by the timestamp difference.
//
// Parameters:
//   - seconds: the step, 0 to follow timestamps
//
// Returns:
//   - ControllerOption: a function that sets the step
func WithFixedStep(seconds float64) ControllerOption {
	return func(c *controller) {
		c.fixedStep = max(seconds, 0)
	}
}

// WithLogger sets the logger for phase transitions.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - ControllerOption: a function that sets the logger
func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}
