package engine

import "log/slog"

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithOnLiftComplete sets the function called once when the lift animation finishes.
//
// Parameters:
//   - callback: the completion callback
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithOnLiftComplete(callback func()) EngineBuilderOption {
	return func(e *engine) {
		e.onLiftComplete = callback
	}
}

// WithWobbleCallback sets the consumer of the UI wobble pair computed each frame.
//
// Parameters:
//   - callback: function receiving the wobble offsets
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWobbleCallback(callback func(x, y float32)) EngineBuilderOption {
	return func(e *engine) {
		e.onWobble = callback
	}
}

// WithLogger sets the logger passed to every component the engine builds.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) EngineBuilderOption {
	return func(e *engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}
