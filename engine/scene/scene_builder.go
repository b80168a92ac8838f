package scene

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-bubble/engine/animator"
	"github.com/Carmen-Shannon/oxy-bubble/engine/environment"
	"github.com/Carmen-Shannon/oxy-bubble/engine/renderer/material"
)

// SceneBuilderOption is a functional option for configuring a BubbleScene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithVariant selects the primary or miniature bubble. Defaults to VariantPrimary.
//
// Parameters:
//   - variant: the bubble variant
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithVariant(variant material.Variant) SceneBuilderOption {
	return func(s *scene) {
		s.variant = variant
	}
}

// WithRadius overrides the sphere radius. Non-positive values keep the variant default.
//
// Parameters:
//   - radius: the sphere radius
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithRadius(radius float32) SceneBuilderOption {
	return func(s *scene) {
		s.radius = radius
	}
}

// WithSegments overrides the sphere width and height segment count.
//
// Parameters:
//   - segments: segments per axis
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSegments(segments int) SceneBuilderOption {
	return func(s *scene) {
		if segments > 0 {
			s.segments = segments
		}
	}
}

// WithViewport sets the initial framebuffer size used for the camera aspect ratio.
//
// Parameters:
//   - width, height: the size in pixels
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithViewport(width, height int) SceneBuilderOption {
	return func(s *scene) {
		if width > 0 && height > 0 {
			s.width, s.height = width, height
		}
	}
}

// WithEnvironmentOptions passes options through to the environment builder.
//
// Parameters:
//   - opts: the environment builder options
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithEnvironmentOptions(opts ...environment.BuilderOption) SceneBuilderOption {
	return func(s *scene) {
		s.envOptions = append(s.envOptions, opts...)
	}
}

// WithControllerOptions passes options through to the animation controller. They are applied
// after the scene's own time uniforms and logger.
//
// Parameters:
//   - opts: the controller options
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithControllerOptions(opts ...animator.ControllerOption) SceneBuilderOption {
	return func(s *scene) {
		s.animOptions = append(s.animOptions, opts...)
	}
}

// WithLogger sets the logger for the scene and the components it builds.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) SceneBuilderOption {
	return func(s *scene) {
		if logger != nil {
			s.logger = logger
		}
	}
}
