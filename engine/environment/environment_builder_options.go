package environment

import "log/slog"

// BuilderOption is a functional option applied during NewBuilder.
type BuilderOption func(*builder)

// WithFaceSize sets the level 0 edge length in pixels.
//
// Parameters:
//   - size: edge length
//
// Returns:
//   - BuilderOption: a function that sets the face size
func WithFaceSize(size int) BuilderOption {
	return func(b *builder) {
		b.faceSize = size
	}
}

// WithMipLevels sets the number of filtered levels, including level 0.
//
// Parameters:
//   - levels: the level count
//
// Returns:
//   - BuilderOption: a function that sets the level count
func WithMipLevels(levels int) BuilderOption {
	return func(b *builder) {
		b.mipLevels = levels
	}
}

// WithWorkers sets how many faces render concurrently.
//
// Parameters:
//   - n: worker count, at least 1
//
// Returns:
//   - BuilderOption: a function that sets the worker count
func WithWorkers(n int) BuilderOption {
	return func(b *builder) {
		b.workers = max(n, 1)
	}
}

// WithHighlightAlpha sets the opacity of the white highlight disc.
//
// Parameters:
//   - alpha: opacity in [0, 1]
//
// Returns:
//   - BuilderOption: a function that sets the highlight opacity
func WithHighlightAlpha(alpha float64) BuilderOption {
	return func(b *builder) {
		b.highlightAlpha = alpha
	}
}

// WithLogger sets the logger used for build diagnostics.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - BuilderOption: a function that sets the logger
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}
