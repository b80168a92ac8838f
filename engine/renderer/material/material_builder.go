package material

import "github.com/Carmen-Shannon/oxy-bubble/engine/renderer/bind_group_provider"

// MaterialBuilderOption is a functional option used to configure a Material during construction.
type MaterialBuilderOption func(*material)

// WithName sets the material identifier, also used as the provider label.
//
// Parameters:
//   - name: the material name
//
// Returns:
//   - MaterialBuilderOption: a function that sets the name
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithKind sets which surface the material shades.
//
// Parameters:
//   - kind: the surface kind
//
// Returns:
//   - MaterialBuilderOption: a function that sets the kind
func WithKind(kind Kind) MaterialBuilderOption {
	return func(m *material) {
		m.kind = kind
	}
}

// WithVariant sets the bubble variant.
//
// Parameters:
//   - variant: the variant
//
// Returns:
//   - MaterialBuilderOption: a function that sets the variant
func WithVariant(variant Variant) MaterialBuilderOption {
	return func(m *material) {
		m.variant = variant
	}
}

// WithParams sets the static optical parameters.
//
// Parameters:
//   - params: the parameters
//
// Returns:
//   - MaterialBuilderOption: a function that sets the parameters
func WithParams(params PhysicalParams) MaterialBuilderOption {
	return func(m *material) {
		m.params = params
	}
}

// WithBaseColor sets the surface tint.
//
// Parameters:
//   - r, g, b: tint components in [0, 1]
//
// Returns:
//   - MaterialBuilderOption: a function that sets the base color
func WithBaseColor(r, g, b float32) MaterialBuilderOption {
	return func(m *material) {
		m.baseColor = [3]float32{r, g, b}
	}
}

// WithOpacity sets the initial opacity.
//
// Parameters:
//   - opacity: the opacity in [0, 1]
//
// Returns:
//   - MaterialBuilderOption: a function that sets the opacity
func WithOpacity(opacity float32) MaterialBuilderOption {
	return func(m *material) {
		m.opacity = min(max(opacity, 0), 1)
	}
}

// WithPipelineKey sets the render pipeline key for this material.
//
// Parameters:
//   - key: the pipeline key
//
// Returns:
//   - MaterialBuilderOption: a function that sets the pipeline key
func WithPipelineKey(key string) MaterialBuilderOption {
	return func(m *material) {
		m.pipelineKey = key
	}
}

// WithBindGroupProvider sets the provider that will hold the material's uniform buffers.
//
// Parameters:
//   - provider: the bind group provider
//
// Returns:
//   - MaterialBuilderOption: a function that sets the provider
func WithBindGroupProvider(provider bind_group_provider.BindGroupProvider) MaterialBuilderOption {
	return func(m *material) {
		m.bindGroupProvider = provider
	}
}
