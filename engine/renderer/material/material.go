package material

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-bubble/engine/renderer/bind_group_provider"
)

// material is the implementation of the Material interface.
type material struct {
	mu *sync.Mutex

	name              string
	kind              Kind
	variant           Variant
	params            PhysicalParams
	baseColor         [3]float32
	opacity           float32
	time              float32
	timePushes        int
	envMipCount       uint32
	pipelineKey       string
	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Material is one bubble surface: its static optical parameters, the animated time and
// opacity inputs, and the bind group provider holding its uniform buffers.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Kind reports which surface the material shades.
	//
	// Returns:
	//   - Kind: KindFilm or KindCarrier
	Kind() Kind

	// Variant reports the bubble variant the material was configured for.
	//
	// Returns:
	//   - Variant: the variant
	Variant() Variant

	// Params returns the static optical parameters.
	//
	// Returns:
	//   - PhysicalParams: the parameters
	Params() PhysicalParams

	// PipelineKey retrieves the key identifying the render pipeline this material uses.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// BindGroupProvider retrieves the provider holding the object and material uniform buffers.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the bind group provider
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// SetTime pushes the shader time input. Implements animator.TimeUniform.
	//
	// Parameters:
	//   - t: elapsed seconds
	SetTime(t float32)

	// Time returns the last pushed time.
	//
	// Returns:
	//   - float32: elapsed seconds
	Time() float32

	// TimePushes returns how many times SetTime has been called.
	//
	// Returns:
	//   - int: the push count
	TimePushes() int

	// SetOpacity sets the surface opacity, clamped to [0, 1].
	//
	// Parameters:
	//   - opacity: the new opacity
	SetOpacity(opacity float32)

	// Opacity returns the surface opacity.
	//
	// Returns:
	//   - float32: the opacity
	Opacity() float32

	// SetPipelineKey sets the render pipeline key for this material.
	//
	// Parameters:
	//   - key: the pipeline key to associate with this material
	SetPipelineKey(key string)

	// SetEnvMipCount records the mip count of the reflection map bound for this material.
	//
	// Parameters:
	//   - levels: the mip level count
	SetEnvMipCount(levels uint32)

	// Uniform packs the material state for upload.
	//
	// Returns:
	//   - GPUMaterialUniform: the packed uniform
	Uniform() GPUMaterialUniform
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
// The defaults describe an opaque white film.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		mu:          &sync.Mutex{},
		name:        "film",
		kind:        KindFilm,
		params:      FilmParams,
		baseColor:   [3]float32{1, 1, 1},
		opacity:     1,
		envMipCount: 1,
	}
	for _, opt := range options {
		opt(m)
	}
	if m.bindGroupProvider == nil {
		m.bindGroupProvider = bind_group_provider.NewBindGroupProvider(m.name)
	}
	return m
}

// NewFilm returns the outer film material for the variant.
//
// Parameters:
//   - variant: the bubble variant
//
// Returns:
//   - Material: the film material
func NewFilm(variant Variant) Material {
	return NewMaterial(
		WithName("film"),
		WithKind(KindFilm),
		WithVariant(variant),
		WithParams(FilmParams),
		WithPipelineKey(FilmPipelineKey),
	)
}

// NewCarrier returns the inner carrier material: white at CarrierOpacity.
//
// Returns:
//   - Material: the carrier material
func NewCarrier() Material {
	return NewMaterial(
		WithName("carrier"),
		WithKind(KindCarrier),
		WithParams(CarrierParams),
		WithOpacity(CarrierOpacity),
		WithPipelineKey(CarrierPipelineKey),
	)
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Kind() Kind {
	return m.kind
}

func (m *material) Variant() Variant {
	return m.variant
}

func (m *material) Params() PhysicalParams {
	return m.params
}

func (m *material) PipelineKey() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pipelineKey
}

func (m *material) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return m.bindGroupProvider
}

func (m *material) SetTime(t float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.time = t
	m.timePushes++
}

func (m *material) Time() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.time
}

func (m *material) TimePushes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.timePushes
}

func (m *material) SetOpacity(opacity float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opacity = min(max(opacity, 0), 1)
}

func (m *material) Opacity() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opacity
}

func (m *material) SetPipelineKey(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pipelineKey = key
}

func (m *material) SetEnvMipCount(levels uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.envMipCount = max(levels, 1)
}

func (m *material) Uniform() GPUMaterialUniform {
	m.mu.Lock()
	defer m.mu.Unlock()
	return GPUMaterialUniform{
		BaseColor:          [4]float32{m.baseColor[0], m.baseColor[1], m.baseColor[2], m.opacity},
		Time:               m.time,
		WobbleAmp:          m.wobbleAmp(),
		EnvIntensity:       m.params.EnvMapIntensity,
		Iridescence:        m.params.Iridescence,
		IOR:                m.params.IridescenceIOR,
		ThicknessMin:       m.params.ThicknessRange[0],
		ThicknessMax:       m.params.ThicknessRange[1],
		Clearcoat:          m.params.Clearcoat,
		Transmission:       m.params.Transmission,
		Roughness:          m.params.Roughness,
		ClearcoatRoughness: m.params.ClearcoatRoughness,
		EnvMipCount:        float32(m.envMipCount),
	}
}

func (m *material) wobbleAmp() float32 {
	if m.kind == KindCarrier {
		return 0
	}
	return m.variant.WobbleAmplitude()
}
