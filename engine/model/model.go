package model

import (
	"github.com/Carmen-Shannon/oxy-bubble/common"
	"github.com/Carmen-Shannon/oxy-bubble/engine/renderer/bind_group_provider"
)

// model is the implementation of the Model interface.
type model struct {
	name           string
	vertices       []GPUVertex
	indices        []uint32
	meshProvider   bind_group_provider.BindGroupProvider
	boundingRadius float32
}

// Model is a CPU-side indexed triangle mesh plus the provider that holds its GPU buffers
// once the Renderer has uploaded it.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Vertices returns the mesh vertices. The slice must not be modified.
	//
	// Returns:
	//   - []GPUVertex: the vertices
	Vertices() []GPUVertex

	// Indices returns the triangle list indices. The slice must not be modified.
	//
	// Returns:
	//   - []uint32: the indices, three per triangle
	Indices() []uint32

	// VertexData returns the vertices as bytes ready for upload.
	//
	// Returns:
	//   - []byte: the vertex buffer contents
	VertexData() []byte

	// IndexData returns the indices as bytes ready for upload.
	//
	// Returns:
	//   - []byte: the index buffer contents
	IndexData() []byte

	// IndexCount returns the number of indices drawn.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// BoundingRadius returns the radius of a sphere around the origin containing every vertex.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32

	// MeshProvider returns the provider holding the GPU vertex and index buffers.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the mesh provider
	MeshProvider() bind_group_provider.BindGroupProvider
}

var _ Model = &model{}

// NewModel creates a Model from the provided options. A mesh provider labelled after the
// model is created when none is supplied.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, opt := range options {
		opt(m)
	}
	if m.meshProvider == nil {
		m.meshProvider = bind_group_provider.NewBindGroupProvider(m.name + "_mesh")
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Vertices() []GPUVertex {
	return m.vertices
}

func (m *model) Indices() []uint32 {
	return m.indices
}

func (m *model) VertexData() []byte {
	return common.SliceToBytes(m.vertices)
}

func (m *model) IndexData() []byte {
	return common.SliceToBytes(m.indices)
}

func (m *model) IndexCount() int {
	return len(m.indices)
}

func (m *model) BoundingRadius() float32 {
	return m.boundingRadius
}

func (m *model) MeshProvider() bind_group_provider.BindGroupProvider {
	return m.meshProvider
}
