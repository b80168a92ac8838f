// pre_processor.go implements the Oxy WGSL shader pre-processor. It scans shader source
// for @oxy: annotations, replaces them with injected snippets or generated declarations, and
// collects a declarations list used to wire GPU resources to bind groups.
//
// The pre-processor keeps two registries:
//   - includeRegistry: maps snippet keys to embedded WGSL source and, for structs, the
//     resolved WGSL type name used by @oxy:group declarations.
//   - addressSpaceRegistry: maps address space argument keys to WGSL var<> syntax.
package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-bubble/engine/camera"
	"github.com/Carmen-Shannon/oxy-bubble/engine/light"
	"github.com/Carmen-Shannon/oxy-bubble/engine/model"
	"github.com/Carmen-Shannon/oxy-bubble/engine/noise"
)

// registryEntry pairs a WGSL snippet with the type name it declares. Function libraries
// leave Type empty and cannot be used as @oxy:group types.
type registryEntry struct {
	Source string
	Type   string
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	includeRegistry      map[AnnotationArg]registryEntry
	addressSpaceRegistry map[AnnotationArg]string

	// declarations accumulates group and provider annotations during a Process call.
	declarations []Annotation
}

// PreProcessor processes WGSL source containing @oxy: annotations.
type PreProcessor interface {
	// Process replaces @oxy:include annotations with registered snippet text and
	// @oxy:group annotations with generated @group/@binding declarations. @oxy:provider
	// annotations produce no output but are recorded. Each snippet is injected at most once
	// per call, so templates may include shared structs from several places.
	//
	// Parameters:
	//   - source: WGSL source code containing annotations
	//
	// Returns:
	//   - string: the processed WGSL source
	//   - error: an error if an annotation is malformed, references an unknown key, or a slot remains
	Process(source string) (string, error)

	// Declarations returns the group and provider annotations collected during the most
	// recent Process call, in source order.
	//
	// Returns:
	//   - []Annotation: the collected declarations
	Declarations() []Annotation
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with the engine's GPU struct sources and the
// noise library registered. Additional snippets are added with WithInclude.
//
// Parameters:
//   - opts: optional PreProcessorOption values
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor(opts ...PreProcessorOption) PreProcessor {
	p := &preProcessor{
		includeRegistry: map[AnnotationArg]registryEntry{
			AnnotationArgCamera:     {Source: camera.GPUCameraUniformSource, Type: "CameraUniform"},
			AnnotationArgVertex:     {Source: model.GPUVertexSource, Type: "VertexInput"},
			AnnotationArgObject:     {Source: model.GPUObjectUniformSource, Type: "ObjectUniform"},
			AnnotationArgLightBlock: {Source: light.GPULightBlockSource, Type: "LightBlock"},
			AnnotationArgNoise:      {Source: noise.SimplexWGSL},
		},
		addressSpaceRegistry: map[AnnotationArg]string{
			annotationArgStorageTypeUniform: "var<uniform>",
			annotationArgStorageTypeRead:    "var<storage, read>",
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = p.declarations[:0]
	included := make(map[AnnotationArg]bool)

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case annotationTypeInclude:
			entry, ok := p.includeRegistry[a.Args[0]]
			if !ok {
				return "", fmt.Errorf("line %d: %q: %w", a.Line, a.Args[0], ErrUnknownInclude)
			}
			if included[a.Args[0]] {
				continue
			}
			included[a.Args[0]] = true
			out = append(out, entry.Source)
		case AnnotationTypeBindingGroup:
			entry, ok := p.includeRegistry[a.Args[2]]
			if !ok || entry.Type == "" {
				return "", fmt.Errorf("line %d: group type %q: %w", a.Line, a.Args[2], ErrUnknownInclude)
			}
			addrSpace := p.addressSpaceRegistry[a.Args[0]]
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;", *a.Group, *a.Binding, addrSpace, a.Args[1], entry.Type))
			p.declarations = append(p.declarations, *a)
		case AnnotationTypeProvider:
			p.declarations = append(p.declarations, *a)
			out = append(out, line)
		case AnnotationTypeSlot:
			return "", fmt.Errorf("line %d: slot %q: %w", a.Line, a.Args[0], ErrUnfilledSlot)
		default:
			return "", fmt.Errorf("line %d: unknown annotation type %q", a.Line, a.Type)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}
