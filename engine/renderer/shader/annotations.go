// annotations.go defines the annotation types and parser for the Oxy WGSL pre-processor.
// Annotations are single-line WGSL comments prefixed with @oxy: that drive snippet
// injection, bind group declaration, resource provider registration and named template
// slots. Parsed results are stored as Annotation values and consumed by the Template and
// PreProcessor.
package shader

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// annotationPrefix is the marker that identifies an Oxy annotation within a WGSL comment line.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// annotationTypeInclude injects a registered WGSL snippet (struct or function source)
	// at the annotation site.
	//
	// Syntax: //@oxy:include <key>
	//
	// Example: //@oxy:include camera
	annotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup generates a WGSL @group/@binding variable declaration
	// and records it in the declarations list.
	//
	// Syntax: //@oxy:group <group> <binding> <address_space> <var_name> <type_key>
	//
	// Example: //@oxy:group 0 0 storage_uniform camera camera
	AnnotationTypeBindingGroup AnnotationType = "group"

	// AnnotationTypeProvider records which provider owns a hand-written binding (textures,
	// samplers) without generating any WGSL.
	//
	// Syntax:
	//   //@oxy:provider <group> <binding> <provider_identity>
	//   //@oxy:provider <group> <binding> <provider_identity> <binding_role>
	AnnotationTypeProvider AnnotationType = "provider"

	// AnnotationTypeSlot marks a named insertion point in a shader template. Slots are
	// filled by a ProgramBuilder before pre-processing and never reach the PreProcessor.
	//
	// Syntax: //@oxy:slot <slot_name>
	//
	// Example: //@oxy:slot displacement
	AnnotationTypeSlot AnnotationType = "slot"
)

// Annotation represents a single parsed @oxy: annotation from a WGSL shader source line.
type Annotation struct {
	// Type identifies which annotation was parsed.
	Type AnnotationType

	// Args holds the annotation's arguments. The contents depend on Type:
	//   - include:  [0] = snippet key
	//   - group:    [0] = address space, [1] = var name, [2] = type key
	//   - provider: [0] = provider identity, [1] = binding role (optional)
	//   - slot:     [0] = slot name
	Args []AnnotationArg

	// Line is the 1-based line number in the source where this annotation was found.
	Line int

	// Group is the @group index for group and provider annotations. Nil otherwise.
	Group *int

	// Binding is the @binding index for group and provider annotations. Nil otherwise.
	Binding *int
}

// AnnotationArg is a typed string used as an annotation argument.
type AnnotationArg string

// ── Snippet keys ───────────────────────────────────────────────────────────────
// Keys under which the default PreProcessor registers WGSL snippets. Packages that own
// their GPU types register additional keys with WithInclude.

const (
	// AnnotationArgCamera identifies the CameraUniform struct.
	AnnotationArgCamera AnnotationArg = "camera"

	// AnnotationArgVertex identifies the VertexInput struct for sphere meshes.
	AnnotationArgVertex AnnotationArg = "vertex"

	// AnnotationArgObject identifies the ObjectUniform struct holding model and normal matrices.
	AnnotationArgObject AnnotationArg = "object"

	// AnnotationArgLightBlock identifies the LightBlock struct with key, fill and ambient lights.
	AnnotationArgLightBlock AnnotationArg = "light_block"

	// AnnotationArgNoise identifies the snoise3 function library.
	AnnotationArgNoise AnnotationArg = "noise"

	// AnnotationArgMaterialParams identifies the MaterialParams struct.
	AnnotationArgMaterialParams AnnotationArg = "material_params"
)

// ── Address space arguments ────────────────────────────────────────────────────

const (
	// annotationArgStorageTypeUniform maps to var<uniform> in WGSL.
	annotationArgStorageTypeUniform AnnotationArg = "storage_uniform"

	// annotationArgStorageTypeRead maps to var<storage, read> in WGSL.
	annotationArgStorageTypeRead AnnotationArg = "storage_read"
)

// ── Provider identity arguments ────────────────────────────────────────────────

const (
	// AnnotationArgFrame identifies the per-frame provider (camera + lights).
	AnnotationArgFrame AnnotationArg = "frame"

	// AnnotationArgSurface identifies a per-surface provider (object transform + material params).
	AnnotationArgSurface AnnotationArg = "surface"

	// AnnotationArgEnvironment identifies the environment provider (cube map + sampler).
	AnnotationArgEnvironment AnnotationArg = "environment"
)

// ── Binding role arguments ─────────────────────────────────────────────────────

const (
	// AnnotationArgEnvTexture identifies the filtered reflection cube texture binding.
	AnnotationArgEnvTexture AnnotationArg = "env_texture"

	// AnnotationArgEnvSampler identifies the sampler paired with the reflection cube texture.
	AnnotationArgEnvSampler AnnotationArg = "env_sampler"
)

var validAddressSpaces = []AnnotationArg{
	annotationArgStorageTypeUniform,
	annotationArgStorageTypeRead,
}

var validProviderIdentities = []AnnotationArg{
	AnnotationArgFrame,
	AnnotationArgSurface,
	AnnotationArgEnvironment,
}

var validBindingRoles = []AnnotationArg{
	AnnotationArgEnvTexture,
	AnnotationArgEnvSampler,
}

// parseAnnotation attempts to parse a single line of WGSL source as an @oxy: annotation.
// Returns nil with no error for lines that do not contain the annotation prefix. Snippet
// and type keys are checked against the registry by the PreProcessor, not here.
//
// Parameters:
//   - line: the raw WGSL source line to parse
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "//") {
		return nil, nil
	}
	_, after, ok := strings.Cut(trimmed, annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}

	switch AnnotationType(args[0]) {
	case annotationTypeInclude, AnnotationTypeSlot:
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy %s annotation requires exactly one argument", lineNum, args[0])
		}
		return &Annotation{
			Type: AnnotationType(args[0]),
			Args: []AnnotationArg{AnnotationArg(args[1])},
			Line: lineNum,
		}, nil
	case AnnotationTypeBindingGroup:
		if len(args) != 6 {
			return nil, fmt.Errorf("line %d: @oxy group annotation requires group, binding, address space, var name and type", lineNum)
		}
		group, binding, err := parseGroupBinding(args[1], args[2], lineNum)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(validAddressSpaces, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown address space %q in @oxy group annotation", lineNum, args[3])
		}
		return &Annotation{
			Type:    AnnotationTypeBindingGroup,
			Args:    []AnnotationArg{AnnotationArg(args[3]), AnnotationArg(args[4]), AnnotationArg(args[5])},
			Line:    lineNum,
			Group:   &group,
			Binding: &binding,
		}, nil
	case AnnotationTypeProvider:
		if len(args) < 4 || len(args) > 5 {
			return nil, fmt.Errorf("line %d: @oxy provider annotation requires group, binding, provider identity and an optional binding role", lineNum)
		}
		group, binding, err := parseGroupBinding(args[1], args[2], lineNum)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(validProviderIdentities, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown provider identity %q in @oxy provider annotation", lineNum, args[3])
		}
		providerArgs := []AnnotationArg{AnnotationArg(args[3])}
		if len(args) == 5 {
			if !slices.Contains(validBindingRoles, AnnotationArg(args[4])) {
				return nil, fmt.Errorf("line %d: unknown binding role %q in @oxy provider annotation", lineNum, args[4])
			}
			providerArgs = append(providerArgs, AnnotationArg(args[4]))
		}
		return &Annotation{
			Type:    AnnotationTypeProvider,
			Args:    providerArgs,
			Line:    lineNum,
			Group:   &group,
			Binding: &binding,
		}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown @oxy annotation type %q", lineNum, args[0])
	}
}

func parseGroupBinding(groupArg, bindingArg string, lineNum int) (int, int, error) {
	group, err := strconv.Atoi(groupArg)
	if err != nil {
		return 0, 0, fmt.Errorf("line %d: invalid group number %q: %w", lineNum, groupArg, err)
	}
	binding, err := strconv.Atoi(bindingArg)
	if err != nil {
		return 0, 0, fmt.Errorf("line %d: invalid binding number %q: %w", lineNum, bindingArg, err)
	}
	return group, binding, nil
}
