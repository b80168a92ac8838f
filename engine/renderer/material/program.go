package material

import (
	"embed"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-bubble/engine/renderer/shader"
)

const (
	// FilmPipelineKey identifies the environment-mapped film pipeline.
	FilmPipelineKey = "bubble_film"
	// FlatFilmPipelineKey identifies the film pipeline without an environment binding.
	FlatFilmPipelineKey = "bubble_film_flat"
	// CarrierPipelineKey identifies the inner sphere pipeline.
	CarrierPipelineKey = "bubble_carrier"
)

// Slot names declared by the bubble templates.
const (
	SlotTimeUniform   = "time_uniform"
	SlotDisplacement  = "displacement"
	SlotEnvironment   = "environment"
	SlotFragmentColor = "fragment_color"
)

// argVaryings is the include key for the VertexOutput struct shared by both stages.
const argVaryings shader.AnnotationArg = "varyings"

var (
	//go:embed assets/bubble_vertex.wgsl
	vertexTemplateSource string

	//go:embed assets/bubble_fragment.wgsl
	fragmentTemplateSource string

	//go:embed assets/varyings.wgsl
	varyingsSource string

	//go:embed assets/fills/*.wgsl
	fills embed.FS
)

// templates parses the two bubble templates once.
var templates = sync.OnceValues(func() ([2]shader.Template, error) {
	vt, err := shader.NewTemplate("bubble_vertex", vertexTemplateSource)
	if err != nil {
		return [2]shader.Template{}, err
	}
	ft, err := shader.NewTemplate("bubble_fragment", fragmentTemplateSource)
	if err != nil {
		return [2]shader.Template{}, err
	}
	return [2]shader.Template{vt, ft}, nil
})

// Program is the complete WGSL text of one material variant, ready for pre-processing.
type Program struct {
	Key      string
	Vertex   string
	Fragment string

	// UsesEnvironment reports whether the fragment stage binds the reflection map at group 2.
	UsesEnvironment bool
}

// FilmProgram assembles the environment-mapped film program.
//
// Returns:
//   - Program: the assembled program
//   - error: if a template slot does not match its fill
func FilmProgram() (Program, error) {
	return assemble(FilmPipelineKey, "film_displacement", "film_environment", "film_color", true)
}

// FlatFilmProgram assembles the film program with a constant environment term. Used when
// the environment-mapped pipeline cannot be built.
//
// Returns:
//   - Program: the assembled program
//   - error: if a template slot does not match its fill
func FlatFilmProgram() (Program, error) {
	return assemble(FlatFilmPipelineKey, "film_displacement", "flat_environment", "film_color", false)
}

// CarrierProgram assembles the unlit, undisplaced inner sphere program.
//
// Returns:
//   - Program: the assembled program
//   - error: if a template slot does not match its fill
func CarrierProgram() (Program, error) {
	return assemble(CarrierPipelineKey, "rigid_displacement", "no_environment", "carrier_color", false)
}

// NewPreProcessor returns a shader pre-processor that also resolves the material includes.
//
// Returns:
//   - shader.PreProcessor: the pre-processor
func NewPreProcessor() shader.PreProcessor {
	return shader.NewPreProcessor(
		shader.WithInclude(shader.AnnotationArgMaterialParams, GPUMaterialParamsSource, "MaterialParams"),
		shader.WithInclude(argVaryings, varyingsSource, "VertexOutput"),
	)
}

// Compile pre-processes both stages and reflects their layouts.
//
// Parameters:
//   - pp: the pre-processor, normally from NewPreProcessor
//
// Returns:
//   - shader.Shader: the vertex stage
//   - shader.Shader: the fragment stage
//   - error: if pre-processing fails or an entry point is missing
func (p Program) Compile(pp shader.PreProcessor) (shader.Shader, shader.Shader, error) {
	vs, err := shader.NewShader(p.Key+"_vs", shader.ShaderTypeVertex, p.Vertex, pp)
	if err != nil {
		return nil, nil, err
	}
	fs, err := shader.NewShader(p.Key+"_fs", shader.ShaderTypeFragment, p.Fragment, pp)
	if err != nil {
		return nil, nil, err
	}
	return vs, fs, nil
}

func assemble(key, displacement, environment, color string, usesEnv bool) (Program, error) {
	tpl, err := templates()
	if err != nil {
		return Program{}, fmt.Errorf("program %s: %w", key, err)
	}
	code := func(name string) string {
		b, err := fills.ReadFile("assets/fills/" + name + ".wgsl")
		if err != nil {
			panic(fmt.Sprintf("material: missing embedded fill %s", name))
		}
		return string(b)
	}

	vertex, err := tpl[0].NewProgram().
		Fill(SlotTimeUniform, code("time_uniform")).
		Fill(SlotDisplacement, code(displacement)).
		Build()
	if err != nil {
		return Program{}, fmt.Errorf("program %s: %w", key, err)
	}
	fragment, err := tpl[1].NewProgram().
		Fill(SlotTimeUniform, code("time_uniform")).
		Fill(SlotEnvironment, code(environment)).
		Fill(SlotFragmentColor, code(color)).
		Build()
	if err != nil {
		return Program{}, fmt.Errorf("program %s: %w", key, err)
	}
	return Program{Key: key, Vertex: vertex, Fragment: fragment, UsesEnvironment: usesEnv}, nil
}
