package shader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnnotation(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    AnnotationType
		wantNil bool
		wantErr bool
	}{
		{name: "plain code", line: "let a = 1;", wantNil: true},
		{name: "plain comment", line: "// a comment", wantNil: true},
		{name: "prefix not in comment", line: `let s = "@oxy:include camera";`, wantNil: true},
		{name: "include", line: "//@oxy:include camera", want: annotationTypeInclude},
		{name: "indented slot", line: "    //@oxy:slot displacement", want: AnnotationTypeSlot},
		{name: "group", line: "//@oxy:group 0 0 storage_uniform camera camera", want: AnnotationTypeBindingGroup},
		{name: "provider", line: "//@oxy:provider 2 0 environment env_texture", want: AnnotationTypeProvider},
		{name: "empty", line: "//@oxy:", wantErr: true},
		{name: "unknown type", line: "//@oxy:frobnicate x", wantErr: true},
		{name: "bad address space", line: "//@oxy:group 0 0 private camera camera", wantErr: true},
		{name: "bad group number", line: "//@oxy:group x 0 storage_uniform camera camera", wantErr: true},
		{name: "bad provider", line: "//@oxy:provider 0 0 shadow", wantErr: true},
		{name: "bad role", line: "//@oxy:provider 2 0 environment depth", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := parseAnnotation(tt.line, 7)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "line 7")
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, a)
				return
			}
			require.NotNil(t, a)
			assert.Equal(t, tt.want, a.Type)
			assert.Equal(t, 7, a.Line)
		})
	}
}

func TestPreProcessor_IncludeOnce(t *testing.T) {
	pp := NewPreProcessor(WithInclude("shared", "struct Shared { a: f32, }", "Shared"))
	out, err := pp.Process("//@oxy:include shared\n//@oxy:include shared\nfn f() {}")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "struct Shared"))
}

func TestPreProcessor_Group(t *testing.T) {
	pp := NewPreProcessor(WithInclude("params", "struct Params { a: f32, }", "Params"))
	out, err := pp.Process("//@oxy:include params\n//@oxy:group 1 1 storage_uniform material params")
	require.NoError(t, err)
	assert.Contains(t, out, "@group(1) @binding(1) var<uniform> material: Params;")

	decls := pp.Declarations()
	require.Len(t, decls, 1)
	assert.Equal(t, 1, *decls[0].Group)
	assert.Equal(t, 1, *decls[0].Binding)
	assert.Equal(t, AnnotationArg("material"), decls[0].Args[1])
}

func TestPreProcessor_ProviderRecorded(t *testing.T) {
	pp := NewPreProcessor()
	src := "//@oxy:provider 2 0 environment env_texture\n@group(2) @binding(0) var env_map: texture_cube<f32>;"
	out, err := pp.Process(src)
	require.NoError(t, err)
	assert.Equal(t, src, out)
	require.Len(t, pp.Declarations(), 1)
	assert.Equal(t, AnnotationTypeProvider, pp.Declarations()[0].Type)
}

func TestPreProcessor_DeclarationsReset(t *testing.T) {
	pp := NewPreProcessor()
	_, err := pp.Process("//@oxy:provider 2 0 environment env_texture")
	require.NoError(t, err)
	_, err = pp.Process("fn f() {}")
	require.NoError(t, err)
	assert.Empty(t, pp.Declarations())
}

func TestPreProcessor_Errors(t *testing.T) {
	pp := NewPreProcessor()

	_, err := pp.Process("//@oxy:include missing")
	require.ErrorIs(t, err, ErrUnknownInclude)

	_, err = pp.Process("//@oxy:group 0 0 storage_uniform n noise")
	require.ErrorIs(t, err, ErrUnknownInclude)

	_, err = pp.Process("//@oxy:slot displacement")
	require.ErrorIs(t, err, ErrUnfilledSlot)
}

func TestPreProcessor_DefaultRegistry(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process(strings.Join([]string{
		"//@oxy:include camera",
		"//@oxy:include light_block",
		"//@oxy:include object",
		"//@oxy:include vertex",
		"//@oxy:include noise",
		"//@oxy:group 0 0 storage_uniform camera camera",
	}, "\n"))
	require.NoError(t, err)
	for _, want := range []string{"struct CameraUniform", "struct LightBlock", "struct ObjectUniform", "struct VertexInput", "fn snoise3"} {
		assert.Contains(t, out, want)
	}
	assert.Contains(t, out, "var<uniform> camera: CameraUniform;")
}
