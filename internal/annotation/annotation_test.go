package annotation

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAnnotation(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"@Handler", true},
		{"  @Handler{name: \"x\"}", true},
		{"@_private", true},
		{"@annotations.Route", true},
		{"Handler", false},
		{"@", false},
		{"@ Handler", false},
		{"@1abc", false},
		{"email me @ home", false},
		{"@see Orders for details", false},
		{"@deprecated use Create instead", false},
		{"@Handler {name: \"x\"}", true},
		{"@Generic[int]{}", true},
		{"@Handler()", true},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsAnnotation(tt.input))
		})
	}
}

func TestParse_Head(t *testing.T) {
	tests := []struct {
		comment   string
		qualifier string
		name      string
	}{
		{"// @Handler", "", "Handler"},
		{"// @Handler{name: \"orders\"}", "", "Handler"},
		{"//@Handler(Options{name: \"orders\"})", "", "Handler"},
		{"// @annotations.Handler{name: \"orders\"}", "annotations", "Handler"},
		{"// @annotations.Handler(annotations.Options{})", "annotations", "Handler"},
		{"// @Generic[int]{value: 1}", "", "Generic"},
		{"// @Handler()", "", "Handler"},
	}

	for _, tt := range tests {
		t.Run(tt.comment, func(t *testing.T) {
			a, ok, err := Parse(&ast.Comment{Text: tt.comment})
			require.NoError(t, err)
			require.True(t, ok)

			qualifier, name := a.Head()
			assert.Equal(t, tt.qualifier, qualifier)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestParse_NotAnnotation(t *testing.T) {
	for _, text := range []string{"// plain doc", "/* @Handler */", "// go:generate foo"} {
		_, ok, err := Parse(&ast.Comment{Text: text})
		require.NoError(t, err)
		assert.False(t, ok, text)
	}
}

func TestParse_Malformed(t *testing.T) {
	for _, text := range []string{"// @Handler{name: ", "// @Handler(1 +)", "// @a.b.c{}"} {
		_, ok, err := Parse(&ast.Comment{Text: text})
		assert.True(t, ok, text)
		require.Error(t, err, text)
		assert.ErrorIs(t, err, ErrMalformed)

		var syntaxErr *SyntaxError
		assert.ErrorAs(t, err, &syntaxErr)
	}
}

func TestParse_ProseIsNotAnnotation(t *testing.T) {
	a, ok, err := Parse(&ast.Comment{Text: "// @see Orders for details"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, a.Text)
}

func TestFromDoc(t *testing.T) {
	src := `package p

// Orders handles orders.
//
// @Handler{name: "orders"}
// @Route{path: "/orders"}
/* @Ignored */
type Orders struct{}
`
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "p.go", src, parser.ParseComments)
	require.NoError(t, err)

	gd := f.Decls[0].(*ast.GenDecl)
	anns, err := FromDoc(gd.Doc)
	require.NoError(t, err)
	require.Len(t, anns, 2)

	assert.Equal(t, `@Handler{name: "orders"}`, anns[0].String())
	assert.Equal(t, `Route{path: "/orders"}`, anns[1].Text)
	assert.Equal(t, 5, fset.Position(anns[0].Pos).Line)

	none, err := FromDoc(nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}
