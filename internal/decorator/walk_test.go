package decorator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func declNames(decls []Declaration) []string {
	names := make([]string, 0, len(decls))
	for _, d := range decls {
		names = append(names, d.Name)
	}

	return names
}

func TestWalk_GroupedDeclarations(t *testing.T) {
	prog := compile(t, `package svc

// @Handler{name: "single"}
type Single struct{}

type (
	// @Handler{name: "first"}
	First struct{}

	Unannotated struct{}

	// @Handler{name: "second"}
	// @Route{path: "/second"}
	Second struct{}
)

// Group docs do not annotate grouped specs.
//
// @Handler{name: "ignored"}
type (
	Grouped struct{}
)
`)

	decls, err := Walk(prog)
	require.NoError(t, err)
	assert.Equal(t, []string{"Single", "First", "Second"}, declNames(decls))
	assert.Len(t, decls[2].Annotations, 2)
	assert.Equal(t, "svc.go", decls[0].File.Name)
}

func TestWalk_MembersOfUnannotatedDeclarations(t *testing.T) {
	prog := compile(t, `package svc

type Plain struct {
	// @Route{path: "/hidden"}
	Get Endpoint
}
`)

	decls, err := Walk(prog)
	require.NoError(t, err)
	assert.Empty(t, decls)

	records, err := NewSerializer(prog).SerializeAll(decls)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestWalk_FileOrder(t *testing.T) {
	prog := compile(t, `package svc

// @Handler{name: "z"}
type Z struct{}

// @Handler{name: "a"}
type A struct{}
`)

	decls, err := Walk(prog)
	require.NoError(t, err)

	// types.go comes first and carries no annotations; svc.go keeps source order.
	assert.Equal(t, []string{"Z", "A"}, declNames(decls))
}

func TestWalk_MalformedAnnotation(t *testing.T) {
	prog := compile(t, `package svc

// @Handler{name:
type A struct{}
`)

	_, err := Walk(prog)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedAnnotation)

	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 3, serr.Position.Line)
}

func TestDeclaration_Children(t *testing.T) {
	prog := compile(t, `package svc

// @Handler{name: "a"}
type A struct {
	// @Route{path: "/a"}
	Get, Head Endpoint

	// @Route{path: "/embedded"}
	*Route

	Plain Endpoint
}
`)

	decls, err := Walk(prog)
	require.NoError(t, err)
	require.Len(t, decls, 1)

	children, err := decls[0].Children()
	require.NoError(t, err)
	assert.Equal(t, []string{"Get, Head", "*Route"}, declNames(children))
}
