package analyze

import (
	"go/ast"
	"go/token"
	"go/types"
)

// SourceFile is one compiled file of a Program.
type SourceFile struct {
	Name   string         // Absolute file path
	Syntax *ast.File      // Parsed file, with comments
	Pkg    *types.Package // Package the file belongs to
	Info   *types.Info    // Type-checker results for the package
}

// Scope returns the file scope, falling back to the package scope when the
// type-checker did not record scopes.
func (f *SourceFile) Scope() *types.Scope {
	if f.Info != nil && f.Info.Scopes != nil {
		if s, ok := f.Info.Scopes[f.Syntax]; ok {
			return s
		}
	}

	if f.Pkg != nil {
		return f.Pkg.Scope()
	}

	return nil
}

// Symbol is the serialized form of a resolved object.
type Symbol struct {
	Name          string `json:"name" yaml:"name"`
	Documentation string `json:"documentation" yaml:"documentation"`
	Type          string `json:"type" yaml:"type"`
}

// Signature is the serialized form of a callable.
type Signature struct {
	Parameters    []Symbol `json:"parameters" yaml:"parameters"`
	ReturnType    string   `json:"returnType" yaml:"returnType"`
	Documentation string   `json:"documentation" yaml:"documentation"`
}

// Program holds the compiled source files in the order they were requested.
type Program struct {
	Fset *token.FileSet

	files []*SourceFile
	// byName indexes every syntax tree the loader produced, requested or not,
	// so doc comments of sibling files resolve without reparsing.
	byName map[string]*ast.File
	// Skipped lists requested files that no loaded package contained
	// (build constraints, unsupported file kinds).
	Skipped []string

	parsed map[string]parsedFile
}

type parsedFile struct {
	fset *token.FileSet
	file *ast.File
}

func newProgram(fset *token.FileSet) *Program {
	return &Program{
		Fset:   fset,
		byName: make(map[string]*ast.File),
		parsed: make(map[string]parsedFile),
	}
}

// SourceFiles returns the compiled files in request order.
func (p *Program) SourceFiles() []*SourceFile {
	return p.files
}

// Position converts a position of this program to a file:line:column form.
func (p *Program) Position(pos token.Pos) token.Position {
	return p.Fset.Position(pos)
}

// Resolver returns the symbol resolver for this program.
func (p *Program) Resolver() *Resolver {
	return &Resolver{prog: p}
}
