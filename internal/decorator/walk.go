package decorator

import (
	"errors"
	"go/ast"
	"go/token"
	"go/types"
	"strings"

	"annotation-collector/internal/analyze"
	"annotation-collector/internal/annotation"
)

// Declaration is an annotated declaration: a type spec, or a field or
// interface method nested in one.
type Declaration struct {
	Name        string
	Node        ast.Node // *ast.TypeSpec or *ast.Field
	Annotations []annotation.Annotation
	File        *analyze.SourceFile
}

// Walk yields the annotated type declarations of every source file, in file
// order and pre-order within a file. Grouped type declarations are walked
// through; unannotated declarations are skipped along with their members.
func Walk(prog *analyze.Program) ([]Declaration, error) {
	var decls []Declaration
	for _, sf := range prog.SourceFiles() {
		for _, d := range sf.Syntax.Decls {
			found, err := visit(d, sf)
			if err != nil {
				return nil, wrapSyntax(prog, err)
			}

			decls = append(decls, found...)
		}
	}

	return decls, nil
}

func visit(node ast.Decl, sf *analyze.SourceFile) ([]Declaration, error) {
	gd, ok := node.(*ast.GenDecl)
	if !ok || gd.Tok != token.TYPE {
		return nil, nil
	}

	var out []Declaration
	for _, spec := range gd.Specs {
		ts := spec.(*ast.TypeSpec)

		doc := ts.Doc
		if doc == nil && !gd.Lparen.IsValid() {
			doc = gd.Doc
		}

		anns, err := annotation.FromDoc(doc)
		if err != nil {
			return nil, err
		}

		if len(anns) == 0 {
			continue
		}

		out = append(out, Declaration{
			Name:        ts.Name.Name,
			Node:        ts,
			Annotations: anns,
			File:        sf,
		})
	}

	return out, nil
}

// typeExpr returns the type syntax of the declaration.
func (d Declaration) typeExpr() ast.Expr {
	switch n := d.Node.(type) {
	case *ast.TypeSpec:
		return n.Type
	case *ast.Field:
		return n.Type
	default:
		return nil
	}
}

// Children returns the annotated members declared directly in the
// declaration's type: fields of a struct type or methods of an interface
// type, looking through pointer, slice and array types.
func (d Declaration) Children() ([]Declaration, error) {
	members := memberList(d.typeExpr())
	if members == nil {
		return nil, nil
	}

	var out []Declaration
	for _, f := range members.List {
		anns, err := annotation.FromDoc(f.Doc)
		if err != nil {
			return nil, err
		}

		if len(anns) == 0 {
			continue
		}

		out = append(out, Declaration{
			Name:        fieldName(f),
			Node:        f,
			Annotations: anns,
			File:        d.File,
		})
	}

	return out, nil
}

func memberList(e ast.Expr) *ast.FieldList {
	for {
		switch t := e.(type) {
		case *ast.StructType:
			return t.Fields
		case *ast.InterfaceType:
			return t.Methods
		case *ast.StarExpr:
			e = t.X
		case *ast.ArrayType:
			e = t.Elt
		case *ast.ParenExpr:
			e = t.X
		default:
			return nil
		}
	}
}

func fieldName(f *ast.Field) string {
	if len(f.Names) == 0 {
		return types.ExprString(f.Type)
	}

	names := make([]string, 0, len(f.Names))
	for _, n := range f.Names {
		names = append(names, n.Name)
	}

	return strings.Join(names, ", ")
}

func wrapSyntax(prog *analyze.Program, err error) error {
	var syntaxErr *annotation.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return err
	}

	return &Error{
		Kind:       ErrMalformedAnnotation,
		Annotation: annotation.Prefix + syntaxErr.Text,
		Position:   prog.Position(syntaxErr.Pos),
		Msg:        errMsg(syntaxErr.Err),
	}
}

func errMsg(err error) string {
	if err == nil {
		return ""
	}

	return err.Error()
}
