package analyze

import (
	"go/ast"
	"go/token"
	"go/types"
	"strings"

	"annotation-collector/internal/annotation"
)

// Resolver answers symbol questions about a Program.
type Resolver struct {
	prog *Program
}

// Lookup resolves name in the scope of file. When qualifier is set it must
// name an imported package and name is looked up among its exported members.
// Packages imported by other files of the same package (including blank
// imports) are accepted as qualifiers too.
func (r *Resolver) Lookup(file *SourceFile, qualifier, name string) (types.Object, bool) {
	scope := file.Scope()
	if scope == nil || name == "" {
		return nil, false
	}

	if qualifier == "" {
		_, obj := scope.LookupParent(name, token.NoPos)
		return obj, obj != nil
	}

	imported := importedPackage(file, scope, qualifier)
	if imported == nil {
		return nil, false
	}

	obj := imported.Scope().Lookup(name)
	if obj == nil || !obj.Exported() {
		return nil, false
	}

	return obj, true
}

func importedPackage(file *SourceFile, scope *types.Scope, qualifier string) *types.Package {
	if _, obj := scope.LookupParent(qualifier, token.NoPos); obj != nil {
		if pn, ok := obj.(*types.PkgName); ok {
			return pn.Imported()
		}

		return nil
	}

	if file.Pkg == nil {
		return nil
	}

	for _, imp := range file.Pkg.Imports() {
		if imp.Name() == qualifier {
			return imp
		}
	}

	return nil
}

// Describe serializes obj as seen from package from.
func (r *Resolver) Describe(obj types.Object, from *types.Package) Symbol {
	return Symbol{
		Name:          obj.Name(),
		Documentation: r.Doc(obj),
		Type:          TypeString(obj.Type(), from),
	}
}

// Constructors returns the callable signatures that construct obj.
//
// A function (or a variable of function type) contributes its own signature.
// A type name contributes every package-level function of its package whose
// name starts with "New"+name and whose first result is the type or a
// pointer to it, in name order.
func (r *Resolver) Constructors(obj types.Object, from *types.Package) []Signature {
	tn, ok := obj.(*types.TypeName)
	if !ok {
		sig, ok := obj.Type().Underlying().(*types.Signature)
		if !ok {
			return nil
		}

		return []Signature{r.signature(sig, r.Doc(obj), from)}
	}

	if tn.Pkg() == nil {
		return nil
	}

	var sigs []Signature
	scope := tn.Pkg().Scope()
	for _, name := range scope.Names() {
		if !strings.HasPrefix(name, "New"+tn.Name()) {
			continue
		}

		fn, ok := scope.Lookup(name).(*types.Func)
		if !ok {
			continue
		}

		sig := fn.Type().(*types.Signature)
		if sig.Results().Len() == 0 || !constructs(sig.Results().At(0).Type(), tn) {
			continue
		}

		sigs = append(sigs, r.signature(sig, r.Doc(fn), from))
	}

	return sigs
}

func constructs(t types.Type, tn *types.TypeName) bool {
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}

	named, ok := types.Unalias(t).(*types.Named)
	return ok && named.Obj() == tn
}

func (r *Resolver) signature(sig *types.Signature, doc string, from *types.Package) Signature {
	out := Signature{
		Parameters:    make([]Symbol, 0, sig.Params().Len()),
		ReturnType:    ResultString(sig.Results(), from),
		Documentation: doc,
	}

	for i := 0; i < sig.Params().Len(); i++ {
		p := sig.Params().At(i)
		typ := TypeString(p.Type(), from)
		if sig.Variadic() && i == sig.Params().Len()-1 {
			if s, ok := p.Type().(*types.Slice); ok {
				typ = "..." + TypeString(s.Elem(), from)
			}
		}

		out.Parameters = append(out.Parameters, Symbol{Name: p.Name(), Type: typ})
	}

	return out
}

// Doc returns the doc comment of the declaration of obj, with annotation
// lines removed. Objects without a source position have no documentation.
func (r *Resolver) Doc(obj types.Object) string {
	if obj == nil || !obj.Pos().IsValid() {
		return ""
	}

	pos := r.prog.Fset.Position(obj.Pos())
	fset, file := r.prog.syntaxFor(pos.Filename)
	if file == nil {
		return ""
	}

	return DocText(findDoc(fset, file, obj.Name(), pos.Line))
}

// findDoc locates the doc comment of the top-level declaration named name
// whose identifier sits on line.
func findDoc(fset *token.FileSet, file *ast.File, name string, line int) *ast.CommentGroup {
	at := func(id *ast.Ident) bool {
		return id.Name == name && fset.Position(id.Pos()).Line == line
	}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if at(d.Name) {
				return d.Doc
			}

		case *ast.GenDecl:
			for _, spec := range d.Specs {
				var doc *ast.CommentGroup
				var names []*ast.Ident

				switch s := spec.(type) {
				case *ast.TypeSpec:
					doc, names = s.Doc, []*ast.Ident{s.Name}
				case *ast.ValueSpec:
					doc, names = s.Doc, s.Names
				}

				for _, id := range names {
					if !at(id) {
						continue
					}

					if doc == nil && !d.Lparen.IsValid() {
						doc = d.Doc
					}

					return doc
				}
			}
		}
	}

	return nil
}

// DocText renders a comment group as plain text without annotation lines.
func DocText(doc *ast.CommentGroup) string {
	if doc == nil {
		return ""
	}

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if annotation.IsAnnotation(line) {
			continue
		}

		lines = append(lines, line)
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}
