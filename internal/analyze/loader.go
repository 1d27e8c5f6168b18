package analyze

import (
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"

	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Options controls how source files are compiled.
type Options struct {
	Mode  packages.LoadMode
	Tests bool
	// Env is appended to the process environment of the build tool.
	Env []string
}

// DefaultOptions are the compile options used for every collection pass.
// They are deliberately not configurable by users.
var DefaultOptions = Options{
	Mode:  LoadMode,
	Tests: false,
	Env:   []string{"CGO_ENABLED=0"},
}

// Source is an in-memory source file.
type Source struct {
	Name string
	Text string
}

// Compile loads and type-checks the packages containing fileNames.
// Relative names are resolved against dir, which is also where the build
// tool runs. The returned program lists the files in the given order.
func Compile(dir string, fileNames []string, opts Options) (*Program, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory %s: %w", dir, err)
	}

	fset := token.NewFileSet()
	prog := newProgram(fset)
	if len(fileNames) == 0 {
		return prog, nil
	}

	abs := make([]string, 0, len(fileNames))
	patterns := make([]string, 0, len(fileNames))
	for _, name := range fileNames {
		if !filepath.IsAbs(name) {
			name = filepath.Join(absDir, name)
		}

		abs = append(abs, filepath.Clean(name))
		patterns = append(patterns, "file="+filepath.Clean(name))
	}

	cfg := &packages.Config{
		Mode:  opts.Mode,
		Dir:   absDir,
		Tests: opts.Tests,
		Fset:  fset,
		Env:   append(os.Environ(), opts.Env...),
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// Check for package errors
	var errs []error
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	})
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	found := make(map[string]*SourceFile)
	for _, pkg := range pkgs {
		for _, f := range pkg.Syntax {
			name := fset.File(f.Pos()).Name()
			prog.byName[name] = f
			found[name] = &SourceFile{
				Name:   name,
				Syntax: f,
				Pkg:    pkg.Types,
				Info:   pkg.TypesInfo,
			}
		}
	}

	for _, name := range abs {
		sf, ok := found[name]
		if !ok {
			prog.Skipped = append(prog.Skipped, name)
			continue
		}

		prog.files = append(prog.files, sf)
	}

	return prog, nil
}

// CompileSources type-checks in-memory sources as a single package.
// Imports are resolved through the default importer, so only standard
// library packages may be imported.
func CompileSources(pkgPath string, sources ...Source) (*Program, error) {
	fset := token.NewFileSet()
	prog := newProgram(fset)

	files := make([]*ast.File, 0, len(sources))
	for _, src := range sources {
		f, err := parser.ParseFile(fset, src.Name, src.Text, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("failed to parse source %s: %w", src.Name, err)
		}

		files = append(files, f)
		prog.byName[src.Name] = f
	}

	info := &types.Info{
		Types:  make(map[ast.Expr]types.TypeAndValue),
		Defs:   make(map[*ast.Ident]types.Object),
		Uses:   make(map[*ast.Ident]types.Object),
		Scopes: make(map[ast.Node]*types.Scope),
	}

	conf := types.Config{Importer: importer.Default()}
	pkg, err := conf.Check(pkgPath, fset, files, info)
	if err != nil {
		return nil, fmt.Errorf("failed to type-check %s: %w", pkgPath, err)
	}

	for i, f := range files {
		prog.files = append(prog.files, &SourceFile{
			Name:   sources[i].Name,
			Syntax: f,
			Pkg:    pkg,
			Info:   info,
		})
	}

	return prog, nil
}

// syntaxFor returns a syntax tree and its file set for the named file,
// parsing it on demand when the loader did not produce one.
func (p *Program) syntaxFor(name string) (*token.FileSet, *ast.File) {
	if f, ok := p.byName[name]; ok {
		return p.Fset, f
	}

	if pf, ok := p.parsed[name]; ok {
		return pf.fset, pf.file
	}

	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, name, nil, parser.ParseComments)
	if err != nil {
		f = nil
	}

	p.parsed[name] = parsedFile{fset: fset, file: f}
	return fset, f
}
