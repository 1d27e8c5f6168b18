package decorator

import (
	"fmt"
	"go/ast"
	"strings"

	"go.uber.org/zap"

	"annotation-collector/internal/analyze"
	"annotation-collector/internal/annotation"
)

// Record is the resolved form of one annotation, with the annotations of the
// declaration's members as children.
type Record struct {
	Name          string              `json:"name" yaml:"name"`
	Documentation string              `json:"documentation" yaml:"documentation"`
	Type          string              `json:"type" yaml:"type"`
	Constructors  []analyze.Signature `json:"constructors" yaml:"constructors"`
	Parameters    []Parameter         `json:"parameters" yaml:"parameters"`
	Children      []Record            `json:"children,omitempty" yaml:"children,omitempty"`
	SourceFile    string              `json:"sourceFile" yaml:"sourceFile"`
}

//go:generate go tool stringer -type=InvocationRule -linecomment -output=invocationrule_string.go

// InvocationRule selects the node whose arguments become an annotation's
// parameters.
type InvocationRule int

const (
	// InvocationDeclaration takes the first call or composite literal found by
	// a pre-order search over the whole declaration: its annotations in order,
	// then its type, visiting each member's annotations before the member's
	// type. With several annotations on one declaration they all receive the
	// arguments of the first one.
	InvocationDeclaration InvocationRule = iota // declaration
	// InvocationAnnotation takes the first call or composite literal within
	// the annotation itself and falls back to InvocationDeclaration.
	InvocationAnnotation // annotation
)

// ParseInvocationRule parses a rule name; the empty string selects the default.
func ParseInvocationRule(s string) (InvocationRule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", InvocationDeclaration.String():
		return InvocationDeclaration, nil
	case InvocationAnnotation.String():
		return InvocationAnnotation, nil
	default:
		return 0, fmt.Errorf("unknown invocation rule %q", s)
	}
}

// Serializer builds Records for the declarations of one program.
type Serializer struct {
	prog     *analyze.Program
	resolver *analyze.Resolver
	rule     InvocationRule
	logger   *zap.Logger
}

// Option configures a Serializer.
type Option func(*Serializer)

// WithRule sets the invocation rule.
func WithRule(rule InvocationRule) Option {
	return func(s *Serializer) { s.rule = rule }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(s *Serializer) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSerializer creates a Serializer for prog.
func NewSerializer(prog *analyze.Program, opts ...Option) *Serializer {
	s := &Serializer{
		prog:     prog,
		resolver: prog.Resolver(),
		rule:     InvocationDeclaration,
		logger:   zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SerializeProgram walks the program and serializes every annotation of
// every top-level annotated declaration, in walk order.
func (s *Serializer) SerializeProgram() ([]Record, error) {
	decls, err := Walk(s.prog)
	if err != nil {
		return nil, err
	}

	return s.SerializeAll(decls)
}

// SerializeAll serializes every annotation of decls, in order.
func (s *Serializer) SerializeAll(decls []Declaration) ([]Record, error) {
	var records []Record
	for _, d := range decls {
		for _, a := range d.Annotations {
			rec, err := s.Serialize(d, a)
			if err != nil {
				return nil, err
			}

			records = append(records, rec)
		}
	}

	return records, nil
}

// Serialize resolves annotation a of declaration d and builds its record,
// recursing into the annotated members of d.
func (s *Serializer) Serialize(d Declaration, a annotation.Annotation) (Record, error) {
	qualifier, name := a.Head()
	obj, ok := s.resolver.Lookup(d.File, qualifier, name)
	if !ok {
		return Record{}, &Error{
			Kind:       ErrUnresolvedSymbol,
			Annotation: a.String(),
			Position:   s.prog.Position(a.Pos),
			Msg:        fmt.Sprintf("%s is not declared", strings.TrimPrefix(qualifier+"."+name, ".")),
		}
	}

	sym := s.resolver.Describe(obj, d.File.Pkg)
	rec := Record{
		Name:          sym.Name,
		Documentation: sym.Documentation,
		Type:          sym.Type,
		Constructors:  s.resolver.Constructors(obj, d.File.Pkg),
		SourceFile:    d.File.Name,
	}

	invocation, err := s.invocation(d, a)
	if err != nil {
		return Record{}, wrapSyntax(s.prog, err)
	}

	rec.Parameters = ExtractParameters(invocation)

	children, err := d.Children()
	if err != nil {
		return Record{}, wrapSyntax(s.prog, err)
	}

	for _, c := range children {
		for _, ca := range c.Annotations {
			child, err := s.Serialize(c, ca)
			if err != nil {
				return Record{}, err
			}

			rec.Children = append(rec.Children, child)
		}
	}

	s.logger.Debug("serialized annotation",
		zap.String("annotation", a.String()),
		zap.String("declaration", d.Name),
		zap.String("file", d.File.Name),
		zap.Int("parameters", len(rec.Parameters)),
		zap.Int("children", len(rec.Children)),
	)

	return rec, nil
}

func (s *Serializer) invocation(d Declaration, a annotation.Annotation) (ast.Node, error) {
	if s.rule == InvocationAnnotation {
		if n := firstInvocation(a.Expr); n != nil {
			return n, nil
		}
	}

	return declarationInvocation(d)
}

func isInvocation(n ast.Node) bool {
	switch n.(type) {
	case *ast.CallExpr, *ast.CompositeLit:
		return true
	default:
		return false
	}
}

func firstInvocation(root ast.Node) ast.Node {
	if root == nil {
		return nil
	}

	var found ast.Node
	ast.Inspect(root, func(n ast.Node) bool {
		if found != nil || n == nil {
			return false
		}

		if isInvocation(n) {
			found = n
			return false
		}

		return true
	})

	return found
}

// declarationInvocation searches the declaration's annotations, then its
// type syntax; member annotations are searched before the member's type.
func declarationInvocation(d Declaration) (ast.Node, error) {
	for _, a := range d.Annotations {
		if n := firstInvocation(a.Expr); n != nil {
			return n, nil
		}
	}

	typ := d.typeExpr()
	if typ == nil {
		return nil, nil
	}

	var (
		found ast.Node
		err   error
	)
	ast.Inspect(typ, func(n ast.Node) bool {
		if found != nil || err != nil || n == nil {
			return false
		}

		if f, ok := n.(*ast.Field); ok {
			var anns []annotation.Annotation
			anns, err = annotation.FromDoc(f.Doc)
			for _, a := range anns {
				if found = firstInvocation(a.Expr); found != nil {
					return false
				}
			}

			return err == nil
		}

		if isInvocation(n) {
			found = n
			return false
		}

		return true
	})

	return found, err
}
