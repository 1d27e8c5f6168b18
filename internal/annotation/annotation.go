package annotation

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Prefix starts an annotation line.
const Prefix = "@"

// ErrMalformed is returned for annotation lines that are not a valid
// expression with a resolvable head.
var ErrMalformed = errors.New("malformed annotation")

// Annotation is one parsed annotation line.
type Annotation struct {
	// Text is the expression source, without the prefix.
	Text string
	// Expr is the parsed expression. Its positions are relative to Text.
	Expr ast.Expr
	// Pos is the position of the comment that holds the annotation.
	Pos token.Pos
}

// SyntaxError reports an annotation line that could not be parsed.
type SyntaxError struct {
	Pos  token.Pos
	Text string
	Err  error
}

func (e *SyntaxError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %q", ErrMalformed, e.Text)
	}

	return fmt.Sprintf("%s %q: %v", ErrMalformed, e.Text, e.Err)
}

func (e *SyntaxError) Unwrap() error { return ErrMalformed }

// IsAnnotation reports whether a line of comment text is an annotation:
// the prefix, a dotted identifier head and then nothing or an opening
// brace, parenthesis or bracket. Lines such as "@see Orders" are prose.
func IsAnnotation(text string) bool {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, Prefix) {
		return false
	}

	rest := text[len(Prefix):]
	r, _ := utf8.DecodeRuneInString(rest)
	if r != '_' && !unicode.IsLetter(r) {
		return false
	}

	rest = strings.TrimLeftFunc(rest, isHeadRune)
	rest = strings.TrimLeftFunc(rest, unicode.IsSpace)

	return rest == "" || strings.ContainsRune("{([", rune(rest[0]))
}

func isHeadRune(r rune) bool {
	return r == '_' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// commentText strips the comment markers of a line comment.
// Block comments never carry annotations.
func commentText(c *ast.Comment) (string, bool) {
	if !strings.HasPrefix(c.Text, "//") {
		return "", false
	}

	return strings.TrimSpace(c.Text[2:]), true
}

// Parse parses a single comment. It returns false when the comment is not
// an annotation.
func Parse(c *ast.Comment) (Annotation, bool, error) {
	text, ok := commentText(c)
	if !ok || !IsAnnotation(text) {
		return Annotation{}, false, nil
	}

	src := strings.TrimPrefix(text, Prefix)
	expr, err := parser.ParseExpr(src)
	if err != nil {
		return Annotation{}, true, &SyntaxError{Pos: c.Pos(), Text: src, Err: err}
	}

	a := Annotation{Text: src, Expr: expr, Pos: c.Pos()}
	if _, name := a.Head(); name == "" {
		return Annotation{}, true, &SyntaxError{Pos: c.Pos(), Text: src}
	}

	return a, true, nil
}

// FromDoc parses every annotation of a doc comment, in source order.
func FromDoc(doc *ast.CommentGroup) ([]Annotation, error) {
	if doc == nil {
		return nil, nil
	}

	var out []Annotation
	for _, c := range doc.List {
		a, ok, err := Parse(c)
		if err != nil {
			return nil, err
		}

		if ok {
			out = append(out, a)
		}
	}

	return out, nil
}

// Head returns the leading identifier of the annotation. When the
// expression starts with a selector on an identifier (pkg.Name) the
// identifier is returned as qualifier.
func (a Annotation) Head() (qualifier, name string) {
	e := a.Expr
	for {
		switch x := e.(type) {
		case *ast.CallExpr:
			e = x.Fun
		case *ast.CompositeLit:
			e = x.Type
		case *ast.IndexExpr:
			e = x.X
		case *ast.IndexListExpr:
			e = x.X
		case *ast.ParenExpr:
			e = x.X
		case *ast.SelectorExpr:
			id, ok := x.X.(*ast.Ident)
			if !ok {
				return "", ""
			}

			return id.Name, x.Sel.Name
		case *ast.Ident:
			return "", x.Name
		default:
			return "", ""
		}
	}
}

// String returns the annotation as written.
func (a Annotation) String() string {
	return Prefix + a.Text
}
