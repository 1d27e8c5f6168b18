package decorator

import (
	"go/ast"
	"go/token"
	"go/types"
	"math"
	"strconv"
)

// Parameter is one literal key/value argument of an annotation invocation.
type Parameter struct {
	Name string `json:"name" yaml:"name"`
	// Value is either an int64 or a string.
	Value any `json:"value" yaml:"value"`
}

// ExtractParameters visits every node under the invocation and records one
// parameter per key/value element whose literal value is retained.
//
// The literal scan covers the element's key and then its value; when both
// are literals the value wins, when only the key is a string literal the key
// text becomes the value.
func ExtractParameters(invocation ast.Node) []Parameter {
	if invocation == nil {
		return nil
	}

	var params []Parameter
	ast.Inspect(invocation, func(n ast.Node) bool {
		kv, ok := n.(*ast.KeyValueExpr)
		if !ok {
			return true
		}

		p := Parameter{Name: keyText(kv.Key)}
		for _, child := range []ast.Expr{kv.Key, kv.Value} {
			if v, ok := literalValue(child); ok {
				p.Value = v
			}
		}

		if Retained(p.Value) {
			params = append(params, p)
		}

		return true
	})

	return params
}

// Retained is the predicate deciding whether an extracted value is recorded.
// Only non-zero integers and non-empty strings are kept; 0, "" and values
// that are not literals are dropped.
func Retained(v any) bool {
	switch x := v.(type) {
	case int64:
		return x != 0
	case string:
		return x != ""
	default:
		return false
	}
}

// ParseInteger parses a numeric literal as an integer. Integer literals use
// Go syntax (base prefixes, underscores); floating point literals are
// truncated toward zero. Anything else, including values outside the int64
// range, yields 0.
func ParseInteger(text string) int64 {
	if i, err := strconv.ParseInt(text, 0, 64); err == nil {
		return i
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0
	}

	return int64(f)
}

func literalValue(e ast.Expr) (any, bool) {
	lit, ok := e.(*ast.BasicLit)
	if !ok {
		return nil, false
	}

	switch lit.Kind {
	case token.INT, token.FLOAT:
		return ParseInteger(lit.Value), true
	case token.STRING, token.CHAR:
		s, err := strconv.Unquote(lit.Value)
		if err != nil {
			return lit.Value, true
		}

		return s, true
	default:
		return nil, false
	}
}

func keyText(e ast.Expr) string {
	switch k := e.(type) {
	case *ast.Ident:
		return k.Name
	case *ast.BasicLit:
		if k.Kind == token.STRING {
			if s, err := strconv.Unquote(k.Value); err == nil {
				return s
			}
		}

		return k.Value
	default:
		return types.ExprString(e)
	}
}

// Flatten maps parameters by name; later parameters overwrite earlier ones.
func Flatten(params []Parameter) map[string]any {
	out := make(map[string]any, len(params))
	for _, p := range params {
		out[p.Name] = p.Value
	}

	return out
}
