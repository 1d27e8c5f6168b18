package analyze

import (
	"go/types"
	"strings"
)

// Qualifier returns a types.Qualifier that omits the package from and names
// every other package by its package name.
// Examples:
//   - "Handler" for a type declared in from
//   - "annotations.Handler" for a type of an imported package
func Qualifier(from *types.Package) types.Qualifier {
	return func(p *types.Package) string {
		if p == from {
			return ""
		}

		return p.Name()
	}
}

// TypeString returns the display string of t as seen from package from.
func TypeString(t types.Type, from *types.Package) string {
	if t == nil {
		return "<nil>"
	}

	return types.TypeString(t, Qualifier(from))
}

// ResultString renders a result tuple without parameter names:
// "" for no results, "T" for one and "(A, B)" for several.
func ResultString(results *types.Tuple, from *types.Package) string {
	switch results.Len() {
	case 0:
		return ""
	case 1:
		return TypeString(results.At(0).Type(), from)
	}

	parts := make([]string, 0, results.Len())
	for i := 0; i < results.Len(); i++ {
		parts = append(parts, TypeString(results.At(i).Type(), from))
	}

	return "(" + strings.Join(parts, ", ") + ")"
}
