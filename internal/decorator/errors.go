package decorator

import (
	"errors"
	"fmt"
	"go/token"

	"annotation-collector/internal/annotation"
)

var (
	// ErrUnresolvedSymbol is returned when an annotation head does not
	// resolve to any declaration.
	ErrUnresolvedSymbol = errors.New("unresolved annotation symbol")
	// ErrMalformedAnnotation is returned for annotation lines that do not parse.
	ErrMalformedAnnotation = annotation.ErrMalformed
)

// Error describes a failure to serialize one annotation.
type Error struct {
	Kind       error
	Annotation string
	Position   token.Position
	Msg        string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}

	msg := fmt.Sprintf("%s: %s %s", e.Position, e.Kind, e.Annotation)
	if e.Msg != "" {
		msg += ": " + e.Msg
	}

	return msg
}

func (e *Error) Unwrap() error { return e.Kind }
