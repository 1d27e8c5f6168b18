package mapping

import (
	"errors"
	"fmt"
)

var (
	ErrMissingOptions = errors.New("could not get handler options")
	ErrMissingName    = errors.New("handler name has to be provided")
	ErrDuplicateName  = errors.New("handler already exists")
)

// EntryError reports a handler record that could not become a registry entry.
type EntryError struct {
	Kind       error
	Annotation string
	Name       string
	File       string
}

func (e *EntryError) Error() string {
	if e == nil {
		return ""
	}

	var msg string
	if e.Name != "" {
		msg = fmt.Sprintf("%s: %q", e.Kind, e.Name)
	} else {
		msg = e.Kind.Error()
	}

	if e.File != "" {
		msg = fmt.Sprintf("%s (@%s in %s)", msg, e.Annotation, e.File)
	}

	return msg
}

func (e *EntryError) Unwrap() error { return e.Kind }
