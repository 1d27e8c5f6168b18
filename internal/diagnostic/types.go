package diagnostic

import (
	"fmt"
	"strings"

	"annotation-collector/internal/common"
)

// Diagnostics holds the findings of one collection pass.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single finding.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity
	// Code is a unique identifier for this kind of finding.
	Code string
	// Message is the human-readable description.
	Message string
	// Annotation is the annotation this relates to (if any).
	Annotation string
	// File is the source file this relates to (if any).
	File string
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return common.UnknownStr
	}
}

func newDiagnostic(s Severity, code, message, annotation, file string) Diagnostic {
	return Diagnostic{
		Severity:   s,
		Code:       code,
		Message:    message,
		Annotation: annotation,
		File:       file,
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, annotation, file string) {
	d.Errors = append(d.Errors, newDiagnostic(SeverityError, code, message, annotation, file))
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, annotation, file string) {
	d.Warnings = append(d.Warnings, newDiagnostic(SeverityWarning, code, message, annotation, file))
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, annotation, file string) {
	d.Infos = append(d.Infos, newDiagnostic(SeverityInfo, code, message, annotation, file))
}

// HasErrors returns true if there are any error diagnostics.
func (d Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// All returns every diagnostic, errors first.
func (d Diagnostics) All() []Diagnostic {
	all := make([]Diagnostic, 0, len(d.Errors)+len(d.Warnings)+len(d.Infos))
	all = append(all, d.Errors...)
	all = append(all, d.Warnings...)

	return append(all, d.Infos...)
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.File != "" {
		prefix = append(prefix, d.File)
	}

	if d.Annotation != "" {
		prefix = append(prefix, d.Annotation)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
