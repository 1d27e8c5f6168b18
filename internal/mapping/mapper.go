package mapping

import (
	"fmt"
	"maps"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"annotation-collector/internal/decorator"
	"annotation-collector/internal/diagnostic"
)

// EntrySymbol is appended to handler paths in place of the source extension.
const EntrySymbol = "Handle"

// DefaultHandlerAnnotation is the handler annotation used when none are configured.
const DefaultHandlerAnnotation = "Handler"

// Config controls how records become entries.
type Config struct {
	// Handlers maps handler annotation names to their default option bags.
	Handlers map[string]map[string]any
	// Service and Stage compose the display name of every function.
	Service string
	Stage   string
	// Root is the directory handler paths are made relative to.
	Root string
}

// Mapper converts serialized records into registry entries.
type Mapper struct {
	cfg    Config
	logger *zap.Logger
	diags  diagnostic.Diagnostics
}

// NewMapper creates a Mapper. A config without handlers uses
// DefaultHandlerAnnotation with no defaults.
func NewMapper(cfg Config, logger *zap.Logger) *Mapper {
	if len(cfg.Handlers) == 0 {
		cfg.Handlers = map[string]map[string]any{DefaultHandlerAnnotation: {}}
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Mapper{cfg: cfg, logger: logger}
}

// Diagnostics returns the non-fatal findings of the mapping passes so far.
func (m *Mapper) Diagnostics() diagnostic.Diagnostics {
	return m.diags
}

// IsHandler reports whether name is a configured handler annotation.
func (m *Mapper) IsHandler(name string) bool {
	_, ok := m.cfg.Handlers[name]
	return ok
}

// Map adds one entry per handler record to a copy of in and returns it.
//
// The first failing record stops the pass: the returned registry then holds
// the entries inserted before it, never the failing one, and in is never
// modified.
func (m *Mapper) Map(in *Registry, records []decorator.Record) (*Registry, error) {
	if in == nil {
		in = NewRegistry()
	}

	out := in.Clone()
	for _, rec := range records {
		if !m.IsHandler(rec.Name) {
			m.diags.AddInfo("not_a_handler",
				fmt.Sprintf("annotation %s is not a handler annotation", rec.Name), rec.Name, rec.SourceFile)
			continue
		}

		entry, err := m.entry(rec)
		if err != nil {
			return out, err
		}

		if err := out.Insert(entry); err != nil {
			return out, &EntryError{Kind: ErrDuplicateName, Annotation: rec.Name, Name: entry.Name, File: rec.SourceFile}
		}

		m.logger.Debug("registered handler",
			zap.String("name", entry.Name),
			zap.String("handler", entry.Handler),
			zap.Int("handlers", len(entry.Handlers)),
		)
	}

	return out, nil
}

func (m *Mapper) entry(rec decorator.Record) (*Entry, error) {
	options := decorator.Flatten(rec.Parameters)
	if len(options) == 0 {
		return nil, &EntryError{Kind: ErrMissingOptions, Annotation: rec.Name, File: rec.SourceFile}
	}

	name, ok := options["name"]
	if !ok {
		return nil, &EntryError{Kind: ErrMissingName, Annotation: rec.Name, File: rec.SourceFile}
	}

	key := fmt.Sprint(name)
	handler := HandlerPath(m.cfg.Root, rec.SourceFile)
	display := DisplayName(m.cfg.Service, m.cfg.Stage, key)

	merged := maps.Clone(m.cfg.Handlers[rec.Name])
	if merged == nil {
		merged = make(map[string]any)
	}

	// The display name is added by Entry.Function.
	delete(merged, "name")
	merged["handler"] = handler
	for k, v := range options {
		if k == "name" {
			continue
		}

		merged[k] = v
	}

	return &Entry{
		Name:        key,
		Handler:     handler,
		DisplayName: display,
		Options:     merged,
		Handlers:    m.children(rec),
		Annotation:  rec.Name,
		SourceFile:  rec.SourceFile,
	}, nil
}

func (m *Mapper) children(rec decorator.Record) []Child {
	if len(rec.Children) == 0 {
		return nil
	}

	out := make([]Child, 0, len(rec.Children))
	for _, c := range rec.Children {
		opts := decorator.Flatten(c.Parameters)
		if len(opts) == 0 {
			m.diags.AddWarning("member_without_options",
				fmt.Sprintf("member annotation %s has no options", c.Name), c.Name, c.SourceFile)
		}

		out = append(out, Child{Name: c.Name, Options: opts})
	}

	return out
}

// HandlerPath returns the entry point path of a source file: relative to
// root, slash separated, with the extension replaced by "." + EntrySymbol.
// Files outside root keep their path.
func HandlerPath(root, file string) string {
	rel := file
	if root != "" {
		if r, err := filepath.Rel(root, file); err == nil && !strings.HasPrefix(r, "..") {
			rel = r
		}
	}

	rel = filepath.ToSlash(rel)
	return strings.TrimSuffix(rel, filepath.Ext(rel)) + "." + EntrySymbol
}

// DisplayName returns the deployed function name "<service>-<stage>-<name>".
func DisplayName(service, stage, name string) string {
	return fmt.Sprintf("%s-%s-%s", service, stage, name)
}
