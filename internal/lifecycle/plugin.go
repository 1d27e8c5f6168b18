// Package lifecycle runs a collection pass for a service and exposes it
// under the deployment lifecycle events that trigger it.
package lifecycle

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"go.uber.org/zap"

	"annotation-collector/internal/analyze"
	"annotation-collector/internal/common"
	"annotation-collector/internal/config"
	"annotation-collector/internal/decorator"
	"annotation-collector/internal/diagnostic"
	"annotation-collector/internal/discover"
	"annotation-collector/internal/mapping"
	"annotation-collector/internal/report"
)

// Lifecycle events a collection pass runs on.
const (
	EventBeforePackage = "before:package:initialize"
	EventBeforeInvoke  = "before:invoke:invoke"
	EventBeforeDeploy  = "before:deploy:function:initialize"
	EventCollect       = "collect:init"
)

// ErrUnknownEvent is returned by Run for events without a hook.
var ErrUnknownEvent = errors.New("unknown lifecycle event")

// Hook is run on a lifecycle event.
type Hook func() error

// CompileFunc compiles source files; analyze.Compile in production.
type CompileFunc func(dir string, files []string, opts analyze.Options) (*analyze.Program, error)

// Options configures a Plugin.
type Options struct {
	// Stage overrides the configured stage.
	Stage string
	// Version is the running collector version, checked against requiredVersion.
	Version string
	// Format of the registry dump.
	Format report.Format
	// Output receives the dump and the optional summaries. Defaults to stderr.
	Output io.Writer
	// OutFile, when set, also receives the dump.
	OutFile string
	// Table adds a table summary after the dump.
	Table bool
	// Debug adds the serialized record tree after the dump.
	Debug bool
	// Quiet suppresses the dump on Output.
	Quiet bool

	Logger  *zap.Logger
	Compile CompileFunc
}

// Plugin collects the annotated handlers of one service.
// It is not safe for concurrent use.
type Plugin struct {
	svc    *config.Service
	opts   Options
	logger *zap.Logger

	stage    string
	existing *mapping.Registry
	initErr  error
	records  []decorator.Record
	registry *mapping.Registry
	diags    diagnostic.Diagnostics
}

// New creates a Plugin for svc.
func New(svc *config.Service, opts Options) *Plugin {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	if opts.Output == nil {
		opts.Output = os.Stderr
	}

	if opts.Compile == nil {
		opts.Compile = analyze.Compile
	}

	if opts.Format == "" {
		opts.Format = report.FormatYAML
	}

	existing, err := mapping.FromFunctions(svc.Functions)

	return &Plugin{
		svc:      svc,
		opts:     opts,
		logger:   opts.Logger,
		stage:    svc.ResolveStage(opts.Stage),
		existing: existing,
		initErr:  err,
	}
}

// Hooks returns the hook of every lifecycle event.
func (p *Plugin) Hooks() map[string]Hook {
	return map[string]Hook{
		EventBeforePackage: p.Collect,
		EventBeforeInvoke:  p.Collect,
		EventBeforeDeploy:  p.Collect,
		EventCollect:       p.Collect,
	}
}

// Events returns the supported event names, sorted.
func Events() []string {
	return slices.Sorted(maps.Keys((&Plugin{}).Hooks()))
}

// Run runs the hook of event.
func (p *Plugin) Run(event string) error {
	hook, ok := p.Hooks()[event]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEvent, event)
	}

	p.logger.Debug("running hook", zap.String("event", event))

	return hook()
}

// Stage returns the stage the plugin collects for.
func (p *Plugin) Stage() string {
	return p.stage
}

// Records returns the records of the last pass.
func (p *Plugin) Records() []decorator.Record {
	return p.records
}

// Registry returns the registry of the last mapping pass, or nil when the
// last pass failed before mapping.
func (p *Plugin) Registry() *mapping.Registry {
	return p.registry
}

// Diagnostics returns the non-fatal findings of the last pass.
func (p *Plugin) Diagnostics() diagnostic.Diagnostics {
	return p.diags
}

// Collect discovers, compiles and serializes the annotated sources, maps the
// handler records onto the service functions and reports the result.
//
// Every pass starts from the functions the service declared when the Plugin
// was created, so later hooks of the same run see the same input.
// When mapping fails, the service functions keep the entries mapped before
// the failing record and nothing is reported.
func (p *Plugin) Collect() error {
	p.diags = diagnostic.Diagnostics{}
	p.records, p.registry = nil, nil
	a := p.svc.Annotations()

	if p.initErr != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, p.initErr)
	}

	if err := a.CheckVersion(p.opts.Version); err != nil {
		return err
	}

	rule, err := decorator.ParseInvocationRule(a.Invocation)
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}

	files, err := discover.Files(a.Root, a.Pattern, a.Ignore)
	if err != nil {
		return err
	}

	if common.IsEmpty(files) {
		p.diags.AddWarning("no_sources", fmt.Sprintf("no source files match %s", a.Pattern), "", a.Root)
	}

	p.logger.Info("compiling sources", zap.String("root", a.Root), zap.Int("files", len(files)))

	prog, err := p.opts.Compile(a.Root, files, analyze.DefaultOptions)
	if err != nil {
		return fmt.Errorf("failed to compile sources: %w", err)
	}

	for _, skipped := range prog.Skipped {
		p.diags.AddWarning("file_skipped", "file is not part of any loaded package", "", skipped)
	}

	serializer := decorator.NewSerializer(prog, decorator.WithRule(rule), decorator.WithLogger(p.logger))

	records, err := serializer.SerializeProgram()
	if err != nil {
		p.recordFailure(err)
		p.logDiagnostics()

		return err
	}

	p.records = records

	mapper := mapping.NewMapper(mapping.Config{
		Handlers: a.Handlers,
		Service:  string(p.svc.Service),
		Stage:    p.stage,
		Root:     a.Root,
	}, p.logger)

	reg, err := mapper.Map(p.existing, records)
	p.diags.Merge(mapper.Diagnostics())
	p.registry = reg
	p.svc.Functions = reg.Functions()
	if err != nil {
		p.recordFailure(err)
		p.logDiagnostics()

		return err
	}

	p.logger.Info("collected handlers",
		zap.String("service", string(p.svc.Service)),
		zap.String("stage", p.stage),
		zap.Int("records", len(records)),
		zap.Int("functions", reg.Len()),
	)

	p.logDiagnostics()

	return p.report(reg)
}

func (p *Plugin) report(reg *mapping.Registry) error {
	if p.opts.OutFile != "" {
		f, err := os.Create(p.opts.OutFile)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", p.opts.OutFile, err)
		}

		err = report.Dump(f, reg, p.opts.Format)
		if cerr := f.Close(); err == nil {
			err = cerr
		}

		if err != nil {
			return fmt.Errorf("failed to write %s: %w", p.opts.OutFile, err)
		}
	}

	if !p.opts.Quiet {
		if err := report.Dump(p.opts.Output, reg, p.opts.Format); err != nil {
			return err
		}
	}

	if p.opts.Table {
		fmt.Fprintln(p.opts.Output, report.Table(reg))
	}

	if p.opts.Debug {
		fmt.Fprint(p.opts.Output, report.DebugTree(p.records))
	}

	return nil
}

// recordFailure turns a serialize or map failure into an error diagnostic.
func (p *Plugin) recordFailure(err error) {
	var (
		entryErr *mapping.EntryError
		declErr  *decorator.Error
		name     string
		file     string
	)

	switch {
	case errors.As(err, &entryErr):
		name, file = entryErr.Annotation, entryErr.File
	case errors.As(err, &declErr):
		name, file = declErr.Annotation, declErr.Position.Filename
	}

	p.diags.AddError(failureCode(err), err.Error(), name, file)
}

func failureCode(err error) string {
	switch {
	case errors.Is(err, decorator.ErrUnresolvedSymbol):
		return "unresolved_symbol"
	case errors.Is(err, decorator.ErrMalformedAnnotation):
		return "malformed_annotation"
	case errors.Is(err, mapping.ErrMissingOptions):
		return "missing_options"
	case errors.Is(err, mapping.ErrMissingName):
		return "missing_name"
	case errors.Is(err, mapping.ErrDuplicateName):
		return "duplicate_name"
	default:
		return "collect_failed"
	}
}

func (p *Plugin) logDiagnostics() {
	for _, d := range p.diags.All() {
		fields := []zap.Field{zap.String("code", d.Code), zap.String("file", d.File)}

		switch d.Severity {
		case diagnostic.SeverityError:
			p.logger.Error(d.Message, fields...)
		case diagnostic.SeverityWarning:
			p.logger.Warn(d.Message, fields...)
		default:
			p.logger.Debug(d.Message, fields...)
		}
	}
}
