package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"annotation-collector/internal/config"
	"annotation-collector/internal/lifecycle"
	"annotation-collector/internal/logging"
	"annotation-collector/internal/openapi"
	"annotation-collector/internal/report"
)

// Result is the outcome of Execute.
type Result struct {
	ExitCode int
}

// Env carries the process boundary of a run.
type Env struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Version string
}

// Execute runs inv. Collected functions and summaries go to Stderr, the
// version and OpenAPI documents go to Stdout.
func Execute(ctx context.Context, inv Invocation, env Env) (Result, error) {
	if inv.Command == CommandVersion {
		fmt.Fprintln(env.Stdout, env.Version)
		return Result{ExitCode: ExitSuccess}, nil
	}

	svc, err := config.LoadFile(inv.ConfigPath)
	if err != nil {
		return Result{ExitCode: ExitConfigError}, err
	}

	if err := config.LoadEnv(svc.Dir); err != nil {
		return Result{ExitCode: ExitConfigError}, err
	}

	logger, sync := logging.New(logging.Options{Console: env.Stderr, File: inv.LogFile, Level: inv.LogLevel})
	defer sync()

	opts := lifecycle.Options{
		Stage:   inv.Stage,
		Version: env.Version,
		Format:  inv.Format,
		Output:  env.Stderr,
		OutFile: inv.OutFile,
		Table:   inv.Table,
		Debug:   inv.Debug,
		Quiet:   inv.Quiet,
		Logger:  logger,
	}

	// openapi writes the document instead of the functions.
	if inv.Command == CommandOpenAPI {
		opts.Format = report.FormatYAML
		opts.OutFile = ""
		opts.Quiet = true
	}

	p := lifecycle.New(svc, opts)

	switch inv.Command {
	case CommandCollect:
		err = p.Collect()
	case CommandHook:
		err = p.Run(inv.Event)
	case CommandOpenAPI:
		err = exportOpenAPI(ctx, p, svc, inv, env.Stdout)
	}

	if err != nil {
		logger.Error("collection failed", zap.Error(err))
		return Result{ExitCode: exitCode(err)}, err
	}

	return Result{ExitCode: ExitSuccess}, nil
}

func exportOpenAPI(ctx context.Context, p *lifecycle.Plugin, svc *config.Service, inv Invocation, stdout io.Writer) error {
	if err := p.Collect(); err != nil {
		return err
	}

	title := inv.Title
	if title == "" {
		title = string(svc.Service)
	}

	doc, err := openapi.Build(ctx, openapi.Info{Title: title, Version: p.Stage()}, p.Registry(), svc.Annotations().Routes)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode OpenAPI document: %w", err)
	}

	if inv.Format == report.FormatYAML {
		var tree any
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return fmt.Errorf("failed to convert OpenAPI document: %w", err)
		}

		if data, err = yaml.Marshal(tree); err != nil {
			return fmt.Errorf("failed to encode OpenAPI document: %w", err)
		}
	} else {
		data = append(data, '\n')
	}

	if inv.OutFile != "" {
		if err := os.WriteFile(inv.OutFile, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", inv.OutFile, err)
		}

		return nil
	}

	_, err = stdout.Write(data)
	return err
}

func exitCode(err error) int {
	var invErr *InvocationError
	switch {
	case errors.As(err, &invErr):
		return invErr.ExitCode
	case errors.Is(err, config.ErrUnsupportedVersion), errors.Is(err, config.ErrInvalidConfig):
		return ExitConfigError
	default:
		return ExitCollectFailure
	}
}
