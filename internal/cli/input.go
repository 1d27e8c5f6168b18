// Package cli parses and runs collector command lines.
package cli

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"

	"annotation-collector/internal/common"
	"annotation-collector/internal/config"
	"annotation-collector/internal/lifecycle"
	"annotation-collector/internal/report"
)

const (
	ExitSuccess           = 0
	ExitCollectFailure    = 1
	ExitInvalidInvocation = 2
	ExitConfigError       = 3
)

// Command is a collector subcommand.
type Command string

const (
	CommandCollect Command = "collect"
	CommandHook    Command = "hook"
	CommandOpenAPI Command = "openapi"
	CommandVersion Command = "version"
)

// Invocation is a parsed command line.
type Invocation struct {
	Command    Command
	Event      string
	ConfigPath string
	Stage      string
	Format     report.Format
	OutFile    string
	Table      bool
	Debug      bool
	Quiet      bool
	Title      string
	LogFile    string
	LogLevel   string
}

// InvocationError is a command line that cannot be run.
type InvocationError struct {
	ExitCode int
	Message  string
}

func (e *InvocationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func invalidInvocationf(format string, args ...any) error {
	return &InvocationError{ExitCode: ExitInvalidInvocation, Message: fmt.Sprintf(format, args...)}
}

// Usage describes the command line.
const Usage = `usage: annotation-collector <command> [flags]

commands:
  collect          collect annotated handlers and print the functions
  hook <event>     run the collection hook of a lifecycle event
  openapi          export route annotations as an OpenAPI document
  version          print the collector version

flags:
  -config path     service definition (default serverless.yml)
  -stage name      stage override (default $STAGE, provider.stage, dev)
  -format name     yaml, json or msgpack (default yaml)
  -out path        also write the output to a file
  -table           print a table summary
  -debug           print the serialized annotation tree
  -quiet           do not print the functions
  -title name      API title for openapi (default: service name)
  -log-file path   write JSON logs with rotation
  -log-level name  debug, info, warn or error (default warn)`

// ParseInvocation parses args, without the program name.
func ParseInvocation(args []string) (Invocation, error) {
	if len(args) == 0 {
		return Invocation{}, invalidInvocationf("missing command\n%s", Usage)
	}

	inv := Invocation{Command: Command(args[0])}
	switch inv.Command {
	case CommandCollect, CommandHook, CommandOpenAPI:
	case CommandVersion:
		if len(args) > 1 {
			return Invocation{}, invalidInvocationf("version takes no arguments")
		}
		return inv, nil
	default:
		return Invocation{}, invalidInvocationf("unknown command %q\n%s", args[0], Usage)
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var format string

	fs.StringVar(&inv.ConfigPath, "config", config.DefaultFile, "Service definition.")
	fs.StringVar(&inv.Stage, "stage", "", "Stage override.")
	fs.StringVar(&format, "format", string(report.FormatYAML), "Output format: yaml|json|msgpack")
	fs.StringVar(&inv.OutFile, "out", "", "Output file (optional).")
	fs.BoolVar(&inv.Table, "table", false, "Print a table summary.")
	fs.BoolVar(&inv.Debug, "debug", false, "Print the serialized annotation tree.")
	fs.BoolVar(&inv.Quiet, "quiet", false, "Do not print the functions.")
	fs.StringVar(&inv.Title, "title", "", "API title for openapi.")
	fs.StringVar(&inv.LogFile, "log-file", "", "Log file (optional).")
	fs.StringVar(&inv.LogLevel, "log-level", "warn", "Log level: debug|info|warn|error")

	if err := fs.Parse(args[1:]); err != nil {
		return Invocation{}, invalidInvocationf("%v", err)
	}

	if inv.Command == CommandHook {
		if fs.NArg() != 1 {
			return Invocation{}, invalidInvocationf("hook takes exactly one event")
		}

		inv.Event, _ = common.First(fs.Args())
		if !isEvent(inv.Event) {
			return Invocation{}, invalidInvocationf("unknown event %q (want one of %s)", inv.Event, strings.Join(events(), ", "))
		}
	} else if fs.NArg() != 0 {
		return Invocation{}, invalidInvocationf("unexpected positional arguments: %q", strings.Join(fs.Args(), " "))
	}

	if strings.TrimSpace(inv.ConfigPath) == "" {
		return Invocation{}, invalidInvocationf("-config must not be empty")
	}

	parsed, err := report.ParseFormat(format)
	if err != nil {
		return Invocation{}, invalidInvocationf("%v", err)
	}

	if inv.Command == CommandOpenAPI && parsed == report.FormatMsgpack {
		return Invocation{}, invalidInvocationf("openapi supports yaml or json output")
	}

	inv.Format = parsed

	return inv, nil
}

func events() []string {
	return lifecycle.Events()
}

func isEvent(name string) bool {
	return slices.Contains(events(), name)
}
