// Package main provides the CLI entrypoint for annotation-collector.
//
// annotation-collector reads the handler annotations of a Go service:
//   - Discovers and type-checks the service sources
//   - Serializes every annotated type with its annotated members
//   - Maps handler annotations to function definitions
//   - Prints the functions, or exports route annotations as OpenAPI
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"annotation-collector/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

func main() {
	inv, err := cli.ParseInvocation(os.Args[1:])
	if err != nil {
		var invErr *cli.InvocationError
		if errors.As(err, &invErr) {
			fmt.Fprintln(os.Stderr, invErr.Message)
			os.Exit(invErr.ExitCode)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitInvalidInvocation)
	}

	result, execErr := cli.Execute(context.Background(), inv, cli.Env{
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Version: version,
	})
	if execErr != nil {
		fmt.Fprintln(os.Stderr, execErr)
	}
	os.Exit(result.ExitCode)
}
