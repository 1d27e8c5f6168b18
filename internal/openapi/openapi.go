// Package openapi exports route member annotations of collected handlers as
// an OpenAPI 3 document.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"annotation-collector/internal/mapping"
)

// Version is the OpenAPI version of built documents.
const Version = "3.0.3"

// HandlerExtension carries the handler path of an operation.
const HandlerExtension = "x-handler"

var (
	ErrInvalidRoute   = errors.New("invalid route")
	ErrDuplicateRoute = errors.New("duplicate route")
)

var methods = []string{
	http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
	http.MethodDelete, http.MethodHead, http.MethodOptions, http.MethodTrace,
}

// Info describes the API.
type Info struct {
	Title   string
	Version string
}

// Build creates a validated document with one operation per route member of
// every registry entry. A member is a route when its annotation name is in
// routes; it needs a "path" option and may set "method" (default GET),
// "summary" and "description".
func Build(ctx context.Context, info Info, reg *mapping.Registry, routes []string) (*openapi3.T, error) {
	doc := &openapi3.T{
		OpenAPI: Version,
		Info:    &openapi3.Info{Title: info.Title, Version: info.Version},
		Paths:   openapi3.NewPaths(),
	}

	for _, e := range reg.Entries() {
		var n int
		for _, c := range e.Handlers {
			if !slices.Contains(routes, c.Name) {
				continue
			}

			n++
			path, method, err := route(c)
			if err != nil {
				return nil, fmt.Errorf("%w: handler %q: %w", ErrInvalidRoute, e.Name, err)
			}

			if item := doc.Paths.Value(path); item != nil && item.GetOperation(method) != nil {
				return nil, fmt.Errorf("%w: %s %s (handler %q)", ErrDuplicateRoute, method, path, e.Name)
			}

			doc.AddOperation(path, method, operation(e, c, path, n))
		}
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}

	return doc, nil
}

func route(c mapping.Child) (path, method string, err error) {
	path, _ = c.Options["path"].(string)
	if path == "" {
		return "", "", fmt.Errorf("@%s has no path", c.Name)
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	method = http.MethodGet
	if m, ok := c.Options["method"].(string); ok {
		method = strings.ToUpper(m)
	}

	if !slices.Contains(methods, method) {
		return "", "", fmt.Errorf("@%s has unsupported method %q", c.Name, method)
	}

	return path, method, nil
}

func operation(e *mapping.Entry, c mapping.Child, path string, n int) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = e.Name
	if n > 1 {
		op.OperationID += "_" + strconv.Itoa(n)
	}

	op.Summary = e.DisplayName
	if s, ok := c.Options["summary"].(string); ok {
		op.Summary = s
	}

	if d, ok := c.Options["description"].(string); ok {
		op.Description = d
	}

	op.Extensions = map[string]any{HandlerExtension: e.Handler}

	for _, name := range PathParameters(path) {
		op.AddParameter(openapi3.NewPathParameter(name).WithSchema(openapi3.NewStringSchema()))
	}

	op.AddResponse(http.StatusOK, openapi3.NewResponse().WithDescription("OK"))

	return op
}

// PathParameters returns the names of the {templated} segments of path.
func PathParameters(path string) []string {
	var names []string
	for rest := path; ; {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			return names
		}

		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return names
		}

		if name := rest[open+1 : open+end]; name != "" {
			names = append(names, name)
		}

		rest = rest[open+end+1:]
	}
}
