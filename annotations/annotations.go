// Package annotations declares the annotation types understood by the
// collector.
//
// Annotations are doc comment lines starting with "@" followed by a Go
// expression whose head names one of these types:
//
//	// Orders serves the order API.
//	//
//	// @annotations.Handler{name: "orders", memorySize: 256}
//	type Orders struct {
//		// @annotations.Route{path: "/orders/{id}", method: "GET"}
//		Get annotations.Endpoint
//	}
//
// Keys are written in the casing the deployment configuration expects.
// Only integer and string literal values are collected; zero values are
// dropped.
//
// A file that only mentions the package in comments imports it blank:
//
//	import _ "annotation-collector/annotations"
package annotations

import "context"

// Handler marks a type as a function entry point.
// The name key is required and unique across the service.
type Handler struct {
	Name       string
	MemorySize int
	Timeout    int
	Runtime    string
}

// NewHandler builds a Handler annotation.
func NewHandler(name string, options ...Option) *Handler {
	h := &Handler{Name: name}
	for _, opt := range options {
		opt(h)
	}

	return h
}

// Option configures a Handler.
type Option func(*Handler)

// Route maps an HTTP route to a member of a handler.
type Route struct {
	Path        string
	Method      string
	Summary     string
	Description string
}

// NewRoute builds a Route annotation.
func NewRoute(method, path string) *Route {
	return &Route{Method: method, Path: path}
}

// Schedule triggers a member of a handler on a rate or cron expression.
type Schedule struct {
	Rate    string
	Enabled int
}

// Endpoint is the signature of a handler member.
type Endpoint func(ctx context.Context, payload []byte) ([]byte, error)
