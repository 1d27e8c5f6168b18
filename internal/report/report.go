// Package report renders a collected registry for people and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/bndr/gotabulate"
	"github.com/davecgh/go-spew/spew"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"annotation-collector/internal/decorator"
	"annotation-collector/internal/mapping"
)

// Format is an output encoding of the function definitions.
type Format string

const (
	FormatYAML    Format = "yaml"
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat validates a format name. Empty means YAML.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return FormatYAML, nil
	case FormatYAML, FormatJSON, FormatMsgpack:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want yaml, json or msgpack)", s)
	}
}

// Dump writes the function definitions of reg to w.
// Map keys are written in sorted order for every format.
func Dump(w io.Writer, reg *mapping.Registry, format Format) error {
	functions := reg.Functions()

	switch format {
	case FormatYAML, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(functions); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}

		return enc.Close()
	case FormatJSON:
		data, err := json.MarshalIndent(functions, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}

		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case FormatMsgpack:
		enc := msgpack.NewEncoder(w)
		enc.SetSortMapKeys(true)

		if err := enc.Encode(functions); err != nil {
			return fmt.Errorf("failed to encode msgpack: %w", err)
		}

		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// Table renders one row per entry in registry order.
func Table(reg *mapping.Registry) string {
	if reg.Len() == 0 {
		return "<no handlers>"
	}

	rows := make([][]any, 0, reg.Len())
	for _, e := range reg.Entries() {
		rows = append(rows, []any{e.Name, e.DisplayName, e.Handler, options(e.Options), members(e.Handlers)})
	}

	t := gotabulate.Create(rows)
	t.SetHeaders([]string{"name", "function", "handler", "options", "members"})
	t.SetAlign("left")
	t.SetWrapStrings(true)
	t.SetMaxCellSize(60)

	return t.Render("grid")
}

func options(opts map[string]any) string {
	keys := make([]string, 0, len(opts))
	for k := range opts {
		if k == "handler" {
			continue
		}

		keys = append(keys, k)
	}

	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, opts[k]))
	}

	return strings.Join(parts, " ")
}

func members(children []mapping.Child) string {
	names := make([]string, 0, len(children))
	for _, c := range children {
		names = append(names, "@"+c.Name)
	}

	return strings.Join(names, " ")
}

var debugConfig = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// DebugTree dumps serialized records with their full nesting.
func DebugTree(records []decorator.Record) string {
	return debugConfig.Sdump(records)
}
