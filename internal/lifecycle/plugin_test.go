package lifecycle

import (
	"bytes"
	"errors"
	"maps"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"annotation-collector/internal/analyze"
	"annotation-collector/internal/config"
	"annotation-collector/internal/mapping"
	"annotation-collector/internal/report"
)

const typesSource = `package svc

// Handler marks an entry point.
type Handler struct{ Name string }

// Route maps a route.
type Route struct{ Path string }
`

// compileFromDisk type-checks the discovered files as one in-memory package.
func compileFromDisk(t *testing.T) CompileFunc {
	t.Helper()

	return func(_ string, files []string, _ analyze.Options) (*analyze.Program, error) {
		sources := make([]analyze.Source, 0, len(files))
		for _, f := range files {
			data, err := os.ReadFile(f)
			require.NoError(t, err)
			sources = append(sources, analyze.Source{Name: f, Text: string(data)})
		}

		return analyze.CompileSources("example.com/svc", sources...)
	}
}

func writeService(t *testing.T, yamlData string, files map[string]string) *config.Service {
	t.Helper()

	dir := t.TempDir()
	for name, text := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(text), 0o644))
	}

	path := filepath.Join(dir, config.DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(yamlData), 0o644))

	svc, err := config.LoadFile(path)
	require.NoError(t, err)

	return svc
}

func newPlugin(t *testing.T, svc *config.Service, out *bytes.Buffer) *Plugin {
	t.Helper()
	t.Setenv(config.StageEnv, "")

	return New(svc, Options{Version: "1.0.0", Output: out, Compile: compileFromDisk(t)})
}

func TestCollect_InMemory(t *testing.T) {
	svc := writeService(t, "service: shop\n", map[string]string{
		"types.go": typesSource,
		"orders/api.go": `package svc

// @Handler{name: "orders"}
type Orders struct {
	// @Route{path: "/orders"}
	List func()
}
`,
		"shared/util.go": "package svc\n\n// @Handler{name: \"ignored\"}\ntype Util struct{}\n",
	})

	var out bytes.Buffer
	p := newPlugin(t, svc, &out)
	require.NoError(t, p.Run(EventCollect))

	assert.Equal(t, "dev", p.Stage())
	assert.Equal(t, map[string]map[string]any{
		"orders": {"handler": "orders/api.Handle", "name": "shop-dev-orders"},
	}, svc.Functions)
	assert.Contains(t, out.String(), "name: shop-dev-orders")

	require.NotNil(t, p.Registry())
	e, ok := p.Registry().Get("orders")
	require.True(t, ok)
	assert.Equal(t, []mapping.Child{{Name: "Route", Options: map[string]any{"path": "/orders"}}}, e.Handlers)
	require.Len(t, p.Records(), 1)
}

func TestCollect_DuplicateOfExistingFunction(t *testing.T) {
	svc := writeService(t, "service: shop\nfunctions:\n  orders:\n    handler: legacy.Handle\n", map[string]string{
		"types.go": typesSource,
		"api.go":   "package svc\n\n// @Handler{name: \"orders\"}\ntype Orders struct{}\n",
	})

	var out bytes.Buffer
	p := newPlugin(t, svc, &out)

	err := p.Collect()
	require.ErrorIs(t, err, mapping.ErrDuplicateName)
	assert.Equal(t, map[string]map[string]any{"orders": {"handler": "legacy.Handle"}}, svc.Functions)
	assert.Equal(t, []string{"orders"}, p.Registry().Names())
	assert.Empty(t, out.String())

	diags := p.Diagnostics()
	require.True(t, diags.HasErrors())
	assert.Equal(t, "duplicate_name", diags.Errors[0].Code)
	assert.Equal(t, "Handler", diags.Errors[0].Annotation)
}

func TestRun_SuccessiveEventsStartFromDeclaredFunctions(t *testing.T) {
	svc := writeService(t, "service: shop\nfunctions:\n  legacy:\n    handler: legacy.Handle\n", map[string]string{
		"types.go": typesSource,
		"api.go":   "package svc\n\n// @Handler{name: \"orders\"}\ntype Orders struct{}\n",
	})

	var out bytes.Buffer
	p := newPlugin(t, svc, &out)

	require.NoError(t, p.Run(EventBeforePackage))
	first, firstOut := maps.Clone(svc.Functions), out.String()

	out.Reset()
	require.NoError(t, p.Run(EventBeforeDeploy))

	assert.Equal(t, first, svc.Functions)
	assert.Equal(t, firstOut, out.String())
	assert.Equal(t, []string{"legacy", "orders"}, p.Registry().Names())
	assert.False(t, p.Diagnostics().HasErrors())
}

func TestCollect_ProseAtLinesAreIgnored(t *testing.T) {
	svc := writeService(t, "service: shop\n", map[string]string{
		"types.go": typesSource,
		"api.go": `package svc

// Orders serves orders.
// @see Orders for details
// @deprecated use Create instead
// @Handler{name: "orders"}
type Orders struct{}
`,
	})

	p := newPlugin(t, svc, &bytes.Buffer{})

	require.NoError(t, p.Collect())
	assert.Equal(t, []string{"orders"}, p.Registry().Names())
	require.Len(t, p.Records(), 1)
	assert.Equal(t, "Handler", p.Records()[0].Name)
}

func TestCollect_UnresolvedAnnotationIsDiagnosed(t *testing.T) {
	svc := writeService(t, "service: shop\n", map[string]string{
		"types.go": typesSource,
		"api.go":   "package svc\n\n// @Missing{name: \"orders\"}\ntype Orders struct{}\n",
	})

	p := newPlugin(t, svc, &bytes.Buffer{})

	require.Error(t, p.Collect())
	diags := p.Diagnostics()
	require.Len(t, diags.Errors, 1)
	assert.Equal(t, "unresolved_symbol", diags.Errors[0].Code)
	assert.Equal(t, `@Missing{name: "orders"}`, diags.Errors[0].Annotation)
	assert.Contains(t, diags.Errors[0].File, "api.go")
}

func TestCollect_MissingNameKeepsPriorEntries(t *testing.T) {
	svc := writeService(t, "service: shop\n", map[string]string{
		"types.go": typesSource,
		"a.go":     "package svc\n\n// @Handler{name: \"a\"}\ntype A struct{}\n",
		"b.go":     "package svc\n\n// @Handler{memorySize: 128}\ntype B struct{}\n",
	})

	err := newPlugin(t, svc, &bytes.Buffer{}).Collect()
	assert.ErrorIs(t, err, mapping.ErrMissingName)
	assert.Equal(t, map[string]map[string]any{
		"a": {"handler": "a.Handle", "name": "shop-dev-a"},
	}, svc.Functions)
}

func TestCollect_VersionGate(t *testing.T) {
	svc := writeService(t, "service: shop\ncustom:\n  annotations:\n    requiredVersion: \">= 2.0\"\n", map[string]string{
		"types.go": typesSource,
	})

	err := newPlugin(t, svc, &bytes.Buffer{}).Collect()
	assert.ErrorIs(t, err, config.ErrUnsupportedVersion)
}

func TestCollect_InvalidInvocation(t *testing.T) {
	svc := writeService(t, "service: shop\ncustom:\n  annotations:\n    invocation: nearest\n", nil)

	err := newPlugin(t, svc, &bytes.Buffer{}).Collect()
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
	assert.ErrorContains(t, err, "unknown invocation rule")
}

func TestCollect_CompileError(t *testing.T) {
	svc := writeService(t, "service: shop\n", map[string]string{"api.go": "package svc\n"})

	boom := errors.New("boom")
	p := New(svc, Options{Output: &bytes.Buffer{}, Compile: func(string, []string, analyze.Options) (*analyze.Program, error) {
		return nil, boom
	}})

	assert.ErrorIs(t, p.Collect(), boom)
}

func TestCollect_OutFileAndSummaries(t *testing.T) {
	svc := writeService(t, "service: shop\n", map[string]string{
		"types.go": typesSource,
		"api.go":   "package svc\n\n// @Handler{name: \"orders\"}\ntype Orders struct{}\n",
	})

	t.Setenv(config.StageEnv, "")
	outFile := filepath.Join(t.TempDir(), "functions.json")

	var out bytes.Buffer
	p := New(svc, Options{
		Stage:   "prod",
		Format:  report.FormatJSON,
		Output:  &out,
		OutFile: outFile,
		Table:   true,
		Debug:   true,
		Quiet:   true,
		Compile: compileFromDisk(t),
	})
	require.NoError(t, p.Collect())

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name": "shop-prod-orders"`)

	assert.NotContains(t, out.String(), `"name": "shop-prod-orders"`)
	assert.Contains(t, out.String(), "shop-prod-orders")
	assert.Contains(t, out.String(), `"Handler"`)
}

func TestRun_UnknownEvent(t *testing.T) {
	p := New(&config.Service{}, Options{})
	assert.ErrorIs(t, p.Run("after:deploy"), ErrUnknownEvent)
}

func TestEvents(t *testing.T) {
	p := New(&config.Service{}, Options{})
	assert.Len(t, p.Hooks(), 4)
	assert.Equal(t, []string{
		EventBeforeDeploy,
		EventBeforeInvoke,
		EventBeforePackage,
		EventCollect,
	}, Events())
}
