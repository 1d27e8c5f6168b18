package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files ...string) string {
	t.Helper()

	root := t.TempDir()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("package x\n"), 0o644))
	}

	return root
}

func rel(t *testing.T, root string, files []string) []string {
	t.Helper()

	out := make([]string, 0, len(files))
	for _, f := range files {
		r, err := filepath.Rel(root, f)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(r))
	}

	return out
}

func TestFiles_Defaults(t *testing.T) {
	root := writeTree(t,
		"main.go",
		"orders/api.go",
		"orders/api_test.go",
		"orders/README.md",
		"shared/util.go",
		"vendor/dep/dep.go",
		"users/api.go",
	)

	files, err := Files(root, "", DefaultIgnore)
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go", "orders/api.go", "users/api.go"}, rel(t, root, files))
}

func TestFiles_PatternAndIgnore(t *testing.T) {
	root := writeTree(t, "a/x.go", "a/y.go", "b/z.go")

	files, err := Files(root, "a/*.go", []string{"**/y.go"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a/x.go"}, rel(t, root, files))
}

func TestFiles_Deterministic(t *testing.T) {
	root := writeTree(t, "c.go", "a.go", "b/b.go")

	first, err := Files(root, DefaultPattern, nil)
	require.NoError(t, err)
	second, err := Files(root, DefaultPattern, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFiles_InvalidPattern(t *testing.T) {
	_, err := Files(t.TempDir(), "[", nil)
	assert.Error(t, err)

	_, err = Files(t.TempDir(), DefaultPattern, []string{"["})
	assert.Error(t, err)
}

func TestIgnored(t *testing.T) {
	assert.True(t, Ignored("shared/a.go", []string{"shared"}))
	assert.True(t, Ignored("shared/a.go", []string{"shared/"}))
	assert.False(t, Ignored("sharedness/a.go", []string{"shared"}))
	assert.True(t, Ignored("x/a_test.go", []string{"**/*_test.go"}))
	assert.False(t, Ignored("x/a.go", nil))
}
