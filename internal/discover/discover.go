// Package discover finds the source files a collection pass compiles.
package discover

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern matches every Go file below the root.
const DefaultPattern = "**/*.go"

// DefaultIgnore excludes shared code, vendored code and tests.
var DefaultIgnore = []string{"shared", "vendor", "**/*_test.go"}

// Files returns the files below root matching pattern and none of the ignore
// patterns, as root-joined paths in lexical walk order.
//
// An ignore pattern matches a path either as a glob or as a directory prefix,
// so "shared" excludes everything below root/shared.
func Files(root, pattern string, ignore []string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}

	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}

	for _, ig := range ignore {
		if !doublestar.ValidatePattern(ig) {
			return nil, fmt.Errorf("invalid ignore pattern %q", ig)
		}
	}

	var files []string
	err := doublestar.GlobWalk(os.DirFS(root), pattern, func(p string, d fs.DirEntry) error {
		if Ignored(p, ignore) {
			return nil
		}

		files = append(files, filepath.Join(root, filepath.FromSlash(p)))
		return nil
	}, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to discover files in %s: %w", root, err)
	}

	return files, nil
}

// Ignored reports whether the slash separated path p matches any ignore pattern.
func Ignored(p string, ignore []string) bool {
	for _, ig := range ignore {
		ig = strings.TrimSuffix(ig, "/")
		if p == ig || strings.HasPrefix(p, ig+"/") {
			return true
		}

		if ok, _ := doublestar.Match(ig, p); ok {
			return true
		}
	}

	return false
}
