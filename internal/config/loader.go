package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-version"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultFile is the definition file looked up in the working directory.
	DefaultFile = "serverless.yml"
	// DefaultStage is used when no stage is configured anywhere.
	DefaultStage = "dev"
	// StageEnv overrides the provider stage.
	StageEnv = "STAGE"
)

// LoadFile loads and parses a service definition from the given path.
func LoadFile(path string) (*Service, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read service file %s: %w", path, err)
	}

	svc, err := Parse(data)
	if err != nil {
		return nil, err
	}

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve service directory: %w", err)
	}

	svc.Dir = dir
	svc.resolveRoot()

	return svc, nil
}

// Parse parses YAML data into a Service.
func Parse(data []byte) (*Service, error) {
	var svc Service

	err := yaml.Unmarshal(data, &svc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service YAML: %w", err)
	}

	applyDefaults(&svc)

	return &svc, nil
}

// applyDefaults fills in default values for optional fields.
// Settings are replaced as a whole; a configured handlers map is not merged
// with the default one.
func applyDefaults(svc *Service) {
	a := &svc.Custom.Annotations
	if a.Pattern == "" {
		a.Pattern = "**/*.go"
	}

	if a.Ignore == nil {
		a.Ignore = []string{"shared", "vendor", "**/*_test.go"}
	}

	if len(a.Handlers) == 0 {
		a.Handlers = map[string]map[string]any{"Handler": {}}
	}

	if a.Invocation == "" {
		a.Invocation = "declaration"
	}

	if a.Routes == nil {
		a.Routes = []string{"Route"}
	}

	if svc.Functions == nil {
		svc.Functions = make(map[string]map[string]any)
	}
}

func (s *Service) resolveRoot() {
	a := &s.Custom.Annotations
	switch {
	case a.Root == "":
		a.Root = s.Dir
	case !filepath.IsAbs(a.Root):
		a.Root = filepath.Join(s.Dir, a.Root)
	}
}

// Marshal serializes a Service to YAML.
func Marshal(svc *Service) ([]byte, error) {
	return yaml.Marshal(svc)
}

// ResolveStage returns the stage to collect for: flag, then the STAGE
// environment variable, then provider.stage, then DefaultStage.
func (s *Service) ResolveStage(flag string) string {
	if flag != "" {
		return flag
	}

	if env := os.Getenv(StageEnv); env != "" {
		return env
	}

	if s.Provider.Stage != "" {
		return s.Provider.Stage
	}

	return DefaultStage
}

// LoadEnv loads dir/.env into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadEnv(dir string) error {
	path := filepath.Join(dir, ".env")

	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}

	return nil
}

// CheckVersion verifies that current satisfies RequiredVersion.
// An empty constraint accepts every version.
func (a Annotations) CheckVersion(current string) error {
	if a.RequiredVersion == "" {
		return nil
	}

	constraints, err := version.NewConstraint(a.RequiredVersion)
	if err != nil {
		return fmt.Errorf("invalid requiredVersion %q: %w", a.RequiredVersion, err)
	}

	v, err := version.NewVersion(current)
	if err != nil {
		return fmt.Errorf("%w: %q is not a version", ErrUnsupportedVersion, current)
	}

	if !constraints.Check(v) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrUnsupportedVersion, v, constraints)
	}

	return nil
}
