package config

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Service is the service definition.
type Service struct {
	Service   ServiceName               `yaml:"service"`
	Provider  Provider                  `yaml:"provider"`
	Custom    Custom                    `yaml:"custom,omitempty"`
	Functions map[string]map[string]any `yaml:"functions,omitempty"`

	// Dir is the directory the definition was loaded from.
	Dir string `yaml:"-"`
}

// ServiceName accepts both `service: shop` and `service: {name: shop}`.
type ServiceName string

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *ServiceName) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*n = ServiceName(value.Value)
		return nil
	case yaml.MappingNode:
		var named struct {
			Name string `yaml:"name"`
		}

		if err := value.Decode(&named); err != nil {
			return err
		}

		*n = ServiceName(named.Name)
		return nil
	default:
		return fmt.Errorf("line %d: service must be a name or a mapping with a name", value.Line)
	}
}

// Provider holds the provider settings the collector reads.
type Provider struct {
	Name    string `yaml:"name,omitempty"`
	Runtime string `yaml:"runtime,omitempty"`
	Stage   string `yaml:"stage,omitempty"`
	Region  string `yaml:"region,omitempty"`
}

// Custom is the custom section of the definition.
type Custom struct {
	Annotations Annotations `yaml:"annotations,omitempty"`
}

// Annotations configures the collector.
type Annotations struct {
	// Pattern selects source files below Root.
	Pattern string `yaml:"pattern,omitempty"`
	// Ignore excludes files by glob or directory prefix.
	Ignore []string `yaml:"ignore,omitempty"`
	// Handlers maps handler annotation names to default options.
	Handlers map[string]map[string]any `yaml:"handlers,omitempty"`
	// Root is the source root. Relative roots are resolved against Service.Dir.
	Root string `yaml:"root,omitempty"`
	// Invocation selects which invocation supplies record parameters:
	// "declaration" or "annotation".
	Invocation string `yaml:"invocation,omitempty"`
	// RequiredVersion is a version constraint on the collector, e.g. ">= 1.2".
	RequiredVersion string `yaml:"requiredVersion,omitempty"`
	// Routes names the member annotations exported as API operations.
	Routes []string `yaml:"routes,omitempty"`
}

var (
	// ErrUnsupportedVersion is returned when the collector does not satisfy
	// RequiredVersion.
	ErrUnsupportedVersion = errors.New("unsupported collector version")
	// ErrInvalidConfig is returned for settings that load but hold an
	// unusable value.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Annotations returns the collector settings.
func (s *Service) Annotations() Annotations {
	return s.Custom.Annotations
}
