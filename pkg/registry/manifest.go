package registry

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/quarrybuild/quarry/pkg/model"
)

// Manifest is the YAML document describing one scope.
type Manifest struct {
	// Scope is the scope's build path, e.g. ":services:auth". ":" or empty
	// means the root scope.
	Scope string `yaml:"scope"`
	// Native reports whether the scope participates in the native component
	// model. Scopes with Native false contribute no binaries.
	Native     bool                `yaml:"native"`
	Components []ComponentManifest `yaml:"components"`
}

// ComponentManifest describes one native component and its binary variants.
type ComponentManifest struct {
	Name     string           `yaml:"name"`
	Binaries []BinaryManifest `yaml:"binaries"`
}

// BinaryManifest describes one binary variant of a component.
type BinaryManifest struct {
	Variant string `yaml:"variant"`
	// Buildable defaults to true when omitted.
	Buildable *bool `yaml:"buildable"`
	TestSuite bool  `yaml:"testSuite"`
	// Dependencies lists forward dependencies by canonical binary key.
	Dependencies []string `yaml:"dependencies"`
	// Prebuilt lists external library names this binary consumes. Prebuilt
	// libraries are recorded as dependencies but are never resolver inputs.
	Prebuilt []string `yaml:"prebuilt"`
}

// ParseManifest parses and validates a single manifest document.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// ParseManifestFile parses and validates the manifest at path.
func ParseManifestFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func (m *Manifest) validate() error {
	if m.Scope == "" {
		m.Scope = model.PathSeparator
	}
	if !strings.HasPrefix(m.Scope, model.PathSeparator) {
		return fmt.Errorf("scope path %q must start with %q", m.Scope, model.PathSeparator)
	}
	for _, component := range m.Components {
		if component.Name == "" {
			return fmt.Errorf("scope %s: component with empty name", m.Scope)
		}
		if strings.Contains(component.Name, model.PathSeparator) {
			return fmt.Errorf("scope %s: component name %q contains reserved separator %q", m.Scope, component.Name, model.PathSeparator)
		}
		for _, binary := range component.Binaries {
			if binary.Variant == "" {
				return fmt.Errorf("scope %s: component %s: binary with empty variant", m.Scope, component.Name)
			}
			if strings.Contains(binary.Variant, model.PathSeparator) {
				return fmt.Errorf("scope %s: component %s: variant %q contains reserved separator %q", m.Scope, component.Name, binary.Variant, model.PathSeparator)
			}
		}
	}
	return nil
}

// scopePath returns the model scope path for this manifest, with the root
// scope normalized to the empty string used by model.BinaryID.
func (m *Manifest) scopePath() string {
	if m.Scope == model.PathSeparator {
		return ""
	}
	return m.Scope
}
