// Package manifest loads a YAML declaration of named hooks for
// cmd/hookforge's inspector tool. It is host tooling around the library,
// grounded on pkg/config/config.go's tiered validation and the
// "all configuration from YAML, no silent defaults" convention from the
// Context Gateway example — and never imported by pkg/hook or pkg/dispatch.
package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TapDecl declares one tap's ordering metadata, without a function body:
// the inspector registers a no-op in its place purely to exercise and
// print the resolved insertion order.
type TapDecl struct {
	Name   string   `yaml:"name"`
	Before []string `yaml:"before"`
	Stage  int      `yaml:"stage"`
}

// HookDecl declares one hook a host wants inspected or scaffolded.
type HookDecl struct {
	Name   string    `yaml:"name"`
	Args   []string  `yaml:"args"`
	Flavor string    `yaml:"flavor"`
	Taps   []TapDecl `yaml:"taps"`
}

// Manifest is the root document cmd/hookforge reads.
type Manifest struct {
	Hooks []HookDecl `yaml:"hooks"`
}

// Load reads and validates a manifest from path (see Validate). An omitted
// Flavor is left empty in the result; cmd/hookforge builds such a hook as
// "basic". No other field gets a default.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: parse %s: %w", path, err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

// Validate checks structural requirements the YAML schema can't enforce on
// its own: every declared hook needs a unique name, its flavor must be empty,
// "basic", or one of the five standard flavors built by pkg/flavor, and
// every tap within a hook needs a unique name.
func (m *Manifest) Validate() error {
	seen := make(map[string]bool, len(m.Hooks))

	for i, decl := range m.Hooks {
		if decl.Name == "" {
			return fmt.Errorf("manifest: hooks[%d] missing name", i)
		}
		if seen[decl.Name] {
			return fmt.Errorf("manifest: duplicate hook name %q", decl.Name)
		}
		seen[decl.Name] = true

		switch decl.Flavor {
		case "", "basic", "bail", "waterfall", "loop", "parallel", "parallel-bail":
		default:
			return fmt.Errorf("manifest: hook %q has unknown flavor %q", decl.Name, decl.Flavor)
		}

		tapNames := make(map[string]bool, len(decl.Taps))
		for _, t := range decl.Taps {
			if t.Name == "" {
				return fmt.Errorf("manifest: hook %q has a tap with no name", decl.Name)
			}
			if tapNames[t.Name] {
				return fmt.Errorf("manifest: hook %q has duplicate tap %q", decl.Name, t.Name)
			}
			tapNames[t.Name] = true
		}
	}

	return nil
}
