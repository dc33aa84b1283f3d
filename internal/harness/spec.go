// Package harness loads YAML-encoded end-to-end link scenarios and
// replays them against a freshly built registry and traversal, so
// spec.md §8's testable properties and any further regression fixtures
// can be authored as data rather than Go (spec.md §2.3, grounded on
// eval_harness.BenchmarkSpec/LoadSpec).
package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario describes one end-to-end link run: a registry built from
// Modules, traversed from Root, checked against the expected refs and
// diagnostics.
type Scenario struct {
	ID          string            `yaml:"id"`
	Description string            `yaml:"description"`
	Root        string            `yaml:"root"`
	Modules     map[string]string `yaml:"modules"`
	Params      map[string]bool   `yaml:"params"`

	// ExpectRefs lists the refFullName-less identity "module::name" of
	// every ref the traversal must deliver, in delivery order.
	ExpectRefs []string `yaml:"expectRefs"`

	// ExpectDiagnostics lists substrings that must each appear in some
	// emitted diagnostic's formatted message. Order does not matter.
	ExpectDiagnostics []string `yaml:"expectDiagnostics"`
}

// LoadScenario reads and validates a single scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("harness: read scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario unmarshals and validates scenario YAML already in memory.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("harness: parse scenario: %w", err)
	}
	if s.ID == "" {
		return nil, fmt.Errorf("harness: scenario missing required field: id")
	}
	if s.Root == "" {
		return nil, fmt.Errorf("harness: scenario %q missing required field: root", s.ID)
	}
	if len(s.Modules) == 0 {
		return nil, fmt.Errorf("harness: scenario %q missing required field: modules", s.ID)
	}
	if _, ok := s.Modules[s.Root]; !ok {
		return nil, fmt.Errorf("harness: scenario %q: root %q is not a key of modules", s.ID, s.Root)
	}
	return &s, nil
}

// LoadDir loads every *.yaml scenario file directly under dir, sorted
// by file name for deterministic test ordering.
func LoadDir(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("harness: read dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".yaml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	out := make([]*Scenario, 0, len(names))
	for _, name := range names {
		s, err := LoadScenario(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
