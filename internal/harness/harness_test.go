package harness

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFixturesReplaySpecScenarios(t *testing.T) {
	scenarios, err := LoadDir("fixtures")
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(scenarios) == 0 {
		t.Fatalf("expected at least one fixture scenario")
	}

	for _, s := range scenarios {
		s := s
		t.Run(s.ID, func(t *testing.T) {
			result := Run(s)

			if diff := cmp.Diff(s.ExpectRefs, result.Refs); diff != "" && len(s.ExpectRefs) > 0 {
				t.Errorf("refs mismatch for %s (-want +got):\n%s", s.ID, diff)
			}
			if len(s.ExpectRefs) == 0 && len(result.Refs) != 0 {
				t.Errorf("expected no refs for %s, got %v", s.ID, result.Refs)
			}

			for _, want := range s.ExpectDiagnostics {
				found := false
				for _, msg := range result.Diagnostics {
					if strings.Contains(msg, want) {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("expected a diagnostic containing %q for %s, got %v", want, s.ID, result.Diagnostics)
				}
			}
		})
	}
}

func TestParseScenarioRejectsMissingFields(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"no id", "root: main\nmodules:\n  main: \"fn f() {}\"\n"},
		{"no root", "id: x\nmodules:\n  main: \"fn f() {}\"\n"},
		{"no modules", "id: x\nroot: main\n"},
		{"root not a module key", "id: x\nroot: other\nmodules:\n  main: \"fn f() {}\"\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := ParseScenario([]byte(c.yaml)); err == nil {
				t.Fatalf("expected an error for %s", c.name)
			}
		})
	}
}

func TestParseScenarioAccepts(t *testing.T) {
	s, err := ParseScenario([]byte("id: x\nroot: main\nmodules:\n  main: \"fn f() {}\"\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ID != "x" || s.Root != "main" {
		t.Fatalf("unexpected scenario: %+v", s)
	}
}
