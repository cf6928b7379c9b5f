package pathmatch_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-yaml"

	"crlock/pkg/pathmatch"
)

// Case is a single test case from the YAML golden file.
type Case struct {
	Pattern     string `yaml:"pattern"`
	Path        string `yaml:"path"`
	Match       bool   `yaml:"match"`
	Description string `yaml:"description,omitempty"`
}

// Group is a named collection of test cases.
type Group struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Cases       []Case `yaml:"cases"`
}

func loadGroups(t *testing.T) []Group {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", "patterns.yaml"))
	if err != nil {
		t.Fatalf("reading golden file: %v", err)
	}

	var groups []Group
	if err := yaml.Unmarshal(data, &groups); err != nil {
		t.Fatalf("parsing golden file: %v", err)
	}

	return groups
}

func TestMatch(t *testing.T) {
	for _, group := range loadGroups(t) {
		t.Run(group.Name, func(t *testing.T) {
			for _, tc := range group.Cases {
				got, err := pathmatch.Match(tc.Pattern, tc.Path)
				if err != nil {
					t.Fatalf("Match(%q, %q) error = %v", tc.Pattern, tc.Path, err)
				}

				if got != tc.Match {
					t.Errorf("Match(%q, %q) = %v, want %v (%s)", tc.Pattern, tc.Path, got, tc.Match, tc.Description)
				}
			}
		})
	}
}

func TestMatchErrors(t *testing.T) {
	for _, pattern := range []string{"broken[", "trailing\\"} {
		if _, err := pathmatch.Match(pattern, "anything"); err == nil {
			t.Errorf("Match(%q) succeeded, want error", pattern)
		}
	}
}

func TestMatcher(t *testing.T) {
	m, err := pathmatch.NewMatcher([]string{"*.cr", "docs/*"})
	if err != nil {
		t.Fatalf("NewMatcher() error = %v", err)
	}

	cases := []struct {
		path string
		want bool
	}{
		{path: "a/b/c.cr", want: true},
		{path: "docs/readme.md", want: true},
		{path: "src/main.go", want: false},
	}

	for _, tc := range cases {
		if got := m.MatchAny(tc.path); got != tc.want {
			t.Errorf("MatchAny(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}

	t.Run("bad pattern is rejected at compile time", func(t *testing.T) {
		if _, err := pathmatch.NewMatcher([]string{"ok", "broken["}); err == nil {
			t.Error("NewMatcher() accepted a broken pattern")
		}
	})
}
