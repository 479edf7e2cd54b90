package utils_test

import (
	"testing"

	"github.com/conjurekit/conjure/pkg/utils"
)

func TestPatternMatcher_Match(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		path     string
		want     bool
	}{
		{"exact", []string{"conjure/plugins/timing"}, "conjure/plugins/timing", true},
		{"exact mismatch", []string{"conjure/plugins/timing"}, "conjure/plugins/recovery", false},
		{"star within segment", []string{"conjure/plugins/*"}, "conjure/plugins/timing", true},
		{"star stops at separator", []string{"conjure/*"}, "conjure/plugins/timing", false},
		{"double star crosses separators", []string{"conjure/**"}, "conjure/plugins/timing", true},
		{"double star prefix", []string{"**/timing"}, "conjure/plugins/timing", true},
		{"question mark", []string{"plugin?"}, "plugins", true},
		{"character class", []string{"v[12]/api"}, "v1/api", true},
		{"character class mismatch", []string{"v[12]/api"}, "v3/api", false},
		{"normalized leading dot-slash", []string{"./conjure/plugins/*"}, "conjure/plugins/timing", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pm, err := utils.NewPatternMatcher(tt.patterns)
			if err != nil {
				t.Fatalf("failed to compile patterns: %v", err)
			}
			if got := pm.Match(tt.path); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestPatternMatcher_MatchAny(t *testing.T) {
	pm, err := utils.NewPatternMatcher([]string{"*.go"})
	if err != nil {
		t.Fatalf("failed to compile patterns: %v", err)
	}

	if !pm.MatchAny([]string{"readme.md", "main.go"}) {
		t.Error("expected at least one path to match")
	}
	if pm.MatchAny([]string{"readme.md", "notes.txt"}) {
		t.Error("expected no path to match")
	}
}

func TestExclusionMatcher(t *testing.T) {
	em, err := utils.NewExclusionMatcher([]string{"generated", "*.tmp"})
	if err != nil {
		t.Fatalf("failed to compile exclusions: %v", err)
	}

	if !em.IsExcluded("src/generated/code.go") {
		t.Error("bare directory names must match at any depth")
	}
	if !em.IsExcluded("scratch.tmp") {
		t.Error("glob exclusions must match")
	}
	if !em.IsExcluded("repo/.git") {
		t.Error("default exclusions must always apply")
	}
	if em.IsExcluded("src/main.go") {
		t.Error("unrelated paths must not be excluded")
	}

	filtered := em.FilterPaths([]string{"src/main.go", "scratch.tmp"})
	if len(filtered) != 1 || filtered[0] != "src/main.go" {
		t.Errorf("unexpected filtered paths %v", filtered)
	}
}

func TestIsGlobPattern(t *testing.T) {
	if !utils.IsGlobPattern("conjure/*") {
		t.Error("expected wildcard pattern to be detected")
	}
	if utils.IsGlobPattern("conjure/plugins/timing") {
		t.Error("expected literal path to not be a glob")
	}
}
