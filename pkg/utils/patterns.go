// Package utils provides glob pattern matching shared by the registry
// allow-list and the file watcher exclusions.
package utils

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// PatternMatcher matches slash-separated paths against glob patterns.
// Supported syntax: * (any characters except /), ** (any characters
// including /), ? (single character except /), and [...] classes.
type PatternMatcher struct {
	patterns []string
	regexps  []*regexp.Regexp
}

// NewPatternMatcher compiles the given patterns. Patterns are matched
// against the full path, not path segments.
func NewPatternMatcher(patterns []string) (*PatternMatcher, error) {
	pm := &PatternMatcher{
		patterns: patterns,
		regexps:  make([]*regexp.Regexp, 0, len(patterns)),
	}

	for _, pattern := range patterns {
		regex, err := globToRegex(NormalizePattern(pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		pm.regexps = append(pm.regexps, regex)
	}

	return pm, nil
}

// Match checks if a path matches any pattern.
func (pm *PatternMatcher) Match(path string) bool {
	path = filepath.ToSlash(path)

	for _, regex := range pm.regexps {
		if regex.MatchString(path) {
			return true
		}
	}

	return false
}

// MatchAny checks if any of the paths match any pattern.
func (pm *PatternMatcher) MatchAny(paths []string) bool {
	for _, path := range paths {
		if pm.Match(path) {
			return true
		}
	}
	return false
}

// Patterns returns the patterns this matcher was built from.
func (pm *PatternMatcher) Patterns() []string {
	return pm.patterns
}

// NormalizePattern normalizes a path pattern.
func NormalizePattern(pattern string) string {
	// Convert backslashes to forward slashes (for Windows compatibility)
	pattern = strings.ReplaceAll(pattern, "\\", "/")

	// Remove leading ./
	pattern = strings.TrimPrefix(pattern, "./")

	// Remove trailing /
	pattern = strings.TrimSuffix(pattern, "/")

	return pattern
}

// IsGlobPattern checks if a string contains glob wildcards.
func IsGlobPattern(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}

// globToRegex converts a glob pattern to a regular expression.
func globToRegex(pattern string) (*regexp.Regexp, error) {
	var regex strings.Builder
	regex.WriteString("^")

	i := 0
	for i < len(pattern) {
		switch pattern[i] {
		case '*':
			if i+1 < len(pattern) && pattern[i+1] == '*' {
				// ** matches any number of path segments
				if i+2 < len(pattern) && pattern[i+2] == '/' {
					regex.WriteString(".*")
					i += 3 // Skip **/
				} else {
					regex.WriteString(".*")
					i += 2 // Skip **
				}
			} else {
				// * matches any characters except /
				regex.WriteString("[^/]*")
				i++
			}
		case '?':
			// ? matches any single character except /
			regex.WriteString("[^/]")
			i++
		case '[':
			// Character class
			j := i + 1
			if j < len(pattern) && pattern[j] == '!' {
				regex.WriteString("[^")
				j++
			} else {
				regex.WriteString("[")
			}

			for j < len(pattern) && pattern[j] != ']' {
				if pattern[j] == '\\' && j+1 < len(pattern) {
					regex.WriteByte(pattern[j])
					regex.WriteByte(pattern[j+1])
					j += 2
				} else {
					regex.WriteByte(pattern[j])
					j++
				}
			}

			if j < len(pattern) {
				regex.WriteByte(']')
				i = j + 1
			} else {
				// Unclosed bracket, treat as literal
				regex.WriteString("\\[")
				i++
			}
		case '\\':
			// Escape character
			if i+1 < len(pattern) {
				regex.WriteByte('\\')
				regex.WriteByte(pattern[i+1])
				i += 2
			} else {
				regex.WriteString("\\\\")
				i++
			}
		case '.', '+', '^', '$', '(', ')', '{', '}', '|':
			// Escape regex special characters
			regex.WriteByte('\\')
			regex.WriteByte(pattern[i])
			i++
		default:
			regex.WriteByte(pattern[i])
			i++
		}
	}

	regex.WriteString("$")

	return regexp.Compile(regex.String())
}

// ExclusionMatcher handles exclusion patterns for the file watcher. Bare
// names without wildcards or separators are treated as directory names and
// matched anywhere in the tree.
type ExclusionMatcher struct {
	matcher *PatternMatcher
}

// NewExclusionMatcher compiles exclusion patterns, expanding bare directory
// names to match at any depth.
func NewExclusionMatcher(patterns []string) (*ExclusionMatcher, error) {
	expanded := make([]string, len(patterns))
	for i, pattern := range patterns {
		if !strings.Contains(pattern, "*") && !strings.Contains(pattern, "/") {
			expanded[i] = "**/" + pattern + "/**"
		} else {
			expanded[i] = pattern
		}
	}

	matcher, err := NewPatternMatcher(expanded)
	if err != nil {
		return nil, err
	}

	return &ExclusionMatcher{matcher: matcher}, nil
}

// IsExcluded checks if a path should be excluded.
func (em *ExclusionMatcher) IsExcluded(path string) bool {
	path = filepath.ToSlash(path)

	if em.matcher.Match(path) {
		return true
	}

	base := filepath.Base(path)
	for _, exc := range DefaultExclusions() {
		if base == exc {
			return true
		}
	}

	return false
}

// FilterPaths removes excluded paths from a list.
func (em *ExclusionMatcher) FilterPaths(paths []string) []string {
	var filtered []string
	for _, path := range paths {
		if !em.IsExcluded(path) {
			filtered = append(filtered, path)
		}
	}
	return filtered
}

// DefaultExclusions returns directory names that are never watched.
func DefaultExclusions() []string {
	return []string{
		".git",
		".svn",
		".hg",
		".conjure",
		"node_modules",
		"vendor",
		"target",
		"build",
		"dist",
		"out",
		".cache",
		".idea",
		".vscode",
		"__pycache__",
	}
}
