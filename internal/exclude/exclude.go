// file: internal/exclude/exclude.go
// version: 1.1.0
// guid: 4c8f2a1d-9e3b-4f67-a2c5-8d1e0b7f6a43

package exclude

import (
	"path/filepath"
	"strings"
)

// RuleSet decides which paths a monitoring session should ignore. It is
// built once per session and never mutated afterwards, so Excluded is
// safe to call from any goroutine.
type RuleSet struct {
	filePatterns []string
	dirNames     []string
}

// New builds a RuleSet from basename patterns (glob with `*` as the
// only wildcard) and literal directory names. Matching is
// case-insensitive; entries are normalized here so Excluded only
// compares lowercase strings.
func New(filePatterns, dirNames []string) *RuleSet {
	rs := &RuleSet{
		filePatterns: make([]string, 0, len(filePatterns)),
		dirNames:     make([]string, 0, len(dirNames)),
	}
	for _, p := range filePatterns {
		if p = strings.TrimSpace(p); p != "" {
			rs.filePatterns = append(rs.filePatterns, strings.ToLower(p))
		}
	}
	for _, d := range dirNames {
		if d = strings.TrimSpace(d); d != "" {
			rs.dirNames = append(rs.dirNames, strings.ToLower(d))
		}
	}
	return rs
}

// Excluded reports whether path, observed under root, should be
// ignored. The basename is matched against the file patterns, and
// every path segment below root — including the final one, so that an
// excluded directory itself is excluded and not just its contents — is
// compared against the directory names.
func (rs *RuleSet) Excluded(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(path)
	}

	segments := strings.Split(filepath.ToSlash(rel), "/")
	for _, seg := range segments {
		seg = strings.ToLower(seg)
		for _, name := range rs.dirNames {
			if seg == name {
				return true
			}
		}
	}

	base := strings.ToLower(segments[len(segments)-1])
	for _, pattern := range rs.filePatterns {
		if matchPattern(pattern, base) {
			return true
		}
	}
	return false
}

// matchPattern matches name against a glob pattern where `*` matches
// any run of characters and everything else is literal. Both arguments
// are already lowercase.
func matchPattern(pattern, name string) bool {
	parts := strings.Split(pattern, "*")
	if len(parts) == 1 {
		return name == pattern
	}

	if !strings.HasPrefix(name, parts[0]) {
		return false
	}
	name = name[len(parts[0]):]

	last := parts[len(parts)-1]
	for _, part := range parts[1 : len(parts)-1] {
		idx := strings.Index(name, part)
		if idx < 0 {
			return false
		}
		name = name[idx+len(part):]
	}

	return strings.HasSuffix(name, last)
}
