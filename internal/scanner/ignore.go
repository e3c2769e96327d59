package scanner

import (
	"path/filepath"
	"strings"
)

// IgnorePattern represents a single gitignore-style pattern.
type IgnorePattern struct {
	pattern     string
	isNegation  bool // pattern starts with !
	isDirectory bool // pattern ends with /
	isAbsolute  bool // pattern starts with /
	segments    []string
}

// ParseIgnorePattern parses a gitignore-style pattern string.
func ParseIgnorePattern(pattern string) IgnorePattern {
	p := IgnorePattern{pattern: pattern}

	body := pattern
	if strings.HasPrefix(body, "!") {
		p.isNegation = true
		body = body[1:]
	}
	if strings.HasSuffix(body, "/") {
		p.isDirectory = true
		body = strings.TrimSuffix(body, "/")
	}
	if strings.HasPrefix(body, "/") {
		p.isAbsolute = true
		body = body[1:]
	}
	p.segments = strings.Split(body, "/")

	return p
}

// IsNegation returns true if this pattern is a negation pattern.
func (p IgnorePattern) IsNegation() bool {
	return p.isNegation
}

// Match checks if the given slash-separated relative path matches.
func (p IgnorePattern) Match(path string) bool {
	path = filepath.ToSlash(path)
	pathSegments := strings.Split(path, "/")

	if p.isDirectory {
		// The path must be inside a directory matching the pattern.
		return p.matchAt(pathSegments, len(pathSegments)-len(p.segments))
	}

	if p.isAbsolute {
		return p.matchSegments(pathSegments)
	}

	for start := 0; start <= len(pathSegments)-len(p.segments); start++ {
		if p.matchSegments(pathSegments[start:]) {
			return true
		}
	}
	return false
}

// matchAt tries matching the pattern at any starting segment up to limit.
func (p IgnorePattern) matchAt(pathSegments []string, limit int) bool {
	if p.isAbsolute {
		limit = 0
	}
	for start := 0; start <= limit; start++ {
		ok := true
		for i, seg := range p.segments {
			if start+i >= len(pathSegments) || !segmentMatch(seg, pathSegments[start+i]) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// matchSegments matches the pattern against a path suffix, anchored at its
// first segment. A pattern naming a directory also matches everything under
// that directory.
func (p IgnorePattern) matchSegments(pathSegments []string) bool {
	if len(pathSegments) < len(p.segments) {
		return false
	}
	for i, seg := range p.segments {
		if !segmentMatch(seg, pathSegments[i]) {
			return false
		}
	}
	return true
}

// segmentMatch compares one pattern segment against one path segment,
// supporting * ? [] globs.
func segmentMatch(pattern, segment string) bool {
	if strings.ContainsAny(pattern, "*?[") {
		ok, err := filepath.Match(pattern, segment)
		return err == nil && ok
	}
	return strings.EqualFold(pattern, segment)
}
