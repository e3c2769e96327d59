package transform

import (
	"path"
	"strings"
	"unicode"
	"unicode/utf8"
)

// CanonicalName returns the renamed form of a component or prop-type name.
// Names already carrying the marker are returned unchanged, so applying the
// rule twice is a no-op.
func CanonicalName(marker, name string) string {
	if strings.HasPrefix(name, marker) {
		return name
	}
	return marker + name
}

// CanonicalFileName returns the on-disk file name for a transformed component
// module: the lowercased marker plus a dash, prepended to the base name.
// This is the rule the batch driver must use when writing output files so
// that rewritten import paths resolve.
func CanonicalFileName(marker, base string) string {
	lower := strings.ToLower(marker)
	if strings.HasPrefix(base, lower+"-") {
		return base
	}
	return lower + "-" + base
}

// CanonicalImportPath rewrites a relative module specifier to point at the
// canonical file name. Non-relative specifiers are returned unchanged.
func CanonicalImportPath(marker, spec string) string {
	if !isRelativeSpecifier(spec) {
		return spec
	}
	dir, base := path.Split(spec)
	return dir + CanonicalFileName(marker, base)
}

// isRelativeSpecifier reports whether a module specifier refers to a sibling
// file rather than a package.
func isRelativeSpecifier(spec string) bool {
	return strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../")
}

// isComponentName reports whether an identifier follows the component naming
// convention (leading uppercase letter). Lowercase helpers and intrinsic JSX
// tags never qualify.
func isComponentName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

// hasCanonicalPath reports whether a relative specifier already points at a
// canonical file name.
func hasCanonicalPath(marker, spec string) bool {
	return CanonicalImportPath(marker, spec) == spec
}
