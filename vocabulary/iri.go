package vocabulary

import (
	"net/url"
	"strings"
	"unicode"
)

// IsIRI reports whether s is shaped like an IRI: it parses as an absolute URL,
// or at minimum contains a colon and no whitespace.
func IsIRI(s string) bool {
	if s == "" || strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return false
	}
	if u, err := url.Parse(s); err == nil && u.Scheme != "" {
		return true
	}
	return strings.Contains(s, ":")
}

// IsHTTP reports whether s uses the http or https scheme.
func IsHTTP(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// MentionsKnown reports whether text contains any of the given vocabulary
// markers. When markers is empty the package defaults are used.
func MentionsKnown(text string, markers []string) bool {
	if len(markers) == 0 {
		markers = Markers
	}
	for _, m := range markers {
		if m != "" && strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// SplitCompact splits a compact IRI ("prefix:local") into its parts.
// Absolute IRIs ("scheme://...") and blank node labels ("_:b0") are not compact.
func SplitCompact(s string) (prefix, local string, ok bool) {
	i := strings.Index(s, ":")
	if i <= 0 {
		return "", "", false
	}
	prefix, local = s[:i], s[i+1:]
	if prefix == "_" || strings.HasPrefix(local, "//") {
		return "", "", false
	}
	return prefix, local, true
}
