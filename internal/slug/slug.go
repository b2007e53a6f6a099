// Package slug implements the deterministic string-to-url-slug transform
// (component C). Uniqueness is enforced by the storage layer, not here.
//
// Import Path: github.com/shepherd-cms/corepress/internal/slug
package slug

import (
	"regexp"
	"strings"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	trimDashes      = regexp.MustCompile(`^-+|-+$`)
)

// Normalize lowercases s, replaces runs of non-alphanumeric characters with
// a single hyphen, and trims leading/trailing hyphens. It is pure and
// deterministic: the same input always produces the same output.
func Normalize(s string) string {
	lowered := strings.ToLower(strings.TrimSpace(s))
	replaced := nonAlphanumeric.ReplaceAllString(lowered, "-")
	return trimDashes.ReplaceAllString(replaced, "")
}

// Valid reports whether s already matches the storage-layer slug pattern
// `^[a-z0-9-]+$` used by blueprints and slug-kind fields.
func Valid(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}
	return true
}
