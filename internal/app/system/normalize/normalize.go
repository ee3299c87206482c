// Package normalize provides canonical forms for identifiers used as
// natural keys across collections. Emails are compared case-insensitively
// everywhere, so they are lowered once at the boundary.
package normalize

import "strings"

// Email trims whitespace and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims whitespace but preserves case (club names and person names
// are displayed as entered).
func Name(s string) string {
	return strings.TrimSpace(s)
}
