// Package normalize provides canonical forms for user-entered values before
// they are validated or persisted.
package normalize

import "strings"

// Email lowercases and trims an email address. Lookup and uniqueness are
// case-insensitive; the stored form is the canonical one.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims and collapses interior whitespace runs to single spaces.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Role lowercases and trims a role label.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// LeadStatus uppercases and trims a lead workflow label. Statuses are stored
// in their canonical SCREAMING_SNAKE form.
func LeadStatus(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
