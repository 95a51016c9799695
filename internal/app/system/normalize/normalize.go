// Package normalize canonicalizes user-entered values before they are
// validated or stored.
package normalize

import "strings"

// Email trims and lower-cases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace and collapses inner runs of spaces.
// Case is preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Currency trims and upper-cases an ISO 4217 code.
func Currency(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Language trims and lower-cases a language tag.
func Language(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Token trims and lower-cases an enumerated value such as a status or type.
func Token(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
