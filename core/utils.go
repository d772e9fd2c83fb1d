package core

import "strings"

// CleanString trims all leading and trailing whitespace in `s`.
func CleanString(s string) string {
	return strings.TrimSpace(s)
}

// CleanStrings trims each referenced string in place. Input structs use it to
// normalize all of their free-text fields in one call.
func CleanStrings(ss ...*string) {
	for _, s := range ss {
		*s = strings.TrimSpace(*s)
	}
}
