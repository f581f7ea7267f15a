// file: internals/helpers/name.go
package helper

import (
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeName canonicalizes a child's name for duplicate comparison:
// trim + case-fold. Display always keeps the original (trimmed) form.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SameName reports whether two names collide under the duplicate rule.
func SameName(a, b string) bool {
	return NormalizeName(a) == NormalizeName(b)
}

// SquashHeader normalizes a spreadsheet column header for alias matching:
// trim, case-fold, and drop all interior whitespace, so "رقم  التلفون "
// and "رقم التلفون" resolve to the same column.
func SquashHeader(header string) string {
	return whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(header)), "")
}
