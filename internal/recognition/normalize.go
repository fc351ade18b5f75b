package recognition

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// RemoveDiacritics removes diacritical marks from a string
// (e.g. "Jiří" -> "Jiri").
func RemoveDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// CleanSubjectName trims and collapses whitespace in a user-entered
// name, preserving its original casing and accents.
func CleanSubjectName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// NormalizeSubjectName normalizes a name for comparison (lowercase, no
// diacritics, spaces for dashes).
func NormalizeSubjectName(name string) string {
	name = RemoveDiacritics(CleanSubjectName(name))
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "-", " ")
	return name
}
