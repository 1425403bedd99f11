// Package tabular loads the header row and one resolved column from a
// delimited file, and implements the header heuristics that locate an
// account-identifier column among arbitrary column names.
package tabular

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// preferredKeys are the normalized spellings that identify an account-id
// column outright, e.g. "ACCT_Id", "acct id", "AccountID".
var preferredKeys = map[string]struct{}{
	"acctid":    {},
	"accountid": {},
}

// NormalizeKey converts an arbitrary header name into the lowercase
// alphanumeric key used for matching. Accented characters are folded to
// their ASCII base (decompose, strip nonspacing marks, recompose) and
// everything outside [a-z0-9] is dropped.
func NormalizeKey(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))

	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	ascii, _, _ := transform.String(t, s)

	var b strings.Builder
	for _, r := range ascii {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ResolveIDColumn picks the most likely account-identifier column from the
// given header names. First pass: exact normalized match against the
// preferred spellings. Second pass: any column whose normalized name
// contains both an "acct" and an "id" fragment. Columns are considered in
// original left-to-right order within each pass, so the leftmost candidate
// wins ties.
//
// The second return value is false when no column matches; this is a
// recoverable condition for the caller, not an error.
func ResolveIDColumn(columns []string) (string, bool) {
	for _, c := range columns {
		if _, ok := preferredKeys[NormalizeKey(c)]; ok {
			return c, true
		}
	}
	for _, c := range columns {
		key := NormalizeKey(c)
		if strings.Contains(key, "acct") && strings.Contains(key, "id") {
			return c, true
		}
	}
	return "", false
}
