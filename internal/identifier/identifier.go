// Package identifier implements normalization of raw account-identifier
// input into a canonical, ordered, duplicate-free token set.
//
// Input arrives either as pasted free text (split on commas and whitespace)
// or as raw values from a tabular column. Both paths converge on the same
// cleaning rules: surrounding whitespace and quote characters are trimmed,
// empty tokens are dropped, and the first occurrence of a token wins.
//
// Strict validation against the identifier allowlist is a separate, explicit
// step so that callers constructing query payloads can guarantee every token
// is safe before any rendering happens, while lenient consumers (e.g. a
// preview of a loaded CSV column) can skip it.
package identifier

import (
	"fmt"
	"regexp"
)

// allowlist is the strict identifier pattern: ASCII letters, digits,
// underscore, hyphen, and dot, length 1-64.
var allowlist = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,64}$`)

// splitPattern tokenizes pasted free text on runs of commas and whitespace.
var splitPattern = regexp.MustCompile(`[,\s]+`)

// InvalidIdentifierError reports the first token that failed strict
// validation. The offending token is carried so the caller can show the user
// exactly what was rejected instead of silently dropping it.
type InvalidIdentifierError struct {
	Token string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid identifier %q: allowed are letters, digits, '_', '-', '.', length 1-64", e.Token)
}

// Valid reports whether tok satisfies the strict identifier allowlist.
func Valid(tok string) bool {
	return allowlist.MatchString(tok)
}
