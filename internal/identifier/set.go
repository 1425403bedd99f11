package identifier

import (
	"strings"

	"github.com/zeebo/xxh3"
)

// Set is an ordered collection of unique identifier tokens. Insertion order
// is first-seen order from the input source; uniqueness uses exact string
// equality. The zero value is not usable; construct with NewSet or one of
// the Normalize functions.
type Set struct {
	tokens []string
	seen   map[string]struct{}
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{seen: make(map[string]struct{})}
}

// Add cleans tok and appends it unless it is empty after cleaning or already
// present. It reports whether the token was added.
func (s *Set) Add(tok string) bool {
	tok = clean(tok)
	if tok == "" {
		return false
	}
	if _, dup := s.seen[tok]; dup {
		return false
	}
	s.seen[tok] = struct{}{}
	s.tokens = append(s.tokens, tok)
	return true
}

// Len returns the number of tokens in the set.
func (s *Set) Len() int { return len(s.tokens) }

// Tokens returns the tokens in first-seen order. The returned slice is a
// copy; mutating it does not affect the set.
func (s *Set) Tokens() []string {
	out := make([]string, len(s.tokens))
	copy(out, s.tokens)
	return out
}

// Validate checks every token against the strict allowlist and returns an
// *InvalidIdentifierError for the first failure, in set order.
func (s *Set) Validate() error {
	for _, tok := range s.tokens {
		if !Valid(tok) {
			return &InvalidIdentifierError{Token: tok}
		}
	}
	return nil
}

// Fingerprint returns an xxh3 digest of the canonical token sequence. Two
// sets with the same tokens in the same order share a fingerprint; it is
// used for run-traceability logging, not for equality proofs.
func (s *Set) Fingerprint() uint64 {
	return xxh3.HashString(strings.Join(s.tokens, "\n"))
}

// clean trims surrounding whitespace and leading/trailing quote characters
// from a raw token.
func clean(tok string) string {
	tok = strings.TrimSpace(tok)
	return strings.Trim(tok, `'"`)
}

// NormalizeText tokenizes pasted free text and returns the canonical set.
// The text is split on runs of commas and whitespace; an all-empty input
// yields an empty set, not an error.
func NormalizeText(text string) *Set {
	s := NewSet()
	text = strings.TrimSpace(text)
	if text == "" {
		return s
	}
	for _, tok := range splitPattern.Split(text, -1) {
		s.Add(tok)
	}
	return s
}

// NormalizeValues builds the canonical set from raw tabular column values.
// Each value is one candidate token; no further splitting is applied.
func NormalizeValues(values []string) *Set {
	s := NewSet()
	for _, v := range values {
		s.Add(v)
	}
	return s
}
