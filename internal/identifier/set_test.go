package identifier

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "newline separated",
			in:   "A001\nA002\nA003",
			want: []string{"A001", "A002", "A003"},
		},
		{
			name: "mixed commas and whitespace",
			in:   "A001, A002\tA003  A004",
			want: []string{"A001", "A002", "A003", "A004"},
		},
		{
			name: "duplicates keep first occurrence order",
			in:   "B2 A1 B2 C3 A1",
			want: []string{"B2", "A1", "C3"},
		},
		{
			name: "quoted tokens are unwrapped",
			in:   `'A001' "A002" A003`,
			want: []string{"A001", "A002", "A003"},
		},
		{
			name: "empty input",
			in:   "",
			want: nil,
		},
		{
			name: "whitespace only",
			in:   " \n\t ",
			want: nil,
		},
		{
			name: "tokens that clean to empty are dropped",
			in:   `A001 '' "" A002`,
			want: []string{"A001", "A002"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeText(tc.in)
			assert.Equal(t, tc.want, tokensOrNil(got))
			assert.Equal(t, len(tc.want), got.Len())
		})
	}
}

// Normalizing the joined output of a normalization must be a fixed point.
func TestNormalizeTextIdempotent(t *testing.T) {
	in := "A001, 'A002'\nA001 B-9 b-9 B-9"
	first := NormalizeText(in)
	second := NormalizeText(strings.Join(first.Tokens(), "\n"))
	require.Equal(t, first.Tokens(), second.Tokens())
	require.Equal(t, first.Fingerprint(), second.Fingerprint())
}

func TestNormalizeValues(t *testing.T) {
	vals := []string{" A001 ", "A001", "", "  ", `"A002"`, "A 0 3"}
	got := NormalizeValues(vals)
	// Column values are not re-split; inner whitespace survives.
	assert.Equal(t, []string{"A001", "A002", "A 0 3"}, got.Tokens())
}

func TestSetValidate(t *testing.T) {
	ok := NormalizeText("abc_1 B-2 c.3")
	require.NoError(t, ok.Validate())

	bad := NormalizeValues([]string{"A001", "O'Brien's", "A002"})
	err := bad.Validate()
	require.Error(t, err)

	var inv *InvalidIdentifierError
	require.True(t, errors.As(err, &inv))
	// Quote trimming only strips the edges, so the inner apostrophes remain
	// and the token must be reported, not dropped.
	assert.Equal(t, "O'Brien's", inv.Token)
}

func TestValid(t *testing.T) {
	cases := []struct {
		tok  string
		want bool
	}{
		{"A001", true},
		{"a_b-c.d", true},
		{strings.Repeat("x", 64), true},
		{strings.Repeat("x", 65), false},
		{"", false},
		{"has space", false},
		{"semi;colon", false},
		{"quote'", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Valid(tc.tok), "token %q", tc.tok)
	}
}

func TestFingerprintOrderSensitive(t *testing.T) {
	a := NormalizeText("A B C")
	b := NormalizeText("C B A")
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestSources(t *testing.T) {
	text := TextSource{Text: "A001, A002"}
	set, err := text.Identifiers()
	require.NoError(t, err)
	assert.Equal(t, []string{"A001", "A002"}, set.Tokens())

	vals := ValuesSource{Values: []string{"A002", "A002", "A003"}}
	set, err = vals.Identifiers()
	require.NoError(t, err)
	assert.Equal(t, []string{"A002", "A003"}, set.Tokens())
}

func tokensOrNil(s *Set) []string {
	if s.Len() == 0 {
		return nil
	}
	return s.Tokens()
}
