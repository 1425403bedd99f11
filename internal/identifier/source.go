package identifier

// Source abstracts how an identifier list was obtained. Each input variant
// (pasted text, tabular column, prior export) provides one implementation,
// and all of them converge on the same normalization rules, so downstream
// code never branches on the input's origin.
type Source interface {
	// Identifiers loads and normalizes the source into a canonical Set.
	Identifiers() (*Set, error)
}

// TextSource is pasted or typed free text, e.g. the contents of an input box
// or a plain-text file of identifiers.
type TextSource struct {
	Text string
}

func (s TextSource) Identifiers() (*Set, error) {
	return NormalizeText(s.Text), nil
}

// ValuesSource is a pre-extracted sequence of raw column values. Loaders that
// already hold the column in memory (CSV, spreadsheet) wrap it in this type.
type ValuesSource struct {
	Values []string
}

func (s ValuesSource) Identifiers() (*Set, error) {
	return NormalizeValues(s.Values), nil
}
