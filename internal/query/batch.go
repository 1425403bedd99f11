// Package query partitions a canonical identifier set into backend-safe
// batches and renders each batch into an executable payload. It is pure
// transformation: no network or database I/O happens here.
package query

import (
	"errors"

	"acctlookup/internal/identifier"
)

// ErrInvalidBatchSize is returned when the configured maximum batch size is
// not a positive integer. It is surfaced before any partitioning occurs.
var ErrInvalidBatchSize = errors.New("max batch size must be a positive integer")

// Batch is one contiguous chunk of an identifier set, bounded by the
// backend's IN-list limit. Index is the zero-based position of the batch in
// the run.
type Batch struct {
	Index int
	IDs   []string
}

// Partition splits the set into contiguous chunks of at most max tokens,
// preserving original order. The chunks partition the set exactly: no token
// is lost or duplicated, and concatenating them reproduces the set. The last
// chunk may be smaller than max.
func Partition(set *identifier.Set, max int) ([]Batch, error) {
	if max < 1 {
		return nil, ErrInvalidBatchSize
	}
	tokens := set.Tokens()
	batches := make([]Batch, 0, (len(tokens)+max-1)/max)
	for start := 0; start < len(tokens); start += max {
		end := start + max
		if end > len(tokens) {
			end = len(tokens)
		}
		batches = append(batches, Batch{
			Index: len(batches),
			IDs:   tokens[start:end],
		})
	}
	return batches, nil
}
