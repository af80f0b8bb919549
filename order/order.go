// Package order provides comparators for sorting and deduplicating
// queues of strings.
//
// Every Comparator must describe a total order: consistent,
// antisymmetric and transitive, returning 0 only for values that
// should be treated as duplicates.
package order

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"

	"github.com/tychoish/fun/ers"
)

// ErrUnknownComparator is returned by Named for names that have no
// registered comparator.
const ErrUnknownComparator ers.Error = ers.Error("unknown comparator")

// Comparator reports the relative order of two values: negative when
// a sorts before b, positive when it sorts after, and 0 when the
// values are equal.
type Comparator func(a, b string) int

// Lexical compares strings byte-wise.
func Lexical(a, b string) int { return strings.Compare(a, b) }

// Numeric compares values that parse as numbers by their numeric
// value. Numbers sort before values that do not parse, and
// non-numeric values compare lexically with each other. Numerically
// equal values with different spellings ("1" and "1.0") fall back to
// a lexical comparison so that only identical strings compare as
// equal.
func Numeric(a, b string) int {
	av, aerr := strconv.ParseFloat(a, 64)
	bv, berr := strconv.ParseFloat(b, 64)

	switch {
	case aerr == nil && berr == nil:
		if c := cmp.Compare(av, bv); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	case aerr == nil:
		return -1
	case berr == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// Converter builds a comparator that orders values by a key derived
// from each string. Ties on the key are not broken, so two strings
// with the same key are duplicates under the resulting comparator.
func Converter[K cmp.Ordered](key func(string) K) Comparator {
	return func(a, b string) int { return cmp.Compare(key(a), key(b)) }
}

// Reverse inverts the sense of a comparator. Values that were equal
// remain equal.
func Reverse(fn Comparator) Comparator { return func(a, b string) int { return fn(b, a) } }

// Named resolves a comparator by name: "lexical" (or the empty
// string) and "numeric".
func Named(name string) (Comparator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "lexical", "lex", "string":
		return Lexical, nil
	case "numeric", "num", "number":
		return Numeric, nil
	default:
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownComparator)
	}
}
