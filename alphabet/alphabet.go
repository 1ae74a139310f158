// Package alphabet provides the ordered symbol sets used to select overflow tiers.
// Symbols are single ASCII bytes; lookups go through a 128-entry reverse table.
package alphabet

import "errors"

const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

var (
	// ErrEmpty is returned when building an alphabet with no symbols.
	ErrEmpty = errors.New("flowcode: empty alphabet")
	// ErrDuplicate is returned when a symbol appears more than once.
	ErrDuplicate = errors.New("flowcode: duplicate alphabet symbol")
	// ErrNonASCII is returned for symbols outside the printable ASCII range.
	ErrNonASCII = errors.New("flowcode: non-ASCII alphabet symbol")
)

var (
	// Full is the 26 Latin capitals A-Z.
	Full = MustNew(letters)
	// HumanReadable drops I and O, which read as 1 and 0.
	HumanReadable = MustNew("ABCDEFGHJKLMNPQRSTUVWXYZ")
)

// Alphabet is an immutable ordered set of symbols.
type Alphabet struct {
	symbols string
	index   *[128]int8
}

// New builds an alphabet from symbols, in order.
func New(symbols string) (Alphabet, error) {
	if len(symbols) == 0 {
		return Alphabet{}, ErrEmpty
	}
	if len(symbols) > 127 {
		return Alphabet{}, ErrDuplicate
	}
	var index [128]int8
	for i := range index {
		index[i] = -1
	}
	for i := 0; i < len(symbols); i++ {
		c := symbols[i]
		if c <= ' ' || c >= 127 {
			return Alphabet{}, ErrNonASCII
		}
		if index[c] >= 0 {
			return Alphabet{}, ErrDuplicate
		}
		index[c] = int8(i)
	}
	return Alphabet{symbols: symbols, index: &index}, nil
}

// MustNew is like New but panics on error.
func MustNew(symbols string) Alphabet {
	a, err := New(symbols)
	if err != nil {
		panic(err)
	}
	return a
}

// Len returns the number of symbols.
func (a Alphabet) Len() int {
	return len(a.symbols)
}

// At returns the i-th symbol.
func (a Alphabet) At(i int) byte {
	return a.symbols[i]
}

// Index returns the position of c, or false if c is not a symbol.
func (a Alphabet) Index(c byte) (int, bool) {
	if a.index == nil || c >= 128 {
		return 0, false
	}
	i := a.index[c]
	if i < 0 {
		return 0, false
	}
	return int(i), true
}

// Contains reports whether c is a symbol of the alphabet.
func (a Alphabet) Contains(c byte) bool {
	_, ok := a.Index(c)
	return ok
}

// Marker returns the last symbol. Overflow codes repeat it once per tier.
func (a Alphabet) Marker() byte {
	return a.symbols[len(a.symbols)-1]
}

func (a Alphabet) String() string {
	return a.symbols
}
