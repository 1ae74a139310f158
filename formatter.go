// Package flowcode turns sequential indices into short fixed-length codes.
//
// Indices below radix^length render as zero-padded radix numerals ("001").
// Larger indices spill into overflow tiers: the first digit is replaced by an
// alphabet symbol ("A00" .. "Z99"), then a marker symbol is prefixed once per
// further tier ("ZA0" .. "ZZ9", "ZZA" .. "ZZZ"). Codes never collide for a
// given Formatter and length, and Parse inverts Format.
package flowcode

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"github.com/paraglidehq/flowcode/alphabet"
)

// MaxDecimalRadix is the largest radix accepted with any alphabet size.
const MaxDecimalRadix = 10

var (
	ErrUnsupportedRadix = errors.New("flowcode: unsupported radix or alphabet size")
	ErrInvalidAlphabet  = errors.New("flowcode: invalid alphabet")
	ErrInvalidLength    = errors.New("flowcode: length must be at least 1")
	ErrNegativeValue    = errors.New("flowcode: value must not be negative")
	ErrValueTooLarge    = errors.New("flowcode: value too large for length")
	ErrInvalidCode      = errors.New("flowcode: invalid code")
)

// DefaultFormatter is used by Code. Radix 10 with the human-readable alphabet.
var DefaultFormatter = Must(New(MaxDecimalRadix, true))

// Formatter encodes indices for one radix and alphabet. It is immutable and
// safe for concurrent use.
type Formatter struct {
	alphabet alphabet.Alphabet
	radix    int64
}

// New returns a Formatter over the full A-Z alphabet, or over A-Z without
// I and O when humanReadable is set. The radix must be in [1, 10] or strictly
// between 10 and the alphabet size.
func New(radix int, humanReadable bool) (*Formatter, error) {
	a := alphabet.Full
	if humanReadable {
		a = alphabet.HumanReadable
	}
	// The whole alphabet stays in use above radix 10.
	if radix > MaxDecimalRadix && radix < a.Len() {
		return &Formatter{alphabet: a, radix: int64(radix)}, nil
	}
	if radix > 0 && radix <= MaxDecimalRadix {
		return &Formatter{alphabet: a, radix: int64(radix)}, nil
	}
	return nil, fmt.Errorf("%w: radix %d with %d symbols", ErrUnsupportedRadix, radix, a.Len())
}

// NewCustom returns a Formatter with a caller-supplied tier alphabet. The
// radix must be in [1, 36] and no symbol may double as a radix digit.
func NewCustom(radix int, symbols string) (*Formatter, error) {
	if radix < 1 || radix > 36 {
		return nil, fmt.Errorf("%w: radix %d", ErrUnsupportedRadix, radix)
	}
	a, err := alphabet.New(symbols)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAlphabet, err)
	}
	f := &Formatter{alphabet: a, radix: int64(radix)}
	for i := 0; i < a.Len(); i++ {
		if c := a.At(i); f.isDigit(c) {
			return nil, fmt.Errorf("%w: symbol %q is a radix %d digit", ErrInvalidAlphabet, c, radix)
		}
	}
	return f, nil
}

// Must panics if err is not nil
func Must(f *Formatter, err error) *Formatter {
	if err != nil {
		panic(err)
	}
	return f
}

// Radix returns the numeral base of the digit part.
func (f *Formatter) Radix() int {
	return int(f.radix)
}

// Alphabet returns the tier symbols.
func (f *Formatter) Alphabet() alphabet.Alphabet {
	return f.alphabet
}

// Marker returns the symbol repeated once per overflow tier.
func (f *Formatter) Marker() byte {
	return f.alphabet.Marker()
}

// Tiers returns the number of overflow tiers available at length. Every
// formatter gets one tier per code position, whatever its radix or alphabet.
func (f *Formatter) Tiers(length int) int {
	if length < 1 {
		return 0
	}
	return length
}

// MaxIndex returns the largest index Format accepts for length, or 0 when
// length < 1. The result saturates at math.MaxInt64.
func (f *Formatter) MaxIndex(length int) int64 {
	if length < 1 {
		return 0
	}
	limit, ok := f.pow(length)
	if !ok {
		return math.MaxInt64
	}
	maxIndex := limit - 1
	for tier := 0; tier < length; tier++ {
		maxIndex = addSat(maxIndex, f.span(length, tier))
	}
	return maxIndex
}

// Format encodes value as a code of the given nominal length.
func (f *Formatter) Format(value int64, length int) (string, error) {
	if length < 1 {
		return "", ErrInvalidLength
	}
	if value < 0 {
		return "", fmt.Errorf("%w: %d", ErrNegativeValue, value)
	}

	limit, ok := f.pow(length)
	if !ok || value < limit {
		return f.RenderRadix(value, length), nil
	}

	// ceiling is the last index covered by the tiers before the current one.
	ceiling := limit - 1
	for tier := 0; tier < length; tier++ {
		span := f.span(length, tier)
		if value-ceiling <= span {
			return f.assemble(value, length, tier, ceiling)
		}
		ceiling += span
	}

	return "", fmt.Errorf("%w: %d exceeds %d at length %d", ErrValueTooLarge, value, ceiling, length)
}

func (f *Formatter) assemble(value int64, length, tier int, ceiling int64) (string, error) {
	segment, _ := f.pow(length - 1 - tier)
	idx, err := safecast.Conv[int]((value - ceiling - 1) / segment)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrValueTooLarge, err)
	}

	var b strings.Builder
	b.Grow(length)
	for range tier {
		b.WriteByte(f.alphabet.Marker())
	}
	b.WriteByte(f.alphabet.At(idx))
	if segment > 1 {
		b.WriteString(f.RenderRadix(value%segment, length-1-tier))
	}
	return b.String(), nil
}

// RenderRadix renders value in the formatter's radix, left-padded with '0'
// to length. Longer renderings are returned unpadded. Digits above 9 are
// lower-case letters. Radix 1 has the single digit '0', so it renders only
// zero and returns "" for every other value.
func (f *Formatter) RenderRadix(value int64, length int) string {
	s := "0"
	switch {
	case f.radix == 1 && value != 0:
		return ""
	case f.radix > 1:
		s = strconv.FormatInt(value, int(f.radix))
	}
	if len(s) >= length {
		return s
	}
	return strings.Repeat("0", length-len(s)) + s
}

// Parse decodes a code produced by Format with the same length.
func (f *Formatter) Parse(code string, length int) (int64, error) {
	if length < 1 {
		return 0, ErrInvalidLength
	}
	if code == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidCode)
	}

	value, err := f.decode(code, length)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidCode, code, err)
	}
	// Only the canonical form of a value is accepted.
	if canonical, err := f.Format(value, length); err != nil || canonical != code {
		return 0, fmt.Errorf("%w: %q is not canonical", ErrInvalidCode, code)
	}
	return value, nil
}

func (f *Formatter) decode(code string, length int) (int64, error) {
	n := 0
	for n < len(code) && f.alphabet.Contains(code[n]) {
		n++
	}
	if n == 0 {
		return f.parseRadix(code)
	}

	tier := n - 1
	if tier >= length {
		return 0, errors.New("too many overflow tiers")
	}
	for i := 0; i < tier; i++ {
		if code[i] != f.alphabet.Marker() {
			return 0, fmt.Errorf("unexpected symbol %q in marker run", code[i])
		}
	}
	idx, _ := f.alphabet.Index(code[tier])

	limit, ok := f.pow(length)
	if !ok {
		return 0, errors.New("length out of range")
	}
	ceiling := limit - 1
	for k := 0; k < tier && ok; k++ {
		ceiling, ok = addChecked(ceiling, f.span(length, k))
	}
	segment, _ := f.pow(length - 1 - tier)

	var rem int64
	if segment > 1 {
		digits := code[n:]
		if len(digits) != length-1-tier {
			return 0, fmt.Errorf("want %d digits, got %d", length-1-tier, len(digits))
		}
		var err error
		if rem, err = f.parseRadix(digits); err != nil {
			return 0, err
		}
	} else if n != len(code) {
		return 0, errors.New("trailing digits")
	}

	value := ceiling
	for _, term := range []int64{1, mulSat(int64(idx), segment), rem} {
		if !ok {
			break
		}
		value, ok = addChecked(value, term)
	}
	if !ok {
		return 0, errors.New("value out of range")
	}
	return value, nil
}

func (f *Formatter) parseRadix(s string) (int64, error) {
	if f.radix == 1 {
		if strings.Trim(s, "0") != "" {
			return 0, errors.New("radix 1 has only the digit 0")
		}
		return 0, nil
	}
	for i := 0; i < len(s); i++ {
		if !f.isDigit(s[i]) {
			return 0, fmt.Errorf("%q is not a radix %d digit", s[i], f.radix)
		}
	}
	return strconv.ParseInt(s, int(f.radix), 64)
}

// isDigit reports whether c is a digit RenderRadix can emit.
func (f *Formatter) isDigit(c byte) bool {
	var d int64
	switch {
	case c >= '0' && c <= '9':
		d = int64(c - '0')
	case c >= 'a' && c <= 'z':
		d = int64(c-'a') + 10
	default:
		return false
	}
	return d < max(f.radix, 1)
}

// span is the number of indices covered by one overflow tier.
func (f *Formatter) span(length, tier int) int64 {
	segment, ok := f.pow(length - 1 - tier)
	if !ok {
		return math.MaxInt64
	}
	return mulSat(int64(f.alphabet.Len()), segment)
}

// pow returns radix^n, or false when it does not fit in an int64.
func (f *Formatter) pow(n int) (int64, bool) {
	if f.radix == 1 {
		return 1, true
	}
	result := int64(1)
	for range n {
		next := mulSat(result, f.radix)
		if next == math.MaxInt64 {
			return 0, false
		}
		result = next
	}
	return result, true
}

func mulSat(a, b int64) int64 {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(lo)
}

func addChecked(a, b int64) (int64, bool) {
	if a > math.MaxInt64-b {
		return 0, false
	}
	return a + b, true
}

func addSat(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}
