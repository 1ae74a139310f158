package flowcode

import (
	"fmt"
	"sync/atomic"
)

// ErrExhausted is returned by Sequencer.Next once every index fitting the
// length has been handed out. It matches ErrValueTooLarge with errors.Is.
var ErrExhausted = fmt.Errorf("flowcode: sequence exhausted: %w", ErrValueTooLarge)

// Sequencer hands out consecutive codes of one length. Safe for concurrent use.
type Sequencer struct {
	f      *Formatter
	length int
	max    int64
	next   atomic.Int64
}

// NewSequencer returns a Sequencer whose first code encodes start.
func NewSequencer(f *Formatter, length int, start int64) (*Sequencer, error) {
	if length < 1 {
		return nil, ErrInvalidLength
	}
	if start < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeValue, start)
	}
	s := &Sequencer{
		f:      f,
		length: length,
		max:    f.MaxIndex(length),
	}
	s.next.Store(start)
	return s, nil
}

// Next returns the code for the next index.
func (s *Sequencer) Next() (string, error) {
	for {
		v := s.next.Load()
		// v wraps negative after math.MaxInt64.
		if v < 0 || v > s.max {
			return "", fmt.Errorf("%w: max index %d at length %d", ErrExhausted, s.max, s.length)
		}
		if s.next.CompareAndSwap(v, v+1) {
			return s.f.Format(v, s.length)
		}
	}
}

// Peek returns the index the next call to Next will encode.
func (s *Sequencer) Peek() int64 {
	return s.next.Load()
}

// Remaining returns how many codes Next can still return.
func (s *Sequencer) Remaining() int64 {
	v := s.next.Load()
	if v < 0 || v > s.max {
		return 0
	}
	return addSat(s.max-v, 1)
}

// Length returns the code length every Next call renders at.
func (s *Sequencer) Length() int {
	return s.length
}
