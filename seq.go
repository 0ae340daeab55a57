package tablerender

import (
	"fmt"
	"iter"
)

// Seq is a RowSource over an iterator. Items are pulled on demand as the
// cursor advances and kept, so a later pass can rewind and walk them again.
// Call Stop when the source is no longer needed.
type Seq[T any] struct {
	next  func() (T, bool)
	stop  func()
	items []T
	done  bool
	index int
}

// NewSeq returns a cursor over seq positioned at NoRow.
func NewSeq[T any](seq iter.Seq[T]) *Seq[T] {
	next, stop := iter.Pull(seq)
	return &Seq[T]{next: next, stop: stop, index: NoRow}
}

// FromChan returns a cursor over the items received from ch.
// It is a thin wrapper around [NewSeq].
func FromChan[T any](ch <-chan T) *Seq[T] {
	return NewSeq(chanToIter(ch))
}

func chanToIter[T any](ch <-chan T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for item := range ch {
			if !yield(item) {
				return
			}
		}
	}
}

func (s *Seq[T]) SetRowIndex(index int) error {
	if index < NoRow {
		return fmt.Errorf("%w: %d", ErrRowIndex, index)
	}
	s.index = index
	s.fill(index)
	return nil
}

// fill pulls items until index is buffered or the iterator is exhausted.
func (s *Seq[T]) fill(index int) {
	for !s.done && len(s.items) <= index {
		item, ok := s.next()
		if !ok {
			s.done = true
			s.stop()
			return
		}
		s.items = append(s.items, item)
	}
}

func (s *Seq[T]) RowAvailable() bool {
	return s.index >= 0 && s.index < len(s.items)
}

// RowCount returns -1 until the iterator has been drained.
func (s *Seq[T]) RowCount() int {
	if !s.done {
		return -1
	}
	return len(s.items)
}

func (s *Seq[T]) At(index int) (T, bool) {
	if index >= 0 {
		s.fill(index)
	}
	if index < 0 || index >= len(s.items) {
		var zero T
		return zero, false
	}
	return s.items[index], true
}

// Stop releases the underlying iterator. Buffered items stay readable.
func (s *Seq[T]) Stop() {
	if !s.done {
		s.done = true
		s.stop()
	}
}
