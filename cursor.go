package tablerender

import "fmt"

// NoRow is the cursor position meaning "no row selected".
const NoRow = -1

// Cursor is the row cursor of a data source. The renderer moves it through
// the rows during the children phase and always leaves it at [NoRow].
type Cursor interface {
	// SetRowIndex selects a row. NoRow clears the selection.
	SetRowIndex(index int) error
	// RowAvailable reports whether the selected row exists.
	RowAvailable() bool
	// RowCount returns the number of rows, or -1 when unknown.
	RowCount() int
}

// RowSource is a Cursor that can also hand out the item at a row index.
// Column content uses it to look up the row it is asked to render.
type RowSource[T any] interface {
	Cursor
	At(index int) (T, bool)
}

// Slice is a RowSource over an in-memory slice.
type Slice[T any] struct {
	items []T
	index int
}

// NewSlice returns a cursor over items positioned at NoRow.
func NewSlice[T any](items []T) *Slice[T] {
	return &Slice[T]{items: items, index: NoRow}
}

func (s *Slice[T]) SetRowIndex(index int) error {
	if index < NoRow {
		return fmt.Errorf("%w: %d", ErrRowIndex, index)
	}
	s.index = index
	return nil
}

func (s *Slice[T]) RowAvailable() bool {
	return s.index >= 0 && s.index < len(s.items)
}

func (s *Slice[T]) RowCount() int { return len(s.items) }

// RowIndex returns the selected row.
func (s *Slice[T]) RowIndex() int { return s.index }

func (s *Slice[T]) At(index int) (T, bool) {
	if index < 0 || index >= len(s.items) {
		var zero T
		return zero, false
	}
	return s.items[index], true
}
