package tablerender

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Format represents an output format.
type Format string

const (
	HTML      Format = "html"
	XML       Format = "xml"
	TextTable Format = "text"
)

var formats = []Format{HTML, XML, TextTable}

// String returns the format name.
func (f Format) String() string { return string(f) }

// Formats returns all supported format names.
func Formats() []Format {
	out := make([]Format, len(formats))
	copy(out, formats)
	return out
}

// ParseFormat parses a format string.
func ParseFormat(s string) (Format, error) {
	for _, f := range formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Output is a Sink bound to a destination. Close finishes the document.
type Output interface {
	Sink
	Close() error
}

type markupOutput struct{ *MarkupWriter }

func (m markupOutput) Close() error {
	if m.Depth() > 0 {
		return fmt.Errorf("%w: %d elements left open", ErrUnbalanced, m.Depth())
	}
	return nil
}

type treeOutput struct {
	*TreeSink
	w io.Writer
}

func (t treeOutput) Close() error {
	_, err := t.WriteTo(t.w)
	return err
}

type textOutput struct{ *TextSink }

func (textOutput) Close() error { return nil }

// NewTextOutput returns a text table Output with the given border style.
func NewTextOutput(w io.Writer, border BorderStyle) Output {
	return textOutput{NewTextSink(w, border)}
}

// NewOutput returns an Output writing format f to w. Text output uses
// BorderRounded.
func NewOutput(w io.Writer, f Format) (Output, error) {
	switch f {
	case HTML:
		return markupOutput{NewMarkupWriter(w)}, nil
	case XML:
		return treeOutput{TreeSink: NewTreeSink(), w: w}, nil
	case TextTable:
		return NewTextOutput(w, BorderRounded), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// Rower provides row data. Required by [Write].
type Rower interface {
	Row() []string
}

// Headed provides column headers.
type Headed interface {
	Header() []string
}

// Footered provides column footers.
type Footered interface {
	Footer() []string
}

// Titled provides a table caption.
type Titled interface {
	Title() string
}

// Classed provides classes cycled over the body rows.
type Classed interface {
	RowClasses() []string
}

// TableOf builds a Table from items. Column i shows element i of each item's
// Row. Optional interfaces on the first item add headers, footers, a
// caption and row classes.
func TableOf[T any](items []T) (*Table, error) {
	src := NewSlice(items)
	t := &Table{Data: src}
	if len(items) == 0 {
		return t, nil
	}
	first := any(items[0])
	if _, ok := first.(Rower); !ok {
		return nil, fmt.Errorf("%w: requires Rower, not implemented by %T", ErrMissingInterface, items[0])
	}

	var header, footer []string
	if h, ok := first.(Headed); ok {
		header = h.Header()
	}
	if f, ok := first.(Footered); ok {
		footer = f.Footer()
	}
	if ti, ok := first.(Titled); ok && ti.Title() != "" {
		t.Caption = Text(ti.Title())
	}
	if c, ok := first.(Classed); ok {
		t.RowClasses = strings.Join(c.RowClasses(), ",")
	}

	numCols := max(len(header), len(footer))
	for i, item := range items {
		r, ok := any(item).(Rower)
		if !ok {
			return nil, fmt.Errorf("%w: requires Rower, not implemented by item %d (%T)", ErrMissingInterface, i, item)
		}
		numCols = max(numCols, len(r.Row()))
	}
	for i := range numCols {
		col := &Column{
			ID: "c" + strconv.Itoa(i),
			Children: []Component{Value(src, func(item T) string {
				r, ok := any(item).(Rower)
				if !ok {
					return ""
				}
				if row := r.Row(); i < len(row) {
					return row[i]
				}
				return ""
			})},
		}
		if i < len(header) {
			col.Header = Text(header[i])
		}
		if i < len(footer) {
			col.Footer = Text(footer[i])
		}
		t.Columns = append(t.Columns, col)
	}
	return t, nil
}

// Write renders items as a table in format f and writes it to w.
func Write[T any](w io.Writer, f Format, items ...T) error {
	out, err := NewOutput(w, f)
	if err != nil {
		return err
	}
	t, err := TableOf(items)
	if err != nil {
		return err
	}
	if err := New().Render(t, out); err != nil {
		return err
	}
	return out.Close()
}

// Marshal renders items as a table and returns the bytes.
func Marshal[T any](f Format, items ...T) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, f, items...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
